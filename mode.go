package strokefit

import (
	"fmt"
	"strings"
)

// Mode selects how a stroke is constrained to the surface.
type Mode int

const (
	// ErrorMode is the zero value. It is never a valid mode.
	ErrorMode Mode = iota
	// LevelMode keeps every point of the stroke at StartLevel from the
	// surface.
	LevelMode
	// FurMode constrains root and tip only. The root leaves the surface
	// along the surface normal.
	FurMode
	// FeatherMode constrains root and tip only. The root direction is
	// taken from the stroke's minimum-skew plane.
	FeatherMode
)

func (m Mode) String() string {
	switch m {
	case LevelMode:
		return "level"
	case FurMode:
		return "fur"
	case FeatherMode:
		return "feather"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of LevelMode, FurMode and FeatherMode.
func (m Mode) Valid() bool {
	return m == LevelMode || m == FurMode || m == FeatherMode
}

// ParseMode parses the names returned by [Mode.String] as well as the
// numeric values 1, 2 and 3.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "level", "1":
		return LevelMode, nil
	case "fur", "2":
		return FurMode, nil
	case "feather", "3":
		return FeatherMode, nil
	}
	return ErrorMode, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, m)
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Weights are the coefficients of the objective's three terms.
type Weights struct {
	Error  float64
	Angle  float64
	Length float64
}

// DefaultWeights returns the coefficient table used by [DefaultOptions].
func DefaultWeights() map[Mode]Weights {
	return map[Mode]Weights{
		LevelMode:   {Error: 1, Angle: 0.1, Length: 0},
		FurMode:     {Error: 1, Angle: 0.1, Length: 0.05},
		FeatherMode: {Error: 1, Angle: 0.1, Length: 0.05},
	}
}

package strokefit

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// Seeding selects how interior rays of fur and feather strokes get their
// initial parameter.
type Seeding int

const (
	// SeedLinear interpolates t between the root and tip rays by index.
	SeedLinear Seeding = iota
	// SeedSkewPlane intersects each interior ray with the plane through
	// the tip whose normal is D × (R × D), where D points from the tip to
	// the root and R is the tip ray's direction.
	SeedSkewPlane
)

func (s Seeding) String() string {
	switch s {
	case SeedLinear:
		return "linear"
	case SeedSkewPlane:
		return "skew-plane"
	default:
		return fmt.Sprintf("Seeding(%d)", int(s))
	}
}

func ParseSeeding(s string) (Seeding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return SeedLinear, nil
	case "skew-plane", "skewplane", "skew":
		return SeedSkewPlane, nil
	}
	return 0, fmt.Errorf("%w: unknown seeding %q", ErrInvalidOptions, s)
}

// Strategy selects the refinement algorithm.
type Strategy int

const (
	// CoordinateDescent refines one ray at a time, in order, with later
	// rays seeing the updates of earlier ones.
	CoordinateDescent Strategy = iota
	// WholeStroke computes the gradient for all rays at once, applies it,
	// and shrinks the finite-difference step as the gradient vanishes.
	WholeStroke
)

func (s Strategy) String() string {
	switch s {
	case CoordinateDescent:
		return "coordinate"
	case WholeStroke:
		return "whole-stroke"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coordinate", "coordinate-descent", "":
		return CoordinateDescent, nil
	case "whole-stroke", "whole", "wholestroke":
		return WholeStroke, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidOptions, s)
}

// Options configures a fit. The zero value is not usable; start from
// [DefaultOptions].
type Options struct {
	Mode       Mode
	StartLevel float64
	EndLevel   float64

	// Tolerance is the offset error below which the converging
	// initializer stops.
	Tolerance float64
	// Slack is the minimum improvement the line search must make to keep
	// going, and its smallest step.
	Slack float64
	// MaxIterations caps each initializer loop, and the number of
	// whole-stroke refinement iterations.
	MaxIterations int
	Seeding       Seeding
	// Workers is the number of rays seeded concurrently in LevelMode.
	// The surface must be safe for concurrent use when Workers > 1.
	Workers int

	Strategy Strategy
	// H is the forward-difference step.
	H          float64
	GammaInit  float64
	GammaFloor float64
	DecayRate  float64
	// GradientFloor is the squared gradient below which a ray is
	// considered converged.
	GradientFloor float64
	// MaxPasses caps the number of coordinate descent passes over the
	// stroke.
	MaxPasses int

	Weights map[Mode]Weights

	// CacheSize is the number of closest-point results a session caches.
	// Zero disables caching.
	CacheSize int

	// Logger receives diagnostics. A nil Logger discards them.
	Logger *slog.Logger
}

// DefaultOptions returns options for a LevelMode stroke at level 0.
func DefaultOptions() Options {
	return Options{
		Mode:          LevelMode,
		Tolerance:     0.1,
		Slack:         0.005,
		MaxIterations: 200,
		Seeding:       SeedLinear,
		Workers:       1,
		Strategy:      CoordinateDescent,
		H:             0.001,
		GammaInit:     5,
		GammaFloor:    0.01,
		DecayRate:     0.03,
		GradientFloor: 1e-9,
		MaxPasses:     8,
		Weights:       DefaultWeights(),
		CacheSize:     4096,
	}
}

// Clone returns a copy of opts whose Weights map is not shared.
func (opts Options) Clone() Options {
	opts.Weights = maps.Clone(opts.Weights)
	return opts
}

// WeightsFor returns the coefficients for mode, falling back to the
// defaults when the table has no entry.
func (opts Options) WeightsFor(mode Mode) Weights {
	if w, ok := opts.Weights[mode]; ok {
		return w
	}
	return DefaultWeights()[mode]
}

// MaxDescentIterations is the number of iterations the per-ray descent can
// take before gamma reaches its floor.
func (opts Options) MaxDescentIterations() int {
	return int((opts.GammaInit-opts.GammaFloor)/opts.DecayRate) + 1
}

func (opts Options) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, fmt.Sprintf(format, args...))
	}
	switch {
	case !opts.Mode.Valid():
		return bad("mode %v", opts.Mode)
	case !isFinite(opts.StartLevel) || opts.StartLevel < 0:
		return bad("start level %g", opts.StartLevel)
	case !isFinite(opts.EndLevel) || opts.EndLevel < 0:
		return bad("end level %g", opts.EndLevel)
	case !(opts.Tolerance > 0):
		return bad("tolerance %g must be positive", opts.Tolerance)
	case !(opts.Slack > 0):
		return bad("slack %g must be positive", opts.Slack)
	case opts.MaxIterations < 1:
		return bad("max iterations %d", opts.MaxIterations)
	case opts.Seeding != SeedLinear && opts.Seeding != SeedSkewPlane:
		return bad("seeding %v", opts.Seeding)
	case opts.Workers < 1:
		return bad("workers %d", opts.Workers)
	case opts.Strategy != CoordinateDescent && opts.Strategy != WholeStroke:
		return bad("strategy %v", opts.Strategy)
	case !(opts.H > 0):
		return bad("h %g must be positive", opts.H)
	case !(opts.GammaInit > opts.GammaFloor) || opts.GammaFloor < 0:
		return bad("gamma range [%g, %g]", opts.GammaFloor, opts.GammaInit)
	case !(opts.DecayRate > 0):
		return bad("decay rate %g must be positive", opts.DecayRate)
	case !(opts.GradientFloor >= 0):
		return bad("gradient floor %g", opts.GradientFloor)
	case opts.MaxPasses < 1:
		return bad("max passes %d", opts.MaxPasses)
	case opts.CacheSize < 0:
		return bad("cache size %d", opts.CacheSize)
	}
	for m, w := range opts.Weights {
		if !isFinite(w.Error) || !isFinite(w.Angle) || !isFinite(w.Length) ||
			w.Error < 0 || w.Angle < 0 || w.Length < 0 {
			return bad("weights for %v: %+v", m, w)
		}
	}
	return nil
}

// level returns the target offset for ray i of an n-ray stroke.
func (opts Options) level(i, n int) float64 {
	if opts.Mode != LevelMode && i == n-1 && n > 1 {
		return opts.EndLevel
	}
	return opts.StartLevel
}

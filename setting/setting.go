// Package setting persists the tunables of a stroke fitting session as an
// ini file.
//
// A settings file may set any subset of the keys; missing keys keep the
// values of the options it is applied to:
//
//	[tool]
//	MODE = feather
//	START_LEVEL = 0.5
//	END_LEVEL = 0
//
//	[refiner]
//	STRATEGY = coordinate
//	DECAY_RATE = 0.01
package setting

import (
	"fmt"
	"io"

	ini "gopkg.in/ini.v1"

	"honnef.co/go/strokefit"
)

// Tool is the [tool] section.
type Tool struct {
	Mode       string  `ini:"MODE" comment:"level, fur or feather"`
	StartLevel float64 `ini:"START_LEVEL" comment:"offset of the first point, or of every point in level mode"`
	EndLevel   float64 `ini:"END_LEVEL" comment:"offset of the last point in fur and feather mode"`
}

// Initializer is the [initializer] section.
type Initializer struct {
	Tolerance     float64 `ini:"TOLERANCE"`
	Slack         float64 `ini:"SLACK"`
	MaxIterations int     `ini:"MAX_ITERATIONS"`
	Seeding       string  `ini:"SEEDING" comment:"linear or skew-plane"`
	Workers       int     `ini:"WORKERS"`
}

// Refiner is the [refiner] section.
type Refiner struct {
	Strategy      string  `ini:"STRATEGY" comment:"coordinate or whole-stroke"`
	H             float64 `ini:"H"`
	GammaInit     float64 `ini:"GAMMA_INIT"`
	GammaFloor    float64 `ini:"GAMMA_FLOOR"`
	DecayRate     float64 `ini:"DECAY_RATE"`
	GradientFloor float64 `ini:"GRADIENT_FLOOR"`
	MaxPasses     int     `ini:"MAX_PASSES"`
}

// Objective holds the coefficients of one mode, in the
// [objective.<mode>] sections.
type Objective struct {
	Error  float64 `ini:"W_ERROR"`
	Angle  float64 `ini:"W_ANGLE"`
	Length float64 `ini:"W_LENGTH"`
}

// Cache is the [cache] section.
type Cache struct {
	Size int `ini:"SIZE" comment:"0 disables caching"`
}

// Settings is the content of a settings file.
type Settings struct {
	Tool        Tool
	Initializer Initializer
	Refiner     Refiner
	Objective   map[strokefit.Mode]*Objective
	Cache       Cache
}

var modes = []strokefit.Mode{strokefit.LevelMode, strokefit.FurMode, strokefit.FeatherMode}

func objectiveSection(m strokefit.Mode) string { return "objective." + m.String() }

// FromOptions returns the settings describing opts.
func FromOptions(opts strokefit.Options) *Settings {
	s := &Settings{
		Tool: Tool{
			Mode:       opts.Mode.String(),
			StartLevel: opts.StartLevel,
			EndLevel:   opts.EndLevel,
		},
		Initializer: Initializer{
			Tolerance:     opts.Tolerance,
			Slack:         opts.Slack,
			MaxIterations: opts.MaxIterations,
			Seeding:       opts.Seeding.String(),
			Workers:       opts.Workers,
		},
		Refiner: Refiner{
			Strategy:      opts.Strategy.String(),
			H:             opts.H,
			GammaInit:     opts.GammaInit,
			GammaFloor:    opts.GammaFloor,
			DecayRate:     opts.DecayRate,
			GradientFloor: opts.GradientFloor,
			MaxPasses:     opts.MaxPasses,
		},
		Objective: make(map[strokefit.Mode]*Objective, len(modes)),
		Cache:     Cache{Size: opts.CacheSize},
	}
	for _, m := range modes {
		w := opts.WeightsFor(m)
		s.Objective[m] = &Objective{Error: w.Error, Angle: w.Angle, Length: w.Length}
	}
	return s
}

// Apply returns a copy of base with the settings applied. The result is
// validated.
func (s *Settings) Apply(base strokefit.Options) (strokefit.Options, error) {
	opts := base.Clone()
	var err error
	if opts.Mode, err = strokefit.ParseMode(s.Tool.Mode); err != nil {
		return base, fmt.Errorf("[tool] MODE: %w", err)
	}
	if opts.Seeding, err = strokefit.ParseSeeding(s.Initializer.Seeding); err != nil {
		return base, fmt.Errorf("[initializer] SEEDING: %w", err)
	}
	if opts.Strategy, err = strokefit.ParseStrategy(s.Refiner.Strategy); err != nil {
		return base, fmt.Errorf("[refiner] STRATEGY: %w", err)
	}
	opts.StartLevel = s.Tool.StartLevel
	opts.EndLevel = s.Tool.EndLevel

	opts.Tolerance = s.Initializer.Tolerance
	opts.Slack = s.Initializer.Slack
	opts.MaxIterations = s.Initializer.MaxIterations
	opts.Workers = s.Initializer.Workers

	opts.H = s.Refiner.H
	opts.GammaInit = s.Refiner.GammaInit
	opts.GammaFloor = s.Refiner.GammaFloor
	opts.DecayRate = s.Refiner.DecayRate
	opts.GradientFloor = s.Refiner.GradientFloor
	opts.MaxPasses = s.Refiner.MaxPasses

	if opts.Weights == nil {
		opts.Weights = make(map[strokefit.Mode]strokefit.Weights, len(s.Objective))
	}
	for m, o := range s.Objective {
		opts.Weights[m] = strokefit.Weights{Error: o.Error, Angle: o.Angle, Length: o.Length}
	}
	opts.CacheSize = s.Cache.Size

	if err := opts.Validate(); err != nil {
		return base, err
	}
	return opts, nil
}

// Load reads settings from source, which may be a file name, a []byte or
// an io.Reader, on top of the settings describing base.
func Load(source any, base strokefit.Options) (*Settings, error) {
	cfg, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("setting: %w", err)
	}
	s := FromOptions(base)
	for name, v := range s.sections() {
		if err := cfg.Section(name).MapTo(v); err != nil {
			return nil, fmt.Errorf("setting: failed to map [%s]: %w", name, err)
		}
	}
	return s, nil
}

// LoadOptions is like [Load] but returns the options that result from
// applying the settings to base.
func LoadOptions(source any, base strokefit.Options) (strokefit.Options, error) {
	s, err := Load(source, base)
	if err != nil {
		return base, err
	}
	return s.Apply(base)
}

// WriteTo writes the settings in ini format.
func (s *Settings) WriteTo(w io.Writer) (int64, error) {
	cfg := ini.Empty()
	secs := s.sections()
	for _, name := range s.sectionNames() {
		if err := cfg.Section(name).ReflectFrom(secs[name]); err != nil {
			return 0, fmt.Errorf("setting: failed to reflect [%s]: %w", name, err)
		}
	}
	return cfg.WriteTo(w)
}

func (s *Settings) sectionNames() []string {
	names := []string{"tool", "initializer", "refiner"}
	for _, m := range modes {
		names = append(names, objectiveSection(m))
	}
	return append(names, "cache")
}

func (s *Settings) sections() map[string]any {
	out := map[string]any{
		"tool":        &s.Tool,
		"initializer": &s.Initializer,
		"refiner":     &s.Refiner,
		"cache":       &s.Cache,
	}
	if s.Objective == nil {
		s.Objective = make(map[strokefit.Mode]*Objective, len(modes))
	}
	for _, m := range modes {
		o, ok := s.Objective[m]
		if !ok {
			o = &Objective{}
			s.Objective[m] = o
		}
		out[objectiveSection(m)] = o
	}
	return out
}

package strokefit

import (
	"context"
	"log/slog"
	"math"
)

// wholeStrokeMinH is the fraction of Options.H below which the
// whole-stroke refiner stops shrinking its difference step.
const wholeStrokeMinH = 1.0 / 64

// RefineState is the progress of a [Fitter].
type RefineState struct {
	// Initialized reports whether the rays have been seeded.
	Initialized bool
	// Pass is the number of completed passes over the stroke
	// (coordinate descent).
	Pass int
	// Index is the next ray to refine in the current pass
	// (coordinate descent).
	Index int
	// Iterations is the total number of descent steps taken.
	Iterations int
	// MaxMove is the largest change of any t in the current pass.
	MaxMove float64
	// H and Gamma are the current difference step and learning rate
	// (whole stroke).
	H     float64
	Gamma float64
	// GradientNorm is the magnitude of the last whole-stroke gradient.
	GradientNorm float64
	// Done reports whether refinement has finished.
	Done bool
}

// Result is the outcome of a fit.
type Result struct {
	// Points are the fitted positions, root first.
	Points []Point3
	// Params are the fitted t values.
	Params []float64
	// Warnings are the loops that gave up before meeting their
	// tolerance. Their best-effort values are part of Points.
	Warnings []NonConvergenceWarning
	// Passes is the number of completed coordinate descent passes, and
	// Iterations the number of descent steps.
	Passes     int
	Iterations int
	// Objective is the final value of the objective.
	Objective float64
}

// Fitter fits one stroke. It is a resumable state machine: after
// [Fitter.Initialize], every call to [Fitter.Step] performs a bounded
// amount of work, so a host can interleave refinement with other work or
// abandon it.
//
// A Fitter owns a copy of the stroke it was created with.
type Fitter struct {
	surface Surface
	stroke  Stroke
	opts    Options
	log     *slog.Logger
	obj     *Objective
	state   RefineState

	warnings []NonConvergenceWarning
	// residual is the last gradient of every ray, and converged whether
	// its last descent met the gradient floor.
	residual  []float64
	converged []bool
}

// NewFitter returns a fitter for a copy of stroke. It fails with a
// [NoSurfaceError] if s is nil and with a [DegenerateStrokeError] if the
// stroke has fewer than two rays.
func NewFitter(s Surface, stroke Stroke, opts Options) (*Fitter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &NoSurfaceError{}
	}
	if len(stroke) < 2 {
		return nil, &DegenerateStrokeError{Samples: len(stroke)}
	}
	f := &Fitter{
		surface:   s,
		stroke:    stroke.Clone(),
		opts:      opts,
		log:       loggerOrNop(opts.Logger),
		residual:  make([]float64, len(stroke)),
		converged: make([]bool, len(stroke)),
	}
	f.obj = NewObjective(s, f.stroke, opts)
	f.state.H = opts.H
	f.state.Gamma = opts.GammaInit
	return f, nil
}

// Initialize seeds the t values of all rays. It is a no-op if the fitter
// is already initialized.
func (f *Fitter) Initialize(ctx context.Context) error {
	if f.state.Initialized {
		return nil
	}
	in := initializer{surface: f.surface, opts: f.opts, log: f.log}
	warnings, err := in.initialize(ctx, f.stroke)
	if err != nil {
		return err
	}
	f.warnings = append(f.warnings, warnings...)
	f.state.Initialized = true
	return nil
}

// Skip marks the rays as initialized without seeding them, so that
// refinement starts from the t values the stroke was created with.
func (f *Fitter) Skip() {
	f.state.Initialized = true
}

// State returns the fitter's progress.
func (f *Fitter) State() RefineState { return f.state }

// Stroke returns a copy of the stroke in its current state.
func (f *Fitter) Stroke() Stroke { return f.stroke.Clone() }

// Objective returns the objective over the fitter's stroke.
func (f *Fitter) Objective() *Objective { return f.obj }

// Step performs one unit of refinement: the full descent of one ray for
// coordinate descent, or one gradient iteration for whole-stroke
// refinement. It reports whether refinement is done. Step initializes the
// fitter first if necessary.
func (f *Fitter) Step() (bool, error) {
	if f.state.Done {
		return true, nil
	}
	if !f.state.Initialized {
		if err := f.Initialize(context.Background()); err != nil {
			return false, err
		}
	}
	var err error
	switch f.opts.Strategy {
	case WholeStroke:
		err = f.stepWholeStroke()
	default:
		err = f.stepCoordinate()
	}
	return f.state.Done, err
}

// Run initializes the fitter if necessary and refines until done,
// checking ctx between steps.
func (f *Fitter) Run(ctx context.Context) (Result, error) {
	if err := f.Initialize(ctx); err != nil {
		return Result{}, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		done, err := f.Step()
		if err != nil {
			return Result{}, err
		}
		if done {
			break
		}
	}
	return f.Result()
}

// Result returns the current points and diagnostics.
func (f *Fitter) Result() (Result, error) {
	total, err := f.obj.Total()
	if err != nil {
		return Result{}, err
	}
	return Result{
		Points:     f.stroke.Points(),
		Params:     f.stroke.Params(),
		Warnings:   append([]NonConvergenceWarning(nil), f.warnings...),
		Passes:     f.state.Pass,
		Iterations: f.state.Iterations,
		Objective:  total,
	}, nil
}

func (f *Fitter) stepCoordinate() error {
	i := f.state.Index
	start := f.stroke[i].T
	if err := f.refineRay(i); err != nil {
		return err
	}
	f.state.MaxMove = max(f.state.MaxMove, math.Abs(f.stroke[i].T-start))
	f.state.Index++
	if f.state.Index < len(f.stroke) {
		return nil
	}

	f.state.Pass++
	f.log.Debug("refinement pass", "pass", f.state.Pass, "maxMove", f.state.MaxMove)
	switch {
	case f.state.MaxMove <= f.opts.H:
		f.state.Done = true
	case f.state.Pass >= f.opts.MaxPasses:
		f.state.Done = true
		for j, ok := range f.converged {
			if !ok {
				f.addWarning(NonConvergenceWarning{
					Stage:      StageRefine,
					Index:      j,
					Iterations: f.opts.MaxDescentIterations(),
					Residual:   f.residual[j],
				})
			}
		}
	}
	f.state.Index = 0
	f.state.MaxMove = 0
	return nil
}

// refineRay runs the descent of ray i: a forward-difference gradient step
// scaled by a linearly decaying gamma, until gamma reaches its floor or
// the squared gradient drops to the gradient floor. A step that raises
// Assess(i) is undone and gamma halved.
func (f *Fitter) refineRay(i int) error {
	r := &f.stroke[i]
	gamma := f.opts.GammaInit
	limit := f.opts.MaxDescentIterations()
	f.converged[i] = false
	for iter := 0; iter < limit && gamma > f.opts.GammaFloor; iter++ {
		cur, err := f.obj.Assess(i)
		if err != nil {
			return err
		}
		grad, err := f.obj.Gradient(i, f.opts.H)
		if err != nil {
			return err
		}
		f.residual[i] = grad
		if grad*grad <= f.opts.GradientFloor {
			f.converged[i] = true
			return nil
		}
		t := r.T - gamma*grad
		if !isFinite(t) {
			// Keep the last finite value.
			return nil
		}
		prev := r.T
		r.T = t
		next, err := f.obj.Assess(i)
		if err != nil {
			r.T = prev
			return err
		}
		if next > cur {
			r.T = prev
			gamma /= 2
			continue
		}
		gamma -= f.opts.DecayRate
		f.state.Iterations++
	}
	return nil
}

func (f *Fitter) stepWholeStroke() error {
	n := len(f.stroke)
	grads := make([]float64, n)
	var norm2 float64
	for i := range f.stroke {
		g, err := f.obj.Gradient(i, f.state.H)
		if err != nil {
			return err
		}
		grads[i] = g
		norm2 += g * g
	}
	f.state.GradientNorm = math.Sqrt(norm2)

	if norm2 <= f.opts.GradientFloor {
		if f.state.H <= f.opts.H*wholeStrokeMinH {
			f.state.Done = true
			return nil
		}
		f.state.H /= 2
		return nil
	}
	for i, g := range grads {
		t := f.stroke[i].T - f.state.Gamma*g
		if isFinite(t) {
			f.stroke[i].T = t
		}
	}
	f.state.Iterations++
	f.state.Gamma -= f.opts.DecayRate
	if f.state.Gamma <= f.opts.GammaFloor || f.state.Iterations >= f.opts.MaxIterations {
		f.state.Done = true
		f.addWarning(NonConvergenceWarning{
			Stage:      StageRefine,
			Index:      -1,
			Iterations: f.state.Iterations,
			Residual:   f.state.GradientNorm,
		})
	}
	return nil
}

func (f *Fitter) addWarning(w NonConvergenceWarning) {
	f.log.Warn("refinement did not converge", "stage", w.Stage, "index", w.Index, "iterations", w.Iterations, "residual", w.Residual)
	f.warnings = append(f.warnings, w)
}

package strokefit

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSurface is reported when no target surface can be resolved or
	// when a surface query fails. It aborts the current stroke.
	ErrNoSurface = errors.New("strokefit: no target surface")
	// ErrInvalidRay is returned for samples whose direction is zero or
	// whose origin or direction is not finite.
	ErrInvalidRay = errors.New("strokefit: invalid ray")
	// ErrNoStroke is returned when a stroke is extended or ended before
	// it was begun.
	ErrNoStroke = errors.New("strokefit: no active stroke")
	// ErrActiveStroke is returned when options are changed mid-stroke.
	ErrActiveStroke = errors.New("strokefit: stroke in progress")
	// ErrInvalidOptions wraps every error returned by [Options.Validate].
	ErrInvalidOptions = errors.New("strokefit: invalid options")
)

// NoSurfaceError reports a failed surface query. It matches [ErrNoSurface]
// with [errors.Is].
type NoSurfaceError struct {
	// Err is the error returned by the surface, if any.
	Err error
}

func (e *NoSurfaceError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrNoSurface) {
		return ErrNoSurface.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNoSurface, e.Err)
}

func (e *NoSurfaceError) Unwrap() error { return e.Err }

func (e *NoSurfaceError) Is(target error) bool { return target == ErrNoSurface }

// surfaceError wraps err in a NoSurfaceError unless it already is one.
func surfaceError(err error) error {
	var nse *NoSurfaceError
	if errors.As(err, &nse) {
		return err
	}
	return &NoSurfaceError{Err: err}
}

// DegenerateStrokeError is returned when a stroke ends with fewer than two
// samples. No curve is emitted.
type DegenerateStrokeError struct {
	Samples int
}

func (e *DegenerateStrokeError) Error() string {
	return fmt.Sprintf("strokefit: degenerate stroke with %d sample(s), need at least 2", e.Samples)
}

// Stage identifies the part of the fit that produced a diagnostic.
type Stage string

const (
	StageInitialize Stage = "initialize"
	StageRefine     Stage = "refine"
)

// NonConvergenceWarning is a diagnostic for an iterative loop that hit its
// iteration cap without meeting its tolerance. The best-effort value is
// kept and the stroke proceeds, so warnings are collected in
// [Result.Warnings] rather than returned as errors.
type NonConvergenceWarning struct {
	Stage      Stage
	Index      int // ray index, or -1 for whole-stroke iterations
	Iterations int
	Residual   float64
}

func (w NonConvergenceWarning) Error() string {
	return fmt.Sprintf("strokefit: %s of ray %d did not converge after %d iterations (residual %g)",
		w.Stage, w.Index, w.Iterations, w.Residual)
}

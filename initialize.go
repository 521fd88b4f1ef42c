package strokefit

import (
	"context"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

// initializer seeds the t values of a stroke so that its rays sit near
// their target offsets.
type initializer struct {
	surface Surface
	opts    Options
	log     *slog.Logger
}

// seedResult describes how one ray was seeded.
type seedResult struct {
	iterations int
	residual   float64
	converged  bool
}

// initialize seeds every ray of stroke in place and returns the
// diagnostics for rays that did not converge.
func (in *initializer) initialize(ctx context.Context, stroke Stroke) ([]NonConvergenceWarning, error) {
	n := len(stroke)
	if n == 0 {
		return nil, nil
	}
	if in.opts.Mode == LevelMode {
		return in.initializeAll(ctx, stroke)
	}

	var warnings []NonConvergenceWarning
	ends := []int{0}
	if n > 1 {
		ends = append(ends, n-1)
	}
	for _, i := range ends {
		res, err := in.seed(&stroke[i], in.opts.level(i, n))
		if err != nil {
			return nil, err
		}
		if !res.converged {
			warnings = append(warnings, in.warn(i, res))
		}
	}
	switch in.opts.Seeding {
	case SeedSkewPlane:
		seedSkewPlane(stroke)
	default:
		seedLinear(stroke)
	}
	return warnings, nil
}

// initializeAll seeds every ray independently, using up to opts.Workers
// goroutines.
func (in *initializer) initializeAll(ctx context.Context, stroke Stroke) ([]NonConvergenceWarning, error) {
	n := len(stroke)
	results := make([]seedResult, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(in.opts.Workers)
	for i := range stroke {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := in.seed(&stroke[i], in.opts.level(i, n))
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var warnings []NonConvergenceWarning
	for i, res := range results {
		if !res.converged {
			warnings = append(warnings, in.warn(i, res))
		}
	}
	return warnings, nil
}

func (in *initializer) warn(i int, res seedResult) NonConvergenceWarning {
	w := NonConvergenceWarning{
		Stage:      StageInitialize,
		Index:      i,
		Iterations: res.iterations,
		Residual:   res.residual,
	}
	in.log.Warn("ray did not converge", "stage", w.Stage, "index", i, "iterations", w.Iterations, "residual", w.Residual)
	return w
}

// seed picks the algorithm for one ray: rays that hit the surface approach
// it monotonically and use the converging search, all others the line
// search.
func (in *initializer) seed(r *Ray, level float64) (seedResult, error) {
	hit, err := in.surface.Intersects(r.Origin, r.Direction)
	if err != nil {
		return seedResult{}, surfaceError(err)
	}
	if hit {
		return in.converge(r, level)
	}
	return in.lineSearch(r, level)
}

// converge advances t by the offset error until the error drops below the
// tolerance. Steps are measured in world units, so the direction need not
// be normalized.
func (in *initializer) converge(r *Ray, level float64) (seedResult, error) {
	speed := r.Direction.Hypot()
	var res seedResult
	for res.iterations < in.opts.MaxIterations {
		d, err := distanceTo(in.surface, r.Position())
		if err != nil {
			return res, err
		}
		e := d - level
		res.residual = e
		if e < in.opts.Tolerance {
			res.converged = true
			break
		}
		r.T += e / speed
		res.iterations++
	}
	in.log.Debug("seeded ray", "method", "converge", "iterations", res.iterations, "residual", res.residual)
	return res, nil
}

// lineSearch minimizes |distance − level| along a ray that misses the
// surface. The first trial step is the current error. A step that makes
// things worse is halved and reversed; the search ends when an
// improvement stalls within the slack or the step becomes smaller than
// the slack.
func (in *initializer) lineSearch(r *Ray, level float64) (seedResult, error) {
	speed := r.Direction.Hypot()
	slack := in.opts.Slack
	f := func(t float64) (float64, error) {
		d, err := distanceTo(in.surface, r.At(t))
		return math.Abs(d - level), err
	}

	var res seedResult
	cur, err := f(r.T)
	if err != nil {
		return res, err
	}
	step := cur / speed
	for {
		res.residual = cur
		if cur < in.opts.Tolerance || math.Abs(step)*speed < slack {
			res.converged = true
			break
		}
		if res.iterations >= in.opts.MaxIterations {
			break
		}
		res.iterations++
		next, err := f(r.T + step)
		if err != nil {
			return res, err
		}
		gain := cur - next
		switch {
		case gain > slack:
			r.T += step
			cur = next
		case gain > 0:
			// Improvement stalled within the slack; take it and stop.
			r.T += step
			res.residual = next
			res.converged = true
			in.log.Debug("seeded ray", "method", "line-search", "iterations", res.iterations, "residual", res.residual)
			return res, nil
		default:
			step = -step / 2
		}
	}
	in.log.Debug("seeded ray", "method", "line-search", "iterations", res.iterations, "residual", res.residual)
	return res, nil
}

// seedLinear interpolates the t values of interior rays between the root
// and the tip by index.
func seedLinear(stroke Stroke) {
	n := len(stroke)
	if n < 3 {
		return
	}
	t0, t1 := stroke[0].T, stroke[n-1].T
	for i := 1; i < n-1; i++ {
		stroke[i].T = t0 + (t1-t0)*float64(i)/float64(n-1)
	}
}

// seedSkewPlane intersects interior rays with the plane through the tip
// whose normal is D × (R × D), D pointing from the tip to the root and R
// being the tip ray's direction. The plane contains the chord from root to
// tip and is the one closest to facing the viewer. Rays that are parallel
// to the plane or would hit it behind their origin are seeded linearly.
func seedSkewPlane(stroke Stroke) {
	n := len(stroke)
	if n < 3 {
		return
	}
	linear := stroke.Clone()
	seedLinear(linear)

	tip := stroke[n-1]
	p := tip.Position()
	d := stroke[0].Position().Sub(p)
	normal, ok := d.Cross(tip.Direction.Cross(d)).TryNormalize()
	for i := 1; i < n-1; i++ {
		r := &stroke[i]
		r.T = linear[i].T
		if !ok {
			continue
		}
		denom := r.Direction.Dot(normal)
		if math.Abs(denom) < 1e-9 {
			continue
		}
		t := p.Sub(r.Origin).Dot(normal) / denom
		if isFinite(t) && t >= 0 {
			r.T = t
		}
	}
}

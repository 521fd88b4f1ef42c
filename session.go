package strokefit

import (
	"context"
	"log/slog"
)

// Session turns gestures into curves. It holds the rays of the active
// stroke and the number of curves emitted so far; nothing is shared
// between sessions.
//
// A Session is not safe for concurrent use.
type Session struct {
	surface Surface
	emitter Emitter
	opts    Options
	log     *slog.Logger

	stroke Stroke
	active bool
	curves int
}

// NewSession returns a session fitting strokes against s and handing the
// results to e. If opts.CacheSize is positive, s is wrapped in a
// [CachedSurface]. s may be nil, in which case every stroke fails with a
// [NoSurfaceError] until [Session.SetSurface] is called.
func NewSession(s Surface, e Emitter, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sess := &Session{
		emitter: e,
		opts:    opts.Clone(),
		log:     loggerOrNop(opts.Logger),
	}
	if err := sess.SetSurface(s); err != nil {
		return nil, err
	}
	return sess, nil
}

// SetSurface replaces the target surface. It does not affect the rays of
// the active stroke. A nil *Mesh counts as no surface.
func (s *Session) SetSurface(surface Surface) error {
	if m, ok := surface.(*Mesh); ok && m == nil {
		surface = nil
	}
	if surface != nil && s.opts.CacheSize > 0 {
		c, err := NewCachedSurface(surface, s.opts.CacheSize)
		if err != nil {
			return err
		}
		surface = c
	}
	s.surface = surface
	return nil
}

// Options returns a copy of the session's options.
func (s *Session) Options() Options { return s.opts.Clone() }

// SetOptions replaces the options used by subsequent strokes. Mode and
// levels must not change during a stroke, so SetOptions fails while one is
// active.
func (s *Session) SetOptions(opts Options) error {
	if s.active {
		return ErrActiveStroke
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	cache := s.opts.CacheSize
	s.opts = opts.Clone()
	s.log = loggerOrNop(opts.Logger)
	if cache != opts.CacheSize {
		return s.SetSurface(s.unwrapped())
	}
	return nil
}

func (s *Session) unwrapped() Surface {
	if c, ok := s.surface.(*CachedSurface); ok {
		return c.Unwrap()
	}
	return s.surface
}

// BeginStroke discards the rays of any previous stroke and starts a new
// one. Cached surface queries are dropped, so a surface edited between
// strokes is queried afresh.
func (s *Session) BeginStroke() {
	s.stroke = s.stroke[:0]
	s.active = true
	if c, ok := s.surface.(*CachedSurface); ok {
		c.Purge()
	}
	s.log.Info("stroke begun", "mode", s.opts.Mode)
}

// ExtendStroke appends a sample to the active stroke. A sample repeating
// the origin and direction of the previous one adds nothing and is
// dropped.
func (s *Session) ExtendStroke(origin Point3, dir Vec3) error {
	if !s.active {
		return ErrNoStroke
	}
	r, err := NewRay(origin, dir)
	if err != nil {
		return err
	}
	if n := len(s.stroke); n > 0 && s.stroke[n-1].Origin == r.Origin && s.stroke[n-1].Direction == r.Direction {
		s.log.Debug("duplicate sample dropped", "index", n)
		return nil
	}
	s.stroke = append(s.stroke, r)
	return nil
}

// EndStroke appends the final sample, fits the stroke and emits the curve.
// The stroke is reset whether or not the fit succeeds. Non-convergence is
// reported in [Result.Warnings] and does not prevent the curve from being
// emitted.
func (s *Session) EndStroke(ctx context.Context, origin Point3, dir Vec3) (Result, error) {
	if !s.active {
		return Result{}, ErrNoStroke
	}
	defer s.reset()
	if err := s.ExtendStroke(origin, dir); err != nil {
		return Result{}, err
	}

	f, err := NewFitter(s.surface, s.stroke, s.opts)
	if err != nil {
		s.log.Info("stroke dropped", "samples", len(s.stroke), "err", err)
		return Result{}, err
	}
	res, err := f.Run(ctx)
	if err != nil {
		s.log.Info("stroke dropped", "samples", len(s.stroke), "err", err)
		return Result{}, err
	}
	if s.emitter != nil {
		if err := s.emitter.Emit(res.Points); err != nil {
			return Result{}, err
		}
	}
	s.curves++
	s.log.Info("stroke fitted",
		"samples", len(res.Points),
		"length", f.Stroke().Length(),
		"passes", res.Passes,
		"iterations", res.Iterations,
		"objective", res.Objective,
		"warnings", len(res.Warnings),
		"curve", s.curves)
	return res, nil
}

// Abort discards the active stroke without fitting it. It is a no-op when
// no stroke is active.
func (s *Session) Abort() {
	if !s.active {
		return
	}
	s.log.Info("stroke aborted", "samples", len(s.stroke))
	s.reset()
}

func (s *Session) reset() {
	s.stroke = s.stroke[:0]
	s.active = false
}

// Active reports whether a stroke has been begun and not yet ended.
func (s *Session) Active() bool { return s.active }

// Rays returns a copy of the rays of the active stroke.
func (s *Session) Rays() Stroke { return s.stroke.Clone() }

// Curves returns the number of curves emitted by the session.
func (s *Session) Curves() int { return s.curves }

package strokefit

import (
	"context"
	"math"
)

// DefaultThreshold is the distance in pixels a drag must move from the
// last accepted sample to add another one.
const DefaultThreshold = 3

// Viewport maps pixel coordinates to picking rays. Any event source that
// can do so can drive a [Tool].
type Viewport interface {
	ViewToWorld(x, y int) (origin Point3, dir Vec3)
}

// Tool adapts pointer events in a viewport to a [Session]. Press, Drag and
// Release are the only entry points; hosts with several kinds of viewport
// provide one Viewport per kind.
type Tool struct {
	Session  *Session
	Viewport Viewport
	// Threshold is the minimum distance in pixels between accepted drag
	// samples. Zero accepts every sample.
	Threshold int

	lastX, lastY int
}

// NewTool returns a tool with the default threshold.
func NewTool(s *Session, vp Viewport) *Tool {
	return &Tool{Session: s, Viewport: vp, Threshold: DefaultThreshold}
}

// Press begins a stroke at pixel (x, y).
func (t *Tool) Press(x, y int) error {
	t.Session.BeginStroke()
	t.lastX, t.lastY = x, y
	return t.Session.ExtendStroke(t.Viewport.ViewToWorld(x, y))
}

// Drag adds a sample at pixel (x, y) unless it is too close to the last
// accepted one. It reports whether the sample was accepted.
func (t *Tool) Drag(x, y int) (bool, error) {
	if !t.Session.Active() {
		return false, ErrNoStroke
	}
	if math.Hypot(float64(x-t.lastX), float64(y-t.lastY)) < float64(t.Threshold) {
		return false, nil
	}
	if err := t.Session.ExtendStroke(t.Viewport.ViewToWorld(x, y)); err != nil {
		return false, err
	}
	t.lastX, t.lastY = x, y
	return true, nil
}

// Release ends the stroke with a final sample at pixel (x, y) and fits it.
func (t *Tool) Release(ctx context.Context, x, y int) (Result, error) {
	origin, dir := t.Viewport.ViewToWorld(x, y)
	return t.Session.EndStroke(ctx, origin, dir)
}

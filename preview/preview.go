// Package preview renders fitted curves as PNG images, using an
// orthographic projection onto one of the coordinate planes.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"slices"
	"strings"

	"golang.org/x/image/vector"

	"honnef.co/go/strokefit"
)

// Projection selects the coordinate plane curves are projected onto. The
// first named axis runs to the right, the second one up.
type Projection int

const (
	XY Projection = iota
	XZ
	YZ
)

func (p Projection) String() string {
	switch p {
	case XY:
		return "xy"
	case XZ:
		return "xz"
	case YZ:
		return "yz"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection parses the names returned by [Projection.String],
// ignoring case.
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(s) {
	case "xy":
		return XY, nil
	case "xz":
		return XZ, nil
	case "yz":
		return YZ, nil
	default:
		return 0, fmt.Errorf("preview: unknown projection %q", s)
	}
}

func (p Projection) project(pt strokefit.Point3) (u, v float64) {
	switch p {
	case XZ:
		return pt.X, pt.Z
	case YZ:
		return pt.Y, pt.Z
	default:
		return pt.X, pt.Y
	}
}

// ErrInvalidSize is returned when rendering into an image without area, or
// one the margins leave no room in.
var ErrInvalidSize = errors.New("preview: invalid image size")

// Emitter collects curves and renders them into a single image. All curves
// share one scale, chosen so that their combined bounds fit the image
// inside the margin.
type Emitter struct {
	Width, Height int
	Projection    Projection
	// Margin is the number of pixels left blank on every side.
	Margin int
	// LineWidth is the stroke width in pixels. Zero means 1.
	LineWidth float64
	// Background and Foreground default to white and black.
	Background color.Color
	Foreground color.Color

	curves [][]strokefit.Point3
}

var _ strokefit.Emitter = (*Emitter)(nil)

// NewEmitter returns an emitter rendering into a width×height image with a
// margin of 8 pixels and a line width of 1.5 pixels.
func NewEmitter(width, height int, p Projection) *Emitter {
	return &Emitter{
		Width:      width,
		Height:     height,
		Projection: p,
		Margin:     8,
		LineWidth:  1.5,
	}
}

func (e *Emitter) Emit(points []strokefit.Point3) error {
	if len(points) == 0 {
		return nil
	}
	e.curves = append(e.curves, slices.Clone(points))
	return nil
}

// Len returns the number of curves collected so far.
func (e *Emitter) Len() int { return len(e.curves) }

// Reset discards all collected curves.
func (e *Emitter) Reset() { e.curves = e.curves[:0] }

// transform maps projected coordinates to pixels.
type transform struct {
	scale      float64
	minU, minV float64
	offU, offV float64
	height     float64
}

func (t transform) apply(u, v float64) (float32, float32) {
	x := t.offU + (u-t.minU)*t.scale
	y := t.height - (t.offV + (v-t.minV)*t.scale)
	return float32(x), float32(y)
}

func (e *Emitter) fit() transform {
	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	for _, c := range e.curves {
		for _, pt := range c {
			u, v := e.Projection.project(pt)
			minU, maxU = min(minU, u), max(maxU, u)
			minV, maxV = min(minV, v), max(maxV, v)
		}
	}
	m := float64(e.Margin)
	availU := float64(e.Width) - 2*m
	availV := float64(e.Height) - 2*m
	du, dv := maxU-minU, maxV-minV

	scale := 1.0
	switch {
	case du > 0 && dv > 0:
		scale = min(availU/du, availV/dv)
	case du > 0:
		scale = availU / du
	case dv > 0:
		scale = availV / dv
	}
	return transform{
		scale:  scale,
		minU:   minU,
		minV:   minV,
		offU:   m + (availU-du*scale)/2,
		offV:   m + (availV-dv*scale)/2,
		height: float64(e.Height),
	}
}

// Image renders the collected curves.
func (e *Emitter) Image() (*image.RGBA, error) {
	if e.Width <= 0 || e.Height <= 0 || 2*e.Margin >= min(e.Width, e.Height) {
		return nil, ErrInvalidSize
	}
	img := image.NewRGBA(image.Rect(0, 0, e.Width, e.Height))
	bg := e.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if len(e.curves) == 0 {
		return img, nil
	}

	half := e.LineWidth / 2
	if half <= 0 {
		half = 0.5
	}
	tr := e.fit()
	z := vector.NewRasterizer(e.Width, e.Height)
	for _, c := range e.curves {
		drawn := false
		for i := 1; i < len(c); i++ {
			x0, y0 := tr.apply(e.Projection.project(c[i-1]))
			x1, y1 := tr.apply(e.Projection.project(c[i]))
			drawn = segment(z, x0, y0, x1, y1, float32(half)) || drawn
		}
		if !drawn {
			x, y := tr.apply(e.Projection.project(c[0]))
			segment(z, x-float32(half), y, x+float32(half), y, float32(half))
		}
	}
	fg := e.Foreground
	if fg == nil {
		fg = color.Black
	}
	z.Draw(img, img.Bounds(), image.NewUniform(fg), image.Point{})
	return img, nil
}

// segment adds the rectangle of half-width w around the segment from
// (x0, y0) to (x1, y1). All rectangles share one winding so that
// overlapping joints do not cancel. It reports false for segments without
// length.
func segment(z *vector.Rasterizer, x0, y0, x1, y1, w float32) bool {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return false
	}
	nx, ny := -dy/l*w, dx/l*w
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
	return true
}

// WritePNG renders the collected curves and encodes them as PNG.
func (e *Emitter) WritePNG(w io.Writer) error {
	img, err := e.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

package strokefit

import (
	"fmt"
	"math"
)

// PerspectiveCamera is a pinhole camera. It implements [Viewport], casting
// one ray per pixel through the pixel's center.
type PerspectiveCamera struct {
	Eye    Point3
	Target Point3
	Up     Vec3
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Width and Height are the size of the viewport in pixels.
	Width, Height int
}

var _ Viewport = PerspectiveCamera{}

// basis returns the top left pixel center and the steps between
// neighbouring pixel centers, on the image plane at distance 1 from the
// eye.
func (c PerspectiveCamera) basis() (pixel00 Point3, dx, dy Vec3) {
	w := c.Eye.Sub(c.Target).Normalize()
	u := c.Up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportHeight := 2 * math.Tan(c.FOV*math.Pi/360)
	viewportWidth := viewportHeight * float64(c.Width) / float64(c.Height)
	viewportX := u.Mul(viewportWidth)
	viewportY := v.Mul(-viewportHeight)
	dx = viewportX.Div(float64(c.Width))
	dy = viewportY.Div(float64(c.Height))

	topLeft := c.Eye.Translate(w.Negate()).
		Translate(viewportX.Div(-2)).
		Translate(viewportY.Div(-2))
	return topLeft.Translate(dx.Add(dy).Div(2)), dx, dy
}

// ViewToWorld returns the eye and the direction through the center of
// pixel (x, y), with (0, 0) being the top left pixel.
func (c PerspectiveCamera) ViewToWorld(x, y int) (Point3, Vec3) {
	pixel00, dx, dy := c.basis()
	p := pixel00.Translate(dx.Mul(float64(x))).Translate(dy.Mul(float64(y)))
	return c.Eye, p.Sub(c.Eye)
}

// Validate reports whether the camera can cast rays.
func (c PerspectiveCamera) Validate() error {
	w, ok := c.Eye.Sub(c.Target).TryNormalize()
	switch {
	case !ok:
		return fmt.Errorf("strokefit: camera eye %v coincides with target", c.Eye)
	case !(c.FOV > 0 && c.FOV < 180):
		return fmt.Errorf("strokefit: field of view %g out of range", c.FOV)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("strokefit: invalid viewport size %dx%d", c.Width, c.Height)
	}
	if _, ok := c.Up.Cross(w).TryNormalize(); !ok {
		return fmt.Errorf("strokefit: up vector %v is parallel to the view direction", c.Up)
	}
	return nil
}

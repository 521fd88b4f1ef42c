// Package strokefit turns freehand strokes drawn over a 3D surface into
// curves. A stroke is the sequence of picking rays cast while the pointer is
// dragged across a viewport; fitting resolves a parameter t along every ray
// so that the resulting points either follow the surface at a fixed offset
// or form a smooth guide curve growing out of it.
//
// # Modes
//
// [LevelMode] places every point at [Options.StartLevel] from the surface,
// tracing a contour above it. [FurMode] and [FeatherMode] only constrain the
// root (the first sample) to the start level and the tip (the last sample)
// to [Options.EndLevel]; the points in between are shaped by smoothness and
// length alone. Fur leaves the surface along its normal, feathers lie in the
// plane of the stroke.
//
// # Fitting
//
// A fit has two stages. The initializer seeds each ray: rays that hit the
// surface step towards it by their offset error until the error drops below
// [Options.Tolerance], while rays that miss it use a bounded line search. In
// fur and feather mode only the root and tip are seeded this way and the
// interior rays are interpolated, either linearly by index ([SeedLinear]) or
// by intersecting them with the plane that contains the chord from root to
// tip and faces the viewer ([SeedSkewPlane]).
//
// The refiner then minimizes the [Objective], a weighted sum of three
// terms per ray: the squared offset error, the squared deviation from
// straightness and the squared lengths of the adjacent segments. By default
// it does so one ray at a time ([CoordinateDescent]) with forward-difference
// gradients and a linearly decaying step size; [WholeStroke] updates all rays
// at once instead.
//
// Every loop is bounded. Loops that give up before meeting their tolerance
// keep their best value and report a [NonConvergenceWarning] in
// [Result.Warnings].
//
// # Sessions
//
// A [Session] owns the active stroke and hands fitted curves to an [Emitter].
// A [Tool] adapts pointer events in a [Viewport] to a session. [Fitter]
// exposes a single fit as a resumable state machine for hosts that need to
// interleave fitting with other work.
//
// # Surfaces
//
// Strokes are fitted against a [Surface], which answers closest-point and
// ray intersection queries. This package provides [Plane], [Sphere] and
// triangle [Mesh] surfaces, the latter also from Wavefront OBJ files with
// [ReadOBJ]. Queries dominate the cost of a fit, so sessions wrap their
// surface in a [CachedSurface].
package strokefit

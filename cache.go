package strokefit

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type rayKey struct {
	origin Point3
	dir    Vec3
}

// CachedSurface memoizes the queries of another surface in two bounded LRU
// caches. Closest-point queries are keyed by the exact query point, which
// repeats often during refinement when a perturbed parameter is restored.
//
// CachedSurface is safe for concurrent use if the wrapped surface is.
type CachedSurface struct {
	surface Surface
	closest *lru.Cache[Point3, Point3]
	hits    *lru.Cache[rayKey, bool]
}

var _ Surface = (*CachedSurface)(nil)

// NewCachedSurface wraps s with caches holding up to size entries each.
func NewCachedSurface(s Surface, size int) (*CachedSurface, error) {
	closest, err := lru.New[Point3, Point3](size)
	if err != nil {
		return nil, err
	}
	hits, err := lru.New[rayKey, bool](size)
	if err != nil {
		return nil, err
	}
	return &CachedSurface{surface: s, closest: closest, hits: hits}, nil
}

// Unwrap returns the cached surface.
func (c *CachedSurface) Unwrap() Surface { return c.surface }

func (c *CachedSurface) ClosestPoint(pt Point3) (Point3, error) {
	if v, ok := c.closest.Get(pt); ok {
		return v, nil
	}
	v, err := c.surface.ClosestPoint(pt)
	if err != nil {
		// Errors are not cached; they abort the stroke anyway.
		return Point3{}, err
	}
	c.closest.Add(pt, v)
	return v, nil
}

func (c *CachedSurface) Intersects(origin Point3, dir Vec3) (bool, error) {
	k := rayKey{origin, dir}
	if v, ok := c.hits.Get(k); ok {
		return v, nil
	}
	v, err := c.surface.Intersects(origin, dir)
	if err != nil {
		return false, err
	}
	c.hits.Add(k, v)
	return v, nil
}

// Len returns the number of cached closest-point results.
func (c *CachedSurface) Len() int { return c.closest.Len() }

// Purge drops all cached results.
func (c *CachedSurface) Purge() {
	c.closest.Purge()
	c.hits.Purge()
}

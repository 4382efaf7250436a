// Package solid is the constructive solid geometry kernel used by the case builders.
//
// Every solid is a signed distance estimate over a tree of convex polytopes (hulls),
// polygon extrusions and boolean nodes. Transforms are pushed down to hull vertices so that
// a point and a shape moved by the same matrix land on bit-identical coordinates. Shapes
// are immutable once built and safe for concurrent use.
package solid

import (
	"errors"
	"math"

	"dactyl-manuform/internal/mathutil"
)

// ErrDegenerateHull is returned when a hull input spans no volume: fewer than four points,
// or all points collinear or coplanar.
var ErrDegenerateHull = errors.New("solid: degenerate hull")

// Shape is a closed solid.
type Shape interface {
	// Eval returns a signed distance estimate, negative inside. The estimate never falls
	// below the signed distance to Bounds().
	Eval(p mathutil.Vec3) float64
	Bounds() Bounds
	// Vertices returns the support points of the solid, used to hull shapes together.
	Vertices() []mathutil.Vec3
	// Transform returns the solid moved by an affine rigid motion or reflection.
	Transform(m mathutil.Mat4) Shape
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mathutil.Vec3
}

// EmptyBounds contains nothing; it is the identity for Union.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: mathutil.Vec3{inf, inf, inf}, Max: mathutil.Vec3{-inf, -inf, -inf}}
}

// BoundsOf returns the box around pts.
func BoundsOf(pts []mathutil.Vec3) Bounds {
	b := EmptyBounds()
	for _, p := range pts {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

func (b Bounds) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

func (b Bounds) Intersect(o Bounds) Bounds {
	return Bounds{Min: b.Min.Max(o.Min), Max: b.Max.Min(o.Max)}
}

func (b Bounds) Size() mathutil.Vec3 { return b.Max.Sub(b.Min) }

func (b Bounds) Center() mathutil.Vec3 { return b.Min.Lerp(b.Max, 0.5) }

// Expand grows the box by d on every side.
func (b Bounds) Expand(d float64) Bounds {
	e := mathutil.Vec3{d, d, d}
	return Bounds{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b Bounds) Corners() [8]mathutil.Vec3 {
	var c [8]mathutil.Vec3
	for i := range c {
		for k := 0; k < 3; k++ {
			if i&(1<<k) == 0 {
				c[i][k] = b.Min[k]
			} else {
				c[i][k] = b.Max[k]
			}
		}
	}
	return c
}

// Transform returns the box around the transformed corners.
func (b Bounds) Transform(m mathutil.Mat4) Bounds {
	if b.IsEmpty() {
		return b
	}
	c := b.Corners()
	for i := range c {
		c[i] = m.MulPoint(c[i])
	}
	return BoundsOf(c[:])
}

// SDF is the exact signed distance from p to the box; +Inf for an empty box.
func (b Bounds) SDF(p mathutil.Vec3) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	var outside, inside float64
	inside = math.Inf(-1)
	for k := 0; k < 3; k++ {
		q := math.Max(b.Min[k]-p[k], p[k]-b.Max[k])
		if q > 0 {
			outside += q * q
		}
		inside = math.Max(inside, q)
	}
	if outside > 0 {
		return math.Sqrt(outside)
	}
	return inside
}

// empty is the solid with no points.
type empty struct{}

// Empty returns the solid containing nothing.
func Empty() Shape { return empty{} }

func (empty) Eval(mathutil.Vec3) float64      { return math.Inf(1) }
func (empty) Bounds() Bounds                  { return EmptyBounds() }
func (empty) Vertices() []mathutil.Vec3       { return nil }
func (e empty) Transform(mathutil.Mat4) Shape { return e }

// IsEmpty reports whether s contains no points at all.
func IsEmpty(s Shape) bool {
	return s == nil || s.Bounds().IsEmpty()
}

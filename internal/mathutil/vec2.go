package mathutil

import (
	"cmp"
	"math"
	"slices"
)

// Vec2 is a planar point, used for base plate outlines and screw locations.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a[0] + b[0], a[1] + b[1]} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a[0] - b[0], a[1] - b[1]} }
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (a Vec2) Dot(b Vec2) float64 { return a[0]*b[0] + a[1]*b[1] }

// Cross returns the z component of the 3D cross product.
func (a Vec2) Cross(b Vec2) float64 { return a[0]*b[1] - a[1]*b[0] }

func (v Vec2) Len() float64 { return math.Hypot(v[0], v[1]) }

// Vec3 lifts the point to the plane z.
func (v Vec2) Vec3(z float64) Vec3 { return Vec3{v[0], v[1], z} }

// SignedArea returns the shoelace area of a closed polygon; positive when counter-clockwise.
func SignedArea(poly []Vec2) float64 {
	var a float64
	for i := range poly {
		j := (i + 1) % len(poly)
		a += poly[i].Cross(poly[j])
	}
	return a / 2
}

// ConvexHull2D returns the counter-clockwise convex hull of pts (Andrew's monotone chain).
// Collinear points are dropped.
func ConvexHull2D(pts []Vec2) []Vec2 {
	if len(pts) < 3 {
		return append([]Vec2(nil), pts...)
	}
	p := append([]Vec2(nil), pts...)
	sortVec2(p)
	h := make([]Vec2, 0, 2*len(p))
	for _, q := range p {
		for len(h) >= 2 && h[len(h)-1].Sub(h[len(h)-2]).Cross(q.Sub(h[len(h)-2])) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, q)
	}
	lower := len(h) + 1
	for i := len(p) - 2; i >= 0; i-- {
		q := p[i]
		for len(h) >= lower && h[len(h)-1].Sub(h[len(h)-2]).Cross(q.Sub(h[len(h)-2])) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, q)
	}
	return h[:len(h)-1]
}

func sortVec2(p []Vec2) {
	slices.SortFunc(p, func(a, b Vec2) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
}

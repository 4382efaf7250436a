// Package mesh turns solids into triangle meshes and planar contours.
package mesh

import (
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/solid"
)

// Triangle is wound counter-clockwise seen from outside the solid.
type Triangle [3]mathutil.Vec3

func (t Triangle) Normal() mathutil.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
}

func (t Triangle) Area() float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Len() / 2
}

// Mesh is a triangle soup.
type Mesh struct {
	Triangles []Triangle
}

func (m *Mesh) Bounds() solid.Bounds {
	b := solid.EmptyBounds()
	for _, t := range m.Triangles {
		b = b.Union(solid.BoundsOf(t[:]))
	}
	return b
}

// Area sums the triangle areas.
func (m *Mesh) Area() float64 {
	var a float64
	for _, t := range m.Triangles {
		a += t.Area()
	}
	return a
}

// Volume is the signed volume enclosed by the mesh; positive for outward winding.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, t := range m.Triangles {
		v += t[0].Dot(t[1].Cross(t[2]))
	}
	return v / 6
}

package solid

import (
	"math"

	"dactyl-manuform/internal/mathutil"
)

// DefaultSegments is the facet count used for round primitives.
const DefaultSegments = 32

// Box returns a w×h×d cuboid centered on the origin. A non-positive size gives Empty.
func Box(w, h, d float64) Shape {
	if w <= 0 || h <= 0 || d <= 0 {
		return Empty()
	}
	x, y, z := w/2, h/2, d/2
	verts := []mathutil.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {-x, y, -z}, {x, y, -z},
		{-x, -y, z}, {x, -y, z}, {-x, y, z}, {x, y, z},
	}
	faces := [][3]int{
		{0, 2, 3}, {0, 3, 1}, // -z
		{4, 5, 7}, {4, 7, 6}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{2, 6, 7}, {2, 7, 3}, // +y
		{0, 4, 6}, {0, 6, 2}, // -x
		{1, 3, 7}, {1, 7, 5}, // +x
	}
	return newHull(verts, faces)
}

// Cylinder returns a z-aligned cylinder of radius r and height h centered on the origin.
func Cylinder(r, h float64, segments int) Shape {
	return Cone(r, r, h, segments)
}

// Cone returns a z-aligned frustum centered on the origin, radius r1 at the bottom and r2
// at the top. Either radius may be zero.
func Cone(r1, r2, h float64, segments int) Shape {
	if h <= 0 || r1 < 0 || r2 < 0 || (r1 == 0 && r2 == 0) {
		return Empty()
	}
	if segments < 3 {
		segments = DefaultSegments
	}
	pts := ring(r1, -h/2, segments)
	pts = append(pts, ring(r2, h/2, segments)...)
	return mustHull(pts)
}

// Sphere returns a faceted sphere of radius r centered on the origin.
func Sphere(r float64, segments int) Shape {
	if r <= 0 {
		return Empty()
	}
	if segments < 4 {
		segments = DefaultSegments
	}
	rings := segments / 2
	pts := []mathutil.Vec3{{0, 0, -r}, {0, 0, r}}
	for i := 1; i < rings; i++ {
		phi := math.Pi * float64(i) / float64(rings)
		pts = append(pts, ring(r*math.Sin(phi), -r*math.Cos(phi), segments)...)
	}
	return mustHull(pts)
}

func ring(r, z float64, segments int) []mathutil.Vec3 {
	if r == 0 {
		return []mathutil.Vec3{{0, 0, z}}
	}
	pts := make([]mathutil.Vec3, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = mathutil.Vec3{r * math.Cos(a), r * math.Sin(a), z}
	}
	return pts
}

// mustHull is for primitives whose point sets are non-degenerate by construction.
func mustHull(pts []mathutil.Vec3) *Hull {
	h, err := HullFromPoints(pts)
	if err != nil {
		panic(err)
	}
	return h
}

package solid

import (
	"fmt"
	"math"

	"dactyl-manuform/internal/mathutil"
)

// BottomFloor is where BottomHull drops its points: well under the base plate so the block
// trim leaves a flat footprint at z=0.
const BottomFloor = -10.0

func Translate(s Shape, v mathutil.Vec3) Shape {
	return s.Transform(mathutil.Translation(v))
}

// Rotate turns s about the origin by xyz degrees, X first, then Y, then Z.
func Rotate(s Shape, deg mathutil.Vec3) Shape {
	return s.Transform(mathutil.FromMat3Translation(mathutil.RotXYZ(deg), mathutil.Vec3{}))
}

// RotateX turns s about the X axis by a radians.
func RotateX(s Shape, a float64) Shape {
	return s.Transform(mathutil.FromMat3Translation(mathutil.RotX(a), mathutil.Vec3{}))
}

// RotateY turns s about the Y axis by a radians.
func RotateY(s Shape, a float64) Shape {
	return s.Transform(mathutil.FromMat3Translation(mathutil.RotY(a), mathutil.Vec3{}))
}

// Mirror reflects s across plane. It panics on a plane name outside mathutil's constants.
func Mirror(s Shape, plane mathutil.Plane) Shape {
	m, ok := mathutil.MirrorMatrix(plane)
	if !ok {
		panic(fmt.Sprintf("solid: unknown mirror plane %q", plane))
	}
	return s.Transform(mathutil.FromMat3Translation(m, mathutil.Vec3{}))
}

// HullFromShapes returns the convex hull of every vertex of shapes.
func HullFromShapes(shapes ...Shape) (*Hull, error) {
	var pts []mathutil.Vec3
	for _, s := range shapes {
		if s != nil {
			pts = append(pts, s.Vertices()...)
		}
	}
	return HullFromPoints(pts)
}

// BottomHull hulls the vertices of shapes together with their projections onto z=floor.
func BottomHull(shapes []Shape, floor float64) (*Hull, error) {
	var pts []mathutil.Vec3
	for _, s := range shapes {
		for _, v := range s.Vertices() {
			pts = append(pts, v, mathutil.Vec3{v[0], v[1], floor})
		}
	}
	return HullFromPoints(pts)
}

// TriangleHulls unions the hulls of every consecutive triple of shapes.
func TriangleHulls(shapes ...Shape) (Shape, error) {
	var acc Accumulator
	for i := 0; i+3 <= len(shapes); i++ {
		h, err := HullFromShapes(shapes[i : i+3]...)
		acc.Add(h, wrapIndex(err, i))
	}
	return acc.Union()
}

func wrapIndex(err error, i int) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("triangle %d: %w", i, err)
}

// Accumulator unions shapes as they are produced and keeps the first error.
//
//	var acc solid.Accumulator
//	acc.Add(solid.HullFromShapes(a, b, c))
//	shape, err := acc.Union()
type Accumulator struct {
	shapes []Shape
	err    error
}

// Add records s, or err when it is the first failure. A nil *Hull counts as nothing.
func (a *Accumulator) Add(s Shape, err error) {
	if a.err != nil {
		return
	}
	if err != nil {
		a.err = err
		return
	}
	if h, ok := s.(*Hull); ok && h == nil {
		return
	}
	if s != nil {
		a.shapes = append(a.shapes, s)
	}
}

func (a *Accumulator) Err() error { return a.err }

// Union returns the union of everything added, or the first error.
func (a *Accumulator) Union() (Shape, error) {
	if a.err != nil {
		return nil, a.err
	}
	return Union(a.shapes...), nil
}

// Volume returns the volume of s: exact for hulls, otherwise counted on a grid with cell
// size step. The grid estimate is deterministic.
func Volume(s Shape, step float64) float64 {
	if h, ok := s.(*Hull); ok {
		return h.Volume()
	}
	b := s.Bounds()
	if b.IsEmpty() || step <= 0 {
		return 0
	}
	n := [3]int{}
	for k := 0; k < 3; k++ {
		n[k] = int(math.Ceil((b.Max[k] - b.Min[k]) / step))
	}
	var count int
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			for k := 0; k < n[2]; k++ {
				p := mathutil.Vec3{
					b.Min[0] + (float64(i)+0.5)*step,
					b.Min[1] + (float64(j)+0.5)*step,
					b.Min[2] + (float64(k)+0.5)*step,
				}
				if s.Eval(p) < 0 {
					count++
				}
			}
		}
	}
	return float64(count) * step * step * step
}

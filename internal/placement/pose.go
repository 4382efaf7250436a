// Package placement maps a (column, row) key index to a pose on the curved key well.
//
// A pose is kept as the ordered list of steps that produced it rather than a single
// matrix, so a shape and a bare point moved by the same pose go through the same
// arithmetic and land on the same coordinates.
package placement

import (
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/solid"
)

// Op is the kind of a pose step.
type Op uint8

const (
	OpTranslate Op = iota
	OpRotateX
	OpRotateY
)

// Step is one translation or one rotation about the origin (radians).
type Step struct {
	Op    Op
	V     mathutil.Vec3
	Angle float64
}

// Pose is an ordered list of steps, applied first to last.
type Pose []Step

// Translate returns p followed by a translation by v.
func (p Pose) Translate(v mathutil.Vec3) Pose {
	return append(p[:len(p):len(p)], Step{Op: OpTranslate, V: v})
}

// RotateX returns p followed by a rotation of a radians about X.
func (p Pose) RotateX(a float64) Pose {
	return append(p[:len(p):len(p)], Step{Op: OpRotateX, Angle: a})
}

// RotateY returns p followed by a rotation of a radians about Y.
func (p Pose) RotateY(a float64) Pose {
	return append(p[:len(p):len(p)], Step{Op: OpRotateY, Angle: a})
}

// Then returns p followed by q.
func (p Pose) Then(q Pose) Pose {
	return append(p[:len(p):len(p)], q...)
}

// Pivot rotates about an axis parallel to X or Y through (0, 0, -r): translate down by r,
// rotate, translate back.
func (p Pose) Pivot(op Op, r, a float64) Pose {
	p = p.Translate(mathutil.Vec3{0, 0, -r})
	if op == OpRotateX {
		p = p.RotateX(a)
	} else {
		p = p.RotateY(a)
	}
	return p.Translate(mathutil.Vec3{0, 0, r})
}

// Ops are the primitives a pose is replayed with.
type Ops[T any] struct {
	Translate func(T, mathutil.Vec3) T
	RotateX   func(T, float64) T
	RotateY   func(T, float64) T
}

// Apply replays p on v.
func Apply[T any](p Pose, v T, ops Ops[T]) T {
	for _, s := range p {
		switch s.Op {
		case OpTranslate:
			v = ops.Translate(v, s.V)
		case OpRotateX:
			v = ops.RotateX(v, s.Angle)
		case OpRotateY:
			v = ops.RotateY(v, s.Angle)
		}
	}
	return v
}

// PointOps move a bare point with the same matrices solid uses for shapes.
var PointOps = Ops[mathutil.Vec3]{
	Translate: func(p, v mathutil.Vec3) mathutil.Vec3 {
		return mathutil.Translation(v).MulPoint(p)
	},
	RotateX: func(p mathutil.Vec3, a float64) mathutil.Vec3 {
		return mathutil.FromMat3Translation(mathutil.RotX(a), mathutil.Vec3{}).MulPoint(p)
	},
	RotateY: func(p mathutil.Vec3, a float64) mathutil.Vec3 {
		return mathutil.FromMat3Translation(mathutil.RotY(a), mathutil.Vec3{}).MulPoint(p)
	},
}

// ShapeOps move solids.
var ShapeOps = Ops[solid.Shape]{
	Translate: solid.Translate,
	RotateX:   solid.RotateX,
	RotateY:   solid.RotateY,
}

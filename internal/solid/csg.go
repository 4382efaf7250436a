package solid

import (
	"cmp"
	"math"
	"slices"

	"dactyl-manuform/internal/mathutil"
)

// leafFanout is the largest union node evaluated as a flat list.
const leafFanout = 4

// union is a bounding volume tree over its leaves. Nested unions are flattened on
// construction, so the tree shape depends only on the set of leaves.
type union struct {
	leaves   []Shape
	children []Shape
	bounds   Bounds
}

// Union joins shapes. nil and empty shapes are dropped; Union() is Empty.
func Union(shapes ...Shape) Shape {
	var leaves []Shape
	for _, s := range shapes {
		switch v := s.(type) {
		case nil, empty:
		case *union:
			leaves = append(leaves, v.leaves...)
		default:
			if !IsEmpty(v) {
				leaves = append(leaves, v)
			}
		}
	}
	switch len(leaves) {
	case 0:
		return Empty()
	case 1:
		return leaves[0]
	}
	return buildUnion(leaves)
}

func buildUnion(leaves []Shape) *union {
	u := &union{leaves: leaves, bounds: EmptyBounds()}
	for _, l := range leaves {
		u.bounds = u.bounds.Union(l.Bounds())
	}
	if len(leaves) <= leafFanout {
		u.children = leaves
		return u
	}
	centers := EmptyBounds()
	for _, l := range leaves {
		c := l.Bounds().Center()
		centers = centers.Union(Bounds{Min: c, Max: c})
	}
	size := centers.Size()
	axis := 0
	if size[1] > size[axis] {
		axis = 1
	}
	if size[2] > size[axis] {
		axis = 2
	}
	sorted := slices.Clone(leaves)
	slices.SortStableFunc(sorted, func(a, b Shape) int {
		return cmp.Compare(a.Bounds().Center()[axis], b.Bounds().Center()[axis])
	})
	mid := len(sorted) / 2
	u.children = []Shape{buildUnion(sorted[:mid:mid]), buildUnion(sorted[mid:])}
	return u
}

func (u *union) Eval(p mathutil.Vec3) float64 {
	best := math.Inf(1)
	if len(u.children) == 2 {
		a, b := u.children[0], u.children[1]
		da, db := a.Bounds().SDF(p), b.Bounds().SDF(p)
		if db < da {
			a, b = b, a
			da, db = db, da
		}
		if da < best {
			best = a.Eval(p)
		}
		if db < best {
			best = math.Min(best, b.Eval(p))
		}
		return best
	}
	for _, c := range u.children {
		if c.Bounds().SDF(p) >= best {
			continue
		}
		if v := c.Eval(p); v < best {
			best = v
		}
	}
	return best
}

func (u *union) Bounds() Bounds { return u.bounds }

func (u *union) Vertices() []mathutil.Vec3 {
	var out []mathutil.Vec3
	for _, l := range u.leaves {
		out = append(out, l.Vertices()...)
	}
	return out
}

func (u *union) Transform(m mathutil.Mat4) Shape {
	leaves := make([]Shape, len(u.leaves))
	for i, l := range u.leaves {
		leaves[i] = l.Transform(m)
	}
	return buildUnion(leaves)
}

// Leaves returns the solids joined by s, or s itself when it is not a union.
func Leaves(s Shape) []Shape {
	if u, ok := s.(*union); ok {
		return u.leaves
	}
	if IsEmpty(s) {
		return nil
	}
	return []Shape{s}
}

type difference struct {
	a, cut Shape
}

// Difference removes every cut from a.
func Difference(a Shape, cuts ...Shape) Shape {
	if IsEmpty(a) {
		return Empty()
	}
	c := Union(cuts...)
	if IsEmpty(c) || a.Bounds().Intersect(c.Bounds()).IsEmpty() {
		return a
	}
	return &difference{a: a, cut: c}
}

func (d *difference) Eval(p mathutil.Vec3) float64 {
	v := d.a.Eval(p)
	if d.cut.Bounds().SDF(p) >= -v {
		return v
	}
	return math.Max(v, -d.cut.Eval(p))
}

func (d *difference) Bounds() Bounds { return d.a.Bounds() }

func (d *difference) Vertices() []mathutil.Vec3 { return d.a.Vertices() }

func (d *difference) Transform(m mathutil.Mat4) Shape {
	return &difference{a: d.a.Transform(m), cut: d.cut.Transform(m)}
}

type intersection struct {
	shapes []Shape
	bounds Bounds
}

// Intersect keeps the points common to every shape.
func Intersect(shapes ...Shape) Shape {
	var kept []Shape
	b := Bounds{
		Min: mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
		Max: mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
	}
	for _, s := range shapes {
		if s == nil {
			continue
		}
		kept = append(kept, s)
		b = b.Intersect(s.Bounds())
	}
	if len(kept) == 0 || b.IsEmpty() {
		return Empty()
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &intersection{shapes: kept, bounds: b}
}

func (x *intersection) Eval(p mathutil.Vec3) float64 {
	v := x.bounds.SDF(p)
	for _, s := range x.shapes {
		v = math.Max(v, s.Eval(p))
	}
	return v
}

func (x *intersection) Bounds() Bounds { return x.bounds }

func (x *intersection) Vertices() []mathutil.Vec3 {
	var out []mathutil.Vec3
	for _, c := range x.bounds.Corners() {
		if x.Eval(c) <= 0 {
			out = append(out, c)
		}
	}
	for _, s := range x.shapes {
		for _, v := range s.Vertices() {
			if x.Eval(v) <= 1e-9 {
				out = append(out, v)
			}
		}
	}
	return out
}

func (x *intersection) Transform(m mathutil.Mat4) Shape {
	out := make([]Shape, len(x.shapes))
	for i, s := range x.shapes {
		out[i] = s.Transform(m)
	}
	return Intersect(out...)
}

// transformed wraps leaves that cannot move their own vertices, such as extrusions.
type transformed struct {
	s      Shape
	m, inv mathutil.Mat4
	bounds Bounds
}

func newTransformed(s Shape, m mathutil.Mat4) Shape {
	if t, ok := s.(*transformed); ok {
		return newTransformed(t.s, mathutil.Mat4Mul(m, t.m))
	}
	return &transformed{s: s, m: m, inv: m.Inverse(), bounds: s.Bounds().Transform(m)}
}

func (t *transformed) Eval(p mathutil.Vec3) float64 {
	return math.Max(t.s.Eval(t.inv.MulPoint(p)), t.bounds.SDF(p))
}

func (t *transformed) Bounds() Bounds { return t.bounds }

func (t *transformed) Vertices() []mathutil.Vec3 {
	vs := t.s.Vertices()
	out := make([]mathutil.Vec3, len(vs))
	for i, v := range vs {
		out[i] = t.m.MulPoint(v)
	}
	return out
}

func (t *transformed) Transform(m mathutil.Mat4) Shape { return newTransformed(t, m) }

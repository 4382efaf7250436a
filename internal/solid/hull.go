package solid

import (
	"math"

	"dactyl-manuform/internal/mathutil"
)

// Hull is a convex polytope: hull vertices, outward-wound triangles and their planes.
type Hull struct {
	verts  []mathutil.Vec3
	faces  [][3]int
	planes []plane
	bounds Bounds
}

type plane struct {
	n mathutil.Vec3
	d float64
}

func (pl plane) dist(p mathutil.Vec3) float64 {
	return pl.n.Dot(p) - pl.d
}

func newHull(verts []mathutil.Vec3, faces [][3]int) *Hull {
	h := &Hull{verts: verts, faces: faces}
	h.planes = make([]plane, len(faces))
	for i, f := range faces {
		a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		h.planes[i] = plane{n: n, d: n.Dot(a)}
	}
	h.bounds = BoundsOf(verts)
	return h
}

func (h *Hull) Eval(p mathutil.Vec3) float64 {
	d := h.bounds.SDF(p)
	for _, pl := range h.planes {
		if v := pl.dist(p); v > d {
			d = v
		}
	}
	return d
}

func (h *Hull) Bounds() Bounds { return h.bounds }

func (h *Hull) Vertices() []mathutil.Vec3 { return h.verts }

// Faces returns the triangles as vertex triples, counter-clockwise seen from outside.
func (h *Hull) Faces() [][3]mathutil.Vec3 {
	out := make([][3]mathutil.Vec3, len(h.faces))
	for i, f := range h.faces {
		out[i] = [3]mathutil.Vec3{h.verts[f[0]], h.verts[f[1]], h.verts[f[2]]}
	}
	return out
}

func (h *Hull) Transform(m mathutil.Mat4) Shape {
	verts := make([]mathutil.Vec3, len(h.verts))
	for i, v := range h.verts {
		verts[i] = m.MulPoint(v)
	}
	flip := m.Linear().Det() < 0
	faces := make([][3]int, len(h.faces))
	for i, f := range h.faces {
		if flip {
			f[1], f[2] = f[2], f[1]
		}
		faces[i] = f
	}
	return newHull(verts, faces)
}

// Volume is exact: the sum of the signed tetrahedra spanned by each face and the origin.
func (h *Hull) Volume() float64 {
	var v float64
	for _, f := range h.faces {
		a, b, c := h.verts[f[0]], h.verts[f[1]], h.verts[f[2]]
		v += a.Dot(b.Cross(c))
	}
	return v / 6
}

// HullFromPoints returns the convex hull of pts. The result does not depend on the order of
// pts beyond floating point rounding of coplanar facets.
func HullFromPoints(pts []mathutil.Vec3) (*Hull, error) {
	pts = dedupe(pts)
	if len(pts) < 4 {
		return nil, ErrDegenerateHull
	}
	b := BoundsOf(pts)
	eps := 1e-10 * math.Max(1, b.Size().Len())

	i0, i1, i2, i3, ok := simplex(pts, eps)
	if !ok {
		return nil, ErrDegenerateHull
	}

	type face struct {
		v     [3]int
		pl    plane
		alive bool
	}
	var faces []face
	addFace := func(a, b, c int) {
		pa, pb, pc := pts[a], pts[b], pts[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
		faces = append(faces, face{v: [3]int{a, b, c}, pl: plane{n: n, d: n.Dot(pa)}, alive: true})
	}

	// Seed tetrahedron, each face wound away from the opposite vertex.
	tet := [4]int{i0, i1, i2, i3}
	for k := 0; k < 4; k++ {
		f := [3]int{}
		j := 0
		for m := 0; m < 4; m++ {
			if m != k {
				f[j] = tet[m]
				j++
			}
		}
		pa, pb, pc := pts[f[0]], pts[f[1]], pts[f[2]]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if n.Dot(pts[tet[k]].Sub(pa)) > 0 {
			f[1], f[2] = f[2], f[1]
		}
		addFace(f[0], f[1], f[2])
	}

	type edge [2]int
	for idx, p := range pts {
		if idx == i0 || idx == i1 || idx == i2 || idx == i3 {
			continue
		}
		var visible []int
		for fi := range faces {
			if faces[fi].alive && faces[fi].pl.dist(p) > eps {
				visible = append(visible, fi)
			}
		}
		if len(visible) == 0 {
			continue
		}
		edges := make(map[edge]bool, 3*len(visible))
		for _, fi := range visible {
			v := faces[fi].v
			edges[edge{v[0], v[1]}] = true
			edges[edge{v[1], v[2]}] = true
			edges[edge{v[2], v[0]}] = true
		}
		var horizon []edge
		for _, fi := range visible {
			v := faces[fi].v
			for _, e := range []edge{{v[0], v[1]}, {v[1], v[2]}, {v[2], v[0]}} {
				if !edges[edge{e[1], e[0]}] {
					horizon = append(horizon, e)
				}
			}
			faces[fi].alive = false
		}
		for _, e := range horizon {
			addFace(e[0], e[1], idx)
		}
	}

	// Compact to the vertices that survived, in order of first use.
	remap := make(map[int]int)
	var verts []mathutil.Vec3
	var out [][3]int
	for _, f := range faces {
		if !f.alive {
			continue
		}
		var t [3]int
		for k, vi := range f.v {
			ni, seen := remap[vi]
			if !seen {
				ni = len(verts)
				remap[vi] = ni
				verts = append(verts, pts[vi])
			}
			t[k] = ni
		}
		out = append(out, t)
	}
	return newHull(verts, out), nil
}

// simplex picks four affinely independent points spanning as much volume as possible.
func simplex(pts []mathutil.Vec3, eps float64) (i0, i1, i2, i3 int, ok bool) {
	for i, p := range pts {
		if p[0] < pts[i0][0] {
			i0 = i
		}
	}
	best := -1.0
	for i, p := range pts {
		if d := p.Sub(pts[i0]).Len(); d > best {
			best, i1 = d, i
		}
	}
	if best <= eps {
		return 0, 0, 0, 0, false
	}
	dir := pts[i1].Sub(pts[i0]).Normalize()
	best = -1
	for i, p := range pts {
		if d := p.Sub(pts[i0]).Cross(dir).Len(); d > best {
			best, i2 = d, i
		}
	}
	if best <= eps {
		return 0, 0, 0, 0, false
	}
	n := pts[i1].Sub(pts[i0]).Cross(pts[i2].Sub(pts[i0])).Normalize()
	best = -1
	for i, p := range pts {
		if d := math.Abs(n.Dot(p.Sub(pts[i0]))); d > best {
			best, i3 = d, i
		}
	}
	if best <= eps {
		return 0, 0, 0, 0, false
	}
	return i0, i1, i2, i3, true
}

func dedupe(pts []mathutil.Vec3) []mathutil.Vec3 {
	seen := make(map[mathutil.Vec3]struct{}, len(pts))
	out := make([]mathutil.Vec3, 0, len(pts))
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

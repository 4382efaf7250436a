package mesh

import (
	"cmp"
	"math"
	"slices"

	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/solid"
)

// Contour is a closed loop of a planar section. Outer boundaries run counter-clockwise
// (positive Area), holes clockwise.
type Contour struct {
	Points []mathutil.Vec2
	Area   float64
}

// edge identifies a grid edge: horizontal from (i,j) to (i+1,j) or vertical to (i,j+1).
type edge struct {
	i, j     int
	vertical bool
}

// Slice cuts s with the plane z and returns its contours, largest area first.
func Slice(s solid.Shape, z, cell float64) ([]Contour, error) {
	if solid.IsEmpty(s) {
		return nil, nil
	}
	g, err := newGrid(s.Bounds(), cell)
	if err != nil {
		return nil, err
	}
	at := func(i, j int) mathutil.Vec3 {
		p := g.point(i, j, 0)
		p[2] = z
		return p
	}
	v := make([]float64, g.nx*g.ny)
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			v[j*g.nx+i] = s.Eval(at(i, j))
		}
	}
	val := func(i, j int) float64 { return v[j*g.nx+i] }

	points := make(map[edge]mathutil.Vec2)
	next := make(map[edge]edge)
	var starts []edge

	// crossing point between two corners, always interpolated inside -> outside
	cross := func(e edge, i0, j0, i1, j1 int) {
		if _, ok := points[e]; ok {
			return
		}
		a, b := val(i0, j0), val(i1, j1)
		pa, pb := at(i0, j0), at(i1, j1)
		if b < 0 {
			a, b = b, a
			pa, pb = pb, pa
		}
		points[e] = pa.Lerp(pb, a/(a-b)).XY()
	}

	type crossing struct {
		e       edge
		leaving bool // inside -> outside walking counter-clockwise
	}
	for j := 0; j+1 < g.ny; j++ {
		for i := 0; i+1 < g.nx; i++ {
			c := [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}}
			es := [4]edge{{i, j, false}, {i + 1, j, true}, {i, j + 1, false}, {i, j, true}}
			var xs []crossing
			for k := 0; k < 4; k++ {
				a, b := c[k], c[(k+1)%4]
				ina, inb := val(a[0], a[1]) < 0, val(b[0], b[1]) < 0
				if ina == inb {
					continue
				}
				cross(es[k], a[0], a[1], b[0], b[1])
				xs = append(xs, crossing{e: es[k], leaving: ina})
			}
			if len(xs) == 0 {
				continue
			}
			joined := false
			if len(xs) == 4 {
				center := s.Eval(at(i, j).Add(mathutil.Vec3{g.cell / 2, g.cell / 2, 0}))
				joined = center < 0
			}
			for k, x := range xs {
				if !x.leaving {
					continue
				}
				var to crossing
				if joined || len(xs) == 2 {
					to = xs[(k+1)%len(xs)]
				} else {
					to = xs[(k+len(xs)-1)%len(xs)]
				}
				next[x.e] = to.e
				starts = append(starts, x.e)
			}
		}
	}

	var out []Contour
	seen := make(map[edge]bool, len(starts))
	for _, st := range starts {
		if seen[st] {
			continue
		}
		var loop []mathutil.Vec2
		for e := st; !seen[e]; {
			seen[e] = true
			loop = append(loop, points[e])
			n, ok := next[e]
			if !ok {
				break
			}
			e = n
		}
		if len(loop) >= 3 {
			out = append(out, Contour{Points: loop, Area: mathutil.SignedArea(loop)})
		}
	}
	slices.SortStableFunc(out, func(a, b Contour) int {
		return cmp.Compare(math.Abs(b.Area), math.Abs(a.Area))
	})
	return out, nil
}

// Centroid returns the area centroid of the contour.
func (c Contour) Centroid() mathutil.Vec2 {
	var cx, cy, a float64
	p := c.Points
	for i := range p {
		q := p[(i+1)%len(p)]
		w := p[i].Cross(q)
		a += w
		cx += (p[i][0] + q[0]) * w
		cy += (p[i][1] + q[1]) * w
	}
	if a == 0 {
		return mathutil.Vec2{}
	}
	return mathutil.Vec2{cx / (3 * a), cy / (3 * a)}
}

package mesh

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/solid"
)

// maxCells guards against a resolution that would sample billions of points.
const maxCells = 1 << 31

// cube corners, (x, y, z) offsets in cells.
var corners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// six tetrahedra sharing the 0-6 diagonal; neighbouring cubes split shared faces the same way.
var tets = [6][4]int{
	{0, 5, 1, 6}, {0, 1, 2, 6}, {0, 2, 3, 6},
	{0, 3, 7, 6}, {0, 7, 4, 6}, {0, 4, 5, 6},
}

type grid struct {
	origin     mathutil.Vec3
	cell       float64
	nx, ny, nz int // sample counts per axis
}

func newGrid(b solid.Bounds, cell float64) (grid, error) {
	if cell <= 0 {
		return grid{}, fmt.Errorf("mesh: cell size %g must be positive", cell)
	}
	b = b.Expand(cell)
	g := grid{origin: b.Min, cell: cell}
	size := b.Size()
	g.nx = int(math.Ceil(size[0]/cell)) + 1
	g.ny = int(math.Ceil(size[1]/cell)) + 1
	g.nz = int(math.Ceil(size[2]/cell)) + 1
	if float64(g.nx)*float64(g.ny)*float64(g.nz) > maxCells {
		return grid{}, fmt.Errorf("mesh: %dx%dx%d samples exceed the limit, raise the cell size", g.nx, g.ny, g.nz)
	}
	return g, nil
}

func (g grid) point(i, j, k int) mathutil.Vec3 {
	return mathutil.Vec3{
		g.origin[0] + float64(i)*g.cell,
		g.origin[1] + float64(j)*g.cell,
		g.origin[2] + float64(k)*g.cell,
	}
}

func (g grid) layer(s solid.Shape, k int, dst []float64) {
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			dst[j*g.nx+i] = s.Eval(g.point(i, j, k))
		}
	}
}

// Polygonize extracts the surface of s with marching tetrahedra on a grid of cell-sized
// cubes. Z slabs are meshed concurrently by up to workers goroutines; the triangle order
// depends only on the inputs.
func Polygonize(ctx context.Context, s solid.Shape, cell float64, workers int) (*Mesh, error) {
	if solid.IsEmpty(s) {
		return &Mesh{}, nil
	}
	g, err := newGrid(s.Bounds(), cell)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	layers := g.nz - 1
	slabs := min(layers, workers*4)
	parts := make([][]Triangle, slabs)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for n := 0; n < slabs; n++ {
		k0, k1 := n*layers/slabs, (n+1)*layers/slabs
		eg.Go(func() error {
			tris, err := g.slab(ctx, s, k0, k1)
			parts[n] = tris
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	m := &Mesh{}
	for _, p := range parts {
		m.Triangles = append(m.Triangles, p...)
	}
	return m, nil
}

// slab meshes the cubes between sample layers k0 and k1.
func (g grid) slab(ctx context.Context, s solid.Shape, k0, k1 int) ([]Triangle, error) {
	lo := make([]float64, g.nx*g.ny)
	hi := make([]float64, g.nx*g.ny)
	g.layer(s, k0, lo)
	var out []Triangle
	var p [8]mathutil.Vec3
	var v [8]float64
	for k := k0; k < k1; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.layer(s, k+1, hi)
		for j := 0; j+1 < g.ny; j++ {
			for i := 0; i+1 < g.nx; i++ {
				in := 0
				for c, o := range corners {
					idx := (j+o[1])*g.nx + i + o[0]
					if o[2] == 0 {
						v[c] = lo[idx]
					} else {
						v[c] = hi[idx]
					}
					if v[c] < 0 {
						in++
					}
				}
				if in == 0 || in == 8 {
					continue
				}
				for c, o := range corners {
					p[c] = g.point(i+o[0], j+o[1], k+o[2])
				}
				for _, t := range tets {
					out = tetrahedron(out,
						[4]mathutil.Vec3{p[t[0]], p[t[1]], p[t[2]], p[t[3]]},
						[4]float64{v[t[0]], v[t[1]], v[t[2]], v[t[3]]})
				}
			}
		}
		lo, hi = hi, lo
	}
	return out, nil
}

func tetrahedron(out []Triangle, p [4]mathutil.Vec3, v [4]float64) []Triangle {
	var in, outIdx []int
	for i := range v {
		if v[i] < 0 {
			in = append(in, i)
		} else {
			outIdx = append(outIdx, i)
		}
	}
	// Edge points are always interpolated inside -> outside, so tetrahedra sharing an
	// edge produce the same vertex.
	cut := func(a, b int) mathutil.Vec3 {
		t := v[a] / (v[a] - v[b])
		return p[a].Lerp(p[b], t)
	}
	dir := mathutil.Mean(pick(p, outIdx)).Sub(mathutil.Mean(pick(p, in)))
	emit := func(a, b, c mathutil.Vec3) {
		t := Triangle{a, b, c}
		if b.Sub(a).Cross(c.Sub(a)).Dot(dir) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		out = append(out, t)
	}
	switch len(in) {
	case 1:
		a := in[0]
		emit(cut(a, outIdx[0]), cut(a, outIdx[1]), cut(a, outIdx[2]))
	case 3:
		o := outIdx[0]
		emit(cut(in[0], o), cut(in[1], o), cut(in[2], o))
	case 2:
		a, b := in[0], in[1]
		c, d := outIdx[0], outIdx[1]
		ac, ad, bd, bc := cut(a, c), cut(a, d), cut(b, d), cut(b, c)
		emit(ac, ad, bd)
		emit(ac, bd, bc)
	}
	return out
}

func pick(p [4]mathutil.Vec3, idx []int) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(idx))
	for i, k := range idx {
		out[i] = p[k]
	}
	return out
}

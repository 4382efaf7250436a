package solid

import (
	"math"

	"dactyl-manuform/internal/mathutil"
)

// extrusion is a planar region lifted between two heights. The region is the even-odd fill
// of its loops, so inner loops are holes.
type extrusion struct {
	loops  [][]mathutil.Vec2
	z0, z1 float64
	bounds Bounds
}

// Extrude lifts the region bounded by loops to the slab z0 <= z <= z1.
func Extrude(loops [][]mathutil.Vec2, z0, z1 float64) Shape {
	if z1 < z0 {
		z0, z1 = z1, z0
	}
	var kept [][]mathutil.Vec2
	b := EmptyBounds()
	for _, l := range loops {
		if len(l) < 3 {
			continue
		}
		kept = append(kept, l)
		for _, p := range l {
			b = b.Union(Bounds{Min: p.Vec3(z0), Max: p.Vec3(z1)})
		}
	}
	if len(kept) == 0 || z1 == z0 {
		return Empty()
	}
	return &extrusion{loops: kept, z0: z0, z1: z1, bounds: b}
}

func (e *extrusion) Eval(p mathutil.Vec3) float64 {
	q := p.XY()
	d := math.Inf(1)
	inside := false
	for _, l := range e.loops {
		for i := range l {
			a, b := l[i], l[(i+1)%len(l)]
			d = math.Min(d, segmentDist(q, a, b))
			if (a[1] > q[1]) != (b[1] > q[1]) {
				x := a[0] + (q[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
				if q[0] < x {
					inside = !inside
				}
			}
		}
	}
	if inside {
		d = -d
	}
	dz := math.Max(e.z0-p[2], p[2]-e.z1)
	var v float64
	if d > 0 && dz > 0 {
		v = math.Hypot(d, dz)
	} else {
		v = math.Max(d, dz)
	}
	return math.Max(v, e.bounds.SDF(p))
}

func segmentDist(p, a, b mathutil.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Scale(t))).Len()
}

func (e *extrusion) Bounds() Bounds { return e.bounds }

func (e *extrusion) Vertices() []mathutil.Vec3 {
	var out []mathutil.Vec3
	for _, l := range e.loops {
		for _, p := range l {
			out = append(out, p.Vec3(e.z0), p.Vec3(e.z1))
		}
	}
	return out
}

func (e *extrusion) Transform(m mathutil.Mat4) Shape { return newTransformed(e, m) }

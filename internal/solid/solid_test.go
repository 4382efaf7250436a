package solid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"dactyl-manuform/internal/mathutil"
)

func samplePoints(b Bounds, n int, seed int64) []mathutil.Vec3 {
	r := rand.New(rand.NewSource(seed))
	b = b.Expand(1)
	pts := make([]mathutil.Vec3, n)
	for i := range pts {
		for k := 0; k < 3; k++ {
			pts[i][k] = b.Min[k] + r.Float64()*(b.Max[k]-b.Min[k])
		}
	}
	return pts
}

func TestBoxEval(t *testing.T) {
	b := Box(2, 4, 6)
	require.InDelta(t, -1.0, b.Eval(mathutil.Vec3{}), 1e-12)
	require.InDelta(t, 1.0, b.Eval(mathutil.Vec3{2, 0, 0}), 1e-12)
	require.InDelta(t, math.Sqrt2, b.Eval(mathutil.Vec3{2, 3, 0}), 1e-12)
	require.InDelta(t, 48.0, Volume(b, 0), 1e-9)
}

func TestHullFromPointsCube(t *testing.T) {
	var pts []mathutil.Vec3
	for i := 0; i < 8; i++ {
		pts = append(pts, mathutil.Vec3{float64(i & 1), float64(i >> 1 & 1), float64(i >> 2 & 1)})
	}
	// interior and duplicate points must not change the hull
	pts = append(pts, mathutil.Vec3{0.5, 0.5, 0.5}, pts[3])
	h, err := HullFromPoints(pts)
	require.NoError(t, err)
	require.Len(t, h.Vertices(), 8)
	require.Len(t, h.Faces(), 12)
	require.InDelta(t, 1.0, h.Volume(), 1e-12)
}

func TestHullIsOrderIndependent(t *testing.T) {
	pts := samplePoints(Bounds{Max: mathutil.Vec3{3, 2, 1}}, 60, 1)
	h1, err := HullFromPoints(pts)
	require.NoError(t, err)

	rev := make([]mathutil.Vec3, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	h2, err := HullFromPoints(rev)
	require.NoError(t, err)

	require.InDelta(t, h1.Volume(), h2.Volume(), 1e-9)
	for _, p := range samplePoints(h1.Bounds(), 200, 2) {
		require.InDelta(t, h1.Eval(p), h2.Eval(p), 1e-9)
	}
}

func TestHullDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []mathutil.Vec3
	}{
		{"too few", []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		{"collinear", []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}},
		{"coplanar", []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {2, 3, 0}}},
		{"duplicates", []mathutil.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}, {1, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HullFromPoints(tt.pts)
			require.ErrorIs(t, err, ErrDegenerateHull)
		})
	}
}

func TestMirrorIsInvolution(t *testing.T) {
	s := Union(
		Translate(Rotate(Box(3, 2, 1), mathutil.Vec3{10, 20, 30}), mathutil.Vec3{4, -1, 2}),
		Difference(Cylinder(2, 5, 16), Translate(Box(1, 1, 10), mathutil.Vec3{0.3, 0.1, 0})),
		Translate(Sphere(1.5, 12), mathutil.Vec3{-3, 2, 1}),
	)
	for _, plane := range []mathutil.Plane{mathutil.PlaneYZ, mathutil.PlaneXZ, mathutil.PlaneXY} {
		back := Mirror(Mirror(s, plane), plane)
		require.Equal(t, s.Bounds(), back.Bounds(), plane)
		for _, p := range samplePoints(s.Bounds(), 300, 3) {
			require.Equal(t, s.Eval(p), back.Eval(p), plane)
		}
	}
}

func TestMirrorReflectsField(t *testing.T) {
	s := Translate(Rotate(Box(3, 2, 1), mathutil.Vec3{5, 15, 25}), mathutil.Vec3{4, 1, 2})
	m := Mirror(s, mathutil.PlaneYZ)
	for _, p := range samplePoints(s.Bounds(), 200, 4) {
		q := mathutil.Vec3{-p[0], p[1], p[2]}
		require.Equal(t, s.Eval(p), m.Eval(q))
	}
	require.Panics(t, func() { Mirror(s, "QQ") })
}

func TestUnionMatchesPairwise(t *testing.T) {
	var shapes []Shape
	for i := 0; i < 9; i++ {
		shapes = append(shapes, Translate(Box(1, 1, 1), mathutil.Vec3{float64(i) * 0.7, float64(i % 3), 0}))
	}
	nary := Union(shapes...)
	pair := shapes[0]
	for _, s := range shapes[1:] {
		pair = Union(pair, s)
	}
	for _, p := range samplePoints(nary.Bounds(), 300, 5) {
		want := math.Inf(1)
		for _, s := range shapes {
			want = math.Min(want, s.Eval(p))
		}
		require.Equal(t, want, nary.Eval(p))
		require.Equal(t, want, pair.Eval(p))
	}
}

func TestDifferenceAndIntersect(t *testing.T) {
	d := Difference(Box(4, 4, 4), Box(2, 2, 10))
	require.Greater(t, d.Eval(mathutil.Vec3{}), 0.0)
	require.Less(t, d.Eval(mathutil.Vec3{1.5, 1.5, 0}), 0.0)
	require.InDelta(t, 64.0-16.0, Volume(d, 0.25), 1e-9)

	x := Intersect(Box(4, 4, 4), Translate(Box(4, 4, 4), mathutil.Vec3{2, 0, 0}))
	require.InDelta(t, 32.0, Volume(x, 0.25), 1e-9)
	require.True(t, IsEmpty(Intersect(Box(1, 1, 1), Translate(Box(1, 1, 1), mathutil.Vec3{5, 0, 0}))))
	require.True(t, IsEmpty(Box(0, 1, 1)))
}

func TestBottomHullReachesFloor(t *testing.T) {
	post := Translate(Box(0.1, 0.1, 1), mathutil.Vec3{3, 4, 20})
	h, err := BottomHull([]Shape{post, Translate(post, mathutil.Vec3{5, 0, -3})}, BottomFloor)
	require.NoError(t, err)
	require.Equal(t, BottomFloor, h.Bounds().Min[2])
	require.Less(t, h.Eval(mathutil.Vec3{3, 4, 0}), 0.0)
}

func TestTriangleHullsPropagatesDegenerate(t *testing.T) {
	p := Translate(Box(1, 1, 1), mathutil.Vec3{1, 0, 0})
	s, err := TriangleHulls(Box(1, 1, 1), p, Translate(p, mathutil.Vec3{0, 1, 0}), Box(1, 1, 1))
	require.NoError(t, err)
	require.Len(t, Leaves(s), 2)

	var acc Accumulator
	acc.Add(HullFromPoints(nil))
	acc.Add(Box(1, 1, 1), nil)
	_, err = acc.Union()
	require.ErrorIs(t, err, ErrDegenerateHull)
}

func TestExtrudeWithHole(t *testing.T) {
	outer := []mathutil.Vec2{{-2, -2}, {2, -2}, {2, 2}, {-2, 2}}
	hole := []mathutil.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	e := Extrude([][]mathutil.Vec2{outer, hole}, 0, 1)
	require.Greater(t, e.Eval(mathutil.Vec3{0, 0, 0.5}), 0.0)
	require.Less(t, e.Eval(mathutil.Vec3{1.5, 0, 0.5}), 0.0)
	require.Greater(t, e.Eval(mathutil.Vec3{1.5, 0, 2}), 0.0)
	require.InDelta(t, 12.0, Volume(e, 0.1), 0.2)

	m := Mirror(Translate(e, mathutil.Vec3{5, 0, 0}), mathutil.PlaneYZ)
	require.Less(t, m.Eval(mathutil.Vec3{-6.5, 0, 0.5}), 0.0)
	require.Greater(t, m.Eval(mathutil.Vec3{6.5, 0, 0.5}), 0.0)
}

func TestEvalNeverBelowBounds(t *testing.T) {
	shapes := []Shape{
		Sphere(2, 16),
		Cone(2, 0, 3, 16),
		Difference(Box(3, 3, 3), Sphere(1.8, 16)),
		Translate(Extrude([][]mathutil.Vec2{{{0, 0}, {2, 0}, {0, 2}}}, -1, 1), mathutil.Vec3{1, 1, 1}),
	}
	for _, s := range shapes {
		for _, p := range samplePoints(s.Bounds(), 200, 6) {
			require.GreaterOrEqual(t, s.Eval(p), s.Bounds().SDF(p))
		}
	}
}

package mesh

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/solid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPolygonizeBox(t *testing.T) {
	box := solid.Translate(solid.Box(4, 3, 2), mathutil.Vec3{1, 2, 3})
	m, err := Polygonize(context.Background(), box, 0.25, 4)
	require.NoError(t, err)
	require.NotEmpty(t, m.Triangles)

	for _, tri := range m.Triangles {
		for _, v := range tri {
			require.InDelta(t, 0, box.Eval(v), 0.25)
		}
	}
	// outward winding gives a positive enclosed volume
	require.InDelta(t, 24.0, m.Volume(), 1.5)

	b := m.Bounds()
	require.InDelta(t, -1.0, b.Min[0], 0.25)
	require.InDelta(t, 2.0, b.Min[2], 0.25)
	require.InDelta(t, 4.0, b.Max[2], 0.25)
}

func TestPolygonizeIsDeterministic(t *testing.T) {
	s := solid.Union(solid.Sphere(2, 16), solid.Translate(solid.Box(1, 1, 5), mathutil.Vec3{1.5, 0, 0}))
	a, err := Polygonize(context.Background(), s, 0.3, 1)
	require.NoError(t, err)
	b, err := Polygonize(context.Background(), s, 0.3, 8)
	require.NoError(t, err)
	require.Equal(t, a.Triangles, b.Triangles)
}

func TestPolygonizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Polygonize(ctx, solid.Sphere(2, 16), 0.2, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolygonizeRejectsBadCell(t *testing.T) {
	_, err := Polygonize(context.Background(), solid.Box(1, 1, 1), 0, 1)
	require.Error(t, err)

	m, err := Polygonize(context.Background(), solid.Empty(), 0.5, 1)
	require.NoError(t, err)
	require.Empty(t, m.Triangles)
}

func TestSliceRing(t *testing.T) {
	ring := solid.Difference(solid.Cylinder(10, 4, 64), solid.Cylinder(6, 6, 64))
	cs, err := Slice(ring, 0, 0.2)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	outer, inner := cs[0], cs[1]
	require.Greater(t, outer.Area, 0.0)
	require.Less(t, inner.Area, 0.0)
	require.InDelta(t, math.Pi*100, outer.Area, 3)
	require.InDelta(t, -math.Pi*36, inner.Area, 3)

	c := outer.Centroid()
	require.InDelta(t, 0, c[0], 0.05)
	require.InDelta(t, 0, c[1], 0.05)
}

func TestSliceMissesSolid(t *testing.T) {
	cs, err := Slice(solid.Translate(solid.Box(1, 1, 1), mathutil.Vec3{0, 0, 5}), 0, 0.1)
	require.NoError(t, err)
	require.Empty(t, cs)
}

package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRotationsAreRightHanded(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
		in   Vec3
		want Vec3
	}{
		{"x turns y into z", RotX(math.Pi / 2), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"y turns z into x", RotY(math.Pi / 2), Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{"z turns x into y", RotZ(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.MulVec3(tt.in)
			require.InDeltaSlice(t, tt.want[:], got[:], 1e-12)
		})
	}
}

func TestRotXYZOrder(t *testing.T) {
	// X first: (0,1,0) -> (0,0,1) about X, then about Z leaves it alone.
	got := RotXYZ(Vec3{90, 0, 90}).MulVec3(Vec3{0, 1, 0})
	require.InDeltaSlice(t, []float64{0, 0, 1}, got[:], 1e-12)
}

func TestMat4InverseRoundTrip(t *testing.T) {
	m := FromMat3Translation(RotXYZ(Vec3{10, -20, 30}), Vec3{3, -4, 5})
	p := Vec3{1.5, 2.5, -3.5}
	back := m.Inverse().MulPoint(m.MulPoint(p))
	require.InDeltaSlice(t, p[:], back[:], 1e-12)
	require.True(t, Mat4Mul(m, m.Inverse()).IsIdentity())
}

func TestMirrorMatrixIsInvolution(t *testing.T) {
	for _, p := range []Plane{PlaneXY, PlaneYX, PlaneXZ, PlaneZX, PlaneYZ, PlaneZY} {
		m, ok := MirrorMatrix(p)
		require.True(t, ok, p)
		v := Vec3{1.25, -2.5, 3.75}
		require.Equal(t, v, m.MulVec3(m.MulVec3(v)), p)
		require.Equal(t, -1.0, m.Det(), p)
	}
	_, ok := MirrorMatrix("XX")
	require.False(t, ok)
}

func TestConvexHull2D(t *testing.T) {
	pts := []Vec2{{0, 0}, {2, 0}, {1, 1}, {2, 2}, {0, 2}, {1, 0}}
	h := ConvexHull2D(pts)
	require.Len(t, h, 4)
	require.InDelta(t, 4.0, SignedArea(h), 1e-12)
}

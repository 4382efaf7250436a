package mathutil

// Mat4 is a 4×4 affine matrix stored row-major; the bottom row is always 0, 0, 0, 1.
// Shapes carry one of these for their accumulated transform.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Translation(Vec3{})
}

// FromMat3Translation builds the affine matrix that applies r and then moves by t.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Translation returns a pure translation by t.
func Translation(t Vec3) Mat4 {
	return FromMat3Translation(Mat3Identity(), t)
}

// Linear returns the upper-left 3×3 block.
func (m Mat4) Linear() Mat3 {
	return Mat3{m[0], m[1], m[2], m[4], m[5], m[6], m[8], m[9], m[10]}
}

// Offset returns the translation column.
func (m Mat4) Offset() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// Mat4Mul returns a × b: b is applied first.
func Mat4Mul(a, b Mat4) Mat4 {
	l := a.Linear()
	return FromMat3Translation(Mat3Mul(l, b.Linear()), l.MulVec3(b.Offset()).Add(a.Offset()))
}

// MulPoint transforms point v.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return m.Linear().MulVec3(v).Add(m.Offset())
}

// Inverse undoes m.
func (m Mat4) Inverse() Mat4 {
	inv := m.Linear().Inverse()
	return FromMat3Translation(inv, inv.MulVec3(m.Offset()).Scale(-1))
}

// IsIdentity reports whether m is the identity within 1e-8.
func (m Mat4) IsIdentity() bool {
	id := Mat4Identity()
	for i, v := range m {
		if d := v - id[i]; d > 1e-8 || d < -1e-8 {
			return false
		}
	}
	return true
}

package mathutil

import "math"

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3Diag(1, 1, 1)
}

func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3FromRows stacks three row vectors.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{r0[0], r0[1], r0[2], r1[0], r1[1], r1[2], r2[0], r2[1], r2[2]}
}

// Row returns row i.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[3*i], m[3*i+1], m[3*i+2]}
}

// Col returns column j.
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[j], m[3+j], m[6+j]}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := range 3 {
		row := a.Row(r)
		for c := range 3 {
			m[3*r+c] = row.Dot(b.Col(c))
		}
	}
	return m
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

// Det is the triple product of the rows.
func (m Mat3) Det() float64 {
	return m.Row(0).Dot(m.Row(1).Cross(m.Row(2)))
}

// Inverse returns the inverse of m, or the identity when m is singular. The columns of the
// inverse are the pairwise cross products of the rows over the determinant.
func (m Mat3) Inverse() Mat3 {
	r0, r1, r2 := m.Row(0), m.Row(1), m.Row(2)
	d := r0.Dot(r1.Cross(r2))
	if d == 0 {
		return Mat3Identity()
	}
	c0 := r1.Cross(r2).Scale(1 / d)
	c1 := r2.Cross(r0).Scale(1 / d)
	c2 := r0.Cross(r1).Scale(1 / d)
	return Mat3FromRows(
		Vec3{c0[0], c1[0], c2[0]},
		Vec3{c0[1], c1[1], c2[1]},
		Vec3{c0[2], c1[2], c2[2]},
	)
}

// RotX rotates about the X axis by a radians, right-handed.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3FromRows(Vec3{1, 0, 0}, Vec3{0, c, -s}, Vec3{0, s, c})
}

// RotY rotates about the Y axis by a radians.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3FromRows(Vec3{c, 0, s}, Vec3{0, 1, 0}, Vec3{-s, 0, c})
}

// RotZ rotates about the Z axis by a radians.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3FromRows(Vec3{c, -s, 0}, Vec3{s, c, 0}, Vec3{0, 0, 1})
}

// RotXYZ rotates about X, then Y, then Z. Angles in degrees, the CAD convention.
func RotXYZ(deg Vec3) Mat3 {
	r := Deg2Rad
	return Mat3Mul(RotZ(r(deg[2])), Mat3Mul(RotY(r(deg[1])), RotX(r(deg[0]))))
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }

func Rad2Deg(r float64) float64 { return r * 180 / math.Pi }

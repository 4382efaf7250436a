package mathutil

// Plane names a mirror plane the way CAD scripts spell it; "XY" and "YX" are the same plane.
type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneYX Plane = "YX"
	PlaneXZ Plane = "XZ"
	PlaneZX Plane = "ZX"
	PlaneYZ Plane = "YZ"
	PlaneZY Plane = "ZY"
)

// Mirror matrices. Each is its own inverse.
var (
	MirrorX = Mat3Diag(-1, 1, 1) // across YZ
	MirrorY = Mat3Diag(1, -1, 1) // across XZ
	MirrorZ = Mat3Diag(1, 1, -1) // across XY
)

// MirrorMatrix returns the reflection across plane p, and false for an unknown name.
func MirrorMatrix(p Plane) (Mat3, bool) {
	switch p {
	case PlaneXY, PlaneYX:
		return MirrorZ, true
	case PlaneXZ, PlaneZX:
		return MirrorY, true
	case PlaneYZ, PlaneZY:
		return MirrorX, true
	}
	return Mat3{}, false
}

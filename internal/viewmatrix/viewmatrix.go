// Package viewmatrix holds the preview camera presets and projects mesh vertices to screen
// space.
package viewmatrix

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"dactyl-manuform/internal/mathutil"
)

// ErrUnknownView is returned for a camera name that is not a preset.
var ErrUnknownView = errors.New("viewmatrix: unknown view")

// DefaultFOV is the perspective field of view in degrees.
const DefaultFOV = 30.0

// Camera is a view rotation with an optional perspective. FOV 0 is orthographic.
type Camera struct {
	Name string
	R    mathutil.Mat3
	FOV  float64
}

// orbit looks at the model from azimuth az around +z and elevation el above the xy plane.
// Screen x is to the right, y up, and depth grows toward the viewer.
func orbit(az, el float64) mathutil.Mat3 {
	tilt := mathutil.RotX(mathutil.Deg2Rad(el - 90))
	spin := mathutil.RotZ(mathutil.Deg2Rad(-az))
	return mathutil.Mat3Mul(tilt, spin)
}

var presets = map[string]Camera{
	"top":   {R: mathutil.Mat3Identity()},
	"front": {R: orbit(0, 0)},
	"side":  {R: orbit(-90, 0)},
	"iso":   {R: orbit(-30, 35)},
	"persp": {R: orbit(-30, 35), FOV: DefaultFOV},
}

// Views lists the preset names.
func Views() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the preset camera name.
func Lookup(name string) (Camera, error) {
	c, ok := presets[strings.ToLower(name)]
	if !ok {
		return Camera{}, fmt.Errorf("%w %q (have %s)", ErrUnknownView, name, strings.Join(Views(), ", "))
	}
	c.Name = strings.ToLower(name)
	return c, nil
}

// Projection maps view space onto a square raster of Size pixels.
type Projection struct {
	Camera Camera
	Center mathutil.Vec3
	Scale  float64
	Size   int

	camDist float64
}

// Fit frames verts, rotated by c, inside a raster of size pixels with margin pixels on
// every side.
func Fit(c Camera, verts []mathutil.Vec3, size, margin int) Projection {
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		t := c.R.MulVec3(v)
		lo, hi = lo.Min(t), hi.Max(t)
	}
	if len(verts) == 0 {
		lo, hi = mathutil.Vec3{}, mathutil.Vec3{}
	}
	center := lo.Add(hi).Scale(0.5)
	span := max(hi[0]-lo[0], hi[1]-lo[1], 0.001)

	p := Projection{
		Camera: c,
		Center: center,
		Scale:  float64(size-2*margin) / span,
		Size:   size,
	}
	if c.FOV > 0 {
		// the camera sits far enough back to keep the xy half-extent in view
		half := math.Max(span/2, 0.001)
		p.camDist = half/math.Tan(mathutil.Deg2Rad(c.FOV/2)) + (hi[2]-lo[2])/2
	}
	return p
}

// Project returns the screen position of v: pixel x, pixel y (down) and view depth.
func (p Projection) Project(v mathutil.Vec3) mathutil.Vec3 {
	t := p.Camera.R.MulVec3(v).Sub(p.Center)
	if p.camDist > 0 {
		depth := math.Max(p.camDist-t[2], 0.1)
		f := p.camDist / depth
		t[0] *= f
		t[1] *= f
	}
	half := float64(p.Size) / 2
	return mathutil.Vec3{t[0]*p.Scale + half, -t[1]*p.Scale + half, t[2]}
}

// Package raster draws a z-buffered, flat-shaded preview of a triangle mesh.
package raster

import (
	"image"

	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/mesh"
	"dactyl-manuform/internal/viewmatrix"
)

// Options control one preview render.
type Options struct {
	Camera      viewmatrix.Camera
	Size        int
	Supersample int
	Light       LightConfig
}

// Render draws m into a transparent square image of Size*Supersample pixels. An empty mesh
// gives a blank image.
func Render(m *mesh.Mesh, opt Options) *image.NRGBA {
	ss := max(opt.Supersample, 1)
	renderSize := opt.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize)
	if m == nil || len(m.Triangles) == 0 {
		return fb.Image()
	}

	verts := make([]mathutil.Vec3, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		verts = append(verts, t[:]...)
	}
	proj := viewmatrix.Fit(opt.Camera, verts, renderSize, 16*ss)

	lc := opt.Light
	for _, t := range m.Triangles {
		n := opt.Camera.R.MulVec3(t.Normal())
		var p [3]mathutil.Vec3
		for i, v := range t {
			p[i] = proj.Project(v)
		}
		RasterizeTriangle(fb, p, lc.Shade(lc.ComputeShade(n)))
	}
	return fb.Image()
}

package raster

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/mesh"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/viewmatrix"
)

func options(t *testing.T, view string) Options {
	t.Helper()
	c, err := viewmatrix.Lookup(view)
	require.NoError(t, err)
	return Options{Camera: c, Size: 64, Supersample: 1, Light: DefaultLightConfig()}
}

func TestRasterizeTriangleDepth(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	far := [3]mathutil.Vec3{{0, 0, 0}, {8, 0, 0}, {0, 8, 0}}
	near := [3]mathutil.Vec3{{0, 0, 1}, {0, 8, 1}, {8, 0, 1}}

	RasterizeTriangle(fb, near, blue)
	RasterizeTriangle(fb, far, red)
	img := fb.Image()
	assert.Equal(t, blue, img.NRGBAAt(1, 1))
	assert.Equal(t, uint8(0), img.NRGBAAt(7, 7).A)
	assert.Positive(t, fb.Covered())
	assert.Less(t, fb.Covered(), 64)
}

func TestRasterizeTriangleClips(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	RasterizeTriangle(fb, [3]mathutil.Vec3{{-10, -10, 0}, {20, -10, 0}, {-10, 20, 0}}, color.NRGBA{G: 255, A: 255})
	assert.Equal(t, 16, fb.Covered())

	fb = NewFrameBuffer(4, 4)
	RasterizeTriangle(fb, [3]mathutil.Vec3{{10, 10, 0}, {12, 10, 0}, {10, 12, 0}}, color.NRGBA{A: 255})
	assert.Zero(t, fb.Covered())
}

func TestRenderBox(t *testing.T) {
	m, err := mesh.Polygonize(context.Background(), solid.Box(10, 10, 10), 1, 2)
	require.NoError(t, err)

	img := Render(m, options(t, "top"))
	require.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.NRGBAAt(32, 32).A)
	assert.Zero(t, img.NRGBAAt(1, 1).A)

	iso := Render(m, options(t, "iso"))
	assert.Equal(t, uint8(255), iso.NRGBAAt(32, 32).A)
}

func TestRenderEmpty(t *testing.T) {
	opt := options(t, "iso")
	opt.Supersample = 2
	img := Render(&mesh.Mesh{}, opt)
	assert.Equal(t, 128, img.Bounds().Dx())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}

func TestShadeIsBrighterFacingLight(t *testing.T) {
	lc := DefaultLightConfig()
	lit := lc.Shade(lc.ComputeShade(lc.LightDir))
	grazing := lc.Shade(lc.ComputeShade(lc.LightDir.Cross(lc.RimDir).Normalize()))
	assert.Greater(t, lit.R, grazing.R)
	assert.Equal(t, lc.BaseColor.A, lit.A)
}

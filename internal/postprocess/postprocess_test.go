package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grey = color.NRGBA{R: 120, G: 120, B: 130, A: 255}

func fill(img *image.NRGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, grey)
		}
	}
}

func opaqueBounds(img *image.NRGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestRemoveSmallClusters(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fill(img, image.Rect(5, 5, 25, 25))
	img.SetNRGBA(35, 35, grey)

	out := RemoveSmallClusters(img, 0.01)
	assert.Zero(t, out.NRGBAAt(35, 35).A)
	assert.Equal(t, grey, out.NRGBAAt(10, 10))
	// the input is untouched
	assert.Equal(t, grey, img.NRGBAAt(35, 35))

	single := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fill(single, image.Rect(1, 1, 3, 3))
	assert.Same(t, single, RemoveSmallClusters(single, 0.5))
}

func TestCropAndCenter(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	fill(img, image.Rect(0, 0, 20, 10))

	out := CropAndCenter(img, 50, 0.8)
	require.Equal(t, image.Rect(0, 0, 50, 50), out.Bounds())
	got := opaqueBounds(out)
	assert.InDelta(t, 40, got.Dx(), 1)
	assert.InDelta(t, 20, got.Dy(), 1)
	assert.InDelta(t, 25, (got.Min.X+got.Max.X)/2, 1)
	assert.InDelta(t, 25, (got.Min.Y+got.Max.Y)/2, 1)
}

func TestCropAndCenterBlank(t *testing.T) {
	out := CropAndCenter(image.NewNRGBA(image.Rect(0, 0, 10, 10)), 16, 0.9)
	assert.Equal(t, 16, out.Bounds().Dx())
	assert.True(t, opaqueBounds(out).Empty())
}

func TestDownsample(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	fill(img, image.Rect(0, 0, 64, 64))
	out := Downsample(img, 32, 32)
	require.Equal(t, image.Rect(0, 0, 32, 32), out.Bounds())
	assert.Equal(t, grey, out.NRGBAAt(16, 16))

	assert.Same(t, out, Downsample(out, 32, 32))
}

func TestPair(t *testing.T) {
	left := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fill(left, image.Rect(0, 0, 20, 20))
	right := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fill(right, image.Rect(20, 20, 40, 40))

	out := Pair(left, right, 100, 0.9)
	require.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
	got := opaqueBounds(out)
	assert.Greater(t, got.Dx(), 2*got.Dy())
	assert.Equal(t, uint8(255), out.NRGBAAt(25, 50).A)
	assert.Equal(t, uint8(255), out.NRGBAAt(75, 50).A)
}

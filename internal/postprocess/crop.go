package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// CropAndCenter crops img to its opaque pixels, then scales them to fill fillRatio of a
// size x size canvas and centers them.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	return scaleAndCenter(cropAlpha(img), size, size, fillRatio)
}

// cropAlpha returns the bounding box of the opaque pixels, rebased at the origin.
func cropAlpha(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX || maxY < minY {
		return img
	}

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	cropped := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	for y := 0; y < cropH; y++ {
		srcOff := (minY+y)*img.Stride + minX*4
		dstOff := y * cropped.Stride
		copy(cropped.Pix[dstOff:dstOff+cropW*4], img.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped
}

// scaleAndCenter fits img into fillRatio of a w x h transparent canvas.
func scaleAndCenter(img *image.NRGBA, w, h int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return canvas
	}

	f := math.Min(float64(w)*fillRatio/float64(srcW), float64(h)*fillRatio/float64(srcH))
	newW := max(int(float64(srcW)*f+0.5), 1)
	newH := max(int(float64(srcH)*f+0.5), 1)
	offX, offY := (w-newW)/2, (h-newH)/2

	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, b, draw.Src, nil)
	return canvas
}

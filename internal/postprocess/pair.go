package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Pair crops both halves, sets left beside right with a gap of an eighth of their width
// and fits the pair into fillRatio of a size x size canvas.
func Pair(left, right *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	l, r := cropAlpha(left), cropAlpha(right)
	lb, rb := l.Bounds(), r.Bounds()
	gap := max((lb.Dx()+rb.Dx())/16, 2)

	pairW := lb.Dx() + gap + rb.Dx()
	pairH := max(lb.Dy(), rb.Dy())
	pair := image.NewNRGBA(image.Rect(0, 0, pairW, pairH))
	draw.Copy(pair, image.Pt(0, (pairH-lb.Dy())/2), l, lb, draw.Over, nil)
	draw.Copy(pair, image.Pt(lb.Dx()+gap, (pairH-rb.Dy())/2), r, rb, draw.Over, nil)

	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	sc := min(float64(size)*fillRatio/float64(pairW), float64(size)*fillRatio/float64(pairH))
	dstW := max(int(float64(pairW)*sc), 1)
	dstH := max(int(float64(pairH)*sc), 1)
	offX, offY := (size-dstW)/2, (size-dstH)/2

	draw.CatmullRom.Scale(canvas, image.Rect(offX, offY, offX+dstW, offY+dstH), pair, pair.Bounds(), draw.Over, &draw.Options{
		SrcMask:  &alphaMask{pair},
		SrcMaskP: pair.Bounds().Min,
	})
	return canvas
}

// alphaMask implements image.Image using only the alpha channel.
type alphaMask struct {
	src *image.NRGBA
}

func (m *alphaMask) ColorModel() color.Model { return color.AlphaModel }
func (m *alphaMask) Bounds() image.Rectangle { return m.src.Bounds() }
func (m *alphaMask) At(x, y int) color.Color {
	return color.Alpha{A: m.src.NRGBAAt(x, y).A}
}

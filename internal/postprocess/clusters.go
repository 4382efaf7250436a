package postprocess

import "image"

// components labels the 8-connected groups of non-transparent pixels. Transparent pixels
// get label -1; sizes is indexed by label.
func components(img *image.NRGBA) (labels, sizes []int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	labels = make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	opaque := func(x, y int) bool { return img.Pix[y*img.Stride+x*4+3] > 0 }

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	queue := make([]int, 0, 1024)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if labels[idx] >= 0 || !opaque(x, y) {
				continue
			}
			id := len(sizes)
			queue = append(queue[:0], idx)
			labels[idx] = id
			size := 0
			for len(queue) > 0 {
				curr := queue[0]
				queue = queue[1:]
				size++
				cx, cy := curr%w, curr/w
				for d := 0; d < 8; d++ {
					nx, ny := cx+dx[d], cy+dy[d]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if labels[ni] < 0 && opaque(nx, ny) {
						labels[ni] = id
						queue = append(queue, ni)
					}
				}
			}
			sizes = append(sizes, size)
		}
	}
	return labels, sizes
}

// RemoveSmallClusters clears the pixel groups smaller than minRatio of all opaque pixels.
// Marching-tetrahedra slivers show up as such specks in a preview.
func RemoveSmallClusters(img *image.NRGBA, minRatio float64) *image.NRGBA {
	labels, sizes := components(img)
	if len(sizes) <= 1 {
		return img
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	minSize := int(float64(total) * minRatio)

	b := img.Bounds()
	w := b.Dx()
	out := image.NewNRGBA(b)
	copy(out.Pix, img.Pix)
	for idx, l := range labels {
		if l >= 0 && sizes[l] < minSize {
			i := (idx/w)*out.Stride + (idx%w)*4
			clear(out.Pix[i : i+4])
		}
	}
	return out
}

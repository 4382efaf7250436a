package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"dactyl-manuform/internal/config"
)

// WriteImage encodes img in format f.
func WriteImage(w io.Writer, img image.Image, f config.PreviewFormat) error {
	switch f {
	case config.PreviewWebP:
		return nativewebp.Encode(w, img, nil)
	case config.PreviewPNG:
		return png.Encode(w, img)
	case config.PreviewBMP:
		return bmp.Encode(w, img)
	case config.PreviewTGA:
		return tga.Encode(w, img)
	}
	return fmt.Errorf("preview format %q: %w", f, config.ErrUnsupportedStyle)
}

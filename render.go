package imgrw

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Render rasterizes the composition of b inside a canvas of the given size,
// that is what a vector renderer displays for the document produced by Compose.
// The canvas is ceil(size) pixels, transparent where the bitmap does not reach;
// content overflowing the canvas (AspectFill) is clipped.
func Render(b *Bitmap, canvas Size, fill FillStyle) (*Bitmap, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if !canvas.Valid() {
		return nil, invalidf("canvas size %v", canvas)
	}

	r := Placement(b.Size(), canvas, fill)
	w := int(math.Round(r.Width))
	h := int(math.Round(r.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	var scaled image.Image = b.img
	if w != b.Width() || h != b.Height() {
		scaled = imaging.Resize(b.img, w, h, imaging.Lanczos)
	}

	dst := imaging.New(int(math.Ceil(canvas.Width)), int(math.Ceil(canvas.Height)), color.NRGBA{})
	dst = imaging.Paste(dst, scaled, image.Pt(int(math.Round(r.X)), int(math.Round(r.Y))))
	return &Bitmap{img: dst}, nil
}

package imgrw

import (
	"image"
	"image/color"
)

// Bitmap is a decoded raster held in memory.
// The pixels are kept as *image.NRGBA with the min point at (0, 0).
type Bitmap struct {
	img *image.NRGBA
}

// NewBitmap copies img into a Bitmap. A nil image or an empty image
// fails with ErrInvalidInput.
func NewBitmap(img image.Image) (*Bitmap, error) {
	if img == nil {
		return nil, invalidf("nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, invalidf("image size %dx%d", b.Dx(), b.Dy())
	}
	dst := imgToNRGBA(img)
	if dst == img {
		dst = &image.NRGBA{
			Pix:    append([]uint8(nil), dst.Pix...),
			Stride: dst.Stride,
			Rect:   dst.Rect,
		}
	}
	return &Bitmap{img: dst}, nil
}

// Width returns the pixel width.
func (b *Bitmap) Width() int { return b.img.Rect.Dx() }

// Height returns the pixel height.
func (b *Bitmap) Height() int { return b.img.Rect.Dy() }

// Size returns the pixel dimensions as floating point values.
func (b *Bitmap) Size() Size {
	return Size{Width: float64(b.Width()), Height: float64(b.Height())}
}

// Image returns the underlying pixels. Callers must not modify them.
func (b *Bitmap) Image() *image.NRGBA { return b.img }

func (b *Bitmap) validate() error {
	if b == nil || b.img == nil {
		return invalidf("nil bitmap")
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return invalidf("bitmap size %dx%d", b.Width(), b.Height())
	}
	return nil
}

// opaque reports whether every pixel has full alpha.
func (b *Bitmap) opaque() bool {
	return b.img.Opaque()
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := dstW * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}

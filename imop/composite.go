// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// The image/draw core package implements only the source-over-destination and source
// operators; this package provides the full set on *image.NRGBA images.
//
// Flatten applies SrcOver against an opaque backdrop; the encoders call it
// before writing formats that carry no alpha channel (JPEG, BMP).
package imop

import (
	"image"
	"image/color"
	"math"

	"github.com/esimov/imgrw/utils"
)

// The supported composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap is the destination of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// Composite holds the currently active composition operator.
type Composite struct {
	current string
	ops     []string
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// InitOp returns a Composite using SrcOver.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported operators. Unknown operators are ignored.
func (op *Composite) Set(cop string) {
	if utils.Contains(op.ops, cop) {
		op.current = cop
	}
}

// Get returns the active operator.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff Fa and Fb coefficients for the given alphas.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composes src over the backdrop dst and stores the result in bitmap.
// The three images are addressed from their min points; the composition covers
// the intersection of their sizes. A nil bitmap is allocated with the bounds of src.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA) *Bitmap {
	if bitmap == nil {
		bitmap = NewBitmap(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	}
	dx := utils.Min(src.Rect.Dx(), utils.Min(dst.Rect.Dx(), bitmap.Img.Rect.Dx()))
	dy := utils.Min(src.Rect.Dy(), utils.Min(dst.Rect.Dy(), bitmap.Img.Rect.Dy()))

	for y := 0; y < dy; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		oi := bitmap.Img.PixOffset(bitmap.Img.Rect.Min.X, bitmap.Img.Rect.Min.Y+y)
		for x := 0; x < dx; x++ {
			s := src.Pix[si : si+4 : si+4]
			b := dst.Pix[di : di+4 : di+4]

			as := float64(s[3]) / 255
			ab := float64(b[3]) / 255
			fa, fb := op.factors(as, ab)

			// Colors are composed premultiplied, then converted back to straight alpha.
			an := as*fa + ab*fb
			out := color.NRGBA{}
			if an > 0 {
				out.R = channel((as*fa*float64(s[0]) + ab*fb*float64(b[0])) / an)
				out.G = channel((as*fa*float64(s[1]) + ab*fb*float64(b[1])) / an)
				out.B = channel((as*fa*float64(s[2]) + ab*fb*float64(b[2])) / an)
				out.A = channel(an * 255)
			}
			o := bitmap.Img.Pix[oi : oi+4 : oi+4]
			o[0], o[1], o[2], o[3] = out.R, out.G, out.B, out.A

			si += 4
			di += 4
			oi += 4
		}
	}
	return bitmap
}

// Flatten composes src over an opaque backdrop of color bg and returns a fully opaque image.
func Flatten(src *image.NRGBA, bg color.Color) *image.NRGBA {
	c := color.NRGBAModel.Convert(bg).(color.NRGBA)
	c.A = 0xff

	rect := image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy())
	backdrop := image.NewNRGBA(rect)
	for i := 0; i < len(backdrop.Pix); i += 4 {
		backdrop.Pix[i+0] = c.R
		backdrop.Pix[i+1] = c.G
		backdrop.Pix[i+2] = c.B
		backdrop.Pix[i+3] = c.A
	}
	return InitOp().Draw(nil, src, backdrop).Img
}

func channel(v float64) uint8 {
	return uint8(utils.Clamp(math.Round(v), 0, 255))
}

package imgrw

import (
	"fmt"
	"math"
	"strings"

	"github.com/esimov/imgrw/utils"
)

// Size is a width and height pair in user units (pixels for raster output, points for PDF).
type Size struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are finite and strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect is a placement rectangle inside a canvas.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// FillStyle governs how a bitmap is scaled and positioned inside a canvas
// of different proportions.
type FillStyle int

const (
	// AspectFit scales uniformly so that the whole bitmap fits inside the canvas, centered.
	AspectFit FillStyle = iota
	// Stretch maps the bitmap onto the whole canvas, ignoring the aspect ratio.
	Stretch
	// AspectFill scales uniformly so that the canvas is fully covered, centered.
	// The overflowing edges are clipped by the canvas.
	AspectFill
)

func (f FillStyle) String() string {
	switch f {
	case Stretch:
		return "stretch"
	case AspectFill:
		return "aspectFill"
	default:
		return "aspectFit"
	}
}

// ParseFillStyle resolves a fill style name.
func ParseFillStyle(name string) (FillStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fit", "aspectfit", "aspect-fit":
		return AspectFit, nil
	case "stretch":
		return Stretch, nil
	case "fill", "aspectfill", "aspect-fill":
		return AspectFill, nil
	}
	return AspectFit, fmt.Errorf("%w: unknown fill style %q", ErrInvalidInput, name)
}

// Placement computes where a bitmap of size src lands inside canvas for the given fill style.
// Both sizes are expected to be valid.
func Placement(src, canvas Size, fill FillStyle) Rect {
	if fill == Stretch {
		return Rect{Width: canvas.Width, Height: canvas.Height}
	}

	sx := canvas.Width / src.Width
	sy := canvas.Height / src.Height

	var scale float64
	if fill == AspectFill {
		scale = utils.Max(sx, sy)
	} else {
		scale = utils.Min(sx, sy)
	}

	w := src.Width * scale
	h := src.Height * scale
	return Rect{
		X:      (canvas.Width - w) / 2,
		Y:      (canvas.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

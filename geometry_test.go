package imgrw

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacement_Scenarios(t *testing.T) {
	src := Size{Width: 512, Height: 512}
	canvas := Size{Width: 100, Height: 50}

	assert.Equal(t, Rect{X: 25, Y: 0, Width: 50, Height: 50}, Placement(src, canvas, AspectFit))
	assert.Equal(t, Rect{X: 0, Y: -25, Width: 100, Height: 100}, Placement(src, canvas, AspectFill))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 100, Height: 50}, Placement(src, canvas, Stretch))
}

func TestPlacement_Properties(t *testing.T) {
	sources := []Size{{1, 1}, {640, 480}, {480, 640}, {3, 1000}, {1000, 3}}
	canvases := []Size{{1, 1}, {100, 50}, {50, 100}, {0.5, 7}, {1920, 1080}}
	const eps = 1e-9

	for _, src := range sources {
		for _, canvas := range canvases {
			fit := Placement(src, canvas, AspectFit)
			assert.LessOrEqual(t, fit.Width, canvas.Width+eps)
			assert.LessOrEqual(t, fit.Height, canvas.Height+eps)
			assert.True(t,
				math.Abs(fit.Width-canvas.Width) < eps || math.Abs(fit.Height-canvas.Height) < eps,
				"fit of %v in %v touches no edge: %+v", src, canvas, fit)

			fill := Placement(src, canvas, AspectFill)
			assert.GreaterOrEqual(t, fill.Width, canvas.Width-eps)
			assert.GreaterOrEqual(t, fill.Height, canvas.Height-eps)

			for _, r := range []Rect{fit, fill} {
				// centered and aspect preserving
				assert.InDelta(t, canvas.Width/2, r.X+r.Width/2, eps)
				assert.InDelta(t, canvas.Height/2, r.Y+r.Height/2, eps)
				assert.InDelta(t, src.Width/src.Height, r.Width/r.Height, 1e-6)
			}
		}
	}
}

func TestPlacement_SameAspectIsIdentical(t *testing.T) {
	src := Size{Width: 200, Height: 100}
	canvas := Size{Width: 50, Height: 25}
	want := Rect{Width: 50, Height: 25}

	for _, fill := range []FillStyle{AspectFit, AspectFill, Stretch} {
		assert.Equal(t, want, Placement(src, canvas, fill), fill.String())
	}
}

func TestSize_Valid(t *testing.T) {
	assert.True(t, Size{Width: 1, Height: 0.5}.Valid())
	assert.False(t, Size{Width: 0, Height: 50}.Valid())
	assert.False(t, Size{Width: -1, Height: 50}.Valid())
	assert.False(t, Size{Width: math.NaN(), Height: 50}.Valid())
	assert.False(t, Size{Width: math.Inf(1), Height: 50}.Valid())
}

func TestFillStyle_Parse(t *testing.T) {
	cases := map[string]FillStyle{
		"":           AspectFit,
		"fit":        AspectFit,
		"aspectFit":  AspectFit,
		"stretch":    Stretch,
		"fill":       AspectFill,
		"AspectFill": AspectFill,
	}
	for name, want := range cases {
		got, err := ParseFillStyle(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFillStyle("tile")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, AspectFit, FillStyle(0))
}

package imgrw

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidBitmap(t *testing.T, w, h int, c color.NRGBA) *Bitmap {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	b, err := NewBitmap(img)
	require.NoError(t, err)
	return b
}

func TestRender_AspectFit(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	b := solidBitmap(t, 64, 64, red)

	out, err := Render(b, Size{Width: 100, Height: 50}, AspectFit)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width())
	assert.Equal(t, 50, out.Height())

	// letterbox bars stay transparent
	assert.Equal(t, uint8(0), out.Image().NRGBAAt(5, 25).A)
	assert.Equal(t, uint8(0), out.Image().NRGBAAt(94, 25).A)
	assert.Equal(t, red, out.Image().NRGBAAt(50, 25))
}

func TestRender_AspectFillCoversCanvas(t *testing.T) {
	b := solidBitmap(t, 40, 40, color.NRGBA{B: 255, A: 255})

	out, err := Render(b, Size{Width: 30, Height: 10}, AspectFill)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Width())
	assert.Equal(t, 10, out.Height())
	assert.True(t, out.opaque())
}

func TestRender_Stretch(t *testing.T) {
	b := solidBitmap(t, 3, 9, color.NRGBA{G: 255, A: 255})

	out, err := Render(b, Size{Width: 12, Height: 4}, Stretch)
	require.NoError(t, err)
	assert.Equal(t, 12, out.Width())
	assert.Equal(t, 4, out.Height())
	assert.True(t, out.opaque())
}

func TestRender_InvalidCanvas(t *testing.T) {
	_, err := Render(newTestBitmap(t, 2, 2), Size{Width: 0, Height: 50}, AspectFit)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

package imgrw

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"testing"

	"github.com/esimov/imgrw/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmap_ImgToNRGBA(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)
	colors := palette.Plan9
	testCases := []struct {
		name string
		img  image.Image
	}{
		{
			name: "NRGBA",
			img:  makeNRGBAImage(rect, colors),
		},
		{
			name: "YCbCr-444",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio444),
		},
		{
			name: "YCbCr-422",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio422),
		},
		{
			name: "YCbCr-420",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio420),
		},
		{
			name: "YCbCr-440",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio440),
		},
		{
			name: "YCbCr-410",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio410),
		},
		{
			name: "YCbCr-411",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio411),
		},
		{
			name: "Gray",
			img:  makeGrayImage(rect),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.img.Bounds()
			dst := imgToNRGBA(tc.img)
			assert.Equal(t, image.Rect(0, 0, r.Dx(), r.Dy()), dst.Bounds())

			for y := r.Min.Y; y < r.Max.Y; y++ {
				i := dst.PixOffset(0, y-r.Min.Y)
				got := dst.Pix[i : i+r.Dx()*4]
				want := readRow(tc.img, y)
				assert.Truef(t, compareBytes(got, want, 1), "row y=%d: got %v want %v", y, got, want)
			}
			for x := r.Min.X; x < r.Max.X; x++ {
				got := readColumn(dst, x-r.Min.X)
				want := readColumn(tc.img, x)
				assert.Truef(t, compareBytes(got, want, 1), "column x=%d: got %v want %v", x, got, want)
			}
		})
	}
}

func TestBitmap_NewBitmapRejectsEmptyInput(t *testing.T) {
	_, err := NewBitmap(nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = NewBitmap(image.NewNRGBA(image.Rect(0, 0, 0, 10)))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var b *Bitmap
	assert.True(t, errors.Is(b.validate(), ErrInvalidInput))
}

func TestBitmap_NewBitmapCopiesPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	b, err := NewBitmap(src)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 3, b.Height())
	assert.Equal(t, Size{Width: 4, Height: 3}, b.Size())

	src.SetNRGBA(1, 1, color.NRGBA{})
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, b.Image().NRGBAAt(1, 1))
}

func TestBitmap_Opaque(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	b, err := NewBitmap(img)
	require.NoError(t, err)
	assert.True(t, b.opaque())

	img.SetNRGBA(0, 0, color.NRGBA{A: 128})
	b, err = NewBitmap(img)
	require.NoError(t, err)
	assert.False(t, b.opaque())
}

func makeGrayImage(rect image.Rectangle) *image.Gray {
	img := image.NewGray(rect)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*7 + y*13) & 0xff)})
		}
	}
	return img
}

func makeYCbCrImage(rect image.Rectangle, colors []color.Color, sr image.YCbCrSubsampleRatio) *image.YCbCr {
	img := image.NewYCbCr(rect, sr)
	j := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			iy := img.YOffset(x, y)
			ic := img.COffset(x, y)
			c := color.NRGBAModel.Convert(colors[j]).(color.NRGBA)
			img.Y[iy], img.Cb[ic], img.Cr[ic] = color.RGBToYCbCr(c.R, c.G, c.B)
			j++
		}
	}
	return img
}

func makeNRGBAImage(rect image.Rectangle, colors []color.Color) *image.NRGBA {
	img := image.NewNRGBA(rect)
	fillDrawImage(img, colors)
	return img
}

func fillDrawImage(img draw.Image, colors []color.Color) {
	colorsNRGBA := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		nrgba.A = uint8(i % 256)
		colorsNRGBA[i] = nrgba
	}
	rect := img.Bounds()
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, colorsNRGBA[i])
			i++
		}
	}
}

func readRow(img image.Image, y int) []uint8 {
	row := make([]byte, img.Bounds().Dx()*4)
	i := 0
	for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
		i += 4
	}
	return row
}

func readColumn(img image.Image, x int) []uint8 {
	column := make([]byte, img.Bounds().Dy()*4)
	i := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		column[i+0] = c.R
		column[i+1] = c.G
		column[i+2] = c.B
		column[i+3] = c.A
		i += 4
	}
	return column
}

func compareBytes(a, b []uint8, delta int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if utils.Abs(int(a[i])-int(b[i])) > delta {
			return false
		}
	}
	return true
}

package imgrw

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20" viewBox="0 0 40 20">
  <rect x="0" y="0" width="40" height="20" fill="#ff0000"/>
</svg>`

func TestDecode_SVG(t *testing.T) {
	b, f, err := LoadWith(nil, strings.NewReader(redSVG))
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, 40, b.Width())
	assert.Equal(t, 20, b.Height())

	c := b.Image().NRGBAAt(20, 10)
	assert.Greater(t, c.R, uint8(200))
	assert.Less(t, c.G, uint8(50))
	assert.Greater(t, c.A, uint8(200))
}

func TestDecode_DetectsFormat(t *testing.T) {
	src := newTestBitmap(t, 9, 4)
	for _, et := range []ExportType{PNG{}, JPEG{}, GIF{}, TIFF{}, BMP{}} {
		data, err := src.ImageData(et)
		require.NoError(t, err)

		b, f, err := LoadWith(DefaultCodec, bytes.NewReader(data))
		require.NoError(t, err, et.Format().String())
		assert.Equal(t, et.Format(), f)
		assert.Equal(t, src.Size(), b.Size())
	}
}

func TestDecode_Failures(t *testing.T) {
	_, err := LoadData([]byte("definitely not an image"))
	assert.True(t, errors.Is(err, ErrDecodeFailed))

	_, err = LoadData(nil)
	assert.True(t, errors.Is(err, ErrDecodeFailed))

	heic := append([]byte{0, 0, 0, 0x18}, []byte("ftypheic\x00\x00\x00\x00mif1heic")...)
	_, f, err := LoadWith(nil, bytes.NewReader(heic))
	assert.Equal(t, FormatHEIC, f)
	assert.True(t, errors.Is(err, ErrDecodeFailed))
	assert.True(t, errors.Is(err, ErrFormatUnavailable))
}

func TestDecode_CustomCodecError(t *testing.T) {
	_, _, err := LoadWith(&countingCodec{}, strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecodeFailed))
	assert.False(t, errors.Is(err, ErrEncodeFailed))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 5, 5))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	b, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, b.Width())

	_, err = LoadFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestSniffers(t *testing.T) {
	assert.True(t, isSVG([]byte("\xef\xbb\xbf  <?xml version=\"1.0\"?><svg/>")))
	assert.True(t, isSVG([]byte(redSVG)))
	assert.False(t, isSVG([]byte("<html><body></body></html>")))
	assert.False(t, isSVG([]byte("\x89PNG")))

	assert.True(t, isHEIC([]byte("\x00\x00\x00\x18ftypmif1")))
	assert.False(t, isHEIC([]byte("\x00\x00\x00\x18ftypisom")))
	assert.False(t, isHEIC([]byte("short")))
}

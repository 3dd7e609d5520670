package imgrw

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/esimov/imgrw/utils"
)

// Load decodes r with the default codec.
func Load(r io.Reader) (*Bitmap, error) {
	b, _, err := LoadWith(DefaultCodec, r)
	return b, err
}

// LoadData decodes an in-memory image with the default codec.
func LoadData(data []byte) (*Bitmap, error) {
	return Load(bytes.NewReader(data))
}

// LoadWith decodes r with the codec c and reports the detected source format.
// Decoding failures are reported as a *CodecError matching ErrDecodeFailed.
func LoadWith(c Codec, r io.Reader) (*Bitmap, Format, error) {
	if c == nil {
		c = DefaultCodec
	}
	img, f, err := c.Decode(r)
	if err != nil {
		if ce, ok := err.(*CodecError); ok && ce.Op == opDecode {
			return nil, f, ce
		}
		return nil, f, decodeErr(f, err)
	}
	b, err := NewBitmap(img)
	if err != nil {
		return nil, f, decodeErr(f, err)
	}
	return b, f, nil
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// LoadURL downloads and decodes a remote image.
func LoadURL(uri string) (*Bitmap, error) {
	f, err := utils.DownloadImage(uri)
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	return Load(f)
}

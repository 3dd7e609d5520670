package imgrw

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
)

// Pixel formats stored in a serialized envelope.
const (
	PixelFormatPNG   = "png"    // lossless PNG stream
	PixelFormatNRGBA = "nrgba8" // raw non-premultiplied RGBA, 8 bits per channel
)

var envelopeMagic = [4]byte{'I', 'R', 'W', 1}

// CodableBitmap makes a Bitmap serializable. It implements json.Marshaler
// (PNG payload) and encoding.BinaryMarshaler (raw NRGBA payload); both round-trip
// the width, the height and the pixel content.
type CodableBitmap struct {
	*Bitmap
}

type envelope struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PixelFormat string `json:"pixelFormat"`
	Data        []byte `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (c CodableBitmap) MarshalJSON() ([]byte, error) {
	if err := c.Bitmap.validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, encodeErr(FormatPNG, err)
	}
	return json.Marshal(envelope{
		Width:       c.Width(),
		Height:      c.Height(),
		PixelFormat: PixelFormatPNG,
		Data:        buf.Bytes(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CodableBitmap) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return decodeErr("", err)
	}

	var img *image.NRGBA
	switch env.PixelFormat {
	case PixelFormatPNG:
		src, err := png.Decode(bytes.NewReader(env.Data))
		if err != nil {
			return decodeErr(FormatPNG, err)
		}
		img = imgToNRGBA(src)
	case PixelFormatNRGBA:
		var err error
		if img, err = rawNRGBA(env.Width, env.Height, env.Data); err != nil {
			return decodeErr("", err)
		}
	default:
		return decodeErr("", fmt.Errorf("unknown pixel format %q", env.PixelFormat))
	}

	if img.Rect.Dx() != env.Width || img.Rect.Dy() != env.Height {
		return decodeErr("", fmt.Errorf("envelope declares %dx%d, payload is %dx%d",
			env.Width, env.Height, img.Rect.Dx(), img.Rect.Dy()))
	}
	b, err := NewBitmap(img)
	if err != nil {
		return decodeErr("", err)
	}
	c.Bitmap = b
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c CodableBitmap) MarshalBinary() ([]byte, error) {
	if err := c.Bitmap.validate(); err != nil {
		return nil, err
	}
	w, h := c.Width(), c.Height()
	out := make([]byte, 12, 12+w*h*4)
	copy(out[0:4], envelopeMagic[:])
	binary.BigEndian.PutUint32(out[4:8], uint32(w))
	binary.BigEndian.PutUint32(out[8:12], uint32(h))

	img := c.img
	for y := 0; y < h; y++ {
		i := img.PixOffset(0, y)
		out = append(out, img.Pix[i:i+w*4]...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CodableBitmap) UnmarshalBinary(data []byte) error {
	if len(data) < 12 || !bytes.Equal(data[0:4], envelopeMagic[:]) {
		return decodeErr("", fmt.Errorf("not a bitmap envelope"))
	}
	w := int(binary.BigEndian.Uint32(data[4:8]))
	h := int(binary.BigEndian.Uint32(data[8:12]))
	img, err := rawNRGBA(w, h, data[12:])
	if err != nil {
		return decodeErr("", err)
	}
	b, err := NewBitmap(img)
	if err != nil {
		return decodeErr("", err)
	}
	c.Bitmap = b
	return nil
}

func rawNRGBA(w, h int, pix []byte) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", w, h)
	}
	if w > math.MaxInt32 || h > math.MaxInt32 || w > math.MaxInt/4/h {
		return nil, fmt.Errorf("size %dx%d is too large", w, h)
	}
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("payload has %d bytes, %dx%d needs %d", len(pix), w, h, w*h*4)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img, nil
}

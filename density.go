package imgrw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

// The image/png and image/jpeg encoders write no resolution metadata.
// The helpers below splice it into the encoded stream afterwards.

const inchesPerMeter = 39.3700787

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	jpegSOI      = []byte{0xff, 0xd8}
)

// withPNGDensity inserts a pHYs chunk carrying dpi right after the IHDR chunk.
func withPNGDensity(data []byte, dpi float64) ([]byte, error) {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4 // signature + length + type + data + crc
	if len(data) < ihdrEnd || !bytes.HasPrefix(data, pngSignature) || string(data[12:16]) != "IHDR" {
		return nil, errors.New("png: malformed stream")
	}
	ppm := uint32(math.Round(dpi * inchesPerMeter))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: meter
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// pngDensity reads the resolution stored in a pHYs chunk, in dots per inch.
func pngDensity(data []byte) (float64, bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, false
	}
	for i := len(pngSignature); i+8 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[i : i+4]))
		typ := string(data[i+4 : i+8])
		if typ == "pHYs" && n == 9 && i+8+n <= len(data) {
			ppm := binary.BigEndian.Uint32(data[i+8 : i+12])
			if data[i+16] != 1 {
				return 0, false
			}
			return float64(ppm) / inchesPerMeter, true
		}
		if typ == "IDAT" {
			break
		}
		i += 8 + n + 4
	}
	return 0, false
}

// withJFIFDensity inserts a JFIF APP0 segment carrying dpi right after the SOI marker.
func withJFIFDensity(data []byte, dpi float64) ([]byte, error) {
	if !bytes.HasPrefix(data, jpegSOI) {
		return nil, errors.New("jpeg: missing SOI marker")
	}
	d := uint16(math.Min(math.Round(dpi), math.MaxUint16))

	app0 := []byte{
		0xff, 0xe0, // APP0
		0x00, 0x10, // segment length
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.01
		0x01,       // density unit: dots per inch
		0, 0, 0, 0, // x and y density
		0x00, 0x00, // no thumbnail
	}
	binary.BigEndian.PutUint16(app0[12:14], d)
	binary.BigEndian.PutUint16(app0[14:16], d)

	out := make([]byte, 0, len(data)+len(app0))
	out = append(out, jpegSOI...)
	out = append(out, app0...)
	out = append(out, data[len(jpegSOI):]...)
	return out, nil
}

// jfifDensity reads the resolution stored in a JFIF APP0 segment, in dots per inch.
func jfifDensity(data []byte) (float64, bool) {
	if len(data) < 20 || !bytes.HasPrefix(data, jpegSOI) ||
		data[2] != 0xff || data[3] != 0xe0 || string(data[6:11]) != "JFIF\x00" || data[13] != 1 {
		return 0, false
	}
	return float64(binary.BigEndian.Uint16(data[14:16])), true
}

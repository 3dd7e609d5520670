package imgrw

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"math"

	"github.com/esimov/imgrw/utils"
)

// baseDPI is the resolution of a bitmap exported with scale 1.
const baseDPI = 72.0

// ExportType selects an on-disk encoding together with the parameters meaningful to it.
// The set of implementations is closed: PNG, GIF, JPEG, TIFF, BMP, PDF and HEIC.
type ExportType interface {
	// Format returns the encoding produced by the export type.
	Format() Format
	// FileExtension returns the default file extension, without the leading dot.
	FileExtension() string

	options(b *Bitmap) EncodeOptions
}

// EmbeddedFormat is an ExportType that can be embedded as a raster inside an SVG document.
type EmbeddedFormat interface {
	ExportType
	embeddable()
}

// PNG export type.
type PNG struct {
	Scale          float64 // 1 = 72 DPI, 2 = 144 DPI
	ExcludeGPSData bool
}

// GIF export type. GIF files are always written at 72 DPI.
type GIF struct{}

// JPEG export type.
type JPEG struct {
	Scale          float64
	Compression    *float64 // lossy compression quality in [0, 1], nil for the encoder default
	ExcludeGPSData bool
}

// TIFF export type. A non-nil Compression enables lossless Deflate compression.
type TIFF struct {
	Scale          float64
	Compression    *float64
	ExcludeGPSData bool
}

// BMP export type.
type BMP struct{}

// PDF export type. Size is the page size in points; the bitmap is drawn over the whole page.
// A zero Size uses the pixel size of the bitmap.
type PDF struct {
	Size Size
}

// HEIC export type. HEIC has no codec in the default build and fails with ErrFormatUnavailable.
type HEIC struct {
	Scale          float64
	Compression    *float64
	ExcludeGPSData bool
}

// Quality returns a pointer to q, for use as a Compression value.
func Quality(q float64) *float64 { return &q }

func (PNG) Format() Format  { return FormatPNG }
func (GIF) Format() Format  { return FormatGIF }
func (JPEG) Format() Format { return FormatJPEG }
func (TIFF) Format() Format { return FormatTIFF }
func (BMP) Format() Format  { return FormatBMP }
func (PDF) Format() Format  { return FormatPDF }
func (HEIC) Format() Format { return FormatHEIC }

func (t PNG) FileExtension() string  { return t.Format().Extension() }
func (t GIF) FileExtension() string  { return t.Format().Extension() }
func (t JPEG) FileExtension() string { return t.Format().Extension() }
func (t TIFF) FileExtension() string { return t.Format().Extension() }
func (t BMP) FileExtension() string  { return t.Format().Extension() }
func (t PDF) FileExtension() string  { return t.Format().Extension() }
func (t HEIC) FileExtension() string { return t.Format().Extension() }

func (PNG) embeddable()  {}
func (GIF) embeddable()  {}
func (JPEG) embeddable() {}
func (TIFF) embeddable() {}

// EncodeOptions is the parameter set handed to a Codec.
type EncodeOptions struct {
	PixelWidth  int
	PixelHeight int
	DPI         float64
	Quality     *float64 // lossy compression quality in [0, 1]
	ExcludeGPS  bool
	PageSize    Size // PDF only
	// Extra carries codec specific overrides, merged last.
	Extra map[string]any
}

func (t PNG) options(b *Bitmap) EncodeOptions {
	return rasterOptions(b, t.Scale, nil, t.ExcludeGPSData)
}

func (t GIF) options(b *Bitmap) EncodeOptions {
	return rasterOptions(b, 1, nil, false)
}

func (t JPEG) options(b *Bitmap) EncodeOptions {
	return rasterOptions(b, t.Scale, t.Compression, t.ExcludeGPSData)
}

func (t TIFF) options(b *Bitmap) EncodeOptions {
	return rasterOptions(b, t.Scale, t.Compression, t.ExcludeGPSData)
}

func (t BMP) options(b *Bitmap) EncodeOptions {
	return rasterOptions(b, 1, nil, false)
}

func (t HEIC) options(b *Bitmap) EncodeOptions {
	return rasterOptions(b, t.Scale, t.Compression, t.ExcludeGPSData)
}

func (t PDF) options(b *Bitmap) EncodeOptions {
	opts := rasterOptions(b, 1, nil, false)
	opts.PageSize = t.Size
	if t.Size == (Size{}) {
		opts.PageSize = b.Size()
	}
	return opts
}

func rasterOptions(b *Bitmap, scale float64, compression *float64, excludeGPS bool) EncodeOptions {
	opts := EncodeOptions{
		PixelWidth:  b.Width(),
		PixelHeight: b.Height(),
		DPI:         normScale(scale) * baseDPI,
		ExcludeGPS:  excludeGPS,
	}
	if compression != nil {
		opts.Quality = Quality(utils.Clamp(*compression, 0, 1))
	}
	return opts
}

func normScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}

// Options returns the encoder options an export type produces for b, with extra merged in.
func Options(b *Bitmap, t ExportType, extra map[string]any) (EncodeOptions, error) {
	if err := b.validate(); err != nil {
		return EncodeOptions{}, err
	}
	if t == nil {
		return EncodeOptions{}, invalidf("nil export type")
	}
	if p, ok := t.(PDF); ok && p.Size != (Size{}) && !p.Size.Valid() {
		return EncodeOptions{}, invalidf("pdf page size %v", p.Size)
	}
	opts := t.options(b)
	if len(extra) > 0 {
		opts.Extra = maps.Clone(extra)
	}
	return opts, nil
}

// Encode writes b to w using the export type t. Codec failures are reported as
// a *CodecError matching ErrEncodeFailed.
func Encode(c Codec, w io.Writer, b *Bitmap, t ExportType, extra map[string]any) error {
	opts, err := Options(b, t, extra)
	if err != nil {
		return err
	}
	if c == nil {
		c = DefaultCodec
	}
	if err := c.Encode(w, b.img, t.Format(), opts); err != nil {
		return asEncodeErr(t.Format(), err)
	}
	return nil
}

func asEncodeErr(f Format, err error) error {
	if ce, ok := err.(*CodecError); ok && ce.Op == opEncode {
		return ce
	}
	return encodeErr(f, err)
}

// ImageData returns the bitmap encoded with the export type t, using the default codec.
func (b *Bitmap) ImageData(t ExportType) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(DefaultCodec, &buf, b, t, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDFRepresentation returns a single page PDF of the given size (in points)
// with the bitmap drawn over the whole page.
func (b *Bitmap) PDFRepresentation(size Size) ([]byte, error) {
	return b.ImageData(PDF{Size: size})
}

// ParseExportType builds an export type from a format name, as used on the command line.
// The scale and quality parameters are ignored by formats that do not use them;
// a negative quality means the encoder default.
func ParseExportType(name string, scale, quality float64, size Size) (ExportType, error) {
	f, err := ParseFormat(name)
	if err != nil {
		return nil, err
	}
	var compression *float64
	if quality >= 0 {
		compression = Quality(quality)
	}
	switch f {
	case FormatPNG:
		return PNG{Scale: scale, ExcludeGPSData: true}, nil
	case FormatGIF:
		return GIF{}, nil
	case FormatJPEG:
		return JPEG{Scale: scale, Compression: compression, ExcludeGPSData: true}, nil
	case FormatTIFF:
		return TIFF{Scale: scale, Compression: compression, ExcludeGPSData: true}, nil
	case FormatBMP:
		return BMP{}, nil
	case FormatPDF:
		return PDF{Size: size}, nil
	case FormatHEIC:
		return HEIC{Scale: scale, Compression: compression, ExcludeGPSData: true}, nil
	}
	return nil, fmt.Errorf("%w: %s cannot be exported as a raster", ErrUnsupportedFormat, f)
}

// ParseEmbeddedFormat builds the raster encoding embedded by the SVG composer.
func ParseEmbeddedFormat(name string, scale, quality float64) (EmbeddedFormat, error) {
	t, err := ParseExportType(name, scale, quality, Size{})
	if err != nil {
		return nil, err
	}
	e, ok := t.(EmbeddedFormat)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot be embedded in an SVG document", ErrUnsupportedFormat, t.Format())
	}
	return e, nil
}

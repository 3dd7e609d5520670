package imgrw

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"
	"github.com/esimov/imgrw/imop"
	"github.com/esimov/imgrw/utils"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Codec encodes and decodes rasters. The library never touches pixels itself:
// every encode and decode goes through a Codec, so hosts can plug in platform
// encoders (for example a HEIC encoder) without changing the rest of the API.
type Codec interface {
	Encode(w io.Writer, img image.Image, f Format, opts EncodeOptions) error
	Decode(r io.Reader) (image.Image, Format, error)
}

// DefaultCodec is backed by the standard library and golang.org/x/image encoders,
// go-pdf/fpdf for PDF, oksvg for decoding SVG and imaging for EXIF aware decoding.
var DefaultCodec Codec = stdCodec{}

// Keys understood in EncodeOptions.Extra by DefaultCodec.
const (
	ExtraPNGCompression = "png.compression" // png.CompressionLevel or int
	ExtraGIFColors      = "gif.colors"      // int in [1, 256]
	ExtraPDFCreator     = "pdf.creator"     // string
	ExtraBackground     = "background"      // color.Color used when flattening alpha
)

// defaultSVGSize is used when an SVG document declares no viewBox size.
const defaultSVGSize = 1024

type stdCodec struct{}

func (stdCodec) Encode(w io.Writer, img image.Image, f Format, opts EncodeOptions) error {
	switch f {
	case FormatPNG:
		return encodePNG(w, img, opts)
	case FormatJPEG:
		return encodeJPEG(w, img, opts)
	case FormatGIF:
		return encodeGIF(w, img, opts)
	case FormatTIFF:
		return encodeTIFF(w, img, opts)
	case FormatBMP:
		return bmp.Encode(w, flatten(img, opts))
	case FormatPDF:
		return encodePDF(w, img, opts)
	case FormatHEIC, FormatWebP:
		return fmt.Errorf("%w: no %s encoder", ErrFormatUnavailable, f)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

func encodePNG(w io.Writer, img image.Image, opts EncodeOptions) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	switch lvl := opts.Extra[ExtraPNGCompression].(type) {
	case png.CompressionLevel:
		enc.CompressionLevel = lvl
	case int:
		enc.CompressionLevel = png.CompressionLevel(lvl)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return err
	}
	data, err := withPNGDensity(buf.Bytes(), dpiOf(opts))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeJPEG(w io.Writer, img image.Image, opts EncodeOptions) error {
	quality := jpeg.DefaultQuality
	if opts.Quality != nil {
		quality = utils.Clamp(int(math.Round(*opts.Quality*100)), 1, 100)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(img, opts), &jpeg.Options{Quality: quality}); err != nil {
		return err
	}
	data, err := withJFIFDensity(buf.Bytes(), dpiOf(opts))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeGIF(w io.Writer, img image.Image, opts EncodeOptions) error {
	colors := 256
	if n, ok := opts.Extra[ExtraGIFColors].(int); ok {
		colors = utils.Clamp(n, 1, 256)
	}
	return gif.Encode(w, img, &gif.Options{
		NumColors: colors,
		Drawer:    draw.FloydSteinberg,
	})
}

func encodeTIFF(w io.Writer, img image.Image, opts EncodeOptions) error {
	to := &tiff.Options{Compression: tiff.Uncompressed}
	if opts.Quality != nil {
		to.Compression = tiff.Deflate
		to.Predictor = true
	}
	return tiff.Encode(w, img, to)
}

// encodePDF writes a single page document with the image drawn over the whole page.
func encodePDF(w io.Writer, img image.Image, opts EncodeOptions) error {
	size := opts.PageSize
	if !size.Valid() {
		b := img.Bounds()
		size = Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return err
	}

	creator := "imgrw"
	if s, ok := opts.Extra[ExtraPDFCreator].(string); ok {
		creator = s
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator(creator, true)
	doc.AddPage()

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("bitmap", imgOpts, &raster)
	doc.ImageOptions("bitmap", 0, 0, size.Width, size.Height, false, imgOpts, 0, "")

	return doc.Output(w)
}

func dpiOf(opts EncodeOptions) float64 {
	if opts.DPI <= 0 {
		return baseDPI
	}
	return opts.DPI
}

// flatten composes translucent images over the background color (white by default),
// for formats without an alpha channel.
func flatten(img image.Image, opts EncodeOptions) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	var bg color.Color = color.White
	if c, ok := opts.Extra[ExtraBackground].(color.Color); ok {
		bg = c
	}
	return imop.Flatten(imgToNRGBA(img), bg)
}

func (stdCodec) Decode(r io.Reader) (image.Image, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image data")
	}
	if isSVG(data) {
		img, err := decodeSVG(data)
		return img, FormatSVG, err
	}
	if isHEIC(data) {
		return nil, FormatHEIC, fmt.Errorf("%w: no %s decoder", ErrFormatUnavailable, FormatHEIC)
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	f, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, f, err
	}
	return img, f, nil
}

// isSVG sniffs the beginning of data for an svg root element.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimSpace(head)
	return bytes.HasPrefix(head, []byte("<")) && bytes.Contains(head, []byte("<svg"))
}

// isHEIC checks the ISO BMFF ftyp box for HEIF brands.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "hevx", "mif1", "msf1":
		return true
	}
	return false
}

func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 {
		w = defaultSVGSize
	}
	if h <= 0 {
		h = defaultSVGSize
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}

package imgrw

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/tdewolff/minify/v2"
	msvg "github.com/tdewolff/minify/v2/svg"
)

const mimeSVG = "image/svg+xml"

// SVGOptions configures the SVG composer. The zero value composes an
// aspect-fit PNG over a canvas the size of the bitmap.
type SVGOptions struct {
	// Size is the canvas (viewBox) size. Nil uses the pixel size of the bitmap.
	Size *Size
	// Fill selects how the bitmap is placed inside the canvas.
	Fill FillStyle
	// Format is the raster encoding embedded in the document. Nil means PNG{}.
	Format EmbeddedFormat
	// Title is written as an accessibility <title> when not empty.
	Title string
	// ClipToCanvas adds an explicit clip path around the canvas, for consumers
	// that do not clip overflowing content to the viewport.
	ClipToCanvas bool
	// Minify compacts the document with tdewolff/minify.
	Minify bool
}

// Composer produces SVG documents embedding a re-encoded bitmap.
// It holds no mutable state and is safe for concurrent use.
type Composer struct {
	Codec Codec
}

// NewComposer returns a composer encoding through c, or through DefaultCodec when c is nil.
func NewComposer(c Codec) *Composer {
	if c == nil {
		c = DefaultCodec
	}
	return &Composer{Codec: c}
}

// ComposeSVG composes b with the default codec.
func ComposeSVG(b *Bitmap, opts *SVGOptions) ([]byte, error) {
	return NewComposer(nil).Compose(b, opts)
}

// Compose returns an SVG document showing b inside the canvas described by opts.
// Invalid dimensions fail with ErrInvalidInput before the codec is called;
// codec failures match ErrEncodeFailed. No partial document is ever returned.
func (c *Composer) Compose(b *Bitmap, opts *SVGOptions) ([]byte, error) {
	if opts == nil {
		opts = &SVGOptions{}
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	canvas := b.Size()
	if opts.Size != nil {
		if !opts.Size.Valid() {
			return nil, invalidf("canvas size %v", *opts.Size)
		}
		canvas = *opts.Size
	}

	var format EmbeddedFormat = PNG{}
	if opts.Format != nil {
		format = opts.Format
	}

	codec := c.Codec
	if codec == nil {
		codec = DefaultCodec
	}
	var raster bytes.Buffer
	if err := Encode(codec, &raster, b, format, nil); err != nil {
		return nil, err
	}

	rect := Placement(b.Size(), canvas, opts.Fill)
	doc := writeSVG(canvas, rect, format.Format().MimeType(), raster.Bytes(), opts)

	if opts.Minify {
		m := minify.New()
		m.AddFunc(mimeSVG, msvg.Minify)
		out, err := m.Bytes(mimeSVG, doc)
		if err != nil {
			return nil, fmt.Errorf("minify svg: %w", err)
		}
		return out, nil
	}
	return doc, nil
}

func writeSVG(canvas Size, r Rect, mime string, payload []byte, opts *SVGOptions) []byte {
	var buf bytes.Buffer
	w, h := num(canvas.Width), num(canvas.Height)

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1" width="%s" height="%s" viewBox="0 0 %s %s">`, w, h, w, h)
	if opts.Title != "" {
		buf.WriteString("<title>")
		xml.EscapeText(&buf, []byte(opts.Title))
		buf.WriteString("</title>")
	}

	clip := ""
	if opts.ClipToCanvas {
		fmt.Fprintf(&buf, `<defs><clipPath id="canvas"><rect x="0" y="0" width="%s" height="%s"/></clipPath></defs>`, w, h)
		clip = ` clip-path="url(#canvas)"`
	}

	fmt.Fprintf(&buf, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none"%s xlink:href="%s`,
		num(r.X), num(r.Y), num(r.Width), num(r.Height), clip, dataURIPrefix(mime))
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	enc.Write(payload)
	enc.Close()
	buf.WriteString(`"/></svg>`)

	return buf.Bytes()
}

// num formats a coordinate with at most 6 decimals.
func num(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DataURI returns data encoded as a base64 data URI with the media type of f.
func DataURI(f Format, data []byte) string {
	return dataURIPrefix(f.MimeType()) + base64.StdEncoding.EncodeToString(data)
}

func dataURIPrefix(mime string) string {
	return "data:" + mime + ";base64,"
}

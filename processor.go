package imgrw

import (
	"io"

	"github.com/esimov/imgrw/utils"
)

// Processor options
type Processor struct {
	// Type is the export target. It is ignored when SVG is set.
	Type ExportType
	// SVG, when not nil, composes an SVG document instead of exporting a raster.
	SVG *SVGOptions
	// Codec decodes the source and encodes the output. Nil means DefaultCodec.
	Codec Codec
	// Extra is forwarded to the codec on raster export.
	Extra map[string]any

	Spinner *utils.Spinner
}

// Extension returns the file extension of the files the processor produces.
func (p *Processor) Extension() string {
	if p.SVG != nil {
		return FormatSVG.Extension()
	}
	if p.Type == nil {
		return FormatPNG.Extension()
	}
	return p.Type.FileExtension()
}

// Process decodes the image read from r and writes the converted output to w.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	b, _, err := LoadWith(p.Codec, r)
	if err != nil {
		return err
	}

	if p.SVG != nil {
		doc, err := NewComposer(p.Codec).Compose(b, p.SVG)
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	}

	t := p.Type
	if t == nil {
		t = PNG{}
	}
	return Encode(p.Codec, w, b, t, p.Extra)
}

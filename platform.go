package imgrw

// PlatformImage pairs a bitmap with a display scale, the way window systems
// attach a point size to pixel data (scale 2 is a "@2x" image).
type PlatformImage struct {
	bitmap *Bitmap
	scale  float64
}

// NewPlatformImage returns a platform image with a specific scale. Non-positive scales mean 1.
func NewPlatformImage(b *Bitmap, scale float64) (*PlatformImage, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &PlatformImage{bitmap: b, scale: normScale(scale)}, nil
}

// PlatformImageDPI returns a platform image with a specific resolution; 72 DPI is scale 1.
func PlatformImageDPI(b *Bitmap, dpi float64) (*PlatformImage, error) {
	return NewPlatformImage(b, dpi/baseDPI)
}

// Bitmap returns the pixel data backing the image.
func (p *PlatformImage) Bitmap() *Bitmap { return p.bitmap }

// Scale returns the number of pixels per point.
func (p *PlatformImage) Scale() float64 { return p.scale }

// DPI returns the resolution matching the scale.
func (p *PlatformImage) DPI() float64 { return p.scale * baseDPI }

// PointSize returns the display size in points: the pixel size divided by the scale.
func (p *PlatformImage) PointSize() Size {
	return Size{
		Width:  float64(p.bitmap.Width()) / p.scale,
		Height: float64(p.bitmap.Height()) / p.scale,
	}
}

// ImageData exports the image. Export types carrying a zero Scale inherit the image scale.
func (p *PlatformImage) ImageData(t ExportType) ([]byte, error) {
	switch v := t.(type) {
	case PNG:
		if v.Scale == 0 {
			v.Scale = p.scale
		}
		t = v
	case JPEG:
		if v.Scale == 0 {
			v.Scale = p.scale
		}
		t = v
	case TIFF:
		if v.Scale == 0 {
			v.Scale = p.scale
		}
		t = v
	case HEIC:
		if v.Scale == 0 {
			v.Scale = p.scale
		}
		t = v
	}
	return p.bitmap.ImageData(t)
}

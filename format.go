package imgrw

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an on-disk image encoding.
type Format string

// The formats known by the library.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatPDF  Format = "pdf"
	FormatHEIC Format = "heic"
	FormatSVG  Format = "svg"
	FormatWebP Format = "webp"
)

var formatInfo = map[Format]struct {
	mime string
	uti  string
	ext  string
}{
	FormatPNG:  {"image/png", "public.png", "png"},
	FormatJPEG: {"image/jpeg", "public.jpeg", "jpg"},
	FormatGIF:  {"image/gif", "com.compuserve.gif", "gif"},
	FormatTIFF: {"image/tiff", "public.tiff", "tiff"},
	FormatBMP:  {"image/bmp", "com.microsoft.bmp", "bmp"},
	FormatPDF:  {"application/pdf", "com.adobe.pdf", "pdf"},
	FormatHEIC: {"image/heic", "public.heic", "heic"},
	FormatSVG:  {"image/svg+xml", "public.svg-image", "svg"},
	FormatWebP: {"image/webp", "org.webmproject.webp", "webp"},
}

// MimeType returns the media type used in data URIs and HTTP headers.
func (f Format) MimeType() string {
	if info, ok := formatInfo[f]; ok {
		return info.mime
	}
	return "application/octet-stream"
}

// UTI returns the uniform type identifier of the format.
func (f Format) UTI() string {
	return formatInfo[f].uti
}

// Extension returns the default file extension, without the leading dot.
func (f Format) Extension() string {
	return formatInfo[f].ext
}

func (f Format) String() string { return string(f) }

// ParseFormat resolves a format name. Common aliases such as "jpg" and "tif" are accepted.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch name {
	case "jpg", "jpe":
		name = "jpeg"
	case "tif":
		name = "tiff"
	case "heif":
		name = "heic"
	}
	f := Format(name)
	if _, ok := formatInfo[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// FormatFromExtension returns the format matching the extension of a file name.
func FormatFromExtension(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

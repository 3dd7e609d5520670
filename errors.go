package imgrw

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a bitmap or a target size has non-positive dimensions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEncodeFailed is returned when the codec could not produce the requested encoding.
	ErrEncodeFailed = errors.New("encode failed")
	// ErrDecodeFailed is returned for malformed or unrecognized image data.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrFormatUnavailable signals that a format has no codec on the current build.
	ErrFormatUnavailable = errors.New("format not available on this platform")
	// ErrUnsupportedFormat is returned for format names or extensions the library does not know.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// CodecError wraps a failure reported by a Codec.
// It matches ErrEncodeFailed or ErrDecodeFailed (depending on Op) through errors.Is,
// while the underlying codec error stays reachable through errors.Unwrap.
type CodecError struct {
	Op     string // "encode" or "decode"
	Format Format
	Err    error
}

func (e *CodecError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Format, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

func (e *CodecError) Is(target error) bool {
	switch target {
	case ErrEncodeFailed:
		return e.Op == opEncode
	case ErrDecodeFailed:
		return e.Op == opDecode
	}
	return false
}

const (
	opEncode = "encode"
	opDecode = "decode"
)

func encodeErr(f Format, err error) error {
	return &CodecError{Op: opEncode, Format: f, Err: err}
}

func decodeErr(f Format, err error) error {
	return &CodecError{Op: opDecode, Format: f, Err: err}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

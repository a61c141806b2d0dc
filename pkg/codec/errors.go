package codec

import "errors"

var (
	// ErrMalformedEncoding indicates bad hex, base64 or PEM structure.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// ErrUnsupportedEncoding indicates an encoding name other than hex or base64.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

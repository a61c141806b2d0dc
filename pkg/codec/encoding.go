package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encoding is the textual form of a binary signature or digest.
type Encoding string

const (
	Hex    Encoding = "hex"
	Base64 Encoding = "base64"
)

// DefaultEncoding is used when a caller does not name one.
const DefaultEncoding = Hex

// ParseEncoding parses an encoding name. The empty string selects
// DefaultEncoding; matching is case-insensitive.
func ParseEncoding(s string) (Encoding, error) {
	if s == "" {
		return DefaultEncoding, nil
	}
	e := Encoding(strings.ToLower(s))
	if !e.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s)
	}
	return e, nil
}

// IsValid reports whether e is hex or base64.
func (e Encoding) IsValid() bool {
	return e == Hex || e == Base64
}

// String returns the encoding name.
func (e Encoding) String() string {
	return string(e)
}

// Encode renders b in encoding e.
func (e Encoding) Encode(b []byte) (string, error) {
	switch e {
	case Hex:
		return BytesToHex(b), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(e))
	}
}

// Decode parses s as encoding e.
func (e Encoding) Decode(s string) ([]byte, error) {
	switch e {
	case Hex:
		return HexToBytes(s)
	case Base64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: base64: %v", ErrMalformedEncoding, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(e))
	}
}

// Package codec provides the textual encodings used for keys, signatures and
// digests: hex, base64 and single-label PEM.
//
// All decoders are strict. Malformed input fails with ErrMalformedEncoding
// instead of being repaired.
package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// BytesToHex returns the lowercase hex form of b, two digits per byte.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes decodes a hex string. An optional leading "0x" is stripped.
// The empty string decodes to an empty, non-nil slice.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex length %d", ErrMalformedEncoding, len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return nil, fmt.Errorf("%w: invalid hex character at offset %d", ErrMalformedEncoding, i)
		}
	}

	out := make([]byte, len(s)/2)
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return out, nil
}

func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}

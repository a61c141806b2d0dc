package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PEM labels accepted by the key importers.
const (
	LabelPrivateKey = "PRIVATE KEY"
	LabelPublicKey  = "PUBLIC KEY"
)

// PEMHeader returns the BEGIN line for label.
func PEMHeader(label string) string {
	return "-----BEGIN " + label + "-----"
}

// PEMFooter returns the END line for label.
func PEMFooter(label string) string {
	return "-----END " + label + "-----"
}

// EncodePEM wraps der in a PEM envelope with a single-line base64 body.
func EncodePEM(der []byte, label string) string {
	return PEMHeader(label) + base64.StdEncoding.EncodeToString(der) + PEMFooter(label)
}

// DecodePEM extracts the DER bytes from a PEM envelope carrying expectedLabel.
//
// All CR and LF characters are removed before the envelope is inspected, so
// bodies wrapped at any column decode the same as single-line bodies. Spaces
// and tabs around the whole envelope are ignored; anywhere else they are
// malformed. The header and footer are matched against expectedLabel only;
// a PEM carrying any other label fails rather than being decoded.
func DecodePEM(text, expectedLabel string) ([]byte, error) {
	flat := strings.NewReplacer("\r", "", "\n", "").Replace(text)
	flat = strings.Trim(flat, " \t")

	header := PEMHeader(expectedLabel)
	footer := PEMFooter(expectedLabel)
	if len(flat) < len(header)+len(footer) {
		return nil, fmt.Errorf("%w: PEM text too short for label %q", ErrMalformedEncoding, expectedLabel)
	}
	if flat[:len(header)] != header {
		return nil, fmt.Errorf("%w: expected %q header", ErrMalformedEncoding, header)
	}
	if flat[len(flat)-len(footer):] != footer {
		return nil, fmt.Errorf("%w: expected %q footer", ErrMalformedEncoding, footer)
	}

	body := flat[len(header) : len(flat)-len(footer)]
	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: PEM body: %v", ErrMalformedEncoding, err)
	}
	return der, nil
}

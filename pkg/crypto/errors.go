package crypto

import (
	"errors"
	"fmt"

	"github.com/remiblancher/qsign/pkg/codec"
)

// Sentinel errors for crypto operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrMalformedEncoding indicates bad hex, base64 or PEM structure.
	ErrMalformedEncoding = codec.ErrMalformedEncoding

	// ErrUnsupportedEncoding indicates an encoding other than hex or base64.
	ErrUnsupportedEncoding = codec.ErrUnsupportedEncoding

	// ErrUnsupportedAlgorithm indicates an unknown scheme or hash name, or a
	// spec that does not match the key it is used with.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrKeyGenerationFailed indicates the provider rejected the generation
	// parameters.
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrKeyImportFailed indicates well-formed PEM whose key material the
	// provider rejects for the requested capability.
	ErrKeyImportFailed = errors.New("key import failed")
)

// Operation names carried by Error.
const (
	OpGenerate = "generate"
	OpImport   = "import"
	OpSign     = "sign"
	OpVerify   = "verify"
	OpDigest   = "digest"
)

// Error is a crypto operation error with the operation that produced it.
// It supports errors.Is() and errors.As().
type Error struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// opError wraps err with op unless it is nil or already an *Error.
func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Op: op, Err: err}
}

package crypto

import (
	"fmt"

	"github.com/remiblancher/qsign/pkg/codec"
)

// Sign signs the bytes of data with key and renders the signature in enc.
// spec must equal the spec key was imported under (after defaults); an empty
// enc selects hex.
func Sign(data string, key *SigningKey, spec AlgorithmSpec, enc codec.Encoding) (string, error) {
	if key == nil {
		return "", opError(OpSign, fmt.Errorf("%w: nil signing key", ErrKeyImportFailed))
	}
	enc = resolveEncoding(enc)
	if !enc.IsValid() {
		return "", opError(OpSign, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(enc)))
	}
	if err := checkSpec(key.spec, spec); err != nil {
		return "", opError(OpSign, err)
	}

	sig, err := key.Sign([]byte(data))
	if err != nil {
		return "", opError(OpSign, err)
	}
	out, err := enc.Encode(sig)
	if err != nil {
		return "", opError(OpSign, err)
	}
	return out, nil
}

// Verify reports whether signature, rendered in enc, is valid for the bytes
// of data under key.
//
// A signature that cannot be decoded is reported as (false, nil): callers
// treat Verify as a predicate over untrusted input. An unsupported enc or a
// spec that differs from the key's spec is still an error.
func Verify(key *VerificationKey, signature, data string, spec AlgorithmSpec, enc codec.Encoding) (bool, error) {
	if key == nil {
		return false, opError(OpVerify, fmt.Errorf("%w: nil verification key", ErrKeyImportFailed))
	}
	enc = resolveEncoding(enc)
	if !enc.IsValid() {
		return false, opError(OpVerify, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(enc)))
	}
	if err := checkSpec(key.spec, spec); err != nil {
		return false, opError(OpVerify, err)
	}

	sig, err := enc.Decode(signature)
	if err != nil {
		return false, nil
	}
	ok, err := key.Verify([]byte(data), sig)
	if err != nil {
		return false, opError(OpVerify, err)
	}
	return ok, nil
}

// checkSpec rejects an operation spec that differs from the key's spec.
func checkSpec(keySpec, opSpec AlgorithmSpec) error {
	opSpec = opSpec.WithDefaults()
	if err := opSpec.Validate(); err != nil {
		return err
	}
	if opSpec != keySpec {
		return fmt.Errorf("%w: key is bound to %s, operation requested %s", ErrUnsupportedAlgorithm, keySpec, opSpec)
	}
	return nil
}

func resolveEncoding(enc codec.Encoding) codec.Encoding {
	if enc == "" {
		return codec.DefaultEncoding
	}
	return enc
}

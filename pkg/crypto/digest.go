package crypto

import (
	"fmt"

	"github.com/remiblancher/qsign/pkg/codec"
)

// Digest hashes the bytes of data with the named algorithm and renders the
// result in enc. Names are matched case-, hyphen- and underscore-insensitively,
// so "sha256", "SHA256" and "SHA-256" are the same algorithm.
//
// Example:
//
//	d, _ := crypto.Digest("hello", "sha256", codec.Hex)
//	// d == "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
func Digest(data, algorithm string, enc codec.Encoding) (string, error) {
	return digest(defaultProvider, data, algorithm, enc)
}

// Hash is an alias of Digest.
func Hash(data, algorithm string, enc codec.Encoding) (string, error) {
	return Digest(data, algorithm, enc)
}

func digest(p Provider, data, algorithm string, enc codec.Encoding) (string, error) {
	alg, err := ParseHashAlgorithm(algorithm)
	if err != nil {
		return "", opError(OpDigest, err)
	}
	enc = resolveEncoding(enc)
	if !enc.IsValid() {
		return "", opError(OpDigest, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(enc)))
	}
	sum, err := p.Hash(alg, []byte(data))
	if err != nil {
		return "", opError(OpDigest, err)
	}
	out, err := enc.Encode(sum)
	if err != nil {
		return "", opError(OpDigest, err)
	}
	return out, nil
}

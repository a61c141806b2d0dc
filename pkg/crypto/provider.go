package crypto

import "crypto"

// Provider is the cryptographic primitive set the package is built on.
//
// Implementations must be stateless from the caller's point of view: key
// values returned by the import methods are owned by the caller and nothing
// is retained between calls. Errors should wrap the package sentinels so
// callers can classify them with errors.Is().
type Provider interface {
	// GenerateKey creates a key pair for spec and returns its PKCS#8 and
	// SPKI DER encodings.
	GenerateKey(spec AlgorithmSpec) (privateDER, publicDER []byte, err error)

	// ImportPrivateKey parses PKCS#8 DER into a key usable with Sign.
	ImportPrivateKey(der []byte, spec AlgorithmSpec) (crypto.PrivateKey, error)

	// ImportPublicKey parses SPKI DER into a key usable with Verify.
	ImportPublicKey(der []byte, spec AlgorithmSpec) (crypto.PublicKey, error)

	// Sign signs message (not a digest) under spec.
	Sign(priv crypto.PrivateKey, spec AlgorithmSpec, message []byte) ([]byte, error)

	// Verify reports whether signature is valid for message under spec.
	// A signature that does not verify is (false, nil); errors are reserved
	// for keys the provider cannot use.
	Verify(pub crypto.PublicKey, spec AlgorithmSpec, message, signature []byte) (bool, error)

	// Hash computes the digest of message.
	Hash(alg HashAlgorithm, message []byte) ([]byte, error)
}

// defaultProvider backs the package-level functions.
var defaultProvider Provider = NewSoftwareProvider()

package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
)

// Modulus bounds accepted by SoftwareProvider.GenerateKey.
const (
	MinModulusLength = 1024
	MaxModulusLength = 16384
)

// SoftwareProvider implements Provider with crypto/rsa and crypto/x509.
type SoftwareProvider struct {
	random io.Reader
}

// Ensure SoftwareProvider implements Provider.
var _ Provider = (*SoftwareProvider)(nil)

// NewSoftwareProvider returns a provider reading randomness from crypto/rand.
func NewSoftwareProvider() *SoftwareProvider {
	return &SoftwareProvider{random: rand.Reader}
}

// GenerateKey generates an RSA key pair.
func (p *SoftwareProvider) GenerateKey(spec AlgorithmSpec) ([]byte, []byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	if spec.ModulusLength < MinModulusLength || spec.ModulusLength > MaxModulusLength || spec.ModulusLength%8 != 0 {
		return nil, nil, fmt.Errorf("%w: unsupported modulus length %d (must be a multiple of 8 in [%d, %d])",
			ErrKeyGenerationFailed, spec.ModulusLength, MinModulusLength, MaxModulusLength)
	}
	// crypto/rsa only generates keys with e = 65537.
	if spec.PublicExponent != DefaultPublicExponent {
		return nil, nil, fmt.Errorf("%w: unsupported public exponent %d", ErrKeyGenerationFailed, spec.PublicExponent)
	}

	priv, err := rsa.GenerateKey(p.random, spec.ModulusLength)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to marshal private key: %v", ErrKeyGenerationFailed, err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to marshal public key: %v", ErrKeyGenerationFailed, err)
	}
	return privDER, pubDER, nil
}

// ImportPrivateKey parses a PKCS#8 RSA private key whose size and exponent
// match spec.
func (p *SoftwareProvider) ImportPrivateKey(der []byte, spec AlgorithmSpec) (crypto.PrivateKey, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse PKCS#8 key: %v", ErrKeyImportFailed, err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA private key, got %T", ErrKeyImportFailed, key)
	}
	if err := checkRSAParams(&priv.PublicKey, spec); err != nil {
		return nil, err
	}
	return priv, nil
}

// ImportPublicKey parses an SPKI RSA public key whose size and exponent
// match spec.
func (p *SoftwareProvider) ImportPublicKey(der []byte, spec AlgorithmSpec) (crypto.PublicKey, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse SPKI key: %v", ErrKeyImportFailed, err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA public key, got %T", ErrKeyImportFailed, key)
	}
	if err := checkRSAParams(pub, spec); err != nil {
		return nil, err
	}
	return pub, nil
}

func checkRSAParams(pub *rsa.PublicKey, spec AlgorithmSpec) error {
	if bits := pub.N.BitLen(); bits != spec.ModulusLength {
		return fmt.Errorf("%w: key modulus is %d bits, spec requires %d", ErrKeyImportFailed, bits, spec.ModulusLength)
	}
	if pub.E != spec.PublicExponent {
		return fmt.Errorf("%w: key exponent is %d, spec requires %d", ErrKeyImportFailed, pub.E, spec.PublicExponent)
	}
	return nil
}

// Sign hashes message with spec.Hash and signs it with spec.Scheme.
func (p *SoftwareProvider) Sign(priv crypto.PrivateKey, spec AlgorithmSpec, message []byte) ([]byte, error) {
	rsaKey, ok := priv.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA private key, got %T", ErrKeyImportFailed, priv)
	}
	digest, h, err := signatureDigest(spec, message)
	if err != nil {
		return nil, err
	}

	switch spec.Scheme {
	case SchemePKCS1v15:
		return rsa.SignPKCS1v15(p.random, rsaKey, h, digest)
	case SchemePSS:
		return rsa.SignPSS(p.random, rsaKey, h, digest, pssOptions(h))
	default:
		return nil, fmt.Errorf("%w: unknown signature scheme %q", ErrUnsupportedAlgorithm, spec.Scheme)
	}
}

// Verify checks signature over message with spec.Scheme and spec.Hash.
func (p *SoftwareProvider) Verify(pub crypto.PublicKey, spec AlgorithmSpec, message, signature []byte) (bool, error) {
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("%w: expected RSA public key, got %T", ErrKeyImportFailed, pub)
	}
	digest, h, err := signatureDigest(spec, message)
	if err != nil {
		return false, err
	}
	if len(signature) != rsaPub.Size() {
		return false, nil
	}

	switch spec.Scheme {
	case SchemePKCS1v15:
		return rsa.VerifyPKCS1v15(rsaPub, h, digest, signature) == nil, nil
	case SchemePSS:
		return rsa.VerifyPSS(rsaPub, h, digest, signature, pssOptions(h)) == nil, nil
	default:
		return false, fmt.Errorf("%w: unknown signature scheme %q", ErrUnsupportedAlgorithm, spec.Scheme)
	}
}

// Hash computes the digest of message with alg.
func (p *SoftwareProvider) Hash(alg HashAlgorithm, message []byte) ([]byte, error) {
	info, ok := hashes[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash %q", ErrUnsupportedAlgorithm, alg)
	}
	h := info.New()
	_, _ = h.Write(message)
	return h.Sum(nil), nil
}

// signatureDigest hashes message with the signature hash of spec.
func signatureDigest(spec AlgorithmSpec, message []byte) ([]byte, crypto.Hash, error) {
	info, ok := hashes[spec.Hash]
	if !ok || info.ID == 0 {
		return nil, 0, fmt.Errorf("%w: hash %q cannot be used for signatures", ErrUnsupportedAlgorithm, spec.Hash)
	}
	h := info.New()
	_, _ = h.Write(message)
	return h.Sum(nil), info.ID, nil
}

// pssOptions fixes the salt length to the hash length, the value WebCrypto
// peers use by default.
func pssOptions(h crypto.Hash) *rsa.PSSOptions {
	return &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       h,
	}
}

// Package crypto provides RSA key handling, signatures and digests over
// textual (PEM, hex, base64) inputs and outputs.
//
// Every operation is parameterized by an AlgorithmSpec. Keys are imported
// into capability-restricted handles: a SigningKey can only sign and a
// VerificationKey can only verify. Nothing is cached between calls.
package crypto

import (
	"crypto"
	"crypto/sha1" //nolint:gosec // SHA-1 is offered for interoperability
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Scheme identifies an RSA signature scheme.
type Scheme string

const (
	SchemePKCS1v15 Scheme = "RSASSA-PKCS1-v1_5"
	SchemePSS      Scheme = "RSA-PSS"
)

// HashAlgorithm is the canonical name of a hash function.
type HashAlgorithm string

const (
	HashSHA1       HashAlgorithm = "SHA-1"
	HashSHA256     HashAlgorithm = "SHA-256"
	HashSHA384     HashAlgorithm = "SHA-384"
	HashSHA512     HashAlgorithm = "SHA-512"
	HashSHA512_256 HashAlgorithm = "SHA-512/256"
	HashSHA3_256   HashAlgorithm = "SHA3-256"
	HashSHA3_384   HashAlgorithm = "SHA3-384"
	HashSHA3_512   HashAlgorithm = "SHA3-512"
	HashBLAKE2b256 HashAlgorithm = "BLAKE2b-256"
	HashBLAKE2b512 HashAlgorithm = "BLAKE2b-512"
)

// Defaults applied to zero-valued AlgorithmSpec fields.
const (
	DefaultScheme         = SchemePKCS1v15
	DefaultHash           = HashSHA256
	DefaultModulusLength  = 4096
	DefaultPublicExponent = 65537
)

// hashInfo holds metadata about a hash function.
type hashInfo struct {
	New func() hash.Hash
	// ID is the crypto.Hash used by RSA signatures; 0 for digest-only hashes.
	ID   crypto.Hash
	Size int
}

// hashes maps HashAlgorithm to its metadata.
var hashes = map[HashAlgorithm]hashInfo{
	HashSHA1:       {New: sha1.New, ID: crypto.SHA1, Size: sha1.Size},
	HashSHA256:     {New: sha256.New, ID: crypto.SHA256, Size: sha256.Size},
	HashSHA384:     {New: sha512.New384, ID: crypto.SHA384, Size: sha512.Size384},
	HashSHA512:     {New: sha512.New, ID: crypto.SHA512, Size: sha512.Size},
	HashSHA512_256: {New: sha512.New512_256, Size: sha512.Size256},
	HashSHA3_256:   {New: sha3.New256, Size: 32},
	HashSHA3_384:   {New: sha3.New384, Size: 48},
	HashSHA3_512:   {New: sha3.New512, Size: 64},
	HashBLAKE2b256: {New: newBLAKE2b(blake2b.New256), Size: blake2b.Size256},
	HashBLAKE2b512: {New: newBLAKE2b(blake2b.New512), Size: blake2b.Size},
}

// hashAliases maps normalized names to canonical hashes. Built from hashes.
var hashAliases = func() map[string]HashAlgorithm {
	m := make(map[string]HashAlgorithm, len(hashes))
	for alg := range hashes {
		m[normalizeName(string(alg))] = alg
	}
	return m
}()

func newBLAKE2b(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			// Only reachable with an oversized key.
			panic(err)
		}
		return h
	}
}

// normalizeName lowercases s and drops '-', '_', '/' and spaces, so that
// "SHA-256", "sha256" and "Sha_256" compare equal.
func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '/', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// ParseHashAlgorithm resolves a case-, hyphen- and underscore-insensitive
// hash name such as "sha256", "SHA-256" or "sha3_512".
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	if alg, ok := hashAliases[normalizeName(s)]; ok {
		return alg, nil
	}
	return "", fmt.Errorf("%w: unknown hash %q", ErrUnsupportedAlgorithm, s)
}

// IsValid returns true if the hash is recognized.
func (h HashAlgorithm) IsValid() bool {
	_, ok := hashes[h]
	return ok
}

// CanSign returns true if the hash can be used in an RSA signature.
func (h HashAlgorithm) CanSign() bool {
	return hashes[h].ID != 0
}

// Size returns the digest length in bytes, or 0 for unknown hashes.
func (h HashAlgorithm) Size() int {
	return hashes[h].Size
}

// CryptoHash returns the crypto.Hash for signature-capable hashes.
func (h HashAlgorithm) CryptoHash() crypto.Hash {
	return hashes[h].ID
}

// String returns the canonical hash name.
func (h HashAlgorithm) String() string {
	return string(h)
}

// HashAlgorithms returns every supported hash, sorted by name.
func HashAlgorithms() []HashAlgorithm {
	result := make([]HashAlgorithm, 0, len(hashes))
	for alg := range hashes {
		result = append(result, alg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// ParseScheme resolves a scheme name. Accepted aliases are "pkcs1v15",
// "pkcs1", "pss" and the canonical names in any case.
func ParseScheme(s string) (Scheme, error) {
	switch normalizeName(s) {
	case normalizeName(string(SchemePKCS1v15)), "pkcs1v15", "pkcs1", "rsapkcs1v15":
		return SchemePKCS1v15, nil
	case normalizeName(string(SchemePSS)), "pss":
		return SchemePSS, nil
	}
	return "", fmt.Errorf("%w: unknown signature scheme %q", ErrUnsupportedAlgorithm, s)
}

// IsValid returns true if the scheme is recognized.
func (s Scheme) IsValid() bool {
	return s == SchemePKCS1v15 || s == SchemePSS
}

// String returns the canonical scheme name.
func (s Scheme) String() string {
	return string(s)
}

// AlgorithmSpec bundles the parameters that govern key generation, import,
// signing and verification.
type AlgorithmSpec struct {
	Scheme         Scheme        `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Hash           HashAlgorithm `json:"hash,omitempty" yaml:"hash,omitempty"`
	ModulusLength  int           `json:"modulus_length,omitempty" yaml:"modulus_length,omitempty"`
	PublicExponent int           `json:"public_exponent,omitempty" yaml:"public_exponent,omitempty"`
}

// DefaultAlgorithmSpec returns RSASSA-PKCS1-v1_5 / SHA-256 / 4096 / 65537.
func DefaultAlgorithmSpec() AlgorithmSpec {
	return AlgorithmSpec{
		Scheme:         DefaultScheme,
		Hash:           DefaultHash,
		ModulusLength:  DefaultModulusLength,
		PublicExponent: DefaultPublicExponent,
	}
}

// WithDefaults returns a copy with zero-valued fields taken from
// DefaultAlgorithmSpec.
func (s AlgorithmSpec) WithDefaults() AlgorithmSpec {
	return s.withDefaultsFrom(DefaultAlgorithmSpec())
}

func (s AlgorithmSpec) withDefaultsFrom(d AlgorithmSpec) AlgorithmSpec {
	if s.Scheme == "" {
		s.Scheme = d.Scheme
	}
	if s.Hash == "" {
		s.Hash = d.Hash
	}
	if s.ModulusLength == 0 {
		s.ModulusLength = d.ModulusLength
	}
	if s.PublicExponent == 0 {
		s.PublicExponent = d.PublicExponent
	}
	return s
}

// Validate checks that the scheme and hash are known and that the key size
// parameters are positive.
func (s AlgorithmSpec) Validate() error {
	if !s.Scheme.IsValid() {
		return fmt.Errorf("%w: unknown signature scheme %q", ErrUnsupportedAlgorithm, s.Scheme)
	}
	if !s.Hash.IsValid() {
		return fmt.Errorf("%w: unknown hash %q", ErrUnsupportedAlgorithm, s.Hash)
	}
	if !s.Hash.CanSign() {
		return fmt.Errorf("%w: %s cannot be used with %s", ErrUnsupportedAlgorithm, s.Hash, s.Scheme)
	}
	if s.ModulusLength <= 0 {
		return fmt.Errorf("%w: modulus length must be positive, got %d", ErrUnsupportedAlgorithm, s.ModulusLength)
	}
	if s.PublicExponent <= 0 {
		return fmt.Errorf("%w: public exponent must be positive, got %d", ErrUnsupportedAlgorithm, s.PublicExponent)
	}
	return nil
}

// String returns a compact description, e.g. "RSASSA-PKCS1-v1_5/SHA-256/4096".
func (s AlgorithmSpec) String() string {
	return fmt.Sprintf("%s/%s/%d", s.Scheme, s.Hash, s.ModulusLength)
}

// ParseAlgorithmSpec builds a spec from textual scheme and hash names.
// Empty names and zero sizes keep their defaults.
func ParseAlgorithmSpec(scheme, hashName string, modulusLength, publicExponent int) (AlgorithmSpec, error) {
	spec := AlgorithmSpec{ModulusLength: modulusLength, PublicExponent: publicExponent}
	if scheme != "" {
		s, err := ParseScheme(scheme)
		if err != nil {
			return AlgorithmSpec{}, err
		}
		spec.Scheme = s
	}
	if hashName != "" {
		h, err := ParseHashAlgorithm(hashName)
		if err != nil {
			return AlgorithmSpec{}, err
		}
		spec.Hash = h
	}
	return spec, nil
}

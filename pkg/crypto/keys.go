package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/remiblancher/qsign/pkg/codec"
)

// KeyKind tags a KeyBlob with its DER layout.
type KeyKind int

const (
	// PrivateKey is a PKCS#8 private key.
	PrivateKey KeyKind = iota + 1
	// PublicKey is an SPKI public key.
	PublicKey
)

// PEMLabel returns the PEM label for the kind.
func (k KeyKind) PEMLabel() string {
	switch k {
	case PrivateKey:
		return codec.LabelPrivateKey
	case PublicKey:
		return codec.LabelPublicKey
	}
	return ""
}

// String returns "private" or "public".
func (k KeyKind) String() string {
	switch k {
	case PrivateKey:
		return "private"
	case PublicKey:
		return "public"
	}
	return "unknown"
}

// ParseKeyKind parses "private" or "public".
func ParseKeyKind(s string) (KeyKind, error) {
	switch s {
	case "private":
		return PrivateKey, nil
	case "public":
		return PublicKey, nil
	}
	return 0, fmt.Errorf("unknown key kind %q (expected private or public)", s)
}

// KeyBlob is DER-encoded key material of a given kind.
type KeyBlob struct {
	Kind KeyKind
	DER  []byte
}

// PEM wraps the blob in a PEM envelope labelled for its kind.
func (b KeyBlob) PEM() string {
	return codec.EncodePEM(b.DER, b.Kind.PEMLabel())
}

// Fingerprint returns the hex SHA-256 of the DER bytes.
func (b KeyBlob) Fingerprint() string {
	return fingerprint(b.DER)
}

func fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return codec.BytesToHex(sum[:])
}

// KeyPair holds a freshly generated private/public key pair.
type KeyPair struct {
	PrivateKey KeyBlob
	PublicKey  KeyBlob
}

// PEMKeyPair is a KeyPair rendered as PEM text.
type PEMKeyPair struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}

// SigningKey is an imported private key restricted to signing.
type SigningKey struct {
	provider    Provider
	spec        AlgorithmSpec
	key         crypto.PrivateKey
	fingerprint string
}

// Spec returns the spec the key was imported under.
func (k *SigningKey) Spec() AlgorithmSpec { return k.spec }

// Fingerprint returns the hex SHA-256 of the key's PKCS#8 DER.
func (k *SigningKey) Fingerprint() string { return k.fingerprint }

// Sign signs message with the key's scheme and hash.
func (k *SigningKey) Sign(message []byte) ([]byte, error) {
	return k.provider.Sign(k.key, k.spec, message)
}

// VerificationKey is an imported public key restricted to verification.
type VerificationKey struct {
	provider    Provider
	spec        AlgorithmSpec
	key         crypto.PublicKey
	fingerprint string
}

// Spec returns the spec the key was imported under.
func (k *VerificationKey) Spec() AlgorithmSpec { return k.spec }

// Fingerprint returns the hex SHA-256 of the key's SPKI DER.
func (k *VerificationKey) Fingerprint() string { return k.fingerprint }

// Verify reports whether signature is valid for message.
func (k *VerificationKey) Verify(message, signature []byte) (bool, error) {
	return k.provider.Verify(k.key, k.spec, message, signature)
}

// GenerateKeyPair generates a key pair for spec. Zero-valued spec fields take
// their defaults.
//
// Example:
//
//	kp, err := crypto.GenerateKeyPair(crypto.AlgorithmSpec{ModulusLength: 2048})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(kp.PublicKey.PEM())
func GenerateKeyPair(spec AlgorithmSpec) (*KeyPair, error) {
	return generateKeyPair(defaultProvider, spec.WithDefaults())
}

// GenerateKeyPairPEM generates a key pair, renders it as PEM and re-imports
// both halves to prove they are usable under spec.
func GenerateKeyPairPEM(spec AlgorithmSpec) (*PEMKeyPair, error) {
	return generateKeyPairPEM(defaultProvider, spec.WithDefaults())
}

// ImportSigningKey decodes a PRIVATE KEY PEM into a signing-only handle.
func ImportSigningKey(pemText string, spec AlgorithmSpec) (*SigningKey, error) {
	return importSigningKey(defaultProvider, pemText, spec.WithDefaults())
}

// ImportVerificationKey decodes a PUBLIC KEY PEM into a verification-only
// handle.
func ImportVerificationKey(pemText string, spec AlgorithmSpec) (*VerificationKey, error) {
	return importVerificationKey(defaultProvider, pemText, spec.WithDefaults())
}

func generateKeyPair(p Provider, spec AlgorithmSpec) (*KeyPair, error) {
	if err := spec.Validate(); err != nil {
		return nil, opError(OpGenerate, err)
	}
	privDER, pubDER, err := p.GenerateKey(spec)
	if err != nil {
		return nil, opError(OpGenerate, err)
	}
	return &KeyPair{
		PrivateKey: KeyBlob{Kind: PrivateKey, DER: privDER},
		PublicKey:  KeyBlob{Kind: PublicKey, DER: pubDER},
	}, nil
}

func generateKeyPairPEM(p Provider, spec AlgorithmSpec) (*PEMKeyPair, error) {
	kp, err := generateKeyPair(p, spec)
	if err != nil {
		return nil, err
	}
	return selfCheck(p, kp, spec)
}

// selfCheck renders kp as PEM and re-imports both halves under spec.
func selfCheck(p Provider, kp *KeyPair, spec AlgorithmSpec) (*PEMKeyPair, error) {
	out := &PEMKeyPair{
		PrivateKey: kp.PrivateKey.PEM(),
		PublicKey:  kp.PublicKey.PEM(),
	}
	if _, err := importSigningKey(p, out.PrivateKey, spec); err != nil {
		return nil, opError(OpGenerate, fmt.Errorf("%w: generated private key does not re-import: %v", ErrKeyGenerationFailed, err))
	}
	if _, err := importVerificationKey(p, out.PublicKey, spec); err != nil {
		return nil, opError(OpGenerate, fmt.Errorf("%w: generated public key does not re-import: %v", ErrKeyGenerationFailed, err))
	}
	return out, nil
}

func importSigningKey(p Provider, pemText string, spec AlgorithmSpec) (*SigningKey, error) {
	der, err := codec.DecodePEM(pemText, codec.LabelPrivateKey)
	if err != nil {
		return nil, opError(OpImport, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, opError(OpImport, err)
	}
	key, err := p.ImportPrivateKey(der, spec)
	if err != nil {
		return nil, opError(OpImport, err)
	}
	return &SigningKey{provider: p, spec: spec, key: key, fingerprint: fingerprint(der)}, nil
}

func importVerificationKey(p Provider, pemText string, spec AlgorithmSpec) (*VerificationKey, error) {
	der, err := codec.DecodePEM(pemText, codec.LabelPublicKey)
	if err != nil {
		return nil, opError(OpImport, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, opError(OpImport, err)
	}
	key, err := p.ImportPublicKey(der, spec)
	if err != nil {
		return nil, opError(OpImport, err)
	}
	return &VerificationKey{provider: p, spec: spec, key: key, fingerprint: fingerprint(der)}, nil
}

// KeyInfo describes a PEM-encoded RSA key.
type KeyInfo struct {
	Kind           KeyKind
	ModulusLength  int
	PublicExponent int
	Fingerprint    string
}

// Spec returns a default-scheme spec matching the key's size and exponent.
func (i *KeyInfo) Spec() AlgorithmSpec {
	return AlgorithmSpec{ModulusLength: i.ModulusLength, PublicExponent: i.PublicExponent}.WithDefaults()
}

// InspectKey decodes a PEM key of the given kind and reports its RSA
// parameters without binding it to a spec.
func InspectKey(pemText string, kind KeyKind) (*KeyInfo, error) {
	der, err := codec.DecodePEM(pemText, kind.PEMLabel())
	if err != nil {
		return nil, opError(OpImport, err)
	}

	var pub *rsa.PublicKey
	switch kind {
	case PrivateKey:
		key, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, opError(OpImport, fmt.Errorf("%w: failed to parse PKCS#8 key: %v", ErrKeyImportFailed, err))
		}
		priv, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, opError(OpImport, fmt.Errorf("%w: expected RSA private key, got %T", ErrKeyImportFailed, key))
		}
		pub = &priv.PublicKey
	case PublicKey:
		key, err := x509.ParsePKIXPublicKey(der)
		if err != nil {
			return nil, opError(OpImport, fmt.Errorf("%w: failed to parse SPKI key: %v", ErrKeyImportFailed, err))
		}
		rsaPub, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, opError(OpImport, fmt.Errorf("%w: expected RSA public key, got %T", ErrKeyImportFailed, key))
		}
		pub = rsaPub
	default:
		return nil, opError(OpImport, fmt.Errorf("%w: unknown key kind", ErrKeyImportFailed))
	}

	return &KeyInfo{
		Kind:           kind,
		ModulusLength:  pub.N.BitLen(),
		PublicExponent: pub.E,
		Fingerprint:    fingerprint(der),
	}, nil
}

// PublicKeyPEM derives the PUBLIC KEY PEM from a PRIVATE KEY PEM.
func PublicKeyPEM(privatePEM string) (string, error) {
	der, err := codec.DecodePEM(privatePEM, codec.LabelPrivateKey)
	if err != nil {
		return "", opError(OpImport, err)
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return "", opError(OpImport, fmt.Errorf("%w: failed to parse PKCS#8 key: %v", ErrKeyImportFailed, err))
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return "", opError(OpImport, fmt.Errorf("%w: expected RSA private key, got %T", ErrKeyImportFailed, key))
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return "", opError(OpImport, fmt.Errorf("%w: failed to marshal public key: %v", ErrKeyImportFailed, err))
	}
	return KeyBlob{Kind: PublicKey, DER: pubDER}.PEM(), nil
}

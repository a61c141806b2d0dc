package dto

// KeyGenerateRequest represents a key generation request.
type KeyGenerateRequest struct {
	AlgorithmSpec
}

// KeyGenerateResponse represents the result of key generation.
type KeyGenerateResponse struct {
	// PrivateKey is the PKCS#8 "PRIVATE KEY" PEM.
	PrivateKey string `json:"private_key"`

	// PublicKey is the SPKI "PUBLIC KEY" PEM.
	PublicKey string `json:"public_key"`

	// Algorithm is the resolved spec the pair was generated and checked under.
	Algorithm AlgorithmSpec `json:"algorithm"`

	// Fingerprint is the SHA-256 of the public key DER, in hex.
	Fingerprint string `json:"fingerprint"`
}

// KeyInfoRequest represents a key info request.
type KeyInfoRequest struct {
	// Key is the PEM text to analyze.
	Key string `json:"key"`

	// Kind is "private" or "public". Empty detects it from the PEM header.
	Kind string `json:"kind,omitempty"`
}

// KeyInfoResponse represents key information.
type KeyInfoResponse struct {
	// Kind is "public" or "private".
	Kind string `json:"kind"`

	// ModulusLength is the key size in bits.
	ModulusLength int `json:"modulus_length"`

	// PublicExponent is the RSA public exponent.
	PublicExponent int `json:"public_exponent"`

	// Fingerprint is the SHA-256 of the key DER, in hex.
	Fingerprint string `json:"fingerprint"`
}

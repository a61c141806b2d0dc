package dto

// SignRequest represents a signing request.
type SignRequest struct {
	// Data is the text to sign. It is signed as its UTF-8 bytes.
	Data string `json:"data"`

	// PrivateKey is the PKCS#8 "PRIVATE KEY" PEM.
	PrivateKey string `json:"private_key"`

	// Algorithm overrides the server default spec.
	Algorithm *AlgorithmSpec `json:"algorithm,omitempty"`

	// Encoding is "hex" or "base64". Empty uses the server default.
	Encoding string `json:"encoding,omitempty"`
}

// SignResponse represents the result of signing.
type SignResponse struct {
	Signature string `json:"signature"`
	Encoding  string `json:"encoding"`
}

// VerifyRequest represents a signature verification request.
type VerifyRequest struct {
	Data      string         `json:"data"`
	PublicKey string         `json:"public_key"`
	Signature string         `json:"signature"`
	Algorithm *AlgorithmSpec `json:"algorithm,omitempty"`
	Encoding  string         `json:"encoding,omitempty"`
}

// VerifyResponse represents the result of verification.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

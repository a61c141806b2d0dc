// Package dto provides Data Transfer Objects for the REST API.
package dto

import (
	"github.com/remiblancher/qsign/pkg/crypto"
)

// APIError represents a standardized error response.
type APIError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Version is the server version.
	Version string `json:"version"`

	// Algorithm is the server's default algorithm spec.
	Algorithm string `json:"algorithm,omitempty"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	// Ready indicates if the server is ready to accept requests.
	Ready bool `json:"ready"`

	// Checks lists individual readiness checks.
	Checks map[string]bool `json:"checks,omitempty"`
}

// AlgorithmSpec is the textual form of crypto.AlgorithmSpec. Empty fields
// take the server defaults.
type AlgorithmSpec struct {
	Scheme         string `json:"scheme,omitempty"`
	Hash           string `json:"hash,omitempty"`
	ModulusLength  int    `json:"modulus_length,omitempty"`
	PublicExponent int    `json:"public_exponent,omitempty"`
}

// ToSpec parses the names. A nil receiver yields the zero spec.
func (a *AlgorithmSpec) ToSpec() (crypto.AlgorithmSpec, error) {
	if a == nil {
		return crypto.AlgorithmSpec{}, nil
	}
	return crypto.ParseAlgorithmSpec(a.Scheme, a.Hash, a.ModulusLength, a.PublicExponent)
}

// FromSpec converts a resolved spec to its textual form.
func FromSpec(s crypto.AlgorithmSpec) AlgorithmSpec {
	return AlgorithmSpec{
		Scheme:         string(s.Scheme),
		Hash:           string(s.Hash),
		ModulusLength:  s.ModulusLength,
		PublicExponent: s.PublicExponent,
	}
}

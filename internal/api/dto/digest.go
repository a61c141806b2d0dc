package dto

// DigestRequest represents a digest request. Algorithms takes precedence
// over Algorithm when both are set.
type DigestRequest struct {
	Data       string   `json:"data"`
	Algorithm  string   `json:"algorithm,omitempty"`
	Algorithms []string `json:"algorithms,omitempty"`
	Encoding   string   `json:"encoding,omitempty"`
}

// DigestResponse carries either a single Digest or a Digests map keyed by
// canonical algorithm name.
type DigestResponse struct {
	Algorithm string            `json:"algorithm,omitempty"`
	Digest    string            `json:"digest,omitempty"`
	Digests   map[string]string `json:"digests,omitempty"`
	Encoding  string            `json:"encoding"`
}

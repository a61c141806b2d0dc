package handler

import (
	"net/http"

	"github.com/remiblancher/qsign/internal/api/dto"
	"github.com/remiblancher/qsign/pkg/codec"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// DigestHandler handles digest requests.
type DigestHandler struct {
	svc *crypto.Service
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(svc *crypto.Service) *DigestHandler {
	return &DigestHandler{svc: svc}
}

// Digest handles POST /api/v1/digest
func (h *DigestHandler) Digest(w http.ResponseWriter, r *http.Request) {
	var req dto.DigestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enc := h.svc.Encoding()
	if req.Encoding != "" {
		var err error
		if enc, err = codec.ParseEncoding(req.Encoding); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	if len(req.Algorithms) > 0 {
		digests, err := h.svc.DigestMany(r.Context(), req.Data, req.Algorithms, enc)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		out := make(map[string]string, len(digests))
		for alg, d := range digests {
			out[string(alg)] = d
		}
		respondJSON(w, http.StatusOK, dto.DigestResponse{Digests: out, Encoding: string(enc)})
		return
	}

	alg := h.svc.Spec().Hash
	if req.Algorithm != "" {
		var err error
		if alg, err = crypto.ParseHashAlgorithm(req.Algorithm); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	d, err := h.svc.Digest(r.Context(), req.Data, string(alg), enc)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.DigestResponse{
		Algorithm: string(alg),
		Digest:    d,
		Encoding:  string(enc),
	})
}

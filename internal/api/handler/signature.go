package handler

import (
	"net/http"

	"github.com/remiblancher/qsign/internal/api/dto"
	apierrors "github.com/remiblancher/qsign/internal/api/errors"
	"github.com/remiblancher/qsign/pkg/codec"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// SignatureHandler handles sign and verify requests.
type SignatureHandler struct {
	svc *crypto.Service
}

// NewSignatureHandler creates a new SignatureHandler.
func NewSignatureHandler(svc *crypto.Service) *SignatureHandler {
	return &SignatureHandler{svc: svc}
}

// Sign handles POST /api/v1/sign
func (h *SignatureHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req dto.SignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PrivateKey == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewValidationError("private_key is required",
			map[string]string{"field": "private_key"}))
		return
	}

	spec, enc, ok := h.parseOptions(w, req.Algorithm, req.Encoding)
	if !ok {
		return
	}

	sig, err := h.svc.SignPEM(r.Context(), req.Data, req.PrivateKey, spec, enc)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.SignResponse{
		Signature: sig,
		Encoding:  string(enc),
	})
}

// Verify handles POST /api/v1/verify. A signature that does not verify,
// including one that does not decode, is a 200 with valid=false.
func (h *SignatureHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PublicKey == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewValidationError("public_key is required",
			map[string]string{"field": "public_key"}))
		return
	}

	spec, enc, ok := h.parseOptions(w, req.Algorithm, req.Encoding)
	if !ok {
		return
	}

	valid, err := h.svc.VerifyPEM(r.Context(), req.PublicKey, req.Signature, req.Data, spec, enc)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.VerifyResponse{Valid: valid})
}

// parseOptions resolves the optional algorithm and encoding of a request
// against the service defaults.
func (h *SignatureHandler) parseOptions(w http.ResponseWriter, alg *dto.AlgorithmSpec, encoding string) (crypto.AlgorithmSpec, codec.Encoding, bool) {
	spec, err := alg.ToSpec()
	if err != nil {
		respondServiceError(w, err)
		return crypto.AlgorithmSpec{}, "", false
	}
	enc := h.svc.Encoding()
	if encoding != "" {
		enc, err = codec.ParseEncoding(encoding)
		if err != nil {
			respondServiceError(w, err)
			return crypto.AlgorithmSpec{}, "", false
		}
	}
	return h.svc.Resolve(spec), enc, true
}

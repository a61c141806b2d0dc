package handler

import (
	"net/http"
	"strings"

	"github.com/remiblancher/qsign/internal/api/dto"
	apierrors "github.com/remiblancher/qsign/internal/api/errors"
	"github.com/remiblancher/qsign/pkg/codec"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// KeyHandler handles key-related HTTP requests.
type KeyHandler struct {
	svc *crypto.Service
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(svc *crypto.Service) *KeyHandler {
	return &KeyHandler{svc: svc}
}

// Generate handles POST /api/v1/keys/generate
func (h *KeyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.KeyGenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	spec, err := req.ToSpec()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	spec = h.svc.Resolve(spec)

	pair, err := h.svc.GenerateKeyPairPEM(r.Context(), spec)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	info, err := crypto.InspectKey(pair.PublicKey, crypto.PublicKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.KeyGenerateResponse{
		PrivateKey:  pair.PrivateKey,
		PublicKey:   pair.PublicKey,
		Algorithm:   dto.FromSpec(spec),
		Fingerprint: info.Fingerprint,
	})
}

// Info handles POST /api/v1/keys/info
func (h *KeyHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req dto.KeyInfoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewValidationError("key is required",
			map[string]string{"field": "key"}))
		return
	}

	kind := crypto.PrivateKey
	switch {
	case req.Kind != "":
		k, err := crypto.ParseKeyKind(req.Kind)
		if err != nil {
			respondError(w, http.StatusBadRequest, apierrors.NewValidationError(err.Error(),
				map[string]string{"field": "kind"}))
			return
		}
		kind = k
	case strings.Contains(req.Key, codec.PEMHeader(codec.LabelPublicKey)):
		kind = crypto.PublicKey
	}

	info, err := crypto.InspectKey(req.Key, kind)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.KeyInfoResponse{
		Kind:           info.Kind.String(),
		ModulusLength:  info.ModulusLength,
		PublicExponent: info.PublicExponent,
		Fingerprint:    info.Fingerprint,
	})
}

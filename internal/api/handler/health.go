// Package handler provides HTTP handlers for the REST API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/remiblancher/qsign/internal/api/dto"
	apierrors "github.com/remiblancher/qsign/internal/api/errors"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// MaxRequestBytes bounds JSON request bodies.
const MaxRequestBytes = 8 << 20

// HealthHandler handles health and readiness endpoints.
type HealthHandler struct {
	version string
	svc     *crypto.Service
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, svc *crypto.Service) *HealthHandler {
	return &HealthHandler{
		version: version,
		svc:     svc,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Algorithm: h.svc.Spec().String(),
	}

	respondJSON(w, http.StatusOK, resp)
}

// Ready handles GET /ready. The digest check hashes the empty string outside
// the service so readiness checks are not audited.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, err := crypto.Digest("", string(crypto.HashSHA256), "")
	checks := map[string]bool{
		"server": true,
		"digest": err == nil,
	}

	allReady := true
	for _, ready := range checks {
		if !ready {
			allReady = false
			break
		}
	}

	resp := dto.ReadyResponse{
		Ready:  allReady,
		Checks: checks,
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, apiErr *dto.APIError) {
	respondJSON(w, status, apiErr)
}

// respondServiceError maps a crypto error to its status and writes it.
func respondServiceError(w http.ResponseWriter, err error) {
	status, apiErr := apierrors.MapError(err)
	respondError(w, status, apiErr)
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge,
				apierrors.NewBadRequest(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return false
		}
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("Invalid JSON request body: "+err.Error()))
		return false
	}
	return true
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remiblancher/qsign/internal/api/dto"
	apierrors "github.com/remiblancher/qsign/internal/api/errors"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// =============================================================================
// decodeJSON Tests
// =============================================================================

func TestU_DecodeJSON(t *testing.T) {
	oversized := `{"data":"` + strings.Repeat("a", MaxRequestBytes) + `"}`

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{"[Unit] DecodeJSON: valid body", `{"data":"abc","algorithm":"sha256"}`, true, http.StatusOK, ""},
		{"[Unit] DecodeJSON: unknown field", `{"data":"abc","colour":"blue"}`, false, http.StatusBadRequest, apierrors.CodeInvalidRequest},
		{"[Unit] DecodeJSON: malformed JSON", `{"data":`, false, http.StatusBadRequest, apierrors.CodeInvalidRequest},
		{"[Unit] DecodeJSON: empty body", ``, false, http.StatusBadRequest, apierrors.CodeInvalidRequest},
		{"[Unit] DecodeJSON: body too large", oversized, false, http.StatusRequestEntityTooLarge, apierrors.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/digest", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst dto.DigestRequest
			ok := decodeJSON(rec, req, &dst)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, "abc", dst.Data)
				assert.Equal(t, "sha256", dst.Algorithm)
				assert.Zero(t, rec.Body.Len(), "success must not write a response")
				return
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var apiErr dto.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestU_DecodeJSON_TooLargeMessage(t *testing.T) {
	body := `{"data":"` + strings.Repeat("a", MaxRequestBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/digest", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var dst dto.DigestRequest
	require.False(t, decodeJSON(rec, req, &dst))

	var apiErr dto.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Message, "8388608 bytes")
}

// =============================================================================
// Health Tests
// =============================================================================

func TestU_HealthHandler(t *testing.T) {
	h := NewHealthHandler("1.2.3", crypto.NewService())

	t.Run("[Unit] Health: reports version", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.NotEmpty(t, resp.Algorithm)
	})

	t.Run("[Unit] Ready: all checks pass", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ReadyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Ready)
		assert.True(t, resp.Checks["digest"])
	})
}

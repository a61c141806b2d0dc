package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remiblancher/qsign/pkg/crypto"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestU_Outcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"[Unit] Outcome: nil", nil, "success"},
		{"[Unit] Outcome: cancelled", context.Canceled, "abandoned"},
		{"[Unit] Outcome: deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "abandoned"},
		{"[Unit] Outcome: malformed", &crypto.Error{Op: crypto.OpImport, Err: crypto.ErrMalformedEncoding}, "malformed_encoding"},
		{"[Unit] Outcome: unsupported encoding", crypto.ErrUnsupportedEncoding, "unsupported_encoding"},
		{"[Unit] Outcome: unsupported algorithm", crypto.ErrUnsupportedAlgorithm, "unsupported_algorithm"},
		{"[Unit] Outcome: import", crypto.ErrKeyImportFailed, "key_import_failed"},
		{"[Unit] Outcome: generation", crypto.ErrKeyGenerationFailed, "key_generation_failed"},
		{"[Unit] Outcome: other", errors.New("audit log failed"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestU_Metrics_ObserveOperation(t *testing.T) {
	m := New(false)
	m.ObserveOperation(crypto.OpSign, 2*time.Millisecond, nil)
	m.ObserveOperation(crypto.OpSign, time.Millisecond, nil)
	m.ObserveOperation(crypto.OpVerify, time.Millisecond, crypto.ErrUnsupportedAlgorithm)

	body := scrape(t, m)
	assert.Contains(t, body, `qsign_operations_total{op="sign",outcome="success"} 2`)
	assert.Contains(t, body, `qsign_operations_total{op="verify",outcome="unsupported_algorithm"} 1`)
	assert.Contains(t, body, `qsign_operation_duration_seconds_count{op="sign"} 2`)
}

func TestU_Metrics_ObserveRequest(t *testing.T) {
	m := New(false)
	m.ObserveRequest("/api/v1/sign", http.MethodPost, http.StatusOK, 5*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `qsign_http_requests_total{method="POST",route="/api/v1/sign",status="200"} 1`)
	assert.Contains(t, body, `qsign_http_request_duration_seconds_count{method="POST",route="/api/v1/sign"} 1`)
}

func TestU_Metrics_Runtime(t *testing.T) {
	assert.NotContains(t, scrape(t, New(false)), "go_goroutines")
	assert.Contains(t, scrape(t, New(true)), "go_goroutines")
}

func TestU_Metrics_ServiceObserver(t *testing.T) {
	m := New(false)
	svc := crypto.NewService(crypto.WithObserver(m))

	_, err := svc.Digest(context.Background(), "hello", "sha256", "")
	require.NoError(t, err)
	_, err = svc.Digest(context.Background(), "hello", "md5", "")
	require.Error(t, err)

	body := scrape(t, m)
	assert.Contains(t, body, `qsign_operations_total{op="digest",outcome="success"} 1`)
	assert.Contains(t, body, `qsign_operations_total{op="digest",outcome="unsupported_algorithm"} 1`)
}

func TestU_Metrics_Registry(t *testing.T) {
	m := New(false)
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	// Vectors without observations are not gathered.
	assert.Empty(t, families)
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditscan/internal/services"
)

func TestHealthHandlerEndpoints(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("v1.0.0-test", "", nil), nil)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus string
	}{
		{"health", h.HealthCheck, "healthy"},
		{"ready", h.ReadinessCheck, "ready"},
		{"live", h.LivenessCheck, "alive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, "v1.0.0-test", body["version"])
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("v1.0.0-test", "2026-01-01", nil), nil)

	w := httptest.NewRecorder()
	h.Version(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "v1.0.0-test", body["version"])
	assert.NotEmpty(t, body["go_version"])
}

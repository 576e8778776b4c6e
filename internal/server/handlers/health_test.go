package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }
func (f pingerFunc) Ping(ctx context.Context) error        { return f(ctx) }

var (
	up   = pingerFunc(func(context.Context) error { return nil })
	down = pingerFunc(func(context.Context) error { return errors.New("connection refused") })
)

func check(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		db       DatabasePinger
		cache    CachePinger
		code     int
		status   string
		database string
		cacheStr string
	}{
		{"all up", up, up, http.StatusOK, "healthy", "connected", "connected"},
		{"cache disabled", up, nil, http.StatusOK, "healthy", "connected", "disabled"},
		{"cache down", up, down, http.StatusOK, "healthy", "connected", "disconnected"},
		{"database down", down, nil, http.StatusServiceUnavailable, "degraded", "disconnected", "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := check(t, NewHealthHandler(tt.db, tt.cache))

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.database, body.Database)
			assert.Equal(t, tt.cacheStr, body.Cache)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}

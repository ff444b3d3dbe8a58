package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats int

func (f fixedStats) ActiveSenders() int { return int(f) }

func TestServer_Healthz(t *testing.T) {
	nopLogger := zerolog.Nop()
	s := NewServer(0, fixedStats(3), &nopLogger)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.ActiveSenders)
}

func TestServer_HealthzWithoutStats(t *testing.T) {
	nopLogger := zerolog.Nop()
	s := NewServer(0, nil, &nopLogger)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	nopLogger := zerolog.Nop()
	s := NewServer(0, nil, &nopLogger)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// The default registry always carries the Go runtime collectors.
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestServer_UnknownRoute(t *testing.T) {
	nopLogger := zerolog.Nop()
	s := NewServer(0, nil, &nopLogger)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_StartStopsOnCancel(t *testing.T) {
	nopLogger := zerolog.Nop()
	s := NewServer(0, nil, &nopLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

package host

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_RunWithoutServer(t *testing.T) {
	h := New(Config{})

	var ran atomic.Bool
	err := h.Run(context.Background(), func(context.Context) {
		ran.Store(true)
		h.StopApplication()
	})

	require.NoError(t, err)
	assert.True(t, ran.Load())
	assert.Empty(t, h.Addr())

	select {
	case <-h.Done():
	default:
		t.Fatal("Done must be closed after Run")
	}
}

func TestHost_StopsWhenJobReturnsWithoutSignal(t *testing.T) {
	h := New(Config{})

	err := h.Run(context.Background(), func(context.Context) {})

	require.NoError(t, err)
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("host did not stop")
	}
}

func TestHost_StopApplicationIdempotent(t *testing.T) {
	h := New(Config{})
	h.StopApplication()
	assert.NotPanics(t, h.StopApplication)
}

func TestHost_ServesHealthAndMetricsWhileRunning(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("paysweep_up 1\n"))
	})
	h := New(Config{Addr: "127.0.0.1:0", Metrics: metrics})

	var health, scraped string
	var healthErr, scrapeErr error
	err := h.Run(context.Background(), func(context.Context) {
		base := "http://" + h.Addr()
		health, healthErr = get(base + "/healthz")
		scraped, scrapeErr = get(base + "/metrics")
		h.StopApplication()
	})

	require.NoError(t, err)
	require.NoError(t, healthErr)
	require.NoError(t, scrapeErr)
	assert.Equal(t, "ok", health)
	assert.Contains(t, scraped, "paysweep_up 1")

	// после Run сервер закрыт
	_, err = http.Get("http://" + h.Addr() + "/healthz")
	assert.Error(t, err)
}

func TestHost_HealthzAfterStop(t *testing.T) {
	h := New(Config{})
	h.StopApplication()

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHost_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	h := New(Config{Addr: ln.Addr().String()})

	var ran atomic.Bool
	err = h.Run(context.Background(), func(context.Context) { ran.Store(true) })

	require.Error(t, err)
	assert.False(t, ran.Load())
}

func get(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return string(body), err
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	Chain(Recovery(logger), Logging(logger))(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestLogging_CapturesStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	teapot := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	Logging(logger)(teapot).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/healthz"`)
}

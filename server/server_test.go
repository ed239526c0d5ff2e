package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"trustmonitor/evidence"
	"trustmonitor/shared"
	"trustmonitor/sla"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func seedPublicDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		sla.DocumentName,
		filepath.Join(evidence.Dir, evidence.FileName(evidence.FeaturedIncident)),
	} {
		data, err := os.ReadFile(filepath.Join("..", "public", name))
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func newTestServer(t *testing.T, publicDir string, logger *zap.Logger) *Server {
	t.Helper()
	config := &Config{Port: 0, PublicDir: publicDir, Version: "test"}
	srv, err := New(config, shared.WrapLogger(logger, "trustmonitor"))
	require.NoError(t, err)
	return srv
}

func TestServer_SecurityHeadersOnEveryRoute(t *testing.T) {
	srv := newTestServer(t, seedPublicDir(t), zaptest.NewLogger(t))

	for _, path := range []string{"/", "/sla", "/download-sla", "/health", "/status", "/privacy", "/does-not-exist"} {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		for key, value := range securityHeaders {
			assert.Equal(t, value, rr.Header().Get(key), "%s: header %s", path, key)
		}
	}
}

func TestServer_DownloadSLA(t *testing.T) {
	dir := seedPublicDir(t)
	srv := newTestServer(t, dir, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	want, err := os.ReadFile(filepath.Join(dir, sla.DocumentName))
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/download-sla")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, strconv.Itoa(len(want)), resp.Header.Get("Content-Length"))
	assert.Equal(t, sla.Digest(want), resp.Header.Get(sla.DigestHeader))
	assert.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", resp.Header.Get("Content-Security-Policy"))

	head, err := http.Head(ts.URL + "/download-sla")
	require.NoError(t, err)
	head.Body.Close()
	assert.Equal(t, http.StatusOK, head.StatusCode)
	assert.Equal(t, resp.Header.Get(sla.DigestHeader), head.Header.Get(sla.DigestHeader))

	require.NoError(t, os.Remove(filepath.Join(dir, sla.DocumentName)))
	missing, err := http.Get(ts.URL + "/download-sla")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "application/json", missing.Header.Get("Content-Type"))
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t, seedPublicDir(t), zap.NewNop())

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	generated := rr.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err, "generated request id should be a uuid")

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, incoming)
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	assert.Equal(t, incoming, rr.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "<script>")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	assert.NotEqual(t, "<script>", rr.Header().Get(requestIDHeader))
}

func TestServer_HealthAndStatus(t *testing.T) {
	srv := newTestServer(t, seedPublicDir(t), zap.NewNop())

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "TrustMonitor Healthy", rr.Body.String())

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var status statusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "trustmonitor", status.Service)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "test", status.Version)
}

func TestServer_AccessLogAndPanicRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := shared.WrapLogger(zap.New(core), "trustmonitor")

	handler := withRequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, `{"error":"Internal server error"}`, rr.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("Panic while serving request").Len())

	served := logs.FilterMessage("Request served").All()
	require.Len(t, served, 1)
	fields := served[0].ContextMap()
	assert.Equal(t, "/explode", fields["path"])
	assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
}

func TestServer_LintsEvidenceAtStartup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		newTestServer(t, seedPublicDir(t), zap.New(core))
		assert.Equal(t, 1, logs.FilterMessage("Featured evidence bundle passed lint").Len())
	})

	t.Run("invalid bundle still serves", func(t *testing.T) {
		dir := seedPublicDir(t)
		path := filepath.Join(dir, evidence.Dir, evidence.FileName(evidence.FeaturedIncident))
		require.NoError(t, os.WriteFile(path, []byte(`{"incident":{"incident_id":"inc_1"}}`), 0o644))

		core, logs := observer.New(zapcore.InfoLevel)
		srv := newTestServer(t, dir, zap.New(core))
		assert.Equal(t, 1, logs.FilterMessage("Featured evidence bundle failed lint").Len())

		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, evidence.URLPath(evidence.FeaturedIncident), nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing bundle", func(t *testing.T) {
		dir := seedPublicDir(t)
		require.NoError(t, os.RemoveAll(filepath.Join(dir, evidence.Dir)))

		core, logs := observer.New(zapcore.InfoLevel)
		newTestServer(t, dir, zap.New(core))
		assert.Equal(t, 1, logs.FilterMessage("Featured evidence bundle not readable").Len())
	})
}

func TestServer_RunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	config := &Config{Port: port, PublicDir: seedPublicDir(t), Version: "test"}
	srv, err := New(config, shared.WrapLogger(zaptest.NewLogger(t), "trustmonitor"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TM_PUBLIC_DIR", "/srv/public")
	t.Setenv("TM_DOMAIN", "trustmonitor.dev")
	t.Setenv("DEVELOPMENT", "1")
	t.Setenv("HTTPS_PORT", "not-a-number")

	config := ConfigFromEnv()
	assert.Equal(t, 9090, config.Port)
	assert.Equal(t, "/srv/public", config.PublicDir)
	assert.True(t, config.TLSEnabled())
	assert.True(t, config.Development)
	assert.Equal(t, 443, config.HTTPSPort)
	assert.Equal(t, "certs", config.CertCacheDir)
}

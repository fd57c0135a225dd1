package httpserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/chat"
	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/corpus"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/metrics"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/handlers"
)

func startTestServer(t *testing.T, registry *prom.Registry) *Server {
	t.Helper()

	store, err := chat.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	c := corpus.New(appcfg.CorpusConfig{
		Directories: []string{t.TempDir()},
		ChunkSize:   400,
		TopK:        4,
	}, nil)
	require.NoError(t, c.Reindex(context.Background()))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := handlers.New(store, c, nil, nil, nil, logger, "test")

	srv := New(appcfg.ServerConfig{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  "5s",
		WriteTimeout: "5s",
	}, h, registry, logger)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return srv
}

func TestServer_ServesHealthAndAPI(t *testing.T) {
	srv := startTestServer(t, nil)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	statusResp, err := http.Get(fmt.Sprintf("http://%s/api/status", srv.Addr()))
	require.NoError(t, err)
	defer statusResp.Body.Close()
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
}

func TestServer_ExposesMetricsWhenRegistryGiven(t *testing.T) {
	registry := prom.NewRegistry()
	_ = metrics.NewPrometheusRecorder(registry)
	srv := startTestServer(t, registry)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", srv.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_StopIsGraceful(t *testing.T) {
	srv := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	_, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr()))
	require.Error(t, err)
}
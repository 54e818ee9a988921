package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/authkit/core/server"
)

func waitListening(t *testing.T, srv *server.Server) string {
	t.Helper()
	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		return addr != "127.0.0.1:0"
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestServer_RunServesAndShutsDown(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "edge")
	})

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, handler))

	addr := waitListening(t, srv)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "edge", string(body))

	cancel()
	assert.NoError(t, g.Wait())

	_, err = http.Get("http://" + addr + "/")
	assert.Error(t, err, "listener closed after shutdown")
}

func TestServer_StartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx, http.NotFoundHandler()) }()
	waitListening(t, srv)

	assert.ErrorIs(t, srv.Start(ctx, http.NotFoundHandler()), server.ErrServerAlreadyRunning)
	assert.NoError(t, srv.Stop())
	assert.NoError(t, srv.Stop(), "stopping a stopped server is a no-op")
}

func TestServer_ListenError(t *testing.T) {
	t.Parallel()

	err := server.New("256.0.0.1:99999").Start(context.Background(), http.NotFoundHandler())
	assert.ErrorIs(t, err, server.ErrListen)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr())
	})

	t.Run("missing address", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.Addr = ""
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("half tls config", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "cert.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrEmptyCertPath)
	})

	t.Run("unreadable certificate", func(t *testing.T) {
		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "testdata/missing.pem"
		cfg.TLSKeyFile = "testdata/missing-key.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})
}

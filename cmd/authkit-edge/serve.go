package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/authkit/core/authkit"
	"github.com/dmitrymomot/authkit/core/config"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/response"
	"github.com/dmitrymomot/authkit/core/server"
	"github.com/dmitrymomot/authkit/core/session"
	"github.com/dmitrymomot/authkit/core/workos"
)

// edgeConfig collects every environment-driven setting of the edge.
type edgeConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	// SignOutReturnTo is where users land after signing out without a session.
	SignOutReturnTo string `env:"EDGE_SIGN_OUT_RETURN_TO" envDefault:"/"`

	AuthKit authkit.Config
	WorkOS  workos.Config
	Server  server.Config
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the edge HTTP server",
		Long: `Run the edge HTTP server. Configuration is read from the
environment (and a .env file in the working directory).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg edgeConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides EDGE_ADDR)")

	return cmd
}

func newLogger(cfg edgeConfig) *slog.Logger {
	opts := make([]logger.Option, 0, 2)
	switch cfg.Env {
	case "production":
		opts = append(opts, logger.WithProduction("authkit-edge"))
	case "staging":
		opts = append(opts, logger.WithStaging("authkit-edge"))
	default:
		opts = append(opts, logger.WithDevelopment("authkit-edge"))
	}

	// LOG_LEVEL overrides the preset level.
	var level slog.Level
	if cfg.LogLevel != "" && level.UnmarshalText([]byte(cfg.LogLevel)) == nil {
		opts = append(opts, logger.WithLevel(level))
	}

	return logger.New(opts...)
}

func serve(ctx context.Context, cfg edgeConfig) error {
	log := logger.SetAsDefault(newLogger(cfg))

	client, err := workos.New(cfg.WorkOS, workos.WithLogger(log))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	machine, err := authkit.New(cfg.AuthKit, client,
		authkit.WithLogger(log),
		authkit.WithMetrics(authkit.NewMetrics(reg)),
		authkit.WithTracerProvider(otel.GetTracerProvider()),
		authkit.WithRedirect(response.Redirect),
		authkit.WithRefreshHooks(
			func(ctx context.Context, s *session.Session) {
				log.InfoContext(ctx, "session refreshed", logger.UserID(s.User.ID))
			},
			func(ctx context.Context, err error) {
				log.WarnContext(ctx, "session refresh failed", logger.Error(err))
			},
		),
	)
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	router := newRouter(log, reg, machine, client.JWKSURL(), cfg.SignOutReturnTo)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, router))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/config"
	"github.com/mmynk/tipsplit/internal/metrics"
	"github.com/mmynk/tipsplit/internal/middleware"
	"github.com/mmynk/tipsplit/internal/realtime"
	"github.com/mmynk/tipsplit/internal/service"
	"github.com/mmynk/tipsplit/internal/storage/memory"
	"github.com/mmynk/tipsplit/internal/web"
	"github.com/mmynk/tipsplit/pkg/api/apiconnect"
	"github.com/mmynk/tipsplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr    string
		lenient bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web calculator and the Connect API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if lenient {
				cfg.Mode = calculator.Lenient
			}
			logging.Setup(os.Stderr, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ADDR)")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Mount web sessions in lenient mode (overrides TIPSPLIT_MODE)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	store := memory.New()
	defer store.Close()

	hub := realtime.NewHub(func(string) {
		metrics.WSDroppedFramesTotal.Inc()
	})
	sessions := service.NewSessions(store, hub)

	sweeper := service.NewSweeper(store, hub, cfg.SessionIdleTimeout, cfg.SessionSweepInterval)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr: cfg.Addr,
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(newHandler(cfg, sessions), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting",
			"address", cfg.Addr,
			"mode", cfg.Mode,
			"session_idle_timeout", cfg.SessionIdleTimeout,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
		return err
	}

	if n, err := store.Count(shutdownCtx); err == nil {
		slog.Info("Discarding sessions", "count", n)
	}
	return nil
}

// newHandler builds the routes: the Connect service, the web calculator and
// the metrics endpoint, behind request logging and CORS.
func newHandler(cfg *config.Config, sessions *service.Sessions) http.Handler {
	router := mux.NewRouter()

	path, handler := apiconnect.NewCalculatorServiceHandler(
		service.NewCalculatorService(sessions),
		connect.WithInterceptors(middleware.SessionFromHeader(), middleware.LoggingInterceptor()),
	)
	router.PathPrefix(path).Handler(handler)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	web.New(sessions, cfg.Mode).Register(router)

	router.Use(middleware.RequestLogging)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			middleware.SessionHeader,
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	}).Handler(router)
}

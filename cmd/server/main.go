package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hls-relay/internal/platform/config"
	"hls-relay/internal/platform/logger"
	"hls-relay/internal/platform/metrics"
	"hls-relay/internal/relay"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.LoadEnv()

	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	origin, err := relay.NewOrigin(cfg.OriginURL)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	svc := relay.NewService(origin, relay.NewHTTPFetcher(cfg.FetchTimeout))
	met := metrics.New()
	h := relay.NewHandler(svc, log, met, relay.Options{
		PublicURL:             cfg.PublicURL,
		TrustForwardedHeaders: cfg.TrustForwardedHeaders,
	})

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Method(http.MethodGet, "/metrics", met.Handler())
	h.Routes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"origin", origin.URL,
		"fetch_timeout", cfg.FetchTimeout.String(),
		"log_level", cfg.LogLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/seoaudit/internal/audit"
	"github.com/hamed0406/seoaudit/internal/config"
	"github.com/hamed0406/seoaudit/internal/httpapi"
	"github.com/hamed0406/seoaudit/internal/logging"
	"github.com/hamed0406/seoaudit/internal/metrics"
	"github.com/hamed0406/seoaudit/internal/probe"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogDir, cfg.LogStdout)
	if err != nil {
		return err
	}
	defer func() {
		// stderr/stdout sinks return EINVAL on Sync
		if serr := logger.Sync(); serr != nil && !errors.Is(serr, syscall.EINVAL) {
			err = multierr.Append(err, serr)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	auditor := audit.New(
		probe.NewFetcher(cfg.FetchTimeout, cfg.UserAgent),
		net.DefaultResolver,
		audit.WithLogger(logger),
		audit.WithObserver(metrics.New(reg)),
	)
	api := httpapi.NewServer(logger, auditor, reg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.AllowedOrigins, cfg.RateLimitRPM, cfg.RateLimitBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("api_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return multierr.Combine(srv.Shutdown(shutdownCtx), <-errCh)
}

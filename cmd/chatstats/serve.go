package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-chat-stats/internal/config"
	httpapi "github.com/tbourn/go-chat-stats/internal/http"
	"github.com/tbourn/go-chat-stats/internal/ingest"
	"github.com/tbourn/go-chat-stats/internal/observability"
	"github.com/tbourn/go-chat-stats/internal/services"
)

const shutdownTimeout = 15 * time.Second

func serve(ctx context.Context, cfg config.Config, args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", cfg.Port, "listen port")
	noIngest := fs.Bool("no-ingest", false, "serve only, skip background ingestion")
	_ = fs.Parse(args)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var wg sync.WaitGroup
	ingestCtx, stopIngest := context.WithCancel(ctx)
	defer func() {
		stopIngest()
		wg.Wait()
	}()
	if cfg.Ingest.StreamsFile != "" && !*noIngest {
		streams, err := config.LoadStreams(cfg.Ingest.StreamsFile)
		if err != nil {
			return err
		}
		runner := &ingest.Runner{
			Store:     store,
			Streams:   streams,
			BatchSize: cfg.Ingest.BatchSize,
			Logger:    logger.With().Str("component", "ingest").Logger(),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Loop(ingestCtx, cfg.Ingest.Interval)
		}()
		logger.Info().Int("streams", len(streams)).Dur("interval", cfg.Ingest.Interval).Msg("background ingestion started")
	}

	stats := services.NewStatsService(store)
	stats.MinDay = cfg.Query.MinDay
	stats.MaxRangeDays = cfg.Query.MaxRangeDays

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, stats, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", *port),
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

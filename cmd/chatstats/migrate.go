package main

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-chat-stats/internal/config"
	"github.com/tbourn/go-chat-stats/internal/repo"
)

func migrate(_ context.Context, cfg config.Config, logger zerolog.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info().Str("driver", cfg.DBDriver).Msg("schema up to date")
	return nil
}

func checkpoints(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.View(ctx, func(db *gorm.DB) error {
		cps, err := repo.ListCheckpoints(ctx, db)
		if err != nil {
			return err
		}
		if len(cps) == 0 {
			logger.Info().Msg("no checkpoints")
		}
		for _, cp := range cps {
			logger.Info().
				Str("stream", cp.Stream).
				Int64("offset", cp.Offset).
				Time("updated_at", cp.UpdatedAt).
				Msg("checkpoint")
		}
		total, err := repo.TotalMessages(ctx, db)
		if err != nil {
			return err
		}
		logger.Info().Int64("messages_total", total).Msg("counters")
		return nil
	})
}

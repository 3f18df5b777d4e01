package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-chat-stats/internal/config"
	"github.com/tbourn/go-chat-stats/internal/repo"
)

func replies(ctx context.Context, cfg config.Config, args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("replies", flag.ExitOnError)
	chat := fs.String("chat", "", "chat alias or public id")
	limit := fs.Int("limit", 10, "number of pairs to print (0 prints all)")
	_ = fs.Parse(args)

	if *chat == "" {
		return errors.New("replies: -chat is required")
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	pairs, err := topReplies(ctx, store, *chat, *limit)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		logger.Info().Str("chat", *chat).Msg("no replies")
	}
	for _, p := range pairs {
		logger.Info().
			Str("replier", p.Replier).
			Str("author", p.Author).
			Int64("count", p.Count).
			Msg("reply pair")
	}
	return nil
}

func topReplies(ctx context.Context, store *repo.Store, ref string, limit int) ([]repo.ReplyPair, error) {
	var out []repo.ReplyPair
	err := store.View(ctx, func(db *gorm.DB) error {
		chat, err := repo.FindChatByRef(ctx, db, ref)
		if err != nil {
			return fmt.Errorf("chat %q: %w", ref, err)
		}
		out, err = repo.ReplyCounts(ctx, db, chat.ID, limit)
		return err
	})
	return out, err
}

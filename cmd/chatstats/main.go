// Command chatstats ingests chat event logs into counters and serves
// windowed statistics over HTTP.
//
// Usage:
//
//	chatstats serve                         # HTTP API (+ background ingestion when STREAMS_FILE is set)
//	chatstats ingest [-streams f] [-stream n]  # replay streams once and exit
//	chatstats migrate                       # create or upgrade the schema
//	chatstats checkpoints                   # print committed stream offsets
//	chatstats replies -chat ref [-limit n]  # print the top reply pairs of a chat
//
// Settings come from the environment (a .env file is loaded when present).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-chat-stats/internal/config"
	"github.com/tbourn/go-chat-stats/internal/repo"
	"github.com/tbourn/go-chat-stats/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		runErr = serve(ctx, cfg, args, logger)
	case "ingest":
		runErr = ingestOnce(ctx, cfg, args, logger)
	case "migrate":
		runErr = migrate(ctx, cfg, logger)
	case "checkpoints":
		runErr = checkpoints(ctx, cfg, logger)
	case "replies":
		runErr = replies(ctx, cfg, args, logger)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error().Err(runErr).Str("command", os.Args[1]).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: chatstats <command> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve         Run the stats API (and periodic ingestion if STREAMS_FILE is set)")
	fmt.Fprintln(os.Stderr, "  ingest        Replay configured streams once and exit")
	fmt.Fprintln(os.Stderr, "  migrate       Create or upgrade the database schema")
	fmt.Fprintln(os.Stderr, "  checkpoints   Print the committed offset of every stream")
	fmt.Fprintln(os.Stderr, "  replies       Print who replies to whom most in a chat")
}

// openStore connects to the configured database and migrates it.
func openStore(cfg config.Config, logger zerolog.Logger) (*repo.Store, error) {
	db, err := repo.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Debug().Str("driver", cfg.DBDriver).Msg("store ready")
	return repo.NewStore(db), nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-chat-stats/internal/config"
	"github.com/tbourn/go-chat-stats/internal/ingest"
	"github.com/tbourn/go-chat-stats/internal/sysutil"
)

func ingestOnce(ctx context.Context, cfg config.Config, args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	streamsFile := fs.String("streams", "", "streams file (defaults to STREAMS_FILE)")
	only := fs.String("stream", "", "replay only the named stream")
	batch := fs.Int("batch", cfg.Ingest.BatchSize, "lines per committed transaction")
	_ = fs.Parse(args)

	path := sysutil.FirstNonEmpty(*streamsFile, cfg.Ingest.StreamsFile)
	if path == "" {
		return errors.New("no streams file: pass -streams or set STREAMS_FILE")
	}
	streams, err := config.LoadStreams(path)
	if err != nil {
		return err
	}
	streams, err = selectStream(streams, *only)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := &ingest.Runner{
		Store:     store,
		Streams:   streams,
		BatchSize: *batch,
		Logger:    logger.With().Str("component", "ingest").Logger(),
	}
	return runner.RunOnce(ctx)
}

// selectStream narrows streams to the one called name; an empty name keeps
// them all.
func selectStream(streams []config.Stream, name string) ([]config.Stream, error) {
	if name == "" {
		return streams, nil
	}
	for _, s := range streams {
		if s.Name == name {
			return []config.Stream{s}, nil
		}
	}
	return nil, fmt.Errorf("stream %q is not configured", name)
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-chat-stats/internal/config"
	"github.com/tbourn/go-chat-stats/internal/repo"
	"github.com/tbourn/go-chat-stats/internal/services"
)

// Runner replays a set of configured streams into one store.
type Runner struct {
	Store     *repo.Store
	Streams   []config.Stream
	BatchSize int
	Logger    zerolog.Logger
}

// RunStream replays one stream from its last checkpoint to the end of its
// log file.
func (r *Runner) RunStream(ctx context.Context, s config.Stream) (Result, error) {
	norm, err := NewNormalizer(s)
	if err != nil {
		return Result{}, fmt.Errorf("stream %q: %w", s.Name, err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Result{}, fmt.Errorf("stream %q: %w", s.Name, &IOError{Op: "open", Err: err})
	}
	defer f.Close()

	start := time.Now()
	rp := &Replayer{
		Stream:     s.Name,
		Normalizer: norm,
		Sink:       services.NewCounterStore(r.Store, s.Name),
		BatchSize:  r.BatchSize,
		Logger:     r.Logger,
	}
	res, err := rp.Replay(ctx, f)
	runDuration.WithLabelValues(s.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		return res, fmt.Errorf("stream %q: %w", s.Name, err)
	}
	return res, nil
}

// RunOnce replays every stream in order. A failing stream does not stop the
// others; all failures are returned joined.
func (r *Runner) RunOnce(ctx context.Context) error {
	var errs []error
	for _, s := range r.Streams {
		if _, err := r.RunStream(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Loop calls RunOnce immediately and then every interval until ctx is
// cancelled. With a non-positive interval it runs once and returns.
func (r *Runner) Loop(ctx context.Context, interval time.Duration) {
	if err := r.RunOnce(ctx); err != nil {
		r.Logger.Error().Err(err).Msg("ingestion run failed")
	}
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.RunOnce(ctx); err != nil {
				r.Logger.Error().Err(err).Msg("ingestion run failed")
			}
		}
	}
}

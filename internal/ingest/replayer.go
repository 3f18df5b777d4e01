package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// DefaultBatchSize is the number of lines per committed transaction.
const DefaultBatchSize = 1000

// ErrCheckpointMismatch is returned when the offset read back after a commit
// differs from the offset that was just committed.
var ErrCheckpointMismatch = errors.New("checkpoint mismatch after commit")

// IOError reports a failure reading the log. The run is aborted.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// Sink is the transactional store a Replayer writes to.
//
// Begin opens a write session and returns the last committed offset (ok is
// false on a fresh stream). Commit records offset and ends the session. Abort
// discards everything since the last Commit and must be a no-op when no
// session is open.
type Sink interface {
	Begin(ctx context.Context) (offset int64, ok bool, err error)
	Commit(ctx context.Context, offset int64) error
	Abort(ctx context.Context) error
	Apply(ctx context.Context, ev domain.Event) error
}

// Result summarizes one replay run.
type Result struct {
	StartOffset int64
	EndOffset   int64
	Lines       int
	Events      int
	ParseErrors int
	Commits     int
}

// Replayer feeds a line-oriented log to a Sink, committing the byte offset of
// the last consumed line every BatchSize lines and at end of input.
//
// Replaying the same log twice is idempotent: the second run seeks past
// everything already committed. A trailing line without a newline is left
// for the next run.
type Replayer struct {
	Stream     string
	Normalizer Normalizer
	Sink       Sink
	BatchSize  int
	Logger     zerolog.Logger
}

// Replay runs the protocol over src. On any failure after a successful Begin
// the sink is aborted and the error returned; the committed checkpoint then
// still points at a fully applied prefix of src.
func (r *Replayer) Replay(ctx context.Context, src io.ReadSeeker) (res Result, err error) {
	batch := r.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	log := r.Logger.With().Str("stream", r.Stream).Logger()

	offset, ok, err := r.Sink.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin: %w", err)
	}
	// From here on a session is open; every failure path aborts it.
	defer func() {
		if err == nil {
			return
		}
		abortsTotal.WithLabelValues(r.Stream).Inc()
		if aerr := r.Sink.Abort(ctx); aerr != nil {
			log.Error().Err(aerr).Msg("abort failed")
		}
		log.Error().Err(err).Int64("offset", res.EndOffset).Msg("replay aborted")
	}()

	if !ok {
		offset = 0
	}
	if offset > 0 {
		log.Debug().Int64("offset", offset).Msg("resuming")
		if _, err := src.Seek(offset, io.SeekStart); err != nil {
			return res, &IOError{Op: "seek", Err: err}
		}
	}
	res.StartOffset, res.EndOffset = offset, offset

	br := bufio.NewReader(src)
	sinceCommit := 0
	for {
		line, rerr := br.ReadBytes('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return res, &IOError{Op: "read", Err: rerr}
		}
		if errors.Is(rerr, io.EOF) {
			if len(line) > 0 {
				log.Debug().Int("bytes", len(line)).Msg("holding back unterminated line")
			}
			break
		}

		res.EndOffset += int64(len(line))
		res.Lines++
		sinceCommit++
		linesTotal.WithLabelValues(r.Stream).Inc()

		events, perr := r.Normalizer.Normalize(trimEOL(line))
		if perr != nil {
			res.ParseErrors++
			parseErrorsTotal.WithLabelValues(r.Stream).Inc()
			log.Warn().Err(perr).Str("line", truncate(line, 200)).Msg("skipping undecodable line")
		}
		for _, ev := range events {
			if err := r.Sink.Apply(ctx, ev); err != nil {
				return res, fmt.Errorf("apply at offset %d: %w", res.EndOffset, err)
			}
			res.Events++
			eventsTotal.WithLabelValues(r.Stream, domain.EventKind(ev)).Inc()
		}

		if sinceCommit < batch {
			continue
		}
		if err := r.commit(ctx, &res); err != nil {
			return res, err
		}
		sinceCommit = 0
		log.Info().Int("lines", res.Lines).Int64("offset", res.EndOffset).Msg("batch committed")

		got, ok, err := r.Sink.Begin(ctx)
		if err != nil {
			// Nothing is open; the deferred Abort is a no-op.
			return res, fmt.Errorf("begin: %w", err)
		}
		if !ok || got != res.EndOffset {
			return res, fmt.Errorf("%w: committed %d, read back %d", ErrCheckpointMismatch, res.EndOffset, got)
		}
	}

	if err := r.commit(ctx, &res); err != nil {
		return res, err
	}
	log.Info().
		Int("lines", res.Lines).
		Int("events", res.Events).
		Int("parse_errors", res.ParseErrors).
		Int64("offset", res.EndOffset).
		Msg("replay done")
	return res, nil
}

func (r *Replayer) commit(ctx context.Context, res *Result) error {
	if err := r.Sink.Commit(ctx, res.EndOffset); err != nil {
		return fmt.Errorf("commit at offset %d: %w", res.EndOffset, err)
	}
	res.Commits++
	commitsTotal.WithLabelValues(r.Stream).Inc()
	checkpointOffset.WithLabelValues(r.Stream).Set(float64(res.EndOffset))
	return nil
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

func truncate(line []byte, n int) string {
	line = trimEOL(line)
	if len(line) <= n {
		return string(line)
	}
	return string(line[:n]) + "..."
}

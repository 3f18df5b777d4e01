// Package services – CounterStore
//
// This file implements CounterStore, the write side of the statistics store.
// A CounterStore owns at most one open write session on the shared repo.Store
// and applies normalized events to it. The checkpoint of its stream is saved
// in the same transaction as the counter mutations, so a crash either keeps
// both or neither.
//
// Observability: session boundaries are OpenTelemetry-instrumented.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-chat-stats/internal/domain"
	"github.com/tbourn/go-chat-stats/internal/observability"
	"github.com/tbourn/go-chat-stats/internal/repo"
)

// CounterStore applies ingestion events for one named stream.
// It is not safe for concurrent use; run one replay per CounterStore.
type CounterStore struct {
	Store  *repo.Store
	Stream string

	wtx *repo.WriteTx
}

// NewCounterStore returns a CounterStore for stream.
func NewCounterStore(store *repo.Store, stream string) *CounterStore {
	return &CounterStore{Store: store, Stream: stream}
}

// Begin opens a write session and returns the last committed offset of the
// stream; ok is false when the stream was never committed.
func (s *CounterStore) Begin(ctx context.Context) (offset int64, ok bool, err error) {
	ctx, span := s.span(ctx, "Begin")
	defer span.End()

	if s.wtx != nil {
		return 0, false, ErrTransactionOpen
	}
	wtx, err := s.Store.BeginWrite(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("begin write: %w", err)
	}
	offset, ok, err = repo.GetCheckpoint(ctx, wtx.DB(), s.Stream)
	if err != nil {
		_ = wtx.Rollback()
		return 0, false, fmt.Errorf("read checkpoint: %w", err)
	}
	s.wtx = wtx
	span.SetAttributes(attribute.Int64("ingest.offset", offset))
	return offset, ok, nil
}

// Commit saves offset as the stream checkpoint and commits the session.
// On failure the session is rolled back and the previous checkpoint stays.
func (s *CounterStore) Commit(ctx context.Context, offset int64) error {
	ctx, span := s.span(ctx, "Commit", attribute.Int64("ingest.offset", offset))
	defer span.End()

	if s.wtx == nil {
		return ErrNoTransaction
	}
	wtx := s.wtx
	s.wtx = nil
	if err := repo.SaveCheckpoint(ctx, wtx.DB(), s.Stream, offset); err != nil {
		_ = wtx.Rollback()
		span.RecordError(err)
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := wtx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Abort rolls back the open session, if any.
func (s *CounterStore) Abort(ctx context.Context) error {
	_, span := s.span(ctx, "Abort")
	defer span.End()

	if s.wtx == nil {
		return nil
	}
	wtx := s.wtx
	s.wtx = nil
	return wtx.Rollback()
}

// Apply records one normalized event.
func (s *CounterStore) Apply(ctx context.Context, ev domain.Event) error {
	switch e := ev.(type) {
	case domain.MessageEvent:
		return s.RecordMessage(ctx, e.Chat, e.User, e.Timestamp)
	case domain.ReplyEvent:
		return s.RecordReply(ctx, e.Chat, e.Replier, e.Author)
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
}

// RecordMessage upserts the chat and user and increments the counter of the
// UTC day and absolute hour containing ts. A negative ts is rejected with
// domain.ErrNegativeTimestamp before anything is written.
func (s *CounterStore) RecordMessage(ctx context.Context, chat domain.ChatInfo, user domain.UserInfo, ts int64) error {
	if s.wtx == nil {
		return ErrNoTransaction
	}
	if ts < 0 {
		return fmt.Errorf("message at %d: %w", ts, domain.ErrNegativeTimestamp)
	}
	db := s.wtx.DB()
	c, err := repo.UpsertChat(ctx, db, chat.ExtID, cleanName(chat.Name), cleanName(chat.Alias))
	if err != nil {
		return fmt.Errorf("upsert chat %d: %w", chat.ExtID, err)
	}
	u, err := s.upsertUser(ctx, user)
	if err != nil {
		return err
	}
	if err := repo.IncrementMessage(ctx, db, c.ID, u.ID, domain.DayOf(ts), domain.HourOf(ts)); err != nil {
		return fmt.Errorf("increment message: %w", err)
	}
	return nil
}

// RecordReply upserts the chat and both users and increments the
// (replier, author) reply counter.
func (s *CounterStore) RecordReply(ctx context.Context, chat domain.ChatInfo, replier, author domain.UserInfo) error {
	if s.wtx == nil {
		return ErrNoTransaction
	}
	db := s.wtx.DB()
	c, err := repo.UpsertChat(ctx, db, chat.ExtID, cleanName(chat.Name), cleanName(chat.Alias))
	if err != nil {
		return fmt.Errorf("upsert chat %d: %w", chat.ExtID, err)
	}
	r, err := s.upsertUser(ctx, replier)
	if err != nil {
		return err
	}
	a, err := s.upsertUser(ctx, author)
	if err != nil {
		return err
	}
	if err := repo.IncrementReply(ctx, db, c.ID, r.ID, a.ID); err != nil {
		return fmt.Errorf("increment reply: %w", err)
	}
	return nil
}

func (s *CounterStore) upsertUser(ctx context.Context, u domain.UserInfo) (*domain.User, error) {
	name := cleanName(u.Name)
	if u.Handle != "" {
		if name == "" {
			name = u.Handle
		}
		out, err := repo.UpsertHandleUser(ctx, s.wtx.DB(), u.Handle, name)
		if err != nil {
			return nil, fmt.Errorf("upsert user %q: %w", u.Handle, err)
		}
		return out, nil
	}
	out, err := repo.UpsertUser(ctx, s.wtx.DB(), u.ExtID, name)
	if err != nil {
		return nil, fmt.Errorf("upsert user %d: %w", u.ExtID, err)
	}
	return out, nil
}

func (s *CounterStore) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("ingest.stream", s.Stream))
	return observability.Start(ctx, "services/CounterStore", name, attrs...)
}

// cleanName NFC-normalizes a display name and collapses runs of whitespace.
func cleanName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(norm.NFC.String(s)), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// Package services – StatsService
//
// This file implements StatsService, the read side of the statistics store.
// It validates a StatsQuery, resolves the chat and optional user, runs the
// bucketed aggregations under one read session and assembles a gap-filled
// StatsResult.
//
// Observability: Query is OpenTelemetry-instrumented; spans include the chat
// reference and the filter parameters.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/tbourn/go-chat-stats/internal/domain"
	"github.com/tbourn/go-chat-stats/internal/observability"
	"github.com/tbourn/go-chat-stats/internal/repo"
)

// Offset and weekday bounds accepted by Validate.
const (
	MinOffset  = -12
	MaxOffset  = 12
	MinWeekday = 0
	MaxWeekday = 6

	// DefaultMaxRangeDays caps to-from when MaxRangeDays is unset.
	DefaultMaxRangeDays = 1000
)

// StatsService answers windowed analytics queries.
type StatsService struct {
	Store *repo.Store

	// MinDay is the earliest epoch day a range may start at.
	MinDay int64
	// MaxRangeDays caps to-from; zero means DefaultMaxRangeDays.
	MaxRangeDays int64
}

// NewStatsService constructs a StatsService with default bounds.
func NewStatsService(store *repo.Store) *StatsService {
	return &StatsService{Store: store, MaxRangeDays: DefaultMaxRangeDays}
}

// Validate checks q without touching the store. Errors are *ValidationError.
func (s *StatsService) Validate(q domain.StatsQuery) error {
	if q.Offset < MinOffset || q.Offset > MaxOffset {
		return invalid("offset", ErrInvalidOffset)
	}
	if q.Weekday != nil && (*q.Weekday < MinWeekday || *q.Weekday > MaxWeekday) {
		return invalid("weekday", ErrInvalidWeekday)
	}
	switch {
	case q.From == nil && q.To == nil:
		return nil
	case q.From == nil:
		return invalid("from", ErrInvalidDates)
	case q.To == nil:
		return invalid("to", ErrInvalidDates)
	}
	from, to := *q.From, *q.To
	maxRange := s.MaxRangeDays
	if maxRange <= 0 {
		maxRange = DefaultMaxRangeDays
	}
	switch {
	case from < s.MinDay:
		return invalid("from", ErrInvalidDates)
	case to < s.MinDay:
		return invalid("to", ErrInvalidDates)
	case from > to:
		return invalid("from", ErrInvalidDates)
	case to-from > maxRange:
		return invalid("to", ErrInvalidDates)
	}
	return nil
}

// Query validates q and computes its result. All reads happen in one
// session, so the result reflects a single committed state.
func (s *StatsService) Query(ctx context.Context, q domain.StatsQuery) (*domain.StatsResult, error) {
	attrs := []attribute.KeyValue{
		attribute.String("stats.chat", q.Chat),
		attribute.Int("stats.offset", q.Offset),
	}
	if q.HasRange() {
		attrs = append(attrs, attribute.Int64("stats.from", *q.From), attribute.Int64("stats.to", *q.To))
	}
	if q.Weekday != nil {
		attrs = append(attrs, attribute.Int("stats.weekday", *q.Weekday))
	}
	ctx, span := observability.Start(ctx, "services/StatsService", "Query", attrs...)
	defer span.End()

	if err := s.Validate(q); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var res *domain.StatsResult
	err := s.Store.View(ctx, func(db *gorm.DB) error {
		var err error
		res, err = s.query(ctx, db, q)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return res, nil
}

func (s *StatsService) query(ctx context.Context, db *gorm.DB, q domain.StatsQuery) (*domain.StatsResult, error) {
	chat, err := repo.FindChatByRef(ctx, db, q.Chat)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	f := repo.StatsFilter{
		ChatID:  chat.ID,
		Offset:  q.Offset,
		FromDay: q.From,
		ToDay:   q.To,
		Weekday: q.Weekday,
	}
	if q.User != "" {
		u, err := repo.FindUserByRef(ctx, db, q.User)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		f.UserID = &u.ID
	}

	res := &domain.StatsResult{
		ChatID:        chat.PublicID,
		ChatName:      chat.Name,
		SkipDay:       1,
		DailyUsers:    []int64{},
		DailyMessages: []int64{},
		Leaderboard:   []domain.LeaderboardEntry{},
	}

	if res.FirstHour, res.LastHour, err = repo.HourRange(ctx, db, chat.ID); err != nil {
		return nil, err
	}

	days, err := repo.DailyBuckets(ctx, db, f)
	if err != nil {
		return nil, err
	}
	fillDaily(res, days, q)

	hours, err := repo.HourBuckets(ctx, db, f)
	if err != nil {
		return nil, err
	}
	for _, b := range hours {
		if b.Bucket >= 0 && b.Bucket < int64(len(res.MessagesByHour)) {
			res.MessagesByHour[b.Bucket] = b.Messages
		}
	}

	weekdays, err := repo.WeekdayBuckets(ctx, db, f)
	if err != nil {
		return nil, err
	}
	for _, b := range weekdays {
		if b.Bucket >= 0 && b.Bucket < int64(len(res.MessagesByWeekday)) {
			res.MessagesByWeekday[b.Bucket] = b.Messages
		}
	}

	leaders, err := repo.Leaderboard(ctx, db, f)
	if err != nil {
		return nil, err
	}
	for _, l := range leaders {
		res.Leaderboard = append(res.Leaderboard, domain.LeaderboardEntry{
			UserID:   l.PublicID,
			Name:     l.Name,
			Messages: l.Messages,
		})
	}
	return res, nil
}

// fillDaily lays the sparse daily buckets onto a dense series. With a range
// the series covers [from, to]; otherwise it covers the first..last day with
// data. A weekday filter keeps only matching days (stride 7).
func fillDaily(res *domain.StatsResult, days []repo.DayBucket, q domain.StatsQuery) {
	var start, end int64
	switch {
	case q.HasRange():
		start, end = *q.From, *q.To
	case len(days) > 0:
		start, end = days[0].Day, days[len(days)-1].Day
	default:
		return
	}
	if q.Weekday != nil {
		start = domain.NextWeekday(start, *q.Weekday)
		res.SkipDay = 7
	}
	res.StartDay = start
	if start > end {
		return
	}

	n := (end-start)/res.SkipDay + 1
	res.DailyUsers = make([]int64, n)
	res.DailyMessages = make([]int64, n)
	for _, d := range days {
		if d.Day < start || d.Day > end || (d.Day-start)%res.SkipDay != 0 {
			continue
		}
		i := (d.Day - start) / res.SkipDay
		res.DailyUsers[i] = d.Users
		res.DailyMessages[i] = d.Messages
	}
}

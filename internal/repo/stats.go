// Package repo implements the data persistence layer for chat statistics.
// This file provides the read-side aggregations over message counters. Each
// function takes a StatsFilter and returns plain rows; gap filling and
// envelope assembly happen in the service layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// DayBucket is one row of the daily series.
type DayBucket struct {
	Day      int64 `gorm:"column:bucket"`
	Users    int64
	Messages int64
}

// Bucket is a (key, message count) pair for hour-of-day and weekday
// histograms.
type Bucket struct {
	Bucket   int64
	Messages int64
}

// LeaderRow is one leaderboard row before public projection.
type LeaderRow struct {
	UserID   int64
	PublicID string
	Name     string
	Messages int64
}

func counters(ctx context.Context, db *gorm.DB, f StatsFilter) *gorm.DB {
	return db.WithContext(ctx).
		Model(&domain.MessageCounter{}).
		Scopes(f.Predicates().Scope())
}

// DailyBuckets returns distinct users and summed messages per shifted day,
// ascending. Days without data are absent.
func DailyBuckets(ctx context.Context, db *gorm.DB, f StatsFilter) ([]DayBucket, error) {
	var rows []DayBucket
	err := counters(ctx, db, f).
		Select(shiftedDaySQL+" AS bucket, "+
			"COUNT(DISTINCT message_counters.user_id) AS users, "+
			"CAST(SUM(message_counters.count) AS BIGINT) AS messages", f.Offset).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

// HourBuckets returns summed messages per shifted hour of day (0..23).
func HourBuckets(ctx context.Context, db *gorm.DB, f StatsFilter) ([]Bucket, error) {
	var rows []Bucket
	err := counters(ctx, db, f).
		Select(shiftedHourSQL+" AS bucket, "+
			"CAST(SUM(message_counters.count) AS BIGINT) AS messages", f.Offset).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

// WeekdayBuckets returns summed messages per weekday of the shifted day
// (0 = Monday).
func WeekdayBuckets(ctx context.Context, db *gorm.DB, f StatsFilter) ([]Bucket, error) {
	var rows []Bucket
	err := counters(ctx, db, f).
		Select(shiftedWeekdaySQL+" AS bucket, "+
			"CAST(SUM(message_counters.count) AS BIGINT) AS messages", f.Offset).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

// Leaderboard ranks users by message count, descending, ties broken by the
// internal user id.
func Leaderboard(ctx context.Context, db *gorm.DB, f StatsFilter) ([]LeaderRow, error) {
	var rows []LeaderRow
	err := counters(ctx, db, f).
		Joins("JOIN users ON users.id = message_counters.user_id").
		Select("users.id AS user_id, users.public_id AS public_id, users.name AS name, " +
			"CAST(SUM(message_counters.count) AS BIGINT) AS messages").
		Group("users.id, users.public_id, users.name").
		Order("messages DESC, users.id ASC").
		Scan(&rows).Error
	return rows, err
}

// HourRange returns the first and last absolute hour stored for a chat,
// ignoring every other filter. Both are nil when the chat has no counters.
func HourRange(ctx context.Context, db *gorm.DB, chatID int64) (first, last *int64, err error) {
	var row struct {
		FirstHour *int64
		LastHour  *int64
	}
	err = db.WithContext(ctx).
		Model(&domain.MessageCounter{}).
		Select("MIN(hour) AS first_hour, MAX(hour) AS last_hour").
		Where("chat_id = ?", chatID).
		Scan(&row).Error
	if err != nil {
		return nil, nil, err
	}
	return row.FirstHour, row.LastHour, nil
}

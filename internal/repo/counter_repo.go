package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// IncrementMessage adds one to the (chat, user, day, hour) message counter,
// inserting it with count 1 when absent.
func IncrementMessage(ctx context.Context, db *gorm.DB, chatID, userID, day, hour int64) error {
	row := domain.MessageCounter{ChatID: chatID, UserID: userID, Day: day, Hour: hour, Count: 1}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chat_id"}, {Name: "user_id"}, {Name: "day"}, {Name: "hour"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("message_counters.count + 1"),
		}),
	}).Create(&row).Error
}

// IncrementReply adds one to the (chat, replier, author) reply counter.
func IncrementReply(ctx context.Context, db *gorm.DB, chatID, replierID, authorID int64) error {
	row := domain.ReplyCounter{ChatID: chatID, ReplierID: replierID, AuthorID: authorID, Count: 1}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chat_id"}, {Name: "replier_id"}, {Name: "author_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("reply_counters.count + 1"),
		}),
	}).Create(&row).Error
}

// ReplyPair is one reply counter with both user names resolved.
type ReplyPair struct {
	ReplierID int64
	AuthorID  int64
	Replier   string
	Author    string
	Count     int64
}

// ReplyCounts returns the reply counters of a chat, ordered by count
// descending. A limit <= 0 returns every pair.
func ReplyCounts(ctx context.Context, db *gorm.DB, chatID int64, limit int) ([]ReplyPair, error) {
	var out []ReplyPair
	q := db.WithContext(ctx).
		Table("reply_counters AS rc").
		Select("rc.replier_id, rc.author_id, COALESCE(r.name, '') AS replier, COALESCE(a.name, '') AS author, rc.count").
		Joins("LEFT JOIN users r ON r.id = rc.replier_id").
		Joins("LEFT JOIN users a ON a.id = rc.author_id").
		Where("rc.chat_id = ?", chatID).
		Order("rc.count DESC, rc.replier_id, rc.author_id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&out).Error
	return out, err
}

// TotalMessages sums every message counter across all chats.
func TotalMessages(ctx context.Context, db *gorm.DB) (int64, error) {
	var total struct{ Total int64 }
	err := db.WithContext(ctx).
		Model(&domain.MessageCounter{}).
		Select("CAST(COALESCE(SUM(count), 0) AS BIGINT) AS total").
		Scan(&total).Error
	return total.Total, err
}

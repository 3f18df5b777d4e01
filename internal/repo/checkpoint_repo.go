package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// GetCheckpoint returns the committed offset of stream; ok is false when the
// stream has never been committed.
func GetCheckpoint(ctx context.Context, db *gorm.DB, stream string) (offset int64, ok bool, err error) {
	var cp domain.Checkpoint
	res := db.WithContext(ctx).Where("stream = ?", stream).Limit(1).Find(&cp)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return cp.Offset, true, nil
}

// SaveCheckpoint records offset for stream, replacing any previous value.
// It must run in the same transaction as the counter mutations it covers.
func SaveCheckpoint(ctx context.Context, db *gorm.DB, stream string, offset int64) error {
	cp := domain.Checkpoint{Stream: stream, Offset: offset, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stream"}},
		DoUpdates: clause.AssignmentColumns([]string{"byte_offset", "updated_at"}),
	}).Create(&cp).Error
}

// ListCheckpoints returns every stream checkpoint ordered by name.
func ListCheckpoints(ctx context.Context, db *gorm.DB) ([]domain.Checkpoint, error) {
	var out []domain.Checkpoint
	err := db.WithContext(ctx).Order("stream").Find(&out).Error
	return out, err
}

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-chat-stats/internal/domain"
	"github.com/tbourn/go-chat-stats/internal/repo"
)

func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	s := repo.NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var (
	testChat = domain.ChatInfo{ExtID: -1001, Name: "Gophers", Alias: "@gophers"}
	alice    = domain.UserInfo{ExtID: 1, Name: "Alice"}
	bob      = domain.UserInfo{ExtID: 2, Name: "Bob"}
	carol    = domain.UserInfo{ExtID: 3, Name: "Carol"}
)

// at returns the unix timestamp of the given epoch day and hour of day.
func at(day, hour int64) int64 { return day*86400 + hour*3600 }

// record commits n messages from user at ts in one session.
func record(t *testing.T, s *repo.Store, user domain.UserInfo, ts int64, n int) {
	t.Helper()
	ctx := context.Background()
	cs := NewCounterStore(s, "seed")
	if _, _, err := cs.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}
	for i := 0; i < n; i++ {
		if err := cs.RecordMessage(ctx, testChat, user, ts); err != nil {
			_ = cs.Abort(ctx)
			t.Fatalf("record: %v", err)
		}
	}
	if err := cs.Commit(ctx, 0); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func i64(v int64) *int64 { return &v }
func iptr(v int) *int   { return &v }

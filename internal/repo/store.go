package repo

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

// ErrTxDone is returned when a write session is used after Commit or Rollback.
var ErrTxDone = errors.New("repo: write transaction already finished")

// Store is the single storage handle shared by the ingestion and query paths.
//
// The underlying engine is not assumed safe for concurrent writers and
// readers, so every access is serialized by one mutex: View holds it for the
// duration of a read, and a WriteTx holds it from BeginWrite until Commit or
// Rollback. Callers must not touch the *gorm.DB handed to them after the
// call (or session) ends.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewStore wraps db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// View runs fn with exclusive access to the database. fn must not retain db.
func (s *Store) View(ctx context.Context, fn func(db *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.db.WithContext(ctx))
}

// BeginWrite opens a transaction and keeps the store locked until the
// returned session is committed or rolled back.
func (s *Store) BeginWrite(ctx context.Context) (*WriteTx, error) {
	s.mu.Lock()
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.mu.Unlock()
		return nil, tx.Error
	}
	return &WriteTx{tx: tx, release: s.mu.Unlock}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WriteTx is an open write transaction holding the store lock.
type WriteTx struct {
	tx      *gorm.DB
	release func()
	done    bool
}

// DB returns the transaction-bound handle.
func (w *WriteTx) DB() *gorm.DB { return w.tx }

// Commit commits the transaction and releases the store lock. The lock is
// released even when the commit fails.
func (w *WriteTx) Commit() error {
	if w.done {
		return ErrTxDone
	}
	w.done = true
	defer w.release()
	return w.tx.Commit().Error
}

// Rollback discards the transaction and releases the store lock.
func (w *WriteTx) Rollback() error {
	if w.done {
		return ErrTxDone
	}
	w.done = true
	defer w.release()
	return w.tx.Rollback().Error
}

// Package domain defines the persistence models for chats, users, counters
// and ingestion checkpoints. These types are mapped with GORM and form the
// core data layer of the chat statistics service.
package domain

import "time"

// AggregatorChatExtID is the reserved external id of the synthetic chat that
// collects events from providers without native chat grouping. Positive
// Telegram chat ids belong to private chats, which are never counted, so the
// value cannot collide with a real group.
const AggregatorChatExtID int64 = 1

// Chat is a counted conversation.
//
// Fields:
//   - ID: internal numeric primary key (never exposed).
//   - ExtID: provider-side numeric id; unique.
//   - Name: display title, last write wins.
//   - Alias: optional human handle (e.g. "@golang_ru"); lookups accept it.
//   - PublicID: immutable random handle exposed to clients.
type Chat struct {
	ID        int64     `json:"-"     gorm:"primaryKey;autoIncrement"`
	ExtID     int64     `json:"-"     gorm:"not null;uniqueIndex:ux_chats_ext"`
	Name      string    `json:"name"  gorm:"type:varchar(255);not null"`
	Alias     *string   `json:"alias,omitempty" gorm:"type:varchar(255);index:idx_chats_alias"`
	PublicID  string    `json:"id"    gorm:"type:char(8);not null;uniqueIndex:ux_chats_public"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// User is a message author. Users from providers with opaque string ids carry
// a Handle and a negative synthetic ExtID.
type User struct {
	ID        int64     `json:"-"    gorm:"primaryKey;autoIncrement"`
	ExtID     int64     `json:"-"    gorm:"not null;uniqueIndex:ux_users_ext"`
	Handle    *string   `json:"-"    gorm:"type:varchar(255);uniqueIndex:ux_users_handle"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	PublicID  string    `json:"id"   gorm:"type:char(8);not null;uniqueIndex:ux_users_public"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// MessageCounter counts messages per (chat, user, day, hour). Day is the UTC
// epoch day and Hour the absolute hour since the epoch; timezone offsets are
// applied only when querying. Count only grows.
type MessageCounter struct {
	ChatID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID int64 `gorm:"primaryKey;autoIncrement:false;index:idx_message_counters_user"`
	Day    int64 `gorm:"primaryKey;autoIncrement:false"`
	Hour   int64 `gorm:"primaryKey;autoIncrement:false"`
	Count  int64 `gorm:"not null"`
}

// TableName returns the database table name for MessageCounter.
func (MessageCounter) TableName() string { return "message_counters" }

// ReplyCounter counts replies from one user to another inside a chat.
type ReplyCounter struct {
	ChatID    int64 `gorm:"primaryKey;autoIncrement:false"`
	ReplierID int64 `gorm:"primaryKey;autoIncrement:false"`
	AuthorID  int64 `gorm:"primaryKey;autoIncrement:false"`
	Count     int64 `gorm:"not null"`
}

// TableName returns the database table name for ReplyCounter.
func (ReplyCounter) TableName() string { return "reply_counters" }

// Checkpoint is the committed byte offset of a named ingestion stream.
type Checkpoint struct {
	Stream    string `gorm:"type:varchar(128);primaryKey"`
	Offset    int64  `gorm:"column:byte_offset;not null"`
	UpdatedAt time.Time
}

// TableName returns the database table name for Checkpoint.
func (Checkpoint) TableName() string { return "checkpoints" }

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&Chat{},
		&User{},
		&MessageCounter{},
		&ReplyCounter{},
		&Checkpoint{},
	}
}

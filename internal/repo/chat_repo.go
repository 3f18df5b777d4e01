// Package repo implements the data persistence layer for chat statistics.
// This file provides repository functions for the Chat and User models.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can
// run inside a write transaction or a read session of Store. They follow the
// "thin repository" approach: lookups, last-write-wins upserts and nothing
// else.
//
// Error semantics:
//   - Lookups by public reference return ErrNotFound when nothing matches.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// UpsertChat returns the chat with the given external id, creating it with a
// fresh public id on first sight. On later sightings name and alias are
// overwritten when they changed. An empty alias is stored as NULL.
func UpsertChat(ctx context.Context, db *gorm.DB, extID int64, name, alias string) (*domain.Chat, error) {
	var c domain.Chat
	res := db.WithContext(ctx).Where("ext_id = ?", extID).Limit(1).Find(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		c = domain.Chat{
			ExtID:    extID,
			Name:     name,
			Alias:    optional(alias),
			PublicID: NewPublicID(),
		}
		if err := db.WithContext(ctx).Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}

	if c.Name == name && sameOptional(c.Alias, alias) {
		return &c, nil
	}
	c.Name = name
	c.Alias = optional(alias)
	err := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "alias": c.Alias}).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindChatByRef resolves a chat by alias or public id.
func FindChatByRef(ctx context.Context, db *gorm.DB, ref string) (*domain.Chat, error) {
	var c domain.Chat
	res := db.WithContext(ctx).
		Where("alias = ? OR public_id = ?", ref, ref).
		Order("id").
		Limit(1).
		Find(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &c, nil
}

// UpsertUser returns the user with the given external id, creating it on
// first sight and refreshing its display name afterwards.
func UpsertUser(ctx context.Context, db *gorm.DB, extID int64, name string) (*domain.User, error) {
	var u domain.User
	res := db.WithContext(ctx).Where("ext_id = ?", extID).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		u = domain.User{ExtID: extID, Name: name, PublicID: NewPublicID()}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, err
		}
		return &u, nil
	}
	return renameUser(ctx, db, &u, name)
}

// UpsertHandleUser is UpsertUser for providers that identify users by an
// opaque string. New users get the next free negative external id so they
// never collide with the positive ids of numeric providers.
func UpsertHandleUser(ctx context.Context, db *gorm.DB, handle, name string) (*domain.User, error) {
	if handle == "" {
		return nil, errors.New("repo: empty user handle")
	}
	var u domain.User
	res := db.WithContext(ctx).Where("handle = ?", handle).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return renameUser(ctx, db, &u, name)
	}

	var lowest struct{ Min int64 }
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Select("COALESCE(MIN(ext_id), 0) AS min").
		Where("ext_id < 0").
		Scan(&lowest).Error
	if err != nil {
		return nil, err
	}
	u = domain.User{
		ExtID:    lowest.Min - 1,
		Handle:   &handle,
		Name:     name,
		PublicID: NewPublicID(),
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByRef resolves a user by public id.
func FindUserByRef(ctx context.Context, db *gorm.DB, ref string) (*domain.User, error) {
	var u domain.User
	res := db.WithContext(ctx).Where("public_id = ?", ref).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

func renameUser(ctx context.Context, db *gorm.DB, u *domain.User, name string) (*domain.User, error) {
	if u.Name == name {
		return u, nil
	}
	u.Name = name
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", u.ID).
		Update("name", name).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameOptional(p *string, s string) bool {
	if p == nil {
		return s == ""
	}
	return *p == s
}

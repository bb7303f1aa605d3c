// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/campus-pulse/models"
)

// Users mirrors identities from the external auth system. The core trusts
// the opaque user id on every request; this store only keeps the display
// data other records join against.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// Upsert creates or refreshes a user row. Called at the auth boundary when a
// token is first seen for a user, never from request handlers.
func (s *Users) Upsert(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, display_name, avatar_url, cohort)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			cohort = EXCLUDED.cohort
	`, u.ID, u.DisplayName, nullable(u.AvatarURL), nullable(u.Cohort))
	return err
}

// Get returns a user by id, or ErrNotFound.
func (s *Users) Get(ctx context.Context, id string) (models.User, error) {
	var u models.User
	var avatar, cohort sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, avatar_url, cohort FROM app_user WHERE id = $1
	`, id).Scan(&u.ID, &u.DisplayName, &avatar, &cohort)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	u.AvatarURL = avatar.String
	u.Cohort = cohort.String
	return u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/campus-pulse/models"
)

// ActiveWindow is how long a check-in counts as live. Older records are
// excluded from every read path (they are garbage, not history).
const ActiveWindow = 24 * time.Hour

// Presence owns check-in records and the one-live-record-per-user invariant.
type Presence struct {
	db *sql.DB
}

func NewPresence(db *sql.DB) *Presence {
	return &Presence{db: db}
}

// Report replaces the caller's check-in: any prior record is deleted and a
// fresh one inserted with created_at = now, in one transaction. Concurrent
// reports by the same user race; the last commit wins and the earlier write
// is silently lost (accepted last-write-wins semantics, no version check).
// Coordinates may be unlocated - the record is still created so status stays
// trackable without a map pin.
func (s *Presence) Report(ctx context.Context, userID, placeName string, coords models.Coordinates, statusTag string) (models.CheckIn, error) {
	if placeName == "" {
		return models.CheckIn{}, fmt.Errorf("%w: placeName is required", ErrValidation)
	}

	// Resolve the user first. Sqlite does not enforce the foreign key, so a
	// bad id caught after commit would leave an orphaned row behind.
	user, err := NewUsers(s.db).Get(ctx, userID)
	if err != nil {
		return models.CheckIn{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.CheckIn{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM checkin WHERE user_id = $1`, userID)
	if err != nil {
		return models.CheckIn{}, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	var lat, lon sql.NullFloat64
	if coords.Located {
		lat = sql.NullFloat64{Float64: coords.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: coords.Lon, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO checkin (id, user_id, place_name, lat, lon, status_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, userID, placeName, lat, lon, nullable(statusTag), now)
	if err != nil {
		return models.CheckIn{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.CheckIn{}, err
	}

	return models.CheckIn{
		ID:          id,
		User:        user,
		PlaceName:   placeName,
		Coordinates: coords,
		StatusTag:   statusTag,
		CreatedAt:   now,
	}, nil
}

// UpdateStatus mutates the status tag in place. It never touches created_at
// or coordinates, so a status change does not look like a fresh arrival.
// Returns false when the record is gone or not owned by userID - the caller
// treats that as a soft miss, not an error.
func (s *Presence) UpdateStatus(ctx context.Context, checkInID, userID, statusTag string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE checkin SET status_tag = $1 WHERE id = $2 AND user_id = $3
	`, nullable(statusTag), checkInID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the caller's check-in. ErrNotFound when the record is gone,
// ErrForbidden when it belongs to someone else.
func (s *Presence) Delete(ctx context.Context, checkInID, userID string) error {
	var ownerID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM checkin WHERE id = $1
	`, checkInID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM checkin WHERE id = $1`, checkInID)
	return err
}

// ListActive returns check-ins from the last 24h, newest first. Ghost-tagged
// records are filtered out except the requester's own; pass cohort to scope
// the list, or "" for everyone. An empty requestingUserID (the broadcaster's
// shared snapshot) hides all ghost records.
func (s *Presence) ListActive(ctx context.Context, requestingUserID, cohort string) ([]models.CheckIn, error) {
	cutoff := time.Now().UTC().Add(-ActiveWindow)

	query := `
		SELECT c.id, c.place_name, c.lat, c.lon, c.status_tag, c.created_at,
		       u.id, u.display_name, u.avatar_url, u.cohort
		FROM checkin c
		JOIN app_user u ON c.user_id = u.id
		WHERE c.created_at >= $1
		  AND (c.status_tag IS NULL OR c.status_tag <> $2 OR c.user_id = $3)
	`
	args := []interface{}{cutoff, models.StatusTagGhost, requestingUserID}
	if cohort != "" {
		query += ` AND u.cohort = $4`
		args = append(args, cohort)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkIns := []models.CheckIn{}
	for rows.Next() {
		ci, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, ci)
	}
	return checkIns, rows.Err()
}

// ActiveForUser returns the user's own live check-in, or nil when none
// exists (expired records count as none).
func (s *Presence) ActiveForUser(ctx context.Context, userID string) (*models.CheckIn, error) {
	cutoff := time.Now().UTC().Add(-ActiveWindow)

	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.place_name, c.lat, c.lon, c.status_tag, c.created_at,
		       u.id, u.display_name, u.avatar_url, u.cohort
		FROM checkin c
		JOIN app_user u ON c.user_id = u.id
		WHERE c.user_id = $1 AND c.created_at >= $2
	`, userID, cutoff)

	ci, err := scanCheckIn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var ci models.CheckIn
	var lat, lon sql.NullFloat64
	var statusTag, avatar, cohort sql.NullString

	err := row.Scan(
		&ci.ID, &ci.PlaceName, &lat, &lon, &statusTag, &ci.CreatedAt,
		&ci.User.ID, &ci.User.DisplayName, &avatar, &cohort,
	)
	if err != nil {
		return models.CheckIn{}, err
	}

	if lat.Valid && lon.Valid {
		ci.Coordinates = models.At(lat.Float64, lon.Float64)
	}
	ci.StatusTag = statusTag.String
	ci.User.AvatarURL = avatar.String
	ci.User.Cohort = cohort.String
	return ci, nil
}

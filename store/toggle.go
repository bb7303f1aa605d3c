// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Membership-set helpers shared by event attendance, poll votes, and feedback
// upvotes. Table and column names are compile-time constants at every call
// site, never user input.

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// memberExists reports whether (ownerID, memberID) is present in table.
func memberExists(ctx context.Context, q execer, table, ownerCol, ownerID, memberID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND user_id = $2)
	`, table, ownerCol)
	err := q.QueryRowContext(ctx, query, ownerID, memberID).Scan(&exists)
	return exists, err
}

// toggleMembership adds (ownerID, memberID) to table if absent, removes it if
// present. Reports whether the row is present after the call.
func toggleMembership(ctx context.Context, q execer, table, ownerCol, ownerID, memberID string) (bool, error) {
	present, err := memberExists(ctx, q, table, ownerCol, ownerID, memberID)
	if err != nil {
		return false, err
	}

	if present {
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, table, ownerCol)
		_, err := q.ExecContext(ctx, query, ownerID, memberID)
		return false, err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2)`, table, ownerCol)
	_, err = q.ExecContext(ctx, query, ownerID, memberID)
	return true, err
}

// exclusiveChoice records memberID's single choice within ownerID's bucket
// set, silently retracting any prior choice. The upsert on the
// (owner, member) primary key is what makes retract-then-add atomic.
func exclusiveChoice(ctx context.Context, q execer, table, ownerCol, choiceCol, ownerID, memberID, choiceID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, user_id) DO UPDATE SET %s = EXCLUDED.%s
	`, table, ownerCol, choiceCol, ownerCol, choiceCol, choiceCol)
	_, err := q.ExecContext(ctx, query, ownerID, memberID, choiceID)
	return err
}

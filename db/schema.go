// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the subset shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users (mirrored from the external auth system; never mutated by the core
-- except through store.Users.Upsert)
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    avatar_url TEXT,
    cohort TEXT
);

-- Check-ins: at most one live record per user, enforced by UNIQUE(user_id)
-- as a backstop for the transactional delete-then-insert in store.Presence.
CREATE TABLE IF NOT EXISTS checkin (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES app_user(id) ON DELETE CASCADE,
    place_name TEXT NOT NULL,
    lat REAL,
    lon REAL,
    status_tag TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkin_created_at ON checkin(created_at);

-- Events (event_date NULL means the date is decided by an open poll)
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    category TEXT,
    creator_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    event_date TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS event_attendee (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    joined_at TIMESTAMP NOT NULL,
    PRIMARY KEY (event_id, user_id)
);

-- Polls (one per undetermined event)
CREATE TABLE IF NOT EXISTS poll (
    event_id TEXT PRIMARY KEY REFERENCES event(id) ON DELETE CASCADE,
    kind TEXT NOT NULL CHECK (kind IN ('date', 'location')),
    closes_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES poll(event_id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    option_date TIMESTAMP,
    lat REAL,
    lon REAL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_option_event ON poll_option(event_id);

-- Votes: PRIMARY KEY (event_id, user_id) makes one-choice-per-poll structural;
-- moving a vote is an upsert on that key.
CREATE TABLE IF NOT EXISTS poll_vote (
    event_id TEXT NOT NULL REFERENCES poll(event_id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES poll_option(id) ON DELETE CASCADE,
    PRIMARY KEY (event_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_poll_vote_option ON poll_vote(option_id);

-- Feedback
CREATE TABLE IF NOT EXISTS feedback (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    category TEXT NOT NULL CHECK (category IN ('bug', 'feature', 'improvement', 'other')),
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in-progress', 'completed', 'rejected')),
    creator_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback_upvote (
    feedback_id TEXT NOT NULL REFERENCES feedback(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    PRIMARY KEY (feedback_id, user_id)
);

CREATE TABLE IF NOT EXISTS feedback_comment (
    id TEXT PRIMARY KEY,
    feedback_id TEXT NOT NULL REFERENCES feedback(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_comment_feedback ON feedback_comment(feedback_id);
`

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - app_user: Identity mirror from the external auth system
  - checkin: Live presence records, one per user
  - event: Events with a fixed date or a pending poll
  - event_attendee: Attendance sets
  - poll / poll_option / poll_vote: Scheduling polls and votes
  - feedback / feedback_upvote / feedback_comment: The feedback board

# Portability

The DDL sticks to the subset shared by PostgreSQL and SQLite: TEXT keys,
TIMESTAMP columns written from Go in UTC, and no database-side defaults
for timestamps. Key invariants live in the schema itself: UNIQUE(user_id)
on checkin backs the single-live-record rule, and the (event_id, user_id)
primary key on poll_vote makes one-vote-per-poll structural.
*/
package db

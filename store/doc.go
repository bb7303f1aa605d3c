// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store implements the persistence layer on database/sql.
//
// Each store type (Presence, Events, Feedbacks, Users) owns one slice of the
// schema and the invariants that go with it: Presence enforces the single
// live check-in per user, Events enforces vote exclusivity through the
// (event_id, user_id) primary key on poll_vote, Feedbacks keeps upvote sets
// idempotent through toggleMembership.
//
// Queries use $1-style placeholders, which both lib/pq and modernc.org/sqlite
// accept, so the same store code runs against Postgres in production and
// in-memory sqlite in tests. Timestamps are written from Go in UTC rather
// than relying on database defaults for the same reason.
//
// Stores return sentinel errors (ErrNotFound, ErrValidation, ErrForbidden
// and friends) that handlers map to HTTP status codes with errors.Is.
package store

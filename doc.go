// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Campus Pulse is the presence and event coordination backend for a campus
// community app: who is where right now, what is being planned, and a
// feedback board for the app itself.
//
// The server keeps at most one live check-in per user (records expire from
// view after 24 hours), stores events with either a fixed date or an
// attached scheduling poll, and pushes full-state snapshots over websocket
// after every mutation. Clients that cannot hold a socket fall back to
// polling and end up with identical state, because both paths serve the
// same full snapshots.
//
// Configuration comes from flags or the environment (see cliparse). The
// same store code runs against Postgres or sqlite.
//
// Usage:
//
//	campus-pulse -p 3001 -t sqlite -d pulse.db -jwt-secret <secret>
package main

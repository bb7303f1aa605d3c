// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client is the Go client for the API: a typed HTTP Client, a
// Syncer that keeps local snapshots current, and an Adapter that turns
// device geolocation into an automatic check-in.
//
// The Syncer runs two redundant update paths. A websocket connection
// receives full-snapshot push frames, and per-domain polling loops fetch
// the same snapshots on a cadence (fast for the domain on screen, slow for
// the rest). Because both paths deliver complete state, they need no
// coordination: whichever delivers last wins, and losing the socket only
// costs latency. Staleness is observable through LastSync and Stale rather
// than through per-request errors.
package client

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ws implements the push side of the sync protocol over
// gorilla/websocket.
//
// The protocol is deliberately dumb: every frame carries a full snapshot of
// one domain ("checkIns" or "events"), and a freshly connected client gets
// an "initial" frame with both. There are no deltas to reconcile and no
// ordering to track; a client that misses a frame is fully corrected by the
// next one, and the polling fallback produces byte-identical state.
//
// The Hub keeps the client registry behind a mutex. Each client gets a
// buffered send channel and two pump goroutines; a client whose buffer is
// full at broadcast time is dropped rather than allowed to stall the fanout.
package ws

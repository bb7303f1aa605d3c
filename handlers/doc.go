// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP handlers for the API.
//
// Handlers are thin: decode the body, call one store method, map sentinel
// errors to status codes, and write the response envelope. After a mutation
// that changes shared state (check-ins, events) the handler rebuilds the
// full snapshot and hands it to the websocket hub; feedback changes ride
// on the polling path only.
package handlers

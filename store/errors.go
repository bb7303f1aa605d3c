// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers entities that are missing, expired, or were removed
	// concurrently. Expected steady-state, not exceptional.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input rejected before any mutation. Wrap it with
	// the reason: fmt.Errorf("%w: title is required", ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks an operation the caller does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyAttending signals an attend on an event the user already
	// joined. Surfaced distinctly because the UI differentiates.
	ErrAlreadyAttending = errors.New("already attending")

	// ErrCreatorCannotLeave signals an unattend by the event's creator.
	ErrCreatorCannotLeave = errors.New("creator cannot leave own event")

	// ErrNoPoll signals a vote on an event without a poll.
	ErrNoPoll = errors.New("event has no poll")

	// ErrUnknownOption signals a vote for an option outside the poll.
	ErrUnknownOption = errors.New("unknown poll option")

	// ErrPollLocked signals a vote after the event date was fixed or the
	// poll's closing time passed.
	ErrPollLocked = errors.New("poll is locked")
)

// isUniqueViolation matches the constraint error text of both drivers:
// lib/pq says "duplicate key value violates unique constraint", modernc
// sqlite says "UNIQUE constraint failed". Neither exposes a portable error
// type, so text matching is the common denominator.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

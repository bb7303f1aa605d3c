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

// Events owns event records, their attendee sets, and embedded polls.
type Events struct {
	db *sql.DB
}

func NewEvents(db *sql.DB) *Events {
	return &Events{db: db}
}

// Create inserts an event and auto-adds the creator as an attendee. An event
// either carries a fixed date or a poll, never both: date == nil iff an
// unresolved poll exists. Supplying both is rejected rather than silently
// normalized.
func (s *Events) Create(ctx context.Context, creatorID string, req models.CreateEventRequest) (models.Event, error) {
	if req.Title == "" {
		return models.Event{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.Poll != nil {
		if req.Date != nil {
			return models.Event{}, fmt.Errorf("%w: event with a poll cannot carry a fixed date", ErrValidation)
		}
		if req.Poll.Kind != models.PollKindDate && req.Poll.Kind != models.PollKindLocation {
			return models.Event{}, fmt.Errorf("%w: poll kind must be date or location", ErrValidation)
		}
		if len(req.Poll.Options) < 2 {
			return models.Event{}, fmt.Errorf("%w: poll must have at least 2 options", ErrValidation)
		}
	} else if req.Date == nil {
		return models.Event{}, fmt.Errorf("%w: date is required without a poll", ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Event{}, err
	}
	defer tx.Rollback()

	eventID := uuid.NewString()
	now := time.Now().UTC()

	var date sql.NullTime
	if req.Date != nil {
		date = sql.NullTime{Time: req.Date.UTC(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event (id, title, description, category, creator_id, event_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, eventID, req.Title, req.Description, nullable(req.Category), creatorID, date, now)
	if err != nil {
		return models.Event{}, err
	}

	// Creator is an attendee from the start and can never leave.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_attendee (event_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`, eventID, creatorID, now)
	if err != nil {
		return models.Event{}, err
	}

	if req.Poll != nil {
		var closesAt sql.NullTime
		if req.Poll.ClosesAt != nil {
			closesAt = sql.NullTime{Time: req.Poll.ClosesAt.UTC(), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll (event_id, kind, closes_at) VALUES ($1, $2, $3)
		`, eventID, req.Poll.Kind, closesAt)
		if err != nil {
			return models.Event{}, err
		}

		for i, opt := range req.Poll.Options {
			if opt.Label == "" {
				return models.Event{}, fmt.Errorf("%w: option label is required", ErrValidation)
			}
			var optDate sql.NullTime
			if opt.Date != nil {
				optDate = sql.NullTime{Time: opt.Date.UTC(), Valid: true}
			}
			var lat, lon sql.NullFloat64
			if opt.Coordinates.Located {
				lat = sql.NullFloat64{Float64: opt.Coordinates.Lat, Valid: true}
				lon = sql.NullFloat64{Float64: opt.Coordinates.Lon, Valid: true}
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO poll_option (id, event_id, label, option_date, lat, lon, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, uuid.NewString(), eventID, opt.Label, optDate, lat, lon, i)
			if err != nil {
				return models.Event{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Event{}, err
	}

	return s.Get(ctx, eventID)
}

// Attend adds the user to the attendee set. ErrAlreadyAttending when the
// user is already in it - the UI shows a specific message for that case.
func (s *Events) Attend(ctx context.Context, eventID, userID string) error {
	if err := s.exists(ctx, eventID); err != nil {
		return err
	}

	present, err := memberExists(ctx, s.db, "event_attendee", "event_id", eventID, userID)
	if err != nil {
		return err
	}
	if present {
		return ErrAlreadyAttending
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO event_attendee (event_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`, eventID, userID, time.Now().UTC())
	if isUniqueViolation(err) {
		// A concurrent attend slipped in between the check and the insert.
		// Same outcome as the pre-check, so report it the same way.
		return ErrAlreadyAttending
	}
	return err
}

// Unattend removes the user from the attendee set. The creator can never
// leave their own event. Removing a non-member is a no-op.
func (s *Events) Unattend(ctx context.Context, eventID, userID string) error {
	var creatorID string
	err := s.db.QueryRowContext(ctx, `
		SELECT creator_id FROM event WHERE id = $1
	`, eventID).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if creatorID == userID {
		return ErrCreatorCannotLeave
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM event_attendee WHERE event_id = $1 AND user_id = $2
	`, eventID, userID)
	return err
}

// Vote records the user's choice in the event's poll, silently retracting
// any prior vote in the same poll. Votes are locked once the event date is
// fixed, or once the poll's closing time has passed.
func (s *Events) Vote(ctx context.Context, eventID, optionID, userID string) error {
	var date, closesAt sql.NullTime
	var kind sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT e.event_date, p.kind, p.closes_at
		FROM event e
		LEFT JOIN poll p ON p.event_id = e.id
		WHERE e.id = $1
	`, eventID).Scan(&date, &kind, &closesAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !kind.Valid {
		return ErrNoPoll
	}
	if date.Valid {
		return ErrPollLocked
	}
	if closesAt.Valid && time.Now().UTC().After(closesAt.Time) {
		return ErrPollLocked
	}

	var optionOK bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll_option WHERE id = $1 AND event_id = $2)
	`, optionID, eventID).Scan(&optionOK)
	if err != nil {
		return err
	}
	if !optionOK {
		return ErrUnknownOption
	}

	return exclusiveChoice(ctx, s.db, "poll_vote", "event_id", "option_id", eventID, userID, optionID)
}

// Remove deletes an event and cascades its attendee, poll, and vote data.
// Only the creator may delete.
func (s *Events) Remove(ctx context.Context, eventID, requestingUserID string) error {
	var creatorID string
	err := s.db.QueryRowContext(ctx, `
		SELECT creator_id FROM event WHERE id = $1
	`, eventID).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if creatorID != requestingUserID {
		return ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Explicit cascade: foreign keys are declared but sqlite only honors
	// them with a pragma, so the store does not rely on it.
	for _, q := range []string{
		`DELETE FROM poll_vote WHERE event_id = $1`,
		`DELETE FROM poll_option WHERE event_id = $1`,
		`DELETE FROM poll WHERE event_id = $1`,
		`DELETE FROM event_attendee WHERE event_id = $1`,
		`DELETE FROM event WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, eventID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get returns one assembled event, or ErrNotFound.
func (s *Events) Get(ctx context.Context, eventID string) (models.Event, error) {
	events, err := s.list(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if len(events) == 0 {
		return models.Event{}, ErrNotFound
	}
	return events[0], nil
}

// List returns all events with attendees and poll state, newest first.
func (s *Events) List(ctx context.Context) ([]models.Event, error) {
	return s.list(ctx, "")
}

func (s *Events) list(ctx context.Context, onlyEventID string) ([]models.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.category, e.event_date, e.created_at,
		       u.id, u.display_name, u.avatar_url, u.cohort
		FROM event e
		JOIN app_user u ON e.creator_id = u.id
	`
	args := []interface{}{}
	if onlyEventID != "" {
		query += ` WHERE e.id = $1`
		args = append(args, onlyEventID)
	}
	query += ` ORDER BY e.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	index := map[string]int{}
	for rows.Next() {
		var ev models.Event
		var description, category, avatar, cohort sql.NullString
		var date sql.NullTime
		err := rows.Scan(
			&ev.ID, &ev.Title, &description, &category, &date, &ev.CreatedAt,
			&ev.Creator.ID, &ev.Creator.DisplayName, &avatar, &cohort,
		)
		if err != nil {
			return nil, err
		}
		ev.Description = description.String
		ev.Category = category.String
		if date.Valid {
			d := date.Time
			ev.Date = &d
		}
		ev.Creator.AvatarURL = avatar.String
		ev.Creator.Cohort = cohort.String
		ev.Attendees = []models.User{}
		index[ev.ID] = len(events)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	if err := s.attachAttendees(ctx, events, index, onlyEventID); err != nil {
		return nil, err
	}
	if err := s.attachPolls(ctx, events, index, onlyEventID); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Events) attachAttendees(ctx context.Context, events []models.Event, index map[string]int, onlyEventID string) error {
	query := `
		SELECT a.event_id, u.id, u.display_name, u.avatar_url, u.cohort
		FROM event_attendee a
		JOIN app_user u ON a.user_id = u.id
	`
	args := []interface{}{}
	if onlyEventID != "" {
		query += ` WHERE a.event_id = $1`
		args = append(args, onlyEventID)
	}
	query += ` ORDER BY a.joined_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var u models.User
		var avatar, cohort sql.NullString
		if err := rows.Scan(&eventID, &u.ID, &u.DisplayName, &avatar, &cohort); err != nil {
			return err
		}
		u.AvatarURL = avatar.String
		u.Cohort = cohort.String
		if i, ok := index[eventID]; ok {
			events[i].Attendees = append(events[i].Attendees, u)
		}
	}
	return rows.Err()
}

func (s *Events) attachPolls(ctx context.Context, events []models.Event, index map[string]int, onlyEventID string) error {
	query := `SELECT event_id, kind, closes_at FROM poll`
	args := []interface{}{}
	if onlyEventID != "" {
		query += ` WHERE event_id = $1`
		args = append(args, onlyEventID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, kind string
		var closesAt sql.NullTime
		if err := rows.Scan(&eventID, &kind, &closesAt); err != nil {
			return err
		}
		if i, ok := index[eventID]; ok {
			poll := &models.Poll{Kind: kind, Options: []models.PollOption{}}
			if closesAt.Valid {
				c := closesAt.Time
				poll.ClosesAt = &c
			}
			events[i].Poll = poll
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Options, in creation order, with voter ids attached.
	optQuery := `
		SELECT o.id, o.event_id, o.label, o.option_date, o.lat, o.lon
		FROM poll_option o
	`
	if onlyEventID != "" {
		optQuery += ` WHERE o.event_id = $1`
	}
	optQuery += ` ORDER BY o.event_id, o.position`

	optRows, err := s.db.QueryContext(ctx, optQuery, args...)
	if err != nil {
		return err
	}
	defer optRows.Close()

	optionIndex := map[string][2]int{} // option id -> (event index, option index)
	for optRows.Next() {
		var opt models.PollOption
		var eventID string
		var optDate sql.NullTime
		var lat, lon sql.NullFloat64
		if err := optRows.Scan(&opt.ID, &eventID, &opt.Label, &optDate, &lat, &lon); err != nil {
			return err
		}
		if optDate.Valid {
			d := optDate.Time
			opt.Date = &d
		}
		if lat.Valid && lon.Valid {
			opt.Coordinates = models.At(lat.Float64, lon.Float64)
		}
		opt.VoterIDs = []string{}
		i, ok := index[eventID]
		if !ok || events[i].Poll == nil {
			continue
		}
		optionIndex[opt.ID] = [2]int{i, len(events[i].Poll.Options)}
		events[i].Poll.Options = append(events[i].Poll.Options, opt)
	}
	if err := optRows.Err(); err != nil {
		return err
	}

	voteQuery := `SELECT option_id, user_id FROM poll_vote`
	if onlyEventID != "" {
		voteQuery += ` WHERE event_id = $1`
	}
	voteQuery += ` ORDER BY user_id`

	voteRows, err := s.db.QueryContext(ctx, voteQuery, args...)
	if err != nil {
		return err
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var optionID, userID string
		if err := voteRows.Scan(&optionID, &userID); err != nil {
			return err
		}
		if pos, ok := optionIndex[optionID]; ok {
			opts := events[pos[0]].Poll.Options
			opts[pos[1]].VoterIDs = append(opts[pos[1]].VoterIDs, userID)
		}
	}
	return voteRows.Err()
}

func (s *Events) exists(ctx context.Context, eventID string) error {
	var found bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM event WHERE id = $1)
	`, eventID).Scan(&found)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/campus-pulse/models"
)

// Domain names one synced collection.
type Domain string

const (
	DomainCheckIns Domain = "checkIns"
	DomainEvents   Domain = "events"
)

const (
	// DefaultForeground is the poll cadence for the domain on screen.
	DefaultForeground = 5 * time.Second

	// DefaultBackground is the poll cadence for everything else.
	DefaultBackground = 30 * time.Second

	maxReconnectBackoff = 30 * time.Second
)

// Syncer keeps local snapshots of the shared collections in step with the
// server. The websocket push path is primary; per-domain polling runs
// underneath it as the fallback, so a dead socket degrades cadence but
// never correctness. Snapshots are replaced wholesale, never merged.
type Syncer struct {
	api   *Client
	wsURL string

	// Poll cadences. Exported so tests can shrink them; adjust before Run.
	Foreground time.Duration
	Background time.Duration

	// Optional notification hooks, called outside the lock with the fresh
	// snapshot after every replacement.
	OnCheckIns func([]models.CheckIn)
	OnEvents   func([]models.Event)

	mu       sync.Mutex
	checkIns []models.CheckIn
	events   []models.Event
	lastSync map[Domain]time.Time
	active   Domain
	visible  bool
	wake     chan struct{}
}

// NewSyncer builds a syncer around an API client. wsURL is the websocket
// endpoint without the token parameter (ws://host/ws).
func NewSyncer(api *Client, wsURL string) *Syncer {
	return &Syncer{
		api:        api,
		wsURL:      wsURL,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		lastSync:   make(map[Domain]time.Time),
		active:     DomainCheckIns,
		visible:    true,
		wake:       make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled. It fetches both domains concurrently
// up front, then keeps the poll loops and the push connection running.
func (s *Syncer) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.fetch(gctx, DomainCheckIns) })
	g.Go(func() error { return s.fetch(gctx, DomainEvents) })
	if err := g.Wait(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); s.pollLoop(ctx, DomainCheckIns) }()
	go func() { defer wg.Done(); s.pollLoop(ctx, DomainEvents) }()
	go func() { defer wg.Done(); s.pushLoop(ctx) }()
	wg.Wait()
	return ctx.Err()
}

// SetActive marks the domain currently on screen. The other domain drops to
// the background cadence. No immediate fetch; the loop re-times itself.
func (s *Syncer) SetActive(domain Domain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == domain {
		return
	}
	s.active = domain
	s.wakeLocked()
}

// SetVisible suspends all polling when false (app in a background tab) and
// resumes it when true.
func (s *Syncer) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == visible {
		return
	}
	s.visible = visible
	s.wakeLocked()
}

// wakeLocked nudges every poll loop to re-read cadence state. Callers hold mu.
func (s *Syncer) wakeLocked() {
	close(s.wake)
	s.wake = make(chan struct{})
}

// CheckIns returns a copy of the current check-in snapshot.
func (s *Syncer) CheckIns() []models.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CheckIn, len(s.checkIns))
	copy(out, s.checkIns)
	return out
}

// Events returns a copy of the current event snapshot.
func (s *Syncer) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// LastSync returns when the domain last received data, zero if never.
func (s *Syncer) LastSync(domain Domain) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync[domain]
}

// Stale reports whether any domain has gone longer than threshold without
// data. Transient fetch errors surface here as growing staleness instead of
// bubbling up per call.
func (s *Syncer) Stale(threshold time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, domain := range []Domain{DomainCheckIns, DomainEvents} {
		if now.Sub(s.lastSync[domain]) > threshold {
			return true
		}
	}
	return false
}

func (s *Syncer) pollLoop(ctx context.Context, domain Domain) {
	for {
		s.mu.Lock()
		visible := s.visible
		interval := s.Background
		if s.active == domain {
			interval = s.Foreground
		}
		wake := s.wake
		s.mu.Unlock()

		if !visible {
			// Suspended. Wait for a visibility change, not a timer.
			select {
			case <-ctx.Done():
				return
			case <-wake:
				continue
			}
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-wake:
			// Cadence state changed; re-evaluate without fetching.
			timer.Stop()
		case <-timer.C:
			if err := s.fetch(ctx, domain); err != nil && ctx.Err() == nil {
				slog.Debug("poll failed", "domain", domain, "error", err)
			}
		}
	}
}

func (s *Syncer) fetch(ctx context.Context, domain Domain) error {
	switch domain {
	case DomainCheckIns:
		checkIns, err := s.api.CheckIns(ctx, "")
		if err != nil {
			return err
		}
		s.replaceCheckIns(checkIns)
	case DomainEvents:
		events, err := s.api.Events(ctx)
		if err != nil {
			return err
		}
		s.replaceEvents(events)
	}
	return nil
}

func (s *Syncer) replaceCheckIns(checkIns []models.CheckIn) {
	s.mu.Lock()
	s.checkIns = checkIns
	s.lastSync[DomainCheckIns] = time.Now()
	hook := s.OnCheckIns
	s.mu.Unlock()
	if hook != nil {
		hook(checkIns)
	}
}

func (s *Syncer) replaceEvents(events []models.Event) {
	s.mu.Lock()
	s.events = events
	s.lastSync[DomainEvents] = time.Now()
	hook := s.OnEvents
	s.mu.Unlock()
	if hook != nil {
		hook(events)
	}
}

// pushFrame mirrors the hub's wire envelope.
type pushFrame struct {
	Type     string           `json:"type"`
	Data     json.RawMessage  `json:"data"`
	CheckIns []models.CheckIn `json:"checkIns"`
	Events   []models.Event   `json:"events"`
}

// pushLoop holds the websocket open, reconnecting with capped exponential
// backoff. Polling keeps running regardless, so push is purely latency.
func (s *Syncer) pushLoop(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		err := s.runConnection(ctx)
		if ctx.Err() != nil {
			return
		}
		slog.Debug("websocket connection ended", "error", err, "retryIn", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxReconnectBackoff {
			backoff = maxReconnectBackoff
		}
	}
}

func (s *Syncer) runConnection(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.wsURL+"?token="+url.QueryEscape(s.api.token), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock the read when ctx is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var frame pushFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return err
		}

		switch frame.Type {
		case "initial":
			s.replaceCheckIns(frame.CheckIns)
			s.replaceEvents(frame.Events)
		case "checkIns":
			var checkIns []models.CheckIn
			if err := json.Unmarshal(frame.Data, &checkIns); err != nil {
				slog.Debug("bad checkIns frame", "error", err)
				continue
			}
			s.replaceCheckIns(checkIns)
		case "events":
			var events []models.Event
			if err := json.Unmarshal(frame.Data, &events); err != nil {
				slog.Debug("bad events frame", "error", err)
				continue
			}
			s.replaceEvents(events)
		}
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/campus-pulse/models"
)

// Position is a raw device location fix.
type Position struct {
	Lat float64
	Lon float64
}

// PositionProvider yields the device's current position. Implementations
// are expected to be slow and flaky; the adapter bounds the wait.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// ReverseGeocoder turns coordinates into a human place label.
type ReverseGeocoder interface {
	PlaceName(ctx context.Context, lat, lon float64) (string, error)
}

const (
	defaultPositionTimeout = 10 * time.Second
	defaultFallbackPlace   = "Campus"
)

// Adapter turns device geolocation into at most one automatic check-in.
// Position lookup failure degrades to an unlocated check-in, geocoder
// failure degrades to the fallback label; neither blocks the report.
type Adapter struct {
	api       *Client
	positions PositionProvider
	geocoder  ReverseGeocoder

	// Timeout bounds the position lookup; Fallback is the place label used
	// when reverse geocoding fails. Both have defaults from NewAdapter.
	Timeout  time.Duration
	Fallback string

	mu       sync.Mutex
	reported bool
}

func NewAdapter(api *Client, positions PositionProvider, geocoder ReverseGeocoder) *Adapter {
	return &Adapter{
		api:       api,
		positions: positions,
		geocoder:  geocoder,
		Timeout:   defaultPositionTimeout,
		Fallback:  defaultFallbackPlace,
	}
}

// EnsureReported performs the automatic check-in exactly once per adapter
// lifetime, no matter how many callbacks invoke it. If the server already
// has a live check-in for the user, nothing is reported and the guard is
// still set, so a later manual checkout is not overridden.
func (a *Adapter) EnsureReported(ctx context.Context, statusTag string) error {
	a.mu.Lock()
	if a.reported {
		a.mu.Unlock()
		return nil
	}
	a.reported = true
	a.mu.Unlock()

	existing, err := a.api.MyCheckIn(ctx)
	if err != nil {
		// Unknown server state; release the guard so a retry can happen.
		a.mu.Lock()
		a.reported = false
		a.mu.Unlock()
		return err
	}
	if existing != nil {
		return nil
	}

	coords, placeName := a.locate(ctx)
	_, err = a.api.Report(ctx, models.ReportCheckInRequest{
		PlaceName:   placeName,
		Coordinates: coords,
		StatusTag:   statusTag,
	})
	if err != nil {
		a.mu.Lock()
		a.reported = false
		a.mu.Unlock()
	}
	return err
}

// locate resolves coordinates and a place label, degrading stepwise.
func (a *Adapter) locate(ctx context.Context) (models.Coordinates, string) {
	posCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	pos, err := a.positions.CurrentPosition(posCtx)
	if err != nil {
		slog.Debug("position unavailable, checking in unlocated", "error", err)
		return models.Coordinates{}, a.Fallback
	}

	coords := models.At(pos.Lat, pos.Lon)
	placeName, err := a.geocoder.PlaceName(ctx, pos.Lat, pos.Lon)
	if err != nil || placeName == "" {
		slog.Debug("reverse geocoding failed, using fallback label", "error", err)
		return coords, a.Fallback
	}
	return coords, placeName
}

// UpdateStatus changes the status on an existing check-in. It never creates
// one; a missing record surfaces as the server's 404.
func (a *Adapter) UpdateStatus(ctx context.Context, checkInID, statusTag string) error {
	return a.api.UpdateStatus(ctx, checkInID, statusTag)
}

// Reset clears the once-per-mount guard, for when the surface remounts.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reported = false
}

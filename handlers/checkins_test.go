// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/campus-pulse/middleware"
	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/store"
	"github.com/danielhkuo/campus-pulse/testutil"
	"github.com/danielhkuo/campus-pulse/ws"
)

func setupCheckInHandler(t *testing.T) (*CheckInHandler, *store.Presence) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "user-1", "Alice", "2027")
	testutil.CreateTestUser(t, db, "user-2", "Bob", "2028")
	presence := store.NewPresence(db)
	return NewCheckInHandler(presence, ws.NewHub()), presence
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

func TestReportCheckIn(t *testing.T) {
	handler, _ := setupCheckInHandler(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			"valid check-in",
			models.ReportCheckInRequest{PlaceName: "Library", Coordinates: models.At(33.2, -97.1)},
			http.StatusCreated,
		},
		{
			"unlocated check-in",
			models.ReportCheckInRequest{PlaceName: "Basement"},
			http.StatusCreated,
		},
		{
			"missing place name",
			models.ReportCheckInRequest{},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest(t, "POST", "/checkins", tt.body), "user-1")
			rec := httptest.NewRecorder()
			handler.Report(rec, req)
			testutil.AssertStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestReportResponseCarriesCheckIn(t *testing.T) {
	handler, _ := setupCheckInHandler(t)

	body := models.ReportCheckInRequest{PlaceName: "Library", StatusTag: "studying"}
	req := asUser(testutil.MakeRequest(t, "POST", "/checkins", body), "user-1")
	rec := httptest.NewRecorder()
	handler.Report(rec, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	resp := testutil.DecodeResponse(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var checkIn models.CheckIn
	if err := json.Unmarshal(raw, &checkIn); err != nil {
		t.Fatalf("decoding check-in: %v", err)
	}
	if checkIn.PlaceName != "Library" || checkIn.StatusTag != "studying" {
		t.Errorf("check-in = %+v", checkIn)
	}
	if checkIn.User.DisplayName != "Alice" {
		t.Errorf("user not joined into response: %+v", checkIn.User)
	}
	if checkIn.Coordinates.Located {
		t.Error("coordinates should be unlocated")
	}
}

func TestListCheckInsCohortParam(t *testing.T) {
	handler, presence := setupCheckInHandler(t)
	ctx := middleware.ContextWithUserID(httptest.NewRequest("GET", "/", nil).Context(), "")

	for _, id := range []string{"user-1", "user-2"} {
		if _, err := presence.Report(ctx, id, "Quad", models.Coordinates{}, ""); err != nil {
			t.Fatalf("seeding check-in: %v", err)
		}
	}

	req := asUser(testutil.MakeRequest(t, "GET", "/checkins?cohort=2027", nil), "user-1")
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	resp := testutil.DecodeResponse(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var checkIns []models.CheckIn
	if err := json.Unmarshal(raw, &checkIns); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(checkIns) != 1 || checkIns[0].User.ID != "user-1" {
		t.Errorf("cohort-filtered list = %+v, want only user-1", checkIns)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	handler, presence := setupCheckInHandler(t)
	checkIn, err := presence.Report(httptest.NewRequest("GET", "/", nil).Context(),
		"user-1", "Library", models.Coordinates{}, "")
	if err != nil {
		t.Fatalf("seeding check-in: %v", err)
	}

	tests := []struct {
		name       string
		checkInID  string
		userID     string
		wantStatus int
	}{
		{"owner updates", checkIn.ID, "user-1", http.StatusOK},
		{"unknown id", "no-such-id", "user-1", http.StatusNotFound},
		{"not the owner", checkIn.ID, "user-2", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest(t, "PATCH", "/checkins/"+tt.checkInID+"/status",
				models.UpdateStatusRequest{StatusTag: "busy"}), tt.userID)
			req.SetPathValue("id", tt.checkInID)
			rec := httptest.NewRecorder()
			handler.UpdateStatus(rec, req)
			testutil.AssertStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestDeleteCheckInEndpoint(t *testing.T) {
	handler, presence := setupCheckInHandler(t)
	checkIn, err := presence.Report(httptest.NewRequest("GET", "/", nil).Context(),
		"user-1", "Library", models.Coordinates{}, "")
	if err != nil {
		t.Fatalf("seeding check-in: %v", err)
	}

	foreign := asUser(testutil.MakeRequest(t, "DELETE", "/checkins/"+checkIn.ID, nil), "user-2")
	foreign.SetPathValue("id", checkIn.ID)
	rec := httptest.NewRecorder()
	handler.Delete(rec, foreign)
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	own := asUser(testutil.MakeRequest(t, "DELETE", "/checkins/"+checkIn.ID, nil), "user-1")
	own.SetPathValue("id", checkIn.ID)
	rec = httptest.NewRecorder()
	handler.Delete(rec, own)
	testutil.AssertStatus(t, rec, http.StatusOK)

	again := asUser(testutil.MakeRequest(t, "DELETE", "/checkins/"+checkIn.ID, nil), "user-1")
	again.SetPathValue("id", checkIn.ID)
	rec = httptest.NewRecorder()
	handler.Delete(rec, again)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestMeEndpoint(t *testing.T) {
	handler, presence := setupCheckInHandler(t)

	req := asUser(testutil.MakeRequest(t, "GET", "/checkins/me", nil), "user-1")
	rec := httptest.NewRecorder()
	handler.Me(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)
	if resp := testutil.DecodeResponse(t, rec); resp.Data != nil {
		t.Errorf("data = %v, want null before any check-in", resp.Data)
	}

	if _, err := presence.Report(req.Context(), "user-1", "Library", models.Coordinates{}, ""); err != nil {
		t.Fatalf("seeding check-in: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.Me(rec, asUser(testutil.MakeRequest(t, "GET", "/checkins/me", nil), "user-1"))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if resp := testutil.DecodeResponse(t, rec); resp.Data == nil {
		t.Error("data = null after checking in")
	}
}

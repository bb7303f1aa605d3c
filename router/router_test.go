// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/campus-pulse/models"
	"github.com/danielhkuo/campus-pulse/testutil"
	"github.com/danielhkuo/campus-pulse/ws"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "user-1", "Alice", "2027")
	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	server := httptest.NewServer(NewRouter(db, testutil.GetTestConfig(), hub))
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthIsOpen(t *testing.T) {
	server := startServer(t)
	resp := doRequest(t, server, "GET", "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	server := startServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/checkins"},
		{"POST", "/checkins"},
		{"GET", "/checkins/me"},
		{"GET", "/events"},
		{"POST", "/events"},
		{"GET", "/feedback"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			resp := doRequest(t, server, route.method, route.path, "", nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401 without a token", resp.StatusCode)
			}
		})
	}
}

func TestCheckInRoundTripThroughRouter(t *testing.T) {
	server := startServer(t)
	token := testutil.AuthToken(t, "user-1")

	resp := doRequest(t, server, "POST", "/checkins", token,
		models.ReportCheckInRequest{PlaceName: "Library"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /checkins = %d, want 201", resp.StatusCode)
	}

	resp = doRequest(t, server, "GET", "/checkins", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /checkins = %d, want 200", resp.StatusCode)
	}

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	raw, _ := json.Marshal(envelope.Data)
	var checkIns []models.CheckIn
	if err := json.Unmarshal(raw, &checkIns); err != nil {
		t.Fatalf("decoding check-ins: %v", err)
	}
	if len(checkIns) != 1 || checkIns[0].PlaceName != "Library" {
		t.Errorf("check-ins = %+v", checkIns)
	}
}

func TestVoteRouteCarriesBothPathValues(t *testing.T) {
	server := startServer(t)
	token := testutil.AuthToken(t, "user-1")

	resp := doRequest(t, server, "POST", "/events", token, models.CreateEventRequest{
		Title: "Study Session",
		Poll: &models.CreatePollRequest{
			Kind:    models.PollKindDate,
			Options: []models.CreatePollOption{{Label: "Fri"}, {Label: "Sat"}},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /events = %d, want 201", resp.StatusCode)
	}

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	raw, _ := json.Marshal(envelope.Data)
	var event models.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("decoding event: %v", err)
	}

	votePath := "/events/" + event.ID + "/poll/" + event.Poll.Options[0].ID + "/vote"
	resp = doRequest(t, server, "POST", votePath, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST %s = %d, want 200", votePath, resp.StatusCode)
	}
}

package models

import (
	"encoding/json"
	"testing"
)

func TestCoordinatesMarshal(t *testing.T) {
	located, err := json.Marshal(At(33.21, -97.15))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(located) != `{"lat":33.21,"lon":-97.15}` {
		t.Errorf("located = %s", located)
	}

	unlocated, err := json.Marshal(Coordinates{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(unlocated) != "null" {
		t.Errorf("unlocated = %s, want null", unlocated)
	}
}

func TestCoordinatesUnmarshal(t *testing.T) {
	var c Coordinates
	if err := json.Unmarshal([]byte(`{"lat":1.5,"lon":-2.5}`), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !c.Located || c.Lat != 1.5 || c.Lon != -2.5 {
		t.Errorf("got %+v", c)
	}

	if err := json.Unmarshal([]byte("null"), &c); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if c.Located {
		t.Error("null should clear Located")
	}
}

func TestReportRequestDecodesWithoutCoordinates(t *testing.T) {
	var req ReportCheckInRequest
	body := `{"placeName":"Library","coordinates":null,"statusTag":"studying"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Coordinates.Located {
		t.Error("null coordinates decoded as located")
	}
	if req.PlaceName != "Library" || req.StatusTag != "studying" {
		t.Errorf("got %+v", req)
	}
}

func TestCheckInSerializesCoordinatesNull(t *testing.T) {
	payload, err := json.Marshal(CheckIn{ID: "ci-1", PlaceName: "Basement"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, ok := decoded["coordinates"]; !ok || v != nil {
		t.Errorf("coordinates = %v, want explicit null", v)
	}
}

package models

import (
	"encoding/json"
	"time"
)

// Poll kind constants
const (
	PollKindDate     = "date"
	PollKindLocation = "location"
)

// Feedback category constants
const (
	FeedbackBug         = "bug"
	FeedbackFeature     = "feature"
	FeedbackImprovement = "improvement"
	FeedbackOther       = "other"
)

// Feedback status constants
const (
	FeedbackPending    = "pending"
	FeedbackInProgress = "in-progress"
	FeedbackCompleted  = "completed"
	FeedbackRejected   = "rejected"
)

// StatusTagGhost is the reserved status tag for ghost mode. A check-in
// carrying it is hidden from everyone except its owner.
const StatusTagGhost = "👻"

// Coordinates is a latitude/longitude pair that may be absent (location
// permission denied, device offline). Located distinguishes the two cases so
// callers branch explicitly instead of testing pointers.
type Coordinates struct {
	Lat     float64
	Lon     float64
	Located bool
}

// At returns a located pair.
func At(lat, lon float64) Coordinates {
	return Coordinates{Lat: lat, Lon: lon, Located: true}
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	if !c.Located {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}{c.Lat, c.Lon})
}

func (c *Coordinates) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Coordinates{}
		return nil
	}
	var pair struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	*c = Coordinates{Lat: pair.Lat, Lon: pair.Lon, Located: true}
	return nil
}

// Request types

type ReportCheckInRequest struct {
	PlaceName   string      `json:"placeName"`
	Coordinates Coordinates `json:"coordinates"`
	StatusTag   string      `json:"statusTag,omitempty"`
}

type UpdateStatusRequest struct {
	StatusTag string `json:"statusTag"`
}

type CreateEventRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category,omitempty"`
	Date        *time.Time         `json:"date,omitempty"`
	Poll        *CreatePollRequest `json:"poll,omitempty"`
}

type CreatePollRequest struct {
	Kind     string             `json:"kind"`
	ClosesAt *time.Time         `json:"closesAt,omitempty"`
	Options  []CreatePollOption `json:"options"`
}

type CreatePollOption struct {
	Label       string      `json:"label"`
	Date        *time.Time  `json:"date,omitempty"`
	Coordinates Coordinates `json:"coordinates,omitempty"`
}

type CreateFeedbackRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

// Domain types

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Cohort      string `json:"cohort,omitempty"`
}

type CheckIn struct {
	ID          string      `json:"id"`
	User        User        `json:"user"`
	PlaceName   string      `json:"placeName"`
	Coordinates Coordinates `json:"coordinates"`
	StatusTag   string      `json:"statusTag,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Creator     User       `json:"creator"`
	Date        *time.Time `json:"date"`
	Attendees   []User     `json:"attendees"`
	Poll        *Poll      `json:"poll,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Poll struct {
	Kind     string       `json:"kind"`
	ClosesAt *time.Time   `json:"closesAt,omitempty"`
	Options  []PollOption `json:"options"`
}

type PollOption struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Date        *time.Time  `json:"date,omitempty"`
	Coordinates Coordinates `json:"coordinates,omitempty"`
	VoterIDs    []string    `json:"voterIds"`
}

type Feedback struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Status      string            `json:"status"`
	Creator     User              `json:"creator"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpvoterIDs  []string          `json:"upvotes"`
	Comments    []FeedbackComment `json:"comments"`
}

type FeedbackComment struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	User       User      `json:"user"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

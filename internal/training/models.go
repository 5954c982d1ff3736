package training

import (
	"time"

	"github.com/google/uuid"
)

// SessionInput is one planned session in a plan replacement.
type SessionInput struct {
	Type        string  `json:"type"`
	DurationMin float64 `json:"duration_min"`
	DistanceKm  float64 `json:"distance_km,omitempty"`
	Intensity   string  `json:"intensity,omitempty"`
	StartTime   *string `json:"start_time,omitempty"` // HH:MM
}

// ReplacePlanRequest replaces every planned session of one date.
type ReplacePlanRequest struct {
	ProfileID uuid.UUID      `json:"profile_id"`
	Date      string         `json:"date"`
	Sessions  []SessionInput `json:"sessions"`
}

// ActivityInput is one recorded session from a watch sync or manual entry.
type ActivityInput struct {
	Date        string    `json:"date,omitempty"` // defaults to started_at (UTC)
	Type        string    `json:"type"`
	DurationMin float64   `json:"duration_min"`
	DistanceKm  float64   `json:"distance_km,omitempty"`
	AvgHR       *float64  `json:"avg_hr,omitempty"`
	MaxHR       *float64  `json:"max_hr,omitempty"`
	Source      string    `json:"source,omitempty"`
	ExternalID  *string   `json:"external_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// SyncActivitiesRequest is the body of POST /v1/training/activities.
type SyncActivitiesRequest struct {
	ProfileID  uuid.UUID       `json:"profile_id"`
	Activities []ActivityInput `json:"activities"`
}

// SyncActivitiesResponse reports how many activities were new.
type SyncActivitiesResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type PlannedSessionDTO struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	DurationMin float64   `json:"duration_min"`
	DistanceKm  float64   `json:"distance_km,omitempty"`
	Intensity   string    `json:"intensity,omitempty"`
	StartTime   *string   `json:"start_time,omitempty"`
}

type ActivityDTO struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	DurationMin float64   `json:"duration_min"`
	DistanceKm  float64   `json:"distance_km,omitempty"`
	AvgHR       *float64  `json:"avg_hr,omitempty"`
	MaxHR       *float64  `json:"max_hr,omitempty"`
	Source      string    `json:"source"`
	ExternalID  *string   `json:"external_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// DayResponse is the planned and performed training of one date.
type DayResponse struct {
	Date        string              `json:"date"`
	Planned     []PlannedSessionDTO `json:"planned"`
	Activities  []ActivityDTO       `json:"activities"`
	PlannedLoad string              `json:"planned_load"`
	ActualLoad  string              `json:"actual_load"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

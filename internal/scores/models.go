package scores

import (
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/google/uuid"
)

// DayOptions override the scoring variant for one request.
type DayOptions struct {
	Strategy       string
	PenaltyProfile string
}

func (o DayOptions) isDefault() bool {
	return o.Strategy == "" && o.PenaltyProfile == ""
}

// DayScoreResponse is the body of GET /v1/scores/day.
type DayScoreResponse struct {
	ProfileID uuid.UUID         `json:"profile_id"`
	Date      string            `json:"date"`
	Total     int               `json:"total"`
	Cached    bool              `json:"cached"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

// DailyScoreDTO is one stored day in a history listing.
type DailyScoreDTO struct {
	Date           string `json:"date"`
	Total          int    `json:"total"`
	Load           string `json:"load"`
	Strategy       string `json:"strategy"`
	PenaltyProfile string `json:"penalty_profile"`
}

// HistoryResponse is the body of GET /v1/scores.
type HistoryResponse struct {
	ProfileID uuid.UUID       `json:"profile_id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Scores    []DailyScoreDTO `json:"scores"`
	Average   *float64        `json:"average,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

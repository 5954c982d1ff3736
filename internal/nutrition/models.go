package nutrition

import (
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/google/uuid"
)

// DayTargetResponse is the body of GET /v1/targets/day.
type DayTargetResponse struct {
	ProfileID  uuid.UUID         `json:"profile_id"`
	Target     targets.DayTarget `json:"target"`
	LoadSource string            `json:"load_source"` // query | plan
	Goal       string            `json:"goal,omitempty"`
	Phase      string            `json:"phase"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

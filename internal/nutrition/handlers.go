package nutrition

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for day targets.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetDayTarget handles GET /v1/targets/day?profile_id=&date=&load=
func (h *Handler) HandleGetDayTarget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profileIDStr := q.Get("profile_id")
	if profileIDStr == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}
	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id format")
		return
	}

	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		date = time.Now().UTC().Format(targets.DateLayout)
	}

	var load *targets.TrainingLoad
	if raw := strings.TrimSpace(q.Get("load")); raw != "" {
		l, err := targets.ParseTrainingLoad(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "load must be rest, easy, moderate, long or quality")
			return
		}
		load = &l
	}

	resp, err := h.service.DayTarget(r.Context(), profileID, date, load)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		case errors.Is(err, ErrProfileIncomplete):
			writeError(w, http.StatusUnprocessableEntity, "profile_incomplete", err.Error())
		case errors.Is(err, ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Printf("ERROR nutrition: day target failed profile_id=%s date=%s err=%v", profileID, date, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to compute day target")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

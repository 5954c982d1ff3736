package scores

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

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetDay scores one day.
// GET /v1/scores/day?profile_id=<uuid>&date=YYYY-MM-DD[&strategy=][&penalty_profile=]
func (h *Handlers) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	profileID, ok := parseProfileID(w, q.Get("profile_id"))
	if !ok {
		return
	}

	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		date = time.Now().UTC().Format(targets.DateLayout)
	}

	opts := DayOptions{
		Strategy:       strings.TrimSpace(q.Get("strategy")),
		PenaltyProfile: strings.ToLower(strings.TrimSpace(q.Get("penalty_profile"))),
	}

	resp, err := h.service.ScoreDay(r.Context(), profileID, date, opts)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHistory lists stored daily totals.
// GET /v1/scores?profile_id=<uuid>&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	profileID, ok := parseProfileID(w, q.Get("profile_id"))
	if !ok {
		return
	}

	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "from and to are required")
		return
	}

	resp, err := h.service.History(r.Context(), profileID, from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
	case errors.Is(err, ErrProfileIncomplete):
		writeError(w, http.StatusUnprocessableEntity, "profile_incomplete", err.Error())
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Printf("ERROR scores: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func parseProfileID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

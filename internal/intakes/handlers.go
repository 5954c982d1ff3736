package intakes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
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

// HandleCreateFoodLog handles POST /v1/food/logs
func (h *Handlers) HandleCreateFoodLog(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProfileID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	entry, err := h.service.CreateFoodLog(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleListFoodLogs handles GET /v1/food/logs
func (h *Handlers) HandleListFoodLogs(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListFoodLogs(r.Context(), profileID, dateParam(r))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteFoodLog handles DELETE /v1/food/logs/{id}
func (h *Handlers) HandleDeleteFoodLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid food log ID")
		return
	}

	if err := h.service.DeleteFoodLog(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddWater handles POST /v1/intakes/water
func (h *Handlers) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req AddWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProfileID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	if err := h.service.AddWater(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleGetIntakesDaily handles GET /v1/intakes/daily
func (h *Handlers) HandleGetIntakesDaily(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetIntakesDaily(r.Context(), profileID, dateParam(r))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	profileIDStr := r.URL.Query().Get("profile_id")
	if profileIDStr == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return uuid.Nil, false
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id")
		return uuid.Nil, false
	}
	return profileID, true
}

func dateParam(r *http.Request) string {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(targets.DateLayout)
	}
	return date
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrFoodLogNotFound):
		writeError(w, http.StatusNotFound, "food_log_not_found", "Food log not found")
	case errors.Is(err, ErrWaterLimitExceeded):
		writeError(w, http.StatusBadRequest, "daily_water_limit_exceeded", err.Error())
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Printf("ERROR intakes: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

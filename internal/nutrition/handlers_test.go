package nutrition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/storage/memory"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/fdg312/fuel-score/internal/training"
	"github.com/google/uuid"
)

func setupHandler(t *testing.T, p storage.Profile) (*Handler, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()
	mem := memory.New()
	p.OwnerUserID = "default"
	p.Type = "owner"
	p.Name = "Runner"
	if err := mem.CreateProfile(context.Background(), &p); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	profileSvc := profiles.NewService(mem)
	trainingSvc := training.NewService(mem.GetTrainingStorage(), profileSvc, nil)
	return NewHandler(NewService(profileSvc, trainingSvc)), mem, p.ID
}

func referenceRunner() storage.Profile {
	return storage.Profile{WeightKg: 70, HeightCm: 175, Age: 30, Sex: "male", ExperienceLevel: "intermediate"}
}

func getTarget(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/targets/day?"+query, nil)
	w := httptest.NewRecorder()
	h.HandleGetDayTarget(w, req)
	return w
}

func TestGetDayTarget_ExplicitLoad(t *testing.T) {
	h, _, id := setupHandler(t, referenceRunner())

	w := getTarget(h, "profile_id="+id.String()+"&date=2026-10-16&load=moderate")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp DayTargetResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.LoadSource != LoadSourceQuery {
		t.Errorf("expected load_source query, got %s", resp.LoadSource)
	}
	if resp.Phase != "base" {
		t.Errorf("expected base phase without race, got %s", resp.Phase)
	}
	if resp.Target.Kcal != 2970 {
		t.Errorf("expected kcal 2970, got %d", resp.Target.Kcal)
	}
}

func TestGetDayTarget_LoadFromPlan(t *testing.T) {
	h, mem, id := setupHandler(t, referenceRunner())

	_, err := mem.GetTrainingStorage().ReplacePlannedSessions(context.Background(), id, "2026-10-16", []storage.PlannedSession{
		{Type: "run", DurationMin: 120},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	w := getTarget(h, "profile_id="+id.String()+"&date=2026-10-16")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp DayTargetResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.LoadSource != LoadSourcePlan {
		t.Errorf("expected load_source plan, got %s", resp.LoadSource)
	}
	if resp.Target.Load != targets.LoadLong {
		t.Errorf("expected long load from plan, got %s", resp.Target.Load)
	}

	// без плана день отдыха
	w = getTarget(h, "profile_id="+id.String()+"&date=2026-10-17")
	resp = DayTargetResponse{}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Target.Load != targets.LoadRest || resp.Target.Fueling != nil {
		t.Errorf("expected rest day without fueling, got %s", resp.Target.Load)
	}
}

func TestGetDayTarget_RaceDayRaisesFueling(t *testing.T) {
	p := referenceRunner()
	p.Goal = "half_marathon"
	race := "2026-10-16"
	p.RaceDate = &race
	h, _, id := setupHandler(t, p)

	w := getTarget(h, "profile_id="+id.String()+"&date=2026-10-16&load=quality")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp DayTargetResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Phase != "race" {
		t.Fatalf("expected race phase, got %s", resp.Phase)
	}
	f := resp.Target.Fueling
	if f == nil || f.DuringChoGPerHour == nil || *f.DuringChoGPerHour < 60 {
		t.Errorf("expected during fueling ≥ 60 g/h on race day, got %+v", f)
	}
	if f != nil && f.Pre != nil && f.Pre.ChoG < 210 {
		t.Errorf("expected pre CHO ≥ 3 g/kg, got %d", f.Pre.ChoG)
	}
}

func TestGetDayTarget_Errors(t *testing.T) {
	h, _, id := setupHandler(t, referenceRunner())
	incomplete, _, incompleteID := setupHandler(t, storage.Profile{WeightKg: 70})

	tests := []struct {
		name   string
		h      *Handler
		query  string
		status int
	}{
		{"missing profile", h, "date=2026-10-16", http.StatusBadRequest},
		{"bad load", h, "profile_id=" + id.String() + "&load=hard", http.StatusBadRequest},
		{"bad date", h, "profile_id=" + id.String() + "&date=16.10.2026", http.StatusBadRequest},
		{"unknown profile", h, "profile_id=" + uuid.New().String(), http.StatusNotFound},
		{"incomplete profile", incomplete, "profile_id=" + incompleteID.String() + "&load=easy", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getTarget(tt.h, tt.query)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

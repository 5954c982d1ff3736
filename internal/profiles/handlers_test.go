package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/fuel-score/internal/storage/memory"
	"github.com/fdg312/fuel-score/internal/userctx"
	"github.com/google/uuid"
)

func newTestHandler() (*Handler, *Service) {
	service := NewService(memory.New())
	return NewHandler(service), service
}

func TestHandleList(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	w := httptest.NewRecorder()

	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp ProfilesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Должен быть один owner профиль по умолчанию
	if len(resp.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(resp.Profiles))
	}
	if resp.Profiles[0].Type != "owner" {
		t.Errorf("expected owner profile, got %s", resp.Profiles[0].Type)
	}
	if resp.Profiles[0].Complete {
		t.Error("fresh owner profile should be incomplete")
	}
	if resp.Profiles[0].ExperienceLevel != "intermediate" {
		t.Errorf("expected default experience intermediate, got %s", resp.Profiles[0].ExperienceLevel)
	}
}

func TestHandleList_OwnerCreatedOnce(t *testing.T) {
	handler, _ := newTestHandler()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.HandleList(w, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))
		var resp ProfilesResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Profiles) != 1 {
			t.Fatalf("call %d: expected 1 profile, got %d", i, len(resp.Profiles))
		}
	}
}

func TestHandleCreate_WithBodyMetrics(t *testing.T) {
	handler, _ := newTestHandler()

	body := []byte(`{"type":"guest","name":"Runner","weight_kg":70,"height_cm":175,"age":30,"sex":"Male","goal":"half_marathon","race_date":"2026-11-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Type != "guest" || resp.Name != "Runner" {
		t.Errorf("unexpected profile: %+v", resp)
	}
	if resp.Sex != "male" {
		t.Errorf("expected normalized sex 'male', got %s", resp.Sex)
	}
	if !resp.Complete {
		t.Error("expected complete profile")
	}
	if resp.RaceDate == nil || *resp.RaceDate != "2026-11-01" {
		t.Errorf("expected race_date 2026-11-01, got %v", resp.RaceDate)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"owner type", `{"type":"owner","name":"X"}`, "invalid_type"},
		{"empty name", `{"type":"guest","name":"  "}`, "empty_name"},
		{"negative weight", `{"type":"guest","name":"X","weight_kg":-1}`, "invalid_field"},
		{"bad sex", `{"type":"guest","name":"X","sex":"other"}`, "invalid_field"},
		{"bad goal", `{"type":"guest","name":"X","goal":"swim"}`, "invalid_field"},
		{"bad race date", `{"type":"guest","name":"X","race_date":"01.11.2026"}`, "invalid_field"},
		{"bad strategy", `{"type":"guest","name":"X","strategy":"random"}`, "invalid_field"},
		{"bad experience", `{"type":"guest","name":"X","experience_level":"pro"}`, "invalid_field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler()
			req := httptest.NewRequest(http.MethodPost, "/v1/profiles", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.HandleCreate(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, resp.Error.Code)
			}
		})
	}
}

func TestHandleDeleteOwner(t *testing.T) {
	handler, service := newTestHandler()

	profiles, _ := service.ListProfiles(context.Background())
	ownerID := profiles[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/v1/profiles/"+ownerID.String(), nil)
	req.SetPathValue("id", ownerID.String())
	w := httptest.NewRecorder()

	handler.HandleDelete(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
}

func TestHandleDeleteGuest(t *testing.T) {
	handler, service := newTestHandler()

	guest, err := service.CreateProfile(context.Background(), CreateProfileRequest{Type: "guest", Name: "Guest"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/profiles/"+guest.ID.String(), nil)
	req.SetPathValue("id", guest.ID.String())
	w := httptest.NewRecorder()

	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
}

func TestHandleUpdate_PartialPatch(t *testing.T) {
	handler, service := newTestHandler()

	created, err := service.CreateProfile(context.Background(), CreateProfileRequest{
		Type: "guest",
		Name: "Guest",
		BodyFields: BodyFields{
			WeightKg: floatPtr(70),
			RaceDate: strPtr("2026-11-01"),
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	body := []byte(`{"name":"Updated Name","age":31,"race_date":""}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/profiles/"+created.ID.String(), bytes.NewReader(body))
	req.SetPathValue("id", created.ID.String())
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Name != "Updated Name" {
		t.Errorf("expected name 'Updated Name', got %s", resp.Name)
	}
	if resp.WeightKg != 70 {
		t.Errorf("weight should be untouched, got %v", resp.WeightKg)
	}
	if resp.Age != 31 {
		t.Errorf("expected age 31, got %d", resp.Age)
	}
	if resp.RaceDate != nil {
		t.Errorf("expected race_date cleared, got %v", *resp.RaceDate)
	}
}

func TestHandleUpdate_InvalidID(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPatch, "/v1/profiles/abc", bytes.NewReader([]byte(`{}`)))
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleGet_ForeignProfileIsNotFound(t *testing.T) {
	handler, service := newTestHandler()

	aliceCtx := userctx.WithUserID(context.Background(), "alice")
	guest, err := service.CreateProfile(aliceCtx, CreateProfileRequest{Type: "guest", Name: "Alice guest"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+guest.ID.String(), nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), "bob"))
	req.SetPathValue("id", guest.ID.String())
	w := httptest.NewRecorder()

	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleGet_Unknown(t *testing.T) {
	handler, _ := newTestHandler()

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()

	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestBodyProfile_Incomplete(t *testing.T) {
	_, service := newTestHandler()
	profiles, _ := service.ListProfiles(context.Background())

	owner, err := service.Owned(context.Background(), profiles[0].ID)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if _, err := BodyProfile(*owner); err == nil {
		t.Error("expected ErrIncomplete for empty metrics")
	}
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string { return &s }

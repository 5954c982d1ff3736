// Package training stores planned sessions and synced activities and
// classifies the day's load from them.
package training

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/fuel-score/internal/classifier"
	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

const maxSessionsPerDay = 10

// ProfileLookup resolves a profile owned by the request user.
type ProfileLookup interface {
	Owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// ScoreInvalidator drops cached scores of a day.
type ScoreInvalidator interface {
	Invalidate(ctx context.Context, profileID uuid.UUID, date string) error
}

type Service struct {
	store    storage.TrainingStorage
	profiles ProfileLookup
	cache    ScoreInvalidator
}

func NewService(store storage.TrainingStorage, profiles ProfileLookup, cache ScoreInvalidator) *Service {
	return &Service{store: store, profiles: profiles, cache: cache}
}

// ReplacePlan swaps the planned sessions of req.Date. An empty list makes it a rest day.
func (s *Service) ReplacePlan(ctx context.Context, req *ReplacePlanRequest) (*DayResponse, error) {
	if err := s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return nil, err
	}
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}
	if len(req.Sessions) > maxSessionsPerDay {
		return nil, fmt.Errorf("%w: at most %d sessions per day", ErrInvalidRequest, maxSessionsPerDay)
	}

	sessions := make([]storage.PlannedSession, 0, len(req.Sessions))
	for i, in := range req.Sessions {
		kind := strings.ToLower(strings.TrimSpace(in.Type))
		if kind == "" {
			return nil, fmt.Errorf("%w: sessions[%d].type is required", ErrInvalidRequest, i)
		}
		if in.DurationMin <= 0 {
			return nil, fmt.Errorf("%w: sessions[%d].duration_min must be positive", ErrInvalidRequest, i)
		}
		if in.DistanceKm < 0 {
			return nil, fmt.Errorf("%w: sessions[%d].distance_km must be non-negative", ErrInvalidRequest, i)
		}
		intensity, err := parseIntensity(in.Intensity)
		if err != nil {
			return nil, fmt.Errorf("%w: sessions[%d].intensity must be low, medium or high", ErrInvalidRequest, i)
		}
		if in.StartTime != nil {
			if _, err := time.Parse("15:04", *in.StartTime); err != nil {
				return nil, fmt.Errorf("%w: sessions[%d].start_time must be HH:MM", ErrInvalidRequest, i)
			}
		}
		sessions = append(sessions, storage.PlannedSession{
			ProfileID:   req.ProfileID,
			Date:        req.Date,
			Type:        kind,
			DurationMin: in.DurationMin,
			DistanceKm:  in.DistanceKm,
			Intensity:   intensity,
			StartTime:   in.StartTime,
		})
	}

	if _, err := s.store.ReplacePlannedSessions(ctx, req.ProfileID, req.Date, sessions); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.ProfileID, req.Date)

	return s.day(ctx, req.ProfileID, req.Date)
}

// SyncActivities stores activities; repeats with a known external_id are skipped.
func (s *Service) SyncActivities(ctx context.Context, req *SyncActivitiesRequest) (*SyncActivitiesResponse, error) {
	if err := s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return nil, err
	}
	if len(req.Activities) == 0 {
		return nil, fmt.Errorf("%w: activities must not be empty", ErrInvalidRequest)
	}

	// сначала валидируем всё, чтобы не записать половину пачки
	activities := make([]storage.Activity, 0, len(req.Activities))
	for i, in := range req.Activities {
		a, err := toActivity(req.ProfileID, in)
		if err != nil {
			return nil, fmt.Errorf("%w: activities[%d]: %v", ErrInvalidRequest, i, err)
		}
		activities = append(activities, a)
	}

	resp := &SyncActivitiesResponse{}
	touched := map[string]bool{}
	for i := range activities {
		inserted, err := s.store.InsertActivity(ctx, &activities[i])
		if err != nil {
			return nil, err
		}
		if !inserted {
			resp.Skipped++
			continue
		}
		resp.Inserted++
		touched[activities[i].Date] = true
	}
	for date := range touched {
		s.invalidate(ctx, req.ProfileID, date)
	}

	log.Printf("INFO training: sync profile_id=%s inserted=%d skipped=%d", req.ProfileID, resp.Inserted, resp.Skipped)
	return resp, nil
}

// GetDay returns the plan, the activities and both classified loads.
func (s *Service) GetDay(ctx context.Context, profileID uuid.UUID, date string) (*DayResponse, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.day(ctx, profileID, date)
}

// PlannedLoad classifies the planned sessions of date; no plan is a rest day.
func (s *Service) PlannedLoad(ctx context.Context, profileID uuid.UUID, date string) (targets.TrainingLoad, error) {
	planned, err := s.store.ListPlannedSessions(ctx, profileID, date)
	if err != nil {
		return "", err
	}
	return classifier.Classify(PlannedSessions(planned)), nil
}

func (s *Service) day(ctx context.Context, profileID uuid.UUID, date string) (*DayResponse, error) {
	planned, err := s.store.ListPlannedSessions(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.ListActivities(ctx, profileID, date)
	if err != nil {
		return nil, err
	}

	resp := &DayResponse{
		Date:        date,
		Planned:     make([]PlannedSessionDTO, 0, len(planned)),
		Activities:  make([]ActivityDTO, 0, len(activities)),
		PlannedLoad: string(classifier.Classify(PlannedSessions(planned))),
		ActualLoad:  string(classifier.Classify(ActivitySessions(activities))),
	}
	for _, p := range planned {
		resp.Planned = append(resp.Planned, plannedToDTO(p))
	}
	for _, a := range activities {
		resp.Activities = append(resp.Activities, activityToDTO(a))
	}
	return resp, nil
}

// PlannedSessions converts stored sessions for the classifier.
func PlannedSessions(planned []storage.PlannedSession) []classifier.Session {
	out := make([]classifier.Session, 0, len(planned))
	for _, p := range planned {
		out = append(out, classifier.Session{
			Type:        p.Type,
			DurationMin: p.DurationMin,
			DistanceKm:  p.DistanceKm,
			Intensity:   p.Intensity,
		})
	}
	return out
}

// ActivitySessions converts stored activities for the classifier.
func ActivitySessions(activities []storage.Activity) []classifier.Session {
	out := make([]classifier.Session, 0, len(activities))
	for _, a := range activities {
		out = append(out, classifier.Session{
			Type:        a.Type,
			DurationMin: a.DurationMin,
			DistanceKm:  a.DistanceKm,
			AvgHR:       a.AvgHR,
			MaxHR:       a.MaxHR,
		})
	}
	return out
}

func toActivity(profileID uuid.UUID, in ActivityInput) (storage.Activity, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "" {
		return storage.Activity{}, errors.New("type is required")
	}
	if in.DurationMin <= 0 {
		return storage.Activity{}, errors.New("duration_min must be positive")
	}
	if in.StartedAt.IsZero() {
		return storage.Activity{}, errors.New("started_at is required")
	}
	if (in.AvgHR != nil && *in.AvgHR <= 0) || (in.MaxHR != nil && *in.MaxHR <= 0) {
		return storage.Activity{}, errors.New("heart rate must be positive")
	}

	date := in.StartedAt.UTC().Format(targets.DateLayout)
	if in.Date != "" {
		if _, err := time.Parse(targets.DateLayout, in.Date); err != nil {
			return storage.Activity{}, errors.New("date must be YYYY-MM-DD")
		}
		date = in.Date
	}

	source := strings.ToLower(strings.TrimSpace(in.Source))
	if source == "" {
		source = "manual"
	}
	var externalID *string
	if in.ExternalID != nil && strings.TrimSpace(*in.ExternalID) != "" {
		id := strings.TrimSpace(*in.ExternalID)
		externalID = &id
	}

	return storage.Activity{
		ProfileID:   profileID,
		Date:        date,
		Type:        kind,
		DurationMin: in.DurationMin,
		DistanceKm:  in.DistanceKm,
		AvgHR:       in.AvgHR,
		MaxHR:       in.MaxHR,
		Source:      source,
		ExternalID:  externalID,
		StartedAt:   in.StartedAt.UTC(),
	}, nil
}

func parseIntensity(raw string) (string, error) {
	v := scoring.Intensity(strings.ToLower(strings.TrimSpace(raw)))
	switch v {
	case "", scoring.IntensityLow, scoring.IntensityMedium, scoring.IntensityHigh:
		return string(v), nil
	}
	return "", fmt.Errorf("unknown intensity %q", raw)
}

func validateDate(date string) error {
	if _, err := time.Parse(targets.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, profileID uuid.UUID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, profileID, date); err != nil {
		log.Printf("WARN training: score cache invalidate failed profile_id=%s date=%s err=%v", profileID, date, err)
	}
}

func (s *Service) ensureProfileAccess(ctx context.Context, profileID uuid.UUID) error {
	if _, err := s.profiles.Owned(ctx, profileID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

func plannedToDTO(p storage.PlannedSession) PlannedSessionDTO {
	return PlannedSessionDTO{
		ID:          p.ID,
		Type:        p.Type,
		DurationMin: p.DurationMin,
		DistanceKm:  p.DistanceKm,
		Intensity:   p.Intensity,
		StartTime:   p.StartTime,
	}
}

func activityToDTO(a storage.Activity) ActivityDTO {
	return ActivityDTO{
		ID:          a.ID,
		Type:        a.Type,
		DurationMin: a.DurationMin,
		DistanceKm:  a.DistanceKm,
		AvgHR:       a.AvgHR,
		MaxHR:       a.MaxHR,
		Source:      a.Source,
		ExternalID:  a.ExternalID,
		StartedAt:   a.StartedAt,
	}
}

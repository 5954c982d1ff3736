package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
)

type dayKey struct {
	profileID uuid.UUID
	date      string
}

// TrainingMemoryStorage — in-memory план и фактические тренировки
type TrainingMemoryStorage struct {
	mu         sync.RWMutex
	planned    map[dayKey][]storage.PlannedSession
	activities map[dayKey][]storage.Activity
	external   map[string]struct{} // profile_id|external_id
}

func NewTrainingMemoryStorage() *TrainingMemoryStorage {
	return &TrainingMemoryStorage{
		planned:    make(map[dayKey][]storage.PlannedSession),
		activities: make(map[dayKey][]storage.Activity),
		external:   make(map[string]struct{}),
	}
}

func (s *TrainingMemoryStorage) ReplacePlannedSessions(ctx context.Context, profileID uuid.UUID, date string, sessions []storage.PlannedSession) ([]storage.PlannedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := make([]storage.PlannedSession, 0, len(sessions))
	for _, ps := range sessions {
		if ps.ID == uuid.Nil {
			ps.ID = uuid.New()
		}
		ps.ProfileID = profileID
		ps.Date = date
		ps.CreatedAt = now
		if ps.StartTime != nil {
			st := *ps.StartTime
			ps.StartTime = &st
		}
		stored = append(stored, ps)
	}

	key := dayKey{profileID: profileID, date: date}
	if len(stored) == 0 {
		delete(s.planned, key)
		return []storage.PlannedSession{}, nil
	}
	s.planned[key] = stored

	out := make([]storage.PlannedSession, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *TrainingMemoryStorage) ListPlannedSessions(ctx context.Context, profileID uuid.UUID, date string) ([]storage.PlannedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.planned[dayKey{profileID: profileID, date: date}]
	out := make([]storage.PlannedSession, len(src))
	copy(out, src)
	return out, nil
}

func (s *TrainingMemoryStorage) InsertActivity(ctx context.Context, activity *storage.Activity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if activity.ExternalID != nil && *activity.ExternalID != "" {
		ext := activity.ProfileID.String() + "|" + *activity.ExternalID
		if _, dup := s.external[ext]; dup {
			return false, nil
		}
		s.external[ext] = struct{}{}
	}

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.CreatedAt = time.Now()

	key := dayKey{profileID: activity.ProfileID, date: activity.Date}
	s.activities[key] = append(s.activities[key], cloneActivity(*activity))

	return true, nil
}

func (s *TrainingMemoryStorage) ListActivities(ctx context.Context, profileID uuid.UUID, date string) ([]storage.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.activities[dayKey{profileID: profileID, date: date}]
	out := make([]storage.Activity, 0, len(src))
	for _, a := range src {
		out = append(out, cloneActivity(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

func cloneActivity(a storage.Activity) storage.Activity {
	if a.AvgHR != nil {
		v := *a.AvgHR
		a.AvgHR = &v
	}
	if a.MaxHR != nil {
		v := *a.MaxHR
		a.MaxHR = &v
	}
	if a.ExternalID != nil {
		v := *a.ExternalID
		a.ExternalID = &v
	}
	return a
}

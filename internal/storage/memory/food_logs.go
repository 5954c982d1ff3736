package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
)

// FoodLogsMemoryStorage — in-memory дневник питания
type FoodLogsMemoryStorage struct {
	mu        sync.RWMutex
	logs      map[uuid.UUID]storage.FoodLog
	byProfile map[uuid.UUID][]uuid.UUID // profile_id -> log ids
}

func NewFoodLogsMemoryStorage() *FoodLogsMemoryStorage {
	return &FoodLogsMemoryStorage{
		logs:      make(map[uuid.UUID]storage.FoodLog),
		byProfile: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *FoodLogsMemoryStorage) CreateFoodLog(ctx context.Context, log *storage.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()

	s.logs[log.ID] = cloneFoodLog(*log)
	s.byProfile[log.ProfileID] = append(s.byProfile[log.ProfileID], log.ID)

	return nil
}

func (s *FoodLogsMemoryStorage) GetFoodLog(ctx context.Context, id uuid.UUID) (*storage.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[id]
	if !ok {
		return nil, ErrNotFound
	}
	l = cloneFoodLog(l)
	return &l, nil
}

func (s *FoodLogsMemoryStorage) ListFoodLogs(ctx context.Context, profileID uuid.UUID, date string) ([]storage.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.FoodLog{}
	for _, id := range s.byProfile[profileID] {
		if l, ok := s.logs[id]; ok && l.Date == date {
			result = append(result, cloneFoodLog(l))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LoggedAt.Before(result[j].LoggedAt)
	})

	return result, nil
}

func (s *FoodLogsMemoryStorage) DeleteFoodLog(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.logs, id)

	ids := s.byProfile[l.ProfileID]
	for i, v := range ids {
		if v == id {
			s.byProfile[l.ProfileID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	return nil
}

func cloneFoodLog(l storage.FoodLog) storage.FoodLog {
	if l.Note != nil {
		n := *l.Note
		l.Note = &n
	}
	return l
}

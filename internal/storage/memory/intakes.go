package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
)

// IntakesMemoryStorage — in-memory storage для воды
type IntakesMemoryStorage struct {
	mu             sync.RWMutex
	waterIntakes   map[uuid.UUID]storage.WaterIntake
	waterByProfile map[uuid.UUID][]uuid.UUID // profile_id -> water_intake_ids
}

func NewIntakesMemoryStorage() *IntakesMemoryStorage {
	return &IntakesMemoryStorage{
		waterIntakes:   make(map[uuid.UUID]storage.WaterIntake),
		waterByProfile: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *IntakesMemoryStorage) AddWater(ctx context.Context, profileID uuid.UUID, takenAt time.Time, amountMl int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intake := storage.WaterIntake{
		ID:        uuid.New(),
		ProfileID: profileID,
		TakenAt:   takenAt.UTC(),
		AmountMl:  amountMl,
	}

	s.waterIntakes[intake.ID] = intake
	s.waterByProfile[profileID] = append(s.waterByProfile[profileID], intake.ID)

	return nil
}

func (s *IntakesMemoryStorage) GetWaterDaily(ctx context.Context, profileID uuid.UUID, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, id := range s.waterByProfile[profileID] {
		if intake, ok := s.waterIntakes[id]; ok && intake.TakenAt.Format("2006-01-02") == date {
			total += intake.AmountMl
		}
	}

	return total, nil
}

func (s *IntakesMemoryStorage) ListWaterIntakes(ctx context.Context, profileID uuid.UUID, date string, limit int) ([]storage.WaterIntake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.WaterIntake{}
	for _, id := range s.waterByProfile[profileID] {
		if intake, ok := s.waterIntakes[id]; ok && intake.TakenAt.Format("2006-01-02") == date {
			result = append(result, intake)
		}
	}

	// taken_at desc
	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt.After(result[j].TakenAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

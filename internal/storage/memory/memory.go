package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
)

// ErrNotFound — общий sentinel из storage, чтобы сервисы проверяли одно значение
var ErrNotFound = storage.ErrNotFound

// MemoryStorage — in-memory реализация всех хранилищ
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]storage.Profile
	foodLogs *FoodLogsMemoryStorage
	intakes  *IntakesMemoryStorage
	training *TrainingMemoryStorage
	scores   *ScoresMemoryStorage
	reports  *ReportsMemoryStorage
}

// New создаёт пустой MemoryStorage; owner профиль создаётся сервисом профилей
func New() *MemoryStorage {
	return &MemoryStorage{
		profiles: make(map[uuid.UUID]storage.Profile),
		foodLogs: NewFoodLogsMemoryStorage(),
		intakes:  NewIntakesMemoryStorage(),
		training: NewTrainingMemoryStorage(),
		scores:   NewScoresMemoryStorage(),
		reports:  NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, cloneProfile(p))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}

	p = cloneProfile(p)
	return &p, nil
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	m.profiles[profile.ID] = cloneProfile(*profile)

	return nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.profiles[profile.ID]
	if !ok {
		return ErrNotFound
	}

	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = time.Now()
	m.profiles[profile.ID] = cloneProfile(*profile)

	return nil
}

func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}

	delete(m.profiles, id)

	return nil
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// GetFoodLogsStorage returns the food logs storage
func (m *MemoryStorage) GetFoodLogsStorage() *FoodLogsMemoryStorage {
	return m.foodLogs
}

// GetIntakesStorage returns the water intakes storage
func (m *MemoryStorage) GetIntakesStorage() *IntakesMemoryStorage {
	return m.intakes
}

// GetTrainingStorage returns the planned sessions and activities storage
func (m *MemoryStorage) GetTrainingStorage() *TrainingMemoryStorage {
	return m.training
}

// GetScoresStorage returns the daily scores storage
func (m *MemoryStorage) GetScoresStorage() *ScoresMemoryStorage {
	return m.scores
}

// GetReportsStorage returns the reports storage
func (m *MemoryStorage) GetReportsStorage() *ReportsMemoryStorage {
	return m.reports
}

func cloneProfile(p storage.Profile) storage.Profile {
	if p.RaceDate != nil {
		d := *p.RaceDate
		p.RaceDate = &d
	}
	return p
}

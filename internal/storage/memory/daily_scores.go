package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
)

// ScoresMemoryStorage — in-memory история оценок
type ScoresMemoryStorage struct {
	mu     sync.RWMutex
	scores map[dayKey]storage.DailyScore
}

func NewScoresMemoryStorage() *ScoresMemoryStorage {
	return &ScoresMemoryStorage{
		scores: make(map[dayKey]storage.DailyScore),
	}
}

func (s *ScoresMemoryStorage) UpsertDailyScore(ctx context.Context, score *storage.DailyScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey{profileID: score.ProfileID, date: score.Date}
	now := time.Now()
	if existing, ok := s.scores[key]; ok {
		score.CreatedAt = existing.CreatedAt
	} else {
		score.CreatedAt = now
	}
	score.UpdatedAt = now

	stored := *score
	stored.Breakdown = append([]byte(nil), score.Breakdown...)
	s.scores[key] = stored

	return nil
}

func (s *ScoresMemoryStorage) ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.DailyScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.DailyScore{}
	for key, sc := range s.scores {
		// даты в формате YYYY-MM-DD сравниваются лексикографически
		if key.profileID != profileID || key.date < from || key.date > to {
			continue
		}
		sc.Breakdown = append([]byte(nil), sc.Breakdown...)
		result = append(result, sc)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScoresStorage — история оценок в Postgres
type PostgresScoresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresScoresStorage(pool *pgxpool.Pool) *PostgresScoresStorage {
	return &PostgresScoresStorage{pool: pool}
}

// UpsertDailyScore сохраняет оценку дня (upsert по profile_id, date)
func (s *PostgresScoresStorage) UpsertDailyScore(ctx context.Context, score *storage.DailyScore) error {
	query := `
		INSERT INTO daily_scores (profile_id, date, total, training_load, strategy, penalty_profile, breakdown, created_at, updated_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (profile_id, date)
		DO UPDATE SET
			total = EXCLUDED.total,
			training_load = EXCLUDED.training_load,
			strategy = EXCLUDED.strategy,
			penalty_profile = EXCLUDED.penalty_profile,
			breakdown = EXCLUDED.breakdown,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		score.ProfileID,
		score.Date,
		score.Total,
		score.Load,
		score.Strategy,
		score.PenaltyProfile,
		score.Breakdown,
	).Scan(&score.CreatedAt, &score.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert daily score: %w", err)
	}
	return nil
}

func (s *PostgresScoresStorage) ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.DailyScore, error) {
	query := `
		SELECT profile_id, date::text, total, training_load, strategy, penalty_profile, breakdown, created_at, updated_at
		FROM daily_scores
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily scores: %w", err)
	}
	defer rows.Close()

	scores := []storage.DailyScore{}
	for rows.Next() {
		var sc storage.DailyScore
		if err := rows.Scan(
			&sc.ProfileID,
			&sc.Date,
			&sc.Total,
			&sc.Load,
			&sc.Strategy,
			&sc.PenaltyProfile,
			&sc.Breakdown,
			&sc.CreatedAt,
			&sc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily score: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIntakesStorage — вода в Postgres
type PostgresIntakesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresIntakesStorage(pool *pgxpool.Pool) *PostgresIntakesStorage {
	return &PostgresIntakesStorage{pool: pool}
}

func (s *PostgresIntakesStorage) AddWater(ctx context.Context, profileID uuid.UUID, takenAt time.Time, amountMl int) error {
	query := `
		INSERT INTO water_intakes (id, profile_id, taken_at, amount_ml, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, uuid.New(), profileID, takenAt, amountMl, time.Now())
	return err
}

func (s *PostgresIntakesStorage) GetWaterDaily(ctx context.Context, profileID uuid.UUID, date string) (int, error) {
	query := `
		SELECT COALESCE(SUM(amount_ml), 0)
		FROM water_intakes
		WHERE profile_id = $1
			AND DATE(taken_at AT TIME ZONE 'UTC') = $2::date
	`

	var total int
	if err := s.pool.QueryRow(ctx, query, profileID, date).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (s *PostgresIntakesStorage) ListWaterIntakes(ctx context.Context, profileID uuid.UUID, date string, limit int) ([]storage.WaterIntake, error) {
	query := `
		SELECT id, profile_id, taken_at, amount_ml
		FROM water_intakes
		WHERE profile_id = $1
			AND DATE(taken_at AT TIME ZONE 'UTC') = $2::date
		ORDER BY taken_at DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.pool.Query(ctx, query, profileID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intakes := []storage.WaterIntake{}
	for rows.Next() {
		var intake storage.WaterIntake
		if err := rows.Scan(
			&intake.ID,
			&intake.ProfileID,
			&intake.TakenAt,
			&intake.AmountMl,
		); err != nil {
			return nil, err
		}
		intakes = append(intakes, intake)
	}

	return intakes, rows.Err()
}

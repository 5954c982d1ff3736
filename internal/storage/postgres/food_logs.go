package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFoodLogsStorage — дневник питания в Postgres
type PostgresFoodLogsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresFoodLogsStorage(pool *pgxpool.Pool) *PostgresFoodLogsStorage {
	return &PostgresFoodLogsStorage{pool: pool}
}

const foodLogColumns = `id, profile_id, date::text, logged_at, meal_type, fueling_window, in_window,
		kcal, protein_g, carbs_g, fat_g, note, created_at`

func scanFoodLog(row pgx.Row) (*storage.FoodLog, error) {
	var l storage.FoodLog
	if err := row.Scan(
		&l.ID,
		&l.ProfileID,
		&l.Date,
		&l.LoggedAt,
		&l.MealType,
		&l.Window,
		&l.InWindow,
		&l.Kcal,
		&l.ProteinG,
		&l.CarbsG,
		&l.FatG,
		&l.Note,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresFoodLogsStorage) CreateFoodLog(ctx context.Context, log *storage.FoodLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()

	query := `
		INSERT INTO food_logs (id, profile_id, date, logged_at, meal_type, fueling_window, in_window,
			kcal, protein_g, carbs_g, fat_g, note, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		log.ID,
		log.ProfileID,
		log.Date,
		log.LoggedAt,
		log.MealType,
		log.Window,
		log.InWindow,
		log.Kcal,
		log.ProteinG,
		log.CarbsG,
		log.FatG,
		log.Note,
		log.CreatedAt,
	)
	return err
}

func (s *PostgresFoodLogsStorage) GetFoodLog(ctx context.Context, id uuid.UUID) (*storage.FoodLog, error) {
	query := `SELECT ` + foodLogColumns + ` FROM food_logs WHERE id = $1`

	l, err := scanFoodLog(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

func (s *PostgresFoodLogsStorage) ListFoodLogs(ctx context.Context, profileID uuid.UUID, date string) ([]storage.FoodLog, error) {
	query := `SELECT ` + foodLogColumns + `
		FROM food_logs
		WHERE profile_id = $1 AND date = $2::date
		ORDER BY logged_at ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []storage.FoodLog{}
	for rows.Next() {
		l, err := scanFoodLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (s *PostgresFoodLogsStorage) DeleteFoodLog(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM food_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

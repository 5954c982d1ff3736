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

// ErrNotFound — общий sentinel из storage
var ErrNotFound = storage.ErrNotFound

// PostgresStorage — Postgres реализация всех хранилищ
type PostgresStorage struct {
	pool     *pgxpool.Pool
	foodLogs *PostgresFoodLogsStorage
	intakes  *PostgresIntakesStorage
	training *PostgresTrainingStorage
	scores   *PostgresScoresStorage
	reports  *PostgresReportsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:     pool,
		foodLogs: NewPostgresFoodLogsStorage(pool),
		intakes:  NewPostgresIntakesStorage(pool),
		training: NewPostgresTrainingStorage(pool),
		scores:   NewPostgresScoresStorage(pool),
		reports:  NewPostgresReportsStorage(pool),
	}, nil
}

const profileColumns = `id, owner_user_id, type, name, weight_kg, height_cm, age, sex,
		experience_level, goal, race_date, strategy, created_at, updated_at`

func scanProfile(row pgx.Row) (*storage.Profile, error) {
	var prof storage.Profile
	var raceDate *time.Time
	err := row.Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Type,
		&prof.Name,
		&prof.WeightKg,
		&prof.HeightCm,
		&prof.Age,
		&prof.Sex,
		&prof.ExperienceLevel,
		&prof.Goal,
		&raceDate,
		&prof.Strategy,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if raceDate != nil {
		d := raceDate.Format("2006-01-02")
		prof.RaceDate = &d
	}
	return &prof, nil
}

func (p *PostgresStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		prof, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *prof)
	}

	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	prof, err := scanProfile(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return prof, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (id, owner_user_id, type, name, weight_kg, height_cm, age, sex,
			experience_level, goal, race_date, strategy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date, $12, $13, $14)
	`

	_, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Type,
		profile.Name,
		profile.WeightKg,
		profile.HeightCm,
		profile.Age,
		profile.Sex,
		profile.ExperienceLevel,
		profile.Goal,
		profile.RaceDate,
		profile.Strategy,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET name = $2, weight_kg = $3, height_cm = $4, age = $5, sex = $6,
			experience_level = $7, goal = $8, race_date = $9::date, strategy = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.WeightKg,
		profile.HeightCm,
		profile.Age,
		profile.Sex,
		profile.ExperienceLevel,
		profile.Goal,
		profile.RaceDate,
		profile.Strategy,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM profiles WHERE id = $1`

	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetFoodLogsStorage returns the food logs storage
func (p *PostgresStorage) GetFoodLogsStorage() *PostgresFoodLogsStorage {
	return p.foodLogs
}

// GetIntakesStorage returns the water intakes storage
func (p *PostgresStorage) GetIntakesStorage() *PostgresIntakesStorage {
	return p.intakes
}

// GetTrainingStorage returns the planned sessions and activities storage
func (p *PostgresStorage) GetTrainingStorage() *PostgresTrainingStorage {
	return p.training
}

// GetScoresStorage returns the daily scores storage
func (p *PostgresStorage) GetScoresStorage() *PostgresScoresStorage {
	return p.scores
}

// GetReportsStorage returns the reports storage
func (p *PostgresStorage) GetReportsStorage() *PostgresReportsStorage {
	return p.reports
}

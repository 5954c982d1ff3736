package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTrainingStorage — план и фактические тренировки в Postgres
type PostgresTrainingStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresTrainingStorage(pool *pgxpool.Pool) *PostgresTrainingStorage {
	return &PostgresTrainingStorage{pool: pool}
}

// ReplacePlannedSessions удаляет план на дату и вставляет новый в одной транзакции
func (s *PostgresTrainingStorage) ReplacePlannedSessions(ctx context.Context, profileID uuid.UUID, date string, sessions []storage.PlannedSession) ([]storage.PlannedSession, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM planned_sessions WHERE profile_id = $1 AND date = $2::date`,
		profileID, date,
	); err != nil {
		return nil, fmt.Errorf("delete planned sessions: %w", err)
	}

	now := time.Now()
	stored := make([]storage.PlannedSession, 0, len(sessions))
	for _, ps := range sessions {
		if ps.ID == uuid.Nil {
			ps.ID = uuid.New()
		}
		ps.ProfileID = profileID
		ps.Date = date
		ps.CreatedAt = now

		_, err := tx.Exec(ctx, `
			INSERT INTO planned_sessions (id, profile_id, date, type, duration_min, distance_km, intensity, start_time, created_at)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
		`,
			ps.ID, ps.ProfileID, ps.Date, ps.Type, ps.DurationMin, ps.DistanceKm, ps.Intensity, ps.StartTime, ps.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert planned session: %w", err)
		}
		stored = append(stored, ps)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

func (s *PostgresTrainingStorage) ListPlannedSessions(ctx context.Context, profileID uuid.UUID, date string) ([]storage.PlannedSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, profile_id, date::text, type, duration_min, distance_km, intensity, start_time, created_at
		FROM planned_sessions
		WHERE profile_id = $1 AND date = $2::date
		ORDER BY start_time NULLS LAST, created_at ASC
	`, profileID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []storage.PlannedSession{}
	for rows.Next() {
		var ps storage.PlannedSession
		if err := rows.Scan(
			&ps.ID,
			&ps.ProfileID,
			&ps.Date,
			&ps.Type,
			&ps.DurationMin,
			&ps.DistanceKm,
			&ps.Intensity,
			&ps.StartTime,
			&ps.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, ps)
	}
	return sessions, rows.Err()
}

// InsertActivity вставляет тренировку; повтор по (profile_id, external_id) игнорируется
func (s *PostgresTrainingStorage) InsertActivity(ctx context.Context, activity *storage.Activity) (bool, error) {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.CreatedAt = time.Now()

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO activities (id, profile_id, date, type, duration_min, distance_km, avg_hr, max_hr,
			source, external_id, started_at, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (profile_id, external_id) DO NOTHING
		RETURNING id
	`,
		activity.ID,
		activity.ProfileID,
		activity.Date,
		activity.Type,
		activity.DurationMin,
		activity.DistanceKm,
		activity.AvgHR,
		activity.MaxHR,
		activity.Source,
		activity.ExternalID,
		activity.StartedAt,
		activity.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert activity: %w", err)
	}
	return true, nil
}

func (s *PostgresTrainingStorage) ListActivities(ctx context.Context, profileID uuid.UUID, date string) ([]storage.Activity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, profile_id, date::text, type, duration_min, distance_km, avg_hr, max_hr,
			source, external_id, started_at, created_at
		FROM activities
		WHERE profile_id = $1 AND date = $2::date
		ORDER BY started_at ASC
	`, profileID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []storage.Activity{}
	for rows.Next() {
		var a storage.Activity
		if err := rows.Scan(
			&a.ID,
			&a.ProfileID,
			&a.Date,
			&a.Type,
			&a.DurationMin,
			&a.DistanceKm,
			&a.AvgHR,
			&a.MaxHR,
			&a.Source,
			&a.ExternalID,
			&a.StartedAt,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

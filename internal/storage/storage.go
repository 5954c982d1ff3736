package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается всеми реализациями, когда запись не найдена
var ErrNotFound = errors.New("not found")

// Profile — профиль спортсмена (owner или guest) с параметрами тела
type Profile struct {
	ID              uuid.UUID
	OwnerUserID     string // "default" без авторизации
	Type            string // "owner" или "guest"
	Name            string
	WeightKg        float64
	HeightCm        float64
	Age             int
	Sex             string // "male" | "female", пусто пока не заполнено
	ExperienceLevel string // beginner | intermediate | advanced
	Goal            string // "" | weight_loss | gain_muscle | 5k | 10k | half_marathon | full_marathon | ultra
	RaceDate        *string
	Strategy        string // пусто = стратегия по умолчанию из конфига
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Storage — интерфейс для работы с профилями
type Storage interface {
	// ListProfiles возвращает все профили
	ListProfiles(ctx context.Context) ([]Profile, error)

	// GetProfile возвращает профиль по ID
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// CreateProfile создаёт новый профиль
	CreateProfile(ctx context.Context, profile *Profile) error

	// UpdateProfile обновляет профиль
	UpdateProfile(ctx context.Context, profile *Profile) error

	// DeleteProfile удаляет профиль
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// FoodLog — запись о приёме пищи
type FoodLog struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Date      string // YYYY-MM-DD
	LoggedAt  time.Time
	MealType  string // breakfast | lunch | dinner | snack
	Window    string // "" | pre | during | post
	InWindow  bool   // съедено внутри окна
	Kcal      float64
	ProteinG  float64
	CarbsG    float64
	FatG      float64
	Note      *string
	CreatedAt time.Time
}

// FoodLogsStorage — интерфейс для дневника питания
type FoodLogsStorage interface {
	// CreateFoodLog добавляет запись
	CreateFoodLog(ctx context.Context, log *FoodLog) error

	// GetFoodLog возвращает запись по ID
	GetFoodLog(ctx context.Context, id uuid.UUID) (*FoodLog, error)

	// ListFoodLogs возвращает записи профиля за день, по времени
	ListFoodLogs(ctx context.Context, profileID uuid.UUID, date string) ([]FoodLog, error)

	// DeleteFoodLog удаляет запись
	DeleteFoodLog(ctx context.Context, id uuid.UUID) error
}

// WaterIntake — приём воды
type WaterIntake struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	TakenAt   time.Time
	AmountMl  int
}

// IntakesStorage — интерфейс для воды
type IntakesStorage interface {
	// AddWater добавляет приём воды
	AddWater(ctx context.Context, profileID uuid.UUID, takenAt time.Time, amountMl int) error

	// GetWaterDaily возвращает сумму воды за день (UTC)
	GetWaterDaily(ctx context.Context, profileID uuid.UUID, date string) (int, error)

	// ListWaterIntakes возвращает приёмы воды за день
	ListWaterIntakes(ctx context.Context, profileID uuid.UUID, date string, limit int) ([]WaterIntake, error)
}

// PlannedSession — запланированная тренировка на дату
type PlannedSession struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	Date        string
	Type        string
	DurationMin float64
	DistanceKm  float64
	Intensity   string // low | medium | high, может быть пустым
	StartTime   *string
	CreatedAt   time.Time
}

// Activity — фактическая тренировка (синхронизирована с часов или введена вручную)
type Activity struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	Date        string
	Type        string
	DurationMin float64
	DistanceKm  float64
	AvgHR       *float64
	MaxHR       *float64
	Source      string  // manual | healthkit | ...
	ExternalID  *string // для дедупликации при повторной синхронизации
	StartedAt   time.Time
	CreatedAt   time.Time
}

// TrainingStorage — интерфейс для плана и фактических тренировок
type TrainingStorage interface {
	// ReplacePlannedSessions заменяет план на дату целиком
	ReplacePlannedSessions(ctx context.Context, profileID uuid.UUID, date string, sessions []PlannedSession) ([]PlannedSession, error)

	// ListPlannedSessions возвращает план на дату
	ListPlannedSessions(ctx context.Context, profileID uuid.UUID, date string) ([]PlannedSession, error)

	// InsertActivity добавляет тренировку (дубликаты по external_id игнорируются)
	InsertActivity(ctx context.Context, activity *Activity) (inserted bool, err error)

	// ListActivities возвращает тренировки за дату
	ListActivities(ctx context.Context, profileID uuid.UUID, date string) ([]Activity, error)
}

// DailyScore — сохранённая итоговая оценка дня
type DailyScore struct {
	ProfileID      uuid.UUID
	Date           string
	Total          int
	Load           string
	Strategy       string
	PenaltyProfile string
	Breakdown      []byte // JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScoresStorage — интерфейс для истории оценок
type ScoresStorage interface {
	// UpsertDailyScore сохраняет оценку (upsert по profile_id, date)
	UpsertDailyScore(ctx context.Context, score *DailyScore) error

	// ListDailyScores возвращает оценки за период включительно, по дате
	ListDailyScores(ctx context.Context, profileID uuid.UUID, from, to string) ([]DailyScore, error)
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов профиля с пагинацией
	ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет метаданные отчёта
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта
type ReportMeta struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Format    string // "pdf" or "csv"
	FromDate  string // YYYY-MM-DD
	ToDate    string // YYYY-MM-DD
	ObjectKey string // ключ в blob store
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

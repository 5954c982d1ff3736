package intakes

import (
	"time"

	"github.com/google/uuid"
)

// CreateFoodLogRequest — запрос на запись приёма пищи
type CreateFoodLogRequest struct {
	ProfileID uuid.UUID  `json:"profile_id"`
	Date      string     `json:"date,omitempty"`      // YYYY-MM-DD, по умолчанию дата logged_at (UTC)
	LoggedAt  *time.Time `json:"logged_at,omitempty"` // по умолчанию сейчас
	MealType  string     `json:"meal_type"`
	Window    string     `json:"window,omitempty"` // pre | during | post
	InWindow  *bool      `json:"in_window,omitempty"`
	Kcal      float64    `json:"kcal"`
	ProteinG  float64    `json:"protein_g"`
	CarbsG    float64    `json:"carbs_g"`
	FatG      float64    `json:"fat_g"`
	Note      *string    `json:"note,omitempty"`
}

// FoodLogDTO — DTO записи питания
type FoodLogDTO struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Date      string    `json:"date"`
	LoggedAt  time.Time `json:"logged_at"`
	MealType  string    `json:"meal_type"`
	Window    string    `json:"window,omitempty"`
	InWindow  bool      `json:"in_window"`
	Kcal      float64   `json:"kcal"`
	ProteinG  float64   `json:"protein_g"`
	CarbsG    float64   `json:"carbs_g"`
	FatG      float64   `json:"fat_g"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FoodLogsResponse — ответ для GET /v1/food/logs
type FoodLogsResponse struct {
	Date   string       `json:"date"`
	Logs   []FoodLogDTO `json:"logs"`
	Totals FoodTotals   `json:"totals"`
}

// FoodTotals — суммы за день
type FoodTotals struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// AddWaterRequest — запрос на добавление воды
type AddWaterRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	TakenAt   time.Time `json:"taken_at"`
	AmountMl  int       `json:"amount_ml"`
}

// WaterIntakeDTO — DTO для записи о воде
type WaterIntakeDTO struct {
	ID       uuid.UUID `json:"id"`
	TakenAt  time.Time `json:"taken_at"`
	AmountMl int       `json:"amount_ml"`
}

// IntakesDailyResponse — ответ для GET /v1/intakes/daily
type IntakesDailyResponse struct {
	Date         string           `json:"date"`
	WaterTotalMl int              `json:"water_total_ml"`
	WaterEntries []WaterIntakeDTO `json:"water_entries,omitempty"`
	Food         FoodTotals       `json:"food"`
	FoodLogCount int              `json:"food_log_count"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

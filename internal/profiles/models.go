package profiles

import (
	"time"

	"github.com/google/uuid"
)

// ProfileDTO — DTO для API
type ProfileDTO struct {
	ID              uuid.UUID `json:"id"`
	OwnerUserID     string    `json:"owner_user_id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	WeightKg        float64   `json:"weight_kg"`
	HeightCm        float64   `json:"height_cm"`
	Age             int       `json:"age"`
	Sex             string    `json:"sex"`
	ExperienceLevel string    `json:"experience_level"`
	Goal            string    `json:"goal"`
	RaceDate        *string   `json:"race_date,omitempty"`
	Strategy        string    `json:"strategy,omitempty"`
	Complete        bool      `json:"complete"` // хватает ли данных для расчёта целей
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfilesResponse — ответ для GET /v1/profiles
type ProfilesResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

// BodyFields — общие поля create/update; nil значит «не менять»
type BodyFields struct {
	WeightKg        *float64 `json:"weight_kg"`
	HeightCm        *float64 `json:"height_cm"`
	Age             *int     `json:"age"`
	Sex             *string  `json:"sex"`
	ExperienceLevel *string  `json:"experience_level"`
	Goal            *string  `json:"goal"`
	RaceDate        *string  `json:"race_date"` // "" очищает дату
	Strategy        *string  `json:"strategy"`
}

// CreateProfileRequest — запрос для POST /v1/profiles
type CreateProfileRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
	BodyFields
}

// UpdateProfileRequest — запрос для PATCH /v1/profiles/{id}
type UpdateProfileRequest struct {
	Name *string `json:"name"`
	BodyFields
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

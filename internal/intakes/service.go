package intakes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrFoodLogNotFound    = errors.New("food log not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWaterLimitExceeded = errors.New("daily water limit exceeded")
)

// ProfileLookup проверяет владельца профиля
type ProfileLookup interface {
	Owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// ScoreInvalidator сбрасывает кэш оценки дня
type ScoreInvalidator interface {
	Invalidate(ctx context.Context, profileID uuid.UUID, date string) error
}

type Service struct {
	foodLogs storage.FoodLogsStorage
	intakes  storage.IntakesStorage
	profiles ProfileLookup
	cache    ScoreInvalidator
	config   *config.Config
	now      func() time.Time
}

func NewService(
	foodLogs storage.FoodLogsStorage,
	intakes storage.IntakesStorage,
	profiles ProfileLookup,
	cache ScoreInvalidator,
	cfg *config.Config,
) *Service {
	return &Service{
		foodLogs: foodLogs,
		intakes:  intakes,
		profiles: profiles,
		cache:    cache,
		config:   cfg,
		now:      time.Now,
	}
}

var windows = map[string]bool{"": true, "pre": true, "during": true, "post": true}

// MARK: - Food logs

func (s *Service) CreateFoodLog(ctx context.Context, req *CreateFoodLogRequest) (*FoodLogDTO, error) {
	if err := s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return nil, err
	}

	mealType := targets.MealType(strings.ToLower(strings.TrimSpace(req.MealType)))
	if !validMealType(mealType) {
		return nil, fmt.Errorf("%w: meal_type must be breakfast, lunch, dinner or snack", ErrInvalidRequest)
	}
	window := strings.ToLower(strings.TrimSpace(req.Window))
	if !windows[window] {
		return nil, fmt.Errorf("%w: window must be pre, during or post", ErrInvalidRequest)
	}
	if req.Kcal < 0 || req.ProteinG < 0 || req.CarbsG < 0 || req.FatG < 0 {
		return nil, fmt.Errorf("%w: nutrition values must be non-negative", ErrInvalidRequest)
	}

	kcal := req.Kcal
	if kcal == 0 {
		kcal = 4*req.CarbsG + 4*req.ProteinG + 9*req.FatG
	}
	if kcal == 0 {
		return nil, fmt.Errorf("%w: kcal or macros required", ErrInvalidRequest)
	}

	loggedAt := s.now().UTC()
	if req.LoggedAt != nil {
		loggedAt = req.LoggedAt.UTC()
	}
	date := loggedAt.Format(targets.DateLayout)
	if req.Date != "" {
		if _, err := time.Parse(targets.DateLayout, req.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
		}
		date = req.Date
	}

	// по умолчанию приём в окне считается своевременным
	inWindow := window != ""
	if req.InWindow != nil {
		inWindow = window != "" && *req.InWindow
	}

	entry := &storage.FoodLog{
		ProfileID: req.ProfileID,
		Date:      date,
		LoggedAt:  loggedAt,
		MealType:  string(mealType),
		Window:    window,
		InWindow:  inWindow,
		Kcal:      kcal,
		ProteinG:  req.ProteinG,
		CarbsG:    req.CarbsG,
		FatG:      req.FatG,
		Note:      req.Note,
	}
	if err := s.foodLogs.CreateFoodLog(ctx, entry); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.ProfileID, date)

	dto := toFoodLogDTO(*entry)
	return &dto, nil
}

func (s *Service) ListFoodLogs(ctx context.Context, profileID uuid.UUID, date string) (*FoodLogsResponse, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(targets.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}

	logs, err := s.foodLogs.ListFoodLogs(ctx, profileID, date)
	if err != nil {
		return nil, err
	}

	resp := &FoodLogsResponse{Date: date, Logs: make([]FoodLogDTO, 0, len(logs))}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, toFoodLogDTO(l))
	}
	resp.Totals = SumFoodLogs(logs)
	return resp, nil
}

func (s *Service) DeleteFoodLog(ctx context.Context, id uuid.UUID) error {
	entry, err := s.foodLogs.GetFoodLog(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrFoodLogNotFound
		}
		return err
	}
	// чужая запись выглядит как несуществующая
	if err := s.ensureProfileAccess(ctx, entry.ProfileID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ErrFoodLogNotFound
		}
		return err
	}

	if err := s.foodLogs.DeleteFoodLog(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrFoodLogNotFound
		}
		return err
	}
	s.invalidate(ctx, entry.ProfileID, entry.Date)
	return nil
}

// SumFoodLogs суммирует энергию и макросы
func SumFoodLogs(logs []storage.FoodLog) FoodTotals {
	var t FoodTotals
	for _, l := range logs {
		t.Kcal += l.Kcal
		t.ProteinG += l.ProteinG
		t.CarbsG += l.CarbsG
		t.FatG += l.FatG
	}
	return t
}

// MARK: - Water

func (s *Service) AddWater(ctx context.Context, req *AddWaterRequest) error {
	if err := s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return err
	}

	if req.AmountMl <= 0 {
		return fmt.Errorf("%w: amount_ml must be positive", ErrInvalidRequest)
	}

	takenAt := req.TakenAt
	if takenAt.IsZero() {
		takenAt = s.now()
	}
	takenAt = takenAt.UTC()

	// дневной лимит считается по дате UTC
	date := takenAt.Format(targets.DateLayout)
	currentTotal, err := s.intakes.GetWaterDaily(ctx, req.ProfileID, date)
	if err != nil {
		return err
	}

	if currentTotal+req.AmountMl > s.config.IntakesMaxWaterMlPerDay {
		return ErrWaterLimitExceeded
	}

	if err := s.intakes.AddWater(ctx, req.ProfileID, takenAt, req.AmountMl); err != nil {
		return err
	}
	s.invalidate(ctx, req.ProfileID, date)
	return nil
}

func (s *Service) GetIntakesDaily(ctx context.Context, profileID uuid.UUID, date string) (*IntakesDailyResponse, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(targets.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}

	waterTotal, err := s.intakes.GetWaterDaily(ctx, profileID, date)
	if err != nil {
		return nil, err
	}

	waterEntries, err := s.intakes.ListWaterIntakes(ctx, profileID, date, 20)
	if err != nil {
		return nil, err
	}

	logs, err := s.foodLogs.ListFoodLogs(ctx, profileID, date)
	if err != nil {
		return nil, err
	}

	waterDTOs := make([]WaterIntakeDTO, len(waterEntries))
	for i, entry := range waterEntries {
		waterDTOs[i] = WaterIntakeDTO{
			ID:       entry.ID,
			TakenAt:  entry.TakenAt,
			AmountMl: entry.AmountMl,
		}
	}

	return &IntakesDailyResponse{
		Date:         date,
		WaterTotalMl: waterTotal,
		WaterEntries: waterDTOs,
		Food:         SumFoodLogs(logs),
		FoodLogCount: len(logs),
	}, nil
}

// MARK: - Helpers

func (s *Service) invalidate(ctx context.Context, profileID uuid.UUID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, profileID, date); err != nil {
		log.Printf("WARN intakes: score cache invalidate failed profile_id=%s date=%s err=%v", profileID, date, err)
	}
}

func (s *Service) ensureProfileAccess(ctx context.Context, profileID uuid.UUID) error {
	if _, err := s.profiles.Owned(ctx, profileID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

func validMealType(m targets.MealType) bool {
	for _, t := range targets.MealOrder {
		if m == t {
			return true
		}
	}
	return false
}

func toFoodLogDTO(l storage.FoodLog) FoodLogDTO {
	return FoodLogDTO{
		ID:        l.ID,
		ProfileID: l.ProfileID,
		Date:      l.Date,
		LoggedAt:  l.LoggedAt,
		MealType:  l.MealType,
		Window:    l.Window,
		InWindow:  l.InWindow,
		Kcal:      l.Kcal,
		ProteinG:  l.ProteinG,
		CarbsG:    l.CarbsG,
		FatG:      l.FatG,
		Note:      l.Note,
		CreatedAt: l.CreatedAt,
	}
}

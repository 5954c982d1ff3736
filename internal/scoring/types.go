package scoring

import (
	"fmt"
	"strings"

	"github.com/fdg312/fuel-score/internal/targets"
)

// ============================================================================
// Enums
// ============================================================================

// Strategy selects how macro components are weighted.
type Strategy string

const (
	StrategyRunnerFocused Strategy = "runner-focused"
	StrategyGeneral       Strategy = "general"
	StrategyMealLevel     Strategy = "meal-level"
)

// ParseStrategy converts a raw string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := strategyTables[st]; !ok {
		return "", fmt.Errorf("%w: unknown scoring strategy %q", targets.ErrInvalidArgument, s)
	}
	return st, nil
}

// ExperienceLevel selects the macro tolerance ladder.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// ParseExperienceLevel converts a raw string into an ExperienceLevel.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	lvl := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := toleranceLadders[lvl]; !ok {
		return "", fmt.Errorf("%w: unknown experience level %q", targets.ErrInvalidArgument, s)
	}
	return lvl, nil
}

// Intensity is the effort level of a planned or performed session.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

func (i Intensity) step() (int, bool) {
	switch i {
	case IntensityLow:
		return 0, true
	case IntensityMedium:
		return 1, true
	case IntensityHigh:
		return 2, true
	}
	return 0, false
}

// ============================================================================
// Input
// ============================================================================

// NutritionValues are daily energy and macro totals.
type NutritionValues struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// WindowIntake is what was eaten for one fueling window.
// During intake is expressed per hour of the session.
type WindowIntake struct {
	ChoG     float64 `json:"cho_g"`
	ProteinG float64 `json:"protein_g,omitempty"`
	InWindow bool    `json:"in_window"`
}

// FuelingActuals holds the logged intake per window; nil means nothing logged.
type FuelingActuals struct {
	Pre    *WindowIntake `json:"pre,omitempty"`
	During *WindowIntake `json:"during,omitempty"`
	Post   *WindowIntake `json:"post,omitempty"`
}

func (f FuelingActuals) any() bool {
	return f.Pre != nil || f.During != nil || f.Post != nil
}

// MealIntake is the energy eaten in one meal slot.
type MealIntake struct {
	Type targets.MealType `json:"type"`
	Kcal float64          `json:"kcal"`
}

// TrainingPlan is the session planned for the day.
type TrainingPlan struct {
	Type        string    `json:"type"`
	DurationMin float64   `json:"duration_min"`
	Intensity   Intensity `json:"intensity,omitempty"`
}

// TrainingActual is the session performed. Heart-rate fields are optional.
type TrainingActual struct {
	Type        string   `json:"type"`
	DurationMin float64  `json:"duration_min"`
	AvgHR       *float64 `json:"avg_hr,omitempty"`
	MaxHR       *float64 `json:"max_hr,omitempty"`
}

// Flags force bonus and penalty triggers. Nil pointers are derived from the data.
type Flags struct {
	WindowSyncAll    *bool `json:"window_sync_all,omitempty"`
	StreakDays       int   `json:"streak_days,omitempty"`
	HydrationMet     bool  `json:"hydration_met,omitempty"`
	HardUnderfuel    *bool `json:"hard_underfuel,omitempty"`
	BigDeficit       *bool `json:"big_deficit,omitempty"`
	MissedPostWindow *bool `json:"missed_post_window,omitempty"`
}

// Context is everything needed to score one day.
type Context struct {
	Date            string                 `json:"date,omitempty"`
	Load            targets.TrainingLoad   `json:"load"`
	Strategy        Strategy               `json:"strategy,omitempty"`
	ExperienceLevel ExperienceLevel        `json:"experience_level,omitempty"`
	Targets         NutritionValues        `json:"targets"`
	Actuals         NutritionValues        `json:"actuals"`
	FuelingTargets  *targets.FuelingWindow `json:"fueling_targets,omitempty"`
	FuelingActuals  FuelingActuals         `json:"fueling_actuals"`
	Meals           []MealIntake           `json:"meals,omitempty"`
	TrainingPlan    *TrainingPlan          `json:"training_plan,omitempty"`
	TrainingActual  *TrainingActual        `json:"training_actual,omitempty"`
	Flags           *Flags                 `json:"flags,omitempty"`
	HasFoodLogs     bool                   `json:"has_food_logs"`
	HasMealPlan     bool                   `json:"has_meal_plan"`
}

// TargetsFromDay converts a DayTarget into scoring targets.
func TargetsFromDay(dt targets.DayTarget) NutritionValues {
	return NutritionValues{
		Calories: float64(dt.Kcal),
		ProteinG: float64(dt.Grams.ProteinG),
		CarbsG:   float64(dt.Grams.ChoG),
		FatG:     float64(dt.Grams.FatG),
	}
}

// ============================================================================
// Output
// ============================================================================

// MacroBreakdown holds the per-macro scores.
type MacroBreakdown struct {
	Total    float64 `json:"total"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// TimingBreakdown holds the per-window scores. Nil windows were not applicable.
type TimingBreakdown struct {
	Total      float64  `json:"total"`
	Applicable bool     `json:"applicable"`
	Pre        *float64 `json:"pre,omitempty"`
	During     *float64 `json:"during,omitempty"`
	Post       *float64 `json:"post,omitempty"`
}

// NutritionBreakdown is the nutrition half of the score.
type NutritionBreakdown struct {
	Total     float64         `json:"total"`
	Macros    MacroBreakdown  `json:"macros"`
	Timing    TimingBreakdown `json:"timing"`
	Structure float64         `json:"structure"`
}

// TrainingBreakdown is the training half of the score.
type TrainingBreakdown struct {
	Total      float64 `json:"total"`
	Applicable bool    `json:"applicable"`
	Completion float64 `json:"completion"`
	TypeMatch  float64 `json:"type_match"`
	Intensity  float64 `json:"intensity"`
}

// BonusBreakdown lists awarded bonuses.
type BonusBreakdown struct {
	Total      float64 `json:"total"`
	WindowSync float64 `json:"window_sync"`
	Streak     float64 `json:"streak"`
	Hydration  float64 `json:"hydration"`
}

// PenaltyBreakdown lists applied penalties as non-positive numbers.
type PenaltyBreakdown struct {
	Total            float64 `json:"total"`
	HardUnderfuel    float64 `json:"hard_underfuel"`
	BigDeficit       float64 `json:"big_deficit"`
	MissedPostWindow float64 `json:"missed_post_window"`
}

// Weights records every weight used, for auditing.
type Weights struct {
	Nutrition float64      `json:"nutrition"`
	Training  float64      `json:"training"`
	Macros    float64      `json:"macros"`
	Timing    float64      `json:"timing"`
	Structure float64      `json:"structure"`
	Macro     MacroWeights `json:"macro"`
}

// DataCompleteness reports which inputs were present.
type DataCompleteness struct {
	Reliable          bool     `json:"reliable"`
	HasFoodLogs       bool     `json:"has_food_logs"`
	HasMealPlan       bool     `json:"has_meal_plan"`
	HasTrainingPlan   bool     `json:"has_training_plan"`
	HasHeartRate      bool     `json:"has_heart_rate"`
	HasFuelingActuals bool     `json:"has_fueling_actuals"`
	MissingData       []string `json:"missing_data"`
}

// Breakdown is the auditable result of a scoring run.
type Breakdown struct {
	Date              string               `json:"date,omitempty"`
	Total             int                  `json:"total"`
	Load              targets.TrainingLoad `json:"load"`
	Strategy          Strategy             `json:"strategy"`
	ExperienceLevel   ExperienceLevel      `json:"experience_level"`
	PenaltyProfile    string               `json:"penalty_profile"`
	Nutrition         NutritionBreakdown   `json:"nutrition"`
	Training          TrainingBreakdown    `json:"training"`
	Bonuses           BonusBreakdown       `json:"bonuses"`
	Penalties         PenaltyBreakdown     `json:"penalties"`
	Overconsumption   float64              `json:"overconsumption"`
	IncompletePenalty float64              `json:"incomplete_penalty"`
	Weights           Weights              `json:"weights"`
	DataCompleteness  DataCompleteness     `json:"data_completeness"`
}

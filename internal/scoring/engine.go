// Package scoring turns a day's targets, logged intake and training into a
// bounded 0-100 adherence score with an auditable breakdown.
//
// The engine is pure: it performs no I/O, keeps no mutable state and never
// reads the clock, so identical inputs always produce identical breakdowns.
package scoring

import (
	"math"

	"github.com/fdg312/fuel-score/internal/targets"
)

// Options configure an Engine.
type Options struct {
	PenaltyProfile PenaltyProfile
	// DefaultStrategy applies when a Context leaves Strategy empty.
	DefaultStrategy Strategy
	// NoFoodLogsPenalty overrides PenaltyProfile.NoFoodLogs when set.
	NoFoodLogsPenalty *float64
}

// Engine scores contexts against one penalty profile.
type Engine struct {
	profile         PenaltyProfile
	defaultStrategy Strategy
}

// NewEngine validates opts and returns an Engine.
func NewEngine(opts Options) (*Engine, error) {
	profile := opts.PenaltyProfile
	if opts.NoFoodLogsPenalty != nil {
		profile.NoFoodLogs = *opts.NoFoodLogsPenalty
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	strategy := opts.DefaultStrategy
	if strategy == "" {
		strategy = StrategyRunnerFocused
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	return &Engine{profile: profile, defaultStrategy: strategy}, nil
}

// PenaltyProfile returns the active profile.
func (e *Engine) PenaltyProfile() PenaltyProfile {
	return e.profile
}

// Score computes the breakdown of c.
func (e *Engine) Score(c Context) (Breakdown, error) {
	rc, err := resolveContext(c, e.defaultStrategy, e.profile)
	if err != nil {
		return Breakdown{}, err
	}

	nutrition, cw := scoreNutrition(rc)
	training := scoreTraining(rc)

	blend := loadBlend[rc.Load]
	if !training.Applicable || blend.Training == 0 {
		blend.Nutrition, blend.Training = 1, 0
		training.Applicable = false
	}

	b := Breakdown{
		Date:            rc.Date,
		Load:            rc.Load,
		Strategy:        rc.strategy,
		ExperienceLevel: rc.experience,
		PenaltyProfile:  rc.penalties.Name,
		Nutrition:       nutrition,
		Training:        training,
		Bonuses:         scoreBonuses(rc, nutrition.Timing),
		Penalties:       scorePenalties(rc),
		Overconsumption: scoreOverconsumption(rc),
		Weights: Weights{
			Nutrition: blend.Nutrition,
			Training:  blend.Training,
			Macros:    cw.Macros,
			Timing:    cw.Timing,
			Structure: cw.Structure,
			Macro:     rc.table.macro,
		},
		DataCompleteness: assessCompleteness(rc),
	}
	b.IncompletePenalty = incompletePenalty(b.DataCompleteness, rc.penalties.NoFoodLogs)

	raw := nutrition.Total*blend.Nutrition +
		training.Total*blend.Training +
		b.Bonuses.Total +
		b.Penalties.Total -
		b.Overconsumption +
		b.IncompletePenalty
	b.Total = clampScore(raw)
	return b, nil
}

// CalculateUnifiedScore scores c with the given penalty profile and the
// runner-focused default strategy.
func CalculateUnifiedScore(c Context, profile PenaltyProfile) (Breakdown, error) {
	e, err := NewEngine(Options{PenaltyProfile: profile})
	if err != nil {
		return Breakdown{}, err
	}
	return e.Score(c)
}

func clampScore(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// ContextForDay seeds a Context with the targets and fueling windows of dt.
func ContextForDay(dt targets.DayTarget) Context {
	return Context{
		Date:           dt.Date,
		Load:           dt.Load,
		Targets:        TargetsFromDay(dt),
		FuelingTargets: dt.Fueling.Clone(),
		HasMealPlan:    true,
	}
}

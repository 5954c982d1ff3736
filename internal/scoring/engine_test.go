package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdg312/fuel-score/internal/targets"
)

var runner = targets.UserProfile{WeightKg: 70, HeightCm: 175, Age: 30, Sex: targets.SexMale}

func f64(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }

func mustProfile(t *testing.T, name string) PenaltyProfile {
	t.Helper()
	p, err := PenaltyProfileByName(name)
	require.NoError(t, err)
	return p
}

func mustEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.PenaltyProfile.Name == "" {
		opts.PenaltyProfile = mustProfile(t, PenaltyProfileReduced)
	}
	e, err := NewEngine(opts)
	require.NoError(t, err)
	return e
}

// perfectDay returns a context where every logged value matches the plan.
func perfectDay(t *testing.T, load targets.TrainingLoad) Context {
	t.Helper()
	dt, err := targets.ComputeDayTarget(runner, load, "2026-10-16")
	require.NoError(t, err)

	c := ContextForDay(dt)
	c.Actuals = c.Targets
	c.HasFoodLogs = true
	for _, m := range dt.Meals {
		c.Meals = append(c.Meals, MealIntake{Type: m.Type, Kcal: float64(m.Kcal)})
	}
	if fw := dt.Fueling; fw != nil {
		if fw.Pre != nil {
			c.FuelingActuals.Pre = &WindowIntake{ChoG: float64(fw.Pre.ChoG), InWindow: true}
		}
		if fw.DuringChoGPerHour != nil {
			c.FuelingActuals.During = &WindowIntake{ChoG: *fw.DuringChoGPerHour, InWindow: true}
		}
		if fw.Post != nil {
			c.FuelingActuals.Post = &WindowIntake{
				ChoG:     float64(fw.Post.ChoG),
				ProteinG: float64(fw.Post.ProteinG),
				InWindow: true,
			}
		}
	}
	return c
}

/* ─── scenarios ─── */

func TestScore_PerfectRestDay(t *testing.T) {
	b, err := mustEngine(t, Options{}).Score(perfectDay(t, targets.LoadRest))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, b.Total, 97)
	assert.LessOrEqual(t, b.Total, 100)
	assert.InDelta(t, 100, b.Nutrition.Macros.Total, 1e-6)
	assert.False(t, b.Nutrition.Timing.Applicable)
	assert.Equal(t, 100.0, b.Nutrition.Structure)
	assert.Equal(t, 0.0, b.Weights.Timing)
	assert.InDelta(t, 0.85, b.Weights.Macros, 1e-9)
	assert.Equal(t, 1.0, b.Weights.Nutrition)
	assert.True(t, b.DataCompleteness.Reliable)
}

func TestScore_PerfectModerateDayEarnsWindowSync(t *testing.T) {
	b, err := mustEngine(t, Options{}).Score(perfectDay(t, targets.LoadModerate))
	require.NoError(t, err)

	assert.Equal(t, 100, b.Total)
	assert.True(t, b.Nutrition.Timing.Applicable)
	require.NotNil(t, b.Nutrition.Timing.Pre)
	assert.Nil(t, b.Nutrition.Timing.During)
	require.NotNil(t, b.Nutrition.Timing.Post)
	assert.Equal(t, 100.0, *b.Nutrition.Timing.Post)
	assert.Equal(t, windowSyncBonus, b.Bonuses.WindowSync)
	assert.Equal(t, 0.0, b.Penalties.Total)
}

func TestScore_OverconsumptionRunnerFocused(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.Strategy = StrategyRunnerFocused
	c.Actuals.Calories = c.Targets.Calories * 1.2

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)

	assert.Equal(t, OverconsumptionPenalty, b.Overconsumption)
	assert.Equal(t, 60.0, b.Nutrition.Macros.Calories)
	assert.InDelta(t, 88, b.Nutrition.Macros.Total, 1e-6)
	assert.Equal(t, 89, b.Total)
}

func TestScore_OverconsumptionThresholdPerStrategy(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.Actuals.Calories = c.Targets.Calories * 1.12
	e := mustEngine(t, Options{})

	c.Strategy = StrategyRunnerFocused
	b, err := e.Score(c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Overconsumption)

	c.Strategy = StrategyGeneral
	b, err = e.Score(c)
	require.NoError(t, err)
	assert.Equal(t, OverconsumptionPenalty, b.Overconsumption)
}

func TestScore_NoFoodLogsIsUnreliable(t *testing.T) {
	c := perfectDay(t, targets.LoadRest)
	c.HasFoodLogs = false

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)
	assert.False(t, b.DataCompleteness.Reliable)
	assert.Contains(t, b.DataCompleteness.MissingData, MissingFoodLogs)
	assert.Equal(t, -15.0, b.IncompletePenalty)
	assert.Equal(t, 85, b.Total)

	strict := mustEngine(t, Options{PenaltyProfile: mustProfile(t, PenaltyProfileStrict)})
	b, err = strict.Score(c)
	require.NoError(t, err)
	assert.Equal(t, 75, b.Total)

	override := mustEngine(t, Options{NoFoodLogsPenalty: f64(-40)})
	b, err = override.Score(c)
	require.NoError(t, err)
	assert.Equal(t, -40.0, b.IncompletePenalty)
	assert.Equal(t, 60, b.Total)
}

func TestScore_MissingMealPlanStillScores(t *testing.T) {
	e := mustEngine(t, Options{})
	withPlan, err := e.Score(perfectDay(t, targets.LoadEasy))
	require.NoError(t, err)

	c := perfectDay(t, targets.LoadEasy)
	c.HasMealPlan = false
	b, err := e.Score(c)
	require.NoError(t, err)

	assert.Equal(t, withPlan.Total, b.Total)
	assert.True(t, b.DataCompleteness.Reliable)
	assert.Contains(t, b.DataCompleteness.MissingData, MissingMealPlan)
}

/* ─── components ─── */

func TestScoreMacro_Ladder(t *testing.T) {
	beginner := toleranceLadders[ExperienceBeginner]
	intermediate := toleranceLadders[ExperienceIntermediate]
	advanced := toleranceLadders[ExperienceAdvanced]

	assert.Equal(t, 0.0, scoreMacro(0, 50, intermediate))
	assert.Equal(t, 0.0, scoreMacro(0, 0, intermediate))
	assert.Equal(t, 0.0, scoreMacro(-10, 0, intermediate))

	assert.Equal(t, 100.0, scoreMacro(100, 108, beginner))
	assert.Equal(t, 80.0, scoreMacro(100, 108, intermediate))
	assert.Equal(t, 80.0, scoreMacro(100, 92, advanced))

	assert.Equal(t, 20.0, scoreMacro(100, 145, beginner))
	assert.Equal(t, 0.0, scoreMacro(100, 145, intermediate))
	assert.Equal(t, 0.0, scoreMacro(100, 200, beginner))
}

func TestScoreWindow_Bands(t *testing.T) {
	assert.Equal(t, 100.0, scoreWindow(1.3, true))
	assert.Equal(t, 80.0, scoreWindow(0.75, true))
	assert.Equal(t, 60.0, scoreWindow(0.6, true))
	assert.Equal(t, 45.0, scoreWindow(0.3, true))
	assert.Equal(t, 30.0, scoreWindow(0.1, true))
	assert.Equal(t, 0.0, scoreWindow(0, true))

	assert.Equal(t, 60.0, scoreWindow(1.0, false))
	assert.Equal(t, 40.0, scoreWindow(0.6, false))
	assert.Equal(t, 20.0, scoreWindow(0.2, false))
}

func TestScoreStructure(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	rc, err := resolveContext(c, StrategyRunnerFocused, mustProfile(t, PenaltyProfileReduced))
	require.NoError(t, err)
	assert.Equal(t, 100.0, scoreStructure(rc))

	rc.Meals = []MealIntake{
		{Type: targets.MealBreakfast, Kcal: 400},
		{Type: targets.MealLunch, Kcal: 600},
		{Type: targets.MealDinner, Kcal: 700},
	}
	assert.Equal(t, 75.0, scoreStructure(rc), "snack required on training days")

	rc.Meals = []MealIntake{
		{Type: targets.MealBreakfast, Kcal: 100},
		{Type: targets.MealLunch, Kcal: 100},
		{Type: targets.MealDinner, Kcal: 1400},
		{Type: targets.MealSnack, Kcal: 100},
	}
	assert.Equal(t, 70.0, scoreStructure(rc), "dominant meal caps the score")

	rc.Meals = nil
	assert.Equal(t, 0.0, scoreStructure(rc))
}

func TestScoreTraining(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.TrainingPlan = &TrainingPlan{Type: "run", DurationMin: 60, Intensity: IntensityMedium}
	c.TrainingActual = &TrainingActual{Type: "easy_run", DurationMin: 58, AvgHR: f64(140), MaxHR: f64(190)}

	e := mustEngine(t, Options{})
	b, err := e.Score(c)
	require.NoError(t, err)
	assert.True(t, b.Training.Applicable)
	assert.Equal(t, 100.0, b.Training.Completion)
	assert.Equal(t, 100.0, b.Training.TypeMatch)
	assert.Equal(t, 100.0, b.Training.Intensity)
	assert.InDelta(t, 100, b.Training.Total, 1e-9)
	assert.Equal(t, 0.65, b.Weights.Nutrition)
	assert.Equal(t, 0.35, b.Weights.Training)
	assert.True(t, b.DataCompleteness.HasHeartRate)

	c.TrainingActual = &TrainingActual{Type: "ride", DurationMin: 40}
	b, err = e.Score(c)
	require.NoError(t, err)
	assert.Equal(t, 60.0, b.Training.Completion)
	assert.Equal(t, 0.0, b.Training.TypeMatch)
	assert.InDelta(t, 45, b.Training.Total, 1e-9)
	assert.Contains(t, b.DataCompleteness.MissingData, MissingHeartRate)

	c.TrainingPlan.Intensity = IntensityHigh
	c.TrainingActual = &TrainingActual{Type: "run", DurationMin: 60, AvgHR: f64(120), MaxHR: f64(190)}
	b, err = e.Score(c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Training.Intensity)

	c.TrainingActual = nil
	b, err = e.Score(c)
	require.NoError(t, err)
	assert.True(t, b.Training.Applicable)
	assert.Equal(t, 0.0, b.Training.Total)
}

func TestScore_LongDayBlend(t *testing.T) {
	c := perfectDay(t, targets.LoadLong)
	c.TrainingPlan = &TrainingPlan{Type: "long_run", DurationMin: 120}
	c.TrainingActual = &TrainingActual{Type: "run", DurationMin: 125}

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)
	assert.Equal(t, 0.55, b.Weights.Nutrition)
	assert.Equal(t, 0.45, b.Weights.Training)
	assert.Equal(t, 100, b.Total)
}

func TestScore_BonusCap(t *testing.T) {
	c := perfectDay(t, targets.LoadRest)
	c.Actuals.Calories = c.Targets.Calories * 0.7
	c.Flags = &Flags{WindowSyncAll: boolPtr(true), StreakDays: 12, HydrationMet: true}

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)
	assert.Equal(t, 5.0, b.Bonuses.WindowSync)
	assert.Equal(t, 5.0, b.Bonuses.Streak)
	assert.Equal(t, 2.0, b.Bonuses.Hydration)
	assert.Equal(t, 10.0, b.Bonuses.Total)
}

func TestScore_PenaltiesUseProfileFloor(t *testing.T) {
	c := perfectDay(t, targets.LoadLong)
	c.Actuals.CarbsG = c.Targets.CarbsG * 0.4
	c.Actuals.Calories = c.Targets.Calories - 800
	c.FuelingActuals.Post = nil

	reduced, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)
	assert.Equal(t, -5.0, reduced.Penalties.HardUnderfuel)
	assert.Equal(t, -3.0, reduced.Penalties.BigDeficit)
	assert.Equal(t, -2.0, reduced.Penalties.MissedPostWindow)
	assert.Equal(t, -10.0, reduced.Penalties.Total)

	strict, err := mustEngine(t, Options{PenaltyProfile: mustProfile(t, PenaltyProfileStrict)}).Score(c)
	require.NoError(t, err)
	assert.Equal(t, -25.0, strict.Penalties.Total)
	assert.Equal(t, PenaltyProfileStrict, strict.PenaltyProfile)
	assert.Less(t, strict.Total, reduced.Total)
}

func TestScore_FlagsOverrideDerivedPenalties(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.Flags = &Flags{BigDeficit: boolPtr(true)}

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)
	assert.Equal(t, -3.0, b.Penalties.BigDeficit)
}

func TestScore_NoFuelingActualsMovesTimingWeight(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.FuelingActuals = FuelingActuals{}

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)

	assert.False(t, b.Nutrition.Timing.Applicable)
	assert.Nil(t, b.Nutrition.Timing.Pre)
	assert.Nil(t, b.Nutrition.Timing.Post)
	assert.Equal(t, 0.0, b.Weights.Timing)
	assert.InDelta(t, 0.85, b.Weights.Macros, 1e-9)
	assert.Equal(t, 0.0, b.Penalties.MissedPostWindow)
	assert.Equal(t, 0.0, b.Bonuses.WindowSync)
	assert.Equal(t, 100, b.Total)
	assert.False(t, b.DataCompleteness.HasFuelingActuals)
	assert.Contains(t, b.DataCompleteness.MissingData, MissingFuelingActuals)
}

func TestScore_PartialFuelingActualsScoreMissingWindowsAsZero(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.FuelingActuals.Post = nil

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)

	assert.True(t, b.Nutrition.Timing.Applicable)
	require.NotNil(t, b.Nutrition.Timing.Post)
	assert.Equal(t, 0.0, *b.Nutrition.Timing.Post)
	assert.Equal(t, -2.0, b.Penalties.MissedPostWindow)
	assert.True(t, b.DataCompleteness.HasFuelingActuals)
}

func TestScore_OutOfWindowIsCapped(t *testing.T) {
	c := perfectDay(t, targets.LoadModerate)
	c.FuelingActuals.Pre.InWindow = false

	b, err := mustEngine(t, Options{}).Score(c)
	require.NoError(t, err)
	require.NotNil(t, b.Nutrition.Timing.Pre)
	assert.Equal(t, 60.0, *b.Nutrition.Timing.Pre)
	assert.Equal(t, 0.0, b.Bonuses.WindowSync)
}

/* ─── properties ─── */

func TestScore_Deterministic(t *testing.T) {
	c := perfectDay(t, targets.LoadQuality)
	c.Actuals.ProteinG *= 0.8
	c.TrainingPlan = &TrainingPlan{Type: "interval", DurationMin: 70, Intensity: IntensityHigh}
	c.TrainingActual = &TrainingActual{Type: "run", DurationMin: 50, AvgHR: f64(170), MaxHR: f64(192)}

	e := mustEngine(t, Options{})
	first, err := e.Score(c)
	require.NoError(t, err)
	second, err := e.Score(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScore_AlwaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	strategies := []Strategy{StrategyRunnerFocused, StrategyGeneral, StrategyMealLevel}
	engines := []*Engine{
		mustEngine(t, Options{}),
		mustEngine(t, Options{PenaltyProfile: mustProfile(t, PenaltyProfileStrict)}),
	}

	for i := 0; i < 500; i++ {
		load := targets.AllLoads[rng.Intn(len(targets.AllLoads))]
		c := perfectDay(t, load)
		c.Strategy = strategies[rng.Intn(len(strategies))]
		c.Actuals = NutritionValues{
			Calories: rng.Float64() * 6000,
			ProteinG: rng.Float64() * 300,
			CarbsG:   rng.Float64() * 900,
			FatG:     rng.Float64() * 250,
		}
		c.HasFoodLogs = rng.Intn(2) == 0
		c.Flags = &Flags{StreakDays: rng.Intn(20), HydrationMet: rng.Intn(2) == 0}
		if rng.Intn(2) == 0 {
			c.TrainingPlan = &TrainingPlan{Type: "run", DurationMin: 60}
			c.TrainingActual = &TrainingActual{Type: "ride", DurationMin: rng.Float64() * 90}
		}

		b, err := engines[i%2].Score(c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.Total, 0)
		assert.LessOrEqual(t, b.Total, 100)
	}
}

func TestScore_InvalidInput(t *testing.T) {
	e := mustEngine(t, Options{})
	cases := map[string]func(c *Context){
		"unknown load":       func(c *Context) { c.Load = "tempo" },
		"unknown strategy":   func(c *Context) { c.Strategy = "balanced" },
		"unknown experience": func(c *Context) { c.ExperienceLevel = "elite" },
		"negative actuals":   func(c *Context) { c.Actuals.CarbsG = -1 },
		"unknown intensity": func(c *Context) {
			c.TrainingPlan = &TrainingPlan{Type: "run", DurationMin: 30, Intensity: "max"}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := perfectDay(t, targets.LoadEasy)
			mutate(&c)
			_, err := e.Score(c)
			assert.ErrorIs(t, err, targets.ErrInvalidArgument)
		})
	}

	_, err := NewEngine(Options{PenaltyProfile: PenaltyProfile{Name: "lenient", HardUnderfuel: 5}})
	assert.ErrorIs(t, err, targets.ErrInvalidArgument)

	_, err = PenaltyProfileByName("gentle")
	assert.ErrorIs(t, err, targets.ErrInvalidArgument)
}

func TestCalculateUnifiedScore_ProfileIsExplicit(t *testing.T) {
	c := perfectDay(t, targets.LoadRest)
	c.HasFoodLogs = false

	reduced, err := CalculateUnifiedScore(c, mustProfile(t, PenaltyProfileReduced))
	require.NoError(t, err)
	strict, err := CalculateUnifiedScore(c, mustProfile(t, PenaltyProfileStrict))
	require.NoError(t, err)
	again, err := CalculateUnifiedScore(c, mustProfile(t, PenaltyProfileReduced))
	require.NoError(t, err)

	assert.Equal(t, 85, reduced.Total)
	assert.Equal(t, 75, strict.Total)
	assert.Equal(t, reduced, again)
}

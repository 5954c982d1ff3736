package scoring

import (
	"fmt"

	"github.com/fdg312/fuel-score/internal/targets"
)

// resolvedContext is a Context with every optional field filled in once.
// Component scorers read only from it.
type resolvedContext struct {
	Context

	strategy   Strategy
	table      strategyTable
	experience ExperienceLevel
	ladder     [5]float64
	penalties  PenaltyProfile

	hasHeartRate bool

	windowSyncForced *bool
	streakDays       int
	hydrationMet     bool
	hardUnderfuel    bool
	bigDeficit       bool
	missedPostWindow bool
}

func resolveContext(c Context, defaultStrategy Strategy, profile PenaltyProfile) (resolvedContext, error) {
	if !c.Load.Valid() {
		return resolvedContext{}, fmt.Errorf("%w: unknown training load %q", targets.ErrInvalidArgument, c.Load)
	}
	if err := validateValues("targets", c.Targets); err != nil {
		return resolvedContext{}, err
	}
	if err := validateValues("actuals", c.Actuals); err != nil {
		return resolvedContext{}, err
	}
	if err := profile.Validate(); err != nil {
		return resolvedContext{}, err
	}

	strategy := c.Strategy
	if strategy == "" {
		strategy = defaultStrategy
	}
	table, ok := strategyTables[strategy]
	if !ok {
		return resolvedContext{}, fmt.Errorf("%w: unknown scoring strategy %q", targets.ErrInvalidArgument, strategy)
	}

	experience := c.ExperienceLevel
	if experience == "" {
		experience = ExperienceIntermediate
	}
	ladder, ok := toleranceLadders[experience]
	if !ok {
		return resolvedContext{}, fmt.Errorf("%w: unknown experience level %q", targets.ErrInvalidArgument, experience)
	}

	if c.TrainingPlan != nil && c.TrainingPlan.Intensity != "" {
		if _, ok := c.TrainingPlan.Intensity.step(); !ok {
			return resolvedContext{}, fmt.Errorf("%w: unknown intensity %q", targets.ErrInvalidArgument, c.TrainingPlan.Intensity)
		}
	}

	rc := resolvedContext{
		Context:    c,
		strategy:   strategy,
		table:      table,
		experience: experience,
		ladder:     ladder,
		penalties:  profile,
	}
	rc.hasHeartRate = c.TrainingActual != nil &&
		c.TrainingActual.AvgHR != nil && c.TrainingActual.MaxHR != nil &&
		*c.TrainingActual.AvgHR > 0 && *c.TrainingActual.MaxHR > 0

	flags := Flags{}
	if c.Flags != nil {
		flags = *c.Flags
	}
	rc.windowSyncForced = flags.WindowSyncAll
	if flags.StreakDays > 0 {
		rc.streakDays = flags.StreakDays
	}
	rc.hydrationMet = flags.HydrationMet

	// Without food logs the actuals are not a measured deficit.
	measured := c.HasFoodLogs
	rc.hardUnderfuel = pick(flags.HardUnderfuel, measured &&
		c.Load.IsHighLoad() && c.Targets.CarbsG > 0 &&
		c.Actuals.CarbsG < hardUnderfuelCarbRatio*c.Targets.CarbsG)
	rc.bigDeficit = pick(flags.BigDeficit, measured &&
		c.Targets.Calories-c.Actuals.Calories >= bigDeficitKcal)
	rc.missedPostWindow = pick(flags.MissedPostWindow, measured && c.FuelingActuals.any() && postApplicable(c.FuelingTargets) &&
		(c.FuelingActuals.Post == nil || c.FuelingActuals.Post.ChoG <= 0 || !c.FuelingActuals.Post.InWindow))

	return rc, nil
}

func validateValues(field string, v NutritionValues) error {
	if v.Calories < 0 || v.ProteinG < 0 || v.CarbsG < 0 || v.FatG < 0 {
		return fmt.Errorf("%w: %s must not be negative", targets.ErrInvalidArgument, field)
	}
	return nil
}

func pick(forced *bool, derived bool) bool {
	if forced != nil {
		return *forced
	}
	return derived
}

func preApplicable(w *targets.FuelingWindow) bool {
	return w != nil && w.Pre != nil && w.Pre.ChoG > 0
}

func duringApplicable(w *targets.FuelingWindow) bool {
	return w != nil && w.DuringChoGPerHour != nil && *w.DuringChoGPerHour > 0
}

func postApplicable(w *targets.FuelingWindow) bool {
	return w != nil && w.Post != nil && w.Post.ChoG > 0
}

package scoring

import "github.com/fdg312/fuel-score/internal/targets"

// Missing data keys reported in DataCompleteness.MissingData.
const (
	MissingFoodLogs       = "food_logs"
	MissingMealPlan       = "meal_plan"
	MissingTrainingPlan   = "training_plan"
	MissingHeartRate      = "heart_rate"
	MissingFuelingActuals = "fueling_actuals"
)

// assessCompleteness reports which inputs were present. Only missing food logs
// make a score unreliable; a missing meal plan never suppresses it.
func assessCompleteness(rc resolvedContext) DataCompleteness {
	dc := DataCompleteness{
		Reliable:          rc.HasFoodLogs,
		HasFoodLogs:       rc.HasFoodLogs,
		HasMealPlan:       rc.HasMealPlan,
		HasTrainingPlan:   rc.TrainingPlan != nil,
		HasHeartRate:      rc.hasHeartRate,
		HasFuelingActuals: rc.FuelingActuals.any(),
		MissingData:       []string{},
	}
	if !dc.HasFoodLogs {
		dc.MissingData = append(dc.MissingData, MissingFoodLogs)
	}
	if !dc.HasMealPlan {
		dc.MissingData = append(dc.MissingData, MissingMealPlan)
	}
	if !dc.HasTrainingPlan && rc.Load != targets.LoadRest {
		dc.MissingData = append(dc.MissingData, MissingTrainingPlan)
	}
	if rc.TrainingActual != nil && !dc.HasHeartRate {
		dc.MissingData = append(dc.MissingData, MissingHeartRate)
	}
	if !dc.HasFuelingActuals && (preApplicable(rc.FuelingTargets) || duringApplicable(rc.FuelingTargets) || postApplicable(rc.FuelingTargets)) {
		dc.MissingData = append(dc.MissingData, MissingFuelingActuals)
	}
	return dc
}

func incompletePenalty(dc DataCompleteness, noFoodLogs float64) float64 {
	if dc.HasFoodLogs {
		return 0
	}
	return noFoodLogs
}

package scoring

import "strings"

// sessionFamilies groups activity types that count as the same kind of work.
var sessionFamilies = map[string]string{
	"run":       "run",
	"running":   "run",
	"easy_run":  "run",
	"long_run":  "run",
	"tempo":     "run",
	"interval":  "run",
	"intervals": "run",
	"race":      "run",
	"trail":     "run",
	"trail_run": "run",
	"ride":      "ride",
	"cycling":   "ride",
	"bike":      "ride",
	"swim":      "swim",
	"swimming":  "swim",
	"strength":  "strength",
	"gym":       "strength",
	"core":      "strength",
	"walk":      "walk",
	"walking":   "walk",
	"hike":      "walk",
}

// SessionFamily returns the family of an activity type, or the normalized type itself.
func SessionFamily(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	if f, ok := sessionFamilies[k]; ok {
		return f
	}
	return k
}

// IntensityFromHeartRate buckets an average heart rate by its share of max HR.
func IntensityFromHeartRate(avgHR, maxHR float64) Intensity {
	ratio := avgHR / maxHR
	switch {
	case ratio < lowIntensityMaxRatio:
		return IntensityLow
	case ratio < mediumIntensityMaxRatio:
		return IntensityMedium
	default:
		return IntensityHigh
	}
}

func scoreCompletion(planned, actual float64) float64 {
	if planned <= 0 {
		return 100
	}
	ratio := actual / planned
	switch {
	case ratio >= completionFullRatio:
		return 100
	case ratio >= completionPartialRatio:
		return completionPartialScore
	default:
		return 0
	}
}

func scoreIntensity(planned, actual Intensity) float64 {
	p, _ := planned.step()
	a, _ := actual.step()
	switch d := p - a; {
	case d == 0:
		return 100
	case d == 1 || d == -1:
		return intensityOneStepScore
	default:
		return 0
	}
}

// scoreTraining compares the planned and performed session. Without a plan the
// component does not apply.
func scoreTraining(rc resolvedContext) TrainingBreakdown {
	plan := rc.TrainingPlan
	if plan == nil {
		return TrainingBreakdown{}
	}
	b := TrainingBreakdown{Applicable: true}
	actual := rc.TrainingActual
	if actual == nil {
		return b
	}

	b.Completion = scoreCompletion(plan.DurationMin, actual.DurationMin)
	if SessionFamily(plan.Type) == SessionFamily(actual.Type) {
		b.TypeMatch = 100
	}

	if rc.hasHeartRate && plan.Intensity != "" {
		b.Intensity = scoreIntensity(plan.Intensity, IntensityFromHeartRate(*actual.AvgHR, *actual.MaxHR))
		b.Total = b.Completion*completionWeight + b.TypeMatch*typeMatchWeight + b.Intensity*intensityWeight
		return b
	}
	b.Total = b.Completion*(completionWeight+intensityWeight) + b.TypeMatch*typeMatchWeight
	return b
}

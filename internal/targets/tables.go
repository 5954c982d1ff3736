package targets

// Science constants. Every number the engine uses for energy, macros, meals and
// fueling lives in this file; other packages read them from here.

const (
	kcalPerGramCHO     = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9

	// FatFloorShare is the minimum share of daily kcal that must come from fat.
	FatFloorShare = 0.20

	// Mifflin-St Jeor sex constants.
	bmrMaleOffset   = 5.0
	bmrFemaleOffset = -161.0
)

// activityFactors multiply BMR into TDEE.
var activityFactors = map[TrainingLoad]float64{
	LoadRest:     1.4,
	LoadEasy:     1.6,
	LoadModerate: 1.8,
	LoadLong:     2.0,
	LoadQuality:  2.1,
}

// PerKg is a macronutrient target expressed per kilogram of body weight.
type PerKg struct {
	ChoGPerKg     float64 `json:"cho_g_per_kg"`
	ProteinGPerKg float64 `json:"protein_g_per_kg"`
}

// macroPerKg holds the midpoints of the published ranges:
//
//	rest      CHO 3-5   protein 1.4-1.8
//	easy      CHO 5-6   protein 1.5-1.9
//	moderate  CHO 6-8   protein 1.6-2.0
//	long      CHO 8-10  protein 1.7-2.1
//	quality   CHO 7-9   protein 1.8-2.2
var macroPerKg = map[TrainingLoad]PerKg{
	LoadRest:     {ChoGPerKg: 4.0, ProteinGPerKg: 1.6},
	LoadEasy:     {ChoGPerKg: 5.5, ProteinGPerKg: 1.7},
	LoadModerate: {ChoGPerKg: 7.0, ProteinGPerKg: 1.8},
	LoadLong:     {ChoGPerKg: 9.0, ProteinGPerKg: 1.9},
	LoadQuality:  {ChoGPerKg: 8.0, ProteinGPerKg: 2.0},
}

// MealRatios is the share of the day assigned to each meal slot.
type MealRatios struct {
	Breakfast float64 `json:"breakfast"`
	Lunch     float64 `json:"lunch"`
	Dinner    float64 `json:"dinner"`
	Snack     float64 `json:"snack"`
}

// For returns the ratio of a single meal type.
func (r MealRatios) For(m MealType) float64 {
	switch m {
	case MealBreakfast:
		return r.Breakfast
	case MealLunch:
		return r.Lunch
	case MealDinner:
		return r.Dinner
	case MealSnack:
		return r.Snack
	}
	return 0
}

var (
	restMealRatios     = MealRatios{Breakfast: 0.30, Lunch: 0.35, Dinner: 0.35}
	trainingMealRatios = MealRatios{Breakfast: 0.25, Lunch: 0.30, Dinner: 0.30, Snack: 0.15}
)

// Fueling window constants.
const (
	preHoursBefore = 3.0

	// DuringChoGPerHour applies to long and quality sessions.
	DuringChoGPerHour = 45.0

	postMinutesAfter  = 60
	postChoGPerKg     = 1.0
	postProteinGPerKg = 0.3
)

// preChoGPerKg is the pre-session carbohydrate load per kilogram.
var preChoGPerKg = map[TrainingLoad]float64{
	LoadEasy:     1.0,
	LoadModerate: 1.5,
	LoadLong:     2.5,
	LoadQuality:  2.0,
}

// Race-day fueling floors. Adjusters raise windows to at least these values.
const (
	RacePreChoGPerKg      = 3.0
	RacePreHoursBefore    = preHoursBefore
	RaceDuringChoGPerHour = 60.0
	RacePostChoGPerKg     = 1.2
	RacePostProteinGPerKg = postProteinGPerKg
	RacePostMinutesAfter  = postMinutesAfter
)

// Goal and phase energy adjustments, as fractions of daily kcal.
const (
	RaceGoalFatToChoShare  = 0.05
	WeightLossKcalFactor   = 0.90
	WeightLossProteinScale = 1.10
	GainMuscleKcalFactor   = 1.05
	GainMuscleProteinScale = 1.15

	BuildHighLoadKcalShare = 0.05
	PeakFatToChoShare      = 0.05
	TaperKcalFactor        = 0.90
)

// ActivityFactor returns the TDEE multiplier of a load.
func ActivityFactor(l TrainingLoad) (float64, bool) {
	f, ok := activityFactors[l]
	return f, ok
}

// MacroTargetsPerKg returns the per-kg macro midpoints of a load.
func MacroTargetsPerKg(l TrainingLoad) (PerKg, bool) {
	m, ok := macroPerKg[l]
	return m, ok
}

// MealRatiosFor returns the meal split of a load. Rest days have no snack.
func MealRatiosFor(l TrainingLoad) MealRatios {
	if l == LoadRest {
		return restMealRatios
	}
	return trainingMealRatios
}

package scoring

import (
	"fmt"
	"strings"

	"github.com/fdg312/fuel-score/internal/targets"
)

// MacroWeights weight the four macro scores; they sum to 1.
type MacroWeights struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// componentWeights split the nutrition score across macros, timing and structure.
type componentWeights struct {
	Macros    float64
	Timing    float64
	Structure float64
}

type strategyTable struct {
	macro      MacroWeights
	components componentWeights
	// overconsumptionThreshold is the calories ratio above which the day is over.
	overconsumptionThreshold float64
}

var strategyTables = map[Strategy]strategyTable{
	StrategyRunnerFocused: {
		macro:                    MacroWeights{Calories: 0.3, Protein: 0.2, Carbs: 0.4, Fat: 0.1},
		components:               componentWeights{Macros: 0.5, Timing: 0.35, Structure: 0.15},
		overconsumptionThreshold: 1.15,
	},
	StrategyGeneral: {
		macro:                    MacroWeights{Calories: 0.4, Protein: 0.3, Carbs: 0.2, Fat: 0.1},
		components:               componentWeights{Macros: 0.7, Timing: 0.1, Structure: 0.2},
		overconsumptionThreshold: 1.10,
	},
	StrategyMealLevel: {
		macro:                    MacroWeights{Calories: 0.25, Protein: 0.25, Carbs: 0.25, Fat: 0.25},
		components:               componentWeights{Macros: 0.5, Timing: 0.1, Structure: 0.4},
		overconsumptionThreshold: 1.12,
	},
}

// OverconsumptionPenalty is subtracted when calories exceed the strategy threshold.
const OverconsumptionPenalty = 10.0

// toleranceLadders are the error fractions of the five macro bands.
var toleranceLadders = map[ExperienceLevel][5]float64{
	ExperienceBeginner:     {0.10, 0.20, 0.30, 0.40, 0.50},
	ExperienceIntermediate: {0.075, 0.15, 0.225, 0.30, 0.40},
	ExperienceAdvanced:     {0.05, 0.10, 0.15, 0.20, 0.30},
}

var macroBandScores = [5]float64{100, 80, 60, 40, 20}

// Timing window weights.
const (
	preWindowWeight    = 0.4
	duringWindowWeight = 0.4
	postWindowWeight   = 0.2
)

type ratioBand struct {
	minRatio float64
	score    float64
}

// Intake ratio bands. Anything above zero below the last band scores the floor value.
var (
	inWindowBands  = []ratioBand{{0.9, 100}, {0.7, 80}, {0.5, 60}, {0.25, 45}}
	inWindowFloor  = 30.0
	outWindowBands = []ratioBand{{0.9, 60}, {0.5, 40}}
	outWindowFloor = 20.0
)

// Structure scoring.
const (
	mealSlotPoints       = 25.0
	dominantMealShare    = 0.60
	dominantMealScoreCap = 70.0
)

// Training scoring.
const (
	completionFullRatio    = 0.9
	completionPartialRatio = 0.5
	completionPartialScore = 60.0

	completionWeight = 0.60
	typeMatchWeight  = 0.25
	intensityWeight  = 0.15

	intensityOneStepScore = 60.0
)

// Heart-rate zones as a fraction of max HR.
const (
	lowIntensityMaxRatio    = 0.70
	mediumIntensityMaxRatio = 0.82
)

// loadBlend splits the total between nutrition and training.
var loadBlend = map[targets.TrainingLoad]struct{ Nutrition, Training float64 }{
	targets.LoadRest:     {1.0, 0.0},
	targets.LoadEasy:     {0.70, 0.30},
	targets.LoadModerate: {0.65, 0.35},
	targets.LoadLong:     {0.55, 0.45},
	targets.LoadQuality:  {0.60, 0.40},
}

// Bonuses.
const (
	windowSyncBonus   = 5.0
	streakBonusPerDay = 1.0
	streakBonusMax    = 5.0
	hydrationBonus    = 2.0
	bonusCap          = 10.0
)

// Penalty triggers.
const (
	hardUnderfuelCarbRatio = 0.60
	bigDeficitKcal         = 500.0
)

// PenaltyProfile holds the values of each penalty. All values are non-positive.
type PenaltyProfile struct {
	Name             string  `json:"name"`
	HardUnderfuel    float64 `json:"hard_underfuel"`
	BigDeficit       float64 `json:"big_deficit"`
	MissedPostWindow float64 `json:"missed_post_window"`
	// Floor bounds the sum of the three penalties above.
	Floor      float64 `json:"floor"`
	NoFoodLogs float64 `json:"no_food_logs"`
}

const (
	PenaltyProfileReduced = "reduced"
	PenaltyProfileStrict  = "strict"
)

// PenaltyProfileByName returns a copy of a named profile.
func PenaltyProfileByName(name string) (PenaltyProfile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PenaltyProfileReduced:
		return PenaltyProfile{
			Name:             PenaltyProfileReduced,
			HardUnderfuel:    -5,
			BigDeficit:       -3,
			MissedPostWindow: -2,
			Floor:            -10,
			NoFoodLogs:       -15,
		}, nil
	case PenaltyProfileStrict:
		return PenaltyProfile{
			Name:             PenaltyProfileStrict,
			HardUnderfuel:    -15,
			BigDeficit:       -10,
			MissedPostWindow: -5,
			Floor:            -25,
			NoFoodLogs:       -25,
		}, nil
	}
	return PenaltyProfile{}, fmt.Errorf("%w: unknown penalty profile %q", targets.ErrInvalidArgument, name)
}

// Validate checks that every value is non-positive.
func (p PenaltyProfile) Validate() error {
	for name, v := range map[string]float64{
		"hard_underfuel":     p.HardUnderfuel,
		"big_deficit":        p.BigDeficit,
		"missed_post_window": p.MissedPostWindow,
		"floor":              p.Floor,
		"no_food_logs":       p.NoFoodLogs,
	} {
		if v > 0 {
			return fmt.Errorf("%w: penalty %s must not be positive", targets.ErrInvalidArgument, name)
		}
	}
	return nil
}

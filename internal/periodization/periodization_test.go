package periodization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdg312/fuel-score/internal/targets"
)

var runner = targets.UserProfile{WeightKg: 70, HeightCm: 175, Age: 30, Sex: targets.SexMale}

func dayTarget(t *testing.T, load targets.TrainingLoad) targets.DayTarget {
	t.Helper()
	dt, err := targets.ComputeDayTarget(runner, load, "2026-10-16")
	require.NoError(t, err)
	return dt
}

func strPtr(s string) *string { return &s }

func TestDetermineRacePhase(t *testing.T) {
	cases := []struct {
		race string
		want RacePhase
	}{
		{"2026-10-15", PhaseOff},
		{"2026-10-16", PhaseRace},
		{"2026-10-17", PhaseTaper},
		{"2026-10-23", PhaseTaper},
		{"2026-10-24", PhasePeak},
		{"2026-11-06", PhasePeak},
		{"2026-11-07", PhaseBuild},
		{"2026-12-11", PhaseBuild},
		{"2026-12-12", PhaseBase},
	}
	for _, tc := range cases {
		got, err := DetermineRacePhase("2026-10-16", strPtr(tc.race))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "race on %s", tc.race)
	}

	got, err := DetermineRacePhase("2026-10-16", nil)
	require.NoError(t, err)
	assert.Equal(t, PhaseBase, got)

	_, err = DetermineRacePhase("2026-10-16", strPtr("soon"))
	assert.ErrorIs(t, err, targets.ErrInvalidArgument)
}

func TestAdjustForGoal_WeightLoss(t *testing.T) {
	got, err := AdjustForGoal(dayTarget(t, targets.LoadModerate), GoalWeightLoss)
	require.NoError(t, err)

	assert.Equal(t, 2670, got.Kcal)
	assert.Equal(t, 490, got.Grams.ChoG)
	assert.Equal(t, 139, got.Grams.ProteinG)
	assert.Equal(t, 60, got.Grams.FatG)
	assert.GreaterOrEqual(t, got.Grams.FatG*9*5, got.Kcal)
	assert.InDelta(t, 1.0, targets.RatioSum(got.Meals), 1e-9)
	assert.Equal(t, 670, got.Meals[0].Kcal)
}

func TestAdjustForGoal_GainMuscle(t *testing.T) {
	got, err := AdjustForGoal(dayTarget(t, targets.LoadModerate), GoalGainMuscle)
	require.NoError(t, err)

	assert.Equal(t, 3120, got.Kcal)
	assert.Equal(t, 145, got.Grams.ProteinG)
	assert.Equal(t, 70, got.Grams.FatG)
}

func TestAdjustForGoal_RaceShiftsFatToCHO(t *testing.T) {
	rest := dayTarget(t, targets.LoadRest)
	got, err := AdjustForGoal(rest, GoalHalfMarathon)
	require.NoError(t, err)

	assert.Equal(t, rest.Kcal, got.Kcal)
	assert.Equal(t, 70, got.Grams.FatG)
	assert.Equal(t, 307, got.Grams.ChoG)
	assert.GreaterOrEqual(t, got.MacroKcal(), got.Kcal-10)
}

func TestAdjustForGoal_NoGoalIsIdentity(t *testing.T) {
	dt := dayTarget(t, targets.LoadEasy)
	got, err := AdjustForGoal(dt, GoalNone)
	require.NoError(t, err)
	assert.Equal(t, dt, got)

	_, err = AdjustForGoal(dt, GoalType("bulk"))
	assert.ErrorIs(t, err, targets.ErrInvalidArgument)
}

func TestAdjustForPhase_BuildOnlyOnHighLoad(t *testing.T) {
	long, err := AdjustForPhase(dayTarget(t, targets.LoadLong), PhaseBuild)
	require.NoError(t, err)
	assert.Equal(t, 3470, long.Kcal)
	assert.Equal(t, 673, long.Grams.ChoG)
	assert.Equal(t, 78, long.Grams.FatG)

	moderate := dayTarget(t, targets.LoadModerate)
	got, err := AdjustForPhase(moderate, PhaseBuild)
	require.NoError(t, err)
	assert.Equal(t, moderate, got)
}

func TestAdjustForPhase_BuildKeepsMacroEnergy(t *testing.T) {
	goals := []GoalType{GoalNone, GoalFullMarathon, GoalWeightLoss, GoalGainMuscle}
	for _, sex := range []targets.Sex{targets.SexMale, targets.SexFemale} {
		for w := 50.0; w <= 90; w += 5 {
			for h := 160.0; h <= 190; h += 10 {
				for _, age := range []int{20, 35, 50} {
					p := targets.UserProfile{WeightKg: w, HeightCm: h, Age: age, Sex: sex}
					for _, load := range []targets.TrainingLoad{targets.LoadLong, targets.LoadQuality} {
						base, err := targets.ComputeDayTarget(p, load, "2026-10-16")
						require.NoError(t, err)
						for _, goal := range goals {
							got, err := Adjust(base, goal, PhaseBuild)
							require.NoError(t, err)
							assert.GreaterOrEqual(t, got.MacroKcal(), got.Kcal-10, "%+v %s %s", p, load, goal)
							assert.GreaterOrEqual(t, float64(got.Grams.FatG*9), 0.2*float64(got.Kcal)-1e-9, "%+v %s %s", p, load, goal)
						}
					}
				}
			}
		}
	}
}

func TestAdjustForPhase_TaperSkipsHighLoad(t *testing.T) {
	easy, err := AdjustForPhase(dayTarget(t, targets.LoadEasy), PhaseTaper)
	require.NoError(t, err)
	assert.Equal(t, 2380, easy.Kcal)
	assert.Equal(t, 53, easy.Grams.FatG)

	quality := dayTarget(t, targets.LoadQuality)
	got, err := AdjustForPhase(quality, PhaseTaper)
	require.NoError(t, err)
	assert.Equal(t, quality.Kcal, got.Kcal)
}

func TestAdjustForPhase_RaceRaisesFuelingFloors(t *testing.T) {
	long := dayTarget(t, targets.LoadLong)
	got, err := AdjustForPhase(long, PhaseRace)
	require.NoError(t, err)

	require.NotNil(t, got.Fueling)
	assert.Equal(t, 210, got.Fueling.Pre.ChoG)
	assert.Equal(t, 60.0, *got.Fueling.DuringChoGPerHour)
	assert.Equal(t, 84, got.Fueling.Post.ChoG)
	assert.Equal(t, 21, got.Fueling.Post.ProteinG)

	// input untouched
	assert.Equal(t, 175, long.Fueling.Pre.ChoG)
	assert.Equal(t, 45.0, *long.Fueling.DuringChoGPerHour)
}

func TestAdjustForPhase_RaceNeverLowers(t *testing.T) {
	dt := dayTarget(t, targets.LoadLong)
	high := 90.0
	dt.Fueling.DuringChoGPerHour = &high
	dt.Fueling.Pre.ChoG = 300

	got, err := AdjustForPhase(dt, PhaseRace)
	require.NoError(t, err)
	assert.Equal(t, 90.0, *got.Fueling.DuringChoGPerHour)
	assert.Equal(t, 300, got.Fueling.Pre.ChoG)
}

func TestAdjustForPhase_RaceOnRestCreatesWindow(t *testing.T) {
	got, err := AdjustForPhase(dayTarget(t, targets.LoadRest), PhaseRace)
	require.NoError(t, err)
	require.NotNil(t, got.Fueling)
	require.NotNil(t, got.Fueling.Pre)
	assert.Equal(t, 3.0, got.Fueling.Pre.HoursBefore)
	require.NotNil(t, got.Fueling.Post)
	assert.Equal(t, 60, got.Fueling.Post.MinutesAfter)
}

func TestAdjust_GoalThenPhase(t *testing.T) {
	dt := dayTarget(t, targets.LoadEasy)
	got, err := Adjust(dt, GoalWeightLoss, PhaseTaper)
	require.NoError(t, err)

	step, err := AdjustForGoal(dt, GoalWeightLoss)
	require.NoError(t, err)
	want, err := AdjustForPhase(step, PhaseTaper)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 2140, got.Kcal)
}

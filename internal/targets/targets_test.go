package targets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceRunner = UserProfile{WeightKg: 70, HeightCm: 175, Age: 30, Sex: SexMale}

func TestCalculateBMR(t *testing.T) {
	bmr, err := CalculateBMR(referenceRunner)
	require.NoError(t, err)
	assert.InDelta(t, 1648.75, bmr, 1e-9)

	female := UserProfile{WeightKg: 60, HeightCm: 165, Age: 35, Sex: SexFemale}
	bmr, err = CalculateBMR(female)
	require.NoError(t, err)
	assert.InDelta(t, 1295.25, bmr, 1e-9)
}

func TestComputeDayTarget_ModerateDay(t *testing.T) {
	dt, err := ComputeDayTarget(referenceRunner, LoadModerate, "2026-10-16")
	require.NoError(t, err)

	assert.Equal(t, 2970, dt.Kcal)
	assert.Equal(t, 490, dt.Grams.ChoG)
	assert.Equal(t, 126, dt.Grams.ProteinG)
	assert.Equal(t, 66, dt.Grams.FatG)
	assert.Equal(t, 70.0, dt.WeightKg)

	require.Len(t, dt.Meals, 4)
	assert.Equal(t, MealSnack, dt.Meals[3].Type)
	assert.Equal(t, 740, dt.Meals[0].Kcal)
	assert.Equal(t, 890, dt.Meals[1].Kcal)
	assert.Equal(t, 450, dt.Meals[3].Kcal)

	require.NotNil(t, dt.Fueling)
	require.NotNil(t, dt.Fueling.Pre)
	assert.Equal(t, 3.0, dt.Fueling.Pre.HoursBefore)
	assert.Equal(t, 105, dt.Fueling.Pre.ChoG)
	assert.Nil(t, dt.Fueling.DuringChoGPerHour)
	require.NotNil(t, dt.Fueling.Post)
	assert.Equal(t, 60, dt.Fueling.Post.MinutesAfter)
	assert.Equal(t, 70, dt.Fueling.Post.ChoG)
	assert.Equal(t, 21, dt.Fueling.Post.ProteinG)
}

func TestComputeDayTarget_RestDay(t *testing.T) {
	dt, err := ComputeDayTarget(referenceRunner, LoadRest, "2026-10-16")
	require.NoError(t, err)

	assert.Equal(t, 2310, dt.Kcal)
	assert.Nil(t, dt.Fueling)
	require.Len(t, dt.Meals, 3)
	for _, m := range dt.Meals {
		assert.NotEqual(t, MealSnack, m.Type)
	}
	assert.InDelta(t, 1.0, RatioSum(dt.Meals), 1e-9)
}

func TestComputeDayTarget_HighLoadHasDuringFueling(t *testing.T) {
	for _, load := range []TrainingLoad{LoadLong, LoadQuality} {
		dt, err := ComputeDayTarget(referenceRunner, load, "2026-10-16")
		require.NoError(t, err)
		require.NotNil(t, dt.Fueling, load)
		require.NotNil(t, dt.Fueling.DuringChoGPerHour, load)
		assert.Equal(t, 45.0, *dt.Fueling.DuringChoGPerHour)
	}

	long, err := ComputeDayTarget(referenceRunner, LoadLong, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 3300, long.Kcal)
	assert.Equal(t, 630, long.Grams.ChoG)
	assert.Equal(t, 133, long.Grams.ProteinG)
}

func TestComputeDayTarget_InvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		profile UserProfile
		load    TrainingLoad
		date    string
	}{
		{"zero weight", UserProfile{WeightKg: 0, HeightCm: 175, Age: 30, Sex: SexMale}, LoadEasy, "2026-10-16"},
		{"negative height", UserProfile{WeightKg: 70, HeightCm: -1, Age: 30, Sex: SexMale}, LoadEasy, "2026-10-16"},
		{"zero age", UserProfile{WeightKg: 70, HeightCm: 175, Age: 0, Sex: SexMale}, LoadEasy, "2026-10-16"},
		{"unknown sex", UserProfile{WeightKg: 70, HeightCm: 175, Age: 30, Sex: "other"}, LoadEasy, "2026-10-16"},
		{"unknown load", referenceRunner, TrainingLoad("tempo"), "2026-10-16"},
		{"bad date", referenceRunner, LoadEasy, "16/10/2026"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeDayTarget(tc.profile, tc.load, tc.date)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestMacroEnergyBounds(t *testing.T) {
	for _, sex := range []Sex{SexMale, SexFemale} {
		for w := 50.0; w <= 90; w += 10 {
			for h := 160.0; h <= 190; h += 10 {
				for age := 20; age <= 50; age += 10 {
					p := UserProfile{WeightKg: w, HeightCm: h, Age: age, Sex: sex}
					for _, load := range AllLoads {
						dt, err := ComputeDayTarget(p, load, "2026-10-16")
						require.NoError(t, err)
						assert.GreaterOrEqual(t, dt.MacroKcal(), dt.Kcal-10, "underfueled %+v %s", p, load)
						assert.GreaterOrEqual(t, dt.Grams.FatG*9*5, dt.Kcal, "fat floor %+v %s", p, load)
						assert.InDelta(t, 1.0, RatioSum(dt.Meals), 1e-9)
					}
				}
			}
		}
	}
}

func TestMacroEnergyUpperTolerance_ReferenceRunner(t *testing.T) {
	for _, load := range AllLoads {
		dt, err := ComputeDayTarget(referenceRunner, load, "2026-10-16")
		require.NoError(t, err)
		limit := dt.Kcal + 200
		if load.IsHighLoad() {
			limit = dt.Kcal + 500
		}
		assert.LessOrEqual(t, dt.MacroKcal(), limit, load)
	}
}

func TestLoadRankAndHighLoad(t *testing.T) {
	prev := -1
	for _, load := range AllLoads {
		assert.GreaterOrEqual(t, load.Rank(), prev, load)
		prev = load.Rank()
	}
	assert.Equal(t, LoadLong.Rank(), LoadQuality.Rank())
	for _, load := range AllLoads {
		want := load == LoadLong || load == LoadQuality
		assert.Equal(t, want, load.IsHighLoad(), load)
	}
	assert.False(t, TrainingLoad("tempo").IsHighLoad())
}

func TestTDEEMonotonicInLoad(t *testing.T) {
	profiles := []UserProfile{
		referenceRunner,
		{WeightKg: 55, HeightCm: 162, Age: 41, Sex: SexFemale},
		{WeightKg: 88, HeightCm: 190, Age: 24, Sex: SexMale},
	}
	for _, p := range profiles {
		prev := 0
		for _, load := range AllLoads {
			tdee, err := CalculateTDEE(p, load)
			require.NoError(t, err)
			assert.Greater(t, tdee, prev, "%+v %s", p, load)
			prev = tdee
		}
	}
}

func TestShiftFatToCHO_RespectsFloor(t *testing.T) {
	m := Macros{ChoG: 490, ProteinG: 126, FatG: 66}
	shifted := ShiftFatToCHO(m, 2970, 0.05)
	assert.Equal(t, m, shifted, "fat already at floor must not move")

	rest := Macros{ChoG: 280, ProteinG: 112, FatG: 82}
	shifted = ShiftFatToCHO(rest, 2310, 0.05)
	assert.Less(t, shifted.FatG, rest.FatG)
	assert.Greater(t, shifted.ChoG, rest.ChoG)
	assert.GreaterOrEqual(t, shifted.FatG*9*5, 2310)
}

func TestParseTrainingLoad(t *testing.T) {
	l, err := ParseTrainingLoad(" Quality ")
	require.NoError(t, err)
	assert.Equal(t, LoadQuality, l)

	_, err = ParseTrainingLoad("recovery")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDayTargetCloneIsIndependent(t *testing.T) {
	dt, err := ComputeDayTarget(referenceRunner, LoadLong, "2026-10-16")
	require.NoError(t, err)

	cp := dt.Clone()
	cp.Meals[0].Kcal = 1
	*cp.Fueling.DuringChoGPerHour = 90
	cp.Fueling.Pre.ChoG = 1

	assert.NotEqual(t, 1, dt.Meals[0].Kcal)
	assert.Equal(t, 45.0, *dt.Fueling.DuringChoGPerHour)
	assert.Equal(t, 175, dt.Fueling.Pre.ChoG)
}

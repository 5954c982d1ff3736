package scores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdg312/fuel-score/internal/storage"
)

func TestWindowIntake(t *testing.T) {
	logs := []storage.FoodLog{
		{MealType: "snack", Window: "pre", CarbsG: 60, InWindow: true},
		{MealType: "snack", Window: "pre", CarbsG: 20, InWindow: false},
		{MealType: "snack", Window: "during", CarbsG: 90},
		{MealType: "snack", Window: "post", CarbsG: 70, ProteinG: 20, InWindow: true},
		{MealType: "lunch", CarbsG: 100},
	}

	got := windowIntake(logs, 1.5)

	require.NotNil(t, got.Pre)
	assert.Equal(t, 80.0, got.Pre.ChoG)
	assert.False(t, got.Pre.InWindow)
	require.NotNil(t, got.During)
	assert.Equal(t, 60.0, got.During.ChoG)
	require.NotNil(t, got.Post)
	assert.True(t, got.Post.InWindow)
	assert.Equal(t, 20.0, got.Post.ProteinG)
}

func TestSumIntake_MealsInFixedOrder(t *testing.T) {
	logs := []storage.FoodLog{
		{MealType: "dinner", Kcal: 700},
		{MealType: "breakfast", Kcal: 500},
		{MealType: "breakfast", Kcal: 100},
	}

	total, meals := sumIntake(logs)

	assert.Equal(t, 1300.0, total.Calories)
	require.Len(t, meals, 2)
	assert.EqualValues(t, "breakfast", meals[0].Type)
	assert.Equal(t, 600.0, meals[0].Kcal)
	assert.EqualValues(t, "dinner", meals[1].Type)
}

func TestMainSessions(t *testing.T) {
	assert.Nil(t, mainPlanned(nil))
	assert.Nil(t, mainActivity(nil))

	plan := mainPlanned([]storage.PlannedSession{
		{Type: "strength", DurationMin: 20},
		{Type: "run", DurationMin: 50, Intensity: "high"},
	})
	require.NotNil(t, plan)
	assert.Equal(t, "run", plan.Type)
	assert.Equal(t, 70.0, plan.DurationMin)
	assert.EqualValues(t, "high", plan.Intensity)
}

func TestStreakBefore(t *testing.T) {
	scores := []storage.DailyScore{
		{Date: "2026-10-15", Total: 75},
		{Date: "2026-10-14", Total: 90},
		{Date: "2026-10-12", Total: 95},
	}
	dates := []string{"2026-10-15", "2026-10-14", "2026-10-13", "2026-10-12"}

	assert.Equal(t, 2, streakBefore(scores, dates, 75))
	assert.Equal(t, 1, streakBefore(scores[1:2], []string{"2026-10-14"}, 75))
	assert.Equal(t, 0, streakBefore(nil, dates, 75))
}

func TestHydrationMet(t *testing.T) {
	h := hydration{mlPerKg: 35}
	assert.True(t, h.met(70, 2450))
	assert.False(t, h.met(70, 2449))
	assert.False(t, hydration{}.met(70, 5000))
}

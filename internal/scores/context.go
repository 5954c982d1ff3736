package scores

import (
	"math"

	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
)

// dayInputs is the stored data of one day that feeds a scoring Context.
type dayInputs struct {
	foodLogs   []storage.FoodLog
	planned    []storage.PlannedSession
	activities []storage.Activity
	waterMl    int
	streakDays int
}

// buildContext fills the actual side of a Context seeded from the day target.
func buildContext(dt targets.DayTarget, p storage.Profile, in dayInputs, strategy scoring.Strategy, cfg hydration) scoring.Context {
	c := scoring.ContextForDay(dt)
	c.Strategy = strategy
	if lvl, err := scoring.ParseExperienceLevel(p.ExperienceLevel); err == nil {
		c.ExperienceLevel = lvl
	}

	c.HasFoodLogs = len(in.foodLogs) > 0
	c.Actuals, c.Meals = sumIntake(in.foodLogs)
	c.FuelingActuals = windowIntake(in.foodLogs, sessionHours(in))
	c.TrainingPlan = mainPlanned(in.planned)
	c.TrainingActual = mainActivity(in.activities)

	c.Flags = &scoring.Flags{
		StreakDays:   in.streakDays,
		HydrationMet: cfg.met(p.WeightKg, in.waterMl),
	}
	return c
}

type hydration struct {
	mlPerKg int
}

// met is true once the day's water reaches weight × ml/kg.
func (h hydration) met(weightKg float64, waterMl int) bool {
	if h.mlPerKg <= 0 || weightKg <= 0 {
		return false
	}
	return float64(waterMl) >= weightKg*float64(h.mlPerKg)
}

func sumIntake(logs []storage.FoodLog) (scoring.NutritionValues, []scoring.MealIntake) {
	var total scoring.NutritionValues
	perMeal := map[targets.MealType]float64{}
	for _, l := range logs {
		total.Calories += l.Kcal
		total.ProteinG += l.ProteinG
		total.CarbsG += l.CarbsG
		total.FatG += l.FatG
		perMeal[targets.MealType(l.MealType)] += l.Kcal
	}

	var meals []scoring.MealIntake
	for _, m := range targets.MealOrder {
		if kcal, ok := perMeal[m]; ok {
			meals = append(meals, scoring.MealIntake{Type: m, Kcal: kcal})
		}
	}
	return total, meals
}

// windowIntake aggregates logs tagged with a fueling window. A window counts as
// in-window only when every entry in it was. During intake is per hour.
func windowIntake(logs []storage.FoodLog, hours float64) scoring.FuelingActuals {
	var out scoring.FuelingActuals
	add := func(dst **scoring.WindowIntake, l storage.FoodLog) {
		if *dst == nil {
			*dst = &scoring.WindowIntake{InWindow: true}
		}
		(*dst).ChoG += l.CarbsG
		(*dst).ProteinG += l.ProteinG
		(*dst).InWindow = (*dst).InWindow && l.InWindow
	}
	for _, l := range logs {
		switch l.Window {
		case "pre":
			add(&out.Pre, l)
		case "during":
			add(&out.During, l)
		case "post":
			add(&out.Post, l)
		}
	}
	if out.During != nil && hours > 0 {
		out.During.ChoG = math.Round(out.During.ChoG/hours*10) / 10
		out.During.ProteinG = math.Round(out.During.ProteinG/hours*10) / 10
	}
	return out
}

// sessionHours prefers the recorded duration over the planned one.
func sessionHours(in dayInputs) float64 {
	var minutes float64
	for _, a := range in.activities {
		minutes += a.DurationMin
	}
	if minutes == 0 {
		for _, p := range in.planned {
			minutes += p.DurationMin
		}
	}
	return minutes / 60
}

// mainPlanned folds the plan into one session: the longest one's type and
// intensity with the total duration.
func mainPlanned(planned []storage.PlannedSession) *scoring.TrainingPlan {
	if len(planned) == 0 {
		return nil
	}
	main := planned[0]
	var total float64
	for _, p := range planned {
		total += p.DurationMin
		if p.DurationMin > main.DurationMin {
			main = p
		}
	}
	return &scoring.TrainingPlan{
		Type:        main.Type,
		DurationMin: total,
		Intensity:   scoring.Intensity(main.Intensity),
	}
}

func mainActivity(activities []storage.Activity) *scoring.TrainingActual {
	if len(activities) == 0 {
		return nil
	}
	main := activities[0]
	var total float64
	for _, a := range activities {
		total += a.DurationMin
		if a.DurationMin > main.DurationMin {
			main = a
		}
	}
	return &scoring.TrainingActual{
		Type:        main.Type,
		DurationMin: total,
		AvgHR:       main.AvgHR,
		MaxHR:       main.MaxHR,
	}
}

// streakBefore counts leading dates whose stored total reached minScore.
// dates run backwards from the day before the scored one.
func streakBefore(scores []storage.DailyScore, dates []string, minScore int) int {
	byDate := make(map[string]int, len(scores))
	for _, s := range scores {
		byDate[s.Date] = s.Total
	}
	streak := 0
	for _, d := range dates {
		total, ok := byDate[d]
		if !ok || total < minScore {
			break
		}
		streak++
	}
	return streak
}

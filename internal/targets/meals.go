package targets

import "math"

// CalculateMeals splits the day's kcal and macros across meal slots.
// Slots with a zero ratio are skipped, so rest days get three meals.
func CalculateMeals(tdee int, m Macros, load TrainingLoad) []Meal {
	ratios := MealRatiosFor(load)
	meals := make([]Meal, 0, len(MealOrder))
	for _, mt := range MealOrder {
		r := ratios.For(mt)
		if r <= 0 {
			continue
		}
		meals = append(meals, Meal{
			Type:     mt,
			Ratio:    r,
			ChoG:     roundInt(float64(m.ChoG) * r),
			ProteinG: roundInt(float64(m.ProteinG) * r),
			FatG:     roundInt(float64(m.FatG) * r),
			Kcal:     RoundToTen(float64(tdee) * r),
		})
	}
	return meals
}

// RatioSum adds the ratios of the given meals.
func RatioSum(meals []Meal) float64 {
	var sum float64
	for _, m := range meals {
		sum += m.Ratio
	}
	return math.Round(sum*1e6) / 1e6
}

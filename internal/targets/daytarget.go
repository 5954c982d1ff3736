package targets

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used across the engine.
const DateLayout = "2006-01-02"

// ComputeDayTarget assembles kcal, macros, meals and fueling for one date.
func ComputeDayTarget(p UserProfile, load TrainingLoad, date string) (DayTarget, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return DayTarget{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidArgument)
	}
	tdee, err := CalculateTDEE(p, load)
	if err != nil {
		return DayTarget{}, err
	}
	macros, err := CalculateMacros(p, load, tdee)
	if err != nil {
		return DayTarget{}, err
	}
	fueling, err := CalculateFuelingWindows(p, load)
	if err != nil {
		return DayTarget{}, err
	}

	return DayTarget{
		Date:     date,
		Load:     load,
		Kcal:     tdee,
		Grams:    macros,
		Fueling:  fueling,
		Meals:    CalculateMeals(tdee, macros, load),
		WeightKg: p.WeightKg,
	}, nil
}

// Redistribute recomputes the meals of t after its kcal or grams changed.
func (t DayTarget) Redistribute() DayTarget {
	t.Meals = CalculateMeals(t.Kcal, t.Grams, t.Load)
	return t
}

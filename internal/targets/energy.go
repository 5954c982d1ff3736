package targets

import (
	"fmt"
	"math"
)

// CalculateBMR returns the Mifflin-St Jeor basal metabolic rate in kcal.
func CalculateBMR(p UserProfile) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Sex == SexMale {
		return bmr + bmrMaleOffset, nil
	}
	return bmr + bmrFemaleOffset, nil
}

// CalculateTDEE returns BMR times the load factor, rounded to the nearest 10 kcal.
func CalculateTDEE(p UserProfile, load TrainingLoad) (int, error) {
	factor, ok := ActivityFactor(load)
	if !ok {
		return 0, fmt.Errorf("%w: unknown training load %q", ErrInvalidArgument, load)
	}
	bmr, err := CalculateBMR(p)
	if err != nil {
		return 0, err
	}
	return RoundToTen(bmr * factor), nil
}

// CalculateMacros derives whole-gram CHO, protein and fat for a day.
// CHO and protein come from the per-kg table; fat covers the remainder but
// never drops below FatFloorShare of tdee.
func CalculateMacros(p UserProfile, load TrainingLoad, tdee int) (Macros, error) {
	if err := p.Validate(); err != nil {
		return Macros{}, err
	}
	perKg, ok := MacroTargetsPerKg(load)
	if !ok {
		return Macros{}, fmt.Errorf("%w: unknown training load %q", ErrInvalidArgument, load)
	}
	if tdee < 0 {
		return Macros{}, fmt.Errorf("%w: tdee must not be negative", ErrInvalidArgument)
	}
	cho := roundInt(p.WeightKg * perKg.ChoGPerKg)
	protein := roundInt(p.WeightKg * perKg.ProteinGPerKg)
	return Macros{
		ChoG:     cho,
		ProteinG: protein,
		FatG:     BalancedFatG(tdee, cho, protein),
	}, nil
}

// BalancedFatG returns the fat grams that fill kcal after CHO and protein,
// respecting the fat floor even after rounding.
func BalancedFatG(kcal, choG, proteinG int) int {
	floorKcal := FatFloorShare * float64(kcal)
	rest := float64(kcal - choG*kcalPerGramCHO - proteinG*kcalPerGramProtein)
	fat := roundInt(math.Max(floorKcal, rest) / kcalPerGramFat)
	return RaiseToFatFloor(kcal, fat)
}

// RaiseToFatFloor lifts fatG to the smallest whole gram that satisfies the floor.
func RaiseToFatFloor(kcal, fatG int) int {
	minFatG := int(math.Ceil(FatFloorShare*float64(kcal)/kcalPerGramFat - 1e-9))
	if fatG < minFatG {
		return minFatG
	}
	return fatG
}

// ShiftFatToCHO moves share*kcal from fat into CHO without crossing the fat floor.
func ShiftFatToCHO(m Macros, kcal int, share float64) Macros {
	want := share * float64(kcal)
	floorFatG := RaiseToFatFloor(kcal, 0)
	available := float64((m.FatG - floorFatG) * kcalPerGramFat)
	if available <= 0 {
		return m
	}
	shift := math.Min(want, available)
	fatOut := int(math.Floor(shift / kcalPerGramFat))
	if fatOut <= 0 {
		return m
	}
	m.FatG -= fatOut
	m.ChoG += roundInt(float64(fatOut*kcalPerGramFat) / kcalPerGramCHO)
	return m
}

// KcalToCHOGrams converts energy to whole grams of carbohydrate.
func KcalToCHOGrams(kcal float64) int {
	return roundInt(kcal / kcalPerGramCHO)
}

// RoundToTen rounds kcal to the nearest multiple of 10.
func RoundToTen(v float64) int {
	return int(math.Round(v/10)) * 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

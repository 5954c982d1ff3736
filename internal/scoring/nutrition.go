package scoring

import (
	"math"

	"github.com/fdg312/fuel-score/internal/targets"
)

// scoreMacro maps the relative error of one macro through the tolerance ladder.
// A non-positive target never earns credit.
func scoreMacro(target, actual float64, ladder [5]float64) float64 {
	if target <= 0 {
		return 0
	}
	errPct := math.Abs(actual-target) / target
	for i, band := range ladder {
		if errPct <= band+1e-9 {
			return macroBandScores[i]
		}
	}
	return 0
}

func scoreMacros(rc resolvedContext) MacroBreakdown {
	w := rc.table.macro
	b := MacroBreakdown{
		Calories: scoreMacro(rc.Targets.Calories, rc.Actuals.Calories, rc.ladder),
		Protein:  scoreMacro(rc.Targets.ProteinG, rc.Actuals.ProteinG, rc.ladder),
		Carbs:    scoreMacro(rc.Targets.CarbsG, rc.Actuals.CarbsG, rc.ladder),
		Fat:      scoreMacro(rc.Targets.FatG, rc.Actuals.FatG, rc.ladder),
	}
	b.Total = b.Calories*w.Calories + b.Protein*w.Protein + b.Carbs*w.Carbs + b.Fat*w.Fat
	return b
}

// scoreWindow bands the intake ratio. Out-of-window intake is capped lower.
func scoreWindow(ratio float64, inWindow bool) float64 {
	if ratio <= 0 {
		return 0
	}
	bands, floor := inWindowBands, inWindowFloor
	if !inWindow {
		bands, floor = outWindowBands, outWindowFloor
	}
	for _, b := range bands {
		if ratio >= b.minRatio {
			return b.score
		}
	}
	return floor
}

func intakeRatio(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target
}

func scoreTiming(rc resolvedContext) TimingBreakdown {
	var (
		b         TimingBreakdown
		sum, wsum float64
	)
	fw := rc.FuelingTargets
	fa := rc.FuelingActuals

	// Nothing logged against any window: timing carries no weight.
	if !fa.any() {
		return b
	}

	if preApplicable(fw) {
		s := 0.0
		if fa.Pre != nil {
			s = scoreWindow(intakeRatio(fa.Pre.ChoG, float64(fw.Pre.ChoG)), fa.Pre.InWindow)
		}
		b.Pre = &s
		sum += s * preWindowWeight
		wsum += preWindowWeight
	}
	if duringApplicable(fw) {
		s := 0.0
		if fa.During != nil {
			s = scoreWindow(intakeRatio(fa.During.ChoG, *fw.DuringChoGPerHour), fa.During.InWindow)
		}
		b.During = &s
		sum += s * duringWindowWeight
		wsum += duringWindowWeight
	}
	if postApplicable(fw) {
		s := 0.0
		if fa.Post != nil {
			ratio := intakeRatio(fa.Post.ChoG, float64(fw.Post.ChoG))
			if fw.Post.ProteinG > 0 {
				ratio = (math.Min(ratio, 1) + math.Min(intakeRatio(fa.Post.ProteinG, float64(fw.Post.ProteinG)), 1)) / 2
			}
			s = scoreWindow(ratio, fa.Post.InWindow)
		}
		b.Post = &s
		sum += s * postWindowWeight
		wsum += postWindowWeight
	}

	if wsum > 0 {
		b.Applicable = true
		b.Total = sum / wsum
	}
	return b
}

// allWindowsSynced is true when at least one window applied and every applicable one scored full.
func (b TimingBreakdown) allWindowsSynced() bool {
	if !b.Applicable {
		return false
	}
	for _, s := range []*float64{b.Pre, b.During, b.Post} {
		if s != nil && *s < 100 {
			return false
		}
	}
	return true
}

func scoreStructure(rc resolvedContext) float64 {
	eaten := make(map[targets.MealType]float64, len(rc.Meals))
	var total, largest float64
	for _, m := range rc.Meals {
		if m.Kcal <= 0 {
			continue
		}
		eaten[m.Type] += m.Kcal
		total += m.Kcal
	}
	if total <= 0 {
		return 0
	}

	score := 0.0
	for _, mt := range []targets.MealType{targets.MealBreakfast, targets.MealLunch, targets.MealDinner} {
		if eaten[mt] > 0 {
			score += mealSlotPoints
		}
	}
	if eaten[targets.MealSnack] > 0 || rc.Load == targets.LoadRest {
		score += mealSlotPoints
	}

	for _, kcal := range eaten {
		largest = math.Max(largest, kcal)
	}
	if largest/total > dominantMealShare {
		score = math.Min(score, dominantMealScoreCap)
	}
	return score
}

// scoreNutrition combines macros, timing and structure. When no fueling window
// applies the timing weight moves onto macros.
func scoreNutrition(rc resolvedContext) (NutritionBreakdown, componentWeights) {
	n := NutritionBreakdown{
		Macros:    scoreMacros(rc),
		Timing:    scoreTiming(rc),
		Structure: scoreStructure(rc),
	}
	w := rc.table.components
	if !n.Timing.Applicable {
		w.Macros += w.Timing
		w.Timing = 0
	}
	n.Total = n.Macros.Total*w.Macros + n.Timing.Total*w.Timing + n.Structure*w.Structure
	return n, w
}

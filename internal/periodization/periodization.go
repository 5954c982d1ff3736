// Package periodization adapts day targets to an athlete's goal and to the
// phase of the training cycle leading into a race.
package periodization

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fdg312/fuel-score/internal/targets"
)

// GoalType is the athlete's declared objective.
type GoalType string

const (
	GoalNone         GoalType = ""
	GoalFullMarathon GoalType = "full_marathon"
	GoalHalfMarathon GoalType = "half_marathon"
	GoalUltra        GoalType = "ultra"
	Goal10K          GoalType = "10k"
	Goal5K           GoalType = "5k"
	GoalWeightLoss   GoalType = "weight_loss"
	GoalGainMuscle   GoalType = "gain_muscle"
)

// ParseGoal converts a raw string into a GoalType. Empty means no goal.
func ParseGoal(s string) (GoalType, error) {
	g := GoalType(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GoalNone, GoalFullMarathon, GoalHalfMarathon, GoalUltra, Goal10K, Goal5K,
		GoalWeightLoss, GoalGainMuscle:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown goal %q", targets.ErrInvalidArgument, s)
}

// IsRace reports whether g is a race-distance goal.
func (g GoalType) IsRace() bool {
	switch g {
	case GoalFullMarathon, GoalHalfMarathon, GoalUltra, Goal10K, Goal5K:
		return true
	}
	return false
}

// RacePhase is the position in the training cycle relative to race day.
type RacePhase string

const (
	PhaseBase  RacePhase = "base"
	PhaseBuild RacePhase = "build"
	PhasePeak  RacePhase = "peak"
	PhaseTaper RacePhase = "taper"
	PhaseRace  RacePhase = "race"
	PhaseOff   RacePhase = "off"
)

// ParsePhase converts a raw string into a RacePhase.
func ParsePhase(s string) (RacePhase, error) {
	p := RacePhase(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PhaseBase, PhaseBuild, PhasePeak, PhaseTaper, PhaseRace, PhaseOff:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown race phase %q", targets.ErrInvalidArgument, s)
}

// Phase boundaries, in days before the race.
const (
	taperDays = 7
	peakDays  = 21
	buildDays = 56
)

// DetermineRacePhase maps the day distance between date and raceDate to a phase.
// A nil or empty raceDate means no race is planned.
func DetermineRacePhase(date string, raceDate *string) (RacePhase, error) {
	d, err := time.Parse(targets.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", targets.ErrInvalidArgument)
	}
	if raceDate == nil || *raceDate == "" {
		return PhaseBase, nil
	}
	r, err := time.Parse(targets.DateLayout, *raceDate)
	if err != nil {
		return "", fmt.Errorf("%w: race_date must be YYYY-MM-DD", targets.ErrInvalidArgument)
	}

	days := int(math.Round(r.Sub(d).Hours() / 24))
	switch {
	case days < 0:
		return PhaseOff, nil
	case days == 0:
		return PhaseRace, nil
	case days <= taperDays:
		return PhaseTaper, nil
	case days <= peakDays:
		return PhasePeak, nil
	case days <= buildDays:
		return PhaseBuild, nil
	default:
		return PhaseBase, nil
	}
}

// AdjustForGoal applies the goal's energy and macro changes. The input is not modified.
func AdjustForGoal(t targets.DayTarget, goal GoalType) (targets.DayTarget, error) {
	out := t.Clone()
	switch {
	case goal == GoalNone:
		return out, nil
	case goal.IsRace():
		out.Grams = targets.ShiftFatToCHO(out.Grams, out.Kcal, targets.RaceGoalFatToChoShare)
	case goal == GoalWeightLoss:
		out = scaleEnergy(out, targets.WeightLossKcalFactor, targets.WeightLossProteinScale)
	case goal == GoalGainMuscle:
		out = scaleEnergy(out, targets.GainMuscleKcalFactor, targets.GainMuscleProteinScale)
	default:
		return targets.DayTarget{}, fmt.Errorf("%w: unknown goal %q", targets.ErrInvalidArgument, goal)
	}
	return out.Redistribute(), nil
}

// AdjustForPhase applies the race-phase changes. The input is not modified.
func AdjustForPhase(t targets.DayTarget, phase RacePhase) (targets.DayTarget, error) {
	out := t.Clone()
	switch phase {
	case PhaseBase, PhaseOff:
		return out, nil
	case PhaseBuild:
		if !out.Load.IsHighLoad() {
			return out, nil
		}
		// CHO covers the rounded kcal delta, never less
		oldKcal := out.Kcal
		out.Kcal = targets.RoundToTen(float64(oldKcal) * (1 + targets.BuildHighLoadKcalShare))
		out.Grams.ChoG += int(math.Ceil(float64(out.Kcal-oldKcal) / 4))
		out.Grams.FatG = targets.RaiseToFatFloor(out.Kcal, out.Grams.FatG)
	case PhasePeak:
		out.Grams = targets.ShiftFatToCHO(out.Grams, out.Kcal, targets.PeakFatToChoShare)
	case PhaseTaper:
		if out.Load.IsHighLoad() {
			return out, nil
		}
		out.Kcal = targets.RoundToTen(float64(out.Kcal) * targets.TaperKcalFactor)
		out.Grams.FatG = targets.BalancedFatG(out.Kcal, out.Grams.ChoG, out.Grams.ProteinG)
	case PhaseRace:
		out.Fueling = raiseRaceFloors(out.Fueling, out.WeightKg)
		return out, nil
	default:
		return targets.DayTarget{}, fmt.Errorf("%w: unknown race phase %q", targets.ErrInvalidArgument, phase)
	}
	return out.Redistribute(), nil
}

// Adjust applies the goal first and the phase second.
func Adjust(t targets.DayTarget, goal GoalType, phase RacePhase) (targets.DayTarget, error) {
	withGoal, err := AdjustForGoal(t, goal)
	if err != nil {
		return targets.DayTarget{}, err
	}
	return AdjustForPhase(withGoal, phase)
}

func scaleEnergy(t targets.DayTarget, kcalFactor, proteinScale float64) targets.DayTarget {
	t.Kcal = targets.RoundToTen(float64(t.Kcal) * kcalFactor)
	t.Grams.ProteinG = int(math.Round(float64(t.Grams.ProteinG) * proteinScale))
	t.Grams.FatG = targets.BalancedFatG(t.Kcal, t.Grams.ChoG, t.Grams.ProteinG)
	return t
}

// raiseRaceFloors lifts every window to the race-day minimum. Values are never lowered.
func raiseRaceFloors(w *targets.FuelingWindow, weightKg float64) *targets.FuelingWindow {
	if w == nil {
		w = &targets.FuelingWindow{}
	}
	preFloor := int(math.Round(weightKg * targets.RacePreChoGPerKg))
	if w.Pre == nil {
		w.Pre = &targets.PreFueling{HoursBefore: targets.RacePreHoursBefore}
	}
	if w.Pre.ChoG < preFloor {
		w.Pre.ChoG = preFloor
	}

	during := targets.RaceDuringChoGPerHour
	if w.DuringChoGPerHour != nil && *w.DuringChoGPerHour > during {
		during = *w.DuringChoGPerHour
	}
	w.DuringChoGPerHour = &during

	postChoFloor := int(math.Round(weightKg * targets.RacePostChoGPerKg))
	postProteinFloor := int(math.Round(weightKg * targets.RacePostProteinGPerKg))
	if w.Post == nil {
		w.Post = &targets.PostFueling{MinutesAfter: targets.RacePostMinutesAfter}
	}
	if w.Post.ChoG < postChoFloor {
		w.Post.ChoG = postChoFloor
	}
	if w.Post.ProteinG < postProteinFloor {
		w.Post.ProteinG = postProteinFloor
	}
	return w
}

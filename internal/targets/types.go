package targets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for non-positive body metrics and unknown enum values.
var ErrInvalidArgument = errors.New("invalid argument")

// ============================================================================
// Enums
// ============================================================================

// TrainingLoad is the classified intensity of a training day.
type TrainingLoad string

const (
	LoadRest     TrainingLoad = "rest"
	LoadEasy     TrainingLoad = "easy"
	LoadModerate TrainingLoad = "moderate"
	LoadLong     TrainingLoad = "long"
	LoadQuality  TrainingLoad = "quality"
)

// AllLoads lists every training load in ascending order.
var AllLoads = []TrainingLoad{LoadRest, LoadEasy, LoadModerate, LoadLong, LoadQuality}

// ParseTrainingLoad converts a raw string into a TrainingLoad.
func ParseTrainingLoad(s string) (TrainingLoad, error) {
	l := TrainingLoad(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: unknown training load %q", ErrInvalidArgument, s)
	}
	return l, nil
}

// Valid reports whether l is one of the known loads.
func (l TrainingLoad) Valid() bool {
	switch l {
	case LoadRest, LoadEasy, LoadModerate, LoadLong, LoadQuality:
		return true
	}
	return false
}

// Rank orders loads: rest < easy < moderate < long = quality.
func (l TrainingLoad) Rank() int {
	switch l {
	case LoadEasy:
		return 1
	case LoadModerate:
		return 2
	case LoadLong, LoadQuality:
		return 3
	default:
		return 0
	}
}

// IsHighLoad is true for long and quality days.
func (l TrainingLoad) IsHighLoad() bool {
	return l.Rank() >= LoadLong.Rank()
}

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex converts a raw string into a Sex.
func ParseSex(s string) (Sex, error) {
	switch v := Sex(strings.ToLower(strings.TrimSpace(s))); v {
	case SexMale, SexFemale:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown sex %q", ErrInvalidArgument, s)
}

// MealType names a slot in the daily meal plan.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealOrder is the fixed order meals appear in a DayTarget.
var MealOrder = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ============================================================================
// Value types
// ============================================================================

// UserProfile holds the body metrics the energy equations need.
type UserProfile struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
	Age      int     `json:"age"`
	Sex      Sex     `json:"sex"`
}

// Validate checks that every metric is positive and the sex is known.
func (p UserProfile) Validate() error {
	if p.WeightKg <= 0 {
		return fmt.Errorf("%w: weight_kg must be positive", ErrInvalidArgument)
	}
	if p.HeightCm <= 0 {
		return fmt.Errorf("%w: height_cm must be positive", ErrInvalidArgument)
	}
	if p.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidArgument)
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return fmt.Errorf("%w: unknown sex %q", ErrInvalidArgument, p.Sex)
	}
	return nil
}

// Macros are whole-gram daily macronutrient targets.
type Macros struct {
	ChoG     int `json:"cho_g"`
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
}

// Kcal returns the energy carried by the macros (4/4/9).
func (m Macros) Kcal() int {
	return m.ChoG*kcalPerGramCHO + m.ProteinG*kcalPerGramProtein + m.FatG*kcalPerGramFat
}

// Meal is one slot of the day's distribution.
type Meal struct {
	Type     MealType `json:"type"`
	Ratio    float64  `json:"ratio"`
	ChoG     int      `json:"cho_g"`
	ProteinG int      `json:"protein_g"`
	FatG     int      `json:"fat_g"`
	Kcal     int      `json:"kcal"`
}

// PreFueling is the carbohydrate load taken before the session.
type PreFueling struct {
	HoursBefore float64 `json:"hours_before"`
	ChoG        int     `json:"cho_g"`
}

// PostFueling is the recovery intake after the session.
type PostFueling struct {
	MinutesAfter int `json:"minutes_after"`
	ChoG         int `json:"cho_g"`
	ProteinG     int `json:"protein_g"`
}

// FuelingWindow groups the session-bound intake targets.
type FuelingWindow struct {
	Pre               *PreFueling  `json:"pre,omitempty"`
	DuringChoGPerHour *float64     `json:"during_cho_g_per_hour,omitempty"`
	Post              *PostFueling `json:"post,omitempty"`
}

// Clone returns a deep copy.
func (w *FuelingWindow) Clone() *FuelingWindow {
	if w == nil {
		return nil
	}
	out := &FuelingWindow{}
	if w.Pre != nil {
		pre := *w.Pre
		out.Pre = &pre
	}
	if w.DuringChoGPerHour != nil {
		during := *w.DuringChoGPerHour
		out.DuringChoGPerHour = &during
	}
	if w.Post != nil {
		post := *w.Post
		out.Post = &post
	}
	return out
}

// DayTarget is the full plan for one date.
type DayTarget struct {
	Date     string         `json:"date"`
	Load     TrainingLoad   `json:"load"`
	Kcal     int            `json:"kcal"`
	Grams    Macros         `json:"grams"`
	Fueling  *FuelingWindow `json:"fueling,omitempty"`
	Meals    []Meal         `json:"meals"`
	WeightKg float64        `json:"weight_kg"`
}

// MacroKcal returns the energy of the macro grams.
func (t DayTarget) MacroKcal() int {
	return t.Grams.Kcal()
}

// Clone returns a copy that shares no slices or pointers with t.
func (t DayTarget) Clone() DayTarget {
	out := t
	out.Fueling = t.Fueling.Clone()
	if t.Meals != nil {
		out.Meals = append([]Meal(nil), t.Meals...)
	}
	return out
}

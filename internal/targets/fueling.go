package targets

import "fmt"

// CalculateFuelingWindows returns the pre/during/post intake targets of a load.
// Rest days have no window and return nil.
func CalculateFuelingWindows(p UserProfile, load TrainingLoad) (*FuelingWindow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !load.Valid() {
		return nil, fmt.Errorf("%w: unknown training load %q", ErrInvalidArgument, load)
	}
	if load == LoadRest {
		return nil, nil
	}

	w := &FuelingWindow{
		Pre: &PreFueling{
			HoursBefore: preHoursBefore,
			ChoG:        roundInt(p.WeightKg * preChoGPerKg[load]),
		},
		Post: &PostFueling{
			MinutesAfter: postMinutesAfter,
			ChoG:         roundInt(p.WeightKg * postChoGPerKg),
			ProteinG:     roundInt(p.WeightKg * postProteinGPerKg),
		},
	}
	if load.IsHighLoad() {
		during := DuringChoGPerHour
		w.DuringChoGPerHour = &during
	}
	return w, nil
}

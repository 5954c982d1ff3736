// Package nutrition serves the day targets of a stored athlete profile.
package nutrition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/fuel-score/internal/periodization"
	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileIncomplete = errors.New("profile incomplete")
	ErrInvalidRequest    = errors.New("invalid request")
)

// Load sources reported in DayTargetResponse.
const (
	LoadSourceQuery = "query"
	LoadSourcePlan  = "plan"
)

// ProfileLookup resolves a profile owned by the request user.
type ProfileLookup interface {
	Owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// LoadPlanner classifies the planned training of a date.
type LoadPlanner interface {
	PlannedLoad(ctx context.Context, profileID uuid.UUID, date string) (targets.TrainingLoad, error)
}

// Service computes day targets for stored profiles.
type Service struct {
	profiles ProfileLookup
	planner  LoadPlanner
}

// NewService creates a new nutrition service.
func NewService(profiles ProfileLookup, planner LoadPlanner) *Service {
	return &Service{profiles: profiles, planner: planner}
}

// DayTarget returns the adjusted target of date. A nil load is derived from the plan.
func (s *Service) DayTarget(ctx context.Context, profileID uuid.UUID, date string, load *targets.TrainingLoad) (*DayTargetResponse, error) {
	if _, err := time.Parse(targets.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}

	profile, err := s.profiles.Owned(ctx, profileID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	source := LoadSourceQuery
	var dayLoad targets.TrainingLoad
	if load != nil {
		dayLoad = *load
	} else {
		source = LoadSourcePlan
		dayLoad, err = s.planner.PlannedLoad(ctx, profileID, date)
		if err != nil {
			return nil, err
		}
	}

	target, phase, err := BuildDayTarget(*profile, dayLoad, date)
	if err != nil {
		return nil, err
	}

	return &DayTargetResponse{
		ProfileID:  profileID,
		Target:     target,
		LoadSource: source,
		Goal:       profile.Goal,
		Phase:      string(phase),
	}, nil
}

// BuildDayTarget runs the targets pipeline for a stored profile: base target,
// then goal, then race phase.
func BuildDayTarget(p storage.Profile, load targets.TrainingLoad, date string) (targets.DayTarget, periodization.RacePhase, error) {
	body, err := profiles.BodyProfile(p)
	if err != nil {
		return targets.DayTarget{}, "", fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}

	base, err := targets.ComputeDayTarget(body, load, date)
	if err != nil {
		return targets.DayTarget{}, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	goal, err := periodization.ParseGoal(p.Goal)
	if err != nil {
		return targets.DayTarget{}, "", fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}
	phase, err := periodization.DetermineRacePhase(date, p.RaceDate)
	if err != nil {
		return targets.DayTarget{}, "", fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}

	adjusted, err := periodization.Adjust(base, goal, phase)
	if err != nil {
		return targets.DayTarget{}, "", err
	}
	return adjusted, phase, nil
}

// BuildDayTargetInPhase is BuildDayTarget with the race phase given instead of
// derived from the profile's race date.
func BuildDayTargetInPhase(p storage.Profile, load targets.TrainingLoad, date string, phase periodization.RacePhase) (targets.DayTarget, error) {
	p.RaceDate = nil
	base, _, err := BuildDayTarget(p, load, date)
	if err != nil {
		return targets.DayTarget{}, err
	}
	return periodization.AdjustForPhase(base, phase)
}

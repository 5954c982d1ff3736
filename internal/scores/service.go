// Package scores assembles a scoring context from stored logs and training,
// scores the day and keeps the history of daily totals.
package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/fuel-score/internal/classifier"
	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/nutrition"
	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/scorecache"
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/fdg312/fuel-score/internal/training"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileIncomplete = errors.New("profile incomplete")
	ErrInvalidRequest    = errors.New("invalid request")
)

const (
	streakLookbackDays = 30
	maxHistoryDays     = 366
)

// ProfileLookup resolves a profile owned by the request user.
type ProfileLookup interface {
	Owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// Deps are the stores the service reads and writes.
type Deps struct {
	Profiles ProfileLookup
	FoodLogs storage.FoodLogsStorage
	Intakes  storage.IntakesStorage
	Training storage.TrainingStorage
	Scores   storage.ScoresStorage
	Cache    scorecache.Cache
}

type Service struct {
	deps            Deps
	cfg             config.ScoringConfig
	engines         map[string]*scoring.Engine
	defaultStrategy scoring.Strategy
}

// NewService builds one engine per penalty profile from cfg.
func NewService(deps Deps, cfg config.ScoringConfig) (*Service, error) {
	if deps.Cache == nil {
		deps.Cache = scorecache.Noop{}
	}

	strategy, err := scoring.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if _, err := scoring.PenaltyProfileByName(cfg.PenaltyProfile); err != nil {
		return nil, err
	}

	engines := make(map[string]*scoring.Engine, 2)
	for _, name := range []string{scoring.PenaltyProfileReduced, scoring.PenaltyProfileStrict} {
		profile, err := scoring.PenaltyProfileByName(name)
		if err != nil {
			return nil, err
		}
		opts := scoring.Options{PenaltyProfile: profile, DefaultStrategy: strategy}
		// переопределение штрафа относится только к профилю из конфига
		if name == cfg.PenaltyProfile {
			opts.NoFoodLogsPenalty = cfg.NoFoodLogsPenalty
		}
		engine, err := scoring.NewEngine(opts)
		if err != nil {
			return nil, fmt.Errorf("penalty profile %s: %w", name, err)
		}
		engines[name] = engine
	}

	return &Service{deps: deps, cfg: cfg, engines: engines, defaultStrategy: strategy}, nil
}

// ScoreDay scores date for profileID. Results are cached per variant; the
// default variant is also stored as the day's total.
func (s *Service) ScoreDay(ctx context.Context, profileID uuid.UUID, date string, opts DayOptions) (*DayScoreResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	profile, err := s.owned(ctx, profileID)
	if err != nil {
		return nil, err
	}

	strategy, err := s.resolveStrategy(*profile, opts.Strategy)
	if err != nil {
		return nil, err
	}
	penaltyProfile := s.cfg.PenaltyProfile
	if opts.PenaltyProfile != "" {
		penaltyProfile = opts.PenaltyProfile
	}
	engine, ok := s.engines[penaltyProfile]
	if !ok {
		return nil, fmt.Errorf("%w: penalty_profile must be reduced or strict", ErrInvalidRequest)
	}

	variant := scorecache.Variant(strategy, engine.PenaltyProfile().Name)
	if cached, hit, err := s.deps.Cache.Get(ctx, profileID, date, variant); err != nil {
		log.Printf("WARN scores: cache get failed profile_id=%s date=%s err=%v", profileID, date, err)
	} else if hit {
		return &DayScoreResponse{ProfileID: profileID, Date: date, Total: cached.Total, Cached: true, Breakdown: *cached}, nil
	}

	in, err := s.loadInputs(ctx, profileID, day)
	if err != nil {
		return nil, err
	}

	// без плана нагрузку определяет фактическая тренировка
	load := classifier.Classify(training.PlannedSessions(in.planned))
	if len(in.planned) == 0 {
		load = classifier.Classify(training.ActivitySessions(in.activities))
	}

	target, _, err := nutrition.BuildDayTarget(*profile, load, date)
	if err != nil {
		if errors.Is(err, nutrition.ErrProfileIncomplete) {
			return nil, fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
		}
		return nil, err
	}

	sc := buildContext(target, *profile, in, strategy, hydration{mlPerKg: s.cfg.HydrationMlPerKg})
	breakdown, err := engine.Score(sc)
	if err != nil {
		return nil, err
	}

	if opts.isDefault() {
		if err := s.persist(ctx, profileID, breakdown); err != nil {
			return nil, err
		}
	}
	if err := s.deps.Cache.Set(ctx, profileID, date, variant, breakdown); err != nil {
		log.Printf("WARN scores: cache set failed profile_id=%s date=%s err=%v", profileID, date, err)
	}

	return &DayScoreResponse{ProfileID: profileID, Date: date, Total: breakdown.Total, Breakdown: breakdown}, nil
}

// History lists stored daily totals in [from, to].
func (s *Service) History(ctx context.Context, profileID uuid.UUID, from, to string) (*HistoryResponse, error) {
	fromDay, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	toDay, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidRequest)
	}
	if toDay.Sub(fromDay) > maxHistoryDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRequest, maxHistoryDays)
	}

	if _, err := s.owned(ctx, profileID); err != nil {
		return nil, err
	}

	stored, err := s.deps.Scores.ListDailyScores(ctx, profileID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &HistoryResponse{ProfileID: profileID, From: from, To: to, Scores: make([]DailyScoreDTO, 0, len(stored))}
	var sum int
	for _, d := range stored {
		resp.Scores = append(resp.Scores, DailyScoreDTO{
			Date:           d.Date,
			Total:          d.Total,
			Load:           d.Load,
			Strategy:       d.Strategy,
			PenaltyProfile: d.PenaltyProfile,
		})
		sum += d.Total
	}
	if len(stored) > 0 {
		avg := float64(sum) / float64(len(stored))
		resp.Average = &avg
	}
	return resp, nil
}

func (s *Service) loadInputs(ctx context.Context, profileID uuid.UUID, day time.Time) (dayInputs, error) {
	date := day.Format(targets.DateLayout)
	var in dayInputs
	var err error

	if in.foodLogs, err = s.deps.FoodLogs.ListFoodLogs(ctx, profileID, date); err != nil {
		return in, fmt.Errorf("food logs: %w", err)
	}
	if in.planned, err = s.deps.Training.ListPlannedSessions(ctx, profileID, date); err != nil {
		return in, fmt.Errorf("planned sessions: %w", err)
	}
	if in.activities, err = s.deps.Training.ListActivities(ctx, profileID, date); err != nil {
		return in, fmt.Errorf("activities: %w", err)
	}
	if in.waterMl, err = s.deps.Intakes.GetWaterDaily(ctx, profileID, date); err != nil {
		return in, fmt.Errorf("water: %w", err)
	}

	prev := make([]string, 0, streakLookbackDays)
	for i := 1; i <= streakLookbackDays; i++ {
		prev = append(prev, day.AddDate(0, 0, -i).Format(targets.DateLayout))
	}
	history, err := s.deps.Scores.ListDailyScores(ctx, profileID, prev[len(prev)-1], prev[0])
	if err != nil {
		return in, fmt.Errorf("score history: %w", err)
	}
	in.streakDays = streakBefore(history, prev, s.cfg.StreakMinScore)

	return in, nil
}

func (s *Service) persist(ctx context.Context, profileID uuid.UUID, b scoring.Breakdown) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	return s.deps.Scores.UpsertDailyScore(ctx, &storage.DailyScore{
		ProfileID:      profileID,
		Date:           b.Date,
		Total:          b.Total,
		Load:           string(b.Load),
		Strategy:       string(b.Strategy),
		PenaltyProfile: b.PenaltyProfile,
		Breakdown:      raw,
	})
}

// resolveStrategy picks the request override, then the profile, then the config default.
func (s *Service) resolveStrategy(p storage.Profile, override string) (scoring.Strategy, error) {
	raw := override
	if raw == "" {
		raw = p.Strategy
	}
	if raw == "" {
		return s.defaultStrategy, nil
	}
	st, err := scoring.ParseStrategy(raw)
	if err != nil {
		return "", fmt.Errorf("%w: strategy must be runner-focused, general or meal-level", ErrInvalidRequest)
	}
	return st, nil
}

func (s *Service) owned(ctx context.Context, profileID uuid.UUID) (*storage.Profile, error) {
	profile, err := s.deps.Profiles.Owned(ctx, profileID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(targets.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return d, nil
}

package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/fuel-score/internal/periodization"
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/fdg312/fuel-score/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrInvalidType       = errors.New("invalid profile type")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrInvalidField      = errors.New("invalid field")
	ErrCannotDeleteOwner = errors.New("cannot delete owner profile")
	ErrNotFound          = errors.New("profile not found")
	ErrIncomplete        = errors.New("profile incomplete")
)

const defaultExperience = string(scoring.ExperienceIntermediate)

// ScoreInvalidator сбрасывает все закэшированные оценки профиля
type ScoreInvalidator interface {
	InvalidateProfile(ctx context.Context, profileID uuid.UUID) error
}

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.Storage
	cache   ScoreInvalidator
}

// NewService создаёт новый сервис
func NewService(st storage.Storage) *Service {
	return &Service{storage: st}
}

// WithScoreCache подключает кэш оценок, который сбрасывается при изменении профиля
func (s *Service) WithScoreCache(cache ScoreInvalidator) *Service {
	s.cache = cache
	return s
}

// ListProfiles возвращает профили текущего пользователя, создавая owner при первом обращении
func (s *Service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	userID := userctx.OwnerID(ctx)

	if err := s.ensureOwnerProfile(ctx, userID); err != nil {
		return nil, err
	}

	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		if p.OwnerUserID != userID {
			continue
		}
		dtos = append(dtos, toDTO(p))
	}

	return dtos, nil
}

// Owned возвращает профиль, если он принадлежит текущему пользователю
func (s *Service) Owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// чужой профиль выглядит как несуществующий
	if profile.OwnerUserID != userctx.OwnerID(ctx) {
		return nil, ErrNotFound
	}
	return profile, nil
}

// GetProfile возвращает профиль по ID
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.Owned(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// CreateProfile создаёт новый профиль (только guest)
func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Type != "guest" {
		return nil, ErrInvalidType
	}

	profile := &storage.Profile{
		OwnerUserID:     userctx.OwnerID(ctx),
		Type:            req.Type,
		Name:            strings.TrimSpace(req.Name),
		ExperienceLevel: defaultExperience,
	}
	if err := applyBodyFields(profile, req.BodyFields); err != nil {
		return nil, err
	}

	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// UpdateProfile частично обновляет профиль
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrEmptyName
	}

	profile, err := s.Owned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if err := applyBodyFields(profile, req.BodyFields); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	s.invalidateScores(ctx, profile.ID)

	dto := toDTO(*profile)
	return &dto, nil
}

// DeleteProfile удаляет профиль (только guest)
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	profile, err := s.Owned(ctx, id)
	if err != nil {
		return err
	}

	if profile.Type == "owner" {
		return ErrCannotDeleteOwner
	}

	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return err
	}
	s.invalidateScores(ctx, id)
	return nil
}

// invalidateScores: метрики, цель и дата старта влияют на все дни профиля
func (s *Service) invalidateScores(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, id); err != nil {
		log.Printf("WARN profiles: score cache invalidation failed profile=%s: %v", id, err)
	}
}

// BodyProfile извлекает метрики для расчёта энергии
func BodyProfile(p storage.Profile) (targets.UserProfile, error) {
	up := targets.UserProfile{
		WeightKg: p.WeightKg,
		HeightCm: p.HeightCm,
		Age:      p.Age,
		Sex:      targets.Sex(p.Sex),
	}
	if err := up.Validate(); err != nil {
		return targets.UserProfile{}, fmt.Errorf("%w: %v", ErrIncomplete, err)
	}
	return up, nil
}

func applyBodyFields(p *storage.Profile, f BodyFields) error {
	if f.WeightKg != nil {
		if *f.WeightKg <= 0 || *f.WeightKg > 400 {
			return fmt.Errorf("%w: weight_kg must be in (0, 400]", ErrInvalidField)
		}
		p.WeightKg = *f.WeightKg
	}
	if f.HeightCm != nil {
		if *f.HeightCm <= 0 || *f.HeightCm > 280 {
			return fmt.Errorf("%w: height_cm must be in (0, 280]", ErrInvalidField)
		}
		p.HeightCm = *f.HeightCm
	}
	if f.Age != nil {
		if *f.Age <= 0 || *f.Age > 120 {
			return fmt.Errorf("%w: age must be in (0, 120]", ErrInvalidField)
		}
		p.Age = *f.Age
	}
	if f.Sex != nil {
		sex, err := targets.ParseSex(*f.Sex)
		if err != nil {
			return fmt.Errorf("%w: sex must be male or female", ErrInvalidField)
		}
		p.Sex = string(sex)
	}
	if f.ExperienceLevel != nil {
		lvl, err := scoring.ParseExperienceLevel(*f.ExperienceLevel)
		if err != nil {
			return fmt.Errorf("%w: experience_level must be beginner, intermediate or advanced", ErrInvalidField)
		}
		p.ExperienceLevel = string(lvl)
	}
	if f.Goal != nil {
		goal, err := periodization.ParseGoal(*f.Goal)
		if err != nil {
			return fmt.Errorf("%w: unknown goal %q", ErrInvalidField, *f.Goal)
		}
		p.Goal = string(goal)
	}
	if f.RaceDate != nil {
		d := strings.TrimSpace(*f.RaceDate)
		if d == "" {
			p.RaceDate = nil
		} else {
			if _, err := time.Parse(targets.DateLayout, d); err != nil {
				return fmt.Errorf("%w: race_date must be YYYY-MM-DD", ErrInvalidField)
			}
			p.RaceDate = &d
		}
	}
	if f.Strategy != nil {
		if strings.TrimSpace(*f.Strategy) == "" {
			p.Strategy = ""
		} else {
			st, err := scoring.ParseStrategy(*f.Strategy)
			if err != nil {
				return fmt.Errorf("%w: unknown strategy %q", ErrInvalidField, *f.Strategy)
			}
			p.Strategy = string(st)
		}
	}
	return nil
}

// toDTO конвертирует storage.Profile в ProfileDTO
func toDTO(p storage.Profile) ProfileDTO {
	_, err := BodyProfile(p)
	return ProfileDTO{
		ID:              p.ID,
		OwnerUserID:     p.OwnerUserID,
		Type:            p.Type,
		Name:            p.Name,
		WeightKg:        p.WeightKg,
		HeightCm:        p.HeightCm,
		Age:             p.Age,
		Sex:             p.Sex,
		ExperienceLevel: p.ExperienceLevel,
		Goal:            p.Goal,
		RaceDate:        p.RaceDate,
		Strategy:        p.Strategy,
		Complete:        err == nil,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (s *Service) ensureOwnerProfile(ctx context.Context, userID string) error {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.OwnerUserID == userID && p.Type == "owner" {
			return nil
		}
	}
	profile := &storage.Profile{
		OwnerUserID:     userID,
		Type:            "owner",
		Name:            "Я",
		ExperienceLevel: defaultExperience,
	}
	return s.storage.CreateProfile(ctx, profile)
}

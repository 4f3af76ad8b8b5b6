// internal/frequency/service.go

package frequency

import (
	"context"
	"log"
	"time"
)

// Service defines the frequency service interface
type Service interface {
	ShouldSendCheckin(ctx context.Context, userID int64, promptType PromptType) (*Decision, error)
	RecordPromptSent(ctx context.Context, userID int64, promptType PromptType) error
	RecordEvent(ctx context.Context, userID int64, eventType string, eventContext interface{}) error

	GetProfile(ctx context.Context, userID int64) (*PartnerProfile, error)
	CreateProfile(ctx context.Context, profile *PartnerProfile) error

	GetGraduationProgress(ctx context.Context, userID int64) (*GraduationProgress, error)
	AdjustAllForGraduation(ctx context.Context) error

	GetQuietMode(ctx context.Context, userID int64) (*QuietMode, error)
	SetQuietMode(ctx context.Context, userID int64, active bool, reason string, allowEmergency bool, endsAt *time.Time) (*QuietMode, error)
}

type service struct {
	repo    Repository
	counter PromptCounter
	engine  *Engine
	clock   Clock
}

// NewService creates a frequency service.
func NewService(repo Repository, counter PromptCounter, clock Clock) Service {
	return &service{
		repo:    repo,
		counter: counter,
		engine:  NewEngine(repo, counter, clock),
		clock:   clock,
	}
}

func (s *service) ShouldSendCheckin(ctx context.Context, userID int64, promptType PromptType) (*Decision, error) {
	return s.engine.ShouldSendCheckin(ctx, userID, promptType)
}

func (s *service) RecordPromptSent(ctx context.Context, userID int64, promptType PromptType) error {
	return s.counter.RecordSend(ctx, userID, promptType, s.clock.Now())
}

func (s *service) RecordEvent(ctx context.Context, userID int64, eventType string, eventContext interface{}) error {
	return s.repo.RecordEvent(ctx, userID, eventType, eventContext)
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*PartnerProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *service) CreateProfile(ctx context.Context, profile *PartnerProfile) error {
	if profile.FrequencyPreference == "" {
		profile.FrequencyPreference = PreferenceModerate
	}
	return s.repo.CreateProfile(ctx, profile)
}

func (s *service) GetGraduationProgress(ctx context.Context, userID int64) (*GraduationProgress, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	snapshot, err := s.repo.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := Progress(profile, snapshot, s.clock.Now())
	return &progress, nil
}

// AdjustAllForGraduation applies the one-way frequency ratchet to every
// profile. Run weekly by the scheduler.
func (s *service) AdjustAllForGraduation(ctx context.Context) error {
	profiles, err := s.repo.GetAllProfiles(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	for _, profile := range profiles {
		snapshot, err := s.repo.GetSnapshot(ctx, profile.UserID)
		if err != nil {
			log.Printf("Graduation snapshot failed for user %d: %v", profile.UserID, err)
			continue
		}

		newPref, changed := AdjustForGraduation(profile, snapshot, now)
		if !changed {
			continue
		}

		if err := s.repo.UpdatePreference(ctx, profile.UserID, newPref); err != nil {
			log.Printf("Graduation adjustment failed for user %d: %v", profile.UserID, err)
			continue
		}

		log.Printf("Adjusted frequency for user %d: %s -> %s (week %d, independence %d)",
			profile.UserID, profile.FrequencyPreference, newPref,
			WeeksSince(profile.CreatedAt, now), snapshot.IndependenceScore)
	}

	return nil
}

func (s *service) GetQuietMode(ctx context.Context, userID int64) (*QuietMode, error) {
	return s.repo.GetQuietMode(ctx, userID)
}

func (s *service) SetQuietMode(ctx context.Context, userID int64, active bool, reason string, allowEmergency bool, endsAt *time.Time) (*QuietMode, error) {
	return s.repo.SetQuietMode(ctx, userID, active, reason, allowEmergency, endsAt)
}

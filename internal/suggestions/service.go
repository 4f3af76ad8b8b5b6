// internal/suggestions/service.go

package suggestions

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tandemlabs/tandem-backend/internal/personalization"
)

// Service defines the suggestions service interface
type Service interface {
	// GenerateWeekly returns this week's suggestions for a category,
	// generating and persisting them if the week has none yet.
	GenerateWeekly(ctx context.Context, userID int64, category string) ([]*Suggestion, error)

	// GetWeekSuggestions returns this week's already-generated rows.
	GetWeekSuggestions(ctx context.Context, userID int64, category string) ([]*Suggestion, error)

	// UpdateSuggestion marks a suggestion saved and/or completed.
	UpdateSuggestion(ctx context.Context, id, userID int64, req *UpdateSuggestionRequest) (*Suggestion, error)

	// GenerateForActiveUsers pre-generates all categories for recently
	// active users. Run by the weekly scheduler.
	GenerateForActiveUsers(ctx context.Context) error
}

const suggestionsPerWeek = 3

type service struct {
	repo    Repository
	builder *personalization.Builder

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewService creates a suggestions service. rng drives the top-candidate
// shuffle; pass a seeded source in tests for deterministic picks.
func NewService(repo Repository, builder *personalization.Builder, rng *rand.Rand) Service {
	return &service{
		repo:    repo,
		builder: builder,
		rng:     rng,
		now:     time.Now,
	}
}

func kindForCategory(category string) (personalization.Kind, bool) {
	switch category {
	case string(personalization.KindLoveLanguage),
		string(personalization.KindGift),
		string(personalization.KindDate):
		return personalization.Kind(category), true
	}
	return "", false
}

func (s *service) GenerateWeekly(ctx context.Context, userID int64, category string) ([]*Suggestion, error) {
	kind, ok := kindForCategory(category)
	if !ok {
		return nil, ErrUnknownCategory
	}

	now := s.now()
	weekStart := WeekStart(now)

	// Idempotency gate: the randomized pick below must never re-run within
	// the same week, so existing rows short-circuit generation entirely.
	existing, err := s.repo.GetWeekSuggestions(ctx, userID, category, weekStart)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	pc, err := s.builder.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked := personalization.Rank(personalization.TemplatesFor(kind), pc, now)
	candidates := personalization.FilterByMinScore(ranked, personalization.MinScore)
	if len(candidates) > 10 {
		candidates = candidates[:10]
	}

	topScore := 0
	if len(candidates) > 0 {
		topScore = candidates[0].Score
	}
	for _, c := range candidates {
		RecordCandidateScore(category, c.Score)
	}

	picked := s.shuffle(candidates)
	if len(picked) > suggestionsPerWeek {
		picked = picked[:suggestionsPerWeek]
	}

	dataSources, _ := json.Marshal(pc.DataSources)

	out := make([]*Suggestion, 0, len(picked))
	for _, c := range picked {
		meta, _ := json.Marshal(map[string]interface{}{
			"template_id": c.Template.ID,
			"score":       c.Score,
		})

		row := &Suggestion{
			UserID:              userID,
			Category:            category,
			SuggestionText:      personalization.Interpolate(c.Template.Title+": "+c.Template.Description, pc, now),
			SuggestionType:      string(c.Template.Kind),
			Reason:              personalization.Reason(c.Template, pc, now),
			TimeEstimate:        c.Template.TimeEstimate,
			Difficulty:          c.Template.Difficulty,
			WeekStartDate:       weekStart,
			DataSources:         dataSources,
			PersonalizationTier: pc.Tier,
			Metadata:            meta,
		}

		if err := s.repo.CreateSuggestion(ctx, row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	RecordGeneration(category)

	// Metadata is diagnostics, not product data; a failed save is logged
	// and the generated suggestions are still returned.
	metadata := &GenerationMetadata{
		ID:             uuid.New().String(),
		UserID:         userID,
		Category:       category,
		WeekStartDate:  weekStart,
		Tier:           pc.Tier,
		CandidateCount: len(candidates),
		TopScore:       topScore,
	}
	if err := s.repo.SaveGenerationMetadata(ctx, metadata); err != nil {
		log.Printf("Failed to save generation metadata for user %d: %v", userID, err)
	}

	return out, nil
}

// shuffle returns a uniformly permuted copy of the candidates.
func (s *service) shuffle(candidates []personalization.ScoredTemplate) []personalization.ScoredTemplate {
	out := make([]personalization.ScoredTemplate, len(candidates))
	copy(out, candidates)

	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	s.mu.Unlock()

	return out
}

func (s *service) GetWeekSuggestions(ctx context.Context, userID int64, category string) ([]*Suggestion, error) {
	if _, ok := kindForCategory(category); !ok {
		return nil, ErrUnknownCategory
	}
	return s.repo.GetWeekSuggestions(ctx, userID, category, WeekStart(s.now()))
}

func (s *service) UpdateSuggestion(ctx context.Context, id, userID int64, req *UpdateSuggestionRequest) (*Suggestion, error) {
	return s.repo.UpdateSuggestion(ctx, id, userID, req)
}

func (s *service) GenerateForActiveUsers(ctx context.Context) error {
	userIDs, err := s.repo.GetActiveUserIDs(ctx, 30)
	if err != nil {
		return err
	}

	categories := []string{
		string(personalization.KindLoveLanguage),
		string(personalization.KindGift),
		string(personalization.KindDate),
	}

	for _, userID := range userIDs {
		for _, category := range categories {
			if _, err := s.GenerateWeekly(ctx, userID, category); err != nil {
				log.Printf("Weekly generation failed for user %d category %s: %v", userID, category, err)
			}
		}
	}

	return nil
}

package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemlabs/tandem-backend/internal/personalization"
)

type fakeRepo struct {
	rows        []*Suggestion
	metadata    []*GenerationMetadata
	metadataErr error
	nextID      int64
}

func (f *fakeRepo) GetWeekSuggestions(ctx context.Context, userID int64, category string, weekStart time.Time) ([]*Suggestion, error) {
	var out []*Suggestion
	for _, s := range f.rows {
		if s.UserID == userID && s.Category == category && s.WeekStartDate.Equal(weekStart) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateSuggestion(ctx context.Context, s *Suggestion) error {
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	f.rows = append(f.rows, s)
	return nil
}

func (f *fakeRepo) UpdateSuggestion(ctx context.Context, id, userID int64, req *UpdateSuggestionRequest) (*Suggestion, error) {
	for _, s := range f.rows {
		if s.ID == id && s.UserID == userID {
			if req.Saved != nil {
				s.Saved = *req.Saved
			}
			if req.Completed != nil {
				s.Completed = *req.Completed
			}
			return s, nil
		}
	}
	return nil, ErrSuggestionNotFound
}

func (f *fakeRepo) SaveGenerationMetadata(ctx context.Context, m *GenerationMetadata) error {
	if f.metadataErr != nil {
		return f.metadataErr
	}
	f.metadata = append(f.metadata, m)
	return nil
}

func (f *fakeRepo) GetActiveUserIDs(ctx context.Context, activeWithinDays int) ([]int64, error) {
	return []int64{1}, nil
}

func newTestService(repo Repository) Service {
	personRepo := &personalization.MockRepository{
		Onboarding: &personalization.PartnerOnboarding{
			Partner: personalization.Partner{
				Name: "Jordan",
				LoveLanguages: personalization.LoveLanguages{
					Primary:   personalization.LanguageWords,
					Secondary: personalization.LanguageQualityTime,
				},
				Preferences: personalization.Preferences{
					DateTypes:  []string{"at_home"},
					GiftBudget: "low",
				},
				WantsNeeds: personalization.WantsNeeds{
					DateStyle: "cozy",
					GiftTypes: []string{"practical"},
				},
			},
			UpdatedAt: time.Now(),
		},
		Insights: []personalization.Insight{
			{QuestionText: "Favorite food?", PartnerAnswer: "Thai curry every time"},
		},
		Answers: 12,
	}
	builder := personalization.NewBuilder(personRepo)

	svc := NewService(repo, builder, rand.New(rand.NewSource(42)))
	svc.(*service).now = func() time.Time {
		return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC) // Wednesday
	}
	return svc
}

func TestWeekStart(t *testing.T) {
	wed := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	mon := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, WeekStart(mon))

	// Sunday belongs to the week that started six days earlier.
	sun := time.Date(2025, time.March, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), WeekStart(sun))
}

func TestGenerateWeeklyPersistsThree(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	out, err := svc.GenerateWeekly(context.Background(), 1, "love_language")
	require.NoError(t, err)
	require.Len(t, out, 3)

	for _, s := range out {
		assert.Equal(t, "love_language", s.Category)
		assert.NotEmpty(t, s.SuggestionText)
		assert.NotEmpty(t, s.Reason)
		assert.NotContains(t, s.SuggestionText, "{partner_name}")
		assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), s.WeekStartDate)
		assert.GreaterOrEqual(t, s.PersonalizationTier, 3)
	}

	require.Len(t, repo.metadata, 1)
	assert.Equal(t, "love_language", repo.metadata[0].Category)
	assert.GreaterOrEqual(t, repo.metadata[0].TopScore, personalization.MinScore)
}

func TestGenerateWeeklyIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	first, err := svc.GenerateWeekly(context.Background(), 1, "gift")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := svc.GenerateWeekly(context.Background(), 1, "gift")
	require.NoError(t, err)

	// Second call returns the same persisted rows; no new inserts, no
	// re-randomization.
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].SuggestionText, second[i].SuggestionText)
	}
	assert.Len(t, repo.rows, len(first))
	assert.Len(t, repo.metadata, 1)
}

func TestGenerateWeeklyMetadataFailureNonFatal(t *testing.T) {
	repo := &fakeRepo{metadataErr: errors.New("metadata table missing")}
	svc := newTestService(repo)

	out, err := svc.GenerateWeekly(context.Background(), 1, "date")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateWeeklyUnknownCategory(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.GenerateWeekly(context.Background(), 1, "astrology")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestGenerateWeeklyFiltersBelowMinScore(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	out, err := svc.GenerateWeekly(context.Background(), 1, "date")
	require.NoError(t, err)

	for _, s := range out {
		var meta struct {
			Score int `json:"score"`
		}
		require.NoError(t, json.Unmarshal(s.Metadata, &meta))
		assert.GreaterOrEqual(t, meta.Score, personalization.MinScore)
	}
}

func TestUpdateSuggestion(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	out, err := svc.GenerateWeekly(context.Background(), 1, "love_language")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	saved := true
	updated, err := svc.UpdateSuggestion(context.Background(), out[0].ID, 1, &UpdateSuggestionRequest{Saved: &saved})
	require.NoError(t, err)
	assert.True(t, updated.Saved)
	assert.False(t, updated.Completed)

	_, err = svc.UpdateSuggestion(context.Background(), 9999, 1, &UpdateSuggestionRequest{Saved: &saved})
	assert.ErrorIs(t, err, ErrSuggestionNotFound)
}

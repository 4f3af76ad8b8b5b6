// internal/personalization/repository.go

package personalization

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Errors
var (
	ErrOnboardingNotFound = errors.New("partner onboarding not found")
)

// PartnerOnboarding is the stored partner-onboarding record. The answer
// payload is a JSONB column holding the Partner aggregate as submitted.
type PartnerOnboarding struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Partner   Partner   `db:"-"`
	RawData   []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Repository defines the data access the context builder needs
type Repository interface {
	// GetPartnerOnboarding returns the onboarding record, or (nil, nil) when
	// the user's partner has not completed onboarding.
	GetPartnerOnboarding(ctx context.Context, userID int64) (*PartnerOnboarding, error)

	// GetInsights returns the user's saved insights, newest first.
	GetInsights(ctx context.Context, userID int64, limit int) ([]Insight, error)

	// CountQuizAnswers counts the user's answered quiz questions.
	CountQuizAnswers(ctx context.Context, userID int64) (int, error)

	// GetRecentWishes returns weekly-wish texts submitted since the cutoff.
	GetRecentWishes(ctx context.Context, userID int64, since time.Time) ([]string, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetPartnerOnboarding(ctx context.Context, userID int64) (*PartnerOnboarding, error) {
	var rec PartnerOnboarding
	query := `
		SELECT id, user_id, data, created_at, updated_at
		FROM partner_onboarding
		WHERE user_id = $1`

	err := r.db.GetContext(ctx, &rec, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partner onboarding: %w", err)
	}

	if err := json.Unmarshal(rec.RawData, &rec.Partner); err != nil {
		return nil, fmt.Errorf("failed to decode partner onboarding: %w", err)
	}

	return &rec, nil
}

func (r *postgresRepository) GetInsights(ctx context.Context, userID int64, limit int) ([]Insight, error) {
	var insights []Insight
	query := `
		SELECT id, user_id, question_text, partner_answer, created_at
		FROM insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &insights, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}

	return insights, nil
}

func (r *postgresRepository) CountQuizAnswers(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM quiz_answers WHERE user_id = $1`

	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count quiz answers: %w", err)
	}

	return count, nil
}

func (r *postgresRepository) GetRecentWishes(ctx context.Context, userID int64, since time.Time) ([]string, error) {
	var wishes []string
	query := `
		SELECT wish_text
		FROM weekly_wishes
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &wishes, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly wishes: %w", err)
	}

	return wishes, nil
}

// MockRepository is an in-memory Repository for tests
type MockRepository struct {
	Onboarding *PartnerOnboarding
	Insights   []Insight
	Answers    int
	Wishes     []string
	Err        error
}

func (m *MockRepository) GetPartnerOnboarding(ctx context.Context, userID int64) (*PartnerOnboarding, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Onboarding, nil
}

func (m *MockRepository) GetInsights(ctx context.Context, userID int64, limit int) ([]Insight, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit < len(m.Insights) {
		return m.Insights[:limit], nil
	}
	return m.Insights, nil
}

func (m *MockRepository) CountQuizAnswers(ctx context.Context, userID int64) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Answers, nil
}

func (m *MockRepository) GetRecentWishes(ctx context.Context, userID int64, since time.Time) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Wishes, nil
}

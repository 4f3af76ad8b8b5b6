// internal/suggestions/repository.go

package suggestions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines the suggestions data access interface
type Repository interface {
	GetWeekSuggestions(ctx context.Context, userID int64, category string, weekStart time.Time) ([]*Suggestion, error)
	CreateSuggestion(ctx context.Context, s *Suggestion) error
	UpdateSuggestion(ctx context.Context, id, userID int64, req *UpdateSuggestionRequest) (*Suggestion, error)
	SaveGenerationMetadata(ctx context.Context, m *GenerationMetadata) error
	GetActiveUserIDs(ctx context.Context, activeWithinDays int) ([]int64, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetWeekSuggestions(ctx context.Context, userID int64, category string, weekStart time.Time) ([]*Suggestion, error) {
	var out []*Suggestion
	query := `
		SELECT id, user_id, category, suggestion_text, suggestion_type, reason,
		       time_estimate, difficulty, week_start_date, saved, completed,
		       data_sources, personalization_tier, metadata, created_at
		FROM suggestions
		WHERE user_id = $1 AND category = $2 AND week_start_date = $3
		ORDER BY id`

	err := r.db.SelectContext(ctx, &out, query, userID, category, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get week suggestions: %w", err)
	}

	return out, nil
}

func (r *postgresRepository) CreateSuggestion(ctx context.Context, s *Suggestion) error {
	query := `
		INSERT INTO suggestions (
			user_id, category, suggestion_text, suggestion_type, reason,
			time_estimate, difficulty, week_start_date, saved, completed,
			data_sources, personalization_tier, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, false, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.Category, s.SuggestionText, s.SuggestionType, s.Reason,
		s.TimeEstimate, s.Difficulty, s.WeekStartDate,
		s.DataSources, s.PersonalizationTier, s.Metadata,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateSuggestion(ctx context.Context, id, userID int64, req *UpdateSuggestionRequest) (*Suggestion, error) {
	var s Suggestion
	query := `
		UPDATE suggestions
		SET saved = COALESCE($3, saved),
		    completed = COALESCE($4, completed)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, category, suggestion_text, suggestion_type, reason,
		          time_estimate, difficulty, week_start_date, saved, completed,
		          data_sources, personalization_tier, metadata, created_at`

	err := r.db.GetContext(ctx, &s, query, id, userID, req.Saved, req.Completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to update suggestion: %w", err)
	}

	return &s, nil
}

func (r *postgresRepository) SaveGenerationMetadata(ctx context.Context, m *GenerationMetadata) error {
	query := `
		INSERT INTO suggestion_generation_metadata (
			id, user_id, category, week_start_date, tier, candidate_count, top_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.UserID, m.Category, m.WeekStartDate, m.Tier, m.CandidateCount, m.TopScore)
	if err != nil {
		return fmt.Errorf("failed to save generation metadata: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetActiveUserIDs(ctx context.Context, activeWithinDays int) ([]int64, error) {
	var ids []int64
	query := `
		SELECT id FROM users
		WHERE last_active > NOW() - ($1 || ' days')::INTERVAL`

	err := r.db.SelectContext(ctx, &ids, query, activeWithinDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}

	return ids, nil
}

// internal/suggestions/models.go

package suggestions

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrUnknownCategory    = errors.New("unknown suggestion category")
)

// Suggestion is one persisted weekly suggestion row. At most three are
// created per (user, category, week); repeat generation requests within the
// same week return the existing rows.
type Suggestion struct {
	ID                  int64           `json:"id" db:"id"`
	UserID              int64           `json:"user_id" db:"user_id"`
	Category            string          `json:"category" db:"category"`
	SuggestionText      string          `json:"suggestion_text" db:"suggestion_text"`
	SuggestionType      string          `json:"suggestion_type" db:"suggestion_type"`
	Reason              string          `json:"reason" db:"reason"`
	TimeEstimate        string          `json:"time_estimate" db:"time_estimate"`
	Difficulty          string          `json:"difficulty" db:"difficulty"`
	WeekStartDate       time.Time       `json:"week_start_date" db:"week_start_date"`
	Saved               bool            `json:"saved" db:"saved"`
	Completed           bool            `json:"completed" db:"completed"`
	DataSources         json.RawMessage `json:"data_sources" db:"data_sources"`
	PersonalizationTier int             `json:"personalization_tier" db:"personalization_tier"`
	Metadata            json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}

// GenerationMetadata records how a week's batch was produced. Saving it is
// best-effort; a failure here never fails the generation itself.
type GenerationMetadata struct {
	ID            string    `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	Category      string    `json:"category" db:"category"`
	WeekStartDate time.Time `json:"week_start_date" db:"week_start_date"`
	Tier          int       `json:"tier" db:"tier"`
	CandidateCount int      `json:"candidate_count" db:"candidate_count"`
	TopScore      int       `json:"top_score" db:"top_score"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// UpdateSuggestionRequest marks a suggestion saved and/or completed.
type UpdateSuggestionRequest struct {
	Saved     *bool `json:"saved"`
	Completed *bool `json:"completed"`
}

// WeekStart returns the Monday of t's ISO week, at midnight in t's location.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

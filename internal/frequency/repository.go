// internal/frequency/repository.go

package frequency

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines the frequency data access interface
type Repository interface {
	// Profiles
	GetProfile(ctx context.Context, userID int64) (*PartnerProfile, error)
	CreateProfile(ctx context.Context, profile *PartnerProfile) error
	UpdatePreference(ctx context.Context, userID int64, pref FrequencyPreference) error
	GetAllProfiles(ctx context.Context) ([]*PartnerProfile, error)

	// Quiet mode
	GetQuietMode(ctx context.Context, userID int64) (*QuietMode, error)
	SetQuietMode(ctx context.Context, userID int64, active bool, reason string, allowEmergency bool, endsAt *time.Time) (*QuietMode, error)

	// Engagement event log (append-only)
	RecordEvent(ctx context.Context, userID int64, eventType string, eventContext interface{}) error
	RecordPromptSent(ctx context.Context, userID int64, pt PromptType) error
	CountPromptEvents(ctx context.Context, userID int64, pt PromptType, since time.Time) (int, error)
	GetSnapshot(ctx context.Context, userID int64) (*EngagementSnapshot, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*PartnerProfile, error) {
	var profile PartnerProfile
	query := `
		SELECT id, user_id, love_language_primary, love_language_secondary,
		       communication_style, stress_needs, frequency_preference,
		       checkin_windows, custom_preferences, learned_patterns,
		       engagement_score, created_at, updated_at
		FROM partner_profiles
		WHERE user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partner profile: %w", err)
	}

	return &profile, nil
}

func (r *postgresRepository) CreateProfile(ctx context.Context, p *PartnerProfile) error {
	query := `
		INSERT INTO partner_profiles (
			user_id, love_language_primary, love_language_secondary,
			communication_style, stress_needs, frequency_preference,
			checkin_windows, custom_preferences, learned_patterns, engagement_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.LoveLanguagePrimary, p.LoveLanguageSecond,
		p.CommunicationStyle, p.StressNeeds, p.FrequencyPreference,
		p.CheckinWindows, p.CustomPreferences, p.LearnedPatterns, p.EngagementScore,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create partner profile: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdatePreference(ctx context.Context, userID int64, pref FrequencyPreference) error {
	query := `
		UPDATE partner_profiles
		SET frequency_preference = $2, updated_at = NOW()
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, pref)
	if err != nil {
		return fmt.Errorf("failed to update frequency preference: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *postgresRepository) GetAllProfiles(ctx context.Context) ([]*PartnerProfile, error) {
	var profiles []*PartnerProfile
	query := `
		SELECT id, user_id, love_language_primary, love_language_secondary,
		       communication_style, stress_needs, frequency_preference,
		       checkin_windows, custom_preferences, learned_patterns,
		       engagement_score, created_at, updated_at
		FROM partner_profiles
		ORDER BY id`

	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner profiles: %w", err)
	}

	return profiles, nil
}

func (r *postgresRepository) GetQuietMode(ctx context.Context, userID int64) (*QuietMode, error) {
	var qm QuietMode
	query := `
		SELECT id, user_id, active, reason, allow_emergency_messages, activated_at, ends_at, updated_at
		FROM quiet_mode
		WHERE user_id = $1`

	err := r.db.GetContext(ctx, &qm, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiet mode: %w", err)
	}

	return &qm, nil
}

// SetQuietMode upserts the one quiet-mode row per user. Activating stamps
// activated_at; deactivating leaves the last activation timestamp in place.
func (r *postgresRepository) SetQuietMode(ctx context.Context, userID int64, active bool, reason string, allowEmergency bool, endsAt *time.Time) (*QuietMode, error) {
	var qm QuietMode
	query := `
		INSERT INTO quiet_mode (user_id, active, reason, allow_emergency_messages, activated_at, ends_at, updated_at)
		VALUES ($1, $2, $3, $4, CASE WHEN $2 THEN NOW() END, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET active = $2, reason = $3, allow_emergency_messages = $4,
		    activated_at = CASE WHEN $2 THEN NOW() ELSE quiet_mode.activated_at END,
		    ends_at = $5, updated_at = NOW()
		RETURNING id, user_id, active, reason, allow_emergency_messages, activated_at, ends_at, updated_at`

	err := r.db.GetContext(ctx, &qm, query, userID, active, reason, allowEmergency, endsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to set quiet mode: %w", err)
	}

	return &qm, nil
}

func (r *postgresRepository) RecordEvent(ctx context.Context, userID int64, eventType string, eventContext interface{}) error {
	var contextJSON []byte
	if eventContext != nil {
		var err error
		contextJSON, err = json.Marshal(eventContext)
		if err != nil {
			return fmt.Errorf("failed to encode event context: %w", err)
		}
	}

	query := `INSERT INTO learning_events (user_id, event_type, context) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, userID, eventType, contextJSON)
	if err != nil {
		return fmt.Errorf("failed to record engagement event: %w", err)
	}

	return nil
}

func (r *postgresRepository) RecordPromptSent(ctx context.Context, userID int64, pt PromptType) error {
	return r.RecordEvent(ctx, userID, EventPromptSent, map[string]string{"prompt_type": string(pt)})
}

func (r *postgresRepository) CountPromptEvents(ctx context.Context, userID int64, pt PromptType, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM learning_events
		WHERE user_id = $1
		  AND event_type = $2
		  AND context->>'prompt_type' = $3
		  AND created_at >= $4`

	err := r.db.GetContext(ctx, &count, query, userID, EventPromptSent, pt, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count prompt events: %w", err)
	}

	return count, nil
}

// GetSnapshot derives the engagement snapshot from the event log.
func (r *postgresRepository) GetSnapshot(ctx context.Context, userID int64) (*EngagementSnapshot, error) {
	snapshot := &EngagementSnapshot{
		LastPromptAt: make(map[PromptType]*time.Time),
	}

	var counts struct {
		Spontaneous  int `db:"spontaneous"`
		Accepted     int `db:"accepted"`
		Offered      int `db:"offered"`
		ResolvedSolo int `db:"resolved_solo"`
		Raised       int `db:"raised"`
	}
	countsQuery := `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'spontaneous_action') AS spontaneous,
			COUNT(*) FILTER (WHERE event_type = 'suggestion_accepted') AS accepted,
			COUNT(*) FILTER (WHERE event_type = 'suggestion_offered') AS offered,
			COUNT(*) FILTER (WHERE event_type = 'need_resolved_without_app') AS resolved_solo,
			COUNT(*) FILTER (WHERE event_type = 'need_raised') AS raised
		FROM learning_events
		WHERE user_id = $1 AND created_at > NOW() - INTERVAL '90 days'`

	if err := r.db.GetContext(ctx, &counts, countsQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to derive engagement counts: %w", err)
	}

	snapshot.SpontaneousActions = counts.Spontaneous
	if counts.Offered > 0 {
		snapshot.AcceptanceRate = float64(counts.Accepted) / float64(counts.Offered)
	}
	if counts.Raised > 0 {
		snapshot.NeedsResolvedRatio = float64(counts.ResolvedSolo) / float64(counts.Raised)
	}
	snapshot.IndependenceScore = independenceScore(counts.Spontaneous, snapshot.AcceptanceRate, snapshot.NeedsResolvedRatio)

	// Last prompt per type.
	type lastRow struct {
		PromptType string    `db:"prompt_type"`
		LastAt     time.Time `db:"last_at"`
	}
	var lasts []lastRow
	lastQuery := `
		SELECT context->>'prompt_type' AS prompt_type, MAX(created_at) AS last_at
		FROM learning_events
		WHERE user_id = $1 AND event_type = $2 AND context->>'prompt_type' IS NOT NULL
		GROUP BY context->>'prompt_type'`

	if err := r.db.SelectContext(ctx, &lasts, lastQuery, userID, EventPromptSent); err != nil {
		return nil, fmt.Errorf("failed to derive last prompt times: %w", err)
	}
	for _, row := range lasts {
		at := row.LastAt
		snapshot.LastPromptAt[PromptType(row.PromptType)] = &at
	}

	// Trend: recent 30-day event volume vs the 30 days before that.
	var trend struct {
		Recent int `db:"recent"`
		Prior  int `db:"prior"`
	}
	trendQuery := `
		SELECT
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '30 days') AS recent,
			COUNT(*) FILTER (WHERE created_at <= NOW() - INTERVAL '30 days'
			             AND created_at > NOW() - INTERVAL '60 days') AS prior
		FROM learning_events
		WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &trend, trendQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to derive engagement trend: %w", err)
	}
	switch {
	case trend.Recent > trend.Prior:
		snapshot.Trend = "increasing"
	case trend.Recent < trend.Prior:
		snapshot.Trend = "decreasing"
	default:
		snapshot.Trend = "steady"
	}

	return snapshot, nil
}

// independenceScore folds the solo-action signals into a 0-100 score.
func independenceScore(spontaneous int, acceptanceRate, resolvedRatio float64) int {
	actions := float64(spontaneous)
	if actions > 20 {
		actions = 20
	}

	score := 0.4*(actions/20*100) + 0.3*((1-acceptanceRate)*100) + 0.3*(resolvedRatio*100)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

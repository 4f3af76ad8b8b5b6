// internal/helpinghand/repository.go

package helpinghand

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Server-side functions
	GetCategoryCounts(ctx context.Context, userID int64) ([]*CategoryCount, error)
	GetSuggestionsWithCategory(ctx context.Context, userID int64, weekStart time.Time) ([]*Suggestion, error)
	GetPartnerGuessAboutMe(ctx context.Context, userID int64) ([]*PartnerGuess, error)
	GetActivePartnerHints(ctx context.Context, userID int64) ([]*PartnerHint, error)

	// Categories
	ListCategories(ctx context.Context) ([]*Category, error)

	// Suggestions
	CompleteSuggestion(ctx context.Context, suggestionID, userID int64) (*Suggestion, error)

	// Reminders
	CreateReminder(ctx context.Context, reminder *Reminder) error
	GetReminder(ctx context.Context, reminderID int64) (*Reminder, error)
	ListReminders(ctx context.Context, userID int64, activeOnly bool) ([]*Reminder, error)
	GetDueReminders(ctx context.Context, before time.Time) ([]*Reminder, error)
	UpdateReminderNextDue(ctx context.Context, reminderID int64, nextDueAt time.Time) error
	DeactivateReminder(ctx context.Context, reminderID, userID int64) error

	// Partner hints
	CreateHint(ctx context.Context, hint *PartnerHint) error
	DeactivateHint(ctx context.Context, hintID, userID int64) error

	// Weekly status
	GetWeekStatus(ctx context.Context, userID int64, weekStart time.Time) (*UserStatus, error)
	UpsertWeekStatus(ctx context.Context, status *UserStatus) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// GetCategoryCounts calls the get_helping_hand_category_counts function
func (r *postgresRepository) GetCategoryCounts(ctx context.Context, userID int64) ([]*CategoryCount, error) {
	query := `SELECT category_id, category_name, suggestion_count FROM get_helping_hand_category_counts($1)`

	var counts []*CategoryCount
	err := r.db.SelectContext(ctx, &counts, query, userID)
	return counts, err
}

// GetSuggestionsWithCategory calls the get_helping_hand_suggestions_with_category function
func (r *postgresRepository) GetSuggestionsWithCategory(ctx context.Context, userID int64, weekStart time.Time) ([]*Suggestion, error) {
	query := `
        SELECT id, user_id, category_id, category_name, text, time_estimate,
               difficulty, week_start_date, completed, completed_at, created_at
        FROM get_helping_hand_suggestions_with_category($1, $2)`

	var suggestions []*Suggestion
	err := r.db.SelectContext(ctx, &suggestions, query, userID, weekStart)
	return suggestions, err
}

// GetPartnerGuessAboutMe calls the get_partner_guess_about_me function
func (r *postgresRepository) GetPartnerGuessAboutMe(ctx context.Context, userID int64) ([]*PartnerGuess, error) {
	query := `SELECT id, partner_id, question, guess, created_at FROM get_partner_guess_about_me($1)`

	var guesses []*PartnerGuess
	err := r.db.SelectContext(ctx, &guesses, query, userID)
	return guesses, err
}

// GetActivePartnerHints calls the get_active_partner_hints function
func (r *postgresRepository) GetActivePartnerHints(ctx context.Context, userID int64) ([]*PartnerHint, error) {
	query := `
        SELECT id, user_id, partner_id, hint, category, active, expires_at, created_at
        FROM get_active_partner_hints($1)`

	var hints []*PartnerHint
	err := r.db.SelectContext(ctx, &hints, query, userID)
	return hints, err
}

// ListCategories retrieves all helping hand categories
func (r *postgresRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	query := `
        SELECT id, name, slug, description, icon, sort_order
        FROM helping_hand_categories
        ORDER BY sort_order, name`

	var categories []*Category
	err := r.db.SelectContext(ctx, &categories, query)
	return categories, err
}

// CompleteSuggestion marks a suggestion completed and returns the row
func (r *postgresRepository) CompleteSuggestion(ctx context.Context, suggestionID, userID int64) (*Suggestion, error) {
	query := `
        UPDATE helping_hand_suggestions
        SET completed = true, completed_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING id, user_id, category_id, '' AS category_name, text, time_estimate,
                  difficulty, week_start_date, completed, completed_at, created_at`

	var suggestion Suggestion
	err := r.db.GetContext(ctx, &suggestion, query, suggestionID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// CreateReminder creates a reminder
func (r *postgresRepository) CreateReminder(ctx context.Context, reminder *Reminder) error {
	query := `
        INSERT INTO helping_hand_reminders
        (user_id, suggestion_id, title, notes, frequency, weekdays, next_due_at, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, true)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		reminder.UserID, reminder.SuggestionID, reminder.Title, reminder.Notes,
		reminder.Frequency, reminder.Weekdays, reminder.NextDueAt,
	).Scan(&reminder.ID, &reminder.CreatedAt, &reminder.UpdatedAt)
}

// GetReminder retrieves a reminder by ID
func (r *postgresRepository) GetReminder(ctx context.Context, reminderID int64) (*Reminder, error) {
	var reminder Reminder
	query := `
        SELECT id, user_id, suggestion_id, title, notes, frequency, weekdays,
               next_due_at, active, created_at, updated_at
        FROM helping_hand_reminders
        WHERE id = $1`

	err := r.db.GetContext(ctx, &reminder, query, reminderID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &reminder, err
}

// ListReminders retrieves a user's reminders
func (r *postgresRepository) ListReminders(ctx context.Context, userID int64, activeOnly bool) ([]*Reminder, error) {
	query := `
        SELECT id, user_id, suggestion_id, title, notes, frequency, weekdays,
               next_due_at, active, created_at, updated_at
        FROM helping_hand_reminders
        WHERE user_id = $1`

	if activeOnly {
		query += " AND active = true"
	}

	query += " ORDER BY next_due_at ASC"

	var reminders []*Reminder
	err := r.db.SelectContext(ctx, &reminders, query, userID)
	return reminders, err
}

// GetDueReminders retrieves active reminders due before the cutoff
func (r *postgresRepository) GetDueReminders(ctx context.Context, before time.Time) ([]*Reminder, error) {
	query := `
        SELECT id, user_id, suggestion_id, title, notes, frequency, weekdays,
               next_due_at, active, created_at, updated_at
        FROM helping_hand_reminders
        WHERE active = true AND next_due_at <= $1
        ORDER BY next_due_at ASC`

	var reminders []*Reminder
	err := r.db.SelectContext(ctx, &reminders, query, before)
	return reminders, err
}

// UpdateReminderNextDue advances a reminder's next firing time
func (r *postgresRepository) UpdateReminderNextDue(ctx context.Context, reminderID int64, nextDueAt time.Time) error {
	query := `
        UPDATE helping_hand_reminders
        SET next_due_at = $2, updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, reminderID, nextDueAt)
	return err
}

// DeactivateReminder turns a reminder off
func (r *postgresRepository) DeactivateReminder(ctx context.Context, reminderID, userID int64) error {
	query := `
        UPDATE helping_hand_reminders
        SET active = false, updated_at = NOW()
        WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, reminderID, userID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// CreateHint creates a partner hint
func (r *postgresRepository) CreateHint(ctx context.Context, hint *PartnerHint) error {
	query := `
        INSERT INTO helping_hand_partner_hints
        (user_id, partner_id, hint, category, active, expires_at)
        VALUES ($1, $2, $3, $4, true, $5)
        RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		hint.UserID, hint.PartnerID, hint.Hint, hint.Category, hint.ExpiresAt,
	).Scan(&hint.ID, &hint.CreatedAt)
}

// DeactivateHint turns a hint off
func (r *postgresRepository) DeactivateHint(ctx context.Context, hintID, userID int64) error {
	query := `
        UPDATE helping_hand_partner_hints
        SET active = false
        WHERE id = $1 AND partner_id = $2`

	_, err := r.db.ExecContext(ctx, query, hintID, userID)
	return err
}

// GetWeekStatus retrieves the week-scoped status row
func (r *postgresRepository) GetWeekStatus(ctx context.Context, userID int64, weekStart time.Time) (*UserStatus, error) {
	var status UserStatus
	query := `
        SELECT id, user_id, week_start_date, tasks_completed, tasks_total, streak, updated_at
        FROM helping_hand_user_status
        WHERE user_id = $1 AND week_start_date = $2`

	err := r.db.GetContext(ctx, &status, query, userID, weekStart)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &status, err
}

// UpsertWeekStatus inserts or updates the week-scoped status row. The
// (user_id, week_start_date) pair is unique.
func (r *postgresRepository) UpsertWeekStatus(ctx context.Context, status *UserStatus) error {
	query := `
        INSERT INTO helping_hand_user_status
        (user_id, week_start_date, tasks_completed, tasks_total, streak)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, week_start_date)
        DO UPDATE SET tasks_completed = $3, tasks_total = $4, streak = $5, updated_at = NOW()
        RETURNING id, updated_at`

	return r.db.QueryRowContext(ctx, query,
		status.UserID, status.WeekStartDate, status.TasksCompleted,
		status.TasksTotal, status.Streak,
	).Scan(&status.ID, &status.UpdatedAt)
}

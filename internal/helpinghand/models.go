// internal/helpinghand/models.go

package helpinghand

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrSuggestionNotFound = errors.New("helping hand suggestion not found")
	ErrInvalidFrequency   = errors.New("invalid reminder frequency")
)

// Category is a helping hand task category (acts of service, words, etc.)
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
	Icon        string `json:"icon" db:"icon"`
	SortOrder   int    `json:"sort_order" db:"sort_order"`
}

// CategoryCount is one row of the get_helping_hand_category_counts function.
type CategoryCount struct {
	CategoryID   int64  `json:"category_id" db:"category_id"`
	CategoryName string `json:"category_name" db:"category_name"`
	Count        int    `json:"count" db:"suggestion_count"`
}

// Suggestion is a weekly helping hand task. Uniqueness is week-scoped:
// one set of rows per (user, week_start_date).
type Suggestion struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	CategoryID    int64     `json:"category_id" db:"category_id"`
	CategoryName  string    `json:"category_name" db:"category_name"`
	Text          string    `json:"text" db:"text"`
	TimeEstimate  string    `json:"time_estimate" db:"time_estimate"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	WeekStartDate time.Time `json:"week_start_date" db:"week_start_date"`
	Completed     bool      `json:"completed" db:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Frequency is how often a reminder repeats.
type Frequency string

const (
	FrequencyOnce          Frequency = "once"
	FrequencyDaily         Frequency = "daily"
	FrequencyEveryOtherDay Frequency = "every_other_day"
	FrequencyTwiceWeekly   Frequency = "twice_weekly"
	FrequencyWeekly        Frequency = "weekly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyEveryOtherDay, FrequencyTwiceWeekly, FrequencyWeekly:
		return true
	}
	return false
}

// Reminder nudges the user about a helping hand task. Weekdays, when set,
// pins firing to those days (0 = Sunday); otherwise the frequency's default
// cadence applies.
type Reminder struct {
	ID           int64         `json:"id" db:"id"`
	UserID       int64         `json:"user_id" db:"user_id"`
	SuggestionID *int64        `json:"suggestion_id,omitempty" db:"suggestion_id"`
	Title        string        `json:"title" db:"title"`
	Notes        string        `json:"notes" db:"notes"`
	Frequency    Frequency     `json:"frequency" db:"frequency"`
	Weekdays     pq.Int64Array `json:"weekdays,omitempty" db:"weekdays"`
	NextDueAt    time.Time     `json:"next_due_at" db:"next_due_at"`
	Active       bool          `json:"active" db:"active"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// PartnerHint is a wish the partner dropped for the user to act on.
type PartnerHint struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	PartnerID int64      `json:"partner_id" db:"partner_id"`
	Hint      string     `json:"hint" db:"hint"`
	Category  string     `json:"category" db:"category"`
	Active    bool       `json:"active" db:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// PartnerGuess is a partner's answer from the "guess about me" quiz,
// surfaced read-only via get_partner_guess_about_me.
type PartnerGuess struct {
	ID        int64     `json:"id" db:"id"`
	PartnerID int64     `json:"partner_id" db:"partner_id"`
	Question  string    `json:"question" db:"question"`
	Guess     string    `json:"guess" db:"guess"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserStatus is the week-scoped progress row, unique on
// (user_id, week_start_date).
type UserStatus struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	WeekStartDate  time.Time `json:"week_start_date" db:"week_start_date"`
	TasksCompleted int       `json:"tasks_completed" db:"tasks_completed"`
	TasksTotal     int       `json:"tasks_total" db:"tasks_total"`
	Streak         int       `json:"streak" db:"streak"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// CreateReminderRequest creates a reminder for a task
type CreateReminderRequest struct {
	SuggestionID *int64    `json:"suggestion_id,omitempty"`
	Title        string    `json:"title" validate:"required,max=200"`
	Notes        string    `json:"notes" validate:"max=1000"`
	Frequency    Frequency `json:"frequency" validate:"required,oneof=once daily every_other_day twice_weekly weekly"`
	Weekdays     []int64   `json:"weekdays,omitempty" validate:"omitempty,dive,min=0,max=6"`
}

// CreateHintRequest drops a hint for the partner
type CreateHintRequest struct {
	PartnerID int64      `json:"partner_id" validate:"required"`
	Hint      string     `json:"hint" validate:"required,max=500"`
	Category  string     `json:"category" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

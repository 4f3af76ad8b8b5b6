// internal/helpinghand/service.go

package helpinghand

import (
	"context"
	"log"
	"time"

	"github.com/lib/pq"
	notifications "github.com/tandemlabs/tandem-backend/internal/notification"
	"github.com/tandemlabs/tandem-backend/internal/suggestions"
)

// ReminderNotifier delivers due-reminder pings through the adaptive
// notification pipeline.
type ReminderNotifier interface {
	SendAdaptive(ctx context.Context, req *notifications.SendRequest) (*notifications.TimingDecision, notifications.CancelFunc, error)
}

type Service interface {
	GetCategories(ctx context.Context, userID int64) ([]*CategoryCount, error)
	GetWeekSuggestions(ctx context.Context, userID int64) ([]*Suggestion, error)
	CompleteSuggestion(ctx context.Context, suggestionID, userID int64) (*UserStatus, error)

	CreateReminder(ctx context.Context, userID int64, req *CreateReminderRequest) (*Reminder, error)
	ListReminders(ctx context.Context, userID int64) ([]*Reminder, error)
	DeleteReminder(ctx context.Context, reminderID, userID int64) error
	ProcessDueReminders(ctx context.Context) error

	GetPartnerHints(ctx context.Context, userID int64) ([]*PartnerHint, error)
	CreateHint(ctx context.Context, userID, partnerID int64, req *CreateHintRequest) (*PartnerHint, error)
	DismissHint(ctx context.Context, hintID, userID int64) error

	GetPartnerGuesses(ctx context.Context, userID int64) ([]*PartnerGuess, error)
	GetWeekStatus(ctx context.Context, userID int64) (*UserStatus, error)
}

type service struct {
	repo     Repository
	notifier ReminderNotifier
	now      func() time.Time
}

// NewService creates the helping hand service. The notifier may be nil; due
// reminders are then advanced without sending anything.
func NewService(repo Repository, notifier ReminderNotifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) GetCategories(ctx context.Context, userID int64) ([]*CategoryCount, error) {
	return s.repo.GetCategoryCounts(ctx, userID)
}

func (s *service) GetWeekSuggestions(ctx context.Context, userID int64) ([]*Suggestion, error) {
	weekStart := suggestions.WeekStart(s.now())
	return s.repo.GetSuggestionsWithCategory(ctx, userID, weekStart)
}

// CompleteSuggestion marks the task done and refreshes the week's status row.
func (s *service) CompleteSuggestion(ctx context.Context, suggestionID, userID int64) (*UserStatus, error) {
	if _, err := s.repo.CompleteSuggestion(ctx, suggestionID, userID); err != nil {
		return nil, err
	}

	weekStart := suggestions.WeekStart(s.now())
	week, err := s.repo.GetSuggestionsWithCategory(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, sg := range week {
		if sg.Completed {
			completed++
		}
	}

	existing, err := s.repo.GetWeekStatus(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	status := &UserStatus{
		UserID:         userID,
		WeekStartDate:  weekStart,
		TasksCompleted: completed,
		TasksTotal:     len(week),
	}
	if existing != nil {
		status.Streak = existing.Streak
	}

	// The streak ticks once, when the week first becomes fully complete.
	fullyDone := len(week) > 0 && completed == len(week)
	alreadyDone := existing != nil && existing.TasksTotal > 0 && existing.TasksCompleted == existing.TasksTotal
	if fullyDone && !alreadyDone {
		status.Streak++
	}

	if err := s.repo.UpsertWeekStatus(ctx, status); err != nil {
		return nil, err
	}

	return status, nil
}

func (s *service) CreateReminder(ctx context.Context, userID int64, req *CreateReminderRequest) (*Reminder, error) {
	if !req.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	reminder := &Reminder{
		UserID:       userID,
		SuggestionID: req.SuggestionID,
		Title:        req.Title,
		Notes:        req.Notes,
		Frequency:    req.Frequency,
		Weekdays:     pq.Int64Array(req.Weekdays),
		Active:       true,
	}

	if req.Frequency == FrequencyOnce {
		// One-shots fire tomorrow morning.
		reminder.NextDueAt = at9AM(s.now().AddDate(0, 0, 1))
	} else {
		reminder.NextDueAt = NextDue(req.Frequency, req.Weekdays, s.now())
	}

	if err := s.repo.CreateReminder(ctx, reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

func (s *service) ListReminders(ctx context.Context, userID int64) ([]*Reminder, error) {
	return s.repo.ListReminders(ctx, userID, true)
}

func (s *service) DeleteReminder(ctx context.Context, reminderID, userID int64) error {
	return s.repo.DeactivateReminder(ctx, reminderID, userID)
}

// ProcessDueReminders pings users about due reminders and advances each
// reminder to its next firing, deactivating one-shots.
func (s *service) ProcessDueReminders(ctx context.Context) error {
	due, err := s.repo.GetDueReminders(ctx, s.now())
	if err != nil {
		return err
	}

	for _, reminder := range due {
		if s.notifier != nil {
			title, body := notifications.DefaultCopy(notifications.TypeReminder, notifications.NotificationData{
				"reminder": reminder.Title,
			})
			req := &notifications.SendRequest{
				UserID:  reminder.UserID,
				Type:    notifications.TypeReminder,
				Title:   title,
				Message: body,
				Data: notifications.NotificationData{
					"reminder_id": reminder.ID,
				},
			}
			if _, _, err := s.notifier.SendAdaptive(ctx, req); err != nil {
				log.Printf("Failed to send reminder %d: %v", reminder.ID, err)
			}
		}

		next := NextDue(reminder.Frequency, reminder.Weekdays, s.now())
		if next.IsZero() {
			if err := s.repo.DeactivateReminder(ctx, reminder.ID, reminder.UserID); err != nil {
				log.Printf("Failed to deactivate reminder %d: %v", reminder.ID, err)
			}
			continue
		}

		if err := s.repo.UpdateReminderNextDue(ctx, reminder.ID, next); err != nil {
			log.Printf("Failed to advance reminder %d: %v", reminder.ID, err)
		}
	}

	return nil
}

func (s *service) GetPartnerHints(ctx context.Context, userID int64) ([]*PartnerHint, error) {
	return s.repo.GetActivePartnerHints(ctx, userID)
}

// CreateHint records a hint from userID for their partner to act on.
func (s *service) CreateHint(ctx context.Context, userID, partnerID int64, req *CreateHintRequest) (*PartnerHint, error) {
	hint := &PartnerHint{
		UserID:    userID,
		PartnerID: partnerID,
		Hint:      req.Hint,
		Category:  req.Category,
		Active:    true,
		ExpiresAt: req.ExpiresAt,
	}

	if err := s.repo.CreateHint(ctx, hint); err != nil {
		return nil, err
	}

	return hint, nil
}

func (s *service) DismissHint(ctx context.Context, hintID, userID int64) error {
	return s.repo.DeactivateHint(ctx, hintID, userID)
}

func (s *service) GetPartnerGuesses(ctx context.Context, userID int64) ([]*PartnerGuess, error) {
	return s.repo.GetPartnerGuessAboutMe(ctx, userID)
}

func (s *service) GetWeekStatus(ctx context.Context, userID int64) (*UserStatus, error) {
	weekStart := suggestions.WeekStart(s.now())

	status, err := s.repo.GetWeekStatus(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if status == nil {
		status = &UserStatus{UserID: userID, WeekStartDate: weekStart}
	}
	return status, nil
}

package helpinghand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifications "github.com/tandemlabs/tandem-backend/internal/notification"
)

type fakeRepo struct {
	suggestions []*Suggestion
	reminders   []*Reminder
	hints       []*PartnerHint
	statuses    map[int64]*UserStatus // keyed by user ID, single week in tests
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{statuses: make(map[int64]*UserStatus)}
}

func (r *fakeRepo) GetCategoryCounts(ctx context.Context, userID int64) ([]*CategoryCount, error) {
	return nil, nil
}

func (r *fakeRepo) GetSuggestionsWithCategory(ctx context.Context, userID int64, weekStart time.Time) ([]*Suggestion, error) {
	var out []*Suggestion
	for _, s := range r.suggestions {
		if s.UserID == userID && s.WeekStartDate.Equal(weekStart) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetPartnerGuessAboutMe(ctx context.Context, userID int64) ([]*PartnerGuess, error) {
	return nil, nil
}

func (r *fakeRepo) GetActivePartnerHints(ctx context.Context, userID int64) ([]*PartnerHint, error) {
	var out []*PartnerHint
	for _, h := range r.hints {
		if h.UserID == userID && h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListCategories(ctx context.Context) ([]*Category, error) { return nil, nil }

func (r *fakeRepo) CompleteSuggestion(ctx context.Context, suggestionID, userID int64) (*Suggestion, error) {
	for _, s := range r.suggestions {
		if s.ID == suggestionID && s.UserID == userID {
			s.Completed = true
			return s, nil
		}
	}
	return nil, ErrSuggestionNotFound
}

func (r *fakeRepo) CreateReminder(ctx context.Context, reminder *Reminder) error {
	r.nextID++
	reminder.ID = r.nextID
	r.reminders = append(r.reminders, reminder)
	return nil
}

func (r *fakeRepo) GetReminder(ctx context.Context, reminderID int64) (*Reminder, error) {
	for _, rem := range r.reminders {
		if rem.ID == reminderID {
			return rem, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListReminders(ctx context.Context, userID int64, activeOnly bool) ([]*Reminder, error) {
	var out []*Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID && (!activeOnly || rem.Active) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetDueReminders(ctx context.Context, before time.Time) ([]*Reminder, error) {
	var out []*Reminder
	for _, rem := range r.reminders {
		if rem.Active && !rem.NextDueAt.After(before) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateReminderNextDue(ctx context.Context, reminderID int64, nextDueAt time.Time) error {
	for _, rem := range r.reminders {
		if rem.ID == reminderID {
			rem.NextDueAt = nextDueAt
		}
	}
	return nil
}

func (r *fakeRepo) DeactivateReminder(ctx context.Context, reminderID, userID int64) error {
	for _, rem := range r.reminders {
		if rem.ID == reminderID && rem.UserID == userID {
			rem.Active = false
			return nil
		}
	}
	return ErrReminderNotFound
}

func (r *fakeRepo) CreateHint(ctx context.Context, hint *PartnerHint) error {
	r.nextID++
	hint.ID = r.nextID
	r.hints = append(r.hints, hint)
	return nil
}

func (r *fakeRepo) DeactivateHint(ctx context.Context, hintID, userID int64) error {
	for _, h := range r.hints {
		if h.ID == hintID {
			h.Active = false
		}
	}
	return nil
}

func (r *fakeRepo) GetWeekStatus(ctx context.Context, userID int64, weekStart time.Time) (*UserStatus, error) {
	if s, ok := r.statuses[userID]; ok && s.WeekStartDate.Equal(weekStart) {
		return s, nil
	}
	return nil, nil
}

func (r *fakeRepo) UpsertWeekStatus(ctx context.Context, status *UserStatus) error {
	r.statuses[status.UserID] = status
	return nil
}

type fakeNotifier struct {
	sent []*notifications.SendRequest
}

func (n *fakeNotifier) SendAdaptive(ctx context.Context, req *notifications.SendRequest) (*notifications.TimingDecision, notifications.CancelFunc, error) {
	n.sent = append(n.sent, req)
	return &notifications.TimingDecision{Timing: notifications.TimingImmediate}, func() {}, nil
}

func newTestService(repo *fakeRepo) (Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	svc.(*service).now = func() time.Time { return reminderNow }
	return svc, notifier
}

// Monday of reminderNow's week.
var testWeekStart = time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

func seedWeekTasks(repo *fakeRepo, userID int64, n int) {
	for i := 0; i < n; i++ {
		repo.nextID++
		repo.suggestions = append(repo.suggestions, &Suggestion{
			ID: repo.nextID, UserID: userID, WeekStartDate: testWeekStart,
		})
	}
}

func TestCompleteSuggestionUpdatesStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	seedWeekTasks(repo, 1, 2)

	status, err := svc.CompleteSuggestion(context.Background(), repo.suggestions[0].ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, status.TasksCompleted)
	assert.Equal(t, 2, status.TasksTotal)
	assert.Equal(t, 0, status.Streak, "streak waits for a full week")
	assert.Equal(t, testWeekStart, status.WeekStartDate)
}

func TestCompleteSuggestionStreakTicksOnFullWeek(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	seedWeekTasks(repo, 1, 2)

	_, err := svc.CompleteSuggestion(context.Background(), repo.suggestions[0].ID, 1)
	require.NoError(t, err)

	status, err := svc.CompleteSuggestion(context.Background(), repo.suggestions[1].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Streak)

	// Re-completing an already-full week must not tick again.
	status, err = svc.CompleteSuggestion(context.Background(), repo.suggestions[1].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Streak)
}

func TestCompleteSuggestionUnknownID(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.CompleteSuggestion(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrSuggestionNotFound)
}

func TestCreateReminderComputesNextDue(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	reminder, err := svc.CreateReminder(context.Background(), 1, &CreateReminderRequest{
		Title:     "Leave a note in their bag",
		Frequency: FrequencyDaily,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC), reminder.NextDueAt)
	assert.True(t, reminder.Active)
}

func TestCreateReminderOnceFiresTomorrow(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	reminder, err := svc.CreateReminder(context.Background(), 1, &CreateReminderRequest{
		Title:     "Anniversary flowers",
		Frequency: FrequencyOnce,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC), reminder.NextDueAt)
}

func TestCreateReminderRejectsUnknownFrequency(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.CreateReminder(context.Background(), 1, &CreateReminderRequest{
		Title:     "Bad",
		Frequency: Frequency("monthly"),
	})
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestProcessDueRemindersAdvancesAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)

	repo.CreateReminder(context.Background(), &Reminder{
		UserID: 1, Title: "Make coffee", Frequency: FrequencyDaily,
		NextDueAt: reminderNow.Add(-time.Hour), Active: true,
	})
	repo.CreateReminder(context.Background(), &Reminder{
		UserID: 1, Title: "Not due yet", Frequency: FrequencyDaily,
		NextDueAt: reminderNow.Add(time.Hour), Active: true,
	})

	require.NoError(t, svc.ProcessDueReminders(context.Background()))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, notifications.TypeReminder, notifier.sent[0].Type)
	assert.Contains(t, notifier.sent[0].Message, "Make coffee")

	assert.Equal(t, time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC), repo.reminders[0].NextDueAt)
	assert.Equal(t, reminderNow.Add(time.Hour), repo.reminders[1].NextDueAt, "future reminder untouched")
}

func TestProcessDueRemindersDeactivatesOneShots(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)

	repo.CreateReminder(context.Background(), &Reminder{
		UserID: 1, Title: "Anniversary flowers", Frequency: FrequencyOnce,
		NextDueAt: reminderNow.Add(-time.Hour), Active: true,
	})

	require.NoError(t, svc.ProcessDueReminders(context.Background()))

	assert.Len(t, notifier.sent, 1)
	assert.False(t, repo.reminders[0].Active)
}

func TestGetWeekStatusDefaultsToEmpty(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	status, err := svc.GetWeekStatus(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, status.TasksCompleted)
	assert.Equal(t, testWeekStart, status.WeekStartDate)
}

func TestCreateAndDismissHint(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	hint, err := svc.CreateHint(context.Background(), 1, 2, &CreateHintRequest{
		PartnerID: 2,
		Hint:      "I've been eyeing that pottery class",
		Category:  "experiences",
	})
	require.NoError(t, err)
	assert.True(t, hint.Active)

	require.NoError(t, svc.DismissHint(context.Background(), hint.ID, 2))
	assert.False(t, repo.hints[0].Active)
}

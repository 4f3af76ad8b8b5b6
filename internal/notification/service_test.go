package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notifications []*Notification
	scheduled     []*ScheduledNotification
	prefs         map[int64]*NotificationPreferences
	tokens        []*PushToken
	nextID        int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{prefs: make(map[int64]*NotificationPreferences)}
}

func (r *fakeRepo) CreateNotification(ctx context.Context, n *Notification) error {
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeRepo) GetNotification(ctx context.Context, id int64) (*Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetUserNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
	var out []*Notification
	for _, n := range r.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetUserNotificationCount(ctx context.Context, userID int64, unreadOnly bool) (int, error) {
	list, _ := r.GetUserNotifications(ctx, userID, 0, 0, unreadOnly)
	return len(list), nil
}

func (r *fakeRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeRepo) MarkAllAsRead(ctx context.Context, userID int64) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeRepo) DeleteNotification(ctx context.Context, id, userID int64) error {
	for i, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) DeleteOldNotifications(ctx context.Context, before time.Time) error {
	return nil
}

func (r *fakeRepo) SavePushToken(ctx context.Context, token *PushToken) error {
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *fakeRepo) GetUserPushTokens(ctx context.Context, userID int64) ([]*PushToken, error) {
	var out []*PushToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeletePushToken(ctx context.Context, token string) error      { return nil }
func (r *fakeRepo) DeactivatePushToken(ctx context.Context, token string) error { return nil }

func (r *fakeRepo) GetUserPreferences(ctx context.Context, userID int64) (*NotificationPreferences, error) {
	if p, ok := r.prefs[userID]; ok {
		return p, nil
	}
	return &NotificationPreferences{
		UserID: userID, PushEnabled: true,
		CheckIns: true, Celebrations: true, Reminders: true, Suggestions: true,
	}, nil
}

func (r *fakeRepo) UpdateUserPreferences(ctx context.Context, userID int64, updates map[string]interface{}) error {
	return nil
}

func (r *fakeRepo) CreateScheduledNotification(ctx context.Context, s *ScheduledNotification) error {
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	r.scheduled = append(r.scheduled, s)
	return nil
}

func (r *fakeRepo) GetScheduledNotification(ctx context.Context, id int64) (*ScheduledNotification, error) {
	for _, s := range r.scheduled {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetPendingScheduledNotifications(ctx context.Context, before time.Time) ([]*ScheduledNotification, error) {
	var out []*ScheduledNotification
	for _, s := range r.scheduled {
		if s.Status == "pending" && !s.ScheduledFor.After(before) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ClaimScheduledNotification(ctx context.Context, id int64) (bool, error) {
	for _, s := range r.scheduled {
		if s.ID == id && s.Status == "pending" {
			s.Status = "sending"
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) UpdateScheduledNotificationStatus(ctx context.Context, id int64, status string, sentAt *time.Time) error {
	for _, s := range r.scheduled {
		if s.ID == id {
			s.Status = status
			s.SentAt = sentAt
		}
	}
	return nil
}

func (r *fakeRepo) CancelScheduledNotification(ctx context.Context, id int64) error {
	for _, s := range r.scheduled {
		if s.ID == id && s.Status == "pending" {
			s.Status = "cancelled"
		}
	}
	return nil
}

func (r *fakeRepo) GetUserContact(ctx context.Context, userID int64) (string, string, error) {
	return "ari@example.com", "+15550100", nil
}

type recordingBroadcaster struct {
	sent []*Notification
}

func (b *recordingBroadcaster) SendToUser(userID int64, n *Notification) {
	b.sent = append(b.sent, n)
}

func newTestService(repo *fakeRepo, provider ContextProvider, now time.Time) (Service, *recordingBroadcaster) {
	broadcaster := &recordingBroadcaster{}
	svc := NewService(repo, nil, nil, nil, broadcaster, provider)
	svc.(*service).now = func() time.Time { return now }
	return svc, broadcaster
}

func inAppOnly(userID int64, notifType NotificationType) *SendRequest {
	return &SendRequest{
		UserID:   userID,
		Type:     notifType,
		Title:    "Hey",
		Message:  "Something nice",
		Channels: []DeliveryChannel{ChannelInApp},
	}
}

func TestDeliverCreatesAndBroadcasts(t *testing.T) {
	repo := newFakeRepo()
	svc, broadcaster := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	n, err := svc.Deliver(context.Background(), inAppOnly(7, TypeCheckIn))
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.NotZero(t, n.ID)
	assert.Len(t, repo.notifications, 1)
	require.Len(t, broadcaster.sent, 1)
	assert.Equal(t, n.ID, broadcaster.sent[0].ID)
}

func TestDeliverRespectsTypePreference(t *testing.T) {
	repo := newFakeRepo()
	repo.prefs[7] = &NotificationPreferences{
		UserID: 7, PushEnabled: true,
		CheckIns: false, Celebrations: true, Reminders: true, Suggestions: true,
	}
	svc, broadcaster := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	n, err := svc.Deliver(context.Background(), inAppOnly(7, TypeCheckIn))
	require.NoError(t, err)

	assert.Nil(t, n, "muted types are dropped silently")
	assert.Empty(t, repo.notifications)
	assert.Empty(t, broadcaster.sent)
}

func TestSendAdaptiveImmediate(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	decision, cancel, err := svc.SendAdaptive(context.Background(), inAppOnly(7, TypeCelebration))
	require.NoError(t, err)
	require.NotNil(t, decision)

	assert.Equal(t, TimingImmediate, decision.Timing)
	assert.Len(t, repo.notifications, 1, "immediate path delivers right away")
	assert.Empty(t, repo.scheduled)

	cancel() // no-op for immediate deliveries
	assert.Len(t, repo.notifications, 1)
}

func TestSendAdaptiveDefersAndCancels(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	decision, cancel, err := svc.SendAdaptive(context.Background(), inAppOnly(7, TypeCheckIn))
	require.NoError(t, err)

	assert.Equal(t, TimingGentle, decision.Timing)
	assert.Equal(t, 45, decision.DelayMinutes)
	assert.Empty(t, repo.notifications, "nothing delivered yet")
	require.Len(t, repo.scheduled, 1)
	assert.Equal(t, "pending", repo.scheduled[0].Status)
	assert.Equal(t, morningNow.Add(45*time.Minute), repo.scheduled[0].ScheduledFor)

	cancel()
	assert.Equal(t, "cancelled", repo.scheduled[0].Status)
}

func TestDeferredFireDeliversExactlyOnce(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	_, _, err := svc.SendAdaptive(context.Background(), inAppOnly(7, TypeCheckIn))
	require.NoError(t, err)
	require.Len(t, repo.scheduled, 1)
	id := repo.scheduled[0].ID

	// The timer fires.
	require.NoError(t, svc.DeliverScheduled(context.Background(), id))
	assert.Equal(t, "sent", repo.scheduled[0].Status)
	assert.Len(t, repo.notifications, 1)

	// A second fire on the same row delivers nothing.
	require.NoError(t, svc.DeliverScheduled(context.Background(), id))
	assert.Len(t, repo.notifications, 1)

	// The processing loop runs after the row's due time and must not
	// deliver it again.
	svc.(*service).now = func() time.Time { return morningNow.Add(time.Hour) }
	require.NoError(t, svc.ProcessScheduledNotifications(context.Background()))

	assert.Equal(t, "sent", repo.scheduled[0].Status)
	assert.Len(t, repo.notifications, 1, "one deferral, one delivery")
}

func TestDeliverScheduledSkipsCancelledRow(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	_, cancel, err := svc.SendAdaptive(context.Background(), inAppOnly(7, TypeCheckIn))
	require.NoError(t, err)
	require.Len(t, repo.scheduled, 1)
	cancel()

	require.NoError(t, svc.DeliverScheduled(context.Background(), repo.scheduled[0].ID))

	assert.Equal(t, "cancelled", repo.scheduled[0].Status)
	assert.Empty(t, repo.notifications)
}

func TestProcessScheduledDeliversDueRows(t *testing.T) {
	repo := newFakeRepo()
	svc, broadcaster := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	repo.CreateScheduledNotification(context.Background(), &ScheduledNotification{
		UserID: 7, Type: TypeReminder, Title: "Hey", Message: "Due now",
		Channels: []string{"in_app"}, Status: "pending",
		ScheduledFor: morningNow.Add(-time.Minute),
	})
	repo.CreateScheduledNotification(context.Background(), &ScheduledNotification{
		UserID: 7, Type: TypeReminder, Title: "Hey", Message: "Not yet",
		Channels: []string{"in_app"}, Status: "pending",
		ScheduledFor: morningNow.Add(time.Hour),
	})

	require.NoError(t, svc.ProcessScheduledNotifications(context.Background()))

	assert.Equal(t, "sent", repo.scheduled[0].Status)
	assert.Equal(t, "pending", repo.scheduled[1].Status, "future rows untouched")
	assert.Len(t, repo.notifications, 1)
	assert.Len(t, broadcaster.sent, 1)
}

func TestProcessScheduledSuppressesWhenDrained(t *testing.T) {
	repo := newFakeRepo()
	drained := &StaticContextProvider{Context: PartnerContext{Mood: 5, Energy: 1, PartnerEnergy: 5}}
	svc, _ := newTestService(repo, drained, morningNow)

	repo.CreateScheduledNotification(context.Background(), &ScheduledNotification{
		UserID: 7, Type: TypeCheckIn, Title: "Hey", Message: "Due",
		Channels: []string{"in_app"}, Status: "pending",
		ScheduledFor: morningNow.Add(-time.Minute),
	})

	require.NoError(t, svc.ProcessScheduledNotifications(context.Background()))

	assert.Equal(t, "suppressed", repo.scheduled[0].Status)
	assert.Empty(t, repo.notifications)
}

func TestCancelScheduledChecksOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	repo.CreateScheduledNotification(context.Background(), &ScheduledNotification{
		UserID: 7, Type: TypeCheckIn, Title: "Hey", Message: "Due",
		Status: "pending", ScheduledFor: morningNow.Add(time.Hour),
	})
	id := repo.scheduled[0].ID

	err := svc.CancelScheduledNotification(context.Background(), id, 99)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.CancelScheduledNotification(context.Background(), id, 7))
	assert.Equal(t, "cancelled", repo.scheduled[0].Status)
}

func TestGetNotificationsPagination(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &StaticContextProvider{Context: *neutralContext()}, morningNow)

	for i := 0; i < 3; i++ {
		repo.CreateNotification(context.Background(), &Notification{UserID: 7, Type: TypeCheckIn})
	}
	repo.notifications[0].IsRead = true

	resp, err := svc.GetNotifications(context.Background(), 7, 10, 0, false)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, 2, resp.UnreadCount)
	assert.False(t, resp.HasMore)
}

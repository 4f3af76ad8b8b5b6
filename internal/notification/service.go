// internal/notification/service.go

package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidChannel       = errors.New("invalid delivery channel")
)

type Service interface {
	// Deliver sends a notification right now through the resolved channels.
	Deliver(ctx context.Context, req *SendRequest) (*Notification, error)

	// SendAdaptive runs the timing decision table and either delivers
	// immediately or defers. The returned cancel closure stops a deferred
	// delivery; for immediate deliveries it is a no-op.
	SendAdaptive(ctx context.Context, req *SendRequest) (*TimingDecision, CancelFunc, error)

	// Inbox
	GetNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) (*NotificationsResponse, error)
	GetNotification(ctx context.Context, notificationID int64, userID int64) (*Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	DeleteNotification(ctx context.Context, notificationID int64, userID int64) error

	// Push token management
	RegisterPushToken(ctx context.Context, userID int64, req *RegisterPushTokenRequest) error
	UnregisterPushToken(ctx context.Context, token string) error

	// Preferences
	GetPreferences(ctx context.Context, userID int64) (*NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID int64, req *UpdatePreferencesRequest) error

	// Scheduled notifications
	CancelScheduledNotification(ctx context.Context, scheduledID int64, userID int64) error
	DeliverScheduled(ctx context.Context, scheduledID int64) error
	ProcessScheduledNotifications(ctx context.Context) error

	// Cleanup
	CleanupOldNotifications(ctx context.Context, olderThan time.Duration) error
}

// External service interfaces
type PushService interface {
	SendPush(ctx context.Context, notification *PushNotification) error
	SendBatchPush(ctx context.Context, notifications []*PushNotification) error
}

type EmailService interface {
	SendEmail(ctx context.Context, notification *EmailNotification) error
	SendBatchEmails(ctx context.Context, notifications []*EmailNotification) error
}

type SMSService interface {
	SendSMS(ctx context.Context, notification *SMSNotification) error
	SendBatchSMS(ctx context.Context, notifications []*SMSNotification) error
}

// InAppBroadcaster pushes a notification over the live websocket, if the
// user has one open.
type InAppBroadcaster interface {
	SendToUser(userID int64, notification *Notification)
}

type service struct {
	repo         Repository
	pushService  PushService
	emailService EmailService
	smsService   SMSService
	broadcaster  InAppBroadcaster
	provider     ContextProvider
	scheduler    *TimerScheduler
	now          func() time.Time
}

func NewService(
	repo Repository,
	pushService PushService,
	emailService EmailService,
	smsService SMSService,
	broadcaster InAppBroadcaster,
	provider ContextProvider,
) Service {
	s := &service{
		repo:         repo,
		pushService:  pushService,
		emailService: emailService,
		smsService:   smsService,
		broadcaster:  broadcaster,
		provider:     provider,
		now:          time.Now,
	}
	s.scheduler = NewTimerScheduler(s)
	return s
}

// Deliver creates the in-app row and fans out to the enabled channels.
func (s *service) Deliver(ctx context.Context, req *SendRequest) (*Notification, error) {
	prefs, err := s.repo.GetUserPreferences(ctx, req.UserID)
	if err != nil {
		log.Printf("Failed to get user preferences: %v", err)
		// Continue with defaults
	}

	if prefs != nil && !typeEnabled(req.Type, prefs) {
		return nil, nil
	}

	notification := &Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
		IsRead:  false,
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.SendToUser(req.UserID, notification)
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = s.defaultChannels(prefs)
	}

	for _, channel := range channels {
		switch channel {
		case ChannelPush:
			if prefs == nil || prefs.PushEnabled {
				go s.sendPushNotification(context.WithoutCancel(ctx), req.UserID, notification)
			}
		case ChannelEmail:
			if prefs != nil && prefs.EmailEnabled {
				go s.sendEmailNotification(context.WithoutCancel(ctx), req.UserID, notification)
			}
		case ChannelSMS:
			if prefs != nil && prefs.SMSEnabled {
				go s.sendSMSNotification(context.WithoutCancel(ctx), req.UserID, notification)
			}
		}
	}

	return notification, nil
}

// SendAdaptive picks a timing for the notification and defers when the
// table says to wait.
func (s *service) SendAdaptive(ctx context.Context, req *SendRequest) (*TimingDecision, CancelFunc, error) {
	pc := req.Context
	if pc == nil && s.provider != nil {
		live, err := s.provider.GetPartnerContext(ctx, req.UserID)
		if err != nil {
			log.Printf("Partner context fetch failed for user %d: %v", req.UserID, err)
		} else {
			pc = live
			req.Context = live
		}
	}

	decision := DecideTiming(req.Type, pc, s.now())

	if decision.DelayMinutes == 0 {
		_, err := s.Deliver(ctx, req)
		return &decision, func() {}, err
	}

	delay := time.Duration(decision.DelayMinutes) * time.Minute

	// Persist the deferral so it survives a restart; the in-memory timer is
	// the fast path.
	scheduled := &ScheduledNotification{
		UserID:       req.UserID,
		Type:         req.Type,
		Title:        req.Title,
		Message:      req.Message,
		Data:         req.Data,
		Timing:       decision.Timing,
		Priority:     decision.Priority,
		ScheduledFor: s.now().Add(delay),
		Status:       "pending",
	}
	for _, ch := range req.Channels {
		scheduled.Channels = append(scheduled.Channels, string(ch))
	}
	if err := s.repo.CreateScheduledNotification(ctx, scheduled); err != nil {
		return nil, nil, err
	}

	timerCancel := s.scheduler.Schedule(context.WithoutCancel(ctx), scheduled.ID, delay)
	scheduledID := scheduled.ID

	cancel := func() {
		timerCancel()
		if err := s.repo.CancelScheduledNotification(context.Background(), scheduledID); err != nil {
			log.Printf("Failed to cancel scheduled notification %d: %v", scheduledID, err)
		}
	}

	return &decision, cancel, nil
}

func (s *service) GetNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) (*NotificationsResponse, error) {
	if limit == 0 {
		limit = 20
	}

	notifications, err := s.repo.GetUserNotifications(ctx, userID, limit, offset, unreadOnly)
	if err != nil {
		return nil, err
	}

	totalCount, err := s.repo.GetUserNotificationCount(ctx, userID, false)
	if err != nil {
		totalCount = len(notifications)
	}

	unreadCount, err := s.repo.GetUserNotificationCount(ctx, userID, true)
	if err != nil {
		unreadCount = 0
	}

	return &NotificationsResponse{
		Notifications: notifications,
		TotalCount:    totalCount,
		UnreadCount:   unreadCount,
		HasMore:       offset+len(notifications) < totalCount,
	}, nil
}

func (s *service) GetNotification(ctx context.Context, notificationID int64, userID int64) (*Notification, error) {
	notification, err := s.repo.GetNotification(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	if notification == nil {
		return nil, ErrNotificationNotFound
	}

	if notification.UserID != userID {
		return nil, ErrUnauthorized
	}

	return notification, nil
}

func (s *service) MarkAsRead(ctx context.Context, notificationID int64, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) DeleteNotification(ctx context.Context, notificationID int64, userID int64) error {
	return s.repo.DeleteNotification(ctx, notificationID, userID)
}

func (s *service) RegisterPushToken(ctx context.Context, userID int64, req *RegisterPushTokenRequest) error {
	token := &PushToken{
		UserID:   userID,
		Platform: req.Platform,
		Token:    req.Token,
		DeviceID: req.DeviceID,
		IsActive: true,
	}

	return s.repo.SavePushToken(ctx, token)
}

func (s *service) UnregisterPushToken(ctx context.Context, token string) error {
	return s.repo.DeletePushToken(ctx, token)
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (*NotificationPreferences, error) {
	return s.repo.GetUserPreferences(ctx, userID)
}

func (s *service) UpdatePreferences(ctx context.Context, userID int64, req *UpdatePreferencesRequest) error {
	updates := make(map[string]interface{})

	if req.PushEnabled != nil {
		updates["push_enabled"] = *req.PushEnabled
	}
	if req.EmailEnabled != nil {
		updates["email_enabled"] = *req.EmailEnabled
	}
	if req.SMSEnabled != nil {
		updates["sms_enabled"] = *req.SMSEnabled
	}
	if req.CheckIns != nil {
		updates["check_ins"] = *req.CheckIns
	}
	if req.Celebrations != nil {
		updates["celebrations"] = *req.Celebrations
	}
	if req.Reminders != nil {
		updates["reminders"] = *req.Reminders
	}
	if req.Suggestions != nil {
		updates["suggestions"] = *req.Suggestions
	}

	return s.repo.UpdateUserPreferences(ctx, userID, updates)
}

func (s *service) CancelScheduledNotification(ctx context.Context, scheduledID int64, userID int64) error {
	scheduled, err := s.repo.GetScheduledNotification(ctx, scheduledID)
	if err != nil {
		return err
	}
	if scheduled == nil {
		return ErrNotificationNotFound
	}
	if scheduled.UserID != userID {
		return ErrUnauthorized
	}

	return s.repo.CancelScheduledNotification(ctx, scheduledID)
}

// DeliverScheduled fires one persisted deferral. The in-memory timer and the
// processing loop both come through here; the claim flips the row out of
// pending first, so whichever path loses the race delivers nothing.
func (s *service) DeliverScheduled(ctx context.Context, scheduledID int64) error {
	claimed, err := s.repo.ClaimScheduledNotification(ctx, scheduledID)
	if err != nil {
		return err
	}
	if !claimed {
		// Already sent, suppressed, or cancelled.
		return nil
	}

	scheduled, err := s.repo.GetScheduledNotification(ctx, scheduledID)
	if err != nil {
		return err
	}
	if scheduled == nil {
		return ErrNotificationNotFound
	}

	status := "sent"

	live, err := s.provider.GetPartnerContext(ctx, scheduled.UserID)
	if err != nil {
		log.Printf("Context fetch failed for scheduled notification %d: %v", scheduled.ID, err)
	}
	if ok, reason := FiringAllowed(live, s.now()); !ok {
		log.Printf("Suppressed scheduled notification %d: %s", scheduled.ID, reason)
		status = "suppressed"
	} else {
		req := &SendRequest{
			UserID:  scheduled.UserID,
			Type:    scheduled.Type,
			Title:   scheduled.Title,
			Message: scheduled.Message,
			Data:    scheduled.Data,
			Context: live,
		}
		for _, ch := range scheduled.Channels {
			req.Channels = append(req.Channels, DeliveryChannel(ch))
		}

		if _, err := s.Deliver(ctx, req); err != nil {
			status = "failed"
			log.Printf("Failed to send scheduled notification %d: %v", scheduled.ID, err)
		}
	}

	sentAt := s.now()
	return s.repo.UpdateScheduledNotificationStatus(ctx, scheduled.ID, status, &sentAt)
}

// ProcessScheduledNotifications delivers due persisted deferrals that are
// still pending, i.e. whose in-memory timer never fired (restart, crash).
func (s *service) ProcessScheduledNotifications(ctx context.Context) error {
	due, err := s.repo.GetPendingScheduledNotifications(ctx, s.now())
	if err != nil {
		return err
	}

	for _, scheduled := range due {
		if err := s.DeliverScheduled(ctx, scheduled.ID); err != nil {
			log.Printf("Failed to process scheduled notification %d: %v", scheduled.ID, err)
		}
	}

	return nil
}

func (s *service) CleanupOldNotifications(ctx context.Context, olderThan time.Duration) error {
	before := s.now().Add(-olderThan)
	return s.repo.DeleteOldNotifications(ctx, before)
}

// Helper methods

func (s *service) defaultChannels(prefs *NotificationPreferences) []DeliveryChannel {
	channels := []DeliveryChannel{ChannelInApp}

	if prefs == nil || prefs.PushEnabled {
		channels = append(channels, ChannelPush)
	}

	return channels
}

func typeEnabled(notifType NotificationType, prefs *NotificationPreferences) bool {
	switch notifType {
	case TypeCheckIn:
		return prefs.CheckIns
	case TypeCelebration:
		return prefs.Celebrations
	case TypeReminder:
		return prefs.Reminders
	case TypeSuggestion:
		return prefs.Suggestions
	default:
		return true
	}
}

// Channel-specific sending methods

func (s *service) sendPushNotification(ctx context.Context, userID int64, notification *Notification) {
	if s.pushService == nil {
		return
	}

	tokens, err := s.repo.GetUserPushTokens(ctx, userID)
	if err != nil || len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, len(tokens))
	for i, token := range tokens {
		tokenStrings[i] = token.Token
	}

	push := &PushNotification{
		Tokens: tokenStrings,
		Title:  notification.Title,
		Body:   notification.Message,
		Data: map[string]string{
			"notification_id": fmt.Sprintf("%d", notification.ID),
			"type":            string(notification.Type),
		},
	}

	if err := s.pushService.SendPush(ctx, push); err != nil {
		log.Printf("Failed to send push notification: %v", err)
	}
}

func (s *service) sendEmailNotification(ctx context.Context, userID int64, notification *Notification) {
	if s.emailService == nil {
		return
	}

	emailAddr, _, err := s.repo.GetUserContact(ctx, userID)
	if err != nil || emailAddr == "" {
		return
	}

	email := &EmailNotification{
		To:      emailAddr,
		Subject: notification.Title,
		Body:    notification.Message,
	}

	if err := s.emailService.SendEmail(ctx, email); err != nil {
		log.Printf("Failed to send email notification: %v", err)
	}
}

func (s *service) sendSMSNotification(ctx context.Context, userID int64, notification *Notification) {
	if s.smsService == nil {
		return
	}

	_, phone, err := s.repo.GetUserContact(ctx, userID)
	if err != nil || phone == "" {
		return
	}

	sms := &SMSNotification{
		To:      phone,
		Message: fmt.Sprintf("%s: %s", notification.Title, notification.Message),
	}

	if err := s.smsService.SendSMS(ctx, sms); err != nil {
		log.Printf("Failed to send SMS notification: %v", err)
	}
}

// internal/notification/models.go

package notifications

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// NotificationType represents the prompt categories the app sends
type NotificationType string

const (
	TypeCheckIn     NotificationType = "check_in"
	TypeCelebration NotificationType = "celebration"
	TypeReminder    NotificationType = "reminder"
	TypeSuggestion  NotificationType = "suggestion"
)

// DeliveryChannel represents notification delivery channels
type DeliveryChannel string

const (
	ChannelPush  DeliveryChannel = "push"
	ChannelInApp DeliveryChannel = "in_app"
	ChannelEmail DeliveryChannel = "email"
	ChannelSMS   DeliveryChannel = "sms"
)

// Platform represents device platforms
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// Priority represents notification priority levels
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Timing is the adaptive delivery mode chosen for a notification.
type Timing string

const (
	TimingImmediate Timing = "immediate"
	TimingGentle    Timing = "gentle"
	TimingOptimal   Timing = "optimal"
	TimingQuiet     Timing = "quiet"
)

// TimeBucket is the local time-of-day bucket used by the timing table.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"   // 06-12
	BucketAfternoon TimeBucket = "afternoon" // 12-17
	BucketEvening   TimeBucket = "evening"   // 17-22
	BucketNight     TimeBucket = "night"     // 22-06
)

// PartnerContext is the live relationship context a timing decision runs
// against. Mood and energy are 1-10 self reports; overlap is shared free
// hours on the couple's calendar today.
type PartnerContext struct {
	Mood                 int     `json:"mood"`
	Energy               int     `json:"energy"`
	PartnerEnergy        int     `json:"partner_energy"`
	CalendarOverlapHours float64 `json:"calendar_overlap_hours"`
}

// TimingDecision is the tuple the decision table produces.
type TimingDecision struct {
	Timing       Timing   `json:"timing"`
	DelayMinutes int      `json:"delay_minutes"`
	Priority     Priority `json:"priority"`
}

// Notification represents a notification entity
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Data      NotificationData `json:"data" db:"data"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NotificationData represents additional notification data
type NotificationData map[string]interface{}

// Scan implements sql.Scanner interface
func (nd *NotificationData) Scan(value interface{}) error {
	if value == nil {
		*nd = make(NotificationData)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, nd)
}

// Value implements driver.Valuer interface
func (nd NotificationData) Value() (driver.Value, error) {
	if nd == nil {
		return "{}", nil
	}
	return json.Marshal(nd)
}

// PushToken represents a device push token
type PushToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Platform  Platform  `json:"platform" db:"platform"`
	Token     string    `json:"token" db:"token"`
	DeviceID  string    `json:"device_id" db:"device_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NotificationPreferences represents user notification preferences
type NotificationPreferences struct {
	ID           int64 `json:"id" db:"id"`
	UserID       int64 `json:"user_id" db:"user_id"`
	PushEnabled  bool  `json:"push_enabled" db:"push_enabled"`
	EmailEnabled bool  `json:"email_enabled" db:"email_enabled"`
	SMSEnabled   bool  `json:"sms_enabled" db:"sms_enabled"`

	// Per prompt type
	CheckIns     bool `json:"check_ins" db:"check_ins"`
	Celebrations bool `json:"celebrations" db:"celebrations"`
	Reminders    bool `json:"reminders" db:"reminders"`
	Suggestions  bool `json:"suggestions" db:"suggestions"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScheduledNotification represents a deferred notification row. Timing holds
// the decision made at schedule time; the context is re-checked at fire time
// before delivery.
type ScheduledNotification struct {
	ID           int64            `json:"id" db:"id"`
	UserID       int64            `json:"user_id" db:"user_id"`
	Type         NotificationType `json:"type" db:"type"`
	Title        string           `json:"title" db:"title"`
	Message      string           `json:"message" db:"message"`
	Data         NotificationData `json:"data" db:"data"`
	Channels     pq.StringArray   `json:"channels" db:"channels"`
	Timing       Timing           `json:"timing" db:"timing"`
	Priority     Priority         `json:"priority" db:"priority"`
	ScheduledFor time.Time        `json:"scheduled_for" db:"scheduled_for"`
	Status       string           `json:"status" db:"status"` // pending, sending, sent, suppressed, failed, cancelled
	SentAt       *time.Time       `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// EmailNotification represents an email notification
type EmailNotification struct {
	To      string
	Subject string
	Body    string
	HTML    string
}

// SMSNotification represents an SMS notification
type SMSNotification struct {
	To      string
	Message string
}

// PushNotification represents a push notification
type PushNotification struct {
	Tokens      []string
	Title       string
	Body        string
	Data        map[string]string
	Badge       int
	Sound       string
	Priority    Priority
	CollapseKey string
}

// SendRequest represents a request to deliver a notification adaptively.
type SendRequest struct {
	UserID   int64             `json:"user_id" validate:"required"`
	Type     NotificationType  `json:"type" validate:"required,oneof=check_in celebration reminder suggestion"`
	Title    string            `json:"title" validate:"required,max=200"`
	Message  string            `json:"message" validate:"required"`
	Data     NotificationData  `json:"data,omitempty"`
	Channels []DeliveryChannel `json:"channels,omitempty"`
	Context  *PartnerContext   `json:"context,omitempty"`
}

// RegisterPushTokenRequest represents request to register a push token
type RegisterPushTokenRequest struct {
	Platform Platform `json:"platform" validate:"required,oneof=ios android web"`
	Token    string   `json:"token" validate:"required"`
	DeviceID string   `json:"device_id" validate:"required"`
}

// UpdatePreferencesRequest represents request to update notification preferences
type UpdatePreferencesRequest struct {
	PushEnabled  *bool `json:"push_enabled,omitempty"`
	EmailEnabled *bool `json:"email_enabled,omitempty"`
	SMSEnabled   *bool `json:"sms_enabled,omitempty"`
	CheckIns     *bool `json:"check_ins,omitempty"`
	Celebrations *bool `json:"celebrations,omitempty"`
	Reminders    *bool `json:"reminders,omitempty"`
	Suggestions  *bool `json:"suggestions,omitempty"`
}

// NotificationsResponse represents paginated notifications response
type NotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	TotalCount    int             `json:"total_count"`
	UnreadCount   int             `json:"unread_count"`
	HasMore       bool            `json:"has_more"`
}

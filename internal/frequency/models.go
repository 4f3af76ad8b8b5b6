// internal/frequency/models.go

package frequency

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Errors
var (
	ErrProfileNotFound = errors.New("partner profile not found")
)

// FrequencyPreference is the user's chosen contact intensity tier.
type FrequencyPreference string

const (
	PreferenceHighTouch FrequencyPreference = "high_touch"
	PreferenceModerate  FrequencyPreference = "moderate"
	PreferenceLowTouch  FrequencyPreference = "low_touch"
)

// PromptType is one of the prompt categories the engine gates.
type PromptType string

const (
	PromptCheckIn     PromptType = "check_in"
	PromptSuggestion  PromptType = "suggestion"
	PromptCelebration PromptType = "celebration"
	PromptReminder    PromptType = "reminder"
)

// TimeWindow is a preferred check-in window. Fixed hour ranges:
// morning 6-12, afternoon 12-17, evening 17-22.
type TimeWindow string

const (
	WindowMorning   TimeWindow = "morning"
	WindowAfternoon TimeWindow = "afternoon"
	WindowEvening   TimeWindow = "evening"
)

// windowHours returns the [start, end) hour range for a window.
func windowHours(w TimeWindow) (int, int) {
	switch w {
	case WindowMorning:
		return 6, 12
	case WindowAfternoon:
		return 12, 17
	case WindowEvening:
		return 17, 22
	default:
		return 0, 0
	}
}

// FrequencyConfig holds the per-type weekly prompt caps for one preference
// tier. A limit of zero disables the type entirely.
type FrequencyConfig struct {
	Preference   FrequencyPreference
	WeeklyLimits map[PromptType]int
}

// ConfigFor returns the cap table for a preference tier. Unknown values get
// the moderate tier.
func ConfigFor(pref FrequencyPreference) FrequencyConfig {
	switch pref {
	case PreferenceHighTouch:
		return FrequencyConfig{
			Preference: pref,
			WeeklyLimits: map[PromptType]int{
				PromptCheckIn:     5,
				PromptSuggestion:  3,
				PromptCelebration: 2,
				PromptReminder:    3,
			},
		}
	case PreferenceLowTouch:
		return FrequencyConfig{
			Preference: pref,
			WeeklyLimits: map[PromptType]int{
				PromptCheckIn:     1,
				PromptSuggestion:  1,
				PromptCelebration: 1,
				PromptReminder:    0,
			},
		}
	default:
		return FrequencyConfig{
			Preference: PreferenceModerate,
			WeeklyLimits: map[PromptType]int{
				PromptCheckIn:     3,
				PromptSuggestion:  2,
				PromptCelebration: 1,
				PromptReminder:    2,
			},
		}
	}
}

// Enabled reports whether a prompt type is allowed at all under this config.
func (c FrequencyConfig) Enabled(pt PromptType) bool {
	return c.WeeklyLimits[pt] > 0
}

// PartnerProfile is the persisted engagement profile. Created at onboarding
// completion, mutated only by the weekly graduation adjustment, never deleted.
type PartnerProfile struct {
	ID                  int64               `json:"id" db:"id"`
	UserID              int64               `json:"user_id" db:"user_id"`
	LoveLanguagePrimary string              `json:"love_language_primary" db:"love_language_primary"`
	LoveLanguageSecond  string              `json:"love_language_secondary" db:"love_language_secondary"`
	CommunicationStyle  string              `json:"communication_style" db:"communication_style"`
	StressNeeds         string              `json:"stress_needs" db:"stress_needs"`
	FrequencyPreference FrequencyPreference `json:"frequency_preference" db:"frequency_preference"`
	CheckinWindows      pq.StringArray      `json:"checkin_windows" db:"checkin_windows"`
	CustomPreferences   pq.StringArray      `json:"custom_preferences" db:"custom_preferences"`
	LearnedPatterns     json.RawMessage     `json:"learned_patterns" db:"learned_patterns"`
	EngagementScore     int                 `json:"engagement_score" db:"engagement_score"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" db:"updated_at"`
}

// Windows returns the profile's check-in windows, defaulting to all three
// when none were chosen.
func (p *PartnerProfile) Windows() []TimeWindow {
	if len(p.CheckinWindows) == 0 {
		return []TimeWindow{WindowMorning, WindowAfternoon, WindowEvening}
	}
	out := make([]TimeWindow, 0, len(p.CheckinWindows))
	for _, w := range p.CheckinWindows {
		out = append(out, TimeWindow(w))
	}
	return out
}

// EngagementEvent is one row of the append-only engagement log. The log is
// the source of truth for every derived metric; rows are never mutated.
type EngagementEvent struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	EventType string          `json:"event_type" db:"event_type"`
	Context   json.RawMessage `json:"context,omitempty" db:"context"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Engagement event types.
const (
	EventPromptSent         = "prompt_sent"
	EventSuggestionAccepted = "suggestion_accepted"
	EventSuggestionOffered  = "suggestion_offered"
	EventSpontaneousAction  = "spontaneous_action"
	EventNeedResolvedSolo   = "need_resolved_without_app"
	EventNeedRaised         = "need_raised"
)

// QuietMode suppresses prompts while active. Emergency suggestions may pass
// through when the user opted in.
type QuietMode struct {
	ID                     int64      `json:"id" db:"id"`
	UserID                 int64      `json:"user_id" db:"user_id"`
	Active                 bool       `json:"active" db:"active"`
	Reason                 string     `json:"reason,omitempty" db:"reason"`
	AllowEmergencyMessages bool       `json:"allow_emergency_messages" db:"allow_emergency_messages"`
	ActivatedAt            *time.Time `json:"activated_at,omitempty" db:"activated_at"`
	EndsAt                 *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// EngagementSnapshot is the derived view of the event log the engine decides
// against. It is computed at call time; nothing here is persisted.
type EngagementSnapshot struct {
	IndependenceScore  int                       `json:"independence_score"`
	Trend              string                    `json:"trend"` // increasing|steady|decreasing
	LastPromptAt       map[PromptType]*time.Time `json:"last_prompt_at"`
	SpontaneousActions int                       `json:"spontaneous_actions"`
	AcceptanceRate     float64                   `json:"acceptance_rate"`      // accepted / offered
	NeedsResolvedRatio float64                   `json:"needs_resolved_ratio"` // resolved solo / raised
}

// Decision is the structured outcome of a gate evaluation.
type Decision struct {
	Send      bool       `json:"send"`
	Reason    string     `json:"reason"`
	NextCheck *time.Time `json:"next_check,omitempty"`
	State     State      `json:"state"`
}

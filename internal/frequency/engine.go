// internal/frequency/engine.go

package frequency

import (
	"context"
	"fmt"
	"time"
)

// Clock supplies the current time so the gate can be tested against fixed
// moments instead of the wall clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by time.Now.
func RealClock() Clock { return realClock{} }

// Engine evaluates whether a prompt should go out right now. The gate reads
// mutable remote state at call time and is not transactional with the
// eventual send; concurrent callers can race, which at these request rates
// costs at most one extra prompt.
type Engine struct {
	repo    Repository
	counter PromptCounter
	clock   Clock
}

// NewEngine creates a frequency engine.
func NewEngine(repo Repository, counter PromptCounter, clock Clock) *Engine {
	return &Engine{repo: repo, counter: counter, clock: clock}
}

// Independence and trend thresholds for steps 6 and 7.
const (
	highPerformerScore    = 75
	highPerformerCooldown = 3 * 24 * time.Hour
	disengagedCooldown    = 2 * 24 * time.Hour
)

// ShouldSendCheckin runs the eight-step suppression gate for one prompt type.
func (e *Engine) ShouldSendCheckin(ctx context.Context, userID int64, promptType PromptType) (*Decision, error) {
	now := e.clock.Now()

	profile, err := e.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 1. No profile yet: always send, the system is still bootstrapping.
	if profile == nil {
		return &Decision{Send: true, Reason: "no profile, bootstrapping", State: StateBootstrapping}, nil
	}

	quiet, err := e.repo.GetQuietMode(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot, err := e.repo.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := StateOf(profile, quiet, snapshot, now)

	// 2. Quiet mode suppresses everything except opted-in emergency
	// suggestions.
	if quiet != nil && quiet.Active {
		if promptType == PromptSuggestion && quiet.AllowEmergencyMessages {
			return &Decision{Send: true, Reason: "quiet mode, emergency suggestions allowed", State: state}, nil
		}
		return &Decision{Send: false, Reason: "quiet mode active", NextCheck: quiet.EndsAt, State: state}, nil
	}

	config := ConfigFor(profile.FrequencyPreference)

	// 3. Type disabled outright at this frequency tier.
	if !config.Enabled(promptType) {
		return &Decision{
			Send:   false,
			Reason: fmt.Sprintf("%s prompts disabled at %s frequency", promptType, config.Preference),
			State:  state,
		}, nil
	}

	// 4. Outside every preferred check-in window.
	if !inAnyWindow(profile.Windows(), now) {
		next := nextWindowStart(profile.Windows(), now)
		return &Decision{
			Send:      false,
			Reason:    "outside preferred check-in windows",
			NextCheck: &next,
			State:     state,
		}, nil
	}

	// 5. Weekly cap reached for this type.
	sent, err := e.counter.WeeklyCount(ctx, userID, promptType, now)
	if err != nil {
		return nil, err
	}
	if sent >= config.WeeklyLimits[promptType] {
		next := weekStartOf(now).AddDate(0, 0, 7)
		return &Decision{
			Send:      false,
			Reason:    fmt.Sprintf("weekly %s limit reached (%d)", promptType, config.WeeklyLimits[promptType]),
			NextCheck: &next,
			State:     state,
		}, nil
	}

	lastSame := snapshot.LastPromptAt[promptType]

	// 6. High performers get longer gaps; prompting them more teaches
	// dependence on the app.
	if snapshot.IndependenceScore > highPerformerScore && lastSame != nil && now.Sub(*lastSame) < highPerformerCooldown {
		next := lastSame.Add(highPerformerCooldown)
		return &Decision{
			Send:      false,
			Reason:    "high independence, recent same-type prompt",
			NextCheck: &next,
			State:     state,
		}, nil
	}

	// 7. Back off while engagement is falling.
	if snapshot.Trend == "decreasing" && lastSame != nil && now.Sub(*lastSame) < disengagedCooldown {
		next := lastSame.Add(disengagedCooldown)
		return &Decision{
			Send:      false,
			Reason:    "engagement decreasing, recent same-type prompt",
			NextCheck: &next,
			State:     state,
		}, nil
	}

	// 8. All gates passed.
	return &Decision{Send: true, Reason: "all checks passed", State: state}, nil
}

// inAnyWindow reports whether now's hour falls inside any preferred window.
func inAnyWindow(windows []TimeWindow, now time.Time) bool {
	hour := now.Hour()
	for _, w := range windows {
		start, end := windowHours(w)
		if hour >= start && hour < end {
			return true
		}
	}
	return false
}

// nextWindowStart returns the earliest upcoming window start after now,
// wrapping to tomorrow when every window today has passed.
func nextWindowStart(windows []TimeWindow, now time.Time) time.Time {
	best := time.Time{}
	for _, w := range windows {
		start, _ := windowHours(w)
		candidate := time.Date(now.Year(), now.Month(), now.Day(), start, 0, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	return best
}

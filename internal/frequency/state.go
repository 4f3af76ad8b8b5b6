package frequency

import "time"

// State is the explicit engagement lifecycle state. It is derived from the
// profile plus a snapshot rather than stored, so it can never drift from the
// underlying counters.
type State string

const (
	StateBootstrapping State = "bootstrapping" // no profile yet
	StateActive        State = "active"
	StateReducing      State = "reducing" // ratchet has moved below high_touch
	StateGraduated     State = "graduated"
	StateQuiet         State = "quiet" // quiet mode active
)

// StateOf derives the lifecycle state. Precedence: quiet beats everything
// for a present profile; graduation beats reducing; reducing means the
// ratchet already relaxed the preference below high_touch.
func StateOf(profile *PartnerProfile, quiet *QuietMode, snapshot *EngagementSnapshot, now time.Time) State {
	if profile == nil {
		return StateBootstrapping
	}
	if quiet != nil && quiet.Active {
		return StateQuiet
	}
	if IsGraduated(profile, snapshot, now) {
		return StateGraduated
	}
	if profile.FrequencyPreference != PreferenceHighTouch {
		return StateReducing
	}
	return StateActive
}

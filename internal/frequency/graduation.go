package frequency

import (
	"math"
	"time"
)

// Graduation thresholds.
const (
	graduationWeeks      = 26
	graduationSkillFloor = 70
)

// GraduationProgress is the read-only progress report.
type GraduationProgress struct {
	TimeProgress       int  `json:"time_progress"`
	SkillProgress      int  `json:"skill_progress"`
	GraduationProgress int  `json:"graduation_progress"`
	IsGraduated        bool `json:"is_graduated"`
	WeeksSinceStart    int  `json:"weeks_since_start"`
}

// WeeksSince returns full weeks elapsed since start.
func WeeksSince(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / (24 * 7))
}

// skillProgress is the weighted skill score: independence 40%, spontaneous
// actions capped at 20 count for 20%, inverse suggestion-acceptance 20%,
// needs-resolved-without-app ratio 20%. Declining suggestions is a skill
// signal here: it means the couple acts without being told to.
func skillProgress(s *EngagementSnapshot) int {
	spontaneous := float64(s.SpontaneousActions)
	if spontaneous > 20 {
		spontaneous = 20
	}

	score := 0.4*float64(s.IndependenceScore) +
		0.2*(spontaneous/20*100) +
		0.2*((1-s.AcceptanceRate)*100) +
		0.2*(s.NeedsResolvedRatio*100)

	return int(math.Round(score))
}

// Progress computes the full graduation report for a profile.
func Progress(profile *PartnerProfile, snapshot *EngagementSnapshot, now time.Time) GraduationProgress {
	weeks := WeeksSince(profile.CreatedAt, now)

	timeProgress := weeks * 100 / graduationWeeks
	if timeProgress > 100 {
		timeProgress = 100
	}

	skill := skillProgress(snapshot)

	overall := int(math.Round(0.4*float64(timeProgress) + 0.6*float64(skill)))

	return GraduationProgress{
		TimeProgress:       timeProgress,
		SkillProgress:      skill,
		GraduationProgress: overall,
		IsGraduated:        weeks >= graduationWeeks && skill >= graduationSkillFloor,
		WeeksSinceStart:    weeks,
	}
}

// IsGraduated reports whether both graduation conditions hold.
func IsGraduated(profile *PartnerProfile, snapshot *EngagementSnapshot, now time.Time) bool {
	if snapshot == nil {
		return false
	}
	return Progress(profile, snapshot, now).IsGraduated
}

// AdjustForGraduation computes the ratcheted frequency preference. The
// ratchet only ever relaxes: high_touch→moderate at weeks 8-12 with
// independence over 50, moderate→low_touch at weeks 16-20 with independence
// over 65, and forced low_touch after week 24 with independence over 75.
// It never escalates back up. Returns the new preference and whether it
// changed.
func AdjustForGraduation(profile *PartnerProfile, snapshot *EngagementSnapshot, now time.Time) (FrequencyPreference, bool) {
	weeks := WeeksSince(profile.CreatedAt, now)
	pref := profile.FrequencyPreference
	independence := snapshot.IndependenceScore

	if weeks > 24 && independence > 75 && pref != PreferenceLowTouch {
		return PreferenceLowTouch, true
	}

	switch pref {
	case PreferenceHighTouch:
		if weeks >= 8 && weeks <= 12 && independence > 50 {
			return PreferenceModerate, true
		}
	case PreferenceModerate:
		if weeks >= 16 && weeks <= 20 && independence > 65 {
			return PreferenceLowTouch, true
		}
	}

	return pref, false
}

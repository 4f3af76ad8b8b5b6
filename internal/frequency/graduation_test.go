package frequency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func profileAged(weeks int, pref FrequencyPreference) *PartnerProfile {
	return &PartnerProfile{
		UserID:              1,
		FrequencyPreference: pref,
		CreatedAt:           gateNow.AddDate(0, 0, -7*weeks),
	}
}

func maxedSnapshot() *EngagementSnapshot {
	return &EngagementSnapshot{
		IndependenceScore:  80,
		SpontaneousActions: 20,
		AcceptanceRate:     0, // declining every suggestion is the skill signal
		NeedsResolvedRatio: 1,
	}
}

func TestGraduatedAtThirtyWeeksMaxed(t *testing.T) {
	p := Progress(profileAged(30, PreferenceLowTouch), maxedSnapshot(), gateNow)

	assert.Equal(t, 100, p.TimeProgress)
	// 0.4*80 + 0.2*100 + 0.2*100 + 0.2*100 = 92
	assert.Equal(t, 92, p.SkillProgress)
	assert.Equal(t, 95, p.GraduationProgress) // round(0.4*100 + 0.6*92)
	assert.True(t, p.IsGraduated)
}

func TestNotGraduatedBeforeTwentySixWeeks(t *testing.T) {
	p := Progress(profileAged(20, PreferenceModerate), maxedSnapshot(), gateNow)

	assert.Less(t, p.TimeProgress, 100)
	assert.False(t, p.IsGraduated, "skill alone must not graduate before 26 weeks")
}

func TestNotGraduatedWithLowSkill(t *testing.T) {
	snapshot := &EngagementSnapshot{
		IndependenceScore:  30,
		SpontaneousActions: 2,
		AcceptanceRate:     0.9,
		NeedsResolvedRatio: 0.1,
	}
	p := Progress(profileAged(30, PreferenceModerate), snapshot, gateNow)

	assert.Equal(t, 100, p.TimeProgress)
	assert.Less(t, p.SkillProgress, graduationSkillFloor)
	assert.False(t, p.IsGraduated)
}

func TestSpontaneousActionsCapped(t *testing.T) {
	capped := maxedSnapshot()
	over := maxedSnapshot()
	over.SpontaneousActions = 500

	assert.Equal(t, skillProgress(capped), skillProgress(over))
}

func TestAdjustHighTouchToModerate(t *testing.T) {
	snapshot := &EngagementSnapshot{IndependenceScore: 55}

	pref, changed := AdjustForGraduation(profileAged(10, PreferenceHighTouch), snapshot, gateNow)
	assert.True(t, changed)
	assert.Equal(t, PreferenceModerate, pref)

	// Same independence too early: no change.
	pref, changed = AdjustForGraduation(profileAged(5, PreferenceHighTouch), snapshot, gateNow)
	assert.False(t, changed)
	assert.Equal(t, PreferenceHighTouch, pref)

	// Independence too low in the window: no change.
	low := &EngagementSnapshot{IndependenceScore: 45}
	_, changed = AdjustForGraduation(profileAged(10, PreferenceHighTouch), low, gateNow)
	assert.False(t, changed)
}

func TestAdjustModerateToLowTouch(t *testing.T) {
	snapshot := &EngagementSnapshot{IndependenceScore: 70}

	pref, changed := AdjustForGraduation(profileAged(18, PreferenceModerate), snapshot, gateNow)
	assert.True(t, changed)
	assert.Equal(t, PreferenceLowTouch, pref)
}

func TestAdjustForcedLowTouchAfterWeek24(t *testing.T) {
	snapshot := &EngagementSnapshot{IndependenceScore: 80}

	// Skips a tier entirely: high_touch straight to low_touch.
	pref, changed := AdjustForGraduation(profileAged(25, PreferenceHighTouch), snapshot, gateNow)
	assert.True(t, changed)
	assert.Equal(t, PreferenceLowTouch, pref)
}

func TestAdjustNeverEscalates(t *testing.T) {
	snapshot := &EngagementSnapshot{IndependenceScore: 10}

	// A low_touch profile stays low_touch no matter how engagement looks.
	for weeks := 1; weeks <= 40; weeks += 3 {
		pref, changed := AdjustForGraduation(profileAged(weeks, PreferenceLowTouch), snapshot, gateNow)
		assert.False(t, changed, "week %d", weeks)
		assert.Equal(t, PreferenceLowTouch, pref)
	}
}

func TestWeeksSince(t *testing.T) {
	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeeksSince(start, start.AddDate(0, 0, 6)))
	assert.Equal(t, 1, WeeksSince(start, start.AddDate(0, 0, 7)))
	assert.Equal(t, 0, WeeksSince(start, start.AddDate(0, 0, -3)))
}

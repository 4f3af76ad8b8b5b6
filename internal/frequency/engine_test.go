package frequency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// 10:00 on a Wednesday, inside the morning window.
var gateNow = time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)

type stubRepo struct {
	profile  *PartnerProfile
	quiet    *QuietMode
	snapshot *EngagementSnapshot
	events   []string
}

func (s *stubRepo) GetProfile(ctx context.Context, userID int64) (*PartnerProfile, error) {
	return s.profile, nil
}
func (s *stubRepo) CreateProfile(ctx context.Context, p *PartnerProfile) error { return nil }
func (s *stubRepo) UpdatePreference(ctx context.Context, userID int64, pref FrequencyPreference) error {
	s.profile.FrequencyPreference = pref
	return nil
}
func (s *stubRepo) GetAllProfiles(ctx context.Context) ([]*PartnerProfile, error) {
	if s.profile == nil {
		return nil, nil
	}
	return []*PartnerProfile{s.profile}, nil
}
func (s *stubRepo) GetQuietMode(ctx context.Context, userID int64) (*QuietMode, error) {
	return s.quiet, nil
}
func (s *stubRepo) SetQuietMode(ctx context.Context, userID int64, active bool, reason string, allowEmergency bool, endsAt *time.Time) (*QuietMode, error) {
	var activatedAt *time.Time
	if active {
		now := gateNow
		activatedAt = &now
	}
	s.quiet = &QuietMode{
		UserID:                 userID,
		Active:                 active,
		Reason:                 reason,
		AllowEmergencyMessages: allowEmergency,
		ActivatedAt:            activatedAt,
		EndsAt:                 endsAt,
	}
	return s.quiet, nil
}
func (s *stubRepo) RecordEvent(ctx context.Context, userID int64, eventType string, eventContext interface{}) error {
	s.events = append(s.events, eventType)
	return nil
}
func (s *stubRepo) RecordPromptSent(ctx context.Context, userID int64, pt PromptType) error {
	s.events = append(s.events, EventPromptSent)
	return nil
}
func (s *stubRepo) CountPromptEvents(ctx context.Context, userID int64, pt PromptType, since time.Time) (int, error) {
	return 0, nil
}
func (s *stubRepo) GetSnapshot(ctx context.Context, userID int64) (*EngagementSnapshot, error) {
	return s.snapshot, nil
}

type stubCounter struct {
	count int
	sends int
}

func (s *stubCounter) WeeklyCount(ctx context.Context, userID int64, pt PromptType, now time.Time) (int, error) {
	return s.count, nil
}
func (s *stubCounter) RecordSend(ctx context.Context, userID int64, pt PromptType, now time.Time) error {
	s.sends++
	return nil
}

func healthyRepo() *stubRepo {
	return &stubRepo{
		profile: &PartnerProfile{
			UserID:              1,
			FrequencyPreference: PreferenceHighTouch,
			CheckinWindows:      []string{"morning", "evening"},
			CreatedAt:           gateNow.AddDate(0, 0, -28),
		},
		snapshot: &EngagementSnapshot{
			IndependenceScore: 40,
			Trend:             "steady",
			LastPromptAt:      map[PromptType]*time.Time{},
		},
	}
}

func newTestEngine(repo Repository, counter PromptCounter) *Engine {
	return NewEngine(repo, counter, fixedClock{gateNow})
}

func TestGateNoProfileAlwaysSends(t *testing.T) {
	engine := newTestEngine(&stubRepo{}, &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.True(t, d.Send)
	assert.Equal(t, StateBootstrapping, d.State)
}

func TestGateQuietModeSuppressesEveryType(t *testing.T) {
	repo := healthyRepo()
	repo.quiet = &QuietMode{Active: true, AllowEmergencyMessages: false}
	engine := newTestEngine(repo, &stubCounter{})

	for _, pt := range []PromptType{PromptCheckIn, PromptSuggestion, PromptCelebration, PromptReminder} {
		d, err := engine.ShouldSendCheckin(context.Background(), 1, pt)
		require.NoError(t, err)
		assert.False(t, d.Send, "prompt type %s", pt)
		assert.Equal(t, StateQuiet, d.State)
	}
}

func TestGateQuietModeEmergencySuggestionPasses(t *testing.T) {
	repo := healthyRepo()
	repo.quiet = &QuietMode{Active: true, AllowEmergencyMessages: true}
	engine := newTestEngine(repo, &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptSuggestion)
	require.NoError(t, err)
	assert.True(t, d.Send)

	// Only suggestions pass; a check-in is still suppressed.
	d, err = engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.False(t, d.Send)
}

func TestSetQuietModeCarriesReasonAndActivation(t *testing.T) {
	repo := healthyRepo()
	svc := NewService(repo, &stubCounter{}, fixedClock{gateNow})

	qm, err := svc.SetQuietMode(context.Background(), 1, true, "exam week", true, nil)
	require.NoError(t, err)
	assert.True(t, qm.Active)
	assert.Equal(t, "exam week", qm.Reason)
	assert.True(t, qm.AllowEmergencyMessages)
	require.NotNil(t, qm.ActivatedAt)

	qm, err = svc.SetQuietMode(context.Background(), 1, false, "", false, nil)
	require.NoError(t, err)
	assert.False(t, qm.Active)
}

func TestGateDisabledTypeSuppressed(t *testing.T) {
	repo := healthyRepo()
	repo.profile.FrequencyPreference = PreferenceLowTouch
	engine := newTestEngine(repo, &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptReminder)
	require.NoError(t, err)
	assert.False(t, d.Send)
	assert.Contains(t, d.Reason, "disabled")
}

func TestGateOutsideWindowReportsNextEligible(t *testing.T) {
	repo := healthyRepo()
	repo.profile.CheckinWindows = []string{"evening"}
	engine := newTestEngine(repo, &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.False(t, d.Send)
	require.NotNil(t, d.NextCheck)
	// Evening window opens at 17:00 today.
	assert.Equal(t, time.Date(2025, time.June, 11, 17, 0, 0, 0, time.UTC), *d.NextCheck)
}

func TestGateWeeklyLimitSuppressed(t *testing.T) {
	repo := healthyRepo()
	engine := newTestEngine(repo, &stubCounter{count: 5}) // high_touch check_in cap

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.False(t, d.Send)
	assert.Contains(t, d.Reason, "limit")
	require.NotNil(t, d.NextCheck)
	// Next ISO week starts Monday June 16.
	assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), *d.NextCheck)
}

func TestGateHighPerformerCooldown(t *testing.T) {
	repo := healthyRepo()
	repo.snapshot.IndependenceScore = 80
	lastPrompt := gateNow.Add(-24 * time.Hour)
	repo.snapshot.LastPromptAt[PromptCheckIn] = &lastPrompt
	engine := newTestEngine(repo, &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.False(t, d.Send)
	assert.Contains(t, d.Reason, "independence")

	// A different prompt type has no recent send and goes through.
	d, err = engine.ShouldSendCheckin(context.Background(), 1, PromptSuggestion)
	require.NoError(t, err)
	assert.True(t, d.Send)
}

func TestGateDecreasingTrendCooldown(t *testing.T) {
	repo := healthyRepo()
	repo.snapshot.Trend = "decreasing"
	lastPrompt := gateNow.Add(-36 * time.Hour)
	repo.snapshot.LastPromptAt[PromptCheckIn] = &lastPrompt
	engine := newTestEngine(repo, &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.False(t, d.Send)

	// Past the two-day cooldown it sends again.
	older := gateNow.Add(-49 * time.Hour)
	repo.snapshot.LastPromptAt[PromptCheckIn] = &older
	d, err = engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.True(t, d.Send)
}

func TestGateAllChecksPass(t *testing.T) {
	engine := newTestEngine(healthyRepo(), &stubCounter{})

	d, err := engine.ShouldSendCheckin(context.Background(), 1, PromptCheckIn)
	require.NoError(t, err)
	assert.True(t, d.Send)
	assert.Equal(t, StateActive, d.State)
}

func TestStateOf(t *testing.T) {
	now := gateNow
	snapshot := &EngagementSnapshot{IndependenceScore: 40}

	assert.Equal(t, StateBootstrapping, StateOf(nil, nil, snapshot, now))

	profile := &PartnerProfile{FrequencyPreference: PreferenceHighTouch, CreatedAt: now.AddDate(0, 0, -28)}
	assert.Equal(t, StateActive, StateOf(profile, nil, snapshot, now))

	quiet := &QuietMode{Active: true}
	assert.Equal(t, StateQuiet, StateOf(profile, quiet, snapshot, now))

	profile.FrequencyPreference = PreferenceModerate
	assert.Equal(t, StateReducing, StateOf(profile, nil, snapshot, now))

	graduated := &PartnerProfile{
		FrequencyPreference: PreferenceLowTouch,
		CreatedAt:           now.AddDate(0, 0, -7*30),
	}
	maxed := &EngagementSnapshot{
		IndependenceScore:  80,
		SpontaneousActions: 20,
		AcceptanceRate:     0,
		NeedsResolvedRatio: 1,
	}
	assert.Equal(t, StateGraduated, StateOf(graduated, nil, maxed, now))
}

package helpinghand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday morning.
var reminderNow = time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)

func TestNextDueCadence(t *testing.T) {
	tests := []struct {
		freq Frequency
		want time.Time
	}{
		{FrequencyDaily, time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)},
		{FrequencyEveryOtherDay, time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)},
		{FrequencyTwiceWeekly, time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)},
		{FrequencyWeekly, time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.want, NextDue(tt.freq, nil, reminderNow))
		})
	}
}

func TestNextDueOnceHasNoRepeat(t *testing.T) {
	assert.True(t, NextDue(FrequencyOnce, nil, reminderNow).IsZero())
}

func TestNextDueExplicitWeekdays(t *testing.T) {
	// Monday and Thursday; Wednesday rolls to Thursday.
	next := NextDue(FrequencyWeekly, []int64{1, 4}, reminderNow)
	assert.Equal(t, time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC), next)

	// From that Thursday the next listed day is Monday.
	next = NextDue(FrequencyWeekly, []int64{1, 4}, next)
	assert.Equal(t, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), next)
}

func TestNextDueSameWeekdayIsStrictlyAfter(t *testing.T) {
	// Today is Wednesday; a Wednesday-only reminder waits a full week.
	next := NextDue(FrequencyWeekly, []int64{3}, reminderNow)
	assert.Equal(t, time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC), next)
}

func TestFrequencyValid(t *testing.T) {
	assert.True(t, FrequencyDaily.Valid())
	assert.True(t, FrequencyOnce.Valid())
	assert.False(t, Frequency("monthly").Valid())
}

// internal/helpinghand/reminders.go

package helpinghand

import "time"

// cadence is the default step per frequency when no weekday set is given.
var cadence = map[Frequency]int{
	FrequencyDaily:         1,
	FrequencyEveryOtherDay: 2,
	FrequencyTwiceWeekly:   3,
	FrequencyWeekly:        7,
}

// NextDue computes the next firing time for a reminder strictly after the
// given time. An explicit weekday set overrides the frequency cadence: the
// reminder fires on the next listed weekday. One-shot reminders have no next
// firing and return the zero time.
func NextDue(freq Frequency, weekdays []int64, after time.Time) time.Time {
	if freq == FrequencyOnce {
		return time.Time{}
	}

	if len(weekdays) > 0 {
		return nextListedWeekday(weekdays, after)
	}

	step, ok := cadence[freq]
	if !ok {
		return time.Time{}
	}
	return at9AM(after.AddDate(0, 0, step))
}

func nextListedWeekday(weekdays []int64, after time.Time) time.Time {
	listed := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		listed[time.Weekday(d)] = true
	}

	// Strictly after: start from tomorrow, a week is the longest wait.
	for i := 1; i <= 7; i++ {
		candidate := after.AddDate(0, 0, i)
		if listed[candidate.Weekday()] {
			return at9AM(candidate)
		}
	}
	return time.Time{}
}

// Reminders fire at 9 AM local time.
func at9AM(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, t.Location())
}

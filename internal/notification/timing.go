// internal/notification/timing.go

package notifications

import "time"

// BucketOf maps a local time to its time-of-day bucket.
func BucketOf(t time.Time) TimeBucket {
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return BucketMorning
	case hour >= 12 && hour < 17:
		return BucketAfternoon
	case hour >= 17 && hour < 22:
		return BucketEvening
	default:
		return BucketNight
	}
}

// NeutralContext is the 5/5/5 baseline assumed for couples with no recent
// check-in data.
func NeutralContext() *PartnerContext {
	return &PartnerContext{Mood: 5, Energy: 5, PartnerEnergy: 5}
}

// DecideTiming picks a delivery mode from the fixed per-type decision table,
// then applies the blanket nighttime override: an immediate result in the
// small hours (night bucket, before 06:00) is downgraded to gentle with at
// least a two-hour delay so nobody's phone lights up at 3 AM.
func DecideTiming(notifType NotificationType, ctx *PartnerContext, now time.Time) TimingDecision {
	if ctx == nil {
		ctx = NeutralContext()
	}

	bucket := BucketOf(now)
	d := decideByTable(notifType, ctx, bucket)

	if d.Timing == TimingImmediate && bucket == BucketNight && now.Hour() < 6 {
		d.Timing = TimingGentle
		if d.DelayMinutes < 120 {
			d.DelayMinutes = 120
		}
	}

	return d
}

func decideByTable(notifType NotificationType, ctx *PartnerContext, bucket TimeBucket) TimingDecision {
	switch notifType {
	case TypeCelebration:
		// Celebrations ride the moment.
		return TimingDecision{TimingImmediate, 0, PriorityHigh}

	case TypeCheckIn:
		switch {
		case ctx.Mood <= 3 && ctx.Energy <= 3:
			return TimingDecision{TimingGentle, 60, PriorityHigh}
		case ctx.Energy >= 8:
			return TimingDecision{TimingOptimal, 20, PriorityNormal}
		case ctx.CalendarOverlapHours >= 2:
			return TimingDecision{TimingOptimal, 15, PriorityNormal}
		case bucket == BucketEvening:
			return TimingDecision{TimingOptimal, 30, PriorityNormal}
		default:
			return TimingDecision{TimingGentle, 45, PriorityLow}
		}

	case TypeReminder:
		switch {
		case ctx.Mood <= 3:
			return TimingDecision{TimingQuiet, 180, PriorityLow}
		case ctx.CalendarOverlapHours >= 1:
			return TimingDecision{TimingOptimal, 30, PriorityNormal}
		default:
			return TimingDecision{TimingGentle, 90, PriorityLow}
		}

	case TypeSuggestion:
		switch {
		case ctx.Energy >= 7 && ctx.CalendarOverlapHours >= 1:
			return TimingDecision{TimingImmediate, 0, PriorityNormal}
		case ctx.Mood <= 3:
			return TimingDecision{TimingQuiet, 240, PriorityLow}
		default:
			return TimingDecision{TimingOptimal, 60, PriorityNormal}
		}

	default:
		return TimingDecision{TimingGentle, 60, PriorityLow}
	}
}

// FiringAllowed is the second gate, evaluated when a deferred notification
// actually fires: nothing goes out during sleep hours (23:00-07:00) or while
// either partner is running on empty (energy <= 2).
func FiringAllowed(ctx *PartnerContext, now time.Time) (bool, string) {
	hour := now.Hour()
	if hour >= 23 || hour < 7 {
		return false, "sleep hours"
	}
	if ctx != nil && (ctx.Energy <= 2 || ctx.PartnerEnergy <= 2) {
		return false, "low energy"
	}
	return true, ""
}

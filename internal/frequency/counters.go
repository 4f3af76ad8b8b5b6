// internal/frequency/counters.go

package frequency

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// PromptCounter tracks per-user, per-type weekly prompt counts.
type PromptCounter interface {
	// WeeklyCount returns how many prompts of this type were sent in the
	// ISO week containing now.
	WeeklyCount(ctx context.Context, userID int64, pt PromptType, now time.Time) (int, error)

	// RecordSend increments the weekly count for now's ISO week.
	RecordSend(ctx context.Context, userID int64, pt PromptType, now time.Time) error
}

// redisCounter keeps weekly counts in Redis with per-ISO-week keys. Redis is
// a cache: on any miss or error the count is re-derived from the engagement
// event log, which stays the source of truth.
type redisCounter struct {
	client *redis.Client
	repo   Repository
}

// NewPromptCounter creates a Redis-backed counter with event-log fallback.
// client may be nil; every read then goes to the event log.
func NewPromptCounter(client *redis.Client, repo Repository) PromptCounter {
	return &redisCounter{client: client, repo: repo}
}

func weekKey(userID int64, pt PromptType, now time.Time) string {
	year, week := now.ISOWeek()
	return fmt.Sprintf("prompts:%d:%s:%d-%02d", userID, pt, year, week)
}

func (c *redisCounter) WeeklyCount(ctx context.Context, userID int64, pt PromptType, now time.Time) (int, error) {
	if c.client != nil {
		count, err := c.client.Get(ctx, weekKey(userID, pt, now)).Int()
		if err == nil {
			return count, nil
		}
	}

	return c.repo.CountPromptEvents(ctx, userID, pt, weekStartOf(now))
}

func (c *redisCounter) RecordSend(ctx context.Context, userID int64, pt PromptType, now time.Time) error {
	if c.client != nil {
		key := weekKey(userID, pt, now)
		c.client.Incr(ctx, key)
		c.client.Expire(ctx, key, 14*24*time.Hour)
	}

	// The durable record. A prompt that never reaches the log was never
	// sent as far as the engine is concerned.
	return c.repo.RecordPromptSent(ctx, userID, pt)
}

// weekStartOf returns the Monday of now's ISO week at midnight.
func weekStartOf(now time.Time) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := now.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
}

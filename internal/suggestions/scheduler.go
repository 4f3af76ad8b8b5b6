package suggestions

import (
	"context"
	"log"
	"time"
)

// Scheduler pre-generates weekly suggestions so Monday-morning requests hit
// existing rows instead of paying the scoring pass.
type Scheduler struct {
	service Service
}

func NewScheduler(service Service) *Scheduler {
	return &Scheduler{service: service}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Weekly pre-generation early Monday morning
	go s.runWeekly(ctx, time.Monday, 6, 0, s.service.GenerateForActiveUsers)
}

func (s *Scheduler) runWeekly(ctx context.Context, day time.Weekday, hour, minute int, task func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		for next.Weekday() != day || now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("Scheduled task failed: %v", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// internal/notification/scheduler.go

package notifications

import (
	"context"
	"log"
	"time"
)

// ContextProvider supplies the live partner context used for timing
// decisions and the fire-time recheck.
type ContextProvider interface {
	GetPartnerContext(ctx context.Context, userID int64) (*PartnerContext, error)
}

// StaticContextProvider returns a fixed context. Used in tests and as a
// neutral default when no live source is wired.
type StaticContextProvider struct {
	Context PartnerContext
}

func (p *StaticContextProvider) GetPartnerContext(ctx context.Context, userID int64) (*PartnerContext, error) {
	c := p.Context
	return &c, nil
}

// CancelFunc cancels a deferred notification before it fires.
type CancelFunc func()

// TimerScheduler defers notifications with one timer each. Firing goes
// through DeliverScheduled, which claims the persisted row, so the timer and
// the processing loop can never both deliver the same deferral.
type TimerScheduler struct {
	service Service
}

// NewTimerScheduler creates a timer-based deferral scheduler.
func NewTimerScheduler(service Service) *TimerScheduler {
	return &TimerScheduler{service: service}
}

// Schedule fires the persisted deferral after delay and returns a cancel
// closure. Cancelling after the timer fired is a no-op.
func (s *TimerScheduler) Schedule(ctx context.Context, scheduledID int64, delay time.Duration) CancelFunc {
	timer := time.AfterFunc(delay, func() {
		if err := s.service.DeliverScheduled(ctx, scheduledID); err != nil {
			log.Printf("Deferred delivery failed for scheduled notification %d: %v", scheduledID, err)
		}
	})

	return func() { timer.Stop() }
}

// ProcessingLoop drains persisted scheduled notifications on an interval, so
// deferred sends survive a process restart (the in-memory timers do not).
type ProcessingLoop struct {
	service  Service
	interval time.Duration
	stopCh   chan struct{}
}

// NewProcessingLoop creates the scheduled-notification processing loop.
func NewProcessingLoop(service Service, interval time.Duration) *ProcessingLoop {
	if interval == 0 {
		interval = 1 * time.Minute
	}

	return &ProcessingLoop{
		service:  service,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the loop
func (l *ProcessingLoop) Start(ctx context.Context) {
	log.Printf("Starting notification processing loop with interval: %v", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// Run immediately on start
	l.process(ctx)

	for {
		select {
		case <-ticker.C:
			l.process(ctx)
		case <-l.stopCh:
			log.Println("Stopping notification processing loop")
			return
		case <-ctx.Done():
			log.Println("Context cancelled, stopping notification processing loop")
			return
		}
	}
}

// Stop stops the loop
func (l *ProcessingLoop) Stop() {
	close(l.stopCh)
}

func (l *ProcessingLoop) process(ctx context.Context) {
	if err := l.service.ProcessScheduledNotifications(ctx); err != nil {
		log.Printf("Error processing scheduled notifications: %v", err)
	}
}

// CleanupJob removes old read notifications on a daily cadence.
type CleanupJob struct {
	service      Service
	interval     time.Duration
	retentionAge time.Duration
	stopCh       chan struct{}
}

// NewCleanupJob creates a new cleanup job
func NewCleanupJob(service Service, interval, retentionAge time.Duration) *CleanupJob {
	if interval == 0 {
		interval = 24 * time.Hour
	}
	if retentionAge == 0 {
		retentionAge = 30 * 24 * time.Hour
	}

	return &CleanupJob{
		service:      service,
		interval:     interval,
		retentionAge: retentionAge,
		stopCh:       make(chan struct{}),
	}
}

// Start starts the cleanup job
func (j *CleanupJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup(ctx)

	for {
		select {
		case <-ticker.C:
			j.cleanup(ctx)
		case <-j.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the cleanup job
func (j *CleanupJob) Stop() {
	close(j.stopCh)
}

func (j *CleanupJob) cleanup(ctx context.Context) {
	if err := j.service.CleanupOldNotifications(ctx, j.retentionAge); err != nil {
		log.Printf("Error cleaning up notifications: %v", err)
	}
}

package services

import (
	"context"
	"log/slog"
	"time"
)

// Clock abstracts wall-clock reads so the gate can run against a fake clock
// in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// QuietHours gates dispatch to a [StartHour, EndHour) local-time window.
// A message arriving outside the window blocks the pipeline until the next
// window opening; this stall is deliberate and applies per worker instance.
type QuietHours struct {
	startHour int
	endHour   int
	clock     Clock
	logger    *slog.Logger
}

func NewQuietHours(startHour, endHour int, logger *slog.Logger) *QuietHours {
	return &QuietHours{
		startHour: startHour,
		endHour:   endHour,
		clock:     systemClock{},
		logger:    logger,
	}
}

// Wait blocks until the dispatch window is open or ctx is cancelled.
func (q *QuietHours) Wait(ctx context.Context) error {
	delay := q.delayUntilOpen(q.clock.Now())
	if delay <= 0 {
		return nil
	}
	q.logger.Info("outside dispatch window, delaying message",
		slog.Duration("delay", delay),
		slog.Int("start_hour", q.startHour),
		slog.Int("end_hour", q.endHour))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// delayUntilOpen returns how long to wait from now until the window opens,
// zero when it is already open. The wait wraps past midnight when now is at
// or beyond the end hour.
func (q *QuietHours) delayUntilOpen(now time.Time) time.Duration {
	hour := now.Hour()
	if hour >= q.startHour && hour < q.endHour {
		return 0
	}
	opens := time.Date(now.Year(), now.Month(), now.Day(), q.startHour, 0, 0, 0, now.Location())
	if hour >= q.endHour {
		opens = opens.AddDate(0, 0, 1)
	}
	return opens.Sub(now)
}

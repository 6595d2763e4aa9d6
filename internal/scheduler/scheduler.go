// Package scheduler fires due reminders on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	dom "Planner/internal/domain"

	"github.com/robfig/cron/v3"
)

// DueSource lists reminder occurrences whose instant falls in [from, to).
type DueSource interface {
	Due(ctx context.Context, from, to time.Time) ([]dom.ReminderOccurrence, error)
}

// Notifier delivers one reminder occurrence.
type Notifier interface {
	Notify(ctx context.Context, o dom.ReminderOccurrence) error
}

// LogNotifier writes reminders to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, o dom.ReminderOccurrence) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("reminder due",
		"reminder_id", o.Reminder.ID,
		"user_id", o.Reminder.UserID,
		"title", o.Reminder.Title,
		"date", o.Date,
		"at", o.At)
	return nil
}

type Scheduler struct {
	cron     *cron.Cron
	spec     string
	source   DueSource
	notifier Notifier
	timeout  time.Duration
	lookback time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

func New(spec string, source DueSource, notifier Notifier) *Scheduler {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		spec:     spec,
		source:   source,
		notifier: notifier,
		timeout:  30 * time.Second,
		lookback: defaultLookback,
		now:      time.Now,
	}
}

// defaultLookback fits the 366-day range the reminder service accepts.
const defaultLookback = 365 * 24 * time.Hour

// WithLookback bounds how far back a tick searches after a long pause.
// Reminders older than that are dropped.
func (s *Scheduler) WithLookback(d time.Duration) *Scheduler {
	if d > 0 {
		s.lookback = d
	}
	return s
}

// Start registers the job and starts the cron loop in the background.
// Reminders due before Start are not replayed.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.last = s.now().UTC()
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("add reminder job %q: %w", s.spec, err)
	}
	s.cron.Start()
	slog.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.Tick(ctx); err != nil {
		slog.Error("reminder tick failed", "err", err)
	}
}

// Tick delivers every reminder due since the previous tick and returns how
// many were sent. The window only advances when the lookup succeeds.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	from := s.last
	if from.IsZero() {
		from = now
	}
	if !now.After(from) {
		return 0, nil
	}
	if oldest := now.Add(-s.lookback); from.Before(oldest) {
		slog.Warn("reminder window too long, dropping older reminders", "from", from, "oldest", oldest)
		from = oldest
	}

	due, err := s.source.Due(ctx, from, now)
	if err != nil {
		return 0, err
	}
	s.last = now

	sent := 0
	for _, o := range due {
		if err := s.notifier.Notify(ctx, o); err != nil {
			slog.Error("reminder delivery failed", "reminder_id", o.Reminder.ID, "date", o.Date, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

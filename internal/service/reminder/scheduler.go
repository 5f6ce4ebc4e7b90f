package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
	"github.com/sandevgo/dailyfacts/pkg/retry"
)

const defaultDeliveryTimeout = 30 * time.Second

var (
	_ core.Scheduler = (*Scheduler)(nil)

	ErrNoFact = errors.New("no fact to send")
)

// Scheduler keeps the single pending daily reminder and delivers it when due.
type Scheduler struct {
	notifier core.Notifier
	retrier  *retry.Retrier

	Now             func() time.Time
	Location        *time.Location
	DeliveryTimeout time.Duration

	mu   sync.Mutex
	plan *plan
	wake chan struct{}
}

type plan struct {
	reminder     core.Reminder
	hour, minute int
	weekdays     []time.Weekday
}

func NewScheduler(notifier core.Notifier, retrier *retry.Retrier) *Scheduler {
	return &Scheduler{
		notifier:        notifier,
		retrier:         retrier,
		Now:             time.Now,
		Location:        time.Local,
		DeliveryTimeout: defaultDeliveryTimeout,
		wake:            make(chan struct{}, 1),
	}
}

// Reschedule replaces the pending reminder. Disabled reminders, an empty weekday set or a
// missing lead fact cancel it.
func (s *Scheduler) Reschedule(ctx context.Context, st core.SessionState, lead *core.Fact) error {
	logger := log.FromCtx(ctx)

	var next *plan
	defer func() {
		s.mu.Lock()
		s.plan = next
		s.mu.Unlock()
		s.signal()
	}()

	if !st.NotificationsEnabled || lead == nil {
		logger.Debug().Bool("enabled", st.NotificationsEnabled).Msg("reminder cancelled")
		return nil
	}

	hour, minute, err := ParseClock(st.NotificationTime)
	if err != nil {
		return err
	}

	at, ok := NextOccurrence(s.Now().In(s.Location), hour, minute, st.NotificationWeekdays)
	if !ok {
		logger.Debug().Msg("no reminder weekdays selected")
		return nil
	}

	next = &plan{
		reminder: core.Reminder{Fact: *lead, At: at},
		hour:     hour,
		minute:   minute,
		weekdays: slices.Clone(st.NotificationWeekdays),
	}
	logger.Debug().Str("fact", lead.ID).Time("at", at).Msg("reminder scheduled")
	return nil
}

// Next returns the pending reminder, if any.
func (s *Scheduler) Next() (core.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return core.Reminder{}, false
	}
	return s.plan.reminder, true
}

// SendNow delivers fact immediately, bypassing the schedule.
func (s *Scheduler) SendNow(ctx context.Context, fact *core.Fact) error {
	if fact == nil {
		return ErrNoFact
	}
	return s.deliver(ctx, core.Reminder{Fact: *fact, At: s.Now().In(s.Location)})
}

func (s *Scheduler) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("starting reminder scheduler")

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		r, pending := s.Next()
		if pending {
			timer.Reset(max(r.At.Sub(s.Now()), 0))
		} else {
			timer.Stop()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
			if !pending {
				continue
			}
			if err := s.deliver(ctx, r); err != nil {
				logger.Error().Err(err).Str("fact", r.Fact.ID).Msg("failed to deliver reminder")
			}
			s.advance(r)
		}
	}
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	return nil
}

// advance moves a delivered reminder to its next occurrence unless it was replaced meanwhile.
// The fact stays the same until the engine reschedules for the new day.
func (s *Scheduler) advance(delivered core.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.plan
	if p == nil || !p.reminder.At.Equal(delivered.At) || p.reminder.Fact.ID != delivered.Fact.ID {
		return
	}

	at, ok := NextOccurrence(delivered.At, p.hour, p.minute, p.weekdays)
	if !ok {
		s.plan = nil
		return
	}
	p.reminder.At = at
}

func (s *Scheduler) deliver(ctx context.Context, r core.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, s.DeliveryTimeout)
	defer cancel()

	err := s.retrier.Do(ctx, func() error {
		return s.notifier.Notify(ctx, r)
	})
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	log.FromCtx(ctx).Info().Str("fact", r.Fact.ID).Msg("reminder delivered")
	return nil
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

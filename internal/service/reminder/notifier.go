package reminder

import (
	"context"
	"errors"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

// Notifiers fans one reminder out to every transport. Delivery continues past failures.
type Notifiers []core.Notifier

func (n Notifiers) Notify(ctx context.Context, r core.Reminder) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes reminders to the log. It is the fallback when no chat transport is
// enabled.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, r core.Reminder) error {
	log.FromCtx(ctx).Info().
		Str("fact", r.Fact.ID).
		Str("title", r.Fact.Title).
		Msg("daily fact reminder")
	return nil
}

package core

import (
	"context"
	"time"
)

// ContentSource fetches one raw content file. Implementations return an error for
// missing or unreadable files; the catalog decides how to degrade.
type ContentSource interface {
	Load(ctx context.Context, topic TopicKey, lang Language) (*ContentFile, error)
}

type CatalogQuery struct {
	Date     time.Time
	Topics   []TopicKey
	Language Language
	Exclude  []string
}

// Catalog resolves facts. It never fails: unavailable topics simply contribute no facts.
type Catalog interface {
	// SampleRandom returns a random non-excluded fact for the query date and the number of
	// candidates that existed before exclusion.
	SampleRandom(ctx context.Context, q CatalogQuery) (*Fact, int)
	FindByID(ctx context.Context, id string, topics []TopicKey, lang Language) *Fact
}

// Scheduler (re)plans the daily reminder for the given settings and lead fact.
type Scheduler interface {
	Reschedule(ctx context.Context, settings SessionState, lead *Fact) error
}

// Reminder is a single delivery produced by the scheduler.
type Reminder struct {
	Fact Fact
	At   time.Time
}

type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

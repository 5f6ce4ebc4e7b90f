package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
	"golang.org/x/sync/singleflight"
)

var _ core.Catalog = (*Catalog)(nil)

type cacheKey struct {
	topic core.TopicKey
	lang  core.Language
}

func (k cacheKey) String() string {
	return string(k.lang) + "/" + string(k.topic)
}

// Catalog serves facts from per-topic content files. Files are loaded lazily, once per
// (topic, language), and kept for the life of the process.
type Catalog struct {
	source core.ContentSource

	mu    sync.RWMutex
	cache map[cacheKey]*core.ContentFile
	loads singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type Option func(*Catalog)

// WithRand makes sampling deterministic.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) {
		c.rnd = r
	}
}

func New(source core.ContentSource, opts ...Option) *Catalog {
	c := &Catalog{
		source: source,
		cache:  make(map[cacheKey]*core.ContentFile),
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DateKey is the yearly recurrence key "MM-DD" of t.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%02d-%02d", int(t.Month()), t.Day())
}

func (c *Catalog) SampleRandom(ctx context.Context, q core.CatalogQuery) (*core.Fact, int) {
	dateKey := DateKey(q.Date)
	files := c.loadAll(ctx, q.Topics, q.Language.OrDefault())

	var all []core.Fact
	for _, file := range files {
		for _, entry := range file.Facts[dateKey] {
			all = append(all, toFact(entry, file.Topic))
		}
	}
	if len(all) == 0 {
		return nil, 0
	}

	candidates := all
	if len(q.Exclude) > 0 {
		excluded := make(map[string]struct{}, len(q.Exclude))
		for _, id := range q.Exclude {
			excluded[id] = struct{}{}
		}
		candidates = make([]core.Fact, 0, len(all))
		for _, f := range all {
			if _, skip := excluded[f.ID]; !skip {
				candidates = append(candidates, f)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, len(all)
	}

	picked := candidates[c.intN(len(candidates))]
	return &picked, len(all)
}

func (c *Catalog) FindByID(ctx context.Context, id string, topics []core.TopicKey, lang core.Language) *core.Fact {
	lang = lang.OrDefault()

	candidates := topics
	if topic, ok := core.TopicFromID(id); ok && slices.Contains(topics, topic) {
		candidates = []core.TopicKey{topic}
	}

	for _, topic := range candidates {
		file := c.load(ctx, topic, lang)
		for _, entries := range file.Facts {
			for _, entry := range entries {
				if entry.ID == id {
					f := toFact(entry, file.Topic)
					return &f
				}
			}
		}
	}
	return nil
}

// loadAll fetches every topic concurrently; ordering of the result follows topics.
func (c *Catalog) loadAll(ctx context.Context, topics []core.TopicKey, lang core.Language) []*core.ContentFile {
	files := make([]*core.ContentFile, len(topics))

	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic core.TopicKey) {
			defer wg.Done()
			files[i] = c.load(ctx, topic, lang)
		}(i, topic)
	}
	wg.Wait()
	return files
}

// load returns the cached file or performs one shared load. It never fails: a topic that
// cannot be loaded in lang or in the default language is cached as empty.
func (c *Catalog) load(ctx context.Context, topic core.TopicKey, lang core.Language) *core.ContentFile {
	key := cacheKey{topic: topic, lang: lang}

	c.mu.RLock()
	file, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return file
	}

	v, _, _ := c.loads.Do(key.String(), func() (interface{}, error) {
		c.mu.RLock()
		file, ok := c.cache[key]
		c.mu.RUnlock()
		if ok {
			return file, nil
		}

		file = c.fetch(context.WithoutCancel(ctx), topic, lang)

		c.mu.Lock()
		c.cache[key] = file
		c.mu.Unlock()
		return file, nil
	})
	return v.(*core.ContentFile)
}

func (c *Catalog) fetch(ctx context.Context, topic core.TopicKey, lang core.Language) *core.ContentFile {
	logger := log.FromCtx(ctx)

	file, err := c.source.Load(ctx, topic, lang)
	if err != nil && lang != core.DefaultLanguage {
		logger.Debug().Err(err).Str("topic", string(topic)).Str("lang", string(lang)).
			Msg("content file unavailable, falling back to default language")
		file, err = c.source.Load(ctx, topic, core.DefaultLanguage)
	}
	if err != nil {
		logger.Warn().Err(err).Str("topic", string(topic)).Str("lang", string(lang)).
			Msg("content file unavailable, topic has no facts")
		return core.EmptyContentFile(topic)
	}

	if file.Facts == nil {
		file.Facts = map[string][]core.FactEntry{}
	}
	if file.Topic == "" {
		file.Topic = topic
	}
	return file
}

func (c *Catalog) intN(n int) int {
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.rnd.IntN(n)
}

func toFact(entry core.FactEntry, topic core.TopicKey) core.Fact {
	return core.Fact{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		Topic:       topic,
	}
}

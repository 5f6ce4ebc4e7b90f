package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRolloverInterval  = time.Minute
	defaultRescheduleTimeout = 10 * time.Second

	reconcileKey = "reconcile"
	refreshKey   = "refresh"
)

var ErrIndexOutOfRange = errors.New("fact index out of range")

// View is what transports render.
type View struct {
	Facts       []core.Fact
	Loading     bool
	Error       core.ErrorTag
	Date        string
	SettingsKey string
}

// Lead is the first displayed fact, the one reminders announce.
func (v View) Lead() *core.Fact {
	if len(v.Facts) == 0 {
		return nil
	}
	f := v.Facts[0]
	return &f
}

// Engine decides what is displayed today and keeps that decision in sync with the
// persisted session state and the live settings.
type Engine struct {
	store     core.SettingsStore
	catalog   core.Catalog
	scheduler core.Scheduler

	Now               func() time.Time
	Location          *time.Location
	RolloverInterval  time.Duration
	RescheduleTimeout time.Duration

	// one pass at a time; refresh and swipes take opMu too
	group singleflight.Group
	opMu  sync.Mutex

	mu         sync.RWMutex
	view       View
	applied    bool
	hadHistory bool

	// reminder updates run on one worker that only keeps the newest request
	sideEffects  sync.WaitGroup
	reminderMu   sync.Mutex
	reminderGen  uint64
	pending      *rescheduleRequest
	reminderBusy bool
}

type rescheduleRequest struct {
	ctx  context.Context
	gen  uint64
	st   core.SessionState
	lead *core.Fact
}

func NewEngine(store core.SettingsStore, catalog core.Catalog, scheduler core.Scheduler) *Engine {
	return &Engine{
		store:             store,
		catalog:           catalog,
		scheduler:         scheduler,
		Now:               time.Now,
		Location:          time.Local,
		RolloverInterval:  defaultRolloverInterval,
		RescheduleTimeout: defaultRescheduleTimeout,
	}
}

// Start resumes today's session and then follows settings changes and day rollovers
// until ctx is done.
func (e *Engine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("starting session engine")

	changes := e.store.Changes(ctx)
	e.Resume(ctx)

	ticker := time.NewTicker(e.RolloverInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-changes:
			if !ok {
				return nil
			}
			e.OnSettingsChanged(ctx, st)
		case <-ticker.C:
			if v := e.View(); v.Date != "" && v.Date != e.today() {
				logger.Info().Str("from", v.Date).Str("to", e.today()).Msg("day rolled over")
				e.Resume(ctx)
			}
		}
	}
}

// Shutdown waits for in-flight reminder updates.
func (e *Engine) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.sideEffects.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watch feeds every store change into OnSettingsChanged until ctx is done.
func (e *Engine) Watch(ctx context.Context) {
	for st := range e.store.Changes(ctx) {
		e.OnSettingsChanged(ctx, st)
	}
}

func (e *Engine) View() View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v := e.view
	v.Facts = slices.Clone(e.view.Facts)
	return v
}

// Resume restores today's facts from the persisted state, or selects new ones when the
// day or the settings changed since they were chosen.
func (e *Engine) Resume(ctx context.Context) View {
	return e.run(ctx)
}

// OnSettingsChanged reconciles when the selection-relevant settings differ from the ones
// last applied, or when the history was cleared. Anything else, including the engine's
// own writes, is a no-op.
func (e *Engine) OnSettingsChanged(ctx context.Context, st core.SessionState) View {
	key := Fingerprint(st)
	has := st.HasHistory()

	e.mu.Lock()
	changed := e.applied && (key != e.view.SettingsKey || (e.hadHistory && !has))
	e.hadHistory = has
	e.mu.Unlock()

	if !changed {
		return e.View()
	}
	log.FromCtx(ctx).Debug().Str("settings", key).Msg("settings changed")
	return e.run(ctx)
}

// ApplySettings edits the settings and returns the view reconciled against them.
func (e *Engine) ApplySettings(ctx context.Context, mutate func(*core.SessionState)) (View, error) {
	if _, err := e.store.Update(ctx, mutate); err != nil {
		return e.View(), fmt.Errorf("failed to update settings: %w", err)
	}
	return e.run(ctx), nil
}

// ClearHistory forgets everything shown and selects afresh.
func (e *Engine) ClearHistory(ctx context.Context) (View, error) {
	if _, err := e.store.ClearHistory(ctx); err != nil {
		return e.View(), fmt.Errorf("failed to clear history: %w", err)
	}
	return e.run(ctx), nil
}

// run executes one reconciliation pass or joins the one in flight. A joined pass that was
// computed for settings that have since changed is followed by one more pass.
func (e *Engine) run(ctx context.Context) View {
	ctx = context.WithoutCancel(ctx)

	v, _, shared := e.group.Do(reconcileKey, func() (interface{}, error) {
		return e.pass(ctx), nil
	})
	view := v.(View)

	if shared && e.outdated(ctx, view) {
		v, _, _ = e.group.Do(reconcileKey, func() (interface{}, error) {
			return e.pass(ctx), nil
		})
		view = v.(View)
	}
	return view
}

func (e *Engine) outdated(ctx context.Context, v View) bool {
	st := e.store.Get(ctx)
	today := e.today()
	return v.Date != today ||
		v.SettingsKey != Fingerprint(st) ||
		st.LastShownDate != today ||
		st.CurrentFactsSettingsKey != v.SettingsKey
}

func (e *Engine) pass(ctx context.Context) (view View) {
	ctx = log.With(ctx, "pass", uuid.NewString())
	logger := log.FromCtx(ctx)

	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.setLoading(true)

	st := e.store.Get(ctx)
	today := e.today()
	key := Fingerprint(st)

	defer func() {
		if r := recover(); r != nil {
			view = e.fail(ctx, today, key, fmt.Errorf("panic during reconciliation: %v", r))
		}
	}()

	if st.LastShownDate == today && st.CurrentFactsSettingsKey == key {
		if v, ok := e.restore(ctx, st, today, key); ok {
			return v
		}
		logger.Info().Msg("persisted facts no longer resolve, selecting again")
	} else {
		logger.Debug().
			Str("last_shown", st.LastShownDate).
			Str("persisted_settings", st.CurrentFactsSettingsKey).
			Str("settings", key).
			Msg("session is stale, selecting")
	}
	return e.freshSelection(ctx, st, today, key)
}

// restore rebuilds the view from persisted ids. It reports false when ids were persisted
// but none of them resolve any more.
func (e *Engine) restore(ctx context.Context, st core.SessionState, today, key string) (View, bool) {
	ids := st.CurrentFactIDs
	if len(ids) == 0 && st.CurrentErrorKey == core.ErrorNone {
		// most recently shown first
		ids = st.ShownIDsFor(today)
		slices.Reverse(ids)
	}

	topics := st.ActiveTopics()
	facts := make([]core.Fact, 0, len(ids))
	for _, id := range ids {
		if f := e.catalog.FindByID(ctx, id, topics, st.Language); f != nil {
			facts = append(facts, *f)
		}
	}
	if len(ids) > 0 && len(facts) == 0 && st.CurrentErrorKey == core.ErrorNone {
		return View{}, false
	}
	facts = shape(facts, st.OnePerTopic)

	log.FromCtx(ctx).Debug().Strs("facts", factIDs(facts)).Str("error", string(st.CurrentErrorKey)).Msg("restored session")

	v := e.apply(facts, st.CurrentErrorKey, today, key, st.HasHistory())
	e.reschedule(ctx, st, v.Lead())
	return v, true
}

func (e *Engine) freshSelection(ctx context.Context, st core.SessionState, today, key string) View {
	logger := log.FromCtx(ctx)

	var carried []string
	if cur := e.View(); cur.Date == today {
		carried = factIDs(carryOver(cur.Facts, st))
	}
	exclude := without(st.ShownIDsFor(today), carried)

	picked, candidates := e.sample(ctx, st, exclude)

	tag := core.ErrorNone
	if len(picked) == 0 {
		tag = emptyTag(st, candidates)
	}
	ids := factIDs(picked)

	committed, err := e.store.Update(ctx, func(s *core.SessionState) {
		s.MarkShown(today, ids...)
		s.CurrentFactIDs = ids
		s.CurrentErrorKey = tag
		s.CurrentFactsSettingsKey = key
	})
	if err != nil {
		return e.fail(ctx, today, key, err)
	}

	logger.Info().Strs("facts", ids).Str("error", string(tag)).Int("candidates", candidates).Msg("selected facts")

	v := e.apply(picked, tag, today, key, committed.HasHistory())
	e.reschedule(ctx, committed, v.Lead())
	return v
}

// sample draws one fact in single mode, or one per active topic with an exclusion set that
// grows as topics are processed. candidates counts entries before exclusion.
func (e *Engine) sample(ctx context.Context, st core.SessionState, exclude []string) ([]core.Fact, int) {
	date := e.now()
	topics := st.ActiveTopics()

	if !st.OnePerTopic {
		f, n := e.catalog.SampleRandom(ctx, core.CatalogQuery{
			Date:     date,
			Topics:   topics,
			Language: st.Language,
			Exclude:  exclude,
		})
		if f == nil {
			return nil, n
		}
		return []core.Fact{*f}, n
	}

	excl := slices.Clone(exclude)
	picked := make([]core.Fact, 0, len(topics))
	candidates := 0
	for _, topic := range topics {
		f, n := e.catalog.SampleRandom(ctx, core.CatalogQuery{
			Date:     date,
			Topics:   []core.TopicKey{topic},
			Language: st.Language,
			Exclude:  excl,
		})
		candidates += n
		if f == nil {
			continue
		}
		picked = append(picked, *f)
		excl = append(excl, f.ID)
	}
	return picked, candidates
}

// Refresh swaps every displayed fact for one not yet shown today. Slots without a
// replacement are dropped; when none has one the display stays and is flagged all seen.
// Concurrent refreshes share one result.
func (e *Engine) Refresh(ctx context.Context) View {
	ctx = context.WithoutCancel(ctx)
	v, _, _ := e.group.Do(refreshKey, func() (interface{}, error) {
		return e.refresh(ctx), nil
	})
	return v.(View)
}

func (e *Engine) refresh(ctx context.Context) (view View) {
	ctx = log.With(ctx, "pass", uuid.NewString())
	logger := log.FromCtx(ctx)

	e.opMu.Lock()
	defer e.opMu.Unlock()

	st := e.store.Get(ctx)
	today := e.today()
	key := Fingerprint(st)

	defer func() {
		if r := recover(); r != nil {
			view = e.fail(ctx, today, key, fmt.Errorf("panic during refresh: %v", r))
		}
	}()

	cur := e.View()
	if len(cur.Facts) == 0 || !e.current(st, cur, today, key) {
		e.setLoading(true)
		return e.freshSelection(ctx, st, today, key)
	}

	exclude := union(st.ShownIDsFor(today), factIDs(cur.Facts))
	date := e.now()

	next := make([]core.Fact, 0, len(cur.Facts))
	for _, slot := range cur.Facts {
		topics := st.ActiveTopics()
		if st.OnePerTopic {
			topics = []core.TopicKey{slot.Topic}
		}
		f, _ := e.catalog.SampleRandom(ctx, core.CatalogQuery{
			Date:     date,
			Topics:   topics,
			Language: st.Language,
			Exclude:  exclude,
		})
		if f == nil {
			continue
		}
		next = append(next, *f)
		exclude = append(exclude, f.ID)
	}

	if len(next) == 0 {
		logger.Info().Msg("refresh found nothing new")
		committed, err := e.store.Update(ctx, func(s *core.SessionState) {
			s.CurrentErrorKey = core.ErrorAllSeenForToday
		})
		if err != nil {
			return e.fail(ctx, today, key, err)
		}
		return e.apply(cur.Facts, core.ErrorAllSeenForToday, today, key, committed.HasHistory())
	}

	ids := factIDs(next)
	committed, err := e.store.Update(ctx, func(s *core.SessionState) {
		s.MarkShown(today, ids...)
		s.CurrentFactIDs = ids
		s.CurrentErrorKey = core.ErrorNone
		s.CurrentFactsSettingsKey = key
	})
	if err != nil {
		return e.fail(ctx, today, key, err)
	}

	logger.Info().Strs("facts", ids).Msg("refreshed facts")

	v := e.apply(next, core.ErrorNone, today, key, committed.HasHistory())
	e.reschedule(ctx, committed, v.Lead())
	return v
}

// SwipeOptions narrows a swipe to the fact the caller saw.
type SwipeOptions struct {
	// ExpectID, when set, must be the id displayed at the index; otherwise the swipe is a
	// no-op. Repeated deliveries of the same swipe therefore remove one fact only.
	ExpectID string
}

type SwipeOption func(*SwipeOptions)

func ExpectID(id string) SwipeOption {
	return func(o *SwipeOptions) { o.ExpectID = id }
}

func NewSwipeOptions(opts ...SwipeOption) SwipeOptions {
	var o SwipeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Discard drops the fact at idx without a replacement and excludes it for the rest of the day.
func (e *Engine) Discard(ctx context.Context, idx int, opts ...SwipeOption) (View, error) {
	return e.swipe(ctx, idx, false, NewSwipeOptions(opts...))
}

// Replace swaps the fact at idx for another one of the same topic, or discards it when the
// topic has nothing left for today.
func (e *Engine) Replace(ctx context.Context, idx int, opts ...SwipeOption) (View, error) {
	return e.swipe(ctx, idx, true, NewSwipeOptions(opts...))
}

func (e *Engine) swipe(ctx context.Context, idx int, replace bool, o SwipeOptions) (view View, err error) {
	ctx = context.WithoutCancel(ctx)
	logger := log.FromCtx(ctx)

	e.opMu.Lock()
	defer e.opMu.Unlock()

	cur := e.View()
	if o.ExpectID != "" && (idx < 0 || idx >= len(cur.Facts) || cur.Facts[idx].ID != o.ExpectID) {
		logger.Debug().Int("index", idx).Str("expected", o.ExpectID).Msg("swipe target already gone")
		return cur, nil
	}
	if idx < 0 || idx >= len(cur.Facts) {
		return cur, ErrIndexOutOfRange
	}

	st := e.store.Get(ctx)
	today := e.today()
	key := Fingerprint(st)

	defer func() {
		if r := recover(); r != nil {
			view, err = e.fail(ctx, today, key, fmt.Errorf("panic during swipe: %v", r)), nil
		}
	}()

	if !e.current(st, cur, today, key) {
		logger.Debug().Msg("swipe on a stale session, selecting again")
		e.setLoading(true)
		return e.freshSelection(ctx, st, today, key), nil
	}

	gone := cur.Facts[idx]
	shown := []string{gone.ID}
	facts := slices.Clone(cur.Facts)

	var replacement *core.Fact
	if replace {
		replacement, _ = e.catalog.SampleRandom(ctx, core.CatalogQuery{
			Date:     e.now(),
			Topics:   []core.TopicKey{gone.Topic},
			Language: st.Language,
			Exclude:  union(st.ShownIDsFor(today), factIDs(cur.Facts)),
		})
	}

	tag := cur.Error
	if replacement != nil {
		facts[idx] = *replacement
		shown = append(shown, replacement.ID)
		tag = core.ErrorNone
	} else {
		facts = slices.Delete(facts, idx, idx+1)
		if len(facts) == 0 {
			tag = core.ErrorAllSeenForToday
		}
	}

	ids := factIDs(facts)
	committed, err := e.store.Update(ctx, func(s *core.SessionState) {
		s.MarkShown(today, shown...)
		s.CurrentFactIDs = ids
		s.CurrentErrorKey = tag
		s.CurrentFactsSettingsKey = key
	})
	if err != nil {
		return e.fail(ctx, today, key, err), nil
	}

	logger.Info().Str("discarded", gone.ID).Strs("facts", ids).Msg("swiped fact")

	v := e.apply(facts, tag, today, key, committed.HasHistory())
	e.reschedule(ctx, committed, v.Lead())
	return v, nil
}

// current reports whether the displayed facts were chosen today under the live settings.
func (e *Engine) current(st core.SessionState, v View, today, key string) bool {
	return v.Date == today &&
		v.SettingsKey == key &&
		st.LastShownDate == today &&
		st.CurrentFactsSettingsKey == key
}

// fail converts an unexpected failure into a load error and persists it best effort.
func (e *Engine) fail(ctx context.Context, today, key string, cause error) View {
	logger := log.FromCtx(ctx)
	logger.Error().Err(cause).Msg("reconciliation failed")

	hasHistory := true
	committed, err := e.store.Update(ctx, func(s *core.SessionState) {
		s.MarkShown(today)
		s.CurrentFactIDs = []string{}
		s.CurrentErrorKey = core.ErrorLoad
		s.CurrentFactsSettingsKey = key
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to persist load error")
	} else {
		hasHistory = committed.HasHistory()
	}

	return e.apply(nil, core.ErrorLoad, today, key, hasHistory)
}

func (e *Engine) apply(facts []core.Fact, tag core.ErrorTag, today, key string, hasHistory bool) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.view = View{
		Facts:       slices.Clone(facts),
		Error:       tag,
		Date:        today,
		SettingsKey: key,
	}
	e.applied = true
	e.hadHistory = hasHistory

	v := e.view
	v.Facts = slices.Clone(e.view.Facts)
	return v
}

func (e *Engine) setLoading(loading bool) {
	e.mu.Lock()
	e.view.Loading = loading
	e.mu.Unlock()
}

// reschedule hands the committed state to the scheduler without waiting for it. Callers
// hold opMu, so generations follow commit order. The worker applies only the newest
// pending request.
func (e *Engine) reschedule(ctx context.Context, st core.SessionState, lead *core.Fact) {
	if e.scheduler == nil {
		return
	}

	e.reminderMu.Lock()
	defer e.reminderMu.Unlock()

	e.reminderGen++
	e.pending = &rescheduleRequest{
		ctx:  context.WithoutCancel(ctx),
		gen:  e.reminderGen,
		st:   st,
		lead: lead,
	}
	if e.reminderBusy {
		return
	}
	e.reminderBusy = true
	e.sideEffects.Add(1)
	go e.rescheduleLoop()
}

func (e *Engine) rescheduleLoop() {
	defer e.sideEffects.Done()

	for {
		e.reminderMu.Lock()
		req := e.pending
		e.pending = nil
		if req == nil {
			e.reminderBusy = false
			e.reminderMu.Unlock()
			return
		}
		e.reminderMu.Unlock()

		ctx, cancel := context.WithTimeout(req.ctx, e.RescheduleTimeout)
		if err := e.scheduler.Reschedule(ctx, req.st, req.lead); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Uint64("generation", req.gen).Msg("failed to reschedule reminder")
		}
		cancel()
	}
}

func (e *Engine) now() time.Time {
	return e.Now().In(e.Location)
}

func (e *Engine) today() string {
	return e.now().Format(time.DateOnly)
}

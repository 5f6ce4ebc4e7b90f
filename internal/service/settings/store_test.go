package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DefaultsOnFirstAccess(t *testing.T) {
	s := NewStore(memory.NewStateStore())

	st := s.Get(context.Background())

	assert.Equal(t, core.AllTopics, st.SelectedTopics)
	assert.Equal(t, core.LanguageEnglish, st.Language)
	assert.False(t, st.OnePerTopic)
	assert.True(t, st.NotificationsEnabled)
	assert.Equal(t, "09:00", st.NotificationTime)
	assert.Empty(t, st.ShownFactIDs)
	assert.False(t, st.HasHistory())
}

func TestStore_LoadDefaultsMissingFields(t *testing.T) {
	repo := memory.NewStateStore()
	ctx := context.Background()
	require.NoError(t, repo.SaveState(ctx, []byte(`{"selectedTopics":["music"],"onePerTopic":true}`)))

	st := NewStore(repo).Get(ctx)

	assert.Equal(t, []core.TopicKey{core.TopicMusic}, st.SelectedTopics)
	assert.True(t, st.OnePerTopic)
	assert.Equal(t, core.LanguageEnglish, st.Language)
	assert.True(t, st.NotificationsEnabled, "missing bool keeps its default")
	assert.Equal(t, core.AllWeekdays, st.NotificationWeekdays)
	assert.NotNil(t, st.CurrentFactIDs)
}

func TestStore_CorruptStateFallsBackToDefaults(t *testing.T) {
	repo := memory.NewStateStore()
	ctx := context.Background()
	require.NoError(t, repo.SaveState(ctx, []byte(`{not json`)))

	st := NewStore(repo).Get(ctx)
	assert.Equal(t, core.DefaultSessionState(), st)
}

func TestStore_UpdatePersistsAndReturnsMerged(t *testing.T) {
	repo := memory.NewStateStore()
	s := NewStore(repo)
	ctx := context.Background()

	merged, err := s.Update(ctx, func(st *core.SessionState) {
		st.Language = core.LanguageGerman
		st.MarkShown("2026-10-19", "history-1019-1")
	})
	require.NoError(t, err)
	assert.Equal(t, core.LanguageGerman, merged.Language)
	assert.Equal(t, []string{"history-1019-1"}, merged.ShownFactIDs)

	reloaded := NewStore(repo).Get(ctx)
	assert.Equal(t, merged, reloaded)
}

func TestStore_UpdateFailureKeepsPreviousState(t *testing.T) {
	repo := memory.NewStateStore()
	s := NewStore(repo)
	ctx := context.Background()

	repo.FailSaves(errors.New("read-only"))
	got, err := s.Update(ctx, func(st *core.SessionState) { st.OnePerTopic = true })

	require.Error(t, err)
	assert.False(t, got.OnePerTopic)
	assert.False(t, s.Get(ctx).OnePerTopic)
}

func TestStore_GetReturnsCopies(t *testing.T) {
	s := NewStore(memory.NewStateStore())
	ctx := context.Background()

	st := s.Get(ctx)
	st.SelectedTopics[0] = "tampered"

	assert.Equal(t, core.TopicHistory, s.Get(ctx).SelectedTopics[0])
}

func TestStore_ClearHistory(t *testing.T) {
	repo := memory.NewStateStore()
	s := NewStore(repo)
	ctx := context.Background()

	_, err := s.ClearHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Saves(), "no history means no write")

	_, err = s.Update(ctx, func(st *core.SessionState) {
		st.SelectedTopics = []core.TopicKey{core.TopicScience}
		st.OnePerTopic = true
		st.MarkShown("2026-10-19", "science-1019-1")
		st.CurrentFactIDs = []string{"science-1019-1"}
		st.CurrentErrorKey = core.ErrorAllSeenForToday
		st.CurrentFactsSettingsKey = "1|en|science"
	})
	require.NoError(t, err)

	cleared, err := s.ClearHistory(ctx)
	require.NoError(t, err)
	assert.False(t, cleared.HasHistory())
	assert.Empty(t, cleared.CurrentErrorKey)
	assert.Empty(t, cleared.CurrentFactsSettingsKey)
	assert.Equal(t, []core.TopicKey{core.TopicScience}, cleared.SelectedTopics)
	assert.True(t, cleared.OnePerTopic)
}

func TestStore_ChangesStreamsUpdates(t *testing.T) {
	s := NewStore(memory.NewStateStore())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := s.Changes(ctx)

	_, err := s.Update(ctx, func(st *core.SessionState) { st.Language = core.LanguageHungarian })
	require.NoError(t, err)

	select {
	case st := <-changes:
		assert.Equal(t, core.LanguageHungarian, st.Language)
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestStore_ChangesKeepsLatestForSlowReader(t *testing.T) {
	s := NewStore(memory.NewStateStore())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := s.Changes(ctx)
	for _, lang := range []core.Language{core.LanguageGerman, core.LanguageUkrainian, core.LanguageHungarian} {
		_, err := s.Update(ctx, func(st *core.SessionState) { st.Language = lang })
		require.NoError(t, err)
	}

	st := <-changes
	assert.Equal(t, core.LanguageHungarian, st.Language)
}

func TestStore_ChangesClosedOnCancel(t *testing.T) {
	s := NewStore(memory.NewStateStore())
	ctx, cancel := context.WithCancel(context.Background())

	changes := s.Changes(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scienceJSON = `{"topic":"science","facts":{"03-14":[{"id":"science-0314-1","title":"Pi Day","description":"3.14"}]}}`

func TestFilePath(t *testing.T) {
	assert.Equal(t, "de/facts/world-events.json", FilePath(core.TopicWorldEvents, core.LanguageGerman))
	assert.Equal(t, "en/facts/music.json", FilePath(core.TopicMusic, ""))
}

func TestFSSource_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"en/facts/science.json": {Data: []byte(scienceJSON)},
		"en/facts/music.json":   {Data: []byte(`{"facts":{}}`)},
		"en/facts/sports.json":  {Data: []byte(`not json`)},
	}
	src := NewFSSource(fsys)
	ctx := context.Background()

	tests := []struct {
		name    string
		topic   core.TopicKey
		wantErr bool
		wantLen int
	}{
		{name: "valid", topic: core.TopicScience, wantLen: 1},
		{name: "topic_defaults_from_request", topic: core.TopicMusic, wantLen: 0},
		{name: "malformed", topic: core.TopicSports, wantErr: true},
		{name: "missing", topic: core.TopicHistory, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := src.Load(ctx, tt.topic, core.LanguageEnglish)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.topic, f.Topic)
			assert.Len(t, f.Facts, tt.wantLen)
		})
	}
}

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

func TestHTTPSource_Load(t *testing.T) {
	var hits atomic.Int32
	var flaky atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, core.AppUserAgent, r.Header.Get("User-Agent"))

		switch r.URL.Path {
		case "/pack/en/facts/science.json":
			fmt.Fprint(w, scienceJSON)
		case "/pack/en/facts/music.json":
			if flaky.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `{"facts":{"03-14":[{"id":"music-0314-1","title":"t","description":"d"}]}}`)
		case "/pack/en/facts/sports.json":
			fmt.Fprint(w, `{`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/pack/", WithRetrier(fastRetrier()))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		hits.Store(0)
		f, err := src.Load(ctx, core.TopicScience, core.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, "Pi Day", f.Facts["03-14"][0].Title)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("server_errors_are_retried", func(t *testing.T) {
		hits.Store(0)
		f, err := src.Load(ctx, core.TopicMusic, core.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, core.TopicMusic, f.Topic)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("not_found_is_permanent", func(t *testing.T) {
		hits.Store(0)
		_, err := src.Load(ctx, core.TopicHistory, core.LanguageGerman)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("malformed_is_permanent", func(t *testing.T) {
		hits.Store(0)
		_, err := src.Load(ctx, core.TopicSports, core.LanguageEnglish)
		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestNewHTTPSource_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPSource("ftp://example.com/pack")
	assert.Error(t, err)
}

func TestCatalog_WithHTTPSourceFallsBackToEnglish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/en/facts/science.json" {
			fmt.Fprint(w, scienceJSON)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, WithRetrier(fastRetrier()))
	require.NoError(t, err)

	f, _ := newTestCatalog(src).SampleRandom(context.Background(), core.CatalogQuery{
		Date:     march14,
		Topics:   []core.TopicKey{core.TopicScience},
		Language: core.LanguageUkrainian,
	})
	require.NotNil(t, f)
	assert.Equal(t, "science-0314-1", f.ID)
}

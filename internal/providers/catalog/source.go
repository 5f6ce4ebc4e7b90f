package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/retry"
)

var (
	_ core.ContentSource = (*FSSource)(nil)
	_ core.ContentSource = (*HTTPSource)(nil)
)

// FilePath is the location of a content file relative to a source root.
func FilePath(topic core.TopicKey, lang core.Language) string {
	return path.Join(string(lang.OrDefault()), "facts", string(topic)+".json")
}

func decode(r io.Reader, topic core.TopicKey) (*core.ContentFile, error) {
	var file core.ContentFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", topic, err)
	}
	if file.Topic == "" {
		file.Topic = topic
	}
	if file.Facts == nil {
		file.Facts = map[string][]core.FactEntry{}
	}
	return &file, nil
}

// FSSource reads content files from a file system: a directory via os.DirFS or the
// embedded default pack.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) Load(ctx context.Context, topic core.TopicKey, lang core.Language) (*core.ContentFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(FilePath(topic, lang))
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	return decode(f, topic)
}

// HTTPSource fetches content files from a static host, <base>/<lang>/facts/<topic>.json.
type HTTPSource struct {
	baseURL *url.URL
	client  *http.Client
	retrier *retry.Retrier
}

type HTTPOption func(*HTTPSource)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = c
	}
}

func WithRetrier(r *retry.Retrier) HTTPOption {
	return func(s *HTTPSource) {
		s.retrier = r
	}
}

func NewHTTPSource(baseURL string, opts ...HTTPOption) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse content url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported content url scheme %q", u.Scheme)
	}

	s := &HTTPSource{
		baseURL: u,
		client:  &http.Client{Timeout: 15 * time.Second},
		retrier: retry.NewDefaultRetrier(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Load(ctx context.Context, topic core.TopicKey, lang core.Language) (*core.ContentFile, error) {
	target := s.baseURL.JoinPath(FilePath(topic, lang)).String()

	var file *core.ContentFile
	err := s.retrier.Do(ctx, func() error {
		var err error
		file, err = s.fetch(ctx, target, topic)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *HTTPSource) fetch(ctx context.Context, target string, topic core.TopicKey) (*core.ContentFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", core.AppUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Permanent(err)
		}
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("get %s: status %d", target, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, retry.Permanent(fmt.Errorf("get %s: status %d", target, resp.StatusCode))
	}

	file, err := decode(io.LimitReader(resp.Body, 8<<20), topic)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	return file, nil
}

package widget

import (
	"context"
	"sync"

	"github.com/namgiho96/giho-blog/pkg/session"
)

// ViewCounter records the reader's view on load and shows the post's view count.
type ViewCounter struct {
	api      ViewAPI
	sessions session.Provider
	slug     string

	mu      sync.Mutex
	count   int64
	loading bool
}

func NewViewCounter(api ViewAPI, sessions session.Provider, slug string, initial int64) *ViewCounter {
	return &ViewCounter{api: api, sessions: sessions, slug: slug, count: initial, loading: true}
}

// Load submits the view once per session. Without a session id (server
// rendering) no request is made and the initial count stays.
func (v *ViewCounter) Load(ctx context.Context) error {
	defer func() {
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
	}()

	sessionID := v.sessions.GetOrCreateSessionID()
	if sessionID == "" {
		return nil
	}

	result, err := v.api.RecordView(ctx, v.slug, sessionID)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.count = result.ViewCount
	v.mu.Unlock()
	return nil
}

func (v *ViewCounter) Count() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count
}

func (v *ViewCounter) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// ApplyRemoteCount adopts a count pushed by the live feed.
func (v *ViewCounter) ApplyRemoteCount(count int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.count = count
}

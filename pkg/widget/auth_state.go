package widget

import (
	"context"
	"sync"

	"github.com/namgiho96/giho-blog/internal/models"
)

// AuthState is the page-wide observer of the signed-in reader, shared by widgets.
type AuthState struct {
	mu     sync.RWMutex
	user   *models.AuthUser
	loaded bool
	subs   map[int]func(*models.AuthUser)
	nextID int
}

func NewAuthState() *AuthState {
	return &AuthState{subs: make(map[int]func(*models.AuthUser))}
}

// Refresh loads the session from the API and publishes it to subscribers.
// On failure the reader is treated as anonymous.
func (a *AuthState) Refresh(ctx context.Context, api SessionAPI) error {
	user, err := api.Session(ctx)
	if err != nil {
		a.Set(nil)
		return err
	}
	a.Set(user)
	return nil
}

// Set replaces the current user and notifies subscribers.
func (a *AuthState) Set(user *models.AuthUser) {
	a.mu.Lock()
	a.user = user
	a.loaded = true
	subs := make([]func(*models.AuthUser), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}

// User returns the signed-in reader or nil.
func (a *AuthState) User() *models.AuthUser {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

// SignedIn reports whether a reader is signed in.
func (a *AuthState) SignedIn() bool {
	return a.User() != nil
}

// Loaded reports whether the session has been resolved at least once.
func (a *AuthState) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loaded
}

// Subscribe registers fn for session changes. Call the returned func to stop.
func (a *AuthState) Subscribe(fn func(*models.AuthUser)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

package widget

import (
	"context"
	"sync"

	"github.com/namgiho96/giho-blog/internal/models"
)

// LikeView is a render snapshot of a LikeButton.
type LikeView struct {
	Count   int64
	Liked   bool
	Phase   Phase
	Loading bool
	Error   string
}

// LikeButton tracks a post's like count and the reader's like.
// Rapid toggles are not queued: each one issues its own request.
type LikeButton struct {
	api  LikeAPI
	auth *AuthState
	slug string

	mu       sync.Mutex
	count    int64
	liked    bool
	phase    Phase
	inflight int
	errMsg   string
}

// NewLikeButton starts from server-rendered initial values.
func NewLikeButton(api LikeAPI, auth *AuthState, slug string, initial models.LikeState) *LikeButton {
	return &LikeButton{
		api:   api,
		auth:  auth,
		slug:  slug,
		count: initial.LikeCount,
		liked: initial.IsLiked,
	}
}

// View returns the current render state.
func (b *LikeButton) View() LikeView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return LikeView{
		Count:   b.count,
		Liked:   b.liked,
		Phase:   b.phase,
		Loading: b.inflight > 0,
		Error:   b.errMsg,
	}
}

// Load replaces local state with the server's. Failures keep the current values.
func (b *LikeButton) Load(ctx context.Context) error {
	state, err := b.api.LikeState(ctx, b.slug)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.count, b.liked = state.LikeCount, state.IsLiked
	b.mu.Unlock()
	return nil
}

// Toggle flips the like immediately, then confirms with the server's values or
// restores the values from before this toggle.
func (b *LikeButton) Toggle(ctx context.Context) error {
	if b.auth == nil || !b.auth.SignedIn() {
		b.mu.Lock()
		b.errMsg = MsgLoginRequired
		b.mu.Unlock()
		return ErrLoginRequired
	}

	b.mu.Lock()
	prevCount, prevLiked := b.count, b.liked
	if b.liked {
		b.count = max(b.count-1, 0)
	} else {
		b.count++
	}
	b.liked = !b.liked
	b.phase = PhaseOptimistic
	b.errMsg = ""
	b.inflight++
	b.mu.Unlock()

	state, err := b.api.ToggleLike(ctx, b.slug)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--
	if err != nil {
		b.count, b.liked = prevCount, prevLiked
		b.phase = PhaseRolledBack
		b.errMsg = MsgLikeFailed
		return &UserError{Message: MsgLikeFailed, Cause: err}
	}
	b.count, b.liked = state.LikeCount, state.IsLiked
	b.phase = PhaseConfirmed
	return nil
}

// ApplyRemoteCount adopts a count pushed by the live feed. It is ignored while a
// toggle is in flight so the pending reconciliation wins.
func (b *LikeButton) ApplyRemoteCount(count int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inflight > 0 {
		return
	}
	b.count = count
}

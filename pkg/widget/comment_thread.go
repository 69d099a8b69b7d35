package widget

import (
	"context"
	"slices"
	"sync"

	"github.com/namgiho96/giho-blog/internal/models"
)

// CommentThread is the comment list of one post with add, edit and delete.
// Edits and deletes are optimistic; adds wait for the server and then refresh.
type CommentThread struct {
	api  CommentAPI
	auth *AuthState
	slug string

	mu       sync.Mutex
	comments []models.Comment
	phase    Phase
	errMsg   string
}

func NewCommentThread(api CommentAPI, auth *AuthState, slug string) *CommentThread {
	return &CommentThread{api: api, auth: auth, slug: slug}
}

// Comments returns a copy of the displayed comments, newest first.
func (t *CommentThread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.comments)
}

func (t *CommentThread) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Error is the inline message of the last failed action, or "".
func (t *CommentThread) Error() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errMsg
}

// CanModify reports whether the signed-in reader owns c.
func (t *CommentThread) CanModify(c models.Comment) bool {
	user := t.currentUser()
	return user != nil && user.ID == c.UserID
}

func (t *CommentThread) currentUser() *models.AuthUser {
	if t.auth == nil {
		return nil
	}
	return t.auth.User()
}

func (t *CommentThread) fail(msg string, cause error) error {
	t.mu.Lock()
	t.errMsg = msg
	t.mu.Unlock()
	return &UserError{Message: msg, Cause: cause}
}

// Refresh reloads the list from the server.
func (t *CommentThread) Refresh(ctx context.Context) error {
	list, err := t.api.Comments(ctx, t.slug)
	if err != nil {
		return t.fail(MsgCommentsLoad, err)
	}
	t.mu.Lock()
	t.comments = list.Comments
	t.errMsg = ""
	t.mu.Unlock()
	return nil
}

// Add posts a new comment and refreshes the list on success.
func (t *CommentThread) Add(ctx context.Context, text string) error {
	content, err := validateContent(text)
	if err != nil {
		return t.fail(err.(*UserError).Message, nil)
	}
	if t.currentUser() == nil {
		return t.fail(MsgLoginRequired, nil)
	}

	if _, err := t.api.CreateComment(ctx, t.slug, content); err != nil {
		return t.fail(MsgCommentCreate, err)
	}
	return t.Refresh(ctx)
}

// Edit replaces a comment's content locally, then confirms or restores it.
func (t *CommentThread) Edit(ctx context.Context, id, text string) error {
	content, err := validateContent(text)
	if err != nil {
		return t.fail(err.(*UserError).Message, nil)
	}
	if t.currentUser() == nil {
		return t.fail(MsgLoginRequired, nil)
	}

	t.mu.Lock()
	idx := t.indexOf(id)
	if idx < 0 {
		t.mu.Unlock()
		return t.fail(MsgCommentNotLoaded, nil)
	}
	previous := t.comments[idx]
	t.comments[idx].Content = content
	t.phase = PhaseOptimistic
	t.errMsg = ""
	t.mu.Unlock()

	updated, err := t.api.UpdateComment(ctx, id, content)

	t.mu.Lock()
	defer t.mu.Unlock()
	idx = t.indexOf(id)
	if err != nil {
		if idx >= 0 {
			t.comments[idx] = previous
		}
		t.phase = PhaseRolledBack
		t.errMsg = MsgCommentUpdate
		return &UserError{Message: MsgCommentUpdate, Cause: err}
	}
	if idx >= 0 {
		t.comments[idx] = updated
	}
	t.phase = PhaseConfirmed
	return nil
}

// Delete removes a comment locally, then confirms or puts it back in place.
func (t *CommentThread) Delete(ctx context.Context, id string) error {
	if t.currentUser() == nil {
		return t.fail(MsgLoginRequired, nil)
	}

	t.mu.Lock()
	idx := t.indexOf(id)
	if idx < 0 {
		t.mu.Unlock()
		return t.fail(MsgCommentNotLoaded, nil)
	}
	removed := t.comments[idx]
	t.comments = slices.Delete(t.comments, idx, idx+1)
	t.phase = PhaseOptimistic
	t.errMsg = ""
	t.mu.Unlock()

	err := t.api.DeleteComment(ctx, id)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		pos := min(idx, len(t.comments))
		t.comments = slices.Insert(t.comments, pos, removed)
		t.phase = PhaseRolledBack
		t.errMsg = MsgCommentDelete
		return &UserError{Message: MsgCommentDelete, Cause: err}
	}
	t.phase = PhaseConfirmed
	return nil
}

// indexOf must be called with t.mu held.
func (t *CommentThread) indexOf(id string) int {
	return slices.IndexFunc(t.comments, func(c models.Comment) bool { return c.ID == id })
}

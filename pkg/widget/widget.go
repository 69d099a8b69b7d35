// Package widget holds the client-side state of the interaction widgets: a like
// button, a view counter and a comment thread. Mutations are applied to local
// state first and reconciled with the server response, or rolled back on failure.
package widget

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/namgiho96/giho-blog/internal/models"
)

// Inline messages shown to the reader.
const (
	MsgLoginRequired    = "로그인이 필요합니다"
	MsgContentRequired  = "댓글 내용을 입력해주세요"
	MsgLikeFailed       = "좋아요 처리에 실패했습니다"
	MsgCommentCreate    = "댓글 작성에 실패했습니다"
	MsgCommentUpdate    = "댓글 수정에 실패했습니다"
	MsgCommentDelete    = "댓글 삭제에 실패했습니다"
	MsgCommentsLoad     = "댓글을 불러오는데 실패했습니다"
	MsgCommentNotLoaded = "댓글을 찾을 수 없습니다"
)

// MsgContentTooLong is shown when a comment exceeds models.MaxCommentLength.
var MsgContentTooLong = fmt.Sprintf("댓글은 %d자 이내로 입력해주세요", models.MaxCommentLength)

// Phase is where a widget is in its optimistic update cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOptimistic
	PhaseConfirmed
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOptimistic:
		return "optimistic"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// UserError carries the localized message a widget displays inline.
type UserError struct {
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error { return e.Cause }

// ErrLoginRequired is returned, without any request, when an action needs a signed-in reader.
var ErrLoginRequired = &UserError{Message: MsgLoginRequired}

// LikeAPI is the part of the API client the like button uses.
type LikeAPI interface {
	LikeState(ctx context.Context, slug string) (models.LikeState, error)
	ToggleLike(ctx context.Context, slug string) (models.LikeState, error)
}

// ViewAPI is the part of the API client the view counter uses.
type ViewAPI interface {
	RecordView(ctx context.Context, slug, sessionID string) (models.ViewResult, error)
}

// CommentAPI is the part of the API client the comment thread uses.
type CommentAPI interface {
	Comments(ctx context.Context, slug string) (models.CommentList, error)
	CreateComment(ctx context.Context, slug, text string) (models.Comment, error)
	UpdateComment(ctx context.Context, id, text string) (models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// SessionAPI resolves the current reader.
type SessionAPI interface {
	Session(ctx context.Context) (*models.AuthUser, error)
}

// validateContent mirrors the server rules so obvious mistakes never leave the client.
func validateContent(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &UserError{Message: MsgContentRequired}
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return "", &UserError{Message: MsgContentTooLong}
	}
	return trimmed, nil
}

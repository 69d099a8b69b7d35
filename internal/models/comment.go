package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLength bounds comment content, counted in characters after trimming.
const MaxCommentLength = 1000

// CommentUser is the display identity attached to a comment.
type CommentUser struct {
	AvatarURL   *string `json:"avatar_url"`
	UserName    string  `json:"user_name"`
	DisplayName string  `json:"display_name"`
}

// Comment is a user comment on a post.
type Comment struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	PostSlug  string      `gorm:"size:255;not null;index:idx_comments_post_created,priority:1" json:"post_slug"`
	UserID    string      `gorm:"size:36;not null;index" json:"user_id"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time   `gorm:"index:idx_comments_post_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	User      CommentUser `gorm:"-" json:"user"`
}

// BeforeCreate assigns an id when the caller did not.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentList is the body of the comment listing endpoint.
type CommentList struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// CommentEnvelope wraps a single comment in responses.
type CommentEnvelope struct {
	Comment Comment `json:"comment"`
}

// PlaceholderIdentity derives the display identity used until profiles exist.
func PlaceholderIdentity(userID string) CommentUser {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return CommentUser{
		AvatarURL:   nil,
		UserName:    short,
		DisplayName: "User " + short,
	}
}

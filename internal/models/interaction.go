// Package models contains data structures for the blog's interaction domain.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStats holds the per-post interaction counters. Rows are created lazily
// the first time a post is viewed or liked.
type PostStats struct {
	Slug      string    `gorm:"primaryKey;size:255" json:"slug"`
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
	LikeCount int64     `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the counters in the posts table.
func (PostStats) TableName() string { return "posts" }

// View records that a browser session saw a post. At most one per (post, session).
type View struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostSlug  string    `gorm:"size:255;not null;uniqueIndex:idx_views_post_session" json:"post_slug"`
	SessionID string    `gorm:"size:128;not null;uniqueIndex:idx_views_post_session" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an id when the caller did not.
func (v *View) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Like records that a user liked a post. At most one per (post, user).
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostSlug  string    `gorm:"size:255;not null;uniqueIndex:idx_likes_post_user" json:"post_slug"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_post_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an id when the caller did not.
func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LikeState is the like view of a post as seen by one user.
type LikeState struct {
	LikeCount int64 `json:"likeCount"`
	IsLiked   bool  `json:"isLiked"`
}

// ViewResult is returned after recording a view.
type ViewResult struct {
	ViewCount int64 `json:"viewCount"`
	IsNewView bool  `json:"isNewView"`
}

// ViewCount is returned by the read-only view endpoint.
type ViewCount struct {
	ViewCount int64 `json:"viewCount"`
}

// SuccessResponse is the body of mutations that return nothing else.
type SuccessResponse struct {
	Success bool `json:"success"`
}

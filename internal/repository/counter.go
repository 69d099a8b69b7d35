package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counter columns on the posts table.
const (
	columnViewCount = "view_count"
	columnLikeCount = "like_count"
)

// CounterRepository stores per-post view and like counters together with the
// view and like records that back them.
type CounterRepository interface {
	GetStats(ctx context.Context, slug string) (*models.PostStats, error)
	HasLiked(ctx context.Context, slug, userID string) (bool, error)
	// ToggleLike flips the user's like and returns the new count and state.
	ToggleLike(ctx context.Context, slug, userID string) (models.LikeState, error)
	// RecordView stores the view once per session key and returns the current count.
	RecordView(ctx context.Context, slug, sessionKey string) (models.ViewResult, error)
}

// counterRepository reads and writes the primary only, so a count read right
// after a write always reflects it.
type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new CounterRepository.
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) GetStats(ctx context.Context, slug string) (*models.PostStats, error) {
	defer observability.TrackQuery("get_stats", "posts")()
	return loadStats(r.db.WithContext(ctx), slug)
}

func (r *counterRepository) HasLiked(ctx context.Context, slug, userID string) (bool, error) {
	defer observability.TrackQuery("has_liked", "likes")()
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_slug = ? AND user_id = ?", slug, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *counterRepository) ToggleLike(ctx context.Context, slug, userID string) (models.LikeState, error) {
	defer observability.TrackQuery("toggle_like", "likes")()

	var state models.LikeState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := tx.Exec(`DELETE FROM likes WHERE post_slug = ? AND user_id = ?`, slug, userID)
		if removed.Error != nil {
			return fmt.Errorf("remove like: %w", removed.Error)
		}

		if removed.RowsAffected > 0 {
			if err := bumpCounter(tx, slug, columnLikeCount, -1); err != nil {
				return err
			}
			state.IsLiked = false
		} else {
			// A concurrent toggle may have inserted the row first; either way the user now likes the post.
			inserted := tx.Exec(
				`INSERT INTO likes (id, post_slug, user_id, created_at)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT (post_slug, user_id) DO NOTHING`,
				uuid.NewString(), slug, userID, time.Now().UTC(),
			)
			if inserted.Error != nil {
				return fmt.Errorf("insert like: %w", inserted.Error)
			}
			if inserted.RowsAffected > 0 {
				if err := bumpCounter(tx, slug, columnLikeCount, 1); err != nil {
					return err
				}
			}
			state.IsLiked = true
		}

		stats, err := loadStats(tx, slug)
		if err != nil {
			return err
		}
		state.LikeCount = stats.LikeCount
		return nil
	})
	if err != nil {
		return models.LikeState{}, err
	}
	return state, nil
}

func (r *counterRepository) RecordView(ctx context.Context, slug, sessionKey string) (models.ViewResult, error) {
	defer observability.TrackQuery("record_view", "views")()

	var result models.ViewResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted := tx.Exec(
			`INSERT INTO views (id, post_slug, session_id, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (post_slug, session_id) DO NOTHING`,
			uuid.NewString(), slug, sessionKey, time.Now().UTC(),
		)
		if inserted.Error != nil {
			return fmt.Errorf("insert view: %w", inserted.Error)
		}

		result.IsNewView = inserted.RowsAffected > 0
		if result.IsNewView {
			if err := bumpCounter(tx, slug, columnViewCount, 1); err != nil {
				return err
			}
		}

		stats, err := loadStats(tx, slug)
		if err != nil {
			return err
		}
		result.ViewCount = stats.ViewCount
		return nil
	})
	if err != nil {
		return models.ViewResult{}, err
	}
	return result, nil
}

// bumpCounter adds delta to column, creating the posts row on first use.
// The counter never drops below zero.
func bumpCounter(tx *gorm.DB, slug, column string, delta int64) error {
	if column != columnViewCount && column != columnLikeCount {
		return fmt.Errorf("unknown counter column %q", column)
	}

	initial := delta
	if initial < 0 {
		initial = 0
	}
	var views, likes int64
	if column == columnViewCount {
		views = initial
	} else {
		likes = initial
	}

	now := time.Now().UTC()
	sql := fmt.Sprintf(
		`INSERT INTO posts (slug, view_count, like_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (slug) DO UPDATE SET
		   %[1]s = CASE WHEN posts.%[1]s + ? < 0 THEN 0 ELSE posts.%[1]s + ? END,
		   updated_at = ?`,
		column,
	)
	if err := tx.Exec(sql, slug, views, likes, now, now, delta, delta, now).Error; err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return nil
}

// loadStats returns the counters for slug. Posts never interacted with read as zero.
func loadStats(db *gorm.DB, slug string) (*models.PostStats, error) {
	var stats []models.PostStats
	if err := db.Where("slug = ?", slug).Limit(1).Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if len(stats) == 0 {
		return &models.PostStats{Slug: slug}, nil
	}
	return &stats[0], nil
}

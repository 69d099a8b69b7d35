package repository

import (
	"context"
	"errors"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// GetByID returns nil, nil when the comment does not exist.
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, slug string) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	db      *gorm.DB
	replica *gorm.DB
}

// NewCommentRepository creates a new CommentRepository. replica may be nil.
func NewCommentRepository(db, replica *gorm.DB) CommentRepository {
	return &commentRepository{db: db, replica: replica}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	defer observability.TrackQuery("get", "comments")()
	var comment models.Comment
	// Ownership checks read from the primary so a just-created comment is visible.
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, slug string) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", "comments")()
	var comments []*models.Comment
	err := readDB(r.db, r.replica).WithContext(ctx).
		Where("post_slug = ?", slug).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("update", "comments")()
	return r.db.WithContext(ctx).
		Model(comment).
		Select("content", "updated_at").
		Updates(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete", "comments")()
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}

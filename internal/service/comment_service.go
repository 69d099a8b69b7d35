package service

import (
	"context"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/observability"
	"github.com/namgiho96/giho-blog/internal/repository"
)

// CommentService is the database-backed CommentStore. Ownership is enforced here,
// never assumed from the data layer.
type CommentService struct {
	commentRepo repository.CommentRepository
	now         func() time.Time
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		now:         time.Now,
	}
}

func (s *CommentService) List(ctx context.Context, slug string) (list models.CommentList, err error) {
	ctx, span := observability.StartStoreSpan(ctx, "comments", "list", slug)
	defer func() { observability.EndSpan(span, err) }()

	comments, err := s.commentRepo.ListByPost(ctx, slug)
	if err != nil {
		return models.CommentList{}, models.NewStoreError("Failed to fetch comments", err)
	}

	list.Comments = make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		list.Comments = append(list.Comments, withIdentity(*c))
	}
	list.Total = len(list.Comments)
	return list, nil
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (_ *models.Comment, err error) {
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, models.NewAuthenticationRequiredError()
	}

	ctx, span := observability.StartStoreSpan(ctx, "comments", "create", in.PostSlug)
	defer func() { observability.EndSpan(span, err) }()

	now := s.now().UTC()
	comment := &models.Comment{
		PostSlug:  in.PostSlug,
		UserID:    in.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewStoreError("Failed to create comment", err)
	}

	observability.CommentMutations.WithLabelValues("create").Inc()
	created := withIdentity(*comment)
	return &created, nil
}

func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (_ *models.Comment, err error) {
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.ownedComment(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartStoreSpan(ctx, "comments", "update", comment.PostSlug)
	defer func() { observability.EndSpan(span, err) }()

	comment.Content = content
	comment.UpdatedAt = s.now().UTC()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewStoreError("Failed to update comment", err)
	}

	observability.CommentMutations.WithLabelValues("update").Inc()
	updated := withIdentity(*comment)
	return &updated, nil
}

func (s *CommentService) Delete(ctx context.Context, in DeleteCommentInput) (_ *models.Comment, err error) {
	comment, err := s.ownedComment(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartStoreSpan(ctx, "comments", "delete", comment.PostSlug)
	defer func() { observability.EndSpan(span, err) }()

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, models.NewStoreError("Failed to delete comment", err)
	}

	observability.CommentMutations.WithLabelValues("delete").Inc()
	deleted := withIdentity(*comment)
	return &deleted, nil
}

// ownedComment checks, in order: authentication, existence, ownership.
func (s *CommentService) ownedComment(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	if userID == "" {
		return nil, models.NewAuthenticationRequiredError()
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment")
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError()
	}
	return comment, nil
}

func withIdentity(c models.Comment) models.Comment {
	c.User = models.PlaceholderIdentity(c.UserID)
	return c
}

package server

import (
	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/notifications"
	"github.com/namgiho96/giho-blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// ListComments handles GET /api/posts/:slug/comments
// @Summary List comments
// @Description Comments of a post, newest first
// @Tags comments
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.CommentList
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{slug}/comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	list, err := s.stores.Comments.List(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "failed to list comments")
	}
	return c.JSON(list)
}

// CreateComment handles POST /api/posts/:slug/comments
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param request body object{content=string} true "Comment body"
// @Success 200 {object} models.CommentEnvelope
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/{slug}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	slug := c.Params("slug")
	created, err := s.stores.Comments.Create(c.UserContext(), service.CreateCommentInput{
		PostSlug: slug,
		UserID:   middleware.CurrentUserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err, "failed to create comment")
	}

	s.publishPostEvent(c.UserContext(), notifications.EventCommentCreated, slug, fiber.Map{
		"comment": created,
	})
	return c.JSON(models.CommentEnvelope{Comment: *created})
}

// UpdateComment handles PATCH /api/comments/:id
// @Summary Edit comment
// @Description Only the author may edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Comment id"
// @Param request body object{content=string} true "New body"
// @Success 200 {object} models.CommentEnvelope
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [patch]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	updated, err := s.stores.Comments.Update(c.UserContext(), service.UpdateCommentInput{
		CommentID: c.Params("id"),
		UserID:    middleware.CurrentUserID(c),
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err, "failed to update comment")
	}

	s.publishPostEvent(c.UserContext(), notifications.EventCommentUpdated, updated.PostSlug, fiber.Map{
		"comment": updated,
	})
	return c.JSON(models.CommentEnvelope{Comment: *updated})
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Param id path string true "Comment id"
// @Success 200 {object} models.SuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	removed, err := s.stores.Comments.Delete(c.UserContext(), service.DeleteCommentInput{
		CommentID: c.Params("id"),
		UserID:    middleware.CurrentUserID(c),
	})
	if err != nil {
		return respondError(c, err, "failed to delete comment")
	}

	if removed != nil {
		s.publishPostEvent(c.UserContext(), notifications.EventCommentDeleted, removed.PostSlug, fiber.Map{
			"id": removed.ID,
		})
	}
	return c.JSON(models.SuccessResponse{Success: true})
}

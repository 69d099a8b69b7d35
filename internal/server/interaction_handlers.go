package server

import (
	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// GetLikes handles GET /api/posts/:slug/likes
// @Summary Like state
// @Description Like count of a post and whether the signed-in caller liked it
// @Tags interactions
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.LikeState
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{slug}/likes [get]
func (s *Server) GetLikes(c *fiber.Ctx) error {
	state, err := s.stores.Counters.GetLikeState(c.UserContext(), c.Params("slug"), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err, "failed to load like state")
	}
	return c.JSON(state)
}

// ToggleLike handles POST /api/posts/:slug/likes
// @Summary Toggle like
// @Description Likes the post, or removes the caller's like if present
// @Tags interactions
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.LikeState
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{slug}/likes [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	slug := c.Params("slug")
	state, err := s.stores.Counters.ToggleLike(c.UserContext(), slug, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err, "failed to toggle like")
	}

	s.publishPostEvent(c.UserContext(), notifications.EventLikeToggled, slug, fiber.Map{
		"likeCount": state.LikeCount,
	})
	return c.JSON(state)
}

// GetViews handles GET /api/posts/:slug/views
// @Summary View count
// @Tags interactions
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.ViewCount
// @Router /posts/{slug}/views [get]
func (s *Server) GetViews(c *fiber.Ctx) error {
	count, err := s.stores.Counters.GetViewCount(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "failed to load view count")
	}
	return c.JSON(count)
}

// RecordView handles POST /api/posts/:slug/views
// @Summary Record view
// @Description Counts one view per session id and post
// @Tags interactions
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param request body object{sessionId=string} true "Viewer session"
// @Success 200 {object} models.ViewResult
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/{slug}/views [post]
func (s *Server) RecordView(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	slug := c.Params("slug")
	result, err := s.stores.Counters.RecordView(c.UserContext(), slug, req.SessionID)
	if err != nil {
		return respondError(c, err, "failed to record view")
	}

	if result.IsNewView {
		s.publishPostEvent(c.UserContext(), notifications.EventViewRecorded, slug, fiber.Map{
			"viewCount": result.ViewCount,
		})
	}
	return c.JSON(result)
}

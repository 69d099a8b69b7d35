package server

import (
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /api/posts
// @Summary Post catalog
// @Description Metadata of every post, newest first
// @Tags posts
// @Produce json
// @Success 200 {object} object{posts=[]content.PostMeta,total=int}
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts := s.library.All()
	return c.JSON(fiber.Map{
		"posts": posts,
		"total": len(posts),
	})
}

// GetPost handles GET /api/posts/:slug
// @Summary Post
// @Description Front matter and raw markup body of one post
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} content.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, ok := s.library.Get(c.Params("slug"))
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}
	return c.JSON(post)
}

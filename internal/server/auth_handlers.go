package server

import (
	"time"

	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	stateCookie = "oauth_state"
	nextCookie  = "oauth_next"
	stateTTL    = 10 * time.Minute
)

// GetSession handles GET /api/auth/session
// @Summary Current session
// @Description The signed-in user, or null for anonymous visitors
// @Tags auth
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Router /auth/session [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	return c.JSON(models.SessionResponse{User: middleware.CurrentUser(c)})
}

// Login starts the GitHub sign-in flow. The CSRF state and the page to return
// to are kept in short-lived cookies until the callback.
func (s *Server) Login(c *fiber.Ctx) error {
	if s.oauth == nil {
		middleware.Logger.WarnContext(c.UserContext(), "login requested but GitHub sign-in is not configured")
		return c.Redirect(s.siteURL("/"), fiber.StatusFound)
	}

	state := uuid.NewString()
	s.setFlowCookie(c, stateCookie, state)
	s.setFlowCookie(c, nextCookie, safeRedirectPath(c.Query("next")))

	return c.Redirect(s.oauth.AuthCodeURL(state), fiber.StatusFound)
}

// AuthCallback completes the code exchange, sets the session cookie and sends the
// visitor back to the page they came from. Every failure lands on the home page.
func (s *Server) AuthCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()
	home := s.siteURL("/")

	code := c.Query("code")
	if code == "" {
		return c.Redirect(home, fiber.StatusFound)
	}
	if s.oauth == nil {
		middleware.Logger.WarnContext(ctx, "auth callback received but GitHub sign-in is not configured")
		return c.Redirect(home, fiber.StatusFound)
	}

	expected := c.Cookies(stateCookie)
	s.clearCookie(c, stateCookie)
	if expected == "" || c.Query("state") != expected {
		middleware.Logger.WarnContext(ctx, "auth callback state mismatch")
		return c.Redirect(home, fiber.StatusFound)
	}

	next := c.Query("next")
	if next == "" {
		next = c.Cookies(nextCookie)
	}
	s.clearCookie(c, nextCookie)

	user, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "github code exchange failed", "error", err)
		return c.Redirect(home, fiber.StatusFound)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to issue session token", "error", err)
		return c.Redirect(home, fiber.StatusFound)
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.issuer.TTL()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	middleware.Logger.InfoContext(ctx, "user signed in", "user_id", user.ID, "provider", user.Provider)

	return c.Redirect(s.siteURL(safeRedirectPath(next)), fiber.StatusFound)
}

// Logout handles POST /auth/logout
// @Summary Sign out
// @Description Revokes the session token and clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	token := middleware.ExtractToken(c, s.config.SessionCookieName)
	if token != "" {
		if err := s.authenticator.Revoke(c.UserContext(), token); err != nil {
			return respondError(c, models.NewInternalError(err), "failed to revoke session")
		}
	}
	s.clearCookie(c, s.config.SessionCookieName)
	return c.JSON(models.SuccessResponse{Success: true})
}

func (s *Server) siteURL(path string) string {
	return s.config.SiteURL + path
}

func (s *Server) setFlowCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth",
		Expires:  time.Now().Add(stateTTL),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearCookie(c *fiber.Ctx, name string) {
	path := "/auth"
	if name == s.config.SessionCookieName {
		path = "/"
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

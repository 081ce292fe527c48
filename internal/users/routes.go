package users

import (
	"blog-platform/internal/guard"
	"blog-platform/internal/identity"
	appmw "blog-platform/internal/middleware"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the auth service under the path prefix the gateway
// forwards verbatim.
func RegisterRoutes(e *echo.Echo, h *Handler, tokens *identity.TokenService, engine *policy.Engine) {
	g := e.Group("/api/auth")
	g.Use(guard.Authenticate(tokens))
	g.Use(appmw.NewGlobalRateLimiter().Middleware())

	strict := appmw.NewStrictRateLimiter()
	g.POST("/register", h.Register, strict.Middleware())
	g.POST("/login", h.Login, strict.Middleware())

	g.GET("/info", h.Info, guard.RequireAuthenticated())

	self := g.Group("/users/:id",
		guard.RequireAuthenticated(),
		guard.RequireOwner(engine, repository.ResourceUser, policy.RoleUser, msgUsersInteract),
	)
	self.PUT("", h.Update)
	self.DELETE("", h.Delete)
	self.POST("/saved-articles", h.ToggleSavedArticle)
	self.POST("/upvoted-articles", h.ToggleUpvotedArticle)
	self.POST("/articles-history", h.AppendArticleHistory)
	self.POST("/saved-posts", h.ToggleSavedPost)
	self.POST("/upvoted-posts", h.ToggleUpvotedPost)
	self.POST("/posts-history", h.AppendPostHistory)
}

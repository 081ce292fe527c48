package comments

import (
	"blog-platform/internal/guard"
	"blog-platform/internal/identity"
	appmw "blog-platform/internal/middleware"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the comments service under the path prefix the
// gateway forwards verbatim. Updates and deletes are scoped to the comment's
// author; there is no ungated mutation path.
func RegisterRoutes(e *echo.Echo, h *Handler, tokens *identity.TokenService, engine *policy.Engine) {
	g := e.Group("/api/comments")
	g.Use(guard.Authenticate(tokens))
	g.Use(appmw.NewGlobalRateLimiter().Middleware())

	g.GET("", h.List)
	g.GET("/author/:author", h.ListByAuthor)

	g.GET("/admin/all", h.AdminList, guard.RequireAdmin(msgAdminRead))
	g.PUT("/admin/:id", h.AdminUpdate, guard.RequireAdmin(msgAdminUpdate))

	g.GET("/:id", h.Get)

	g.POST("", h.Create, guard.RequireRole(policy.RoleUser, msgUserInteract))

	owned := []echo.MiddlewareFunc{
		guard.RequireAuthenticated(),
		guard.RequireOwner(engine, repository.ResourceComment, policy.RoleUser, msgUserInteract),
	}
	g.PUT("/:id", h.Update, owned...)
	g.DELETE("/:id", h.Delete, owned...)
}

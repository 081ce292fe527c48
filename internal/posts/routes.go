package posts

import (
	"blog-platform/internal/guard"
	"blog-platform/internal/identity"
	appmw "blog-platform/internal/middleware"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the posts service under the path prefix the gateway
// forwards verbatim. Any connected user can publish; mutations on an existing
// post are scoped to its author.
func RegisterRoutes(e *echo.Echo, h *Handler, tokens *identity.TokenService, engine *policy.Engine) {
	g := e.Group("/api/posts")
	g.Use(guard.Authenticate(tokens))
	g.Use(appmw.NewGlobalRateLimiter().Middleware())

	g.GET("", h.List)
	g.GET("/author/:author", h.ListByAuthor)
	g.GET("/keyword/:keyword", h.ListByKeyword)
	g.GET("/category/:category", h.ListByCategory)

	g.GET("/admin/all", h.AdminList, guard.RequireAdmin(msgAdminRead))
	g.PUT("/admin/:id", h.AdminUpdate, guard.RequireAdmin(msgAdminUpdate))

	g.GET("/:id", h.Get)
	g.GET("/:id/media/:file", h.MediaDownloadURL)

	g.POST("", h.Create, guard.RequireRole(policy.RoleUser, msgUserInteract))

	owned := []echo.MiddlewareFunc{
		guard.RequireAuthenticated(),
		guard.RequireOwner(engine, repository.ResourcePost, policy.RoleUser, msgUserInteract),
	}
	g.PUT("/:id", h.Update, owned...)
	g.DELETE("/:id", h.Delete, owned...)
	g.POST("/:id/media", h.MediaUploadURL, owned...)
}

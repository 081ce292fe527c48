package articles

import (
	"blog-platform/internal/guard"
	"blog-platform/internal/identity"
	appmw "blog-platform/internal/middleware"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the articles service under the path prefix the
// gateway forwards verbatim. Reads are public; writes are admin-gated except
// the ownership-scoped update.
func RegisterRoutes(e *echo.Echo, h *Handler, tokens *identity.TokenService, engine *policy.Engine) {
	g := e.Group("/api/articles")
	g.Use(guard.Authenticate(tokens))
	g.Use(appmw.NewGlobalRateLimiter().Middleware())

	g.GET("", h.List)
	g.GET("/keyword/:keyword", h.ListByKeyword)
	g.GET("/category/:category", h.ListByCategory)

	g.GET("/admin/all", h.AdminList, guard.RequireAdmin(msgAdminRead))
	g.PUT("/admin/:id", h.AdminUpdate, guard.RequireAdmin(msgAdminUpdate))

	g.GET("/:id", h.Get)
	g.GET("/:id/media/:file", h.MediaDownloadURL)

	g.POST("", h.Create, guard.RequireRole(policy.RoleAdmin, msgCreateDelete))
	g.DELETE("/:id", h.Delete, guard.RequireRole(policy.RoleAdmin, msgCreateDelete))

	owned := []echo.MiddlewareFunc{
		guard.RequireAuthenticated(),
		guard.RequireOwner(engine, repository.ResourceArticle, policy.RoleUser, msgUserInteract),
	}
	g.PUT("/:id", h.Update, owned...)
	g.POST("/:id/media", h.MediaUploadURL, owned...)
}

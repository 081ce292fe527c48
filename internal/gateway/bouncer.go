package gateway

import (
	"net/http"

	"blog-platform/internal/identity"
	"blog-platform/internal/policy"

	"github.com/labstack/echo/v4"
)

// msgRoleCheckFailed is the catch-all for any failure while establishing the
// caller's role. Kept deliberately vague: the gateway does not tell a probing
// client whether its credential was bad or the auth service was down.
const msgRoleCheckFailed = "Something went wrong while checking the user's role."

// Bouncer enforces the gateway policy table in front of the content
// services. It resolves the caller's role against the auth service, matches
// the request against the table and denies before anything is proxied.
type Bouncer struct {
	resolver *identity.RoleResolver
	table    *policy.Table
	engine   *policy.Engine
}

func NewBouncer(resolver *identity.RoleResolver) *Bouncer {
	return &Bouncer{
		resolver: resolver,
		table:    policy.GatewayTable(),
		engine:   policy.NewEngine(nil),
	}
}

// Middleware guards one resource family. Public reads pass without touching
// the auth service; everything else resolves the caller first. A credential
// that cannot be verified, for whatever reason, is denied outright rather
// than demoted to guest.
func (b *Bouncer) Middleware(family string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			rule, ok := b.table.Match(family, req.Method, req.URL.Path)
			if !ok {
				return next(c)
			}

			caller := policy.Guest()
			if rule.MinRole != policy.RoleGuest || rule.AdminOnly {
				resolved, err := b.resolver.Resolve(req.Context(), req.Header.Get("Authorization"))
				if err != nil {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": msgRoleCheckFailed})
				}
				caller = resolved
			}

			verdict := b.engine.Evaluate(req.Context(), rule, caller, nil)
			if !verdict.Allowed {
				return c.JSON(verdict.Status, map[string]string{"error": verdict.Message})
			}

			return next(c)
		}
	}
}

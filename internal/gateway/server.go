package gateway

import (
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
	appmw "blog-platform/internal/middleware"
	"blog-platform/internal/policy"
)

// Targets holds the upstream base URLs the gateway proxies to.
type Targets struct {
	Auth     string
	Articles string
	Posts    string
	Comments string
}

// Server is the public edge of the platform. It terminates CORS, rate
// limits by client IP, runs the bouncer in front of the content services
// and forwards everything else verbatim.
type Server struct {
	*httpserver.Server
}

func New(port string, corsOrigins []string, resolver *identity.RoleResolver, targets Targets) (*Server, error) {
	srv := httpserver.New(port, corsOrigins)
	e := srv.Echo

	e.Use(appmw.NewGlobalRateLimiter().Middleware())

	bouncer := NewBouncer(resolver)

	authProxy, err := newProxyHandler(targets.Auth)
	if err != nil {
		return nil, err
	}
	articlesProxy, err := newProxyHandler(targets.Articles)
	if err != nil {
		return nil, err
	}
	postsProxy, err := newProxyHandler(targets.Posts)
	if err != nil {
		return nil, err
	}
	commentsProxy, err := newProxyHandler(targets.Comments)
	if err != nil {
		return nil, err
	}

	// The auth service guards its own routes; the bouncer never sits in
	// front of it.
	e.Any("/api/auth*", authProxy)

	e.Any("/api/articles*", articlesProxy, bouncer.Middleware(policy.FamilyArticles))
	e.Any("/api/posts*", postsProxy, bouncer.Middleware(policy.FamilyPosts))
	e.Any("/api/comments*", commentsProxy, bouncer.Middleware(policy.FamilyComments))

	return &Server{Server: srv}, nil
}

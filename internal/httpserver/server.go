package httpserver

import (
	"context"
	"net/http"

	appmw "blog-platform/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const bodyLimit = "2M"

// Server is the shared echo assembly used by every service binary. Route
// registration stays with each service; the ambient middleware chain and the
// error contract are identical across the platform.
type Server struct {
	Echo *echo.Echo
	port string
}

func New(port string, corsOrigins []string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(appmw.RequestID())
	e.Use(appmw.SecurityHeaders())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(bodyLimit))

	corsConfig := echomw.DefaultCORSConfig
	if len(corsOrigins) > 0 {
		corsConfig.AllowOrigins = corsOrigins
	}
	corsConfig.AllowHeaders = []string{
		echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
	}
	corsConfig.AllowMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}
	e.Use(echomw.CORSWithConfig(corsConfig))

	return &Server{Echo: e, port: port}
}

func (s *Server) Start() error {
	return s.Echo.Start(":" + s.port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

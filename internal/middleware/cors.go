package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sola-scriptura-reader-api/internal/config"
)

// CORSMiddleware allows the configured origins to read the API. ETag and
// X-Request-ID are exposed so browser clients can revalidate and report IDs.
func CORSMiddleware() echo.MiddlewareFunc {
	return corsWithOrigins(config.GetConfig().CORSOrigins)
}

func corsWithOrigins(origins []string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, "If-None-Match", echo.HeaderXRequestID},
		ExposeHeaders: []string{"ETag", echo.HeaderXRequestID},
		MaxAge:        3600,
	})
}

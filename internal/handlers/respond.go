package handlers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sola-scriptura-reader-api/internal/repository"
	"github.com/zeebo/blake3"
)

// respondJSON writes v as JSON with a content-derived ETag. Identical results
// produce identical bodies, so a matching If-None-Match yields 304.
func respondJSON(c echo.Context, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to encode response")
	}

	sum := blake3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	c.Response().Header().Set("ETag", etag)

	if status == http.StatusOK && etagMatches(c.Request().Header.Get("If-None-Match"), etag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(status, echo.MIMEApplicationJSON, body)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

// storeError maps store failures to HTTP errors
func storeError(err error) error {
	var nf *repository.NotFoundError
	switch {
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	case repository.IsUnavailable(err):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal error")
	}
}

// queryString returns a required query parameter. Present-but-empty is allowed.
func queryString(c echo.Context, name string) (string, error) {
	values, ok := c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	return values[0], nil
}

// queryInt returns a required integer query parameter
func queryInt(c echo.Context, name string) (int, error) {
	raw, err := queryString(c, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

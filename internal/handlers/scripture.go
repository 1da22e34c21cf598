package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sola-scriptura-reader-api/internal/compat"
	applog "github.com/sola-scriptura-reader-api/internal/log"
	"github.com/sola-scriptura-reader-api/internal/models"
	"github.com/sola-scriptura-reader-api/internal/services"
)

// ScriptureHandler handles browse, lookup and search endpoints
type ScriptureHandler struct {
	scripture *services.ScriptureService
	logger    *slog.Logger
}

// NewScriptureHandler creates a new scripture handler
func NewScriptureHandler(scripture *services.ScriptureService, logger *slog.Logger) *ScriptureHandler {
	return &ScriptureHandler{
		scripture: scripture,
		logger:    logger.With(slog.String("component", "handlers")),
	}
}

// ListBooks handles GET /books
func (h *ScriptureHandler) ListBooks(c echo.Context) error {
	books, err := h.scripture.ListBooks(c.Request().Context())
	if err != nil {
		return storeError(err)
	}
	return respondJSON(c, http.StatusOK, books)
}

// ListChapters handles GET /chapters?book=
func (h *ScriptureHandler) ListChapters(c echo.Context) error {
	book, err := queryString(c, "book")
	if err != nil {
		return err
	}

	chapters, err := h.scripture.ListChapters(c.Request().Context(), book)
	if err != nil {
		return storeError(err)
	}
	return respondJSON(c, http.StatusOK, chapters)
}

// ListVerses handles GET /verses?book=&chapter=
func (h *ScriptureHandler) ListVerses(c echo.Context) error {
	book, err := queryString(c, "book")
	if err != nil {
		return err
	}
	chapter, err := queryInt(c, "chapter")
	if err != nil {
		return err
	}

	verses, err := h.scripture.ListVerses(c.Request().Context(), book, chapter)
	if err != nil {
		return storeError(err)
	}
	return respondJSON(c, http.StatusOK, verses)
}

// GetVerse handles GET /verse?book=&chapter=&verse=
func (h *ScriptureHandler) GetVerse(c echo.Context) error {
	book, err := queryString(c, "book")
	if err != nil {
		return err
	}
	chapter, err := queryInt(c, "chapter")
	if err != nil {
		return err
	}
	verse, err := queryInt(c, "verse")
	if err != nil {
		return err
	}

	text, err := h.scripture.GetVerseText(c.Request().Context(), book, chapter, verse)
	if err != nil {
		return storeError(err)
	}
	return respondJSON(c, http.StatusOK, models.VerseTextResponse{Text: text})
}

// FullBook handles GET /books/:book/all
func (h *ScriptureHandler) FullBook(c echo.Context) error {
	// echo routes on RawPath when the request carries one, leaving params escaped.
	book := c.Param("book")
	if c.Request().URL.RawPath != "" {
		unescaped, err := url.PathUnescape(book)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Malformed book name")
		}
		book = unescaped
	}

	chapters, err := h.scripture.GetFullBook(c.Request().Context(), book)
	if err != nil {
		return storeError(err)
	}
	if len(chapters) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No such book: %s", book))
	}
	return respondJSON(c, http.StatusOK, chapters)
}

// Search handles GET /search?keyword= - case-insensitive substring search over verse text.
// An empty keyword matches every verse.
func (h *ScriptureHandler) Search(c echo.Context) error {
	keyword, err := queryString(c, "keyword")
	if err != nil {
		return err
	}

	results, err := h.scripture.SearchVerses(c.Request().Context(), keyword)
	if err != nil {
		return storeError(err)
	}
	return respondJSON(c, http.StatusOK, results)
}

// NormalizeRows handles POST /compat/search-rows. It accepts search rows in the
// legacy positional shapes and returns canonical records; malformed rows are
// logged and skipped.
func (h *ScriptureHandler) NormalizeRows(c echo.Context) error {
	var raw []json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Body must be a JSON array of rows")
	}

	// A non-array element stays in place as an empty row, so logged indices
	// match positions in the request body.
	rows := make([][]any, len(raw))
	for i, r := range raw {
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		var row []any
		if err := dec.Decode(&row); err == nil {
			rows[i] = row
		}
	}

	results, skipped := compat.NormalizeRows(applog.WithOperation(h.logger, "normalize_rows"), rows)
	return respondJSON(c, http.StatusOK, models.NormalizeRowsResponse{
		Results: results,
		Skipped: skipped,
	})
}

// RegisterRoutes registers scripture routes
func (h *ScriptureHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/books", h.ListBooks)
	g.GET("/books/:book/all", h.FullBook)
	g.GET("/chapters", h.ListChapters)
	g.GET("/verses", h.ListVerses)
	g.GET("/verse", h.GetVerse)
	g.GET("/search", h.Search)
	g.POST("/compat/search-rows", h.NormalizeRows)
}

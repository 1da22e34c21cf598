// Package compat decodes verse rows produced by older callers, which emit
// either (book, chapter, verse, text) or (id, book, chapter, verse, text).
// The Store itself only ever emits the four-field shape.
package compat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/sola-scriptura-reader-api/internal/models"
)

// Recognized row widths.
const (
	ShapeCanonical = 4 // book, chapter, verse, text
	ShapeWithID    = 5 // id, book, chapter, verse, text
)

// ErrMalformedRow indicates a row whose shape or field types are not recognized
var ErrMalformedRow = errors.New("malformed row")

// MalformedRowError describes why a row was rejected
type MalformedRowError struct {
	Len    int
	Field  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed row (%d fields): %s: %s", e.Len, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed row (%d fields): %s", e.Len, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// DecodeRow converts a positional row into a canonical verse.
// Only the 4-field and 5-field shapes are accepted; anything else is rejected
// without guessing at field order.
func DecodeRow(row []any) (models.Verse, error) {
	var fields []any
	switch len(row) {
	case ShapeCanonical:
		fields = row
	case ShapeWithID:
		fields = row[1:]
	default:
		return models.Verse{}, &MalformedRowError{Len: len(row), Reason: "expected 4 or 5 fields"}
	}

	book, ok := asString(fields[0])
	if !ok {
		return models.Verse{}, &MalformedRowError{Len: len(row), Field: "book", Reason: fmt.Sprintf("want string, got %T", fields[0])}
	}
	chapter, err := asInt(fields[1])
	if err != nil {
		return models.Verse{}, &MalformedRowError{Len: len(row), Field: "chapter", Reason: err.Error()}
	}
	verse, err := asInt(fields[2])
	if err != nil {
		return models.Verse{}, &MalformedRowError{Len: len(row), Field: "verse", Reason: err.Error()}
	}
	text, ok := asString(fields[3])
	if !ok {
		return models.Verse{}, &MalformedRowError{Len: len(row), Field: "text", Reason: fmt.Sprintf("want string, got %T", fields[3])}
	}

	return models.Verse{Book: book, Chapter: chapter, Verse: verse, Text: text}, nil
}

// NormalizeRows decodes every row, logging and skipping malformed ones.
// It never aborts the set; the second result is the number of rows skipped.
func NormalizeRows(logger *slog.Logger, rows [][]any) ([]models.Verse, int) {
	results := make([]models.Verse, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		v, err := DecodeRow(row)
		if err != nil {
			skipped++
			logger.Warn("skipping unexpected row shape",
				slog.Int("index", i), slog.Int("fields", len(row)), slog.Any("err", err))
			continue
		}
		results = append(results, v)
	}
	return results, skipped
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func integral(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-integral number %v", f)
	}
	return int(f), nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return integral(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q", n.String())
		}
		return integral(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("non-numeric string %q", n)
		}
		return i, nil
	case []byte:
		return asInt(string(n))
	default:
		return 0, fmt.Errorf("want integer, got %T", v)
	}
}

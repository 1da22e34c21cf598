package compat

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/sola-scriptura-reader-api/internal/models"
)

func TestDecodeRow(t *testing.T) {
	john316 := models.Verse{Book: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world"}

	tests := []struct {
		name    string
		row     []any
		want    models.Verse
		wantErr bool
	}{
		{"four fields", []any{"John", 3, 16, "For God so loved the world"}, john316, false},
		{"five fields with id", []any{int64(42), "John", int64(3), int64(16), "For God so loved the world"}, john316, false},
		{"json numbers", []any{"John", float64(3), float64(16), "For God so loved the world"}, john316, false},
		{"json numbers as decoded with UseNumber", []any{"John", json.Number("3.0"), json.Number("16"), "For God so loved the world"}, john316, false},
		{"json number with fraction", []any{"John", json.Number("3.5"), 16, "text"}, models.Verse{}, true},
		{"numeric strings", []any{"John", "3", "16", "For God so loved the world"}, john316, false},
		{"byte slices", []any{[]byte("John"), []byte("3"), int32(16), []byte("For God so loved the world")}, john316, false},
		{"too few", []any{"John", 3, 16}, models.Verse{}, true},
		{"too many", []any{1, 2, "John", 3, 16, "text"}, models.Verse{}, true},
		{"empty", []any{}, models.Verse{}, true},
		{"fractional chapter", []any{"John", 3.5, 16, "text"}, models.Verse{}, true},
		{"non-numeric verse", []any{"John", 3, "sixteen", "text"}, models.Verse{}, true},
		{"book not string", []any{7, 3, 16, "text"}, models.Verse{}, true},
		{"text not string", []any{"John", 3, 16, nil}, models.Verse{}, true},
		{"five fields reordered", []any{"John", 3, 16, "text", 99}, models.Verse{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRow(tt.row)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRow) {
					t.Fatalf("expected ErrMalformedRow, got %v (%+v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeRow: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeRow = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeRowJSONNumber(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`[1, "Ruth", 1, 16, "Entreat me not to leave you"]`))
	dec.UseNumber()
	var row []any
	if err := dec.Decode(&row); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeRow(row)
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if got.Book != "Ruth" || got.Chapter != 1 || got.Verse != 16 {
		t.Errorf("DecodeRow = %+v", got)
	}
}

func TestNormalizeRowsLogsAndSkips(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rows := [][]any{
		{"Genesis", 1, 1, "In the beginning"},
		{"Genesis", 1},
		{10, "Genesis", 1, 2, "The earth was without form"},
	}
	got, skipped := NormalizeRows(logger, rows)

	want := []models.Verse{
		{Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning"},
		{Book: "Genesis", Chapter: 1, Verse: 2, Text: "The earth was without form"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeRows = %+v, want %+v", got, want)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if !strings.Contains(buf.String(), "index=1") || !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected warning for row 1, got %q", buf.String())
	}
}

func TestNormalizeRowsEmpty(t *testing.T) {
	got, skipped := NormalizeRows(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)
	if got == nil || len(got) != 0 || skipped != 0 {
		t.Errorf("NormalizeRows(nil) = %#v, %d", got, skipped)
	}
}

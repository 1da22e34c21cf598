// Package importer loads a scripture corpus from its nested JSON form and
// replaces the contents of the verses table with it.
//
// Import is a full replace run exclusively: readers that overlap an import
// are not guaranteed a consistent view.
package importer

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sola-scriptura-reader-api/internal/models"
	"github.com/ulikunitz/xz"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed corpus.schema.json
var corpusSchema []byte

// Corpus is a flat, reference-ordered list of verses ready for insertion
type Corpus struct {
	Verses []models.Verse
}

// Stats summarizes a completed import
type Stats struct {
	Books    int           `json:"books"`
	Chapters int           `json:"chapters"`
	Verses   int           `json:"verses"`
	Duration time.Duration `json:"duration_ns"`
}

// ValidationError lists every schema violation found in a corpus document
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid corpus document: %s", strings.Join(e.Problems, "; "))
}

type xzFile struct {
	io.Reader
	f *os.File
}

func (x *xzFile) Close() error { return x.f.Close() }

// OpenSource opens a corpus file, transparently decompressing ".xz" files.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		return f, nil
	}
	zr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	return &xzFile{Reader: zr, f: f}, nil
}

// Load reads and validates a {book: {chapter: {verse: text}}} document.
func Load(r io.Reader) (Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Corpus{}, fmt.Errorf("read corpus: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(corpusSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Corpus{}, fmt.Errorf("validate corpus: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, desc := range result.Errors() {
			verr.Problems = append(verr.Problems, desc.String())
		}
		return Corpus{}, verr
	}

	var doc map[string]map[string]map[string]string
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Corpus{}, fmt.Errorf("decode corpus: %w", err)
	}

	type keyed struct {
		v                    models.Verse
		chapterKey, verseKey string
	}
	var all []keyed
	for book, chapters := range doc {
		for chapterKey, verses := range chapters {
			chapter, err := parsePositive(chapterKey)
			if err != nil {
				return Corpus{}, fmt.Errorf("%s: chapter %q: %w", book, chapterKey, err)
			}
			for verseKey, text := range verses {
				verse, err := parsePositive(verseKey)
				if err != nil {
					return Corpus{}, fmt.Errorf("%s %d: verse %q: %w", book, chapter, verseKey, err)
				}
				all = append(all, keyed{
					v:          models.Verse{Book: book, Chapter: chapter, Verse: verse, Text: text},
					chapterKey: chapterKey,
					verseKey:   verseKey,
				})
			}
		}
	}

	// Keys like "1" and "01" collapse to the same number; the raw key breaks the tie.
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch {
		case a.v.Book != b.v.Book:
			return a.v.Book < b.v.Book
		case a.v.Chapter != b.v.Chapter:
			return a.v.Chapter < b.v.Chapter
		case a.v.Verse != b.v.Verse:
			return a.v.Verse < b.v.Verse
		case a.chapterKey != b.chapterKey:
			return a.chapterKey < b.chapterKey
		default:
			return a.verseKey < b.verseKey
		}
	})

	corpus := Corpus{Verses: make([]models.Verse, len(all))}
	for i, k := range all {
		corpus.Verses[i] = k.v
	}
	return corpus, nil
}

func parsePositive(key string) (int, error) {
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

// Replace clears the verses table and inserts the corpus in a single transaction.
func Replace(ctx context.Context, db *sqlx.DB, corpus Corpus, logger *slog.Logger) (Stats, error) {
	start := time.Now()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM verses"); err != nil {
		return Stats{}, fmt.Errorf("clear verses: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind("INSERT INTO verses (book, chapter, verse, text) VALUES (?, ?, ?, ?)"))
	if err != nil {
		return Stats{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	books := map[string]struct{}{}
	chapters := map[string]struct{}{}
	for _, v := range corpus.Verses {
		if _, err := stmt.ExecContext(ctx, v.Book, v.Chapter, v.Verse, v.Text); err != nil {
			return Stats{}, fmt.Errorf("insert %s %d:%d: %w", v.Book, v.Chapter, v.Verse, err)
		}
		books[v.Book] = struct{}{}
		chapters[fmt.Sprintf("%s\x00%d", v.Book, v.Chapter)] = struct{}{}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit import: %w", err)
	}

	stats := Stats{
		Books:    len(books),
		Chapters: len(chapters),
		Verses:   len(corpus.Verses),
		Duration: time.Since(start),
	}
	logger.Info("import complete",
		slog.Int("books", stats.Books),
		slog.Int("chapters", stats.Chapters),
		slog.Int("verses", stats.Verses),
		slog.Duration("took", stats.Duration))
	return stats, nil
}

package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sola-scriptura-reader-api/internal/repository"
	"github.com/ulikunitz/xz"
)

type xzSink struct {
	zw *xz.Writer
	bw *bufio.Writer
	f  *os.File
}

func (s *xzSink) Write(p []byte) (int, error) { return s.zw.Write(p) }

func (s *xzSink) Close() error {
	if err := s.zw.Close(); err != nil {
		s.f.Close()
		return err
	}
	if err := s.bw.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// CreateSink creates an export file, compressing with xz when path ends in ".xz".
func CreateSink(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		return f, nil
	}
	bw := bufio.NewWriter(f)
	zw, err := xz.NewWriter(bw)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	return &xzSink{zw: zw, bw: bw, f: f}, nil
}

// Export writes every book in the same nested form Load reads. Rows come
// from repo in insertion order, so a reference stored more than once exports
// its last inserted text.
func Export(ctx context.Context, repo repository.ScriptureRepository, w io.Writer, logger *slog.Logger) (Stats, error) {
	start := time.Now()

	books, err := repo.ListBooks(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list books: %w", err)
	}

	doc := make(map[string]map[string]map[string]string, len(books))
	var stats Stats
	for _, book := range books {
		// One book per query keeps each result set small.
		rows, err := repo.BookRows(ctx, book)
		if err != nil {
			return Stats{}, fmt.Errorf("export %s: %w", book, err)
		}
		chapters := map[string]map[string]string{}
		for _, r := range rows {
			ck, vk := strconv.Itoa(r.Chapter), strconv.Itoa(r.Verse)
			if chapters[ck] == nil {
				chapters[ck] = map[string]string{}
				stats.Chapters++
			}
			if _, dup := chapters[ck][vk]; !dup {
				stats.Verses++
			}
			chapters[ck][vk] = r.Text
		}
		doc[book] = chapters
		stats.Books++
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return Stats{}, fmt.Errorf("write export: %w", err)
	}

	stats.Duration = time.Since(start)
	logger.Info("export complete",
		slog.Int("books", stats.Books),
		slog.Int("chapters", stats.Chapters),
		slog.Int("verses", stats.Verses),
		slog.Duration("took", stats.Duration))
	return stats, nil
}

package services

import (
	"context"
	"log/slog"

	applog "github.com/sola-scriptura-reader-api/internal/log"
	"github.com/sola-scriptura-reader-api/internal/models"
	"github.com/sola-scriptura-reader-api/internal/repository"
)

// ScriptureService shapes repository rows into the structures callers consume
type ScriptureService struct {
	repo   repository.ScriptureRepository
	logger *slog.Logger
}

// NewScriptureService creates a new scripture service
func NewScriptureService(repo repository.ScriptureRepository, logger *slog.Logger) *ScriptureService {
	return &ScriptureService{
		repo:   repo,
		logger: logger.With(slog.String("component", "scripture")),
	}
}

// ListBooks returns every book name in ascending order
func (s *ScriptureService) ListBooks(ctx context.Context) ([]string, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		s.logFailure(ctx, "list_books", err)
		return nil, err
	}
	return books, nil
}

// ListChapters returns the chapters of a book; unknown books yield an empty list
func (s *ScriptureService) ListChapters(ctx context.Context, book string) ([]int, error) {
	chapters, err := s.repo.ListChapters(ctx, book)
	if err != nil {
		s.logFailure(ctx, "list_chapters", err, slog.String("book", book))
		return nil, err
	}
	return chapters, nil
}

// ListVerses returns the verse numbers of a chapter
func (s *ScriptureService) ListVerses(ctx context.Context, book string, chapter int) ([]int, error) {
	verses, err := s.repo.ListVerses(ctx, book, chapter)
	if err != nil {
		s.logFailure(ctx, "list_verses", err, slog.String("book", book), slog.Int("chapter", chapter))
		return nil, err
	}
	return verses, nil
}

// GetVerseText returns a single verse's text or a not-found error
func (s *ScriptureService) GetVerseText(ctx context.Context, book string, chapter, verse int) (string, error) {
	text, err := s.repo.GetVerseText(ctx, book, chapter, verse)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.logFailure(ctx, "get_verse_text", err,
				slog.String("book", book), slog.Int("chapter", chapter), slog.Int("verse", verse))
		}
		return "", err
	}
	return text, nil
}

// GetFullBook reconstructs a book as ordered chapter groups. Unknown books yield an empty list.
func (s *ScriptureService) GetFullBook(ctx context.Context, book string) ([]models.ChapterGroup, error) {
	rows, err := s.repo.BookRows(ctx, book)
	if err != nil {
		s.logFailure(ctx, "get_full_book", err, slog.String("book", book))
		return nil, err
	}
	return GroupChapters(rows), nil
}

// SearchVerses finds verses whose text contains keyword
func (s *ScriptureService) SearchVerses(ctx context.Context, keyword string) ([]models.Verse, error) {
	results, err := s.repo.SearchVerses(ctx, keyword)
	if err != nil {
		s.logFailure(ctx, "search_verses", err, slog.String("keyword", keyword))
		return nil, err
	}
	applog.WithOperation(s.logger, "search_verses").DebugContext(ctx, "search complete",
		slog.String("keyword", keyword), slog.Int("results", len(results)))
	return results, nil
}

// Ping checks storage reachability
func (s *ScriptureService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ScriptureService) logFailure(ctx context.Context, op string, err error, attrs ...any) {
	args := append([]any{slog.Any("err", err)}, attrs...)
	applog.WithOperation(s.logger, op).ErrorContext(ctx, "storage query failed", args...)
}

// GroupChapters folds rows sorted by (chapter, verse) into chapter groups,
// opening a new group whenever the chapter changes from the previous row.
// Unsorted input produces split groups.
func GroupChapters(rows []models.BookRow) []models.ChapterGroup {
	groups := []models.ChapterGroup{}
	for _, r := range rows {
		if len(groups) == 0 || groups[len(groups)-1].Chapter != r.Chapter {
			groups = append(groups, models.ChapterGroup{Chapter: r.Chapter, Verses: []models.VerseText{}})
		}
		last := &groups[len(groups)-1]
		last.Verses = append(last.Verses, models.VerseText{Verse: r.Verse, Text: r.Text})
	}
	return groups
}

package repository

import (
	"context"

	"github.com/sola-scriptura-reader-api/internal/models"
)

// ScriptureRepository defines read access to the verses table.
//
// Every method acquires its own connection, runs one query and releases the
// connection before returning. No method writes.
type ScriptureRepository interface {
	// ListBooks returns the distinct book names in ascending order
	ListBooks(ctx context.Context) ([]string, error)

	// ListChapters returns the distinct chapter numbers of book in ascending numeric order
	ListChapters(ctx context.Context, book string) ([]int, error)

	// ListVerses returns the distinct verse numbers of (book, chapter) in ascending numeric order
	ListVerses(ctx context.Context, book string, chapter int) ([]int, error)

	// GetVerseText returns the text of one verse, or a *NotFoundError.
	// When duplicates exist the first inserted row wins.
	GetVerseText(ctx context.Context, book string, chapter, verse int) (string, error)

	// BookRows scans every verse of book ordered by (chapter, verse, insertion order)
	BookRows(ctx context.Context, book string) ([]models.BookRow, error)

	// SearchVerses returns verses whose text contains keyword, case-insensitively,
	// ordered by (book, chapter, verse)
	SearchVerses(ctx context.Context, keyword string) ([]models.Verse, error)

	// Ping checks that storage is reachable
	Ping(ctx context.Context) error
}

// Package sqlstore implements repository.ScriptureRepository over any sqlx
// database. Backends supply the dialect-specific statements.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sola-scriptura-reader-api/internal/models"
	"github.com/sola-scriptura-reader-api/internal/repository"
)

// Queries holds one statement per read operation.
//
// Ordered statements must cast chapter and verse to integers before sorting
// and break ties by insertion order. SearchVerses must declare repository.EscapeClause
// and take the pattern built by repository.ContainsPattern.
type Queries struct {
	ListBooks    string
	ListChapters string // args: book
	ListVerses   string // args: book, chapter
	GetVerseText string // args: book, chapter, verse; first inserted row only
	BookRows     string // args: book
	SearchVerses string // args: pattern
}

// Store is a ScriptureRepository backed by a connection pool
type Store struct {
	db *sqlx.DB
	q  Queries
}

// New creates a Store. Queries must be written for db's placeholder style.
func New(db *sqlx.DB, q Queries) *Store {
	return &Store{db: db, q: q}
}

var _ repository.ScriptureRepository = (*Store)(nil)

// withConn acquires a dedicated connection for one operation and always releases it.
func (s *Store) withConn(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return repository.Unavailable("acquire connection", err)
	}
	defer conn.Close()
	return fn(conn)
}

// ListBooks returns distinct books in ascending order
func (s *Store) ListBooks(ctx context.Context) ([]string, error) {
	var books []string
	err := s.withConn(ctx, func(conn *sqlx.Conn) error {
		return repository.Unavailable("list books", conn.SelectContext(ctx, &books, s.q.ListBooks))
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []string{}
	}
	return books, nil
}

// ListChapters returns distinct chapters of book in ascending numeric order
func (s *Store) ListChapters(ctx context.Context, book string) ([]int, error) {
	var chapters []int
	err := s.withConn(ctx, func(conn *sqlx.Conn) error {
		return repository.Unavailable("list chapters", conn.SelectContext(ctx, &chapters, s.q.ListChapters, book))
	})
	if err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []int{}
	}
	return chapters, nil
}

// ListVerses returns distinct verses of (book, chapter) in ascending numeric order
func (s *Store) ListVerses(ctx context.Context, book string, chapter int) ([]int, error) {
	var verses []int
	err := s.withConn(ctx, func(conn *sqlx.Conn) error {
		return repository.Unavailable("list verses", conn.SelectContext(ctx, &verses, s.q.ListVerses, book, chapter))
	})
	if err != nil {
		return nil, err
	}
	if verses == nil {
		verses = []int{}
	}
	return verses, nil
}

// GetVerseText returns the text of the first inserted row matching the reference
func (s *Store) GetVerseText(ctx context.Context, book string, chapter, verse int) (string, error) {
	var text string
	err := s.withConn(ctx, func(conn *sqlx.Conn) error {
		err := conn.GetContext(ctx, &text, s.q.GetVerseText, book, chapter, verse)
		if errors.Is(err, sql.ErrNoRows) {
			return &repository.NotFoundError{Book: book, Chapter: chapter, Verse: verse}
		}
		return repository.Unavailable("get verse text", err)
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// BookRows scans all verses of book in (chapter, verse, insertion) order
func (s *Store) BookRows(ctx context.Context, book string) ([]models.BookRow, error) {
	var rows []models.BookRow
	err := s.withConn(ctx, func(conn *sqlx.Conn) error {
		return repository.Unavailable("scan book", conn.SelectContext(ctx, &rows, s.q.BookRows, book))
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.BookRow{}
	}
	return rows, nil
}

// SearchVerses returns verses whose text contains keyword, ordered by reference
func (s *Store) SearchVerses(ctx context.Context, keyword string) ([]models.Verse, error) {
	pattern := repository.ContainsPattern(keyword)

	var results []models.Verse
	err := s.withConn(ctx, func(conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, s.q.SearchVerses, pattern)
		if err != nil {
			return repository.Unavailable("search verses", err)
		}
		defer rows.Close()

		for rows.Next() {
			var v models.Verse
			if err := rows.StructScan(&v); err != nil {
				return repository.Unavailable("scan verse result", err)
			}
			results = append(results, v)
		}
		return repository.Unavailable("iterate verse results", rows.Err())
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.Verse{}
	}
	return results, nil
}

// Ping checks storage reachability
func (s *Store) Ping(ctx context.Context) error {
	return repository.Unavailable("ping", s.db.PingContext(ctx))
}

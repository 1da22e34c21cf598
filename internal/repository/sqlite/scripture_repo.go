package sqlite

import (
	"github.com/jmoiron/sqlx"
	"github.com/sola-scriptura-reader-api/internal/repository"
	"github.com/sola-scriptura-reader-api/internal/repository/sqlstore"
)

// Queries are the SQLite statements. rowid records insertion order.
// LIKE folds ASCII case only. Rows without a chapter or verse number are not
// addressable and are left out of every result.
var Queries = sqlstore.Queries{
	ListBooks: `
		SELECT DISTINCT book FROM verses
		WHERE book IS NOT NULL
		ORDER BY book COLLATE BINARY`,
	ListChapters: `
		SELECT DISTINCT CAST(chapter AS INTEGER) AS chapter FROM verses
		WHERE book = ? AND chapter IS NOT NULL
		ORDER BY 1`,
	ListVerses: `
		SELECT DISTINCT CAST(verse AS INTEGER) AS verse FROM verses
		WHERE book = ? AND chapter = ? AND verse IS NOT NULL
		ORDER BY 1`,
	GetVerseText: `
		SELECT COALESCE(text, '') FROM verses
		WHERE book = ? AND chapter = ? AND verse = ?
		ORDER BY rowid
		LIMIT 1`,
	BookRows: `
		SELECT CAST(chapter AS INTEGER) AS chapter, CAST(verse AS INTEGER) AS verse, COALESCE(text, '') AS text
		FROM verses
		WHERE book = ? AND chapter IS NOT NULL AND verse IS NOT NULL
		ORDER BY CAST(chapter AS INTEGER), CAST(verse AS INTEGER), rowid`,
	SearchVerses: `
		SELECT COALESCE(book, '') AS book, CAST(chapter AS INTEGER) AS chapter, CAST(verse AS INTEGER) AS verse, text
		FROM verses
		WHERE text LIKE ? ` + repository.EscapeClause + `
		  AND chapter IS NOT NULL AND verse IS NOT NULL
		ORDER BY book COLLATE BINARY, CAST(chapter AS INTEGER), CAST(verse AS INTEGER), rowid`,
}

// NewScriptureRepository creates a SQLite scripture repository
func NewScriptureRepository(db *sqlx.DB) repository.ScriptureRepository {
	return sqlstore.New(db, Queries)
}

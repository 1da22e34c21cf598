package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/sola-scriptura-reader-api/internal/repository"
	"github.com/sola-scriptura-reader-api/internal/repository/sqlstore"
)

// Queries are the PostgreSQL statements. The surrogate id records insertion order
// and books compare byte-wise under the "C" collation. Rows without a chapter or
// verse number are left out of every result.
var Queries = sqlstore.Queries{
	ListBooks: `
		SELECT DISTINCT book COLLATE "C" AS book FROM verses
		WHERE book IS NOT NULL
		ORDER BY 1`,
	ListChapters: `
		SELECT DISTINCT CAST(chapter AS INTEGER) AS chapter FROM verses
		WHERE book = $1 AND chapter IS NOT NULL
		ORDER BY 1`,
	ListVerses: `
		SELECT DISTINCT CAST(verse AS INTEGER) AS verse FROM verses
		WHERE book = $1 AND chapter = $2 AND verse IS NOT NULL
		ORDER BY 1`,
	GetVerseText: `
		SELECT COALESCE(text, '') FROM verses
		WHERE book = $1 AND chapter = $2 AND verse = $3
		ORDER BY id
		LIMIT 1`,
	BookRows: `
		SELECT CAST(chapter AS INTEGER) AS chapter, CAST(verse AS INTEGER) AS verse, COALESCE(text, '') AS text
		FROM verses
		WHERE book = $1 AND chapter IS NOT NULL AND verse IS NOT NULL
		ORDER BY CAST(chapter AS INTEGER), CAST(verse AS INTEGER), id`,
	SearchVerses: `
		SELECT COALESCE(book, '') AS book, CAST(chapter AS INTEGER) AS chapter, CAST(verse AS INTEGER) AS verse, text
		FROM verses
		WHERE text ILIKE $1 ` + repository.EscapeClause + `
		  AND chapter IS NOT NULL AND verse IS NOT NULL
		ORDER BY book COLLATE "C", CAST(chapter AS INTEGER), CAST(verse AS INTEGER), id`,
}

// NewScriptureRepository creates a PostgreSQL scripture repository
func NewScriptureRepository(db *sqlx.DB) repository.ScriptureRepository {
	return sqlstore.New(db, Queries)
}

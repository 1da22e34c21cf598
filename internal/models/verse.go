package models

// Verse is the canonical four-field verse record emitted by search
type Verse struct {
	Book    string `json:"book" db:"book"`
	Chapter int    `json:"chapter" db:"chapter"`
	Verse   int    `json:"verse" db:"verse"`
	Text    string `json:"text" db:"text"`
}

// VerseText is one verse inside a chapter group
type VerseText struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// ChapterGroup is one chapter of a reconstructed book
type ChapterGroup struct {
	Chapter int         `json:"chapter"`
	Verses  []VerseText `json:"verses"`
}

// BookRow is a flat row from a whole-book scan, ordered by chapter then verse
type BookRow struct {
	Chapter int    `db:"chapter"`
	Verse   int    `db:"verse"`
	Text    string `db:"text"`
}

// VerseTextResponse is the response for a single verse lookup
type VerseTextResponse struct {
	Text string `json:"text"`
}

// NormalizeRowsResponse is the response for legacy row normalization
type NormalizeRowsResponse struct {
	Results []Verse `json:"results"`
	Skipped int     `json:"skipped"`
}

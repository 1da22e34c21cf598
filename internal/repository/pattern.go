package repository

import "strings"

// LikeEscape is the escape character used by ContainsPattern
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, `%`, LikeEscape+`%`, `_`, LikeEscape+`_`)

// EscapeClause is the ESCAPE clause every query taking a ContainsPattern must declare.
const EscapeClause = `ESCAPE '` + LikeEscape + `'`

// ContainsPattern builds a LIKE pattern matching keyword as a literal substring.
// An empty keyword yields "%%", which matches every row.
func ContainsPattern(keyword string) string {
	return "%" + likeReplacer.Replace(keyword) + "%"
}

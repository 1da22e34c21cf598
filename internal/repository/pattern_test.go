package repository

import "testing"

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"love", "%love%"},
		{"", "%%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\d`, `%c:\\d%`},
	}
	for _, tt := range tests {
		if got := ContainsPattern(tt.keyword); got != tt.want {
			t.Errorf("ContainsPattern(%q) = %q, want %q", tt.keyword, got, tt.want)
		}
	}
}

func TestEscapeClause(t *testing.T) {
	if EscapeClause != `ESCAPE '\'` {
		t.Errorf("EscapeClause = %q", EscapeClause)
	}
}

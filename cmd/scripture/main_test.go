package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sola-scriptura-reader-api/internal/repository"
	schemaconfig "github.com/sola-scriptura-reader-api/pkg/schema/config"
)

const testCorpus = `{
  "John": { "3": { "16": "For God so loved the world.", "17": "For God did not send His Son to condemn." } },
  "Genesis": { "1": { "1": "In the beginning." }, "10": { "1": "The sons of Noah." } }
}`

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// setupStore returns a config pointing at a fresh SQLite file loaded with testCorpus.
func setupStore(t *testing.T) schemaconfig.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := schemaconfig.Defaults()
	cfg.SQLitePath = filepath.Join(dir, "bible.db")

	var out bytes.Buffer
	if err := run([]string{"import", createTestFile(t, dir, "bible.json", testCorpus)}, cfg, &out); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := out.String(); got != "Imported 4 verses (2 books, 3 chapters)\n" {
		t.Fatalf("import output = %q", got)
	}
	return cfg
}

func TestTextCommands(t *testing.T) {
	cfg := setupStore(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"books", []string{"books"}, "Genesis\nJohn\n"},
		{"chapters", []string{"chapters", "Genesis"}, "1\n10\n"},
		{"chapters unknown", []string{"chapters", "Jude"}, ""},
		{"verses", []string{"verses", "John", "3"}, "16\n17\n"},
		{"verse", []string{"verse", "John", "3", "16"}, "For God so loved the world.\n"},
		{"book", []string{"book", "Genesis"}, "Genesis 1\n1 In the beginning.\n\nGenesis 10\n1 The sons of Noah.\n"},
		{"book unknown", []string{"book", "Jude"}, "No such book: Jude\n"},
		{"search", []string{"search", "LOVED"}, "John 3:16 — For God so loved the world.\n"},
		{"search no results", []string{"search", "mercy"}, "No results found.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, cfg, &out); err != nil {
				t.Fatalf("run %v: %v", tt.args, err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	cfg := setupStore(t)

	var out bytes.Buffer
	if err := run([]string{"--json", "chapters", "Genesis"}, cfg, &out); err != nil {
		t.Fatal(err)
	}
	var chapters []int
	if err := json.Unmarshal(out.Bytes(), &chapters); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if !reflect.DeepEqual(chapters, []int{1, 10}) {
		t.Errorf("chapters = %v", chapters)
	}

	out.Reset()
	if err := run([]string{"search", "--json", "god"}, cfg, &out); err != nil {
		t.Fatal(err)
	}
	var results []map[string]any
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if len(results) != 2 || results[0]["book"] != "John" {
		t.Errorf("results = %v", results)
	}

	out.Reset()
	if err := run([]string{"--json", "search", "mercy"}, cfg, &out); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("empty search JSON = %q", out.String())
	}
}

func TestVerseNotFound(t *testing.T) {
	cfg := setupStore(t)

	err := run([]string{"verse", "John", "3", "99"}, cfg, &bytes.Buffer{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err.Error() != "verse not found: John 3:99" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDBFlagOverridesConfig(t *testing.T) {
	cfg := setupStore(t)
	other := schemaconfig.Defaults()
	other.SQLitePath = filepath.Join(t.TempDir(), "unused.db")

	var out bytes.Buffer
	if err := run([]string{"--db", cfg.SQLitePath, "books"}, other, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Genesis\nJohn\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestUnsupportedBackend(t *testing.T) {
	cfg := setupStore(t)
	if err := run([]string{"--backend", "mysql", "books"}, cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestExportThenImport(t *testing.T) {
	cfg := setupStore(t)
	exported := filepath.Join(t.TempDir(), "bible.json.xz")

	var out bytes.Buffer
	if err := run([]string{"export", exported}, cfg, &out); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Exported 4 verses (2 books, 3 chapters)") {
		t.Errorf("export output = %q", out.String())
	}

	fresh := schemaconfig.Defaults()
	fresh.SQLitePath = filepath.Join(t.TempDir(), "copy.db")
	out.Reset()
	if err := run([]string{"import", exported}, fresh, &out); err != nil {
		t.Fatalf("import exported: %v", err)
	}

	out.Reset()
	if err := run([]string{"verse", "Genesis", "10", "1"}, fresh, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "The sons of Noah.\n" {
		t.Errorf("verse = %q", out.String())
	}
}

func TestReadsDoNotCreateDatabase(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "typo.db")

	if err := run([]string{"--db", missing, "books"}, schemaconfig.Defaults(), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing database")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("read command created %s: %v", missing, err)
	}
}

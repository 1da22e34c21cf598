package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	applog "github.com/sola-scriptura-reader-api/internal/log"
	"github.com/sola-scriptura-reader-api/internal/models"
	"github.com/sola-scriptura-reader-api/internal/repository"
)

// stubRepo is an in-memory ScriptureRepository returning canned results.
type stubRepo struct {
	bookRows map[string][]models.BookRow
	text     string
	err      error
	calls    int
}

func (r *stubRepo) ListBooks(ctx context.Context) ([]string, error) {
	r.calls++
	return []string{"Genesis"}, r.err
}

func (r *stubRepo) ListChapters(ctx context.Context, book string) ([]int, error) {
	r.calls++
	return []int{1}, r.err
}

func (r *stubRepo) ListVerses(ctx context.Context, book string, chapter int) ([]int, error) {
	r.calls++
	return []int{1}, r.err
}

func (r *stubRepo) GetVerseText(ctx context.Context, book string, chapter, verse int) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.text, nil
}

func (r *stubRepo) BookRows(ctx context.Context, book string) ([]models.BookRow, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	rows, ok := r.bookRows[book]
	if !ok {
		return []models.BookRow{}, nil
	}
	return rows, nil
}

func (r *stubRepo) SearchVerses(ctx context.Context, keyword string) ([]models.Verse, error) {
	r.calls++
	return []models.Verse{}, r.err
}

func (r *stubRepo) Ping(ctx context.Context) error { return r.err }

func TestGroupChapters(t *testing.T) {
	rows := []models.BookRow{
		{Chapter: 1, Verse: 1, Text: "a"},
		{Chapter: 1, Verse: 2, Text: "b"},
		{Chapter: 1, Verse: 3, Text: "c"},
		{Chapter: 2, Verse: 1, Text: "d"},
		{Chapter: 2, Verse: 2, Text: "e"},
	}
	want := []models.ChapterGroup{
		{Chapter: 1, Verses: []models.VerseText{{Verse: 1, Text: "a"}, {Verse: 2, Text: "b"}, {Verse: 3, Text: "c"}}},
		{Chapter: 2, Verses: []models.VerseText{{Verse: 1, Text: "d"}, {Verse: 2, Text: "e"}}},
	}
	if got := GroupChapters(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("GroupChapters = %+v, want %+v", got, want)
	}
}

func TestGroupChaptersEmpty(t *testing.T) {
	got := GroupChapters(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("GroupChapters(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestGroupChaptersSkipsAbsentChapters(t *testing.T) {
	rows := []models.BookRow{
		{Chapter: 1, Verse: 1, Text: "a"},
		{Chapter: 3, Verse: 1, Text: "b"},
	}
	got := GroupChapters(rows)
	if len(got) != 2 || got[0].Chapter != 1 || got[1].Chapter != 3 {
		t.Errorf("GroupChapters = %+v", got)
	}
}

func TestGroupChaptersKeepsDuplicates(t *testing.T) {
	rows := []models.BookRow{
		{Chapter: 1, Verse: 1, Text: "first"},
		{Chapter: 1, Verse: 1, Text: "second"},
	}
	got := GroupChapters(rows)
	if len(got) != 1 || len(got[0].Verses) != 2 || got[0].Verses[0].Text != "first" {
		t.Errorf("GroupChapters = %+v", got)
	}
}

func TestGetFullBook(t *testing.T) {
	repo := &stubRepo{bookRows: map[string][]models.BookRow{
		"Jude": {{Chapter: 1, Verse: 1, Text: "Jude, a bondservant of Jesus Christ"}},
	}}
	svc := NewScriptureService(repo, applog.Discard())

	got, err := svc.GetFullBook(context.Background(), "Jude")
	if err != nil {
		t.Fatalf("GetFullBook: %v", err)
	}
	if len(got) != 1 || got[0].Chapter != 1 || got[0].Verses[0].Text != "Jude, a bondservant of Jesus Christ" {
		t.Errorf("GetFullBook = %+v", got)
	}

	got, err = svc.GetFullBook(context.Background(), "Nope")
	if err != nil {
		t.Fatalf("GetFullBook: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("GetFullBook(unknown) = %#v, want empty", got)
	}
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	storageErr := repository.Unavailable("list books", errors.New("disk I/O error"))
	repo := &stubRepo{err: storageErr}
	svc := NewScriptureService(repo, applog.Discard())
	ctx := context.Background()

	if _, err := svc.ListBooks(ctx); err != storageErr {
		t.Errorf("ListBooks err = %v", err)
	}
	if _, err := svc.ListChapters(ctx, "John"); err != storageErr {
		t.Errorf("ListChapters err = %v", err)
	}
	if _, err := svc.ListVerses(ctx, "John", 3); err != storageErr {
		t.Errorf("ListVerses err = %v", err)
	}
	if _, err := svc.GetVerseText(ctx, "John", 3, 16); err != storageErr {
		t.Errorf("GetVerseText err = %v", err)
	}
	if _, err := svc.GetFullBook(ctx, "John"); err != storageErr {
		t.Errorf("GetFullBook err = %v", err)
	}
	if _, err := svc.SearchVerses(ctx, "love"); err != storageErr {
		t.Errorf("SearchVerses err = %v", err)
	}
	if err := svc.Ping(ctx); err != storageErr {
		t.Errorf("Ping err = %v", err)
	}
}

func TestGetVerseTextNotFound(t *testing.T) {
	nf := &repository.NotFoundError{Book: "John", Chapter: 3, Verse: 99}
	svc := NewScriptureService(&stubRepo{err: nf}, applog.Discard())

	_, err := svc.GetVerseText(context.Background(), "John", 3, 99)
	if !repository.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

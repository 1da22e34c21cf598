package repository

import (
	"database/sql"
	"errors"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{Book: "John", Chapter: 3, Verse: 99})
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound")
	}
	if IsUnavailable(err) {
		t.Fatal("not-found must not be a storage failure")
	}
	if got, want := err.Error(), "verse not found: John 3:99"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnavailable(t *testing.T) {
	if Unavailable("list books", nil) != nil {
		t.Fatal("nil error must stay nil")
	}

	err := Unavailable("list books", sql.ErrConnDone)
	if !IsUnavailable(err) {
		t.Fatal("expected IsUnavailable")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatal("driver error must stay reachable")
	}
	if IsNotFound(err) {
		t.Fatal("storage failure must not be not-found")
	}
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "list books" {
		t.Fatalf("expected StorageError with op, got %v", err)
	}
}

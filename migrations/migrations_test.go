package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestFS_ContainsAnnotatedMigrations(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(FS, "*.sql")
	if err != nil || len(files) == 0 {
		t.Fatalf("no migrations embedded: %v", err)
	}
	for _, f := range files {
		b, err := fs.ReadFile(FS, f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		s := string(b)
		if !strings.Contains(s, "-- +goose Up") || !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s lacks goose annotations", f)
		}
	}
}

func TestInit_DeclaresTables(t *testing.T) {
	t.Parallel()

	b, err := fs.ReadFile(FS, "00001_init.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, tbl := range []string{"users", "notes", "tags", "note_tags", "login_attempts"} {
		if !strings.Contains(string(b), "CREATE TABLE IF NOT EXISTS "+tbl+" (") {
			t.Fatalf("missing table %s", tbl)
		}
	}
}

package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFilesSize(t *testing.T) {
	dir := t.TempDir()

	f1 := filepath.Join(dir, "f1.db")
	if err := os.WriteFile(f1, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	f2 := filepath.Join(dir, "f1.db-wal")
	if err := os.WriteFile(f2, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FilesSize(f1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("single file: got %d bytes, want 5", got)
	}

	got, err = FilesSize(DatabaseFiles(f1)...)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8 {
		t.Errorf("database files: got %d bytes, want 8", got)
	}

	got, err = FilesSize("", f1, filepath.Join(dir, "nonexistent"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("with empty and missing: got %d bytes, want 5", got)
	}

	if _, err := FilesSize(dir); err == nil {
		t.Error("expected error for a directory")
	}
}

func TestDatabaseFiles(t *testing.T) {
	if got := DatabaseFiles(""); got != nil {
		t.Errorf("DatabaseFiles(\"\") = %v", got)
	}
	want := []string{"a.db", "a.db-wal", "a.db-shm"}
	if got := DatabaseFiles("a.db"); !reflect.DeepEqual(got, want) {
		t.Errorf("DatabaseFiles = %v, want %v", got, want)
	}
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		BookPath:  "/books/moby-dick.epub",
		Mode:      ModeChapter,
		Position:  4,
		Progress:  0.25,
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := s.Load(ctx, rec.BookPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false, want true")
	}
	if got.Mode != ModeChapter || got.Position != 4 || got.Progress != 0.25 {
		t.Errorf("Load() = %+v, want %+v", got, rec)
	}
}

func TestStore_LoadUnknownBook(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Load(context.Background(), "/books/never-opened.epub")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("Load() ok = true for unknown book")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	path := "/books/b.epub"
	if err := s.Save(ctx, Record{BookPath: path, Mode: ModeChapter, Position: 1, Progress: 0.1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, Record{BookPath: path, Mode: ModeScroll, Position: 0.8, Progress: 0.8}); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	got, ok, err := s.Load(ctx, path)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if got.Mode != ModeScroll || got.Progress != 0.8 {
		t.Errorf("Load() after overwrite = %+v", got)
	}
}

func TestStore_RequiresBookPath(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(context.Background(), Record{Mode: ModeChapter}); err == nil {
		t.Error("Save() with empty book path succeeded, want error")
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	path := "/books/c.epub"
	if err := s.Save(ctx, Record{BookPath: path, Mode: ModeChapter, Position: 2, Progress: 0.5}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok, _ := s.Load(ctx, path); ok {
		t.Error("Load() ok = true after Delete()")
	}
}

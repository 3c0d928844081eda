package history

import (
	"path/filepath"
	"testing"

	"remora/internal/media"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)

	entry := media.ResumeEntry{
		VideoID:  "dQw4w9WgXcQ",
		Title:    "Test Video",
		Channel:  "Test Channel",
		Position: 123.5,
		Duration: 212,
	}
	if err := s.Save(entry); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, ok, err := s.Get("dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok {
		t.Fatal("entry not found after save")
	}
	if got.Title != entry.Title || got.Position != entry.Position || got.Channel != entry.Channel {
		t.Errorf("got %+v", got)
	}
	if got.Updated == 0 {
		t.Error("updated timestamp not set")
	}
}

func TestSaveUpsertsExisting(t *testing.T) {
	s := openTestStore(t)

	s.Save(media.ResumeEntry{VideoID: "dQw4w9WgXcQ", Title: "t", Position: 100, Updated: 1000})
	s.Save(media.ResumeEntry{VideoID: "dQw4w9WgXcQ", Title: "t", Position: 500, Watched: true, Updated: 2000})

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries after upsert, want 1", len(entries))
	}
	if entries[0].Position != 500 || !entries[0].Watched {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestLoadOrdersByRecency(t *testing.T) {
	s := openTestStore(t)

	s.Save(media.ResumeEntry{VideoID: "aaaaaaaaaaa", Title: "old", Updated: 1000})
	s.Save(media.ResumeEntry{VideoID: "bbbbbbbbbbb", Title: "new", Updated: 2000})

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Title != "new" {
		t.Errorf("first entry = %q, want most recent", entries[0].Title)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("nosuchvideo")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("found entry that was never saved")
	}
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)

	s.Save(media.ResumeEntry{VideoID: "dQw4w9WgXcQ", Title: "t"})
	if err := s.Remove("dQw4w9WgXcQ"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	_, ok, _ := s.Get("dQw4w9WgXcQ")
	if ok {
		t.Error("entry still present after remove")
	}
}

func TestFormatForDisplay(t *testing.T) {
	entries := []media.ResumeEntry{
		{Title: "Video A", Channel: "Chan", Position: 106, Duration: 212},
		{Title: "Video B", Watched: true},
	}

	items := FormatForDisplay(entries)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0] != "Chan: Video A [50%]" {
		t.Errorf("items[0] = %q", items[0])
	}
	if items[1] != "Video B [watched]" {
		t.Errorf("items[1] = %q", items[1])
	}
}

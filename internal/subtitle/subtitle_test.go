package subtitle

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"remora/internal/media"
)

var tracks = []media.Subtitle{
	{Language: "en", Name: "English - auto generated"},
	{Language: "en", Name: "English"},
	{Language: "de", Name: "German"},
}

func TestFilter(t *testing.T) {
	got := Filter(tracks, "en")
	if len(got) != 2 {
		t.Fatalf("got %d tracks, want 2", len(got))
	}

	if got := Filter(tracks, ""); len(got) != 3 {
		t.Errorf("empty language should match all, got %d", len(got))
	}

	if got := Filter(tracks, "fr"); len(got) != 0 {
		t.Errorf("unmatched language returned %d tracks", len(got))
	}
}

func TestBestMatchPrefersNonAuto(t *testing.T) {
	best := BestMatch(tracks, "en")
	if best == nil {
		t.Fatal("no match")
	}
	if best.Name != "English" {
		t.Errorf("best = %q, want the non-auto track", best.Name)
	}
}

func TestBestMatchFallsBackToAuto(t *testing.T) {
	autoOnly := []media.Subtitle{{Language: "en", Name: "English - auto generated"}}
	best := BestMatch(autoOnly, "en")
	if best == nil {
		t.Fatal("no match")
	}
	if best.Name != "English - auto generated" {
		t.Errorf("best = %q", best.Name)
	}
}

func TestBestMatchNoTracks(t *testing.T) {
	if best := BestMatch(nil, "en"); best != nil {
		t.Errorf("best = %+v, want nil", best)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("WEBVTT\n\n00:00.000 --> 00:01.000\nhello\n"))
	}))
	defer srv.Close()

	dir, err := NewTempDir()
	if err != nil {
		t.Fatalf("NewTempDir() error: %v", err)
	}
	defer dir.Cleanup()

	path, err := dir.Download(srv.Client(), media.Subtitle{Language: "en", URL: srv.URL + "/sub.vtt"})
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data[:6]) != "WEBVTT" {
		t.Errorf("file content = %q", data[:6])
	}
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir, _ := NewTempDir()
	defer dir.Cleanup()

	if _, err := dir.Download(srv.Client(), media.Subtitle{Language: "en", URL: srv.URL + "/missing.vtt"}); err == nil {
		t.Error("expected error for 404 subtitle")
	}
}

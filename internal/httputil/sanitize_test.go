package httputil

import "testing"

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://archive.example.com",
		"http://192.168.1.20:8000",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"ftp://archive.example.com",
		"file:///etc/passwd",
		"not a url",
		"https://",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestValidateVideoID(t *testing.T) {
	if err := ValidateVideoID("dQw4w9WgXcQ"); err != nil {
		t.Errorf("valid ID rejected: %v", err)
	}

	invalid := []string{"", "short", "dQw4w9WgXcQtoolong", "dQw4w9WgXc!", "../../../etc"}
	for _, id := range invalid {
		if err := ValidateVideoID(id); err == nil {
			t.Errorf("ValidateVideoID(%q) = nil, want error", id)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, c := range cases {
		got, err := ExtractVideoID(c.in)
		if err != nil {
			t.Errorf("ExtractVideoID(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	if _, err := ExtractVideoID("https://example.com/nothing-here"); err == nil {
		t.Error("expected error for URL without a video ID")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Normal Title", "Normal Title"},
		{"../../etc/passwd", "passwd"},
		{"a/b\\c:d", "d"},
		{"", "untitled"},
		{"..", "untitled"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSafeDownloadPath(t *testing.T) {
	dir := t.TempDir()

	path, err := SafeDownloadPath(dir, "video.mkv")
	if err != nil {
		t.Fatalf("SafeDownloadPath error: %v", err)
	}
	if path == "" {
		t.Error("empty path")
	}

	if _, err := SafeDownloadPath(dir, "../../escape.mkv"); err != nil {
		// Sanitizing strips the traversal; either outcome must stay inside dir.
		t.Logf("traversal rejected: %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("http://archive.local/", "api", "video", "dQw4w9WgXcQ")
	want := "http://archive.local/api/video/dQw4w9WgXcQ"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}

// Package subtitle handles subtitle track selection and secure temp
// file management for handing tracks to the player.
package subtitle

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"remora/internal/httputil"
	"remora/internal/media"
)

// Filter returns subtitle tracks matching the preferred language
// (case-insensitive, matches code or display name).
func Filter(subtitles []media.Subtitle, language string) []media.Subtitle {
	if language == "" {
		return subtitles
	}

	lang := strings.ToLower(language)
	var matched []media.Subtitle

	for _, sub := range subtitles {
		if strings.Contains(strings.ToLower(sub.Language), lang) ||
			strings.Contains(strings.ToLower(sub.Name), lang) {
			matched = append(matched, sub)
		}
	}

	return matched
}

// BestMatch returns the best track for the given language: an exact
// language-code match first, then any partial match, preferring
// non-auto-generated tracks.
func BestMatch(subtitles []media.Subtitle, language string) *media.Subtitle {
	filtered := Filter(subtitles, language)
	if len(filtered) == 0 {
		return nil
	}

	lang := strings.ToLower(language)

	for _, sub := range filtered {
		if strings.EqualFold(sub.Language, lang) && !strings.Contains(strings.ToLower(sub.Name), "auto") {
			return &sub
		}
	}
	for _, sub := range filtered {
		if !strings.Contains(strings.ToLower(sub.Name), "auto") {
			return &sub
		}
	}
	return &filtered[0]
}

// TempDir is a temporary directory holding downloaded subtitle files.
type TempDir struct {
	path string
}

// NewTempDir creates a randomized temp directory for subtitle files.
func NewTempDir() (*TempDir, error) {
	path, err := os.MkdirTemp("", "remora-subs-*")
	if err != nil {
		return nil, fmt.Errorf("creating subtitle temp dir: %w", err)
	}
	return &TempDir{path: path}, nil
}

// Cleanup removes the directory and its contents.
func (d *TempDir) Cleanup() {
	os.RemoveAll(d.path)
}

// Download fetches a subtitle track into the temp directory and
// returns the local file path.
func (d *TempDir) Download(client *http.Client, sub media.Subtitle) (string, error) {
	resp, err := httputil.Get(client, sub.URL)
	if err != nil {
		return "", fmt.Errorf("fetching subtitle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("subtitle fetch returned status %d", resp.StatusCode)
	}

	name := httputil.SanitizeFilename(sub.Language + ".vtt")
	path := filepath.Join(d.path, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating subtitle file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing subtitle file: %w", err)
	}

	return path, nil
}

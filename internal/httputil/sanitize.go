package httputil

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// videoIDPattern matches YouTube video IDs (11 URL-safe base64 characters).
var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ValidateURL checks that a URL is well-formed and uses HTTP or HTTPS.
// Plain HTTP is allowed because self-hosted archive servers commonly
// run without TLS on a LAN.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("only HTTP(S) URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateVideoID checks that an ID looks like a YouTube video ID.
func ValidateVideoID(id string) error {
	if id == "" {
		return fmt.Errorf("video ID cannot be empty")
	}
	if !videoIDPattern.MatchString(id) {
		return fmt.Errorf("invalid video ID: %q", id)
	}
	return nil
}

// ExtractVideoID accepts a bare video ID or a YouTube watch/short URL
// and returns the 11-character ID.
func ExtractVideoID(arg string) (string, error) {
	if videoIDPattern.MatchString(arg) {
		return arg, nil
	}

	u, err := url.Parse(arg)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("not a video ID or URL: %q", arg)
	}

	// youtube.com/watch?v=ID
	if v := u.Query().Get("v"); v != "" {
		if err := ValidateVideoID(v); err != nil {
			return "", err
		}
		return v, nil
	}

	// youtu.be/ID and youtube.com/shorts/ID
	seg := strings.Trim(u.Path, "/")
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if err := ValidateVideoID(seg); err != nil {
		return "", fmt.Errorf("no video ID in %q", arg)
	}
	return seg, nil
}

// SanitizeFilename removes path traversal and dangerous characters from a filename.
// Returns just the base name, stripped of any directory components.
func SanitizeFilename(name string) string {
	// Take only the base name to strip directory components
	name = filepath.Base(name)

	// Replace characters that are problematic on various OSes
	replacer := strings.NewReplacer(
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	if name == "" || name == "." || name == ".." {
		return "untitled"
	}

	return name
}

// SafeDownloadPath resolves and validates a download path ensuring it stays within the target directory.
func SafeDownloadPath(dir, filename string) (string, error) {
	sanitized := SanitizeFilename(filename)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	full := filepath.Join(absDir, sanitized)

	// Resolve symlinks and verify containment
	resolved, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(resolved, absDir+string(filepath.Separator)) && resolved != absDir {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", resolved, absDir)
	}

	return resolved, nil
}

// BuildURL constructs a URL from base and path components, encoding each path segment.
func BuildURL(base string, pathSegments ...string) string {
	u := strings.TrimRight(base, "/")
	for _, seg := range pathSegments {
		u += "/" + url.PathEscape(seg)
	}
	return u
}

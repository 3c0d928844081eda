// Package download exports archived media files to local disk using
// ffmpeg. Uses exec.Command with explicit argument slices and
// validates output paths against directory traversal.
package download

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"remora/internal/httputil"
)

// Download fetches a media URL to a local file via ffmpeg stream copy.
// Returns the output path.
func Download(mediaURL, title, outputDir string) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	if err := httputil.ValidateURL(mediaURL); err != nil {
		return "", fmt.Errorf("invalid media URL: %w", err)
	}

	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := httputil.SanitizeFilename(title) + ".mp4"
	outputPath, err := httputil.SafeDownloadPath(absDir, filename)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	// The archive stores finished mp4 files; a stream copy avoids a
	// re-encode entirely.
	args := []string{
		"-y",
		"-i", mediaURL,
		"-c", "copy",
		outputPath,
	}

	cmd := exec.Command(ffmpegPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg failed: %w", err)
	}

	return outputPath, nil
}

package player

import (
	"fmt"
	"os"
	"os/exec"
)

// PlayVLC launches vlc as a blocking fallback. VLC has no IPC position
// tracking here, so playback runs without the interactive controller
// and the caller gets no final position back.
func PlayVLC(url string, opts StartOptions) error {
	args := []string{
		url,
		"--meta-title", opts.Title,
		"--play-and-exit",
	}
	if opts.StartPos > 0 {
		args = append(args, fmt.Sprintf("--start-time=%.0f", opts.StartPos))
	}
	for _, sub := range opts.SubFiles {
		args = append(args, "--sub-file", sub)
	}

	cmd := exec.Command("vlc", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// VLC exits non-zero on user close.
			return nil
		}
		return fmt.Errorf("running vlc: %w", err)
	}
	return nil
}

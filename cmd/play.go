package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remora/internal/api"
	"remora/internal/config"
	"remora/internal/history"
	"remora/internal/httputil"
	"remora/internal/media"
	"remora/internal/playback"
	"remora/internal/player"
	"remora/internal/subtitle"
	"remora/internal/tui"
	"remora/internal/ui"
)

// playRun is the default command: remora <video id or URL>
func playRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// No video named: pick one from the resume cache.
		if !ui.IsInteractive() {
			return fmt.Errorf("no video specified (pass a video ID or URL)")
		}
		return historyRun(cmd, args)
	}

	videoID, err := httputil.ExtractVideoID(args[0])
	if err != nil {
		return fmt.Errorf("unrecognized video reference %q: %w", args[0], err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	return playVideo(cmd.Context(), client, videoID)
}

// playVideo fetches metadata and runs the full playback flow.
func playVideo(ctx context.Context, client *api.Client, videoID string) error {
	video, err := client.Video(ctx, videoID)
	if err != nil {
		return err
	}
	debugf("video: %s (%s, %.0fs)", video.Title, video.ID, video.Duration)

	// JSON output mode
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(video)
	}

	startPos := resumePosition(video)
	debugf("starting at %.0fs", startPos)

	// Handle subtitles
	var subFile string
	if !flagNoSubs && len(video.Subtitles) > 0 {
		if best := subtitle.BestMatch(video.Subtitles, cfg.SubsLanguage); best != nil {
			tmpDir, err := subtitle.NewTempDir()
			if err == nil {
				defer tmpDir.Cleanup()
				subFile, err = tmpDir.Download(client.HTTPClient(), *best)
				if err != nil {
					debugf("subtitle download failed: %v", err)
					subFile = "" // Continue without subs
				}
			}
		}
	}

	capability := player.Detect(cfg.Player)
	opts := player.StartOptions{
		Title:    video.Title,
		StartPos: startPos,
	}
	if subFile != "" {
		opts.SubFiles = []string{subFile}
	}

	switch capability.Kind {
	case player.KindMPV:
		return playMPV(ctx, client, video, startPos, opts)
	case player.KindVLC:
		// No IPC: playback works, but positions are not tracked.
		fmt.Fprintln(os.Stderr, "mpv not found, falling back to vlc (no progress tracking)")
		return player.PlayVLC(video.MediaURL, opts)
	default:
		return fmt.Errorf("no supported player found in PATH (install mpv or vlc)")
	}
}

func playMPV(ctx context.Context, client *api.Client, video *media.Video, startPos float64, opts player.StartOptions) error {
	session := playback.NewSession(video.ID, video.Duration)
	session.CurrentTime = startPos
	session.Watched = video.Watched

	skipper := playback.NewSkipper(video.Sponsors)
	reporter := playback.NewReporter(session, client, skipper, debugf)

	mpv, err := player.Start(video.MediaURL, opts)
	if err != nil {
		return fmt.Errorf("starting mpv: %w", err)
	}
	defer mpv.Close()

	m := tui.New(video, session, reporter, skipper, mpv, mpv.Events())
	if err := tui.Run(m); err != nil {
		return err
	}

	// Final write with the last known position, then mirror it into
	// the local resume cache.
	upd := reporter.Finish(ctx)
	if upd.WatchedChanged {
		fmt.Fprintf(os.Stderr, "Marked as watched: %s\n", video.Title)
	}
	saveResume(video, session)

	return nil
}

// resumePosition picks where playback starts: the server position wins,
// the local resume cache covers a server that lost it.
func resumePosition(video *media.Video) float64 {
	pos := video.Position
	if pos == 0 {
		if entry, ok := localResume(video.ID); ok {
			pos = entry.Position
		}
	}
	if pos == 0 || video.Watched {
		return 0
	}
	if flagContinue {
		return pos
	}
	if ui.IsInteractive() {
		resume, err := ui.Confirm(fmt.Sprintf("Resume from %.0fs?", pos))
		if err == nil && resume {
			return pos
		}
		return 0
	}
	return pos
}

func localResume(videoID string) (media.ResumeEntry, bool) {
	if !cfg.History {
		return media.ResumeEntry{}, false
	}
	path, err := config.HistoryPath()
	if err != nil {
		return media.ResumeEntry{}, false
	}
	store, err := history.Open(path)
	if err != nil {
		debugf("opening resume cache: %v", err)
		return media.ResumeEntry{}, false
	}
	defer store.Close()

	entry, ok, err := store.Get(videoID)
	if err != nil {
		debugf("reading resume cache: %v", err)
		return media.ResumeEntry{}, false
	}
	return entry, ok
}

func saveResume(video *media.Video, session *playback.Session) {
	if !cfg.History {
		return
	}
	path, err := config.HistoryPath()
	if err != nil {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		debugf("opening resume cache: %v", err)
		return
	}
	defer store.Close()

	err = store.Save(media.ResumeEntry{
		VideoID:  video.ID,
		Title:    video.Title,
		Channel:  video.Channel,
		Position: session.CurrentTime,
		Duration: session.Duration,
		Watched:  session.Watched,
	})
	if err != nil {
		debugf("saving resume cache: %v", err)
	}
}

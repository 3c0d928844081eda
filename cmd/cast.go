package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"remora/internal/cast"
	"remora/internal/httputil"
	"remora/internal/playback"
)

const castPollInterval = time.Second

var flagCastDevice string

var castCmd = &cobra.Command{
	Use:   "cast <video>",
	Short: "Cast a video to a Chromecast and mirror progress",
	Args:  cobra.ExactArgs(1),
	RunE:  castRun,
}

func init() {
	castCmd.Flags().StringVarP(&flagCastDevice, "device", "d", "", "Chromecast device name (default from config)")
}

func castRun(cmd *cobra.Command, args []string) error {
	if !cast.Available() {
		return fmt.Errorf("catt not found in PATH (install with: pip install catt)")
	}

	videoID, err := httputil.ExtractVideoID(args[0])
	if err != nil {
		return fmt.Errorf("unrecognized video reference %q: %w", args[0], err)
	}

	device := cfg.CastDevice
	if flagCastDevice != "" {
		device = flagCastDevice
	}
	dev, err := cast.NewCatt(device)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	video, err := client.Video(ctx, videoID)
	if err != nil {
		return err
	}

	start := cast.StartOffset(resumePosition(video))
	debugf("casting %s from %.0fs", video.ID, start)

	if err := dev.Play(ctx, video.MediaURL, start); err != nil {
		return fmt.Errorf("starting cast: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Casting: %s\n", video.Title)

	session := playback.NewSession(video.ID, video.Duration)
	session.CurrentTime = start
	session.Watched = video.Watched

	skipper := playback.NewSkipper(video.Sponsors)
	reporter := playback.NewReporter(session, client, skipper, debugf)
	bridge := cast.NewBridge(video.ID, dev, session, reporter, skipper)

	err = pollCast(ctx, dev, bridge, video.ID)

	// Flush the final position regardless of how the loop ended. The
	// request context may already be cancelled here.
	upd := bridge.Finish(context.Background())
	if upd.WatchedChanged {
		fmt.Fprintf(os.Stderr, "Marked as watched: %s\n", video.Title)
	}
	saveResume(video, session)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pollCast polls the device until it stops playing this video.
func pollCast(ctx context.Context, dev cast.Device, bridge *cast.Bridge, videoID string) error {
	ticker := time.NewTicker(castPollInterval)
	defer ticker.Stop()

	seen := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		st, err := dev.Status(ctx)
		if err != nil {
			debugf("cast status: %v", err)
			continue
		}

		playing := !st.Idle && strings.Contains(st.ContentID, videoID)
		if playing {
			seen = true
		} else if seen {
			// The device finished the video or another sender took over.
			return nil
		}

		bridge.Observe(ctx, st)
	}
}

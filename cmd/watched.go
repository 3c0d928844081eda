package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"remora/internal/config"
	"remora/internal/history"
	"remora/internal/httputil"
)

var (
	flagUnwatch       bool
	flagClearProgress bool
)

var watchedCmd = &cobra.Command{
	Use:   "watched <video>",
	Short: "Mark a video watched or unwatched on the server",
	Args:  cobra.ExactArgs(1),
	RunE:  watchedRun,
}

func init() {
	watchedCmd.Flags().BoolVarP(&flagUnwatch, "unwatch", "u", false, "Mark as unwatched instead")
	watchedCmd.Flags().BoolVar(&flagClearProgress, "clear-progress", false, "Also reset the saved playback position")
}

func watchedRun(cmd *cobra.Command, args []string) error {
	videoID, err := httputil.ExtractVideoID(args[0])
	if err != nil {
		return fmt.Errorf("unrecognized video reference %q: %w", args[0], err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	watched := !flagUnwatch
	if err := client.SetWatched(ctx, videoID, watched); err != nil {
		return err
	}

	if flagClearProgress {
		if err := client.ClearProgress(ctx, videoID); err != nil {
			return err
		}
		// Keep the local cache in agreement with the server.
		if path, perr := config.HistoryPath(); perr == nil {
			if store, serr := history.Open(path); serr == nil {
				defer store.Close()
				if rerr := store.Remove(videoID); rerr != nil {
					debugf("removing cache entry: %v", rerr)
				}
			}
		}
	}

	if watched {
		fmt.Printf("Marked %s as watched.\n", videoID)
	} else {
		fmt.Printf("Marked %s as unwatched.\n", videoID)
	}
	return nil
}

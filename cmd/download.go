package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remora/internal/download"
	"remora/internal/httputil"
)

var flagOutputDir string

var downloadCmd = &cobra.Command{
	Use:   "download <video>",
	Short: "Export an archived video file with ffmpeg",
	Args:  cobra.ExactArgs(1),
	RunE:  downloadRun,
}

func init() {
	downloadCmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "Output directory (default from config)")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	videoID, err := httputil.ExtractVideoID(args[0])
	if err != nil {
		return fmt.Errorf("unrecognized video reference %q: %w", args[0], err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	video, err := client.Video(cmd.Context(), videoID)
	if err != nil {
		return err
	}

	dir := flagOutputDir
	if dir == "" {
		dir, err = cfg.ExpandDownloadDir()
		if err != nil {
			return fmt.Errorf("resolving download dir: %w", err)
		}
	}

	outputPath, err := download.Download(video.MediaURL, video.Title, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Downloaded: %s\n", outputPath)
	return nil
}

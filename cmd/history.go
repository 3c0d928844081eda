package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"remora/internal/config"
	"remora/internal/history"
	"remora/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resume a video from the local resume cache",
	RunE:  historyRun,
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return fmt.Errorf("resolving history path: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("opening resume cache: %w", err)
	}
	defer store.Close()

	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading resume cache: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := history.FormatForDisplay(entries)
	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}

	selected := entries[idx]
	debugf("resuming: %s (%s)", selected.Title, selected.VideoID)

	client, err := newClient()
	if err != nil {
		return err
	}

	// The cache entry already carries the position; skip the prompt.
	flagContinue = true
	return playVideo(cmd.Context(), client, selected.VideoID)
}

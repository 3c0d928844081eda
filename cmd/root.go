// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"remora/internal/api"
	"remora/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagServer   string
	flagToken    string
	flagPlayer   string
	flagLanguage string
	flagNoSubs   bool
	flagContinue bool
	flagJSON     bool
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "remora [video]",
	Short: "Watch your self-hosted YouTube archive from the terminal",
	Long: `Remora is a terminal client for a self-hosted YouTube archive server.
Play archived videos with mpv/vlc, resume where you left off, auto-skip
sponsor segments, cast to a Chromecast, or export files with ffmpeg.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              playRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Archive server base URL")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides cookie login)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc")
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Subtitle language (default: en)")
	rootCmd.PersistentFlags().BoolVarP(&flagNoSubs, "no-subs", "n", false, "Disable subtitles")
	rootCmd.PersistentFlags().BoolVarP(&flagContinue, "continue", "c", false, "Resume from the saved position without asking")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output video metadata as JSON instead of playing")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchedCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagServer != "" {
		cfg.Server = flagServer
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagLanguage != "" {
		cfg.SubsLanguage = flagLanguage
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetPrefix("[remora] ")
	} else {
		log.SetFlags(0)
	}

	return nil
}

// newClient builds the API client for the configured server.
func newClient() (*api.Client, error) {
	cookieFile, err := config.CookiePath()
	if err != nil {
		return nil, fmt.Errorf("resolving cookie path: %w", err)
	}

	return api.New(cfg.Server, api.Options{
		Token:      cfg.Token,
		CookieFile: cookieFile,
		OnRestart: func(previous, current string) {
			debugf("server restarted (start timestamp %s -> %s)", previous, current)
		},
		OnLogout: func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run: remora login")
		},
	})
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}

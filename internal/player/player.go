// Package player provides a secure interface for launching and
// controlling local media players. All invocations use exec.Command
// with explicit argument slices; mpv is driven over its JSON IPC
// socket, vlc is a launch-only fallback without position tracking.
package player

import "os/exec"

// CapabilityKind tags what the execution environment can play with.
type CapabilityKind int

const (
	// KindMPV means mpv is available: full IPC control, progress
	// tracking, sponsor skipping, and the interactive controller.
	KindMPV CapabilityKind = iota

	// KindVLC means only vlc is available: playback works but without
	// IPC control, so progress tracking degrades to start position only.
	KindVLC

	// KindUnsupported means no known player binary is in PATH.
	KindUnsupported
)

// Capability is the result of player detection, evaluated once at
// startup rather than inferred by scattered lookups.
type Capability struct {
	Kind CapabilityKind
	Path string // resolved binary path, empty for KindUnsupported
}

// Detect probes for the preferred player first, then falls back.
func Detect(preferred string) Capability {
	order := []string{"mpv", "vlc"}
	if preferred == "vlc" {
		order = []string{"vlc", "mpv"}
	}

	for _, name := range order {
		if path, err := exec.LookPath(name); err == nil {
			kind := KindMPV
			if name == "vlc" {
				kind = KindVLC
			}
			return Capability{Kind: kind, Path: path}
		}
	}
	return Capability{Kind: KindUnsupported}
}

// EventKind identifies a playback event from the running player.
type EventKind int

const (
	// EventTime is a playback position update.
	EventTime EventKind = iota

	// EventPause reports a pause-state change.
	EventPause

	// EventEnd means the file finished or the player quit.
	EventEnd
)

// Event is one playback event from the player process.
type Event struct {
	Kind   EventKind
	Time   float64 // position in seconds, for EventTime
	Paused bool    // new pause state, for EventPause
}

// StartOptions configures a playback launch.
type StartOptions struct {
	Title    string
	StartPos float64  // initial seek, seconds
	SubFiles []string // local subtitle files to load as tracks
}

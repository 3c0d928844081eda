// Package cast drives playback on a Chromecast and mirrors progress
// reporting from the local player. The device clock is the source of
// truth: position, pause state and segment skipping all follow the
// remote status, not a local timer.
package cast

import (
	"context"
	"strings"

	"remora/internal/playback"
)

// Status is a snapshot of remote playback as reported by the device.
type Status struct {
	ContentID   string
	CurrentTime float64
	Duration    float64
	Paused      bool
	Idle        bool
}

// Device is a minimal remote playback surface. Implementations must
// be safe to call from a polling loop.
type Device interface {
	Play(ctx context.Context, mediaURL string, start float64) error
	Seek(ctx context.Context, pos float64) error
	Status(ctx context.Context) (Status, error)
}

// StartOffset rewinds a resume position slightly so the viewer regains
// context after the cast handoff. Positions near the start play from
// the beginning.
func StartOffset(pos float64) float64 {
	if pos > 5 {
		return pos - 3
	}
	return 0
}

// Bridge folds remote status snapshots into progress reports and
// sponsor skips for a single video.
type Bridge struct {
	videoID  string
	dev      Device
	session  *playback.Session
	reporter *playback.Reporter
	skipper  *playback.Skipper

	wasPaused bool
}

func NewBridge(videoID string, dev Device, session *playback.Session, reporter *playback.Reporter, skipper *playback.Skipper) *Bridge {
	return &Bridge{
		videoID:  videoID,
		dev:      dev,
		session:  session,
		reporter: reporter,
		skipper:  skipper,
	}
}

// Observe processes one status snapshot. Snapshots for other content,
// such as a different app taking over the device, are ignored
// entirely: no progress write may be attributed to this video unless
// the device is actually playing it.
func (b *Bridge) Observe(ctx context.Context, st Status) playback.Update {
	if st.Idle || !strings.Contains(st.ContentID, b.videoID) {
		return playback.Update{}
	}

	t := st.CurrentTime
	b.session.CurrentTime = t
	if st.Duration > 0 {
		b.session.Duration = st.Duration
	}

	if b.skipper != nil {
		if seekTo, fired := b.skipper.Check(t); fired {
			_ = b.dev.Seek(ctx, seekTo)
			t = seekTo
			b.session.CurrentTime = t
		}
	}

	var upd playback.Update
	switch {
	case st.Paused && !b.wasPaused:
		// A pause gets one immediate write so the position survives
		// the viewer walking away.
		if b.reporter.PauseDue(t) {
			upd = b.reporter.Report(ctx, t)
		}
	case !st.Paused:
		if b.reporter.TickDue(t) {
			upd = b.reporter.Report(ctx, t)
		}
	}
	b.wasPaused = st.Paused

	return upd
}

// Finish flushes the final position when casting stops.
func (b *Bridge) Finish(ctx context.Context) playback.Update {
	return b.reporter.Finish(ctx)
}

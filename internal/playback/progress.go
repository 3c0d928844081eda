package playback

import (
	"context"
	"math"
)

const (
	// reportInterval is the playback-time spacing between progress writes.
	reportInterval = 10.0

	// reportEpsilon is the window after a 10s boundary in which a time
	// update counts as crossing it. Applied uniformly to the local and
	// remote (cast) clocks.
	reportEpsilon = 0.2

	// pauseReportMaxFraction bounds pause-triggered reports: a pause in
	// the last 5% of the video is left to the end-of-video report.
	pauseReportMaxFraction = 0.95
)

// ProgressWriter persists a playback position remotely. The returned
// watched flag is the server's own verdict, which may lead the local one.
type ProgressWriter interface {
	SaveProgress(ctx context.Context, videoID string, position float64) (watched bool, err error)
}

// Update is the outcome of one report, returned to the owning view
// so it decides how to react (refresh, autoplay) instead of being
// driven through injected callbacks.
type Update struct {
	Reported       bool // a write was dispatched
	WatchedChanged bool // server flipped watched and local state disagreed
	Ended          bool // end-of-video report
}

// Reporter throttles progress writes to one per 10-second window of
// playback and reconciles the server's watched flag into the session.
//
// Responses are consumed strictly for their watched signal: writes can
// resolve out of order, so a response must never overwrite the
// session's current time.
type Reporter struct {
	session *Session
	writer  ProgressWriter
	skipper *Skipper
	logf    func(format string, args ...any)

	lastWindow int // last reported 10s window, -1 before the first write
}

// NewReporter creates a reporter for the session. skipper may be nil;
// when set, its notice state is cleared on end-of-video. logf may be
// nil to discard write failures silently.
func NewReporter(session *Session, writer ProgressWriter, skipper *Skipper, logf func(string, ...any)) *Reporter {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Reporter{
		session:    session,
		writer:     writer,
		skipper:    skipper,
		logf:       logf,
		lastWindow: -1,
	}
}

// TickDue reports whether a time update at t crosses a reporting
// boundary. A boundary is crossed when t is within reportEpsilon past
// a multiple of reportInterval and that window has not reported yet,
// so a dense stream of updates inside one epsilon window dispatches at
// most once. Positions before the first boundary never report; that
// also covers the degenerate just-started-and-ended frame of a video
// shorter than the interval.
func (r *Reporter) TickDue(t float64) bool {
	if t < reportInterval {
		return false
	}
	if math.Mod(t, reportInterval) > reportEpsilon {
		return false
	}
	window := int(t / reportInterval)
	if window == r.lastWindow {
		return false
	}
	r.lastWindow = window
	return true
}

// PauseDue reports whether a user pause at t warrants one immediate
// write: past the first boundary but not in the final stretch the
// end-of-video report covers.
func (r *Reporter) PauseDue(t float64) bool {
	if t < reportInterval {
		return false
	}
	if r.session.Duration > 0 && t > pauseReportMaxFraction*r.session.Duration {
		return false
	}
	return true
}

// Save dispatches one progress write for the given position. A failed
// write is swallowed: the next cadence tick simply tries again, and
// losing a single sample is not user-visible. The returned verdict is
// only meaningful when ok is true.
//
// Save touches no session state, so the TUI can run it off the update
// loop and fold the verdict in later with Apply.
func (r *Reporter) Save(ctx context.Context, position float64) (watched, ok bool) {
	watched, err := r.writer.SaveProgress(ctx, r.session.VideoID, position)
	if err != nil {
		r.logf("progress write at %.1fs failed: %v", position, err)
		return false, false
	}
	return watched, true
}

// Apply folds a server watched verdict into the session.
func (r *Reporter) Apply(watched bool) Update {
	up := Update{Reported: true}
	if watched && !r.session.Watched {
		r.session.Watched = true
		up.WatchedChanged = true
	}
	return up
}

// Report is Save followed by Apply, for synchronous callers (the cast
// loop and the final write on teardown).
func (r *Reporter) Report(ctx context.Context, position float64) Update {
	watched, ok := r.Save(ctx, position)
	if !ok {
		return Update{Reported: true}
	}
	up := r.Apply(watched)
	return up
}

// Finish sends the end-of-video report with the last known position
// and clears any pending skip-notice state.
func (r *Reporter) Finish(ctx context.Context) Update {
	if r.skipper != nil {
		r.skipper.ClearNotices()
	}
	up := r.Report(ctx, r.session.CurrentTime)
	up.Ended = true
	return up
}

package playback

import "remora/internal/media"

const (
	// skipWindow is how far past a segment start a time update still
	// triggers the skip. Narrow so a user seeking into the middle of a
	// segment is not yanked out of it.
	skipWindow = 0.3

	// noticeLinger is how long past a segment end its "skipped" notice
	// stays claimable before the state resets.
	noticeLinger = 10.0
)

// Range is a fired skip's extent, kept for the one-time user notice.
// The zero Range marks a cleared notice.
type Range struct {
	From float64
	To   float64
}

// IsZero reports whether the notice has been cleared.
func (r Range) IsZero() bool {
	return r.From == 0 && r.To == 0
}

// Skipper checks playback positions against the video's sponsor
// segments. The segment list is fixed at session start; per-segment
// notice state is owned here, not in package scope, so concurrent
// sessions cannot collide.
type Skipper struct {
	segments []media.SponsorSegment
	state    map[string]Range
}

// NewSkipper creates a skipper over the server-supplied segment list.
func NewSkipper(segments []media.SponsorSegment) *Skipper {
	return &Skipper{
		segments: segments,
		state:    make(map[string]Range, len(segments)),
	}
}

// Check evaluates position t against every segment. If t falls in a
// segment's entry window the target to seek to is returned and the
// segment is recorded for the notice; re-entering the same window
// before the seek lands records identically and does not re-fire.
// Segments played well past their end have their notice state reset
// to the zero Range (reset, not deleted, to keep reads stable).
func (s *Skipper) Check(t float64) (seekTo float64, fired bool) {
	for _, seg := range s.segments {
		if seg.From <= t && t <= seg.From+skipWindow {
			if cur, ok := s.state[seg.ID]; !ok || cur.IsZero() {
				s.state[seg.ID] = Range{From: seg.From, To: seg.To}
				fired = true
			}
			seekTo = seg.To
		}
		if t > seg.To+noticeLinger {
			if cur, ok := s.state[seg.ID]; ok && !cur.IsZero() {
				s.state[seg.ID] = Range{}
			}
		}
	}
	return seekTo, fired
}

// Notice returns the recorded extent for a segment ID. The zero Range
// means no skip is pending a notice.
func (s *Skipper) Notice(id string) Range {
	return s.state[id]
}

// Pending reports whether any skip notice is awaiting display.
func (s *Skipper) Pending() bool {
	for _, r := range s.state {
		if !r.IsZero() {
			return true
		}
	}
	return false
}

// ClearNotices resets all notice state, as on end-of-video.
func (s *Skipper) ClearNotices() {
	for id := range s.state {
		s.state[id] = Range{}
	}
}

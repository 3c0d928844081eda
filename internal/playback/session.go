// Package playback implements the client-side playback state: the
// per-video session, the watch-progress reporter, and the sponsor
// segment skipper. The package is pure state-machine logic; it issues
// no player commands and owns no goroutines, so the owning view (TUI
// or cast loop) stays the single writer.
package playback

// Speeds is the fixed ascending playback speed table. Index 3 is 1.0x.
var Speeds = []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 1.75, 2.0, 2.25, 2.5, 2.75, 3.0}

// DefaultSpeedIndex selects 1.0x playback.
const DefaultSpeedIndex = 3

// Session is the ephemeral state of one mounted video. It is created
// when playback starts and discarded when the video changes; all skip
// and shortcut state lives here rather than in package-level variables
// so two concurrent sessions can never collide.
type Session struct {
	VideoID     string
	CurrentTime float64
	Duration    float64
	Watched     bool
	Muted       bool
	SpeedIndex  int

	// Caption track state: which track is showing (-1 for none) and
	// which track to restore when captions are toggled back on.
	captionTrack int
	lastTrack    int
}

// NewSession creates a session for the given video at the default speed
// with captions hidden.
func NewSession(videoID string, duration float64) *Session {
	return &Session{
		VideoID:      videoID,
		Duration:     duration,
		SpeedIndex:   DefaultSpeedIndex,
		captionTrack: -1,
		lastTrack:    0,
	}
}

// Speed returns the effective playback speed.
func (s *Session) Speed() float64 {
	return Speeds[s.SpeedIndex]
}

// SpeedUp moves one step up the speed table, clamped at the top.
// Returns the effective speed.
func (s *Session) SpeedUp() float64 {
	if s.SpeedIndex < len(Speeds)-1 {
		s.SpeedIndex++
	}
	return Speeds[s.SpeedIndex]
}

// SpeedDown moves one step down the speed table, clamped at the bottom.
func (s *Session) SpeedDown() float64 {
	if s.SpeedIndex > 0 {
		s.SpeedIndex--
	}
	return Speeds[s.SpeedIndex]
}

// SpeedReset returns the speed to 1.0x.
func (s *Session) SpeedReset() float64 {
	s.SpeedIndex = DefaultSpeedIndex
	return Speeds[s.SpeedIndex]
}

// ToggleMute flips the muted flag and returns the new value.
func (s *Session) ToggleMute() bool {
	s.Muted = !s.Muted
	return s.Muted
}

// CaptionTrack returns the showing caption track, or -1 if hidden.
func (s *Session) CaptionTrack() int {
	return s.captionTrack
}

// ToggleCaptions toggles the caption track among trackCount available
// tracks. Hiding remembers the showing track; showing restores the
// remembered one (first track by default), so repeated toggling does
// not fall back to track zero. With zero tracks it is a no-op and
// reports ok=false.
func (s *Session) ToggleCaptions(trackCount int) (track int, ok bool) {
	if trackCount == 0 {
		return -1, false
	}
	if s.captionTrack >= 0 {
		s.lastTrack = s.captionTrack
		s.captionTrack = -1
		return -1, true
	}
	restore := s.lastTrack
	if restore >= trackCount {
		restore = 0
	}
	s.captionTrack = restore
	return restore, true
}

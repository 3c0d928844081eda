package playback

import "testing"

func TestSpeedUpClampsAtTableMax(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)

	var speed float64
	for i := 0; i < 20; i++ {
		speed = s.SpeedUp()
	}
	if speed != 3.0 {
		t.Errorf("speed after 20 presses = %.2f, want 3.0", speed)
	}
	if s.SpeedIndex != len(Speeds)-1 {
		t.Errorf("speed index = %d, want %d", s.SpeedIndex, len(Speeds)-1)
	}
}

func TestSpeedDownClampsAtTableMin(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)

	var speed float64
	for i := 0; i < 20; i++ {
		speed = s.SpeedDown()
	}
	if speed != 0.25 {
		t.Errorf("speed after 20 presses = %.2f, want 0.25", speed)
	}
}

func TestSpeedReset(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)
	s.SpeedUp()
	s.SpeedUp()

	if got := s.SpeedReset(); got != 1.0 {
		t.Errorf("reset speed = %.2f, want 1.0", got)
	}
	if s.SpeedIndex != DefaultSpeedIndex {
		t.Errorf("speed index = %d, want %d", s.SpeedIndex, DefaultSpeedIndex)
	}
}

func TestToggleMute(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)

	if !s.ToggleMute() {
		t.Error("first toggle should mute")
	}
	if s.ToggleMute() {
		t.Error("second toggle should unmute")
	}
}

func TestToggleCaptionsNoTracks(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)

	track, ok := s.ToggleCaptions(0)
	if ok {
		t.Error("toggle with zero tracks must be a no-op")
	}
	if track != -1 || s.CaptionTrack() != -1 {
		t.Errorf("caption state changed: track=%d showing=%d", track, s.CaptionTrack())
	}
}

func TestToggleCaptionsRemembersTrack(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)

	// First show defaults to the first track.
	track, ok := s.ToggleCaptions(3)
	if !ok || track != 0 {
		t.Fatalf("first toggle: track=%d ok=%v, want 0 true", track, ok)
	}

	// User switches to track 2 out of band, then hides.
	s.captionTrack = 2
	if track, _ = s.ToggleCaptions(3); track != -1 {
		t.Fatalf("hide: track=%d, want -1", track)
	}

	// Showing again restores track 2, not track zero.
	if track, _ = s.ToggleCaptions(3); track != 2 {
		t.Errorf("restore: track=%d, want 2", track)
	}
}

func TestToggleCaptionsRememberedTrackGone(t *testing.T) {
	s := NewSession("dQw4w9WgXcQ", 1800)
	s.lastTrack = 5

	// Remembered track beyond the available count falls back to zero.
	track, ok := s.ToggleCaptions(2)
	if !ok || track != 0 {
		t.Errorf("track=%d ok=%v, want 0 true", track, ok)
	}
}

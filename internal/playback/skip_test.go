package playback

import (
	"testing"

	"remora/internal/media"
)

func segments(id string, from, to float64) []media.SponsorSegment {
	return []media.SponsorSegment{{From: from, To: to, ID: id}}
}

func TestSkipFiresInsideEntryWindow(t *testing.T) {
	sk := NewSkipper(segments("X", 30, 45))

	seekTo, fired := sk.Check(30.1)
	if !fired {
		t.Fatal("skip did not fire at 30.1")
	}
	if seekTo != 45 {
		t.Errorf("seek target = %.1f, want 45", seekTo)
	}
	if got := sk.Notice("X"); got != (Range{From: 30, To: 45}) {
		t.Errorf("notice = %+v, want {30 45}", got)
	}
}

func TestSkipRecordIdempotentInsideWindow(t *testing.T) {
	sk := NewSkipper(segments("X", 30, 45))

	sk.Check(30.05)
	// Re-entering the same narrow window before the seek lands: the
	// seek target is still returned, but the notice fires only once.
	seekTo, fired := sk.Check(30.2)
	if fired {
		t.Error("notice fired twice inside one entry window")
	}
	if seekTo != 45 {
		t.Errorf("seek target = %.1f, want 45", seekTo)
	}
	if got := sk.Notice("X"); got != (Range{From: 30, To: 45}) {
		t.Errorf("notice = %+v, want {30 45}", got)
	}
}

func TestSkipDoesNotFireOutsideWindow(t *testing.T) {
	sk := NewSkipper(segments("X", 30, 45))

	for _, pos := range []float64{29.9, 30.4, 37, 45.5} {
		if _, fired := sk.Check(pos); fired {
			t.Errorf("skip fired at %.1f", pos)
		}
	}
	if !sk.Notice("X").IsZero() {
		t.Error("notice recorded without a fired skip")
	}
}

func TestSkipNoticeResetsAfterLinger(t *testing.T) {
	sk := NewSkipper(segments("X", 30, 45))

	sk.Check(30.1)
	sk.Check(50) // past the segment, within the linger window
	if sk.Notice("X").IsZero() {
		t.Fatal("notice cleared too early")
	}

	sk.Check(56) // > to+10
	if got := sk.Notice("X"); !got.IsZero() {
		t.Errorf("notice = %+v, want zero after linger", got)
	}
	if sk.Pending() {
		t.Error("Pending() true after reset")
	}
}

func TestSkipReplaySafety(t *testing.T) {
	sk := NewSkipper(segments("X", 30, 45))

	// Seek back and forth across the segment several times.
	for i := 0; i < 3; i++ {
		if _, fired := sk.Check(30.1); !fired {
			t.Fatalf("replay %d: skip did not re-fire after reset", i)
		}
		sk.Check(56)
	}

	if got := sk.Notice("X"); !got.IsZero() {
		t.Errorf("notice = %+v, want zero after final reset", got)
	}
}

func TestSkipMultipleSegments(t *testing.T) {
	segs := []media.SponsorSegment{
		{From: 30, To: 45, ID: "X"},
		{From: 120, To: 150, ID: "Y"},
	}
	sk := NewSkipper(segs)

	if seekTo, fired := sk.Check(30.1); !fired || seekTo != 45 {
		t.Errorf("first segment: seekTo=%.1f fired=%v", seekTo, fired)
	}
	if seekTo, fired := sk.Check(120.2); !fired || seekTo != 150 {
		t.Errorf("second segment: seekTo=%.1f fired=%v", seekTo, fired)
	}

	// Playing past both clears both, in one pass.
	sk.Check(161)
	if sk.Pending() {
		t.Error("notices pending after playing past both segments")
	}
}

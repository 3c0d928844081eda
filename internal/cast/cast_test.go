package cast

import (
	"context"
	"testing"

	"remora/internal/media"
	"remora/internal/playback"
)

type fakeWriter struct {
	positions []float64
}

func (f *fakeWriter) SaveProgress(_ context.Context, _ string, pos float64) (bool, error) {
	f.positions = append(f.positions, pos)
	return false, nil
}

type fakeDevice struct {
	seeks []float64
}

func (f *fakeDevice) Play(context.Context, string, float64) error { return nil }
func (f *fakeDevice) Status(context.Context) (Status, error)      { return Status{}, nil }
func (f *fakeDevice) Seek(_ context.Context, pos float64) error {
	f.seeks = append(f.seeks, pos)
	return nil
}

func newTestBridge(segments []media.SponsorSegment) (*Bridge, *fakeWriter, *fakeDevice) {
	session := playback.NewSession("dQw4w9WgXcQ", 600)
	writer := &fakeWriter{}
	skipper := playback.NewSkipper(segments)
	reporter := playback.NewReporter(session, writer, skipper, nil)
	dev := &fakeDevice{}
	return NewBridge("dQw4w9WgXcQ", dev, session, reporter, skipper), writer, dev
}

func TestStartOffset(t *testing.T) {
	cases := []struct {
		pos, want float64
	}{
		{0, 0},
		{4, 0},
		{5, 0},
		{5.5, 2.5},
		{100, 97},
	}
	for _, c := range cases {
		if got := StartOffset(c.pos); got != c.want {
			t.Errorf("StartOffset(%v) = %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestObserveIgnoresForeignContent(t *testing.T) {
	b, writer, _ := newTestBridge(nil)

	st := Status{ContentID: "http://host/media/otherVideo1.mp4", CurrentTime: 30.0}
	upd := b.Observe(context.Background(), st)

	if upd.Reported {
		t.Error("report dispatched for content not matching the video")
	}
	if len(writer.positions) != 0 {
		t.Errorf("writes = %v, want none", writer.positions)
	}
}

func TestObserveIgnoresIdleDevice(t *testing.T) {
	b, writer, _ := newTestBridge(nil)

	st := Status{ContentID: "http://host/media/dQw4w9WgXcQ.mp4", CurrentTime: 30.0, Idle: true}
	b.Observe(context.Background(), st)

	if len(writer.positions) != 0 {
		t.Errorf("writes = %v, want none", writer.positions)
	}
}

func TestObserveRemoteCadence(t *testing.T) {
	b, writer, _ := newTestBridge(nil)

	contentID := "http://host/media/dQw4w9WgXcQ.mp4"
	// One snapshot per second, as the poll loop produces.
	for s := 0; s <= 60; s++ {
		b.Observe(context.Background(), Status{ContentID: contentID, CurrentTime: float64(s), Duration: 600})
	}

	want := []float64{10, 20, 30, 40, 50, 60}
	if len(writer.positions) != len(want) {
		t.Fatalf("writes = %v, want %v", writer.positions, want)
	}
	for i, pos := range want {
		if writer.positions[i] != pos {
			t.Errorf("write %d at %v, want %v", i, writer.positions[i], pos)
		}
	}
}

func TestObservePauseWritesOnce(t *testing.T) {
	b, writer, _ := newTestBridge(nil)
	contentID := "http://host/media/dQw4w9WgXcQ.mp4"

	paused := Status{ContentID: contentID, CurrentTime: 35.0, Duration: 600, Paused: true}
	b.Observe(context.Background(), paused)
	// The poll loop keeps seeing the same paused state.
	b.Observe(context.Background(), paused)
	b.Observe(context.Background(), paused)

	if len(writer.positions) != 1 || writer.positions[0] != 35.0 {
		t.Errorf("writes = %v, want exactly one at 35", writer.positions)
	}
}

func TestObserveSkipsSegmentOnDevice(t *testing.T) {
	segments := []media.SponsorSegment{{ID: "seg-a", From: 30, To: 45}}
	b, _, dev := newTestBridge(segments)
	contentID := "http://host/media/dQw4w9WgXcQ.mp4"

	b.Observe(context.Background(), Status{ContentID: contentID, CurrentTime: 30.1, Duration: 600})

	if len(dev.seeks) != 1 || dev.seeks[0] != 45 {
		t.Errorf("device seeks = %v, want [45]", dev.seeks)
	}
}

func TestParseInfo(t *testing.T) {
	out := []byte("content_id: http://host/media/dQw4w9WgXcQ.mp4\n" +
		"current_time: 83.4\n" +
		"duration: 600.0\n" +
		"player_state: PAUSED\n")

	st := parseInfo(out)
	if st.ContentID != "http://host/media/dQw4w9WgXcQ.mp4" {
		t.Errorf("ContentID = %q", st.ContentID)
	}
	if st.CurrentTime != 83.4 || st.Duration != 600.0 {
		t.Errorf("time = %v/%v, want 83.4/600", st.CurrentTime, st.Duration)
	}
	if !st.Paused || st.Idle {
		t.Errorf("state = paused %v idle %v, want paused", st.Paused, st.Idle)
	}
}

func TestParseInfoIdle(t *testing.T) {
	st := parseInfo([]byte("player_state: IDLE\n"))
	if !st.Idle {
		t.Error("IDLE state not mapped to idle")
	}
}

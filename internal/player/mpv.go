package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// MPV controls one mpv process over its JSON IPC socket. Uses
// exec.Command with explicit args (no shell interpretation) and a
// randomized temp path for the socket.
type MPV struct {
	cmd       *exec.Cmd
	conn      net.Conn
	socketDir string

	events chan Event

	mu      sync.Mutex
	nextID  int
	pending map[int]chan ipcResponse

	done chan struct{}
}

type ipcResponse struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
}

// Start launches mpv for the given URL and connects to its IPC socket.
func Start(url string, opts StartOptions) (*MPV, error) {
	socketDir, err := os.MkdirTemp("", "remora-mpv-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir for mpv socket: %w", err)
	}
	socketPath := filepath.Join(socketDir, "socket")

	args := []string{
		url,
		"--force-media-title=" + opts.Title,
		"--input-ipc-server=" + socketPath,
		"--really-quiet",
		"--keep-open=no",
	}
	if opts.StartPos > 0 {
		args = append(args, fmt.Sprintf("--start=+%.0f", opts.StartPos))
	}
	for _, sub := range opts.SubFiles {
		args = append(args, "--sub-file="+sub)
	}
	// Tracks start hidden; the controller decides visibility.
	if len(opts.SubFiles) > 0 {
		args = append(args, "--sub-visibility=no")
	}

	cmd := exec.Command("mpv", args...)
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		os.RemoveAll(socketDir)
		return nil, fmt.Errorf("starting mpv: %w", err)
	}

	m := &MPV{
		cmd:       cmd,
		socketDir: socketDir,
		events:    make(chan Event, 64),
		pending:   make(map[int]chan ipcResponse),
		nextID:    1,
		done:      make(chan struct{}),
	}

	conn, err := m.dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		os.RemoveAll(socketDir)
		return nil, err
	}
	m.conn = conn

	go m.readLoop()
	go m.reap()

	// Property observers drive the event stream.
	if err := m.command(nil, "observe_property", 1, "time-pos"); err != nil {
		m.Close()
		return nil, fmt.Errorf("observing time-pos: %w", err)
	}
	if err := m.command(nil, "observe_property", 2, "pause"); err != nil {
		m.Close()
		return nil, fmt.Errorf("observing pause: %w", err)
	}

	return m, nil
}

// dial waits for the IPC socket to appear, then connects.
func (m *MPV) dial(socketPath string) (net.Conn, error) {
	for i := 0; i < 50; i++ {
		if conn, err := net.Dial("unix", socketPath); err == nil {
			return conn, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil, fmt.Errorf("mpv IPC socket did not appear at %s", socketPath)
}

// Events returns the playback event stream. The channel is closed when
// the player process exits.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// readLoop parses IPC lines into events and command responses.
func (m *MPV) readLoop() {
	defer close(m.events)

	scanner := bufio.NewScanner(m.conn)
	for scanner.Scan() {
		line := scanner.Bytes()

		var raw struct {
			Event     string          `json:"event"`
			Name      string          `json:"name"`
			Data      json.RawMessage `json:"data"`
			Error     string          `json:"error"`
			RequestID *int            `json:"request_id"`
		}
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}

		// Command response: route to the waiting caller.
		if raw.Event == "" && raw.RequestID != nil {
			m.mu.Lock()
			ch, ok := m.pending[*raw.RequestID]
			if ok {
				delete(m.pending, *raw.RequestID)
			}
			m.mu.Unlock()
			if ok {
				ch <- ipcResponse{Error: raw.Error, Data: raw.Data, RequestID: *raw.RequestID}
			}
			continue
		}

		switch raw.Event {
		case "property-change":
			switch raw.Name {
			case "time-pos":
				var pos float64
				if err := json.Unmarshal(raw.Data, &pos); err == nil && pos >= 0 {
					m.emitTime(pos)
				}
			case "pause":
				var paused bool
				if err := json.Unmarshal(raw.Data, &paused); err == nil {
					m.events <- Event{Kind: EventPause, Paused: paused}
				}
			}
		case "end-file":
			m.events <- Event{Kind: EventEnd}
		}
	}
}

// emitTime delivers a position update, dropping it if the consumer is
// behind. Position updates are dense and individually expendable;
// pause and end events are never dropped.
func (m *MPV) emitTime(pos float64) {
	select {
	case m.events <- Event{Kind: EventTime, Time: pos}:
	default:
	}
}

// reap waits for the process and cleans up the socket dir.
func (m *MPV) reap() {
	m.cmd.Wait()
	close(m.done)
	m.conn.Close()
	os.RemoveAll(m.socketDir)
}

// command sends one IPC command and waits for its response. A non-nil
// out receives the response data.
func (m *MPV) command(out any, cmd ...any) error {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	ch := make(chan ipcResponse, 1)
	m.pending[id] = ch
	m.mu.Unlock()

	payload, err := json.Marshal(map[string]any{
		"command":    cmd,
		"request_id": id,
	})
	if err != nil {
		return fmt.Errorf("encoding mpv command: %w", err)
	}
	payload = append(payload, '\n')

	if _, err := m.conn.Write(payload); err != nil {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
		return fmt.Errorf("writing mpv command: %w", err)
	}

	select {
	case resp := <-ch:
		if resp.Error != "success" {
			return fmt.Errorf("mpv: %s", resp.Error)
		}
		if out != nil && resp.Data != nil {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return fmt.Errorf("decoding mpv response: %w", err)
			}
		}
		return nil
	case <-m.done:
		return fmt.Errorf("mpv exited")
	case <-time.After(5 * time.Second):
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
		return fmt.Errorf("mpv command timed out")
	}
}

// Seek jumps to an absolute position in seconds.
func (m *MPV) Seek(pos float64) error {
	return m.command(nil, "seek", pos, "absolute")
}

// SeekBy seeks relative to the current position.
func (m *MPV) SeekBy(delta float64) error {
	return m.command(nil, "seek", delta, "relative")
}

// TogglePause flips the pause state.
func (m *MPV) TogglePause() error {
	return m.command(nil, "cycle", "pause")
}

// SetSpeed sets the playback speed multiplier.
func (m *MPV) SetSpeed(speed float64) error {
	return m.command(nil, "set_property", "speed", speed)
}

// SetMute sets the mute flag.
func (m *MPV) SetMute(muted bool) error {
	return m.command(nil, "set_property", "mute", muted)
}

// ToggleFullscreen flips fullscreen on the mpv window.
func (m *MPV) ToggleFullscreen() error {
	return m.command(nil, "cycle", "fullscreen")
}

// SetCaptionTrack shows the given zero-based subtitle track, or hides
// captions for track < 0.
func (m *MPV) SetCaptionTrack(track int) error {
	if track < 0 {
		return m.command(nil, "set_property", "sub-visibility", false)
	}
	// mpv subtitle IDs are one-based.
	if err := m.command(nil, "set_property", "sid", track+1); err != nil {
		return err
	}
	return m.command(nil, "set_property", "sub-visibility", true)
}

// Position queries the current playback position.
func (m *MPV) Position() (float64, error) {
	var pos float64
	if err := m.command(&pos, "get_property", "time-pos"); err != nil {
		return 0, err
	}
	return pos, nil
}

// Close asks mpv to quit and waits for the process to exit.
func (m *MPV) Close() error {
	m.command(nil, "quit")

	select {
	case <-m.done:
	case <-time.After(3 * time.Second):
		m.cmd.Process.Kill()
		<-m.done
	}
	return nil
}

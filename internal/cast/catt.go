package cast

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Catt controls a Chromecast through the catt command line tool. All
// interaction is exec-based with explicit argument slices; nothing
// passes through a shell.
type Catt struct {
	path   string
	device string
}

// NewCatt locates the catt binary. device may be empty to use catt's
// default device selection.
func NewCatt(device string) (*Catt, error) {
	path, err := exec.LookPath("catt")
	if err != nil {
		return nil, fmt.Errorf("catt not found in PATH (install with: pip install catt): %w", err)
	}
	return &Catt{path: path, device: device}, nil
}

// Available reports whether catt is installed without constructing an
// adapter. Callers hide cast functionality entirely when it is not.
func Available() bool {
	_, err := exec.LookPath("catt")
	return err == nil
}

func (c *Catt) run(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+2)
	if c.device != "" {
		full = append(full, "-d", c.device)
	}
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, c.path, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("catt %s: %s", args[0], msg)
		}
		return nil, fmt.Errorf("catt %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

func (c *Catt) Play(ctx context.Context, mediaURL string, start float64) error {
	args := []string{"cast", mediaURL}
	if start > 0 {
		args = append(args, "--seek-to", strconv.Itoa(int(start)))
	}
	_, err := c.run(ctx, args...)
	return err
}

func (c *Catt) Seek(ctx context.Context, pos float64) error {
	_, err := c.run(ctx, "seek", strconv.Itoa(int(pos)))
	return err
}

func (c *Catt) Stop(ctx context.Context) error {
	_, err := c.run(ctx, "stop")
	return err
}

// Status polls the device. catt info prints one key: value pair per
// line; only the fields the bridge consumes are extracted.
func (c *Catt) Status(ctx context.Context) (Status, error) {
	out, err := c.run(ctx, "info")
	if err != nil {
		return Status{}, err
	}
	return parseInfo(out), nil
}

func parseInfo(out []byte) Status {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(out), "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	st := Status{ContentID: fields["content_id"]}
	st.CurrentTime, _ = strconv.ParseFloat(fields["current_time"], 64)
	st.Duration, _ = strconv.ParseFloat(fields["duration"], 64)

	switch fields["player_state"] {
	case "PAUSED":
		st.Paused = true
	case "IDLE", "UNKNOWN", "":
		st.Idle = true
	}
	return st
}

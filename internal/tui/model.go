// Package tui implements the interactive playback controller: a
// bubbletea program that renders the now-playing line, maps keyboard
// shortcuts onto the player, and drives the progress reporter and
// sponsor skipper from the player's event stream.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"remora/internal/media"
	"remora/internal/playback"
	"remora/internal/player"
)

const (
	// popupLinger is how long a transient popup stays visible.
	popupLinger = 500 * time.Millisecond

	// helpLinger is how long the help overlay stays open after being
	// opened before closing itself.
	helpLinger = 3 * time.Second

	seekStep = 5.0
)

// Controller is what the model needs from the player. *player.MPV
// satisfies it.
type Controller interface {
	Seek(pos float64) error
	SeekBy(delta float64) error
	TogglePause() error
	SetSpeed(speed float64) error
	SetMute(muted bool) error
	ToggleFullscreen() error
	SetCaptionTrack(track int) error
}

type (
	playerEventMsg  player.Event
	eventsClosedMsg struct{}
	popupExpiredMsg struct{ gen int }
	helpExpiredMsg  struct{ gen int }
	// progressSavedMsg carries a finished progress write back onto the
	// update loop, where its watched verdict is folded into the session.
	progressSavedMsg struct {
		watched bool
		ok      bool
	}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	popupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Model is the playback controller state.
type Model struct {
	video    *media.Video
	session  *playback.Session
	reporter *playback.Reporter
	skipper  *playback.Skipper
	ctrl     Controller
	events   <-chan player.Event

	keys keyMap
	bar  progress.Model
	help help.Model
	gotoInput textinput.Model

	paused   bool
	typing   bool
	showHelp bool
	helpGen  int
	popup    string
	popupGen int
	width    int
}

// New creates the controller model for one playback session.
func New(video *media.Video, session *playback.Session, reporter *playback.Reporter, skipper *playback.Skipper, ctrl Controller, events <-chan player.Event) Model {
	ti := textinput.New()
	ti.Placeholder = "mm:ss"
	ti.CharLimit = 9
	ti.Width = 10

	return Model{
		video:    video,
		session:  session,
		reporter: reporter,
		skipper:  skipper,
		ctrl:     ctrl,
		events:   events,
		keys:     defaultKeyMap(),
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		gotoInput:    ti,
		width:    80,
	}
}

// Init starts consuming player events.
func (m Model) Init() tea.Cmd {
	return m.waitEvent()
}

// waitEvent reads one player event off the stream.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return playerEventMsg(ev)
	}
}

// saveProgress runs one progress write off the update loop.
func (m Model) saveProgress(position float64) tea.Cmd {
	reporter := m.reporter
	return func() tea.Msg {
		watched, ok := reporter.Save(context.Background(), position)
		return progressSavedMsg{watched: watched, ok: ok}
	}
}

// showPopup sets transient popup content and restarts its timer;
// concurrent triggers restart rather than queue.
func (m *Model) showPopup(content string) tea.Cmd {
	m.popup = content
	m.popupGen++
	gen := m.popupGen
	return tea.Tick(popupLinger, func(time.Time) tea.Msg {
		return popupExpiredMsg{gen: gen}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case playerEventMsg:
		return m.handlePlayerEvent(player.Event(msg))

	case eventsClosedMsg:
		// Player process exited.
		return m, tea.Quit

	case popupExpiredMsg:
		// Only the latest trigger's timer may clear the content.
		if msg.gen == m.popupGen {
			m.popup = ""
		}
		return m, nil

	case helpExpiredMsg:
		if msg.gen == m.helpGen && m.showHelp {
			m.showHelp = false
			m.help.ShowAll = false
		}
		return m, nil

	case progressSavedMsg:
		if !msg.ok {
			return m, nil
		}
		if up := m.reporter.Apply(msg.watched); up.WatchedChanged {
			return m, m.showPopup("marked watched")
		}
		return m, nil
	}

	return m, nil
}

// handleKey maps shortcuts onto the player. Keys with alt held are
// ignored to stay out of the way of terminal and OS bindings, and all
// shortcuts are suspended while the goto input has focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		return m.handleGotoKey(msg)
	}
	if msg.Alt {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.ctrl.TogglePause()
		return m, nil

	case key.Matches(msg, m.keys.Mute):
		muted := m.session.ToggleMute()
		m.ctrl.SetMute(muted)
		if muted {
			return m, m.showPopup("muted")
		}
		return m, m.showPopup("unmuted")

	case key.Matches(msg, m.keys.Fullscreen):
		// Fullscreen failures surface as a transient note, never an error.
		if err := m.ctrl.ToggleFullscreen(); err != nil {
			return m, m.showPopup("fullscreen unavailable")
		}
		return m, nil

	case key.Matches(msg, m.keys.Captions):
		track, ok := m.session.ToggleCaptions(len(m.video.Subtitles))
		if !ok {
			return m, nil
		}
		m.ctrl.SetCaptionTrack(track)
		if track < 0 {
			return m, m.showPopup("captions off")
		}
		return m, m.showPopup("captions: " + m.video.Subtitles[track].Name)

	case key.Matches(msg, m.keys.SpeedUp):
		speed := m.session.SpeedUp()
		m.ctrl.SetSpeed(speed)
		return m, m.showPopup(fmt.Sprintf("%.2fx", speed))

	case key.Matches(msg, m.keys.SpeedDown):
		speed := m.session.SpeedDown()
		m.ctrl.SetSpeed(speed)
		return m, m.showPopup(fmt.Sprintf("%.2fx", speed))

	case key.Matches(msg, m.keys.SpeedReset):
		speed := m.session.SpeedReset()
		m.ctrl.SetSpeed(speed)
		return m, m.showPopup("1.00x")

	case key.Matches(msg, m.keys.SeekBack):
		m.ctrl.SeekBy(-seekStep)
		return m, nil

	case key.Matches(msg, m.keys.SeekForward):
		m.ctrl.SeekBy(seekStep)
		return m, nil

	case key.Matches(msg, m.keys.Goto):
		m.typing = true
		m.gotoInput.Reset()
		return m, m.gotoInput.Focus()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		if !m.showHelp {
			return m, nil
		}
		// Auto-close is armed on open only.
		m.helpGen++
		gen := m.helpGen
		return m, tea.Tick(helpLinger, func(time.Time) tea.Msg {
			return helpExpiredMsg{gen: gen}
		})
	}

	return m, nil
}

// handleGotoKey runs the goto-timestamp input while it has focus.
func (m Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.typing = false
		m.gotoInput.Blur()
		pos, err := parseTimestamp(m.gotoInput.Value())
		if err != nil {
			return m, m.showPopup("invalid time")
		}
		if m.session.Duration > 0 && pos > m.session.Duration {
			pos = m.session.Duration
		}
		m.ctrl.Seek(pos)
		return m, nil
	case "esc":
		m.typing = false
		m.gotoInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

// handlePlayerEvent folds one player event into the session and runs
// the skipper and the reporter cadence against it.
func (m Model) handlePlayerEvent(ev player.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitEvent()}

	switch ev.Kind {
	case player.EventTime:
		m.session.CurrentTime = ev.Time

		if seekTo, fired := m.skipper.Check(ev.Time); fired {
			m.ctrl.Seek(seekTo)
			cmds = append(cmds, m.showPopup(fmt.Sprintf("skipped sponsor segment to %s", formatTime(seekTo))))
		} else if seekTo > 0 {
			m.ctrl.Seek(seekTo)
		}

		if m.reporter.TickDue(ev.Time) {
			cmds = append(cmds, m.saveProgress(ev.Time))
		}

	case player.EventPause:
		m.paused = ev.Paused
		if ev.Paused && m.reporter.PauseDue(m.session.CurrentTime) {
			cmds = append(cmds, m.saveProgress(m.session.CurrentTime))
		}

	case player.EventEnd:
		// The final report happens on teardown, after the program exits.
		return m, tea.Quit
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	title := titleStyle.Render(m.video.Title)
	if m.video.Channel != "" {
		title += dimStyle.Render("  " + m.video.Channel)
	}

	state := formatTime(m.session.CurrentTime)
	if m.session.Duration > 0 {
		state += " / " + formatTime(m.session.Duration)
	}
	if m.session.Speed() != 1.0 {
		state += fmt.Sprintf("  %.2fx", m.session.Speed())
	}
	if m.session.Muted {
		state += "  [muted]"
	}
	if m.paused {
		state += "  [paused]"
	}
	if m.session.Watched {
		state += noticeStyle.Render("  ✓ watched")
	}

	var pct float64
	if m.session.Duration > 0 {
		pct = m.session.CurrentTime / m.session.Duration
		if pct > 1 {
			pct = 1
		}
	}

	lines := []string{
		title,
		m.bar.ViewAs(pct),
		dimStyle.Render(state),
	}

	if m.typing {
		lines = append(lines, "go to: "+m.gotoInput.View())
	}
	if m.popup != "" {
		lines = append(lines, popupStyle.Render(m.popup))
	}
	lines = append(lines, m.help.View(m.keys))

	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

// Run drives the controller program to completion.
func Run(m Model) error {
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playback controller: %w", err)
	}
	return nil
}

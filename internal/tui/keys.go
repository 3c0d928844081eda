package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the playback controller shortcuts.
type keyMap struct {
	PlayPause   key.Binding
	Mute        key.Binding
	Fullscreen  key.Binding
	Captions    key.Binding
	SpeedUp     key.Binding
	SpeedDown   key.Binding
	SpeedReset  key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	Goto        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		Captions: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "captions"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "speed up"),
		),
		SpeedDown: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "slow down"),
		),
		SpeedReset: key.NewBinding(
			key.WithKeys("="),
			key.WithHelp("=", "speed 1.0x"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "back 5s"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "forward 5s"),
		),
		Goto: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to time"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "shortcuts"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.SeekBack, k.SeekForward, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.SeekBack, k.SeekForward, k.Goto},
		{k.Mute, k.Fullscreen, k.Captions},
		{k.SpeedUp, k.SpeedDown, k.SpeedReset},
		{k.Help, k.Quit},
	}
}

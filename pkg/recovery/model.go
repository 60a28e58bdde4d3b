// Package recovery implements the startup prompt shown when a crashed
// session is found in the save store, or when no store is present at all.
// It is a small Bubble Tea model: the host runs it once at boot, it asks
// the user whether to restore the saved session, and it hands control back
// by requesting a level transition through the Navigator.
package recovery

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pigeonhole-games/partysave/pkg/savestate"
)

// Level identifies a host screen the prompt can hand control to.
type Level int

const (
	// LevelMainMenu is the host's main menu screen.
	LevelMainMenu Level = iota
	// LevelMinigame is the gameplay screen of the restored session.
	LevelMinigame
)

// String returns the level name for logs and test output.
func (l Level) String() string {
	switch l {
	case LevelMainMenu:
		return "mainmenu"
	case LevelMinigame:
		return "minigame"
	default:
		return "unknown"
	}
}

// Navigator is implemented by the host's screen/level manager.
type Navigator interface {
	ChangeLevel(Level)
}

// Mode is the prompt's display mode, recomputed from the engine's flags on
// every update rather than stored.
type Mode int

const (
	// ModeNormal: store present, no crash. The prompt skips itself.
	ModeNormal Mode = iota
	// ModeCrashed: store present and the previous session did not exit
	// cleanly. Binary restore/discard choice.
	ModeCrashed
	// ModeNoStore: no store detected. Single acknowledgement.
	ModeNoStore
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model is the Bubble Tea model for the recovery prompt.
type Model struct {
	engine *savestate.Engine
	nav    Navigator
	keys   keyMap

	selection int
	width     int
	height    int
	done      bool
}

// New creates a recovery prompt over an initialized engine.
func New(engine *savestate.Engine, nav Navigator) Model {
	return Model{
		engine: engine,
		nav:    nav,
		keys:   defaultKeyMap(),
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// Mode derives the current display mode from the engine's flags.
func (m Model) Mode() Mode {
	switch {
	case !m.engine.Available():
		return ModeNoStore
	case m.engine.CheckCrashed():
		return ModeCrashed
	default:
		return ModeNormal
	}
}

// Selection returns the current 0-based option index.
func (m Model) Selection() int {
	return m.selection
}

// Done reports whether the prompt has resolved and handed control back.
func (m Model) Done() bool {
	return m.done
}

func (m Model) maxSelection() int {
	if m.Mode() == ModeCrashed {
		return 2
	}
	return 1
}

// Init implements tea.Model. In normal mode there is nothing to ask: the
// prompt immediately sends the host to the main menu and quits.
func (m Model) Init() tea.Cmd {
	if m.Mode() == ModeNormal {
		m.nav.ChangeLevel(LevelMainMenu)
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.selection = (m.selection + 1) % m.maxSelection()
		case key.Matches(msg, m.keys.Right):
			max := m.maxSelection()
			m.selection = (m.selection + max - 1) % max
		case key.Matches(msg, m.keys.Confirm):
			return m.confirm()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}

	return m, nil
}

// confirm dispatches the selected option for the current mode. Restoring a
// crashed session loads the record back into the host and jumps into
// gameplay; declining clears the crash flag first so the prompt does not
// reappear next boot.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	if m.Mode() == ModeCrashed && m.selection == 0 {
		m.engine.Load()
		m.nav.ChangeLevel(LevelMinigame)
	} else {
		if m.Mode() == ModeCrashed {
			m.engine.Clear()
		}
		m.nav.ChangeLevel(LevelMainMenu)
	}
	m.done = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var content string
	switch m.Mode() {
	case ModeCrashed:
		content = m.viewCrashed()
	case ModeNoStore:
		content = m.viewNoStore()
	default:
		return ""
	}

	return screenStyle.Width(m.width).Height(m.height).Render(
		lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content),
	)
}

func (m Model) viewCrashed() string {
	var b strings.Builder
	b.WriteString(warningStyle.Render("A crash was detected.\nWould you like to restore the save?"))
	b.WriteString("\n\n")

	options := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderOption("Yes", 0),
		m.renderOption("No", 1),
	)
	b.WriteString(lipgloss.PlaceHorizontal(lipgloss.Width(b.String()), lipgloss.Center, options))
	return b.String()
}

func (m Model) viewNoStore() string {
	var b strings.Builder
	b.WriteString(warningStyle.Render("EEPROM save was not detected.\n\nIf the game crashes, you will\nnot be able to restore it."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(lipgloss.Width(b.String()), lipgloss.Center, m.renderOption("Ok", 0)))
	return b.String()
}

func (m Model) renderOption(label string, index int) string {
	if m.selection == index {
		return selectedOptionStyle.Render(label)
	}
	return optionStyle.Render(label)
}

package main

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/promptdj/internal/composition"
	"github.com/JaimeStill/promptdj/internal/host"
	"github.com/JaimeStill/promptdj/pkg/failure"
)

const (
	// headerRows is the number of rendered rows above the first prompt.
	headerRows = 1
	// wheelStep matches one notch of a browser wheel.
	wheelStep = 120
	// columnTravel is the drag distance credited per terminal column.
	columnTravel = 5
	minBarWidth  = 10
	chromeWidth  = 30
)

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	helpText    = "wheel or drag a row  l learn  +/- bpm  q quit"
)

type tickMsg time.Time

// errMsg carries an error notification from the event hub.
type errMsg struct{ message string }

type model struct {
	view     *composition.View
	interval time.Duration
	width    int
	selected string
	dragging bool
	status   string
	failure  string
}

func newModel(view *composition.View, interval time.Duration) model {
	return model{view: view, interval: interval, width: 80}
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, m.tick()
	case errMsg:
		m.failure = msg.message
	case tea.KeyMsg:
		return m.key(msg)
	case tea.MouseMsg:
		return m.mouse(msg), nil
	}
	return m, nil
}

func (m model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.view.Pointer().Cancel()
		return m, tea.Quit
	case "+", "=":
		m.status = fmt.Sprintf("bpm %d", m.view.SetBPM(m.view.BPM()+1))
	case "-":
		m.status = fmt.Sprintf("bpm %d", m.view.SetBPM(m.view.BPM()-1))
	case "l":
		m = m.learn()
	case "esc":
		m.failure = ""
	}
	return m, nil
}

func (m model) learn() model {
	if m.selected == "" {
		m.status = "select a row first"
		return m
	}
	if err := m.view.Learn(m.selected); err != nil {
		_, message := failure.Describe(err)
		m.failure = message
		return m
	}
	m.status = "move a controller to bind " + m.selected
	return m
}

func (m model) mouse(msg tea.MouseMsg) model {
	switch {
	case msg.Action == tea.MouseActionMotion:
		if m.dragging {
			m.view.Pointer().Move(coord(msg.X))
		}
		return m
	case msg.Action == tea.MouseActionRelease:
		if m.dragging {
			m.view.Pointer().Up()
			m.dragging = false
		}
		return m
	case msg.Action != tea.MouseActionPress:
		return m
	}

	id, ok := m.rowID(msg.Y)
	if !ok {
		return m
	}
	m.selected = id

	var err error
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		_, err = m.view.Wheel(id, -wheelStep)
	case tea.MouseButtonWheelDown:
		_, err = m.view.Wheel(id, wheelStep)
	case tea.MouseButtonLeft:
		if _, err = m.view.BeginDrag(id, coord(msg.X)); err == nil {
			m.dragging = true
		}
	}
	if err != nil {
		m.status = err.Error()
	}
	return m
}

// rowID maps a terminal row to the prompt drawn on it.
func (m model) rowID(y int) (string, bool) {
	ids := m.view.IDs()
	i := y - headerRows
	if i < 0 || i >= len(ids) {
		return "", false
	}
	return ids[i], true
}

// coord turns a column into a pointer coordinate. Coordinates grow downward
// for the weight mapper, so moving right must shrink them.
func coord(x int) float64 {
	return -float64(x * columnTravel)
}

func (m model) View() string {
	bar := max(m.width-chromeWidth, minBarWidth)

	footer := statusStyle.Render(helpText)
	if m.status != "" {
		footer = statusStyle.Render(m.status + "  |  " + helpText)
	}

	parts := []string{m.view.Render(bar), footer}
	if m.failure != "" {
		parts = append(parts, errorStyle.Render(m.failure+"  (esc to dismiss)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// errorFrom decodes a hub error event for display.
func errorFrom(event host.Event) errMsg {
	var e host.ErrorEvent
	if err := json.Unmarshal(event.Data, &e); err != nil {
		return errMsg{message: "unreadable error event"}
	}
	return errMsg{message: e.Message}
}

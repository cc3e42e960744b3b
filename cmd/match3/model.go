package main

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/match3-kernel/internal/kernel"
)

type model struct {
	sess   *kernel.Session
	cursor kernel.Position
	log    []string
	quit   bool
}

func newModel(sess *kernel.Session) model {
	return model{sess: sess}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.sess.State().SimulationTime)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		dt := 1.0 / 60.0
		tr := m.sess.Tick(dt)
		m.appendLog(tr)
		return m, tickCmd(dt)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) appendLog(tr kernel.TickResult) {
	for _, e := range m.sess.Events() {
		m.log = append(m.log, describeEvent(e))
	}
	if len(m.log) > 8 {
		m.log = m.log[len(m.log)-8:]
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w, h := m.sess.State().Width, m.sess.State().Height
	switch msg.String() {
	case "q", "ctrl+c":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor.Y > 0 {
			m.cursor.Y--
		}
	case "down", "j":
		if m.cursor.Y < h-1 {
			m.cursor.Y++
		}
	case "left", "h":
		if m.cursor.X > 0 {
			m.cursor.X--
		}
	case "right", "l":
		if m.cursor.X < w-1 {
			m.cursor.X++
		}
	case "p":
		m.sess.SetPaused(!m.sess.Paused())
	case " ", "enter":
		m.sess.HandleTap(m.cursor)
	}
	return m, nil
}

func (m model) View() string {
	if m.quit {
		return "bye\n"
	}
	return renderBoard(m.sess.State(), m.cursor) + "\n" + renderHUD(m.sess.State(), m.log)
}

func describeEvent(e kernel.Event) string {
	switch ev := e.(type) {
	case *kernel.TileDestroyedEvent:
		return "destroyed " + ev.Color.String() + " at " + posString(ev.Pos)
	case *kernel.BombCreatedEvent:
		return "bomb created at " + posString(ev.Pos)
	case *kernel.BombActivatedEvent:
		return "bomb activated at " + posString(ev.Pos)
	case *kernel.ScoreAddedEvent:
		return "+score"
	case *kernel.LevelCompletedEvent:
		return "level complete"
	default:
		return "event"
	}
}

func posString(p kernel.Position) string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}

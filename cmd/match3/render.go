package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/match3-kernel/internal/kernel"
)

var (
	cellStyles = map[kernel.Color]lipgloss.Style{
		kernel.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")),
		kernel.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#44ff44")),
		kernel.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4488ff")),
		kernel.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff44")),
		kernel.Purple: lipgloss.NewStyle().Foreground(lipgloss.Color("#cc44ff")),
		kernel.Orange: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8844")),
	}
	rainbowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#333344"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#444466"))
	boardBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaacc")).Padding(0, 1)
	logStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

func tileGlyph(t kernel.Tile) string {
	switch {
	case t.IsEmpty():
		return "·"
	case t.Color == kernel.Rainbow:
		return "*"
	case t.Bomb == kernel.BombHorizontal:
		return "―"
	case t.Bomb == kernel.BombVertical:
		return "|"
	case t.Bomb == kernel.BombSquare:
		return "■"
	case t.Bomb == kernel.BombUFO:
		return "@"
	default:
		return "●"
	}
}

func renderBoard(g *kernel.GameState, cursor kernel.Position) string {
	var rows []string
	for y := 0; y < g.Height; y++ {
		var cells []string
		for x := 0; x < g.Width; x++ {
			p := kernel.Position{X: x, Y: y}
			t := g.GetTile(p)
			glyph := tileGlyph(t)

			style := emptyStyle
			if !t.IsEmpty() {
				if t.Color == kernel.Rainbow {
					style = rainbowStyle
				} else if s, ok := cellStyles[t.Color]; ok {
					style = s
				}
			}
			rendered := style.Render(glyph)
			if p == cursor {
				rendered = cursorStyle.Render(rendered)
			}
			cells = append(cells, rendered)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return boardBoxStyle.Render(strings.Join(rows, "\n"))
}

func renderHUD(g *kernel.GameState, log []string) string {
	var lines []string
	lines = append(lines, "score "+strconv.Itoa(int(g.Score)))
	lines = append(lines, "moves "+strconv.Itoa(g.MoveCount)+"/"+strconv.Itoa(g.MoveLimit))
	for _, obj := range g.Objectives {
		lines = append(lines, kernel.Color(obj.ElementType).String()+" "+strconv.Itoa(obj.Progress)+"/"+strconv.Itoa(obj.RequiredCount))
	}
	lines = append(lines, "")
	lines = append(lines, "arrows/hjkl move cursor, space/enter select+swap, p pause, q quit")
	lines = append(lines, "")
	for _, l := range log {
		lines = append(lines, logStyle.Render(l))
	}
	return hudStyle.Render(strings.Join(lines, "\n"))
}

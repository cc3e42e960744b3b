// Command match3 is a terminal demo host for the kernel package: it builds
// one local Session, drives it with a fixed-step bubbletea tick, and renders
// the board with lipgloss. It exercises the kernel the way a real game host
// would, but owns none of the kernel's logic itself.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/match3-kernel/internal/kernel"
)

func main() {
	width := flag.Int("width", 8, "board width")
	height := flag.Int("height", 8, "board height")
	colors := flag.Int("colors", 5, "tile-type count")
	seed := flag.Int64("seed", 0, "master RNG seed (0 lets the kernel pick its reserved fallback)")
	flag.Parse()

	sess, err := kernel.NewSession(kernel.SessionConfig{
		Width:                 *width,
		Height:                *height,
		TileTypesCount:        *colors,
		RNGSeed:               int32(*seed),
		Simulation:            kernel.DefaultSimulationConfig(),
		EnableEventCollection: true,
		Level: &kernel.LevelConfig{
			Objectives: []kernel.Objective{
				{Layer: kernel.ObjectiveTile, ElementType: int(kernel.Red), RequiredCount: 15},
				{Layer: kernel.ObjectiveTile, ElementType: int(kernel.Blue), RequiredCount: 15},
			},
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "match3:", err)
		os.Exit(1)
	}

	for i := 0; i < sess.State().Width*sess.State().Height; i++ {
		sess.Tick(0)
	}
	sess.RunUntilStable()

	p := tea.NewProgram(newModel(sess))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "match3:", err)
		os.Exit(1)
	}
}

type tickMsg time.Time

func tickCmd(dt float64) tea.Cmd {
	return tea.Tick(time.Duration(dt*1000)*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

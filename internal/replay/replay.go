// Package replay serializes a session's persisted state layout (spec.md §6:
// master seed, board dimensions, level config, and a normalized input
// sequence) to and from YAML, so a trajectory recorded against one session
// can be reconstructed byte-identically against a fresh one later. Modeled
// on dshills-dungo's pkg/dungeon/config.go LoadConfig/Validate shape.
package replay

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/amalg/match3-kernel/internal/kernel"
)

// ActionKind tags one recorded input's type (spec.md §6 "Move(from,to),
// Tap(p), ActivateBomb(p)").
type ActionKind string

const (
	ActionMove          ActionKind = "move"
	ActionTap           ActionKind = "tap"
	ActionActivateBomb  ActionKind = "activateBomb"
)

// InputEntry is one normalized player input, timestamped in ticks rather
// than wall-clock time so replay stays independent of how fast the original
// session ran.
type InputEntry struct {
	Tick   int             `yaml:"tick"`
	Kind   ActionKind      `yaml:"kind"`
	From   kernel.Position `yaml:"from,omitempty"`
	To     kernel.Position `yaml:"to,omitempty"`
	Target kernel.Position `yaml:"target,omitempty"`
}

// Level mirrors kernel.LevelConfig in a YAML-friendly shape; kernel.Color
// and friends are already plain ints so they round-trip through yaml.v3
// without custom marshaling.
type Level struct {
	Grid             []kernel.Color     `yaml:"grid"`
	Bombs            []kernel.BombKind  `yaml:"bombs,omitempty"`
	Covers           []kernel.CoverKind `yaml:"covers,omitempty"`
	CoverHealth      []int              `yaml:"coverHealth,omitempty"`
	Grounds          []kernel.GroundKind `yaml:"grounds,omitempty"`
	GroundHealth     []int              `yaml:"groundHealth,omitempty"`
	MoveLimit        int                `yaml:"moveLimit"`
	TargetDifficulty float64            `yaml:"targetDifficulty"`
	Objectives       []kernel.Objective `yaml:"objectives,omitempty"`
}

func (l Level) toKernel() *kernel.LevelConfig {
	return &kernel.LevelConfig{
		Grid:             l.Grid,
		Bombs:            l.Bombs,
		Covers:           l.Covers,
		CoverHealth:      l.CoverHealth,
		Grounds:          l.Grounds,
		GroundHealth:     l.GroundHealth,
		MoveLimit:        l.MoveLimit,
		TargetDifficulty: l.TargetDifficulty,
		Objectives:       l.Objectives,
	}
}

func levelFromKernel(lvl *kernel.LevelConfig) Level {
	if lvl == nil {
		return Level{}
	}
	return Level{
		Grid:             lvl.Grid,
		Bombs:            lvl.Bombs,
		Covers:           lvl.Covers,
		CoverHealth:      lvl.CoverHealth,
		Grounds:          lvl.Grounds,
		GroundHealth:     lvl.GroundHealth,
		MoveLimit:        lvl.MoveLimit,
		TargetDifficulty: lvl.TargetDifficulty,
		Objectives:       lvl.Objectives,
	}
}

// Replay is the persisted form of one session: everything NewSession needs
// to rebuild an identical starting board, plus the input log that drives it
// forward (spec.md §6).
type Replay struct {
	SessionID      string                  `yaml:"sessionID"`
	Width          int                     `yaml:"width"`
	Height         int                     `yaml:"height"`
	TileTypesCount int                     `yaml:"tileTypesCount"`
	RNGSeed        int32                   `yaml:"rngSeed"`
	Simulation     kernel.SimulationConfig `yaml:"simulation"`
	Level          Level                   `yaml:"level"`
	Inputs         []InputEntry            `yaml:"inputs"`
}

// New builds an empty Replay for a freshly constructed session, stamping it
// with a random SessionID (google/uuid, the way other_examples' per-entity
// identifiers do) so two recordings of the same seed are still distinguishable
// on disk.
func New(cfg kernel.SessionConfig) Replay {
	return Replay{
		SessionID:      uuid.NewString(),
		Width:          cfg.Width,
		Height:         cfg.Height,
		TileTypesCount: cfg.TileTypesCount,
		RNGSeed:        cfg.RNGSeed,
		Simulation:     cfg.Simulation,
		Level:          levelFromKernel(cfg.Level),
	}
}

// RecordMove appends a Move input at the given tick.
func (r *Replay) RecordMove(tick int, from, to kernel.Position) {
	r.Inputs = append(r.Inputs, InputEntry{Tick: tick, Kind: ActionMove, From: from, To: to})
}

// RecordTap appends a Tap input at the given tick.
func (r *Replay) RecordTap(tick int, p kernel.Position) {
	r.Inputs = append(r.Inputs, InputEntry{Tick: tick, Kind: ActionTap, Target: p})
}

// RecordActivateBomb appends an ActivateBomb input at the given tick.
func (r *Replay) RecordActivateBomb(tick int, p kernel.Position) {
	r.Inputs = append(r.Inputs, InputEntry{Tick: tick, Kind: ActionActivateBomb, Target: p})
}

// SessionConfig rebuilds the kernel.SessionConfig this replay was recorded
// against, for NewSession.
func (r Replay) SessionConfig() kernel.SessionConfig {
	return kernel.SessionConfig{
		Width:                 r.Width,
		Height:                r.Height,
		TileTypesCount:        r.TileTypesCount,
		RNGSeed:               r.RNGSeed,
		Simulation:            r.Simulation,
		EnableEventCollection: false,
		Level:                 r.Level.toKernel(),
	}
}

// Apply replays every recorded input against sess in order, calling Tick
// whenever an input's tick has advanced past the session's current tick so
// the intervening simulation frames run the same way they did when the
// replay was recorded. dt must match the Simulation.FixedDeltaTime the
// replay was recorded with.
func (r Replay) Apply(sess *kernel.Session, dt float64) error {
	for _, in := range r.Inputs {
		for sess.State().CurrentTick < in.Tick {
			sess.Tick(dt)
		}
		switch in.Kind {
		case ActionMove:
			sess.ApplyMove(in.From, in.To)
		case ActionTap:
			sess.HandleTap(in.Target)
		case ActionActivateBomb:
			sess.ActivateBomb(in.Target)
		default:
			return fmt.Errorf("replay: unknown action kind %q", in.Kind)
		}
	}
	return nil
}

// Save writes r to path as YAML.
func (r Replay) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("replay: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a Replay previously written by Save.
func Load(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	var r Replay
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: unmarshal %s: %w", path, err)
	}
	return &r, nil
}

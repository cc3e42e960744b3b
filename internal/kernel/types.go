// Package kernel implements the deterministic match-3 simulation core: grid
// state, physics, match/bomb resolution, projectiles, and the tick
// orchestrator. The package performs no I/O and owns no goroutines — callers
// drive it one tick at a time.
package kernel

// Color is the color/kind tag carried by a non-empty tile.
type Color int

const (
	ColorNone Color = iota
	Red
	Green
	Blue
	Yellow
	Purple
	Orange
	Rainbow
	BombCarrier
)

// String renders a Color for logs and test failure messages.
func (c Color) String() string {
	switch c {
	case ColorNone:
		return "None"
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	case Yellow:
		return "Yellow"
	case Purple:
		return "Purple"
	case Orange:
		return "Orange"
	case Rainbow:
		return "Rainbow"
	case BombCarrier:
		return "BombCarrier"
	default:
		return "Unknown"
	}
}

// BaseColors are the ordinary matchable colors, in deterministic iteration
// order; SpawnModel and PowerUpHandler both depend on this order for
// tie-breaking and "most common color" selection.
var BaseColors = []Color{Red, Green, Blue, Yellow, Purple, Orange}

// BombKind identifies the one-shot effect a bomb tile detonates into.
type BombKind int

const (
	BombNone BombKind = iota
	BombHorizontal
	BombVertical
	BombSquare
	BombRainbow
	BombUFO
)

// GroundKind identifies the static below-tile layer.
type GroundKind int

const (
	GroundNone GroundKind = iota
	GroundIce
)

// CoverKind identifies the above-tile protective layer.
type CoverKind int

const (
	CoverNone CoverKind = iota
	CoverCage
	CoverChain
	CoverBubble
)

// Position is a logical grid coordinate. The zero value (0,0) is a valid
// position; use GameState.IsValid to test bounds, never a sentinel Position.
type Position struct {
	X, Y int
}

// Vec2 is a continuous 2-D quantity (position or velocity), in cell units.
type Vec2 struct {
	X, Y float64
}

// noSelection is a sentinel for "no cell selected". GameState does not use
// it: it stores the selection as a bool + Position pair instead of a
// pointer so GameState stays copyable by value where convenient.
const noSelection = -1

// Tile is one cell's content on the primary layer.
//
// Invariant: Color == ColorNone iff ID == 0 and Bomb == BombNone (spec.md §3).
type Tile struct {
	ID        uint64
	Color     Color
	Bomb      BombKind
	Pos       Vec2
	Vel       Vec2
	Falling   bool
	Suspended bool
}

// IsEmpty reports whether the tile is the Empty sentinel.
func (t Tile) IsEmpty() bool { return t.Color == ColorNone }

// Ground is the below-tile static layer.
type Ground struct {
	Kind   GroundKind
	Health int
}

// Cover is the above-tile protective layer.
type Cover struct {
	Kind    CoverKind
	Health  int
	Dynamic bool // moves with its tile when true
}

// ObjectiveLayer names the board layer an Objective counts cleared elements on.
type ObjectiveLayer int

const (
	ObjectiveTile ObjectiveLayer = iota
	ObjectiveCover
	ObjectiveGround
)

// Objective is one entry of a level's goal list.
type Objective struct {
	Layer         ObjectiveLayer
	ElementType   int // Color, CoverKind, or GroundKind, depending on Layer
	RequiredCount int
	Progress      int
}

// Done reports whether this objective's target has been reached.
func (o Objective) Done() bool { return o.Progress >= o.RequiredCount }

// SpawnContext is handed to the SpawnModel to pick a difficulty-aware
// replacement color (spec.md §4.7).
type SpawnContext struct {
	TargetDifficulty float64 // [0,1]
	RemainingMoves   int
	GoalProgress     float64 // [0,1]
	FailedAttempts   int
	InFlowState      bool
}

package kernel

// GameState is the authoritative snapshot a Session owns exclusively. It is
// mutated only by the orchestrator and the subsystems it calls, each of
// which receives *GameState by borrow for one call and holds no reference
// to it afterward (spec.md §3 Ownership).
type GameState struct {
	Width, Height  int
	TileTypesCount int

	tiles   []Tile
	grounds []Ground
	covers  []Cover

	Score            int64
	MoveCount        int
	MoveLimit        int
	TargetDifficulty float64

	selected     Position
	hasSelection bool

	Seeds      *SeedManager
	NextTileID uint64

	Objectives []Objective

	CurrentTick    int
	SimulationTime float64
}

// NewGameState allocates an empty width×height board. Every cell starts
// Empty/None on all three layers — callers populate it via SetTile etc., or
// Session applies a LevelConfig on top.
func NewGameState(width, height, tileTypesCount int, seeds *SeedManager) *GameState {
	n := width * height
	return &GameState{
		Width:          width,
		Height:         height,
		TileTypesCount: tileTypesCount,
		tiles:          make([]Tile, n),
		grounds:        make([]Ground, n),
		covers:         make([]Cover, n),
		Seeds:          seeds,
	}
}

// Index maps (x,y) to the flat-array offset (spec.md §3 invariant i).
func (g *GameState) Index(x, y int) int { return y*g.Width + x }

// IsValid reports whether p lies within the board.
func (g *GameState) IsValid(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// GetTile returns the tile at p. Callers must check IsValid first; an
// out-of-bounds p panics, matching the flat-array slice it indexes into.
func (g *GameState) GetTile(p Position) Tile { return g.tiles[g.Index(p.X, p.Y)] }

// SetTile writes t at p. Setters never emit events — emission is the
// caller's responsibility (spec.md §4.2).
func (g *GameState) SetTile(p Position, t Tile) { g.tiles[g.Index(p.X, p.Y)] = t }

// GetGround returns the ground layer at p.
func (g *GameState) GetGround(p Position) Ground { return g.grounds[g.Index(p.X, p.Y)] }

// SetGround writes the ground layer at p.
func (g *GameState) SetGround(p Position, gr Ground) { g.grounds[g.Index(p.X, p.Y)] = gr }

// GetCover returns the cover layer at p.
func (g *GameState) GetCover(p Position) Cover { return g.covers[g.Index(p.X, p.Y)] }

// SetCover writes the cover layer at p.
func (g *GameState) SetCover(p Position, c Cover) { g.covers[g.Index(p.X, p.Y)] = c }

// AllocateTileID returns the next monotonically increasing tile identifier
// and advances the counter. IDs grow across the session's whole lifetime,
// never reused even after the tile they named is destroyed (spec.md §5).
func (g *GameState) AllocateTileID() uint64 {
	g.NextTileID++
	return g.NextTileID
}

// SelectedPosition returns the currently selected cell (for tap-based swap)
// and whether a selection exists.
func (g *GameState) SelectedPosition() (Position, bool) { return g.selected, g.hasSelection }

// SetSelectedPosition sets or clears the tap-selection cursor.
func (g *GameState) SetSelectedPosition(p Position, has bool) {
	g.selected, g.hasSelection = p, has
}

// EmptyTile is the canonical Empty cell value: Color=ColorNone, ID=0,
// Bomb=BombNone, matching spec.md §3 invariant (i).
var EmptyTile = Tile{}

// ClearTile resets p's tile layer to Empty without touching ground/cover.
func (g *GameState) ClearTile(p Position) { g.SetTile(p, EmptyTile) }

// Clone deep-copies the GameState for AI branching (spec.md §4.2, §9). The
// clone's SeedManager is either bit-identical (newSeed == nil, so two
// clones fed the same inputs diverge nowhere) or freshly reseeded
// (newSeed != nil, for rollout diversification) — RNG domains are never
// shared between a GameState and its clone.
func (g *GameState) Clone(newSeed *int32) *GameState {
	out := &GameState{
		Width:            g.Width,
		Height:           g.Height,
		TileTypesCount:   g.TileTypesCount,
		tiles:            make([]Tile, len(g.tiles)),
		grounds:          make([]Ground, len(g.grounds)),
		covers:           make([]Cover, len(g.covers)),
		Score:            g.Score,
		MoveCount:        g.MoveCount,
		MoveLimit:        g.MoveLimit,
		TargetDifficulty: g.TargetDifficulty,
		selected:         g.selected,
		hasSelection:     g.hasSelection,
		NextTileID:       g.NextTileID,
		Objectives:       append([]Objective(nil), g.Objectives...),
		CurrentTick:      g.CurrentTick,
		SimulationTime:   g.SimulationTime,
	}
	copy(out.tiles, g.tiles)
	copy(out.grounds, g.grounds)
	copy(out.covers, g.covers)
	if g.Seeds != nil {
		out.Seeds = g.Seeds.clone(newSeed)
	}
	return out
}

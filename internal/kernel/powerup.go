package kernel

// powerKind classifies a tile for combo-table lookup (spec.md §4.9): a
// "Rainbow" tile is its own Color, not a BombKind, so classification checks
// Color before Bomb.
type powerKind int

const (
	powerNormal powerKind = iota
	powerLine
	powerSquare
	powerUFO
	powerRainbow
)

func classify(t Tile) powerKind {
	if t.Color == Rainbow {
		return powerRainbow
	}
	switch t.Bomb {
	case BombHorizontal, BombVertical:
		return powerLine
	case BombSquare:
		return powerSquare
	case BombUFO:
		return powerUFO
	default:
		return powerNormal
	}
}

// ChainBomb is a bomb a combo effect arms and immediately detonates next,
// rather than destroying its cell directly — spec.md §4.9's Rainbow
// combos ("all tiles of the most common color become X and detonate/launch").
// The orchestrator is responsible for actually placing and activating these.
type ChainBomb struct {
	Pos  Position
	Kind BombKind
}

// ComboResult is what a bomb×bomb combo produces: either a flat set of
// cells to clear directly, a set of new bombs to arm and chain-activate, or
// (Rainbow×Rainbow) the whole board.
type ComboResult struct {
	DirectClear []Position
	ChainBombs  []ChainBomb
	FullBoard   bool
}

// PowerUpHandler computes single-bomb footprints and bomb×bomb combo
// effects (spec.md §4.9). It holds no board-specific state — every method
// takes the GameState and RNG stream it needs for the call.
type PowerUpHandler struct {
	pool *PoolRegistry
}

// NewPowerUpHandler builds a PowerUpHandler sharing pool with the rest of
// the session.
func NewPowerUpHandler(pool *PoolRegistry) *PowerUpHandler {
	return &PowerUpHandler{pool: pool}
}

// Footprint returns the cells a single bomb (not part of a combo) affects
// when it detonates on its own (spec.md §4.9 "Single-bomb footprints").
func (ph *PowerUpHandler) Footprint(g *GameState, pos Position, kind BombKind, stream *Stream) []Position {
	switch kind {
	case BombHorizontal:
		return rowCells(g, pos.Y)
	case BombVertical:
		return colCells(g, pos.X)
	case BombSquare:
		return squareCells(g, pos, 1)
	case BombRainbow:
		return allCells(g)
	case BombUFO:
		exclude := map[Position]struct{}{pos: {}}
		target, ok := randomNonEmpty(g, stream, exclude)
		if !ok {
			return nil
		}
		return []Position{target}
	default:
		return nil
	}
}

// Combo computes the effect of an accepting swap where both sides carry a
// bomb, or either side is a Rainbow tile (spec.md §4.9's combo table). dest
// is the swap's destination cell ("to" of applyMove), which several combos
// anchor on.
func (ph *PowerUpHandler) Combo(g *GameState, posA, posB, dest Position, stream *Stream) ComboResult {
	tileA, tileB := g.GetTile(posA), g.GetTile(posB)
	kA, kB := classify(tileA), classify(tileB)

	// Normalize so the ordering of the table below only has to consider
	// (higher-priority kind, lower-priority kind); powerRainbow sorts first
	// since every Rainbow-involving row depends on it being posA's kind.
	if kB == powerRainbow && kA != powerRainbow {
		posA, posB = posB, posA
		tileA, tileB = tileB, tileA
		kA, kB = kB, kA
	} else if rank(kA) < rank(kB) {
		posA, posB = posB, posA
		tileA, tileB = tileB, tileA
		kA, kB = kB, kA
	}

	switch {
	case kA == powerRainbow && kB == powerRainbow:
		return ComboResult{FullBoard: true}

	case kA == powerRainbow && kB == powerLine:
		color := mostCommonColor(g)
		return ComboResult{ChainBombs: chainAllOfColor(g, color, tileB.Bomb)}

	case kA == powerRainbow && kB == powerSquare:
		color := mostCommonColor(g)
		return ComboResult{ChainBombs: chainAllOfColor(g, color, BombSquare)}

	case kA == powerRainbow && kB == powerUFO:
		color := mostCommonColor(g)
		return ComboResult{ChainBombs: chainAllOfColor(g, color, BombUFO)}

	case kA == powerRainbow && kB == powerNormal:
		cells := colorCells(g, tileB.Color)
		cells = append(cells, posA, posB)
		return ComboResult{DirectClear: dedupPositions(cells)}

	case kA == powerLine && kB == powerLine:
		cells := append(rowCells(g, dest.Y), colCells(g, dest.X)...)
		return ComboResult{DirectClear: dedupPositions(cells)}

	case kA == powerSquare && kB == powerLine, kA == powerLine && kB == powerSquare:
		cells := squareBand(g, dest, 1)
		return ComboResult{DirectClear: dedupPositions(cells)}

	case kA == powerUFO && kB == powerLine, kA == powerLine && kB == powerUFO:
		ufoPos := posA
		if kA != powerUFO {
			ufoPos = posB
		}
		cells := crossCells(g, ufoPos)
		cells = append(cells, randomLine(g, stream)...)
		return ComboResult{DirectClear: dedupPositions(cells)}

	case kA == powerSquare && kB == powerSquare:
		return ComboResult{DirectClear: squareCells(g, dest, 4)}

	case kA == powerUFO && kB == powerSquare, kA == powerSquare && kB == powerUFO:
		ufoPos := posA
		if kA != powerUFO {
			ufoPos = posB
		}
		cells := crossCells(g, ufoPos)
		target, ok := randomNonEmpty(g, stream, map[Position]struct{}{ufoPos: {}})
		if ok {
			cells = append(cells, squareCells(g, target, 2)...)
		}
		return ComboResult{DirectClear: dedupPositions(cells)}

	case kA == powerUFO && kB == powerUFO:
		cells := append(crossCells(g, posA), crossCells(g, posB)...)
		exclude := map[Position]struct{}{posA: {}, posB: {}}
		for i := 0; i < 3; i++ {
			t, ok := randomNonEmpty(g, stream, exclude)
			if !ok {
				break
			}
			cells = append(cells, t)
			exclude[t] = struct{}{}
		}
		return ComboResult{DirectClear: dedupPositions(cells)}

	default:
		// Neither side actually carries a combo-eligible kind; nothing to do
		// beyond whatever the ordinary match/bomb path already handled.
		return ComboResult{}
	}
}

// rank orders powerKind for the canonicalization swap above: Rainbow first,
// then Square, Line, UFO, Normal last. The exact order only needs to be
// consistent, not meaningful, since every case in Combo explicitly names
// both sides.
func rank(k powerKind) int {
	switch k {
	case powerRainbow:
		return 4
	case powerSquare:
		return 3
	case powerLine:
		return 2
	case powerUFO:
		return 1
	default:
		return 0
	}
}

func chainAllOfColor(g *GameState, color Color, kind BombKind) []ChainBomb {
	var out []ChainBomb
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			t := g.GetTile(p)
			if !t.IsEmpty() && t.Color == color {
				out = append(out, ChainBomb{Pos: p, Kind: kind})
			}
		}
	}
	return out
}

func mostCommonColor(g *GameState) Color {
	counts := make(map[Color]int, len(BaseColors))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.GetTile(Position{X: x, Y: y})
			if !t.IsEmpty() {
				counts[t.Color]++
			}
		}
	}
	best := BaseColors[0]
	bestCount := -1
	for _, c := range BaseColors {
		if counts[c] > bestCount {
			bestCount = counts[c]
			best = c
		}
	}
	return best
}

func colorCells(g *GameState, color Color) []Position {
	var out []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			t := g.GetTile(p)
			if !t.IsEmpty() && t.Color == color {
				out = append(out, p)
			}
		}
	}
	return out
}

func rowCells(g *GameState, y int) []Position {
	out := make([]Position, 0, g.Width)
	for x := 0; x < g.Width; x++ {
		out = append(out, Position{X: x, Y: y})
	}
	return out
}

func colCells(g *GameState, x int) []Position {
	out := make([]Position, 0, g.Height)
	for y := 0; y < g.Height; y++ {
		out = append(out, Position{X: x, Y: y})
	}
	return out
}

// squareCells returns the (2r+1)x(2r+1) block centered at c, clipped to the
// board.
func squareCells(g *GameState, c Position, r int) []Position {
	var out []Position
	for y := c.Y - r; y <= c.Y+r; y++ {
		for x := c.X - r; x <= c.X+r; x++ {
			p := Position{X: x, Y: y}
			if g.IsValid(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// squareBand returns the 2*half+1 rows [c.Y-half, c.Y+half] in full and the
// 2*half+1 columns [c.X-half, c.X+half] in full, clipped to the board
// (half=1 gives spec.md §4.9's "3 rows + 3 columns centered at destination").
func squareBand(g *GameState, c Position, half int) []Position {
	var out []Position
	for dy := -half; dy <= half; dy++ {
		y := c.Y + dy
		if y >= 0 && y < g.Height {
			out = append(out, rowCells(g, y)...)
		}
	}
	for dx := -half; dx <= half; dx++ {
		x := c.X + dx
		if x >= 0 && x < g.Width {
			out = append(out, colCells(g, x)...)
		}
	}
	return out
}

// crossCells returns c plus its 4-neighborhood, clipped to the board.
func crossCells(g *GameState, c Position) []Position {
	out := make([]Position, 0, 5)
	if g.IsValid(c) {
		out = append(out, c)
	}
	for _, d := range neighbor4 {
		p := Position{X: c.X + d.X, Y: c.Y + d.Y}
		if g.IsValid(p) {
			out = append(out, p)
		}
	}
	return out
}

func allCells(g *GameState) []Position {
	out := make([]Position, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out = append(out, Position{X: x, Y: y})
		}
	}
	return out
}

// randomLine picks a uniformly random row or column (coin flip, then index)
// via stream, returning its cells.
func randomLine(g *GameState, stream *Stream) []Position {
	if stream.Bool() {
		return rowCells(g, stream.NextInt(0, g.Height))
	}
	return colCells(g, stream.NextInt(0, g.Width))
}

// randomNonEmpty picks a uniformly random non-Empty cell outside exclude.
// Returns ok=false if none exists (spec.md §8 "UFO with no eligible
// targets... deactivates without crash").
func randomNonEmpty(g *GameState, stream *Stream, exclude map[Position]struct{}) (Position, bool) {
	var candidates []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			if _, skip := exclude[p]; skip {
				continue
			}
			if !g.GetTile(p).IsEmpty() {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return Position{}, false
	}
	return candidates[stream.NextInt(0, len(candidates))], true
}

func dedupPositions(cells []Position) []Position {
	seen := make(map[Position]struct{}, len(cells))
	out := cells[:0]
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

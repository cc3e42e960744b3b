package kernel

// maxShuffleAttempts bounds how many times DeadlockChecker.Shuffle
// reshuffles before accepting whatever layout it has — a board small enough
// and saturated enough in one color could in principle need many draws to
// land on a move-possible, match-free arrangement.
const maxShuffleAttempts = 20

// DeadlockChecker implements spec.md's supplemented deadlock-detection and
// reshuffle behavior (spec.md §3 names the deadlock-detected/board-shuffled
// events without specifying the algorithm; grounded on the teacher's
// rand-driven board population in internal/game/board.go and
// dshills-dungo/pkg/rng's Shuffle helper).
type DeadlockChecker struct{}

// NewDeadlockChecker builds a DeadlockChecker. It holds no state — every
// check re-scans the board it's given.
func NewDeadlockChecker() *DeadlockChecker { return &DeadlockChecker{} }

// HasMove reports whether any adjacent swap on the board would create a
// match, scanning right-neighbor and down-neighbor pairs so every adjacency
// is tested exactly once.
func (dc *DeadlockChecker) HasMove(g *GameState) bool {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			if x+1 < g.Width && dc.swapCreatesMatch(g, p, Position{X: x + 1, Y: y}) {
				return true
			}
			if y+1 < g.Height && dc.swapCreatesMatch(g, p, Position{X: x, Y: y + 1}) {
				return true
			}
		}
	}
	return false
}

func (dc *DeadlockChecker) swapCreatesMatch(g *GameState, a, b Position) bool {
	ta, tb := g.GetTile(a), g.GetTile(b)
	if ta.IsEmpty() || tb.IsEmpty() {
		return false
	}
	g.SetTile(a, tb)
	g.SetTile(b, ta)
	ok := runLengthIfPlaced(g, a.X, a.Y, tb.Color) >= 3 || runLengthIfPlaced(g, b.X, b.Y, ta.Color) >= 3
	g.SetTile(a, ta)
	g.SetTile(b, tb)
	return ok
}

// anyExistingMatch reports whether some cell already sits inside a run of 3
// or more, used after a trial shuffle to reject a draw that accidentally
// resolves itself into a match.
func (dc *DeadlockChecker) anyExistingMatch(g *GameState) bool {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.GetTile(Position{X: x, Y: y})
			if t.IsEmpty() {
				continue
			}
			if runLengthIfPlaced(g, x, y, t.Color) >= 3 {
				return true
			}
		}
	}
	return false
}

// Shuffle redistributes every non-empty tile's color in place (positions,
// bombs, covers and ground layers never move — only which color sits where)
// via the Main domain's Fisher-Yates, retrying until the result both
// contains no immediate match and leaves at least one legal move, or until
// maxShuffleAttempts is exhausted. Emits BoardShuffledEvent once, regardless
// of how many internal attempts it took.
func (dc *DeadlockChecker) Shuffle(g *GameState, stream *Stream, collector Collector) {
	var cells []Position
	var colors []Color
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			t := g.GetTile(p)
			if !t.IsEmpty() {
				cells = append(cells, p)
				colors = append(colors, t.Color)
			}
		}
	}
	if len(colors) == 0 {
		return
	}

	for attempt := 0; attempt < maxShuffleAttempts; attempt++ {
		stream.Shuffle(len(colors), func(i, j int) { colors[i], colors[j] = colors[j], colors[i] })
		for i, p := range cells {
			t := g.GetTile(p)
			t.Color = colors[i]
			g.SetTile(p, t)
		}
		if !dc.anyExistingMatch(g) && dc.HasMove(g) {
			break
		}
	}
	collector.Emit(&BoardShuffledEvent{base: newBase(g.CurrentTick, g.SimulationTime)})
}

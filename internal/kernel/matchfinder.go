package kernel

// MatchGroup is one shape-annotated sub-group of a connected match region,
// as carved out by BombGenerator (spec.md §4.4–§4.5).
type MatchGroup struct {
	Cells     []Position
	Shape     ShapeType
	SpawnBomb BombKind
	Origin    Position // only meaningful when SpawnBomb != BombNone
}

// neighbor4 is the fixed 4-neighborhood iteration order every BFS/flood-fill
// in this package uses, so two runs over the same board visit cells in the
// same order and therefore emit events in the same order (spec.md §5
// "Within a tick... the deterministic iteration order of that phase").
var neighbor4 = [4]Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// MatchFinder detects maximal same-color connected components of size ≥ 3
// and delegates each one to a BombGenerator for shape classification.
type MatchFinder struct {
	pool  *PoolRegistry
	bombs *BombGenerator
}

// NewMatchFinder builds a MatchFinder sharing pool with the rest of the
// session.
func NewMatchFinder(pool *PoolRegistry) *MatchFinder {
	return &MatchFinder{pool: pool, bombs: NewBombGenerator(pool)}
}

// FindMatches scans the board in row-major order (deterministic) and returns
// every match group found, in scan order. foci biases bomb-origin selection
// within BombGenerator (spec.md §4.4 "Bomb origin selection").
func (mf *MatchFinder) FindMatches(g *GameState, foci []Position) []MatchGroup {
	visited := mf.pool.AcquireSet()
	defer mf.pool.ReleaseSet(visited)

	var groups []MatchGroup
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			start := Position{X: x, Y: y}
			if _, seen := visited[start]; seen {
				continue
			}
			tile := g.GetTile(start)
			if tile.IsEmpty() || tile.Color == Rainbow {
				visited[start] = struct{}{}
				continue
			}

			region := mf.floodFill(g, start, tile.Color, visited)
			if len(region) < 3 {
				continue
			}
			groups = append(groups, mf.bombs.Generate(g, region, foci)...)
		}
	}
	return groups
}

// floodFill returns every cell connected to start via 4-neighborhood same
// non-Rainbow, non-Empty color, marking each visited. The returned slice is
// a fresh allocation (it outlives this call, feeding into BombGenerator and
// then into the returned []MatchGroup — it cannot be pool-borrowed).
func (mf *MatchFinder) floodFill(g *GameState, start Position, color Color, visited PositionSet) []Position {
	queue := mf.pool.AcquireSlice()
	defer mf.pool.ReleaseSlice(queue)

	queue = append(queue, start)
	visited[start] = struct{}{}
	region := make([]Position, 0, 8)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region = append(region, cur)

		for _, d := range neighbor4 {
			next := Position{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !g.IsValid(next) {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			t := g.GetTile(next)
			if t.IsEmpty() || t.Color != color {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return region
}

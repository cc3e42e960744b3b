package kernel

import "sort"

// orientation distinguishes a line candidate's axis, needed to pick
// BombHorizontal vs BombVertical for a 4-in-a-line (spec.md §4.4).
type orientation int

const (
	orientHorizontal orientation = iota
	orientVertical
)

// candidate is one enumerated shape before the exact-cover selection runs.
type candidate struct {
	cells       []Position
	shape       ShapeType
	orient      orientation
	weight      int
	touchesFoci bool
}

// shapeWeight assigns the priority spec.md §4.5 step 2 sorts by:
// 5-line > T/L > 4-line > plain-3, highest first.
func shapeWeight(s ShapeType) int {
	switch s {
	case ShapeLine5:
		return 4
	case ShapeTOrL:
		return 3
	case ShapeLine4:
		return 2
	default:
		return 1
	}
}

// bombForShape maps a shape classification to the bomb kind it spawns
// (spec.md §4.4 "Shape classification").
func bombForShape(s ShapeType, o orientation) BombKind {
	switch s {
	case ShapeLine5:
		return BombRainbow
	case ShapeTOrL:
		return BombSquare
	case ShapeLine4:
		if o == orientHorizontal {
			return BombHorizontal
		}
		return BombVertical
	default:
		return BombNone
	}
}

// BombGenerator partitions a same-color connected match region into
// non-overlapping shape-sets that maximize total bomb weight, absorbing
// leftover cells into the chosen shapes and finally into one orphan group
// (spec.md §4.5).
type BombGenerator struct {
	pool *PoolRegistry
}

// NewBombGenerator builds a BombGenerator sharing pool with the rest of the
// session.
func NewBombGenerator(pool *PoolRegistry) *BombGenerator {
	return &BombGenerator{pool: pool}
}

// Generate returns the match groups for one connected region. region must be
// a single color's maximal connected component of size ≥ 3 (MatchFinder's
// contract); foci biases origin selection for bomb-spawning groups.
func (bg *BombGenerator) Generate(g *GameState, region []Position, foci []Position) []MatchGroup {
	regionSet := make(map[Position]struct{}, len(region))
	for _, p := range region {
		regionSet[p] = struct{}{}
	}

	candidates := bg.enumerate(g, region, regionSet, foci)
	chosen := bg.selectCover(candidates)

	groups := make([]MatchGroup, 0, len(chosen)+1)
	covered := make(map[Position]struct{}, len(region))
	for _, c := range chosen {
		cellsCopy := append([]Position(nil), c.cells...)
		grp := MatchGroup{
			Cells:     cellsCopy,
			Shape:     c.shape,
			SpawnBomb: bombForShape(c.shape, c.orient),
		}
		if grp.SpawnBomb != BombNone {
			grp.Origin = chooseOrigin(c.cells, foci)
		}
		groups = append(groups, grp)
		for _, p := range c.cells {
			covered[p] = struct{}{}
		}
	}

	bg.absorbScrap(region, regionSet, covered, groups)

	// Orphans: whatever is still uncovered becomes one extra plain group
	// with no bomb (spec.md §4.5 step 5).
	var orphans []Position
	for _, p := range region {
		if _, ok := covered[p]; !ok {
			orphans = append(orphans, p)
		}
	}
	if len(orphans) > 0 {
		groups = append(groups, MatchGroup{Cells: orphans, Shape: ShapePlain, SpawnBomb: BombNone})
	}
	return groups
}

// enumerate produces every candidate shape: sliding windows of length 5/4/3
// over maximal axis-aligned runs within the region, plus T/L intersections
// of perpendicular runs of length ≥ 3.
func (bg *BombGenerator) enumerate(g *GameState, region []Position, regionSet map[Position]struct{}, foci []Position) []candidate {
	var candidates []candidate

	horizRuns := axisRuns(region, regionSet, orientHorizontal)
	vertRuns := axisRuns(region, regionSet, orientVertical)

	for _, run := range horizRuns {
		candidates = append(candidates, windowCandidates(run, orientHorizontal, foci)...)
	}
	for _, run := range vertRuns {
		candidates = append(candidates, windowCandidates(run, orientVertical, foci)...)
	}

	// T/L: any cell that lies in both a horizontal run of length ≥ 3
	// and a vertical run of length ≥ 3.
	horizAt := make(map[Position][]Position, len(region))
	for _, run := range horizRuns {
		if len(run) < 3 {
			continue
		}
		for _, p := range run {
			horizAt[p] = run
		}
	}
	vertAt := make(map[Position][]Position, len(region))
	for _, run := range vertRuns {
		if len(run) < 3 {
			continue
		}
		for _, p := range run {
			vertAt[p] = run
		}
	}
	for _, p := range region {
		hRun, hasH := horizAt[p]
		vRun, hasV := vertAt[p]
		if !hasH || !hasV {
			continue
		}
		h3 := centeredWindow(hRun, p, 3)
		v3 := centeredWindow(vRun, p, 3)
		cells := make([]Position, 0, 5)
		cells = append(cells, h3...)
		for _, v := range v3 {
			if v != p {
				cells = append(cells, v)
			}
		}
		candidates = append(candidates, candidate{
			cells:       cells,
			shape:       ShapeTOrL,
			weight:      shapeWeight(ShapeTOrL),
			touchesFoci: anyIn(cells, foci),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if a.touchesFoci != b.touchesFoci {
			return a.touchesFoci
		}
		if len(a.cells) != len(b.cells) {
			return len(a.cells) > len(b.cells)
		}
		return lexLess(originCell(a.cells), originCell(b.cells))
	})
	return candidates
}

// axisRuns returns every maximal run of consecutive same-row (horizontal)
// or same-column (vertical) cells within the region, each sorted along its
// axis.
func axisRuns(region []Position, regionSet map[Position]struct{}, o orientation) [][]Position {
	var runs [][]Position
	visitedStart := make(map[Position]bool, len(region))

	sorted := append([]Position(nil), region...)
	if o == orientHorizontal {
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Y != sorted[j].Y {
				return sorted[i].Y < sorted[j].Y
			}
			return sorted[i].X < sorted[j].X
		})
	} else {
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].X != sorted[j].X {
				return sorted[i].X < sorted[j].X
			}
			return sorted[i].Y < sorted[j].Y
		})
	}

	for _, p := range sorted {
		var prev Position
		if o == orientHorizontal {
			prev = Position{X: p.X - 1, Y: p.Y}
		} else {
			prev = Position{X: p.X, Y: p.Y - 1}
		}
		if _, ok := regionSet[prev]; ok {
			continue // not a run start
		}
		if visitedStart[p] {
			continue
		}
		run := []Position{p}
		cur := p
		for {
			var next Position
			if o == orientHorizontal {
				next = Position{X: cur.X + 1, Y: cur.Y}
			} else {
				next = Position{X: cur.X, Y: cur.Y + 1}
			}
			if _, ok := regionSet[next]; !ok {
				break
			}
			run = append(run, next)
			cur = next
		}
		visitedStart[p] = true
		runs = append(runs, run)
	}
	return runs
}

// windowCandidates slides length-5/4/3 windows over run. axisRuns returns
// runs of any length; a run shorter than a window yields no candidate for
// that window length.
func windowCandidates(run []Position, o orientation, foci []Position) []candidate {
	var out []candidate
	lengths := []struct {
		n     int
		shape ShapeType
	}{
		{5, ShapeLine5},
		{4, ShapeLine4},
		{3, ShapePlain},
	}
	for _, l := range lengths {
		if len(run) < l.n {
			continue
		}
		for start := 0; start+l.n <= len(run); start++ {
			cells := append([]Position(nil), run[start:start+l.n]...)
			out = append(out, candidate{
				cells:       cells,
				shape:       l.shape,
				orient:      o,
				weight:      shapeWeight(l.shape),
				touchesFoci: anyIn(cells, foci),
			})
		}
	}
	return out
}

// centeredWindow returns n consecutive elements of run containing center,
// preferring center as the middle element and shifting toward whichever end
// of run is available when center sits near an edge.
func centeredWindow(run []Position, center Position, n int) []Position {
	idx := -1
	for i, p := range run {
		if p == center {
			idx = i
			break
		}
	}
	if idx < 0 {
		return run[:n]
	}
	start := idx - n/2
	if start < 0 {
		start = 0
	}
	if start+n > len(run) {
		start = len(run) - n
	}
	return run[start : start+n]
}

// selectCover runs the exact-cover backtracking search from spec.md §4.5
// step 3: pick non-overlapping candidates maximizing summed weight,
// deterministically tie-broken by the sort order enumerate() already
// applied (weight desc, touches-foci desc, size desc, lexicographic
// origin). Large candidate sets fall back to a single greedy pass —
// exhaustive search time is bounded by the same sort order so the fallback
// changes performance, never the tie-break rule for boards small enough to
// search exhaustively.
func (bg *BombGenerator) selectCover(candidates []candidate) []candidate {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > 24 {
		return greedyCover(candidates)
	}

	suffixWeight := make([]int, len(candidates)+1)
	for i := len(candidates) - 1; i >= 0; i-- {
		suffixWeight[i] = suffixWeight[i+1] + candidates[i].weight
	}

	used := make(map[Position]bool, 64)
	var best, current []candidate
	bestWeight := -1
	currentWeight := 0

	var search func(i int)
	search = func(i int) {
		if currentWeight+suffixWeight[i] <= bestWeight {
			return // pruned: cannot beat the current best
		}
		if i == len(candidates) {
			if currentWeight > bestWeight {
				bestWeight = currentWeight
				best = append([]candidate(nil), current...)
			}
			return
		}

		c := candidates[i]
		conflicts := false
		for _, p := range c.cells {
			if used[p] {
				conflicts = true
				break
			}
		}
		if !conflicts {
			for _, p := range c.cells {
				used[p] = true
			}
			current = append(current, c)
			currentWeight += c.weight

			search(i + 1)

			currentWeight -= c.weight
			current = current[:len(current)-1]
			for _, p := range c.cells {
				used[p] = false
			}
		}
		search(i + 1)
	}
	search(0)
	return best
}

// greedyCover is the bounded-time fallback for pathologically large
// candidate sets: take candidates in sorted (weight-first) order, skipping
// any that overlap an already-chosen cell.
func greedyCover(candidates []candidate) []candidate {
	used := make(map[Position]bool, 64)
	var chosen []candidate
	for _, c := range candidates {
		conflicts := false
		for _, p := range c.cells {
			if used[p] {
				conflicts = true
				break
			}
		}
		if conflicts {
			continue
		}
		for _, p := range c.cells {
			used[p] = true
		}
		chosen = append(chosen, c)
	}
	return chosen
}

// absorbScrap attaches every region cell not covered by a chosen group to a
// neighboring chosen group, 4-neighborhood, highest-weight neighbor wins,
// repeating until a full pass attaches nothing (spec.md §4.5 step 4). Ties
// between equally-weighted neighboring groups break toward the smallest
// (y,x) origin cell of the candidate group — an explicit resolution of the
// spec's open tie-break question (see DESIGN.md).
func (bg *BombGenerator) absorbScrap(region []Position, regionSet map[Position]struct{}, covered map[Position]struct{}, groups []MatchGroup) {
	cellToGroup := make(map[Position]int, len(region))
	for gi := range groups {
		for _, p := range groups[gi].Cells {
			cellToGroup[p] = gi
		}
	}

	for {
		attachedAny := false
		for _, p := range region {
			if _, done := covered[p]; done {
				continue
			}
			bestGroup := -1
			bestWeight := -1
			var bestOrigin Position
			for _, d := range neighbor4 {
				n := Position{X: p.X + d.X, Y: p.Y + d.Y}
				if _, ok := regionSet[n]; !ok {
					continue
				}
				gi, ok := cellToGroup[n]
				if !ok {
					continue
				}
				w := shapeWeight(groups[gi].Shape)
				origin := originCell(groups[gi].Cells)
				if w > bestWeight || (w == bestWeight && lexLess(origin, bestOrigin)) {
					bestWeight = w
					bestGroup = gi
					bestOrigin = origin
				}
			}
			if bestGroup >= 0 {
				groups[bestGroup].Cells = append(groups[bestGroup].Cells, p)
				cellToGroup[p] = bestGroup
				covered[p] = struct{}{}
				attachedAny = true
			}
		}
		if !attachedAny {
			return
		}
	}
}

// chooseOrigin picks the bomb-spawn cell for a group: the first focus
// position that lies in cells (spec.md §4.4 "if any foci... lie inside the
// sub-group, choose one of them"), else the geometric centre, tie-broken
// lexicographically by (y,x).
func chooseOrigin(cells []Position, foci []Position) Position {
	for _, f := range foci {
		for _, c := range cells {
			if c == f {
				return f
			}
		}
	}

	var sumX, sumY float64
	for _, c := range cells {
		sumX += float64(c.X)
		sumY += float64(c.Y)
	}
	cx := sumX / float64(len(cells))
	cy := sumY / float64(len(cells))

	best := cells[0]
	bestDist := -1.0
	for _, c := range cells {
		dx, dy := float64(c.X)-cx, float64(c.Y)-cy
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist || (d == bestDist && lexLess(c, best)) {
			bestDist = d
			best = c
		}
	}
	return best
}

// originCell returns the lexicographically smallest (y,x) cell of cells,
// used both as the tie-break key in sorting and as a stable per-group
// identity for scrap-absorption tie-breaking.
func originCell(cells []Position) Position {
	best := cells[0]
	for _, c := range cells[1:] {
		if lexLess(c, best) {
			best = c
		}
	}
	return best
}

// lexLess orders positions by (y, x), the tie-break spec.md §4.4 specifies.
func lexLess(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func anyIn(cells []Position, foci []Position) bool {
	for _, f := range foci {
		for _, c := range cells {
			if c == f {
				return true
			}
		}
	}
	return false
}

package kernel

// SpawnStrategy names which rule a SpawnModel applied, mostly useful for
// logging/tuning outside the kernel.
type SpawnStrategy int

const (
	StrategyBalance SpawnStrategy = iota
	StrategyHelp
	StrategyChallenge
	StrategyNeutral
)

// SpawnModel picks a replacement tile color for an empty top-of-column cell,
// biased by a SpawnContext (spec.md §4.7).
type SpawnModel struct{}

// NewSpawnModel builds a SpawnModel. It carries no state of its own — every
// decision is a pure function of the board, the drop column, the context,
// and the Spawn RNG stream.
func NewSpawnModel() *SpawnModel { return &SpawnModel{} }

// selectStrategy implements spec.md §4.7's trigger table.
func selectStrategy(ctx SpawnContext) SpawnStrategy {
	switch {
	case ctx.FailedAttempts >= 3,
		ctx.RemainingMoves <= 3 && ctx.GoalProgress < 0.9,
		ctx.TargetDifficulty < 0.3:
		return StrategyHelp
	case ctx.GoalProgress > 0.7 && ctx.RemainingMoves > 5,
		ctx.TargetDifficulty > 0.7:
		return StrategyChallenge
	default:
		return StrategyBalance
	}
}

// Choose returns the color to spawn at the top of column x, given ctx and
// the Spawn-domain stream.
func (sm *SpawnModel) Choose(g *GameState, x int, ctx SpawnContext, stream *Stream) Color {
	colors := availableColors(g)
	if len(colors) == 0 {
		return ColorNone
	}

	switch selectStrategy(ctx) {
	case StrategyHelp:
		return sm.chooseHelp(g, x, colors, stream)
	case StrategyChallenge:
		return sm.chooseChallenge(g, x, colors, stream)
	case StrategyBalance:
		return sm.chooseBalance(g, colors, stream)
	default:
		return colors[stream.NextInt(0, len(colors))]
	}
}

// availableColors returns TileTypesCount colors from BaseColors, in
// deterministic order — the set every spawn strategy samples from.
func availableColors(g *GameState) []Color {
	n := g.TileTypesCount
	if n > len(BaseColors) {
		n = len(BaseColors)
	}
	return BaseColors[:n]
}

// chooseHelp follows spec.md §4.7's Help rule: the first color (in
// availableColors order) that would form a 3-in-a-row at the column's drop
// target; else any color forming a 2-in-a-row; else uniform.
func (sm *SpawnModel) chooseHelp(g *GameState, x int, colors []Color, stream *Stream) Color {
	target := dropTargetRow(g, x)

	for _, c := range colors {
		if runLengthIfPlaced(g, x, target, c) >= 3 {
			return c
		}
	}
	for _, c := range colors {
		if runLengthIfPlaced(g, x, target, c) >= 2 {
			return c
		}
	}
	return colors[stream.NextInt(0, len(colors))]
}

// chooseChallenge follows spec.md §4.7's Challenge rule: the most common
// color on the board that would not create a match at the drop target;
// else any non-matching color; else uniform.
func (sm *SpawnModel) chooseChallenge(g *GameState, x int, colors []Color, stream *Stream) Color {
	target := dropTargetRow(g, x)

	counts := make(map[Color]int, len(colors))
	for _, c := range colors {
		counts[c] = 0
	}
	for y := 0; y < g.Height; y++ {
		for cx := 0; cx < g.Width; cx++ {
			t := g.GetTile(Position{X: cx, Y: y})
			if !t.IsEmpty() {
				counts[t.Color]++
			}
		}
	}

	ordered := append([]Color(nil), colors...)
	sortColorsByCountDesc(ordered, counts)

	for _, c := range ordered {
		if runLengthIfPlaced(g, x, target, c) < 3 {
			return c
		}
	}
	for _, c := range colors {
		if runLengthIfPlaced(g, x, target, c) < 3 {
			return c
		}
	}
	return colors[stream.NextInt(0, len(colors))]
}

// chooseBalance follows spec.md §4.7's Balance rule: integer inverse-count
// weighting, weight = 100/(count+1).
func (sm *SpawnModel) chooseBalance(g *GameState, colors []Color, stream *Stream) Color {
	counts := make(map[Color]int, len(colors))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.GetTile(Position{X: x, Y: y})
			if !t.IsEmpty() {
				counts[t.Color]++
			}
		}
	}

	weights := make([]int, len(colors))
	total := 0
	for i, c := range colors {
		w := 100 / (counts[c] + 1)
		weights[i] = w
		total += w
	}
	if total == 0 {
		return colors[stream.NextInt(0, len(colors))]
	}

	roll := stream.NextInt(0, total)
	for i, w := range weights {
		if roll < w {
			return colors[i]
		}
		roll -= w
	}
	return colors[len(colors)-1]
}

// dropTargetRow returns the row a new tile dropped into column x would
// settle at under the top-only refill path (spec.md §9 open question: the
// top-only path is the one this package implements) — the lowest cell of
// the unbroken run of Empty cells starting at row 0, or row 0 if (x,0) is
// occupied.
func dropTargetRow(g *GameState, x int) int {
	target := 0
	for y := 0; y < g.Height; y++ {
		if !g.GetTile(Position{X: x, Y: y}).IsEmpty() {
			break
		}
		target = y
	}
	return target
}

// runLengthIfPlaced reports the longest straight run (horizontal or
// vertical, whichever is longer) color c would form if placed at (x,y),
// against the board's current contents — a cheap same-color adjacency scan,
// not a full match-finder pass.
func runLengthIfPlaced(g *GameState, x, y int, c Color) int {
	horiz := 1
	for cx := x - 1; cx >= 0 && g.GetTile(Position{X: cx, Y: y}).Color == c; cx-- {
		horiz++
	}
	for cx := x + 1; cx < g.Width && g.GetTile(Position{X: cx, Y: y}).Color == c; cx++ {
		horiz++
	}

	vert := 1
	for cy := y - 1; cy >= 0 && g.GetTile(Position{X: x, Y: cy}).Color == c; cy-- {
		vert++
	}
	for cy := y + 1; cy < g.Height && g.GetTile(Position{X: x, Y: cy}).Color == c; cy++ {
		vert++
	}

	if horiz > vert {
		return horiz
	}
	return vert
}

// sortColorsByCountDesc orders colors by counts descending in place,
// ties broken by BaseColors order (colors is already a BaseColors-ordered
// slice going in, so a stable sort preserves that for ties).
func sortColorsByCountDesc(colors []Color, counts map[Color]int) {
	for i := 1; i < len(colors); i++ {
		for j := i; j > 0 && counts[colors[j]] > counts[colors[j-1]]; j-- {
			colors[j], colors[j-1] = colors[j-1], colors[j]
		}
	}
}

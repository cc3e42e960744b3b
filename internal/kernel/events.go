package kernel

// EventKind tags the concrete type of an Event so a collector can switch on
// it without a type assertion when it only needs the tag (e.g. counting).
type EventKind int

const (
	EventTilesSwapped EventKind = iota
	EventTileMoved
	EventTileDestroyed
	EventTileSpawned
	EventMatchDetected
	EventBombCreated
	EventBombActivated
	EventBombCombo
	EventProjectileLaunched
	EventProjectileMoved
	EventProjectileRetargeted
	EventProjectileImpact
	EventCoverDestroyed
	EventGroundDestroyed
	EventScoreAdded
	EventComboLevelChanged
	EventMoveCompleted
	EventDeadlockDetected
	EventBoardShuffled
	EventObjectiveProgress
	EventLevelCompleted
)

// base carries the two fields spec.md §3 requires of every event.
type base struct {
	tick int
	time float64
}

func (b base) Tick() int          { return b.tick }
func (b base) SimulationTime() float64 { return b.time }

func newBase(tick int, simTime float64) base { return base{tick: tick, time: simTime} }

// Event is the common interface every concrete event implements. Accept
// dispatches to the matching Visitor method, giving Go's lack of sum types
// an exhaustiveness check: adding a new concrete event without adding its
// Visitor method is a compile error everywhere EventVisitor is implemented
// (spec.md §9 "Event hierarchy with visitor").
type Event interface {
	Kind() EventKind
	Tick() int
	SimulationTime() float64
	Accept(v EventVisitor)
}

// MoveReason identifies why a tile moved.
type MoveReason int

const (
	MoveGravity MoveReason = iota
	MoveRefill
	MoveSlide
)

// DestroyReason identifies why a tile was destroyed.
type DestroyReason int

const (
	DestroyMatch DestroyReason = iota
	DestroyBomb
	DestroyProjectile
)

// ShapeType classifies a match group's geometry (spec.md §4.4).
type ShapeType int

const (
	ShapePlain ShapeType = iota
	ShapeLine4
	ShapeLine5
	ShapeTOrL
)

// --- concrete events, in spec.md §3 order ---

type TilesSwappedEvent struct {
	base
	From, To Position
	IsRevert bool
}

func (e *TilesSwappedEvent) Kind() EventKind  { return EventTilesSwapped }
func (e *TilesSwappedEvent) Accept(v EventVisitor) { v.VisitTilesSwapped(e) }

type TileMovedEvent struct {
	base
	Pos    Position
	Reason MoveReason
}

func (e *TileMovedEvent) Kind() EventKind  { return EventTileMoved }
func (e *TileMovedEvent) Accept(v EventVisitor) { v.VisitTileMoved(e) }

type TileDestroyedEvent struct {
	base
	Pos    Position
	TileID uint64
	Color  Color
	Reason DestroyReason
}

func (e *TileDestroyedEvent) Kind() EventKind  { return EventTileDestroyed }
func (e *TileDestroyedEvent) Accept(v EventVisitor) { v.VisitTileDestroyed(e) }

type TileSpawnedEvent struct {
	base
	Pos   Position
	Color Color
	ID    uint64
}

func (e *TileSpawnedEvent) Kind() EventKind  { return EventTileSpawned }
func (e *TileSpawnedEvent) Accept(v EventVisitor) { v.VisitTileSpawned(e) }

type MatchDetectedEvent struct {
	base
	Shape     ShapeType
	Positions []Position
}

func (e *MatchDetectedEvent) Kind() EventKind  { return EventMatchDetected }
func (e *MatchDetectedEvent) Accept(v EventVisitor) { v.VisitMatchDetected(e) }

type BombCreatedEvent struct {
	base
	Pos  Position
	BombKind_ BombKind
}

func (e *BombCreatedEvent) Kind() EventKind  { return EventBombCreated }
func (e *BombCreatedEvent) Accept(v EventVisitor) { v.VisitBombCreated(e) }

type BombActivatedEvent struct {
	base
	Pos         Position
	BombKind_   BombKind
	ChainReaction bool
}

func (e *BombActivatedEvent) Kind() EventKind  { return EventBombActivated }
func (e *BombActivatedEvent) Accept(v EventVisitor) { v.VisitBombActivated(e) }

type BombComboEvent struct {
	base
	PosA, PosB Position
	KindA, KindB BombKind
}

func (e *BombComboEvent) Kind() EventKind  { return EventBombCombo }
func (e *BombComboEvent) Accept(v EventVisitor) { v.VisitBombCombo(e) }

type ProjectileLaunchedEvent struct {
	base
	ID   uint64
	From Position
}

func (e *ProjectileLaunchedEvent) Kind() EventKind  { return EventProjectileLaunched }
func (e *ProjectileLaunchedEvent) Accept(v EventVisitor) { v.VisitProjectileLaunched(e) }

type ProjectileMovedEvent struct {
	base
	ID  uint64
	Pos Vec2
}

func (e *ProjectileMovedEvent) Kind() EventKind  { return EventProjectileMoved }
func (e *ProjectileMovedEvent) Accept(v EventVisitor) { v.VisitProjectileMoved(e) }

type ProjectileRetargetedEvent struct {
	base
	ID     uint64
	Reason string
}

func (e *ProjectileRetargetedEvent) Kind() EventKind  { return EventProjectileRetargeted }
func (e *ProjectileRetargetedEvent) Accept(v EventVisitor) { v.VisitProjectileRetargeted(e) }

type ProjectileImpactEvent struct {
	base
	ID        uint64
	Positions []Position
}

func (e *ProjectileImpactEvent) Kind() EventKind  { return EventProjectileImpact }
func (e *ProjectileImpactEvent) Accept(v EventVisitor) { v.VisitProjectileImpact(e) }

type CoverDestroyedEvent struct {
	base
	Pos  Position
	CoverKind_ CoverKind
}

func (e *CoverDestroyedEvent) Kind() EventKind  { return EventCoverDestroyed }
func (e *CoverDestroyedEvent) Accept(v EventVisitor) { v.VisitCoverDestroyed(e) }

type GroundDestroyedEvent struct {
	base
	Pos  Position
	GroundKind_ GroundKind
}

func (e *GroundDestroyedEvent) Kind() EventKind  { return EventGroundDestroyed }
func (e *GroundDestroyedEvent) Accept(v EventVisitor) { v.VisitGroundDestroyed(e) }

type ScoreAddedEvent struct {
	base
	Amount int64
	Total  int64
}

func (e *ScoreAddedEvent) Kind() EventKind  { return EventScoreAdded }
func (e *ScoreAddedEvent) Accept(v EventVisitor) { v.VisitScoreAdded(e) }

type ComboLevelChangedEvent struct {
	base
	Level int
}

func (e *ComboLevelChangedEvent) Kind() EventKind  { return EventComboLevelChanged }
func (e *ComboLevelChangedEvent) Accept(v EventVisitor) { v.VisitComboLevelChanged(e) }

type MoveCompletedEvent struct {
	base
	From, To Position
}

func (e *MoveCompletedEvent) Kind() EventKind  { return EventMoveCompleted }
func (e *MoveCompletedEvent) Accept(v EventVisitor) { v.VisitMoveCompleted(e) }

type DeadlockDetectedEvent struct{ base }

func (e *DeadlockDetectedEvent) Kind() EventKind  { return EventDeadlockDetected }
func (e *DeadlockDetectedEvent) Accept(v EventVisitor) { v.VisitDeadlockDetected(e) }

type BoardShuffledEvent struct{ base }

func (e *BoardShuffledEvent) Kind() EventKind  { return EventBoardShuffled }
func (e *BoardShuffledEvent) Accept(v EventVisitor) { v.VisitBoardShuffled(e) }

type ObjectiveProgressEvent struct {
	base
	Index            int
	Progress, Required int
}

func (e *ObjectiveProgressEvent) Kind() EventKind  { return EventObjectiveProgress }
func (e *ObjectiveProgressEvent) Accept(v EventVisitor) { v.VisitObjectiveProgress(e) }

type LevelCompletedEvent struct{ base }

func (e *LevelCompletedEvent) Kind() EventKind  { return EventLevelCompleted }
func (e *LevelCompletedEvent) Accept(v EventVisitor) { v.VisitLevelCompleted(e) }

// EventVisitor is implemented by anything that needs to handle every event
// kind exhaustively (e.g. a presentation-layer adapter outside this module).
// Collectors themselves do not need to implement it — they just append the
// Event interface value — but a host translating events into animation cues
// typically will.
type EventVisitor interface {
	VisitTilesSwapped(*TilesSwappedEvent)
	VisitTileMoved(*TileMovedEvent)
	VisitTileDestroyed(*TileDestroyedEvent)
	VisitTileSpawned(*TileSpawnedEvent)
	VisitMatchDetected(*MatchDetectedEvent)
	VisitBombCreated(*BombCreatedEvent)
	VisitBombActivated(*BombActivatedEvent)
	VisitBombCombo(*BombComboEvent)
	VisitProjectileLaunched(*ProjectileLaunchedEvent)
	VisitProjectileMoved(*ProjectileMovedEvent)
	VisitProjectileRetargeted(*ProjectileRetargetedEvent)
	VisitProjectileImpact(*ProjectileImpactEvent)
	VisitCoverDestroyed(*CoverDestroyedEvent)
	VisitGroundDestroyed(*GroundDestroyedEvent)
	VisitScoreAdded(*ScoreAddedEvent)
	VisitComboLevelChanged(*ComboLevelChangedEvent)
	VisitMoveCompleted(*MoveCompletedEvent)
	VisitDeadlockDetected(*DeadlockDetectedEvent)
	VisitBoardShuffled(*BoardShuffledEvent)
	VisitObjectiveProgress(*ObjectiveProgressEvent)
	VisitLevelCompleted(*LevelCompletedEvent)
}

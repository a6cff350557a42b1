package sim

import "math"

// PedState is the pedestrian behavior machine.
type PedState int

const (
	PedIdle PedState = iota
	PedWalking
	PedCrossing
	// PedWaiting exists for crossings gated by a signal. Nothing
	// transitions into it yet; the handler below keeps the state sound
	// if a future gate does.
	PedWaiting
)

func (s PedState) String() string {
	switch s {
	case PedIdle:
		return "idle"
	case PedWalking:
		return "walking"
	case PedCrossing:
		return "crossing"
	default:
		return "waiting"
	}
}

var clothTints = [][3]float64{
	{0.9, 0.16, 0.24}, {0.16, 0.47, 0.92}, {1.0, 0.78, 0.24},
	{0.24, 0.78, 0.35}, {0.7, 0.24, 0.78}, {1.0, 0.43, 0.2},
	{0.85, 0.85, 0.9}, {0.2, 0.2, 0.25},
}

// PedestrianAgent wanders its sidewalk and occasionally crosses the street
// via a crosswalk. All inconsistent states recover to Idle; nothing here
// may halt the simulation.
type PedestrianAgent struct {
	Node *Node

	Sidewalk       *SidewalkZone
	TargetSidewalk *SidewalkZone
	Crosswalk      *CrosswalkZone

	Pos    Point2D
	Target *Point2D
	Path   []Point2D

	Speed     float64
	State     PedState
	WaitTimer float64

	gait float64
}

// PedestrianSystem owns every pedestrian agent. It reads the static
// sidewalk and crosswalk registries and mutates only its own agents.
type PedestrianSystem struct {
	Peds []PedestrianAgent

	grid  *RoadGrid
	scene Scene
	rng   *Rand
}

func NewPedestrianSystem(grid *RoadGrid, scene Scene, seed uint64) *PedestrianSystem {
	return &PedestrianSystem{
		grid:  grid,
		scene: scene,
		rng:   NewRand(splitmix64(seed ^ 0x9ED5)),
	}
}

// Spawn places n pedestrians on random sidewalk zones.
func (ps *PedestrianSystem) Spawn(n int) {
	if n <= 0 || len(ps.grid.Sidewalks) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		sw := ps.grid.Sidewalks[ps.rng.Intn(len(ps.grid.Sidewalks))]
		pos := sw.RandomPoint(ps.rng)
		node := NewNode(KindPedestrian, MatConcrete, V3(pos.X, 0, pos.Z), V3(0.5, 1.8, 0.5))
		node.Tint = clothTints[ps.rng.Intn(len(clothTints))]
		ps.Peds = append(ps.Peds, PedestrianAgent{
			Node:      node,
			Sidewalk:  sw,
			Pos:       pos,
			Speed:     ps.rng.RangeF(1.1, 2.4),
			State:     PedIdle,
			WaitTimer: ps.rng.RangeF(IdleTimeMin, IdleTimeMax),
		})
		ps.scene.Add(node)
	}
}

// Update advances every agent one tick.
func (ps *PedestrianSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for i := range ps.Peds {
		p := &ps.Peds[i]
		switch p.State {
		case PedIdle:
			ps.updateIdle(p, dt)
		case PedWalking:
			ps.updateWalking(p, dt)
		case PedCrossing:
			ps.updateCrossing(p, dt)
		case PedWaiting:
			ps.updateWaiting(p, dt)
		default:
			ps.resetToIdle(p)
		}
	}
}

// resetToIdle is the uniform recovery path for any inconsistent state.
func (ps *PedestrianSystem) resetToIdle(p *PedestrianAgent) {
	p.State = PedIdle
	p.WaitTimer = ps.rng.RangeF(IdleTimeMin, IdleTimeMax)
	p.Target = nil
	p.Path = nil
	p.Crosswalk = nil
	p.TargetSidewalk = nil
	p.Node.Pitch = 0
}

func (ps *PedestrianSystem) updateIdle(p *PedestrianAgent, dt float64) {
	p.WaitTimer -= dt
	if p.WaitTimer > 0 {
		return
	}
	if ps.rng.Chance(WalkChance) {
		ps.startWalking(p)
	} else {
		ps.startCrossing(p)
	}
}

func (ps *PedestrianSystem) startWalking(p *PedestrianAgent) {
	if p.Sidewalk == nil {
		ps.resetToIdle(p)
		return
	}
	t := p.Sidewalk.RandomPoint(ps.rng)
	p.Target = &t
	p.Path = nil
	p.Crosswalk = nil
	p.TargetSidewalk = nil
	p.State = PedWalking
	ps.face(p, t)
}

// startCrossing plans a 3-point path: crosswalk entry, crosswalk exit,
// then a random point on the sidewalk across the street. Any missing piece
// falls back to plain walking.
func (ps *PedestrianSystem) startCrossing(p *PedestrianAgent) {
	cw := ps.grid.NearestCrosswalk(p.Pos, CrosswalkSearchRange)
	if cw == nil {
		ps.startWalking(p)
		return
	}
	a, b := cw.Endpoints()
	entry, exit := a, b
	if p.Pos.DistanceSq(b) < p.Pos.DistanceSq(a) {
		entry, exit = b, a
	}
	dest := ps.oppositeSidewalk(p.Sidewalk, cw, exit)
	if dest == nil {
		ps.startWalking(p)
		return
	}
	p.Crosswalk = cw
	p.TargetSidewalk = dest
	p.Path = []Point2D{exit, dest.RandomPoint(ps.rng)}
	p.Target = &entry
	p.State = PedCrossing
	ps.face(p, entry)
}

// oppositeSidewalk picks the zone roughly across the street from the
// crossing: small offset perpendicular to the walking direction, parallel
// offset on the exit side within one grid pitch.
func (ps *PedestrianSystem) oppositeSidewalk(cur *SidewalkZone, cw *CrosswalkZone, exit Point2D) *SidewalkZone {
	axX, axZ := 1.0, 0.0
	if cw.Dir == NorthSouth {
		axX, axZ = 0.0, 1.0
	}
	exitSide := (exit.X-cw.Center.X)*axX + (exit.Z-cw.Center.Z)*axZ

	var best *SidewalkZone
	bestAlong := math.MaxFloat64
	for _, z := range ps.grid.Sidewalks {
		if z == cur {
			continue
		}
		dx := z.Center.X - cw.Center.X
		dz := z.Center.Z - cw.Center.Z
		along := dx*axX + dz*axZ
		perp := dx*axZ - dz*axX
		if along*exitSide <= 0 {
			continue // wrong side of the street
		}
		if absF(perp) > z.Width*0.75 {
			continue // diagonal neighbor, not across
		}
		if absF(along) > cw.Span()/2+z.Width {
			continue // a block or more away
		}
		if absF(along) < bestAlong {
			bestAlong = absF(along)
			best = z
		}
	}
	return best
}

func (ps *PedestrianSystem) updateWalking(p *PedestrianAgent, dt float64) {
	if p.Target == nil {
		ps.resetToIdle(p)
		return
	}
	if ps.step(p, dt) {
		ps.resetToIdle(p)
	}
}

func (ps *PedestrianSystem) updateCrossing(p *PedestrianAgent, dt float64) {
	if p.Target == nil {
		if len(p.Path) == 0 {
			ps.resetToIdle(p)
			return
		}
		next := p.Path[0]
		p.Path = p.Path[1:]
		p.Target = &next
		ps.face(p, next)
	}
	if !ps.step(p, dt) {
		return
	}
	// Arrived at the current waypoint.
	if len(p.Path) > 0 {
		next := p.Path[0]
		p.Path = p.Path[1:]
		p.Target = &next
		ps.face(p, next)
		return
	}
	if p.TargetSidewalk != nil {
		p.Sidewalk = p.TargetSidewalk
	}
	ps.resetToIdle(p)
}

func (ps *PedestrianSystem) updateWaiting(p *PedestrianAgent, dt float64) {
	p.WaitTimer -= dt
	if p.WaitTimer > 0 {
		return
	}
	if p.Target == nil && len(p.Path) == 0 {
		ps.resetToIdle(p)
		return
	}
	p.State = PedCrossing
}

// step moves toward the current target, snapping on arrival. Returns true
// when the target was reached this tick.
func (ps *PedestrianSystem) step(p *PedestrianAgent, dt float64) bool {
	d := p.Pos.Distance(*p.Target)
	move := p.Speed * dt
	arrived := d <= move
	if arrived {
		p.Pos = *p.Target
		p.Target = nil
	} else {
		p.Pos = Point2D{
			X: p.Pos.X + (p.Target.X-p.Pos.X)/d*move,
			Z: p.Pos.Z + (p.Target.Z-p.Pos.Z)/d*move,
		}
	}
	p.gait += move
	p.Node.Pos = V3(p.Pos.X, 0, p.Pos.Z)
	// Gait bob, cosmetic only.
	p.Node.Pitch = math.Cos(p.gait*4) * 0.06
	return arrived
}

func (ps *PedestrianSystem) face(p *PedestrianAgent, target Point2D) {
	p.Node.Yaw = math.Atan2(target.Z-p.Pos.Z, target.X-p.Pos.X)
}

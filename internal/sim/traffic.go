package sim

import "math"

// VehicleClass selects size, pace and paint.
type VehicleClass int

const (
	ClassSedan VehicleClass = iota
	ClassTaxi
	ClassVan
	ClassBus
)

var vehicleSpecs = []struct {
	class    VehicleClass
	weight   int
	size     Vec3
	speedMin float64
	speedMax float64
	tints    [][3]float64
}{
	{ClassSedan, 55, V3(2.0, 1.4, 4.4), 14, 24, [][3]float64{
		{0.55, 0.1, 0.1}, {0.2, 0.25, 0.5}, {0.75, 0.75, 0.78}, {0.12, 0.12, 0.14},
	}},
	{ClassTaxi, 20, V3(2.0, 1.5, 4.6), 15, 26, [][3]float64{
		{0.95, 0.78, 0.1},
	}},
	{ClassVan, 15, V3(2.2, 2.0, 5.2), 12, 20, [][3]float64{
		{0.85, 0.85, 0.88}, {0.4, 0.45, 0.5},
	}},
	{ClassBus, 10, V3(2.5, 2.8, 9.0), 10, 16, [][3]float64{
		{0.2, 0.5, 0.75}, {0.7, 0.25, 0.2},
	}},
}

// VehicleAgent drives one segment at a time; its state machine is implicit
// in (Road, Progress). Progress never leaves [0,1]: reaching 1 triggers a
// transition or a queue clamp, never silent overflow.
type VehicleAgent struct {
	Node     *Node
	Road     *RoadSegment
	Progress float64
	Speed    float64
	Class    VehicleClass
}

// TrafficSystem owns every vehicle and the traffic-light timers. It is the
// only writer of Intersection light state.
type TrafficSystem struct {
	Vehicles []VehicleAgent

	grid    *RoadGrid
	scene   Scene
	rng     *Rand
	laneOff float64
}

func NewTrafficSystem(grid *RoadGrid, scene Scene, opts Options, seed uint64) *TrafficSystem {
	return &TrafficSystem{
		grid:    grid,
		scene:   scene,
		rng:     NewRand(splitmix64(seed ^ 0x7AFF1C)),
		laneOff: opts.RoadWidth * 0.22,
	}
}

// Spawn places n vehicles at random positions on the road graph.
func (ts *TrafficSystem) Spawn(n int) {
	if n <= 0 || len(ts.grid.Segments) == 0 {
		return
	}
	totalW := 0
	for _, s := range vehicleSpecs {
		totalW += s.weight
	}
	for i := 0; i < n; i++ {
		roll := ts.rng.Intn(totalW)
		spec := vehicleSpecs[0]
		for _, s := range vehicleSpecs {
			roll -= s.weight
			if roll < 0 {
				spec = s
				break
			}
		}
		seg := ts.grid.Segments[ts.rng.Intn(len(ts.grid.Segments))]
		node := NewNode(KindVehicle, MatMetal, V3(0, 0, 0), spec.size)
		node.Tint = spec.tints[ts.rng.Intn(len(spec.tints))]
		v := VehicleAgent{
			Node:     node,
			Road:     seg,
			Progress: ts.rng.RangeF(0, 0.9),
			Speed:    ts.rng.RangeF(spec.speedMin, spec.speedMax),
			Class:    spec.class,
		}
		ts.place(&v)
		ts.scene.Add(node)
		ts.Vehicles = append(ts.Vehicles, v)
	}
}

// Update advances light phases first, then every vehicle.
func (ts *TrafficSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}
	ts.updateLights(dt)
	for i := range ts.Vehicles {
		ts.updateVehicle(&ts.Vehicles[i], dt)
	}
}

// updateLights flips each intersection independently on its own timer.
// Phases stay uncoordinated across the city on purpose.
func (ts *TrafficSystem) updateLights(dt float64) {
	for _, in := range ts.grid.Intersections {
		in.Timer -= dt
		if in.Timer <= 0 {
			in.Light = in.Light.Other()
			in.Timer = ts.rng.RangeF(LightPhaseMin, LightPhaseMax)
		}
	}
}

func (ts *TrafficSystem) updateVehicle(v *VehicleAgent, dt float64) {
	length := v.Road.Length()
	if length <= 0 {
		ts.teleport(v)
		return
	}
	v.Progress += dt * v.Speed / length
	if v.Progress < 1 {
		ts.place(v)
		return
	}

	cands := ts.grid.SegmentsFrom(v.Road.End)
	if len(cands) == 0 {
		// Boundary dead end. No U-turns in a one-way grid, so the car
		// re-enters traffic somewhere else.
		ts.teleport(v)
		return
	}

	next := ts.chooseNext(v.Road, cands)
	if in := ts.grid.IntersectionAt(v.Road.End); in != nil && next.Dir != in.Light {
		// Red for our target direction: hold at the stop line until the
		// phase flips; re-evaluated every tick.
		v.Progress = QueueProgress
		ts.place(v)
		return
	}

	v.Road = next
	v.Progress = 0
	ts.place(v)
}

// chooseNext prefers going straight; a turn happens only when no
// same-direction segment leaves the node.
func (ts *TrafficSystem) chooseNext(cur *RoadSegment, cands []*RoadSegment) *RoadSegment {
	straight := make([]*RoadSegment, 0, len(cands))
	for _, s := range cands {
		if s.Dir == cur.Dir {
			straight = append(straight, s)
		}
	}
	if len(straight) > 0 {
		return straight[ts.rng.Intn(len(straight))]
	}
	return cands[ts.rng.Intn(len(cands))]
}

// teleport re-places the vehicle on a uniformly random segment.
func (ts *TrafficSystem) teleport(v *VehicleAgent) {
	v.Road = ts.grid.Segments[ts.rng.Intn(len(ts.grid.Segments))]
	v.Progress = 0
	ts.place(v)
}

// place positions the node along the segment with a small lane offset to
// the side of travel.
func (ts *TrafficSystem) place(v *VehicleAgent) {
	t := clampF(v.Progress, 0, 1)
	p := v.Road.PointAt(t)
	h := v.Road.Heading()
	p.X += -math.Sin(h) * ts.laneOff
	p.Z += math.Cos(h) * ts.laneOff
	v.Node.Pos = V3(p.X, 0, p.Z)
	v.Node.Yaw = h
}

package sim

import "fmt"

// City ties the road graph, structure generator, streaming cache, agent
// systems and session clock into one frame-driven simulation. Update runs
// everything synchronously; there is no hidden concurrency.
type City struct {
	Opts Options

	Grid    *RoadGrid
	Gen     *Generator
	LOD     *LODCache
	Traffic *TrafficSystem
	Peds    *PedestrianSystem
	Clock   *DayNight

	view ViewpointProvider
}

// NewCity validates options, generates the full city layout and spawns all
// agents. Structure geometry is not built here; blocks instantiate lazily
// as the viewpoint approaches.
func NewCity(opts Options, scene Scene, view ViewpointProvider) (*City, error) {
	if scene == nil || view == nil {
		return nil, fmt.Errorf("city requires a scene and a viewpoint provider")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}

	grid := BuildRoadGrid(opts, opts.Seed)
	gen := NewGenerator(opts, opts.Seed)

	lod := NewLODCache(opts, scene, gen)
	lod.OnRelease = gen.ReleaseBlock
	for _, c := range grid.Blocks {
		lod.Register(c, gen.BlockBase(c))
	}

	traffic := NewTrafficSystem(grid, scene, opts, opts.Seed)
	traffic.Spawn(opts.VehicleCount)

	peds := NewPedestrianSystem(grid, scene, opts.Seed)
	peds.Spawn(opts.PedestrianCount)

	return &City{
		Opts:    opts,
		Grid:    grid,
		Gen:     gen,
		LOD:     lod,
		Traffic: traffic,
		Peds:    peds,
		Clock:   NewDayNight(opts.DayLength, gen),
		view:    view,
	}, nil
}

// Update advances one frame. Traffic and pedestrians share no mutable
// state, so their relative order is free; the streaming scan throttles
// itself internally.
func (c *City) Update(dt float64) {
	if dt <= 0 {
		return
	}
	c.Clock.Update(dt)
	c.LOD.Update(dt, c.view.Viewpoint())
	c.Traffic.Update(dt)
	c.Peds.Update(dt)
}

// Stats summarizes a generated city, mostly for the CLI report.
type Stats struct {
	Blocks        int
	Segments      int
	Intersections int
	Sidewalks     int
	Crosswalks    int
	Vehicles      int
	Pedestrians   int
	ActiveBlocks  int
	LitWindows    int
}

func (c *City) Stats() Stats {
	active := 0
	for _, bc := range c.Grid.Blocks {
		if rec := c.LOD.Lookup(bc); rec != nil && rec.Active() {
			active++
		}
	}
	return Stats{
		Blocks:        len(c.Grid.Blocks),
		Segments:      len(c.Grid.Segments),
		Intersections: len(c.Grid.Intersections),
		Sidewalks:     len(c.Grid.Sidewalks),
		Crosswalks:    len(c.Grid.Crosswalks),
		Vehicles:      len(c.Traffic.Vehicles),
		Pedestrians:   len(c.Peds.Peds),
		ActiveBlocks:  active,
		LitWindows:    c.Gen.LitWindowCount(),
	}
}

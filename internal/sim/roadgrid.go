package sim

import "math"

// MatchEps is the coincidence epsilon for segment endpoints. Endpoints
// within this distance share one intersection node.
const MatchEps = 0.5

// RoadSegment is a straight one-way stretch of road between two corner
// lattice points. Immutable once created.
type RoadSegment struct {
	Start, End Point2D
	Dir        Direction
}

func (s *RoadSegment) Length() float64 {
	return s.Start.Distance(s.End)
}

// PointAt interpolates along the segment, t in [0,1].
func (s *RoadSegment) PointAt(t float64) Point2D {
	return Point2D{
		X: lerpF(s.Start.X, s.End.X, t),
		Z: lerpF(s.Start.Z, s.End.Z, t),
	}
}

// Heading is the travel direction in radians (0 = +X, pi/2 = +Z).
func (s *RoadSegment) Heading() float64 {
	if s.Dir == EastWest {
		if s.End.X >= s.Start.X {
			return 0
		}
		return math.Pi
	}
	if s.End.Z >= s.Start.Z {
		return math.Pi / 2
	}
	return -math.Pi / 2
}

// Intersection is a derived graph node where segment endpoints coincide.
// It owns one traffic-light phase; only the traffic update may mutate it.
type Intersection struct {
	Pos   Point2D
	Roads []*RoadSegment
	Light Direction
	Timer float64
}

// SidewalkZone is the walkable apron of one block.
type SidewalkZone struct {
	Center Point2D
	Width  float64
	Depth  float64
}

// Contains reports whether a ground point lies inside the zone.
func (z *SidewalkZone) Contains(p Point2D) bool {
	return absF(p.X-z.Center.X) <= z.Width/2 && absF(p.Z-z.Center.Z) <= z.Depth/2
}

// RandomPoint picks a uniform point within the zone.
func (z *SidewalkZone) RandomPoint(r *Rand) Point2D {
	return Point2D{
		X: z.Center.X + r.RangeF(-z.Width/2, z.Width/2),
		Z: z.Center.Z + r.RangeF(-z.Depth/2, z.Depth/2),
	}
}

// CrosswalkZone is a striped crossing over one road. Dir is the walking
// direction, perpendicular to the road it crosses.
type CrosswalkZone struct {
	Center Point2D
	Width  float64
	Depth  float64
	Dir    Direction
}

// Span is the walking extent of the crossing along its direction axis.
func (c *CrosswalkZone) Span() float64 {
	if c.Dir == EastWest {
		return c.Width
	}
	return c.Depth
}

// Endpoints returns the two kerb points of the crossing.
func (c *CrosswalkZone) Endpoints() (Point2D, Point2D) {
	half := c.Span() / 2
	if c.Dir == EastWest {
		return Pt(c.Center.X-half, c.Center.Z), Pt(c.Center.X+half, c.Center.Z)
	}
	return Pt(c.Center.X, c.Center.Z-half), Pt(c.Center.X, c.Center.Z+half)
}

// RoadGrid holds the static road/sidewalk/crosswalk/intersection registries
// for one city. Everything here is read-only after BuildRoadGrid except
// Intersection light state.
type RoadGrid struct {
	Blocks        []BlockCoord
	Segments      []*RoadSegment
	Sidewalks     []*SidewalkZone
	Crosswalks    []*CrosswalkZone
	Intersections []*Intersection

	byStart map[gridKey][]*RoadSegment
	byNode  map[gridKey]*Intersection
}

// BuildRoadGrid lays out the block grid and derives the segment graph.
// Deterministic for a given seed.
func BuildRoadGrid(opts Options, seed uint64) *RoadGrid {
	n := opts.GridExtent()
	lo := -n / 2
	hi := lo + n
	pitch := opts.Pattern()
	half := pitch / 2

	g := &RoadGrid{
		byStart: make(map[gridKey][]*RoadSegment),
		byNode:  make(map[gridKey]*Intersection),
	}

	for bz := lo; bz < hi; bz++ {
		for bx := lo; bx < hi; bx++ {
			baseX := float64(bx) * pitch
			baseZ := float64(bz) * pitch
			corner := Pt(baseX-half, baseZ-half)

			g.Blocks = append(g.Blocks, BlockCoord{X: bx, Z: bz})

			inner := opts.BlockSize - opts.SidewalkWidth
			g.Sidewalks = append(g.Sidewalks, &SidewalkZone{
				Center: Pt(baseX, baseZ),
				Width:  inner,
				Depth:  inner,
			})

			// Two bounding roads per block; shared corners are deduped
			// into intersections below.
			ew := &RoadSegment{Start: corner, End: Pt(corner.X+pitch, corner.Z), Dir: EastWest}
			ns := &RoadSegment{Start: corner, End: Pt(corner.X, corner.Z+pitch), Dir: NorthSouth}
			g.addSegment(ew)
			g.addSegment(ns)

			r := NewRand(hash2D(seed, bx, bz))
			if r.Chance(CrosswalkChance) {
				span := opts.RoadWidth + 2*opts.SidewalkWidth
				// One crossing over each of the block's bounding roads.
				g.Crosswalks = append(g.Crosswalks,
					&CrosswalkZone{
						Center: Pt(corner.X, baseZ),
						Width:  span,
						Depth:  opts.SidewalkWidth,
						Dir:    EastWest,
					},
					&CrosswalkZone{
						Center: Pt(baseX, corner.Z),
						Width:  opts.SidewalkWidth,
						Depth:  span,
						Dir:    NorthSouth,
					})
			}
		}
	}

	g.deriveIntersections(seed)
	return g
}

func (g *RoadGrid) addSegment(s *RoadSegment) {
	g.Segments = append(g.Segments, s)
	k := keyOf(s.Start)
	g.byStart[k] = append(g.byStart[k], s)
}

// deriveIntersections groups segment endpoints by canonical rounded key in
// a single build-time pass. Each node gets exactly one light, so shared
// corners can never carry desynchronized phases.
func (g *RoadGrid) deriveIntersections(seed uint64) {
	incident := make(map[gridKey][]*RoadSegment)
	for _, s := range g.Segments {
		ks := keyOf(s.Start)
		ke := keyOf(s.End)
		incident[ks] = append(incident[ks], s)
		if ke != ks {
			incident[ke] = append(incident[ke], s)
		}
	}
	for k, roads := range incident {
		if len(roads) < 2 {
			continue // boundary dead end, no right-of-way to arbitrate
		}
		r := NewRand(hash2D(seed^0xC0DE, k.X, k.Z))
		light := EastWest
		if r.Chance(0.5) {
			light = NorthSouth
		}
		g.byNode[k] = &Intersection{
			Pos:   Pt(float64(k.X), float64(k.Z)),
			Roads: roads,
			Light: light,
			Timer: r.RangeF(LightPhaseMin, LightPhaseMax),
		}
	}
	for _, in := range g.byNode {
		g.Intersections = append(g.Intersections, in)
	}
}

// SegmentsFrom returns all segments starting at p (within MatchEps).
func (g *RoadGrid) SegmentsFrom(p Point2D) []*RoadSegment {
	return g.byStart[keyOf(p)]
}

// IntersectionAt returns the intersection at p, or nil.
func (g *RoadGrid) IntersectionAt(p Point2D) *Intersection {
	return g.byNode[keyOf(p)]
}

// NearestCrosswalk finds the closest crossing within maxDist of p, or nil.
func (g *RoadGrid) NearestCrosswalk(p Point2D, maxDist float64) *CrosswalkZone {
	var best *CrosswalkZone
	bestD2 := maxDist * maxDist
	for _, c := range g.Crosswalks {
		d2 := c.Center.DistanceSq(p)
		if d2 <= bestD2 {
			bestD2 = d2
			best = c
		}
	}
	return best
}

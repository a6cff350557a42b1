package sim

import "math"

// Zoning tiers by block distance from the origin. Downtown is dense and
// tall, the periphery sparse and low; the cut-offs are block units.
type zoningTier struct {
	maxDist float64
	// Relative weights: skyscraper, commercial, residential, park.
	weights [4]int
}

var zoningTiers = []zoningTier{
	{maxDist: 3, weights: [4]int{55, 25, 5, 15}},
	{maxDist: 5, weights: [4]int{15, 45, 30, 10}},
	{maxDist: math.MaxFloat64, weights: [4]int{3, 17, 65, 15}},
}

var tierKinds = [4]StructureKind{KindSkyscraper, KindCommercial, KindResidential, KindPark}

func pickZone(r *Rand, dist float64) StructureKind {
	var tier zoningTier
	for _, t := range zoningTiers {
		if dist < t.maxDist {
			tier = t
			break
		}
	}
	total := 0
	for _, w := range tier.weights {
		total += w
	}
	roll := r.Intn(total)
	for i, w := range tier.weights {
		roll -= w
		if roll < 0 {
			return tierKinds[i]
		}
	}
	return KindResidential
}

// landmarkSite reserves one block for a fixed civic structure. Reserved
// blocks are skipped by the generic zoning generator.
type landmarkSite struct {
	Pos  Point2D // block units
	Kind StructureKind
}

var landmarkSites = []landmarkSite{
	{Pos: Pt(0, 0), Kind: KindCityHall},
	{Pos: Pt(-2, 1), Kind: KindMuseum},
	{Pos: Pt(2, -2), Kind: KindTrainStation},
	{Pos: Pt(1, 2), Kind: KindGlassTower},
	{Pos: Pt(-1, -2), Kind: KindSpireTower},
}

// litWindow pairs a window node with its stored night glow so daylight can
// zero the intensity and night restore it.
type litWindow struct {
	node *Node
	glow float64
}

// Generator emits structure descriptors per block. It owns the lit-window
// and street-lamp registries; entries are added when a block builds and
// dropped when the streaming cache releases it, strictly 1:1.
type Generator struct {
	opts Options
	seed uint64

	litWindows map[BlockCoord][]litWindow
	lamps      map[BlockCoord][]*Node

	daytime bool
}

func NewGenerator(opts Options, seed uint64) *Generator {
	return &Generator{
		opts:       opts,
		seed:       seed,
		litWindows: make(map[BlockCoord][]litWindow),
		lamps:      make(map[BlockCoord][]*Node),
		daytime:    true,
	}
}

// BlockBase is the world position of a block's center.
func (g *Generator) BlockBase(c BlockCoord) Vec3 {
	pitch := g.opts.Pattern()
	return V3(float64(c.X)*pitch, 0, float64(c.Z)*pitch)
}

func landmarkFor(c BlockCoord) (landmarkSite, bool) {
	p := Pt(float64(c.X), float64(c.Z))
	for _, site := range landmarkSites {
		if site.Pos.Distance(p) < 1.0 {
			return site, true
		}
	}
	return landmarkSite{}, false
}

// BuildBlock generates every structure of one block. Pure with respect to
// the scene: nodes are returned, never inserted here, so the streaming
// cache can defer and retract instantiation wholesale.
func (g *Generator) BuildBlock(c BlockCoord) []*Node {
	r := NewRand(hash2D(g.seed, c.X, c.Z))
	base := g.BlockBase(c)

	var nodes []*Node
	if site, ok := landmarkFor(c); ok {
		nodes = g.emitLandmark(c, site.Kind, base, r)
	} else {
		dist := math.Hypot(float64(c.X), float64(c.Z))
		switch pickZone(r, dist) {
		case KindSkyscraper:
			nodes = g.emitTowerLot(c, base, r)
		case KindCommercial:
			nodes = g.emitCommercialLot(c, base, r)
		case KindResidential:
			nodes = g.emitResidentialLot(c, base, r)
		case KindPark:
			nodes = g.emitPark(base, r)
		}
	}

	nodes = append(nodes, g.emitStreetLamps(c, base, r)...)
	return nodes
}

// ReleaseBlock drops the registry entries created by BuildBlock. Called by
// the streaming cache right after the block's nodes leave the scene.
func (g *Generator) ReleaseBlock(c BlockCoord) {
	delete(g.litWindows, c)
	delete(g.lamps, c)
}

// UpdateWindowLighting is the day/night consumer hook: daylight zeroes
// every registered lit window, nightfall restores each stored glow.
// Street lamps follow the same flag.
func (g *Generator) UpdateWindowLighting(isDaytime bool) {
	g.daytime = isDaytime
	for _, ws := range g.litWindows {
		for _, w := range ws {
			if isDaytime {
				w.node.Intensity = 0
			} else {
				w.node.Intensity = w.glow
			}
		}
	}
	for _, ls := range g.lamps {
		for _, lamp := range ls {
			if isDaytime {
				lamp.Intensity = 0
			} else {
				lamp.Intensity = 1
			}
		}
	}
}

// LitWindowCount reports the number of registered lit windows.
func (g *Generator) LitWindowCount() int {
	n := 0
	for _, ws := range g.litWindows {
		n += len(ws)
	}
	return n
}

func (g *Generator) registerWindow(c BlockCoord, n *Node, glow float64) {
	g.litWindows[c] = append(g.litWindows[c], litWindow{node: n, glow: glow})
	if g.daytime {
		n.Intensity = 0
	} else {
		n.Intensity = glow
	}
}

func (g *Generator) registerLamp(c BlockCoord, n *Node) {
	g.lamps[c] = append(g.lamps[c], n)
	if !g.daytime {
		n.Intensity = 1
	}
}

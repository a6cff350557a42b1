package sim

// BlockCoord addresses one block in grid units.
type BlockCoord struct {
	X, Z int
}

// BlockBuilder instantiates the structures of one block on demand.
// Implementations must be deterministic per coordinate: building the same
// block twice yields equivalent node sets.
type BlockBuilder interface {
	BuildBlock(c BlockCoord) []*Node
}

// BlockRecord is one streaming registry entry. The builder is held
// uninvoked until the block first comes into view range.
type BlockRecord struct {
	Coord  BlockCoord
	Base   Vec3
	nodes  []*Node
	active bool
}

// Active reports whether the block's structures are currently in the scene.
func (b *BlockRecord) Active() bool {
	return b.active
}

// Nodes returns the currently instantiated structures.
func (b *BlockRecord) Nodes() []*Node {
	return b.nodes
}

// LODCache streams block structures in and out around a moving viewpoint.
// It is the sole owner of activation state; activate/deactivate are
// idempotent no-ops when the state already matches.
type LODCache struct {
	scene   Scene
	builder BlockBuilder

	viewDist2     float64
	registryDist2 float64
	every         float64
	elapsed       float64

	records map[BlockCoord]*BlockRecord

	// OnRelease is called after a block's nodes leave the scene, so
	// owners of per-block registries (lit windows, lamps) can drop their
	// entries in lockstep.
	OnRelease func(c BlockCoord)
}

// NewLODCache wires a cache to a scene and builder. Options must already
// be validated; the view/registry ordering invariant is assumed here.
func NewLODCache(opts Options, scene Scene, builder BlockBuilder) *LODCache {
	return &LODCache{
		scene:         scene,
		builder:       builder,
		viewDist2:     opts.ViewDistance * opts.ViewDistance,
		registryDist2: opts.BlockRegistryDistance * opts.BlockRegistryDistance,
		every:         opts.LODUpdateFrequency,
		records:       make(map[BlockCoord]*BlockRecord),
	}
}

// Register adds a block to the registry without building anything.
// Idempotent: re-registering a known coordinate keeps the existing record.
func (l *LODCache) Register(c BlockCoord, base Vec3) {
	if _, ok := l.records[c]; ok {
		return
	}
	l.records[c] = &BlockRecord{Coord: c, Base: base}
}

// Lookup returns the record for a coordinate, or nil if unregistered.
func (l *LODCache) Lookup(c BlockCoord) *BlockRecord {
	return l.records[c]
}

// Len is the number of registered blocks.
func (l *LODCache) Len() int {
	return len(l.records)
}

// Activate builds and inserts a block's structures. Safe when the builder
// returns nothing; the record still counts as active.
func (l *LODCache) Activate(c BlockCoord) {
	rec, ok := l.records[c]
	if !ok || rec.active {
		return
	}
	rec.nodes = l.builder.BuildBlock(c)
	for _, n := range rec.nodes {
		l.scene.Add(n)
	}
	rec.active = true
}

// Deactivate removes every node added during activation. No-op when
// already inactive.
func (l *LODCache) Deactivate(c BlockCoord) {
	rec, ok := l.records[c]
	if !ok || !rec.active {
		return
	}
	for _, n := range rec.nodes {
		l.scene.Remove(n)
	}
	rec.nodes = nil
	rec.active = false
	if l.OnRelease != nil {
		l.OnRelease(c)
	}
}

// Unregister deactivates if needed and drops the record.
func (l *LODCache) Unregister(c BlockCoord) {
	if _, ok := l.records[c]; !ok {
		return
	}
	l.Deactivate(c)
	delete(l.records, c)
}

// Update runs the distance scan at the configured polling interval, not
// every frame.
func (l *LODCache) Update(dt float64, viewpoint Vec3) {
	l.elapsed += dt
	if l.elapsed < l.every {
		return
	}
	l.elapsed = 0

	for c, rec := range l.records {
		d2 := rec.Base.GroundDistanceSq(viewpoint)
		switch {
		case d2 > l.registryDist2:
			l.Unregister(c)
		case d2 <= l.viewDist2 && !rec.active:
			l.Activate(c)
		case d2 > l.viewDist2 && rec.active:
			l.Deactivate(c)
		}
	}
}

package sim

import "math"

// Structure emission. All dimensions derive from the block size so layouts
// scale with configuration; node Pos.Y is the part's base elevation and
// Size its full extents.

// emitBox creates one building part.
func emitBox(kind StructureKind, mat MaterialClass, center Point2D, y, w, h, d float64) *Node {
	return NewNode(kind, mat, V3(center.X, y, center.Z), V3(w, h, d))
}

// facadeWindows derives the window grid of one part: one row per floor,
// columns spread across the width, on the front and back facades.
// Roughly a third of the windows keep a night glow in the lit registry.
func (g *Generator) facadeWindows(c BlockCoord, part *Node, r *Rand) []*Node {
	if part.Size.X < WindowSpacing {
		return nil // too narrow for a grid (spire needles, roof caps)
	}
	rows := int(math.Floor(part.Size.Y / FloorHeight))
	cols := int(math.Ceil(part.Size.X / WindowSpacing))
	if rows < 1 || cols < 1 {
		return nil
	}

	var out []*Node
	colStep := part.Size.X / float64(cols)
	for _, zOff := range [2]float64{-part.Size.Z / 2, part.Size.Z / 2} {
		for row := 0; row < rows; row++ {
			wy := part.Pos.Y + float64(row)*FloorHeight + FloorHeight/2
			for col := 0; col < cols; col++ {
				wx := part.Pos.X - part.Size.X/2 + (float64(col)+0.5)*colStep
				win := NewNode(KindWindow, MatEmissive,
					V3(wx, wy, part.Pos.Z+zOff),
					V3(colStep*0.55, FloorHeight*0.5, 0.2))
				if r.Chance(WindowLitChance) {
					g.registerWindow(c, win, r.RangeF(WindowGlowMin, WindowGlowMax))
				}
				out = append(out, win)
			}
		}
	}
	return out
}

func (g *Generator) emitResidentialLot(c BlockCoord, base Vec3, r *Rand) []*Node {
	inner := g.opts.BlockSize - 2*g.opts.SidewalkWidth
	quarter := inner / 4

	var nodes []*Node
	for _, q := range [4]Point2D{{-quarter, -quarter}, {quarter, -quarter}, {-quarter, quarter}, {quarter, quarter}} {
		if r.Chance(0.15) {
			// Empty yard with a tree.
			nodes = append(nodes, emitTree(Pt(base.X+q.X, base.Z+q.Z), r))
			continue
		}
		w := r.RangeF(quarter*0.9, quarter*1.5)
		d := r.RangeF(quarter*0.9, quarter*1.5)
		h := r.RangeF(8, 20)
		house := emitBox(KindResidential, MatBrick, Pt(base.X+q.X, base.Z+q.Z), 0, w, h, d)
		nodes = append(nodes, house)
		nodes = append(nodes, g.facadeWindows(c, house, r)...)
	}
	return nodes
}

func (g *Generator) emitCommercialLot(c BlockCoord, base Vec3, r *Rand) []*Node {
	inner := g.opts.BlockSize - 2*g.opts.SidewalkWidth
	half := inner / 4

	var nodes []*Node
	for _, xOff := range [2]float64{-half, half} {
		w := r.RangeF(inner*0.35, inner*0.48)
		d := r.RangeF(inner*0.6, inner*0.9)
		h := r.RangeF(15, 40)
		shop := emitBox(KindCommercial, MatConcrete, Pt(base.X+xOff, base.Z), 0, w, h, d)
		nodes = append(nodes, shop)
		nodes = append(nodes, g.facadeWindows(c, shop, r)...)
	}
	return nodes
}

// emitTowerLot stacks a tiered skyscraper: podium, shaft, crown.
func (g *Generator) emitTowerLot(c BlockCoord, base Vec3, r *Rand) []*Node {
	inner := g.opts.BlockSize - 2*g.opts.SidewalkWidth
	center := base.Ground()

	podiumH := r.RangeF(10, 18)
	shaftH := r.RangeF(50, 120)
	crownH := r.RangeF(8, 24)

	podium := emitBox(KindSkyscraper, MatConcrete, center, 0, inner*0.9, podiumH, inner*0.9)
	shaft := emitBox(KindSkyscraper, MatGlass, center, podiumH, inner*0.6, shaftH, inner*0.6)
	crown := emitBox(KindSkyscraper, MatMetal, center, podiumH+shaftH, inner*0.35, crownH, inner*0.35)

	nodes := []*Node{podium, shaft, crown}
	nodes = append(nodes, g.facadeWindows(c, podium, r)...)
	nodes = append(nodes, g.facadeWindows(c, shaft, r)...)
	return nodes
}

func (g *Generator) emitPark(base Vec3, r *Rand) []*Node {
	inner := g.opts.BlockSize - 2*g.opts.SidewalkWidth
	half := inner / 2

	nodes := []*Node{
		emitBox(KindPark, MatFoliage, base.Ground(), 0, inner, 0.3, inner),
	}
	for i, n := 0, r.Range(4, 8); i < n; i++ {
		p := Pt(base.X+r.RangeF(-half, half), base.Z+r.RangeF(-half, half))
		nodes = append(nodes, emitTree(p, r))
	}
	for _, xOff := range [2]float64{-half * 0.6, half * 0.6} {
		bench := emitBox(KindBench, MatMetal, Pt(base.X+xOff, base.Z), 0, 2.4, 0.9, 0.9)
		nodes = append(nodes, bench)
	}
	return nodes
}

func emitTree(p Point2D, r *Rand) *Node {
	h := r.RangeF(4, 9)
	return NewNode(KindTree, MatFoliage, V3(p.X, 0, p.Z), V3(h*0.5, h, h*0.5))
}

// emitStreetLamps rings the sidewalk corners. Lamps join the lamp registry
// so nightfall can raise their intensity in bulk.
func (g *Generator) emitStreetLamps(c BlockCoord, base Vec3, r *Rand) []*Node {
	edge := (g.opts.BlockSize - g.opts.SidewalkWidth) / 2
	var nodes []*Node
	for _, corner := range [4]Point2D{{-edge, -edge}, {edge, -edge}, {-edge, edge}, {edge, edge}} {
		if r.Chance(0.1) {
			continue // the odd missing lamp
		}
		lamp := NewNode(KindStreetLamp, MatMetal,
			V3(base.X+corner.X, 0, base.Z+corner.Z), V3(0.4, 6, 0.4))
		g.registerLamp(c, lamp)
		nodes = append(nodes, lamp)
	}
	return nodes
}

// Landmark emission. Five fixed civic structures; each reserved block
// skips generic zoning entirely.
func (g *Generator) emitLandmark(c BlockCoord, kind StructureKind, base Vec3, r *Rand) []*Node {
	inner := g.opts.BlockSize - 2*g.opts.SidewalkWidth
	center := base.Ground()

	var parts []*Node
	switch kind {
	case KindCityHall:
		parts = []*Node{
			emitBox(KindCityHall, MatConcrete, center, 0, inner*0.95, 16, inner*0.7),
			emitBox(KindCityHall, MatConcrete, center, 16, inner*0.5, 12, inner*0.45),
			emitBox(KindCityHall, MatMetal, center, 28, inner*0.2, 8, inner*0.2),
		}
	case KindMuseum:
		parts = []*Node{
			emitBox(KindMuseum, MatConcrete, center, 0, inner*0.95, 12, inner*0.55),
			emitBox(KindMuseum, MatConcrete, Pt(center.X-inner*0.35, center.Z+inner*0.25), 0, inner*0.25, 10, inner*0.3),
			emitBox(KindMuseum, MatConcrete, Pt(center.X+inner*0.35, center.Z+inner*0.25), 0, inner*0.25, 10, inner*0.3),
		}
	case KindTrainStation:
		parts = []*Node{
			emitBox(KindTrainStation, MatBrick, center, 0, inner*0.9, 14, inner*0.5),
			emitBox(KindTrainStation, MatMetal, center, 14, inner*0.9, 6, inner*0.55),
		}
	case KindGlassTower:
		parts = []*Node{
			emitBox(KindGlassTower, MatGlass, center, 0, inner*0.7, 90, inner*0.7),
			emitBox(KindGlassTower, MatGlass, center, 90, inner*0.45, 50, inner*0.45),
		}
	case KindSpireTower:
		parts = []*Node{
			emitBox(KindSpireTower, MatConcrete, center, 0, inner*0.6, 110, inner*0.6),
			emitBox(KindSpireTower, MatMetal, center, 110, inner*0.08, 30, inner*0.08),
		}
	}

	nodes := parts
	for _, p := range parts {
		nodes = append(nodes, g.facadeWindows(c, p, r)...)
	}
	return nodes
}

package sim

import "testing"

func newTestGenerator(seed uint64) *Generator {
	return NewGenerator(testOptions(), seed)
}

func countKind(nodes []*Node, kind StructureKind) int {
	n := 0
	for _, node := range nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

func TestBuildBlockDeterministic(t *testing.T) {
	a := newTestGenerator(42)
	b := newTestGenerator(42)
	c := BlockCoord{X: 3, Z: -2}

	na := a.BuildBlock(c)
	nb := b.BuildBlock(c)
	if len(na) != len(nb) {
		t.Fatalf("node counts differ: %d vs %d", len(na), len(nb))
	}
	for i := range na {
		if na[i].Kind != nb[i].Kind || na[i].Pos != nb[i].Pos || na[i].Size != nb[i].Size {
			t.Fatalf("node %d differs: %+v vs %+v", i, na[i], nb[i])
		}
		if na[i].Intensity != nb[i].Intensity {
			t.Fatalf("node %d intensity differs", i)
		}
	}
}

func TestLandmarkBlocksAreReserved(t *testing.T) {
	g := newTestGenerator(7)
	cases := []struct {
		coord BlockCoord
		kind  StructureKind
	}{
		{BlockCoord{0, 0}, KindCityHall},
		{BlockCoord{-2, 1}, KindMuseum},
		{BlockCoord{2, -2}, KindTrainStation},
		{BlockCoord{1, 2}, KindGlassTower},
		{BlockCoord{-1, -2}, KindSpireTower},
	}
	for _, tc := range cases {
		nodes := g.BuildBlock(tc.coord)
		if countKind(nodes, tc.kind) == 0 {
			t.Errorf("block %v: no %v structure", tc.coord, tc.kind)
		}
		for _, generic := range []StructureKind{KindSkyscraper, KindCommercial, KindResidential, KindPark} {
			if countKind(nodes, generic) > 0 {
				t.Errorf("block %v: generic %v on a reserved block", tc.coord, generic)
			}
		}
		g.ReleaseBlock(tc.coord)
	}
}

func TestFacadeWindowGrid(t *testing.T) {
	g := newTestGenerator(1)
	r := NewRand(1)
	c := BlockCoord{X: 9, Z: 9}

	// 30 high and 20 wide: 5 floors, 4 columns, both facades.
	part := emitBox(KindCommercial, MatConcrete, Pt(0, 0), 0, 20, 30, 14)
	wins := g.facadeWindows(c, part, r)
	if len(wins) != 5*4*2 {
		t.Fatalf("windows = %d, want %d", len(wins), 5*4*2)
	}
	for _, w := range wins {
		if w.Kind != KindWindow {
			t.Fatalf("unexpected kind %v in window grid", w.Kind)
		}
	}
	g.ReleaseBlock(c)
}

func TestNarrowPartGetsNoWindows(t *testing.T) {
	g := newTestGenerator(1)
	r := NewRand(1)
	part := emitBox(KindSpireTower, MatMetal, Pt(0, 0), 110, 2.5, 30, 2.5)
	if wins := g.facadeWindows(BlockCoord{}, part, r); wins != nil {
		t.Fatalf("narrow part produced %d windows", len(wins))
	}
}

func TestWindowRegistryLifecycle(t *testing.T) {
	g := newTestGenerator(11)
	c := BlockCoord{X: 0, Z: 0} // city hall, always has a window grid
	nodes := g.BuildBlock(c)

	lit := g.LitWindowCount()
	if lit == 0 {
		t.Fatal("city hall block registered no lit windows")
	}

	// Built during daytime: every window must be dark.
	for _, n := range nodes {
		if n.Kind == KindWindow && n.Intensity != 0 {
			t.Fatal("window glowing during the day")
		}
	}

	g.UpdateWindowLighting(false)
	glowing := 0
	for _, n := range nodes {
		if n.Kind == KindWindow && n.Intensity > 0 {
			glowing++
		}
	}
	if glowing != lit {
		t.Fatalf("glowing windows = %d, registered = %d", glowing, lit)
	}

	g.UpdateWindowLighting(true)
	for _, n := range nodes {
		if n.Kind == KindWindow && n.Intensity != 0 {
			t.Fatal("window still glowing after daybreak")
		}
	}

	g.ReleaseBlock(c)
	if g.LitWindowCount() != 0 {
		t.Fatalf("registry retained %d windows after release", g.LitWindowCount())
	}
	g.UpdateWindowLighting(false) // must not touch released nodes
}

func TestNightBuildStartsGlowing(t *testing.T) {
	g := newTestGenerator(11)
	g.UpdateWindowLighting(false)

	nodes := g.BuildBlock(BlockCoord{X: 0, Z: 0})
	glowing := 0
	for _, n := range nodes {
		if n.Kind == KindWindow && n.Intensity > 0 {
			glowing++
		}
	}
	if glowing != g.LitWindowCount() {
		t.Fatalf("glowing = %d, registered = %d", glowing, g.LitWindowCount())
	}
	if glowing == 0 {
		t.Fatal("night build produced no glowing windows")
	}
}

func TestStreetLampsFollowDaylight(t *testing.T) {
	g := newTestGenerator(4)
	nodes := g.BuildBlock(BlockCoord{X: 4, Z: 4})

	lamps := countKind(nodes, KindStreetLamp)
	if lamps == 0 {
		t.Fatal("block emitted no street lamps")
	}
	for _, n := range nodes {
		if n.Kind == KindStreetLamp && n.Intensity != 0 {
			t.Fatal("lamp lit during the day")
		}
	}
	g.UpdateWindowLighting(false)
	for _, n := range nodes {
		if n.Kind == KindStreetLamp && n.Intensity != 1 {
			t.Fatal("lamp dark at night")
		}
	}
}

func TestZoningDensityGradient(t *testing.T) {
	r := NewRand(5)
	const rolls = 2000

	downtown := map[StructureKind]int{}
	for i := 0; i < rolls; i++ {
		downtown[pickZone(r, 0)]++
	}
	if downtown[KindSkyscraper] <= downtown[KindResidential] {
		t.Fatalf("downtown: skyscrapers %d not dominant over residential %d",
			downtown[KindSkyscraper], downtown[KindResidential])
	}

	outskirts := map[StructureKind]int{}
	for i := 0; i < rolls; i++ {
		outskirts[pickZone(r, 10)]++
	}
	if outskirts[KindResidential] <= outskirts[KindSkyscraper] {
		t.Fatalf("outskirts: residential %d not dominant over skyscrapers %d",
			outskirts[KindResidential], outskirts[KindSkyscraper])
	}
}

func TestBlockBase(t *testing.T) {
	g := newTestGenerator(1)
	pitch := testOptions().Pattern()
	base := g.BlockBase(BlockCoord{X: 2, Z: -3})
	if base.X != 2*pitch || base.Z != -3*pitch || base.Y != 0 {
		t.Fatalf("base = %+v, want (%v, 0, %v)", base, 2*pitch, -3*pitch)
	}
}

package sim

import (
	"math"
	"testing"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.CitySize = 500
	opts.BlockSize = 40
	opts.RoadWidth = 10
	opts.SidewalkWidth = 4
	return opts
}

func TestGridBlockCount(t *testing.T) {
	cases := []struct {
		name     string
		citySize float64
		want     int
	}{
		{"ten by ten", 500, 10},
		{"odd extent", 460, 9},
		{"single block", 55, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions()
			opts.CitySize = tc.citySize
			g := BuildRoadGrid(opts, 42)

			wantBlocks := tc.want * tc.want
			if len(g.Blocks) != wantBlocks {
				t.Errorf("blocks = %d, want %d", len(g.Blocks), wantBlocks)
			}
			if len(g.Sidewalks) != wantBlocks {
				t.Errorf("sidewalks = %d, want %d", len(g.Sidewalks), wantBlocks)
			}
			if len(g.Segments) != 2*wantBlocks {
				t.Errorf("segments = %d, want %d", len(g.Segments), 2*wantBlocks)
			}
		})
	}
}

func TestSidewalkNeighborSpacing(t *testing.T) {
	opts := testOptions()
	g := BuildRoadGrid(opts, 42)
	pitch := opts.Pattern()

	centers := make(map[gridKey]Point2D, len(g.Sidewalks))
	for _, z := range g.Sidewalks {
		centers[keyOf(z.Center)] = z.Center
	}
	for _, z := range g.Sidewalks {
		k := keyOf(z.Center)
		east, ok := centers[gridKey{X: k.X + int(pitch), Z: k.Z}]
		if !ok {
			continue // boundary block
		}
		if d := z.Center.Distance(east); math.Abs(d-pitch) > 1e-9 {
			t.Fatalf("neighbor spacing = %v, want %v", d, pitch)
		}
	}
}

func TestRoadGraphClosure(t *testing.T) {
	opts := testOptions()
	g := BuildRoadGrid(opts, 42)

	n := opts.GridExtent()
	lo := -n / 2
	hi := lo + n
	pitch := opts.Pattern()
	// Last reachable corner coordinate on each axis.
	maxCorner := float64(hi)*pitch - pitch/2

	deadEnds := 0
	for _, s := range g.Segments {
		if len(g.SegmentsFrom(s.End)) > 0 {
			continue
		}
		deadEnds++
		atEast := math.Abs(s.End.X-maxCorner) <= MatchEps
		atSouth := math.Abs(s.End.Z-maxCorner) <= MatchEps
		if !atEast && !atSouth {
			t.Fatalf("interior dead end at %+v", s.End)
		}
	}
	if deadEnds == 0 {
		t.Fatal("expected boundary dead ends")
	}
	if deadEnds >= len(g.Segments)/2 {
		t.Fatalf("too many dead ends: %d of %d", deadEnds, len(g.Segments))
	}
}

func TestIntersectionDedupe(t *testing.T) {
	opts := testOptions()
	g := BuildRoadGrid(opts, 42)

	seen := make(map[gridKey]bool)
	for _, in := range g.Intersections {
		k := keyOf(in.Pos)
		if seen[k] {
			t.Fatalf("duplicate intersection at %+v", in.Pos)
		}
		seen[k] = true
	}

	// The registry must be derivable from segment endpoints alone.
	incident := make(map[gridKey]int)
	for _, s := range g.Segments {
		ks := keyOf(s.Start)
		ke := keyOf(s.End)
		incident[ks]++
		if ke != ks {
			incident[ke]++
		}
	}
	want := 0
	for _, n := range incident {
		if n >= 2 {
			want++
		}
	}
	if len(g.Intersections) != want {
		t.Errorf("intersections = %d, want %d shared endpoints", len(g.Intersections), want)
	}
}

func TestIntersectionIncidence(t *testing.T) {
	g := BuildRoadGrid(testOptions(), 42)
	for _, in := range g.Intersections {
		if len(in.Roads) < 2 {
			t.Fatalf("intersection at %+v with %d roads", in.Pos, len(in.Roads))
		}
		for _, s := range in.Roads {
			if !s.Start.Near(in.Pos, MatchEps) && !s.End.Near(in.Pos, MatchEps) {
				t.Fatalf("road %+v listed at distant intersection %+v", s, in.Pos)
			}
		}
		if in.Timer < LightPhaseMin || in.Timer > LightPhaseMax {
			t.Errorf("initial light timer %v outside phase bounds", in.Timer)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	opts := testOptions()
	a := BuildRoadGrid(opts, 1234)
	b := BuildRoadGrid(opts, 1234)

	if len(a.Crosswalks) != len(b.Crosswalks) {
		t.Fatalf("crosswalks differ: %d vs %d", len(a.Crosswalks), len(b.Crosswalks))
	}
	for i := range a.Segments {
		if a.Segments[i].Start != b.Segments[i].Start || a.Segments[i].End != b.Segments[i].End {
			t.Fatalf("segment %d differs", i)
		}
	}
	for i := range a.Crosswalks {
		if a.Crosswalks[i].Center != b.Crosswalks[i].Center {
			t.Fatalf("crosswalk %d differs", i)
		}
	}
}

func TestSegmentInterpolation(t *testing.T) {
	s := &RoadSegment{Start: Pt(0, 10), End: Pt(50, 10), Dir: EastWest}
	if got := s.Length(); math.Abs(got-50) > 1e-9 {
		t.Fatalf("length = %v", got)
	}
	mid := s.PointAt(0.5)
	if math.Abs(mid.X-25) > 1e-9 || math.Abs(mid.Z-10) > 1e-9 {
		t.Fatalf("midpoint = %+v", mid)
	}
	if h := s.Heading(); math.Abs(h) > 1e-9 {
		t.Fatalf("heading = %v", h)
	}
}

func TestNearestCrosswalk(t *testing.T) {
	g := BuildRoadGrid(testOptions(), 42)
	if len(g.Crosswalks) == 0 {
		t.Fatal("no crosswalks generated")
	}
	cw := g.Crosswalks[0]
	got := g.NearestCrosswalk(cw.Center, 5)
	if got == nil {
		t.Fatal("crosswalk not found at its own center")
	}
	if got.Center.Distance(cw.Center) > 5 {
		t.Fatalf("found crosswalk %v units away", got.Center.Distance(cw.Center))
	}
	if far := g.NearestCrosswalk(Pt(1e6, 1e6), CrosswalkSearchRange); far != nil {
		t.Fatal("found crosswalk out of range")
	}
}

package sim

import "testing"

func cityOptions() Options {
	opts := DefaultOptions()
	opts.CitySize = 200
	opts.VehicleCount = 8
	opts.PedestrianCount = 12
	opts.Seed = 5
	return opts
}

func TestNewCityRequiresCollaborators(t *testing.T) {
	if _, err := NewCity(cityOptions(), nil, FixedViewpoint{}); err == nil {
		t.Fatal("nil scene accepted")
	}
	if _, err := NewCity(cityOptions(), NullScene{}, nil); err == nil {
		t.Fatal("nil viewpoint provider accepted")
	}
}

func TestNewCityRejectsBadOptions(t *testing.T) {
	opts := cityOptions()
	opts.ViewDistance = opts.BlockRegistryDistance + 1
	if _, err := NewCity(opts, NullScene{}, FixedViewpoint{}); err == nil {
		t.Fatal("invalid options accepted")
	}
}

func TestNewCitySpawnsEverything(t *testing.T) {
	city, err := NewCity(cityOptions(), NullScene{}, FixedViewpoint{})
	if err != nil {
		t.Fatal(err)
	}
	s := city.Stats()
	if s.Blocks != 16 {
		t.Fatalf("blocks = %d, want 16", s.Blocks)
	}
	if s.Vehicles != 8 || s.Pedestrians != 12 {
		t.Fatalf("agents = %d/%d, want 8/12", s.Vehicles, s.Pedestrians)
	}
	if s.Intersections == 0 || s.Sidewalks == 0 {
		t.Fatalf("layout incomplete: %+v", s)
	}
	if s.ActiveBlocks != 0 {
		t.Fatalf("blocks active before any streaming scan: %d", s.ActiveBlocks)
	}
}

func TestCityStreamsBlocksNearViewpoint(t *testing.T) {
	city, err := NewCity(cityOptions(), NullScene{}, FixedViewpoint{})
	if err != nil {
		t.Fatal(err)
	}
	city.Update(DefaultLODUpdateFrequency + 0.001)

	s := city.Stats()
	if s.ActiveBlocks != s.Blocks {
		// Every block of a 200-unit city sits inside the 600-unit view range.
		t.Fatalf("active blocks = %d, want %d", s.ActiveBlocks, s.Blocks)
	}
	if s.LitWindows == 0 {
		t.Fatal("no lit windows registered after streaming in the whole city")
	}
}

func TestCityDeterminism(t *testing.T) {
	build := func() Stats {
		city, err := NewCity(cityOptions(), NullScene{}, FixedViewpoint{})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 40; i++ {
			city.Update(0.1)
		}
		return city.Stats()
	}
	a, b := build(), build()
	if a != b {
		t.Fatalf("same seed diverged: %+v vs %+v", a, b)
	}
}

func TestCityLongRunStability(t *testing.T) {
	city, err := NewCity(cityOptions(), NullScene{}, FixedViewpoint{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2000; i++ {
		city.Update(0.05)
	}
	for i := range city.Traffic.Vehicles {
		p := city.Traffic.Vehicles[i].Progress
		if p < 0 || p > 1 {
			t.Fatalf("vehicle %d progress %v out of range", i, p)
		}
	}
	for i := range city.Peds.Peds {
		if city.Peds.Peds[i].State == PedWaiting {
			t.Fatalf("pedestrian %d reached an unreachable state", i)
		}
	}
}

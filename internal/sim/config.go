package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout defaults (world units).
const (
	DefaultCitySize      = 500.0
	DefaultBlockSize     = 40.0
	DefaultRoadWidth     = 10.0
	DefaultSidewalkWidth = 4.0
)

// Streaming defaults.
const (
	DefaultViewDistance          = 600.0
	DefaultBlockRegistryDistance = 800.0
	DefaultLODUpdateFrequency    = 0.5
)

// Agent defaults.
const (
	DefaultVehicleCount    = 60
	DefaultPedestrianCount = 120
)

// Traffic-light green phase bounds (seconds). Phases are per intersection
// and deliberately uncoordinated.
const (
	LightPhaseMin = 10.0
	LightPhaseMax = 15.0
)

// Vehicle queue position when held at a red light. Holding just shy of the
// stop line keeps the car visibly queued instead of snapping back.
const QueueProgress = 0.98

// Pedestrian behavior constants.
const (
	IdleTimeMin          = 1.0
	IdleTimeMax          = 5.0
	WalkChance           = 0.8
	CrosswalkSearchRange = 30.0
)

// Facade window layout.
const (
	FloorHeight     = 6.0
	WindowSpacing   = 5.0
	WindowLitChance = 0.3
	WindowGlowMin   = 0.55
	WindowGlowMax   = 1.0
)

// Crosswalk placement chance per block corner.
const CrosswalkChance = 0.7

// Day/night cycle length (seconds of wall time per full day).
const DefaultDayLength = 240.0

// Options is the full tunable surface of a city session.
type Options struct {
	CitySize      float64 `yaml:"city_size"`
	BlockSize     float64 `yaml:"block_size"`
	RoadWidth     float64 `yaml:"road_width"`
	SidewalkWidth float64 `yaml:"sidewalk_width"`

	VehicleCount    int `yaml:"vehicle_count"`
	PedestrianCount int `yaml:"pedestrian_count"`

	ViewDistance          float64 `yaml:"view_distance"`
	BlockRegistryDistance float64 `yaml:"block_registry_distance"`
	LODUpdateFrequency    float64 `yaml:"lod_update_frequency"`

	DayLength float64 `yaml:"day_length"`

	Seed uint64 `yaml:"seed"`
}

// DefaultOptions returns a playable mid-size city.
func DefaultOptions() Options {
	return Options{
		CitySize:              DefaultCitySize,
		BlockSize:             DefaultBlockSize,
		RoadWidth:             DefaultRoadWidth,
		SidewalkWidth:         DefaultSidewalkWidth,
		VehicleCount:          DefaultVehicleCount,
		PedestrianCount:       DefaultPedestrianCount,
		ViewDistance:          DefaultViewDistance,
		BlockRegistryDistance: DefaultBlockRegistryDistance,
		LODUpdateFrequency:    DefaultLODUpdateFrequency,
		DayLength:             DefaultDayLength,
	}
}

// LoadOptions reads options from a YAML file, filling unset fields with
// defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Pattern is the grid pitch: one block plus one road.
func (o Options) Pattern() float64 {
	return o.BlockSize + o.RoadWidth
}

// GridExtent is the number of blocks along one axis.
func (o Options) GridExtent() int {
	if o.Pattern() <= 0 {
		return 0
	}
	return int(o.CitySize / o.Pattern())
}

// Validate rejects configurations the streaming cache cannot serve.
// ViewDistance must stay below BlockRegistryDistance or blocks would be
// evicted before they are ever deactivated cleanly.
func (o Options) Validate() error {
	if o.CitySize <= 0 || o.BlockSize <= 0 || o.RoadWidth <= 0 {
		return fmt.Errorf("city_size, block_size and road_width must be positive")
	}
	if o.SidewalkWidth < 0 || o.SidewalkWidth*2 >= o.BlockSize {
		return fmt.Errorf("sidewalk_width %v does not fit block_size %v", o.SidewalkWidth, o.BlockSize)
	}
	if o.GridExtent() < 1 {
		return fmt.Errorf("city_size %v holds no full block of pitch %v", o.CitySize, o.Pattern())
	}
	if o.ViewDistance <= 0 || o.BlockRegistryDistance <= 0 {
		return fmt.Errorf("view_distance and block_registry_distance must be positive")
	}
	if o.ViewDistance >= o.BlockRegistryDistance {
		return fmt.Errorf("view_distance %v must be below block_registry_distance %v",
			o.ViewDistance, o.BlockRegistryDistance)
	}
	if o.LODUpdateFrequency <= 0 {
		return fmt.Errorf("lod_update_frequency must be positive")
	}
	if o.VehicleCount < 0 || o.PedestrianCount < 0 {
		return fmt.Errorf("agent counts must not be negative")
	}
	if o.DayLength <= 0 {
		return fmt.Errorf("day_length must be positive")
	}
	return nil
}

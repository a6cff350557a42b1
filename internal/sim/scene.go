package sim

import "github.com/google/uuid"

// StructureKind tags every scene node at creation time. Consumers dispatch
// on the tag, never by sniffing node properties.
type StructureKind int

const (
	KindResidential StructureKind = iota
	KindCommercial
	KindSkyscraper
	KindPark
	KindCityHall
	KindMuseum
	KindTrainStation
	KindGlassTower
	KindSpireTower
	KindWindow
	KindStreetLamp
	KindBench
	KindTree
	KindVehicle
	KindPedestrian
)

var kindNames = map[StructureKind]string{
	KindResidential:  "residential",
	KindCommercial:   "commercial",
	KindSkyscraper:   "skyscraper",
	KindPark:         "park",
	KindCityHall:     "city_hall",
	KindMuseum:       "museum",
	KindTrainStation: "train_station",
	KindGlassTower:   "glass_tower",
	KindSpireTower:   "spire_tower",
	KindWindow:       "window",
	KindStreetLamp:   "street_lamp",
	KindBench:        "bench",
	KindTree:         "tree",
	KindVehicle:      "vehicle",
	KindPedestrian:   "pedestrian",
}

func (k StructureKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MaterialClass selects shading on the renderer side.
type MaterialClass int

const (
	MatConcrete MaterialClass = iota
	MatBrick
	MatGlass
	MatMetal
	MatFoliage
	MatEmissive
)

// Node is one renderable scene entry. The simulation fills it in and hands
// it to a Scene; beyond that the handle is opaque to the renderer.
type Node struct {
	ID   uuid.UUID
	Kind StructureKind

	Pos   Vec3
	Size  Vec3
	Yaw   float64
	Pitch float64

	Material  MaterialClass
	Tint      [3]float64 // base color, renderer may ignore per material
	Intensity float64    // emissive strength for windows and lamps
}

// NewNode allocates a node with a fresh identity.
func NewNode(kind StructureKind, mat MaterialClass, pos, size Vec3) *Node {
	return &Node{
		ID:       uuid.New(),
		Kind:     kind,
		Pos:      pos,
		Size:     size,
		Material: mat,
	}
}

// Scene is the renderable collection the simulation feeds. Add and Remove
// are the only operations; implementations must tolerate both in any order
// but the simulation never removes a node it did not add.
type Scene interface {
	Add(n *Node)
	Remove(n *Node)
}

// NullScene discards everything. Used for headless generation runs.
type NullScene struct{}

func (NullScene) Add(*Node)    {}
func (NullScene) Remove(*Node) {}

// ViewpointProvider exposes the camera/player position read by the
// streaming cache each tick.
type ViewpointProvider interface {
	Viewpoint() Vec3
}

// FixedViewpoint is a static viewpoint, handy for headless runs.
type FixedViewpoint Vec3

func (v FixedViewpoint) Viewpoint() Vec3 {
	return Vec3(v)
}

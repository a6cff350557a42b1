package viewer

import (
	"procity/internal/sim"
)

// ProtocolVersion guards the browser renderer against stale bundles.
const ProtocolVersion = 1

type WireVec [3]float64

func vec(v sim.Vec3) WireVec {
	return WireVec{v.X, v.Y, v.Z}
}

// WireNode is the full description of one scene node.
type WireNode struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Pos       WireVec    `json:"pos"`
	Size      WireVec    `json:"size"`
	Yaw       float64    `json:"yaw,omitempty"`
	Pitch     float64    `json:"pitch,omitempty"`
	Material  int        `json:"material"`
	Tint      [3]float64 `json:"tint"`
	Intensity float64    `json:"intensity,omitempty"`
}

func wireNode(n *sim.Node) WireNode {
	return WireNode{
		ID:        n.ID.String(),
		Kind:      n.Kind.String(),
		Pos:       vec(n.Pos),
		Size:      vec(n.Size),
		Yaw:       n.Yaw,
		Pitch:     n.Pitch,
		Material:  int(n.Material),
		Tint:      n.Tint,
		Intensity: n.Intensity,
	}
}

// WireTransform is the per-frame delta for a moving node.
type WireTransform struct {
	ID        string  `json:"id"`
	Pos       WireVec `json:"pos"`
	Yaw       float64 `json:"yaw"`
	Pitch     float64 `json:"pitch,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`
}

// BootstrapResponse seeds a fresh client before it opens the stream.
type BootstrapResponse struct {
	ProtocolVersion int     `json:"protocol_version"`
	Seed            uint64  `json:"seed"`
	CitySize        float64 `json:"city_size"`
	BlockSize       float64 `json:"block_size"`
	RoadWidth       float64 `json:"road_width"`
	SidewalkWidth   float64 `json:"sidewalk_width"`
	ViewDistance    float64 `json:"view_distance"`
	DayLength       float64 `json:"day_length"`
}

// SnapshotMsg carries the complete current scene. Sent zstd-compressed as
// one binary websocket message right after subscribe.
type SnapshotMsg struct {
	Type  string     `json:"type"` // "snapshot"
	Tick  uint64     `json:"tick"`
	Nodes []WireNode `json:"nodes"`
}

// FrameMsg is the steady-state diff stream.
type FrameMsg struct {
	Type    string          `json:"type"` // "frame"
	Tick    uint64          `json:"tick"`
	Daytime bool            `json:"daytime"`
	Added   []WireNode      `json:"added,omitempty"`
	Removed []string        `json:"removed,omitempty"`
	Moved   []WireTransform `json:"moved,omitempty"`
}

// ViewpointMsg is the only client-to-server message: the camera/player
// position driving the streaming cache.
type ViewpointMsg struct {
	Type string  `json:"type"` // "viewpoint"
	Pos  WireVec `json:"pos"`
}

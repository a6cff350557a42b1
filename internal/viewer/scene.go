package viewer

import (
	"sync"

	"github.com/google/uuid"

	"procity/internal/sim"
)

// RecordingScene implements sim.Scene by keeping the live node set and
// accumulating add/remove diffs between frames. The simulation goroutine
// both writes and snapshots; the lock only covers bookkeeping reads like
// Len from other goroutines. Node contents are not copied here, so nothing
// may read a snapshot while the simulation is mid-update.
type RecordingScene struct {
	mu      sync.Mutex
	nodes   map[uuid.UUID]*sim.Node
	added   []*sim.Node
	removed []uuid.UUID
}

func NewRecordingScene() *RecordingScene {
	return &RecordingScene{
		nodes: make(map[uuid.UUID]*sim.Node),
	}
}

func (s *RecordingScene) Add(n *sim.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[n.ID]; ok {
		return
	}
	s.nodes[n.ID] = n
	s.added = append(s.added, n)
}

func (s *RecordingScene) Remove(n *sim.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[n.ID]; !ok {
		return
	}
	delete(s.nodes, n.ID)
	s.removed = append(s.removed, n.ID)
}

// Len is the current scene size.
func (s *RecordingScene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Snapshot copies the full current scene to wire form.
func (s *RecordingScene) Snapshot() []WireNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WireNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, wireNode(n))
	}
	return out
}

// Drain returns the diffs accumulated since the previous call and resets
// them. Nodes added and removed within one frame cancel out upstream: the
// removed id simply never reaches a client that never saw the add.
func (s *RecordingScene) Drain() (added []WireNode, removed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.added {
		added = append(added, wireNode(n))
	}
	for _, id := range s.removed {
		removed = append(removed, id.String())
	}
	s.added = s.added[:0]
	s.removed = s.removed[:0]
	return added, removed
}

// SharedViewpoint is a lock-guarded viewpoint the websocket read loop
// writes and the simulation loop reads.
type SharedViewpoint struct {
	mu  sync.Mutex
	pos sim.Vec3
}

func NewSharedViewpoint(start sim.Vec3) *SharedViewpoint {
	return &SharedViewpoint{pos: start}
}

func (v *SharedViewpoint) Viewpoint() sim.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos
}

func (v *SharedViewpoint) Set(pos sim.Vec3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pos = pos
}

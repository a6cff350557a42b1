package viewer

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"procity/internal/sim"
)

// Simulation tick pacing for the serve loop.
const (
	TickInterval = 50 * time.Millisecond
	writeTimeout = 5 * time.Second
)

// Server runs the simulation loop and streams the scene to browser
// renderers over websockets. It never mutates simulation state beyond
// calling Update and relaying client viewpoints.
type Server struct {
	city  *sim.City
	scene *RecordingScene
	view  *SharedViewpoint
	log   *log.Logger

	upgrader websocket.Upgrader
	enc      *zstd.Encoder

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	pending []*websocket.Conn
	tick    uint64
}

func NewServer(city *sim.City, scene *RecordingScene, view *SharedViewpoint, logger *log.Logger) (*Server, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return &Server{
		city:  city,
		scene: scene,
		view:  view,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		enc:   enc,
		conns: make(map[*websocket.Conn]struct{}),
	}, nil
}

// Handler exposes the HTTP surface: /bootstrap and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap", s.handleBootstrap)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleBootstrap(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	opts := s.city.Opts
	resp := BootstrapResponse{
		ProtocolVersion: ProtocolVersion,
		Seed:            opts.Seed,
		CitySize:        opts.CitySize,
		BlockSize:       opts.BlockSize,
		RoadWidth:       opts.RoadWidth,
		SidewalkWidth:   opts.SidewalkWidth,
		ViewDistance:    opts.ViewDistance,
		DayLength:       opts.DayLength,
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func (s *Server) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}

	// The connection parks here until the next Step. Snapshot and
	// registration both happen on the simulation goroutine, between two
	// ticks, so node state never changes mid-read and no diff frame can
	// fall between a client's snapshot and its first frame.
	s.mu.Lock()
	s.pending = append(s.pending, conn)
	s.mu.Unlock()
	s.log.Printf("viewer connected from %s", r.RemoteAddr)

	go s.readLoop(conn)
}

// readLoop relays viewpoint updates until the client goes away.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.drop(conn)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var vp ViewpointMsg
		if err := json.Unmarshal(msg, &vp); err != nil || vp.Type != "viewpoint" {
			continue
		}
		s.view.Set(sim.V3(vp.Pos[0], vp.Pos[1], vp.Pos[2]))
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	// The client may die before Step ever admits it.
	for i, p := range s.pending {
		if p == conn {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// Run drives the simulation at a fixed cadence and serves HTTP until the
// listener fails.
func (s *Server) Run(addr string) error {
	go s.simLoop()
	s.log.Printf("serving viewer on %s", addr)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	return srv.ListenAndServe()
}

func (s *Server) simLoop() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	last := time.Now()
	for now := range ticker.C {
		dt := now.Sub(last).Seconds()
		last = now
		s.Step(dt)
	}
}

// Step advances the simulation one frame, admits pending viewers and
// broadcasts the diff. All scene and node reads happen here, on the same
// goroutine that mutates them through Update; the websocket handlers only
// park connections.
func (s *Server) Step(dt float64) {
	s.city.Update(dt)

	added, removed := s.scene.Drain()
	frame := FrameMsg{
		Type:    "frame",
		Daytime: s.city.Clock.Daytime(),
		Added:   added,
		Removed: removed,
		Moved:   s.agentTransforms(),
	}

	s.mu.Lock()
	s.tick++
	frame.Tick = s.tick
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	joining := s.pending
	s.pending = nil
	for _, c := range joining {
		s.conns[c] = struct{}{}
	}
	s.mu.Unlock()

	// Joining clients get the post-update snapshot instead of this tick's
	// frame; the snapshot already contains everything the frame would add.
	if len(joining) > 0 {
		s.sendSnapshot(joining, frame.Tick)
	}

	if len(conns) == 0 {
		return
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		return
	}
	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, raw); err != nil {
			s.drop(c)
		}
	}
}

// sendSnapshot delivers the full current scene to newly admitted viewers.
// The payload can run to megabytes of JSON for a dense downtown, so it goes
// out zstd-compressed as one binary message.
func (s *Server) sendSnapshot(conns []*websocket.Conn, tick uint64) {
	snap := SnapshotMsg{Type: "snapshot", Tick: tick, Nodes: s.scene.Snapshot()}
	raw, err := json.Marshal(snap)
	if err != nil {
		for _, c := range conns {
			s.drop(c)
		}
		return
	}
	payload := s.enc.EncodeAll(raw, nil)
	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			s.drop(c)
		}
	}
}

// agentTransforms collects the per-frame moving nodes: every vehicle and
// pedestrian. Static structures only ever travel via add/remove.
func (s *Server) agentTransforms() []WireTransform {
	vehicles := s.city.Traffic.Vehicles
	peds := s.city.Peds.Peds
	out := make([]WireTransform, 0, len(vehicles)+len(peds))
	for i := range vehicles {
		n := vehicles[i].Node
		out = append(out, WireTransform{ID: n.ID.String(), Pos: vec(n.Pos), Yaw: n.Yaw})
	}
	for i := range peds {
		n := peds[i].Node
		out = append(out, WireTransform{ID: n.ID.String(), Pos: vec(n.Pos), Yaw: n.Yaw, Pitch: n.Pitch})
	}
	return out
}

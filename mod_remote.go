package voxsculpt

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// remoteCommand is one JSON message from a UI client.
type remoteCommand struct {
	Action   string  `json:"action"`
	Duration float64 `json:"duration,omitempty"` // seconds, for "start"
	Progress float64 `json:"progress,omitempty"` // for "progress"
	Model    string  `json:"model,omitempty"`    // for "start"/"rebuild"
	Enabled  bool    `json:"enabled,omitempty"`  // for "autorotate"
}

// remoteSnapshot is the state broadcast to every connected client.
type remoteSnapshot struct {
	Phase    string  `json:"phase"`
	Settled  int     `json:"settled"`
	Total    int     `json:"total"`
	Progress float64 `json:"progress"`
	Running  bool    `json:"running"`
}

// RemoteModule exposes the sculpture to an external UI over a
// websocket: clients send commands, the module broadcasts state.
// Connections run on their own goroutines, but commands are funneled
// through a channel and applied by remoteSystem on the frame loop, so
// the engine stays single-threaded.
type RemoteModule struct {
	Addr string
}

type remoteState struct {
	log      Logger
	commands chan remoteCommand

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	lastBroadcast time.Time
}

var remoteUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local control surface, any origin
	},
}

func (mod RemoteModule) Install(app *App, cmd *Commands) {
	addr := mod.Addr
	if addr == "" {
		addr = ":8080"
	}

	state := &remoteState{
		log:      app.Logger(),
		commands: make(chan remoteCommand, 64),
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
	cmd.AddResources(state)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.handleWebSocket)

	go func() {
		state.log.Infof("remote control listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			state.log.Errorf("remote control server: %v", err)
		}
	}()

	app.UseSystem(System(remoteSystem).InStage(PostUpdate))
}

func (s *remoteState) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := remoteUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for {
		var cmd remoteCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			s.log.Debugf("websocket read: %v", err)
			return
		}
		select {
		case s.commands <- cmd:
		default:
			s.log.Warnf("remote command queue full, dropping %q", cmd.Action)
		}
	}
}

func (s *remoteState) broadcast(snapshot remoteSnapshot) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for conn, mu := range s.clients {
		mu.Lock()
		if err := conn.WriteJSON(snapshot); err != nil {
			s.log.Debugf("websocket write: %v", err)
		}
		mu.Unlock()
	}
}

// remoteSystem drains pending commands into the engine and timer, then
// broadcasts a snapshot a few times per second.
func remoteSystem(s *remoteState, engine *Engine, timer *FocusTimer, lib *ModelLibrary, stats *RenderStats) {
drain:
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd, engine, timer, lib)
		default:
			break drain
		}
	}

	if time.Since(s.lastBroadcast) < 100*time.Millisecond {
		return
	}
	s.lastBroadcast = time.Now()
	s.broadcast(remoteSnapshot{
		Phase:    engine.Phase().String(),
		Settled:  stats.Settled,
		Total:    stats.Total,
		Progress: timer.Progress(),
		Running:  timer.State != TimerIdle,
	})
}

func (s *remoteState) apply(cmd remoteCommand, engine *Engine, timer *FocusTimer, lib *ModelLibrary) {
	switch cmd.Action {
	case "start":
		if cmd.Model != "" {
			if voxels, ok := lib.GetByName(cmd.Model); ok {
				timer.NextModel = voxels
			} else {
				s.log.Warnf("unknown model %q, rotating instead", cmd.Model)
			}
		}
		timer.Start(time.Duration(cmd.Duration * float64(time.Second)))
	case "stop":
		timer.Stop()
	case "dismantle":
		engine.Dismantle()
	case "rebuild":
		if voxels, ok := lib.GetByName(cmd.Model); ok {
			engine.Rebuild(voxels, false)
		} else {
			s.log.Warnf("rebuild: unknown model %q", cmd.Model)
		}
	case "progress":
		engine.SetProgress(float32(cmd.Progress))
	case "finish":
		engine.FinishRebuild()
	case "autorotate":
		engine.SetAutoRotate(cmd.Enabled)
	default:
		s.log.Warnf("unknown remote action %q", cmd.Action)
	}
}

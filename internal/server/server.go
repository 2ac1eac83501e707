package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/stats"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// controlTimeout bounds how long a request waits for the clock goroutine.
const controlTimeout = 2 * time.Second

// Poster runs functions on the goroutine that owns the clock.
type Poster interface {
	Post(fn func())
}

// Options configures optional server features.
type Options struct {
	// Hub receives streamed clock events. A new hub is created when nil.
	Hub *Hub
	// Wall stamps streamed events. Defaults to the real clock.
	Wall   clock.Clock
	Logger *slog.Logger
	// StreamFixed also streams fixed-step events, which can be frequent.
	StreamFixed bool
}

// Server exposes a running game-loop clock over HTTP and WebSocket.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	clock      *timestep.Clock
	queue      Poster
	stats      *stats.Collector
	hub        *Hub
	wall       clock.Clock
	log        *slog.Logger
	sub        timestep.Subscription
	hubCtx     context.Context
	stopHub    context.CancelFunc
}

// New creates a new Cadence server. It subscribes to c immediately, so it
// must be called before the queue starts running.
func New(addr string, c *timestep.Clock, q Poster, st *stats.Collector, opts ...Options) *Server {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Hub == nil {
		o.Hub = NewHub()
	}
	if o.Wall == nil {
		o.Wall = clock.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	s := &Server{
		clock: c,
		queue: q,
		stats: st,
		hub:   o.Hub,
		wall:  o.Wall,
		log:   o.Logger.With("component", "server"),
		mux:   http.NewServeMux(),
	}
	s.hubCtx, s.stopHub = context.WithCancel(context.Background())
	s.sub = c.SubscribeAll(s.streamer(o.StreamFixed))
	s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           LoggingMiddleware(s.mux, s.log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.HandleFunc("/api/start", s.handleStart)
	s.mux.HandleFunc("/api/stop", s.handleStop)
	s.mux.HandleFunc("/dashboard/", s.handleDashboard)
	s.mux.HandleFunc("/ws", s.hub.HandleWebSocket)
}

// streamer forwards clock events to the hub. It runs on the clock goroutine
// and never blocks it.
func (s *Server) streamer(withFixed bool) timestep.Handler {
	return func(_ *timestep.Clock, ev timestep.Event) {
		switch ev.Kind() {
		case timestep.KindFrameStep:
			return
		case timestep.KindFixedStep:
			if !withFixed {
				return
			}
		}
		if s.hub.ClientCount() == 0 {
			return
		}
		s.hub.Publish(Message{
			Type:  MessageEvent,
			Event: timestep.ToPayload(ev),
			Time:  s.wall.Now(),
		})
	}
}

// handleRoot serves a welcome message.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "cadence",
		"status":  "running",
		"time":    s.wall.Now().Format(time.RFC3339),
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Stats   stats.Snapshot    `json:"stats"`
	Clock   timestep.Snapshot `json:"clock"`
	Config  ConfigView        `json:"config"`
	Clients int               `json:"clients"`
}

// ConfigView is the JSON form of the clock configuration.
type ConfigView struct {
	FixedStep  time.Duration          `json:"fixed_step"`
	RenderStep time.Duration          `json:"render_step"`
	MaxFrame   time.Duration          `json:"max_frame"`
	Overrun    timestep.OverrunPolicy `json:"overrun"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var snap timestep.Snapshot
	if err := s.do(r.Context(), func() { snap = s.clock.Snapshot() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, "clock is not responding")
		return
	}
	cfg := s.clock.Config()
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats: s.stats.Snapshot(),
		Clock: snap,
		Config: ConfigView{
			FixedStep:  cfg.FixedStep,
			RenderStep: cfg.RenderStep,
			MaxFrame:   cfg.MaxFrame,
			Overrun:    cfg.Overrun,
		},
		Clients: s.hub.ClientCount(),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var startErr error
	if err := s.do(r.Context(), func() { startErr = s.clock.Start() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, "clock is not responding")
		return
	}
	if errors.Is(startErr, timestep.ErrAlreadyRunning) {
		writeError(w, http.StatusConflict, startErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.do(r.Context(), s.clock.Stop); err != nil {
		writeError(w, http.StatusServiceUnavailable, "clock is not responding")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(DashboardHTML))
}

// do runs fn on the clock goroutine and waits for it to finish.
func (s *Server) do(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, controlTimeout)
	defer cancel()

	done := make(chan struct{})
	s.queue.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	go s.hub.Run(s.hubCtx)

	s.log.Info("cadence server listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopHub()
	s.hub.CloseAll()
	return s.httpServer.Shutdown(ctx)
}

// Detach stops streaming clock events. Call it on the clock goroutine.
func (s *Server) Detach() {
	s.sub.Unsubscribe()
}

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/psantana5/lxcwrap/internal/supervise"
	"github.com/psantana5/lxcwrap/pkg/logging"
)

// Server exposes the in-flight launch over HTTP: /healthz, /status and
// /metrics. It lives only as long as the launch does.
type Server struct {
	log       *logging.Logger
	container string
	started   time.Time

	mu    sync.RWMutex
	state supervise.State
	pid   int

	httpServer *http.Server
}

// Snapshot is the /status response body.
type Snapshot struct {
	Container     string          `json:"container"`
	State         supervise.State `json:"state"`
	PID           int             `json:"pid,omitempty"`
	UptimeSeconds float64         `json:"uptime_seconds"`
}

// NewServer creates a status server bound to addr, serving metrics from reg.
func NewServer(addr, container string, reg *prometheus.Registry, log *logging.Logger) *Server {
	s := &Server{
		log:       log,
		container: container,
		started:   time.Now(),
		state:     supervise.StateIdle,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// SetState records the launch state shown by /status.
func (s *Server) SetState(state supervise.State, pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.pid = pid
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		s.log.Info("status server listening", map[string]interface{}{"addr": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("status server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := Snapshot{
		Container:     s.container,
		State:         s.state,
		PID:           s.pid,
		UptimeSeconds: time.Since(s.started).Seconds(),
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

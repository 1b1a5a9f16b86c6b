package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/wayfare-dev/wayfare/pkg/history"
	"github.com/wayfare-dev/wayfare/pkg/router"
)

// Server bridges a router to HTTP clients.
type Server struct {
	router   *router.Router
	logger   *slog.Logger
	upgrader websocket.Upgrader

	store    history.StateStore
	storeKey string

	mu      sync.Mutex
	clients map[*client]struct{}
	unsub   func()
	saves   sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(check func(*http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = check }
}

// WithBufferSizes sets the WebSocket read and write buffer sizes.
func WithBufferSizes(read, write int) Option {
	return func(s *Server) {
		s.upgrader.ReadBufferSize = read
		s.upgrader.WriteBufferSize = write
	}
}

// WithStateStore persists every committed state under key.
func WithStateStore(store history.StateStore, key string) Option {
	return func(s *Server) {
		s.store = store
		s.storeKey = key
	}
}

// NewServer wraps a router. Close detaches it.
func NewServer(r *router.Router, opts ...Option) *Server {
	s := &Server{
		router:  r,
		logger:  slog.Default(),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsub = r.AddEventListener(router.EventTransitionSuccess, s.onCommit)
	return s
}

// Close detaches the server from the router, waits for in-flight state
// saves, and disconnects all WebSocket clients.
func (s *Server) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.saves.Wait()
	s.mu.Lock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
	s.mu.Unlock()
}

// Handler mounts the endpoints on a chi router.
func (s *Server) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Get("/state", s.handleState)
	mux.Post("/navigate", s.handleNavigate)
	mux.Get("/ws", s.handleWS)
	return mux
}

func (s *Server) onCommit(ev router.TransitionEvent) {
	if ev.ToState == nil {
		return
	}
	payload, err := marshalPush(ev)
	if err != nil {
		s.logger.Error("encode state push", "error", err)
		return
	}
	s.mu.Lock()
	for c := range s.clients {
		c.send(payload)
	}
	s.mu.Unlock()

	// Persistence runs off the event path; a slow backend must not stall
	// the committing navigation or the client fan-out.
	if s.store != nil {
		st := ev.ToState
		s.saves.Add(1)
		go func() {
			defer s.saves.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.Save(ctx, s.storeKey, st); err != nil {
				s.logger.Error("persist state", "key", s.storeKey, "error", err)
			}
		}()
	}
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

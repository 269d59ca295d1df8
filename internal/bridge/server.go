// Package bridge connects a running game to the quest engine over a
// WebSocket. The game mod sends world snapshots and events as JSON; the
// bridge answers queries from its mirror of the world and streams back the
// effects the quests ask for.
package bridge

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/items"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/quests"
	"github.com/lawnchairsociety/questabletractor/internal/text"
)

// shutdownTimeout bounds how long ListenAndServe waits for HTTP handlers.
const shutdownTimeout = 5 * time.Second

// Persister loads and saves an owner's mod data. *database.Database
// implements it.
type Persister interface {
	LoadModData(playerID string) (map[string]string, error)
	SaveModData(playerID string, totalDays int, data map[string]string) error
}

// Options configures a Server.
type Options struct {
	Bridge  config.BridgeConfig
	Hints   config.HintsConfig
	Fishing config.FishingConfig
	Store   Persister
	// Text is the message catalog. Nil uses the built-in text.
	Text *text.Text
	// Items is the quest object catalog. Nil uses the built-in catalog.
	Items *items.ItemsConfig
	// NewRand builds the random source for each session. Sessions never
	// share a source. Nil gives every session its own seeded source.
	NewRand func() quests.Rand
}

// Server accepts game connections.
type Server struct {
	opts         Options
	connLimiter  *ConnLimiter
	helloLimiter *HelloRateLimiter

	mu    sync.Mutex
	conns map[*Conn]struct{}
	wg    sync.WaitGroup
}

// NewServer creates a bridge server.
func NewServer(opts Options) *Server {
	if opts.Items == nil {
		opts.Items = items.Default()
	}
	return &Server{
		opts:         opts,
		connLimiter:  NewConnLimiter(opts.Bridge.MaxConnections),
		helloLimiter: NewHelloRateLimiter(opts.Bridge.RateLimit),
		conns:        make(map[*Conn]struct{}),
	}
}

// Handler returns the HTTP routes: /ws for the game and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then closes every game
// connection and returns.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Bridge.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warning("bridge shutdown", "error", err)
		}
		s.Close()
	}()

	logger.Info("bridge listening", "address", s.opts.Bridge.ListenAddress)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.wg.Wait()
	return nil
}

// Close drops every game connection and stops background work.
func (s *Server) Close() {
	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	s.helloLimiter.Stop()
}

// Sessions returns the number of connected games.
func (s *Server) Sessions() int {
	return s.connLimiter.Count()
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := extractIP(r.RemoteAddr)

	if !s.connLimiter.TryAcquire() {
		logger.Warning("bridge connection rejected - limit exceeded", "remote_addr", r.RemoteAddr)
		http.Error(w, "Too many connections.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.opts.Bridge.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("bridge connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("bridge upgrade failed", "error", err)
		s.connLimiter.Release()
		return
	}

	conn := NewConn(wsConn, s.opts.Bridge.MaxMessageSize, s.opts.Bridge.ReadTimeout())
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
			conn.Close()
			s.connLimiter.Release()
		}()
		newSession(s, conn, clientIP).run()
	}()
}

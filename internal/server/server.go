// Package server exposes the engine over a WebSocket analysis protocol and a
// small HTTP API for scenarios and board image reading.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/rangelab/internal/engine"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/internal/scenario"
	"github.com/lox/rangelab/internal/vision"
	"github.com/lox/rangelab/poker"
)

// Analyzer evaluates hero against villain on a board.
type Analyzer interface {
	Evaluate(ctx context.Context, hero, villain ranges.Range, board []poker.Card, opts ...engine.Option) (*engine.AnalysisResult, error)
}

// DefaultMaxTrials caps client-requested trial counts unless WithMaxTrials
// says otherwise.
const DefaultMaxTrials = 1_000_000

// Option configures a Server.
type Option func(*Server)

// WithMaxTrials caps the trial count a client may request. Non-positive
// values keep the default.
func WithMaxTrials(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTrials = n
		}
	}
}

// Server represents the analysis server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	analyzer    Analyzer
	store       scenario.Store
	oracle      vision.Oracle
	clock       quartz.Clock
	maxTrials   int
	logger      *log.Logger
	mu          sync.Mutex
	connections map[*Connection]bool
	httpServer  *http.Server
}

// NewServer creates a server. A nil store disables the scenario API, a nil
// oracle falls back to vision.DemoOracle and a nil clock uses real time.
func NewServer(addr string, logger *log.Logger, analyzer Analyzer, store scenario.Store, oracle vision.Oracle, clock quartz.Clock, opts ...Option) *Server {
	if oracle == nil {
		oracle = vision.DemoOracle{}
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		analyzer:    analyzer,
		store:       store,
		oracle:      oracle,
		clock:       clock,
		maxTrials:   DefaultMaxTrials,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/scenarios", s.handleListScenarios)
	mux.HandleFunc("POST /api/scenarios", s.handleSaveScenario)
	mux.HandleFunc("GET /api/scenarios/export", s.handleExportScenarios)
	mux.HandleFunc("DELETE /api/scenarios/{id}", s.handleDeleteScenario)
	mux.HandleFunc("POST /api/analyze-board", s.handleAnalyzeBoard)
	return mux
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting analysis server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every connection and shuts the HTTP server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	srv := s.httpServer
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// ConnectionCount reports the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.analyzer, s.logger, s.clock, s.maxTrials)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "total", total)
	}()
}

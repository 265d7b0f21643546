package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Game is the part of a running game the transport drives.
type Game interface {
	Submit(player, slot int) bool
}

// StatsFunc returns a JSON-encodable view of game statistics.
type StatsFunc func() any

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	seats       map[int]*Connection
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc

	game    Game
	welcome WelcomeData
	stats   StatsFunc
}

// NewServer creates a new WebSocket server and starts its connection loop
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		seats:       make(map[int]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	go s.run()
	return s
}

// SetGame attaches the game that presses are routed to, and the session
// details greeted to every new connection.
func (s *Server) SetGame(game Game, welcome WelcomeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = game
	s.welcome = welcome
}

// SetStats sets the source for the /stats endpoint
func (s *Server) SetStats(stats StatsFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

func (s *Server) getGame() Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start serves HTTP until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Stop() // Close websockets before the HTTP server drains
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Stop closes every connection and ends the connection loop
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				if player := conn.GetPlayer(); player != noPlayer && s.seats[player] == conn {
					s.logger.Info("Releasing seat", "player", player)
					delete(s.seats, player)
				}
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// claimSeat gives a human seat to conn
func (s *Server) claimSeat(conn *Connection, player int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player < 0 || player >= len(s.welcome.Players) {
		return fmt.Errorf("%w: %d", ErrUnknownSeat, player)
	}
	if !s.welcome.Players[player].Human {
		return fmt.Errorf("%w: %d", ErrSeatNotHuman, player)
	}
	if holder, ok := s.seats[player]; ok && holder != conn {
		return fmt.Errorf("%w: %d", ErrSeatTaken, player)
	}
	s.seats[player] = conn
	return nil
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	s.mu.RLock()
	welcome := s.welcome
	s.mu.RUnlock()
	if msg, err := NewMessage(MessageTypeWelcome, welcome); err == nil {
		_ = client.SendMessage(msg) // Ignore send errors
	}

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// handleStats serves the current statistics as JSON
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stats := s.stats
	s.mu.RUnlock()

	if stats == nil {
		http.Error(w, "statistics unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats()); err != nil {
		s.logger.Error("Failed to encode stats", "error", err)
	}
}

// Broadcast sends a message to every connection
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message to client", "error", err, "player", conn.GetPlayer())
			continue
		}
		count++
	}

	s.logger.Debug("Broadcasted message", "type", msg.Type, "recipients", count)
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const noPlayer = -1

// Connection is one player or spectator socket. It may hold at most one human seat.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	playerID  int
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection wraps conn. The connection has no seat until a join succeeds.
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(server.ctx)

	return &Connection{
		conn:     conn,
		send:     make(chan *Message, 256),
		server:   server,
		playerID: noPlayer,
		logger:   logger.WithPrefix("conn"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close cancels the connection and shuts the socket. The server then unregisters it and frees its seat.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client without blocking
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a seat
func (c *Connection) SetPlayer(playerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated seat, or -1 before a join
func (c *Connection) GetPlayer() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
	ErrSeatTaken        = errors.New("seat already taken")
	ErrSeatNotHuman     = errors.New("seat is not open to humans")
	ErrUnknownSeat      = errors.New("unknown seat")
)

// readPump decodes join and press messages until the socket fails.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump drains the send buffer and keeps the socket alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// handleMessage routes one client message.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join data")
			return
		}
		c.handleJoin(data)

	case MessageTypePress:
		var data PressData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse press data")
			return
		}
		c.handlePress(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

func (c *Connection) handleJoin(data JoinData) {
	c.logger.Info("Join request", "player", data.Player)

	if c.GetPlayer() != noPlayer {
		c.sendError("already_joined", fmt.Sprintf("Already seated as player %d", c.GetPlayer()))
		return
	}

	if err := c.server.claimSeat(c, data.Player); err != nil {
		c.sendError("join_failed", err.Error())
		return
	}
	c.SetPlayer(data.Player)

	response, _ := NewMessage(MessageTypeJoined, JoinedData{Player: data.Player})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handlePress(data PressData) {
	player := c.GetPlayer()
	if player == noPlayer {
		c.sendError("not_joined", "Must join a seat first")
		return
	}

	game := c.server.getGame()
	if game == nil {
		c.sendError("service_unavailable", "No game in progress")
		return
	}

	// Presses are dropped while the player is frozen or the table is changing.
	if !game.Submit(player, data.Slot) {
		c.logger.Debug("Press dropped", "player", player, "slot", data.Slot)
	}
}

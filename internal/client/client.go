// Package client connects to a setgame server over WebSocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/setgame/internal/server"
)

// EventHandler handles one incoming message. Handlers run on the read goroutine
// in arrival order.
type EventHandler func(*server.Message)

// ErrNotConnected is returned when sending before Connect or after Close.
var ErrNotConnected = errors.New("not connected")

// Client is a WebSocket client for the setgame protocol
type Client struct {
	serverURL string
	logger    *log.Logger

	mu       sync.RWMutex
	conn     *websocket.Conn
	handlers map[server.MessageType][]EventHandler

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a client for serverURL. http(s) URLs are converted to ws(s) and
// a missing path defaults to /ws.
func New(serverURL string, logger *log.Logger) *Client {
	return &Client{
		serverURL: serverURL,
		logger:    logger.WithPrefix("client"),
		handlers:  make(map[server.MessageType][]EventHandler),
		done:      make(chan struct{}),
	}
}

func wsURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// On registers a handler for a message type. Register handlers before Connect.
func (c *Client) On(msgType server.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[msgType] = append(c.handlers[msgType], handler)
}

// Connect dials the server and starts reading messages
func (c *Client) Connect(ctx context.Context) error {
	target, err := wsURL(c.serverURL)
	if err != nil {
		return err
	}

	c.logger.Info("Connecting to server", "url", target)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readMessages(conn)
	return nil
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and shuts the connection
func (c *Client) Close() error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *Client) send(msgType server.MessageType, data any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}

	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// Join claims a human seat
func (c *Client) Join(player int) error {
	return c.send(server.MessageTypeJoin, server.JoinData{Player: player})
}

// Press toggles a token on slot for the joined seat
func (c *Client) Press(slot int) error {
	return c.send(server.MessageTypePress, server.PressData{Slot: slot})
}

func (c *Client) readMessages(conn *websocket.Conn) {
	defer c.closeOnce.Do(func() { close(c.done) })

	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!strings.Contains(err.Error(), "use of closed network connection") {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.dispatch(&msg)
	}
}

func (c *Client) dispatch(msg *server.Message) {
	c.mu.RLock()
	handlers := c.handlers[msg.Type]
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(msg)
	}
}

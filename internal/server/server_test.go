package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

type press struct{ player, slot int }

type fakeGame struct {
	mu      sync.Mutex
	presses []press
}

func (g *fakeGame) Submit(player, slot int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presses = append(g.presses, press{player, slot})
	return true
}

func (g *fakeGame) received() []press {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]press(nil), g.presses...)
}

var testWelcome = WelcomeData{
	GameID:    "test",
	TableSize: 12,
	Players: []PlayerInfo{
		{ID: 0, Name: "alice", Human: true},
		{ID: 1, Name: "bot", Human: false},
	},
}

func startServer(t *testing.T) (*Server, *fakeGame, string) {
	t.Helper()
	srv := NewServer("", testLogger())
	game := &fakeGame{}
	srv.SetGame(game, testWelcome)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})
	return srv, game, ts.URL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, typ MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(typ, data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(msg))
}

func receive(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer("", testLogger())
	defer srv.Stop()

	w := httptest.NewRecorder()
	srv.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()
	srv := NewServer("", testLogger())
	defer srv.Stop()

	w := httptest.NewRecorder()
	srv.handleStats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	srv.SetStats(func() any { return map[string]int{"rounds": 3} })
	w = httptest.NewRecorder()
	srv.handleStats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rounds":3}`, w.Body.String())
}

func TestWebSocketJoinAndPress(t *testing.T) {
	t.Parallel()
	srv, game, url := startServer(t)
	ws := dial(t, url)

	welcome := receive(t, ws)
	require.Equal(t, MessageTypeWelcome, welcome.Type)
	var wd WelcomeData
	require.NoError(t, json.Unmarshal(welcome.Data, &wd))
	assert.Equal(t, testWelcome, wd)

	send(t, ws, MessageTypePress, PressData{Slot: 1})
	notJoined := receive(t, ws)
	assert.Equal(t, MessageTypeError, notJoined.Type)
	assert.Contains(t, string(notJoined.Data), "not_joined")

	send(t, ws, MessageTypeJoin, JoinData{Player: 0})
	joined := receive(t, ws)
	assert.Equal(t, MessageTypeJoined, joined.Type)

	send(t, ws, MessageTypePress, PressData{Slot: 4})
	require.Eventually(t, func() bool {
		return len(game.received()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []press{{player: 0, slot: 4}}, game.received())
	assert.Equal(t, 1, srv.ConnectionCount())
}

func TestWebSocketJoinRules(t *testing.T) {
	t.Parallel()
	_, _, url := startServer(t)

	first := dial(t, url)
	receive(t, first)
	send(t, first, MessageTypeJoin, JoinData{Player: 1})
	msg := receive(t, first)
	assert.Equal(t, MessageTypeError, msg.Type)
	assert.Contains(t, string(msg.Data), ErrSeatNotHuman.Error())

	send(t, first, MessageTypeJoin, JoinData{Player: 7})
	msg = receive(t, first)
	assert.Contains(t, string(msg.Data), ErrUnknownSeat.Error())

	send(t, first, MessageTypeJoin, JoinData{Player: 0})
	assert.Equal(t, MessageTypeJoined, receive(t, first).Type)

	second := dial(t, url)
	receive(t, second)
	send(t, second, MessageTypeJoin, JoinData{Player: 0})
	msg = receive(t, second)
	assert.Contains(t, string(msg.Data), ErrSeatTaken.Error())

	send(t, second, "shout", nil)
	msg = receive(t, second)
	assert.Contains(t, string(msg.Data), "unknown_message_type")
}

func TestWebSocketSeatReleasedOnDisconnect(t *testing.T) {
	t.Parallel()
	srv, _, url := startServer(t)

	first := dial(t, url)
	receive(t, first)
	send(t, first, MessageTypeJoin, JoinData{Player: 0})
	require.Equal(t, MessageTypeJoined, receive(t, first).Type)
	require.NoError(t, first.Close())

	require.Eventually(t, func() bool {
		return srv.ConnectionCount() == 0
	}, 2*time.Second, 5*time.Millisecond)

	second := dial(t, url)
	receive(t, second)
	send(t, second, MessageTypeJoin, JoinData{Player: 0})
	assert.Equal(t, MessageTypeJoined, receive(t, second).Type)
}

func TestBroadcastReachesClients(t *testing.T) {
	t.Parallel()
	srv, _, url := startServer(t)
	ws := dial(t, url)
	receive(t, ws)

	require.Eventually(t, func() bool {
		return srv.ConnectionCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	b := NewBroadcaster(srv, testLogger())
	b.PlaceCard(5, 2)

	msg := receive(t, ws)
	assert.Equal(t, MessageTypeCardPlaced, msg.Type)
	var data CardData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, CardData{Slot: 2, Card: 5}, data)
}

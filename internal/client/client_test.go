package client

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/game"
	"github.com/lox/setgame/internal/randutil"
	"github.com/lox/setgame/internal/server"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestWSURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"http://localhost:8080":      "ws://localhost:8080/ws",
		"https://example.com":        "wss://example.com/ws",
		"ws://localhost:8080/custom": "ws://localhost:8080/custom",
	}
	for in, want := range tests {
		got, err := wsURL(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSendBeforeConnect(t *testing.T) {
	t.Parallel()

	c := New("ws://localhost:1", testLogger())
	assert.ErrorIs(t, c.Press(0), ErrNotConnected)
}

// startGame serves a game with one human seat whose deck is a single set, so it
// ends as soon as the set is claimed.
func startGame(t *testing.T) (*game.Game, string) {
	t.Helper()
	logger := testLogger()

	srv := server.NewServer("", logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})

	cfg := game.DefaultConfig()
	cfg.TableSize = 3
	cfg.TurnTimeout = time.Second
	cfg.TurnTimeoutWarning = 100 * time.Millisecond
	cfg.Grace = 0
	cfg.PointFreeze = time.Millisecond
	cfg.PenaltyFreeze = 5 * time.Millisecond
	cfg.PollInterval = time.Millisecond

	specs := []game.PlayerSpec{{Name: "remote", Human: true}}
	g, err := game.New(cfg, specs,
		game.WithDisplay(server.NewBroadcaster(srv, logger)),
		game.WithLogger(logger),
		game.WithDeck([]card.Card{0, 1, 2}),
	)
	require.NoError(t, err)

	srv.SetGame(g, server.WelcomeData{
		GameID:    g.ID,
		TableSize: cfg.TableSize,
		Players:   []server.PlayerInfo{{ID: 0, Name: "remote", Human: true}},
	})
	return g, ts.URL
}

func TestBotPlaysRemoteSeat(t *testing.T) {
	t.Parallel()
	g, url := startGame(t)

	c := New(url, testLogger())
	bot := NewBot(c, 0, 2*time.Millisecond, randutil.New(1), testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	results := make(chan game.Result, 1)
	go func() {
		result, err := g.Run(ctx)
		if err == nil {
			results <- result
		}
	}()

	winners, err := bot.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, winners)

	select {
	case result := <-results:
		assert.Equal(t, []int{1}, result.Scores)
	case <-ctx.Done():
		t.Fatal("game did not finish")
	}
}

func TestBotJoinRejected(t *testing.T) {
	t.Parallel()
	_, url := startGame(t)

	c := New(url, testLogger())
	bot := NewBot(c, 5, time.Millisecond, randutil.New(1), testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	_, err := bot.Run(ctx)
	assert.ErrorContains(t, err, "unknown seat")
}

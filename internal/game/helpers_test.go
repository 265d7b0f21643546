package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/display"
)

type countdown struct {
	remaining time.Duration
	warn      bool
}

// recorder captures display notifications for assertions.
type recorder struct {
	display.Nop

	mu         sync.Mutex
	countdowns []countdown
	scores     map[int]int
	freezes    map[int][]time.Duration
	allCleared int
	winners    [][]int
}

func newRecorder() *recorder {
	return &recorder{
		scores:  make(map[int]int),
		freezes: make(map[int][]time.Duration),
	}
}

func (r *recorder) SetCountdown(remaining time.Duration, warn bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countdowns = append(r.countdowns, countdown{remaining, warn})
}

func (r *recorder) SetScore(player, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[player] = score
}

func (r *recorder) SetFreeze(player int, remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freezes[player] = append(r.freezes[player], remaining)
}

func (r *recorder) RemoveAllTokens() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allCleared++
}

func (r *recorder) AnnounceWinners(players []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.winners = append(r.winners, players)
}

func (r *recorder) lastCountdown() countdown {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.countdowns) == 0 {
		return countdown{}
	}
	return r.countdowns[len(r.countdowns)-1]
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// newTestGame builds a game on a mock clock without starting any goroutines.
func newTestGame(t *testing.T, cfg Config, specs []PlayerSpec, deck []card.Card) (*Game, *quartz.Mock, *recorder) {
	t.Helper()
	clock := quartz.NewMock(t)
	rec := newRecorder()
	opts := []Option{
		WithClock(clock),
		WithDisplay(rec),
		WithLogger(testLogger()),
		WithGameID("test-game"),
	}
	if deck != nil {
		opts = append(opts, WithDeck(deck))
	}
	g, err := New(cfg, specs, opts...)
	require.NoError(t, err)
	return g, clock, rec
}

func humans(n int) []PlayerSpec {
	specs := make([]PlayerSpec, n)
	for i := range specs {
		specs[i] = PlayerSpec{Human: true}
	}
	return specs
}

// slotOf finds the slot holding c.
func slotOf(t *testing.T, g *Game, c card.Card) int {
	t.Helper()
	slot, ok := g.Table().SlotOf(c)
	require.True(t, ok, "card %s not on table", c)
	return slot
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

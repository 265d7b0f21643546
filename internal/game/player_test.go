package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/setgame/internal/card"
)

func TestPlayerSubmitGating(t *testing.T) {
	t.Parallel()

	t.Run("queue full", func(t *testing.T) {
		g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
		p := g.Players()[0]

		for i := range actionQueueSize {
			assert.True(t, p.Submit(i), "press %d", i)
		}
		assert.False(t, p.Submit(actionQueueSize))
		assert.Equal(t, ActionPending, p.State())
	})

	t.Run("table mutating", func(t *testing.T) {
		g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
		p := g.Players()[0]

		g.Dealer().mutating.Store(true)
		assert.False(t, p.Submit(0))

		g.Dealer().mutating.Store(false)
		assert.True(t, p.Submit(0))
	})

	t.Run("frozen until penalty expires", func(t *testing.T) {
		cfg := testConfig()
		g, clock, _ := newTestGame(t, cfg, humans(1), nil)
		p := g.Players()[0]

		p.penalty(clock.Now())
		assert.Equal(t, Frozen, p.State())
		assert.False(t, p.Submit(0))

		advance(t, clock, cfg.PenaltyFreeze-time.Millisecond)
		assert.False(t, p.Submit(0))

		advance(t, clock, time.Millisecond)
		assert.Equal(t, Idle, p.State())
		assert.True(t, p.Submit(0))
	})

	t.Run("frozen while awaiting verdict", func(t *testing.T) {
		g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
		p := g.Players()[0]

		p.awaiting.Store(true)
		assert.False(t, p.Submit(0))

		p.release()
		assert.True(t, p.Submit(0))
	})
}

func TestPlayerTokens(t *testing.T) {
	t.Parallel()

	t.Run("toggle twice restores prior state", func(t *testing.T) {
		g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
		g.Dealer().placeCards()
		p := g.Players()[0]
		slots := g.Table().OccupiedSlots()

		p.handleAction(slots[0])
		before := p.Tokens()
		cards := g.Table().Cards()

		p.handleAction(slots[1])
		p.handleAction(slots[1])

		assert.Equal(t, before, p.Tokens())
		assert.Equal(t, cards, g.Table().Cards())
		assert.Empty(t, g.Dealer().Claims())
	})

	t.Run("press on empty slot is ignored", func(t *testing.T) {
		g, _, _ := newTestGame(t, testConfig(), humans(1), []card.Card{0, 1, 2})
		g.Dealer().placeCards()
		p := g.Players()[0]

		empty := g.Table().EmptySlots()
		require.NotEmpty(t, empty)
		p.handleAction(empty[0])

		assert.Empty(t, p.Tokens())
	})

	t.Run("third token queues a claim and freezes", func(t *testing.T) {
		g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
		g.Dealer().placeCards()
		p := g.Players()[0]
		slots := g.Table().OccupiedSlots()

		for i, slot := range slots[:3] {
			p.handleAction(slot)
			assert.Len(t, p.Tokens(), i+1)
		}

		assert.Equal(t, []int{0}, g.Dealer().Claims())
		assert.Equal(t, Frozen, p.State())

		// A fourth token is never taken.
		p.handleAction(slots[3])
		assert.Len(t, p.Tokens(), 3)
	})
}

func TestPlayerRunProcessesQueuedPresses(t *testing.T) {
	t.Parallel()

	g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
	g.Dealer().placeCards()
	p := g.Players()[0]
	slots := g.Table().OccupiedSlots()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for _, slot := range slots[:3] {
		require.True(t, p.Submit(slot))
	}

	require.Eventually(t, func() bool {
		return len(g.Dealer().Claims()) == 1
	}, time.Second, time.Millisecond)
	assert.ElementsMatch(t, slots[:3], p.Tokens())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("player did not stop")
	}
}

func TestPlayerResetRound(t *testing.T) {
	t.Parallel()

	g, _, _ := newTestGame(t, testConfig(), humans(1), nil)
	g.Dealer().placeCards()
	p := g.Players()[0]

	p.handleAction(g.Table().OccupiedSlots()[0])
	require.True(t, p.Submit(1))
	p.awaiting.Store(true)

	p.resetRound()

	assert.Empty(t, p.Tokens())
	assert.Zero(t, len(p.actions))
	assert.Equal(t, Idle, p.State())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "action_pending", ActionPending.String())
	assert.Equal(t, "frozen", Frozen.String())
	assert.Equal(t, "unknown", State(9).String())
}

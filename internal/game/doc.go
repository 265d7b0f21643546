// Package game implements the concurrent coordination engine for Set.
//
// A single Dealer arbitrates a shared table of face-up cards while every Player
// runs in its own goroutine, toggling tokens on slots. A player that reaches
// three tokens enqueues a claim; the dealer drains the claim queue in FIFO order
// and awards a point or a penalty freeze.
//
// # Basic Usage
//
//	g, err := game.New(game.DefaultConfig(), []game.PlayerSpec{
//	    {Name: "alice", Human: true},
//	    {Name: "bot-1"},
//	}, game.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	result, err := g.Run(ctx)
//
// Human players receive actions through Game.Submit; automated players run a
// generator goroutine that submits random occupied slots.
//
// # Locking
//
// The dealer's table lock guards card placement and removal, the claim queue
// and every cross-player token mutation. Each player's token set has its own
// mutex. The acquisition order is always:
//
//	dealer table lock -> player token lock -> table slot lock
//
// The table-mutating flag is an atomic fast path checked without any lock; a
// stale read only delays a player by one poll interval.
//
// # Deterministic Testing
//
// Inject a quartz mock clock with WithClock and a fixed deck with WithDeck, then
// drive the dealer's round steps directly from tests in this package.
package game

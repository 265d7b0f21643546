package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/display"
	"github.com/lox/setgame/internal/table"
)

// Validator is the set-validity rule the dealer adjudicates claims with.
type Validator interface {
	IsValidSet(cards []card.Card) bool
	ExistsAnySet(cards []card.Card) bool
}

type hinter interface {
	Hints(cards []card.Card) []string
}

const (
	reasonTerminated = "terminated"
	reasonNoSets     = "no_sets"
)

// Dealer owns the deck, the claim queue and the round countdown, and serialises
// every table mutation and claim adjudication behind mu.
type Dealer struct {
	cfg        Config
	table      *table.Table
	validator  Validator
	display    display.Display
	monitor    Monitor
	clock      quartz.Clock
	logger     *log.Logger
	baseLogger *log.Logger
	rng        *rand.Rand

	players []*Player

	mu        sync.Mutex // table lock
	deck      []card.Card
	claims    claimQueue
	setsFound int
	mutating  atomic.Bool

	terminate atomic.Bool

	// Dealer goroutine only.
	deadline    time.Time
	warn        bool
	round       int
	lastSetAt   time.Time
	setsDirty   bool
	setsPresent bool
}

// Mutating reports whether the dealer is placing or removing cards.
func (d *Dealer) Mutating() bool {
	return d.mutating.Load()
}

// Terminate asks the dealer to stop at the next loop boundary.
func (d *Dealer) Terminate() {
	d.terminate.Store(true)
}

// DeckSize returns the number of cards left in the deck.
func (d *Dealer) DeckSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.deck)
}

// Claims returns the queued claimant ids in adjudication order.
func (d *Dealer) Claims() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.claims.Snapshot()
}

// SetsFound returns the number of valid claims awarded so far.
func (d *Dealer) SetsFound() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setsFound
}

// Run plays rounds until no set remains among deck and table or the dealer is
// terminated. It returns the reason the game ended.
func (d *Dealer) Run(ctx context.Context) string {
	d.logger.Info("Dealer starting", "players", len(d.players), "deck", d.DeckSize())

	for !d.shouldFinish(ctx) {
		d.round++
		d.placeCards()
		d.resetDeadline()
		d.monitor.OnRoundStart(d.round)
		d.logger.Debug("Round started", "round", d.round, "deck", d.DeckSize(), "table", d.table.CountOccupied())

		d.claimLoop(ctx)
		d.returnAllCards()
	}
	d.mutating.Store(false)

	reason := reasonNoSets
	if d.terminated(ctx) {
		reason = reasonTerminated
	}
	d.logger.Info("Dealer finished", "reason", reason, "rounds", d.round, "sets", d.SetsFound())
	return reason
}

func (d *Dealer) terminated(ctx context.Context) bool {
	return d.terminate.Load() || ctx.Err() != nil
}

func (d *Dealer) shouldFinish(ctx context.Context) bool {
	return d.terminated(ctx) || !d.setsLeft()
}

// claimLoop polls the claim queue until the countdown expires, no set remains
// or the dealer is terminated.
func (d *Dealer) claimLoop(ctx context.Context) {
	for !d.terminated(ctx) && d.clock.Now().Before(d.deadline) && d.setsLeft() {
		d.sleep(ctx, d.pollInterval())
		d.updateCountdown()
		d.processClaims()
		d.updateCountdown()
	}
}

func (d *Dealer) pollInterval() time.Duration {
	if d.warn {
		return d.cfg.WarningPollInterval
	}
	return d.cfg.PollInterval
}

func (d *Dealer) sleep(ctx context.Context, dur time.Duration) {
	timer := d.clock.NewTimer(dur, "dealer", "poll")
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// resetDeadline restarts the countdown at its full length.
func (d *Dealer) resetDeadline() {
	full := d.cfg.TurnTimeout + d.cfg.Grace
	now := d.clock.Now()
	d.deadline = now.Add(full)
	d.lastSetAt = now
	d.warn = false
	d.display.SetCountdown(full, false)
}

func (d *Dealer) updateCountdown() {
	remaining := d.clock.Until(d.deadline)
	d.warn = remaining <= d.cfg.TurnTimeoutWarning
	if remaining < 0 {
		remaining = 0
	}
	d.display.SetCountdown(remaining, d.warn)
}

// setsLeft reports whether a valid set exists among deck and table cards. The
// answer is cached until the next card movement.
func (d *Dealer) setsLeft() bool {
	if !d.setsDirty {
		return d.setsPresent
	}
	d.mu.Lock()
	cards := append(d.table.Cards(), d.deck...)
	d.mu.Unlock()

	d.setsPresent = d.validator.ExistsAnySet(cards)
	d.setsDirty = false
	return d.setsPresent
}

func (d *Dealer) enqueueClaim(player int) {
	d.claims.Push(player)
}

// placeCards fills empty slots from the deck.
func (d *Dealer) placeCards() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutating.Store(true)
	defer d.mutating.Store(false)
	d.placeCardsLocked()
}

// placeCardsLocked fills empty slots, visited in random order, with random deck
// cards until the table is full or the deck is empty.
func (d *Dealer) placeCardsLocked() {
	slots := d.table.EmptySlots()
	d.rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	placed := 0
	for _, slot := range slots {
		if len(d.deck) == 0 {
			break
		}
		i := d.rng.IntN(len(d.deck))
		c := d.deck[i]
		last := len(d.deck) - 1
		d.deck[i] = d.deck[last]
		d.deck = d.deck[:last]

		if err := d.table.Place(c, slot); err != nil {
			d.logger.Error("Failed to place card", "card", c, "slot", slot, "error", err)
			d.deck = append(d.deck, c)
			continue
		}
		placed++
	}

	if placed == 0 {
		return
	}
	d.setsDirty = true
	if h, ok := d.validator.(hinter); ok && d.cfg.Hints {
		for _, hint := range h.Hints(d.table.Cards()) {
			d.logger.Debug("Hint", "set", hint)
		}
	}
}

// processClaims drains the claim queue under the table lock so every claim in the
// drain is judged atomically with respect to token changes. Empty slots left by
// valid claims are refilled before the lock is released.
func (d *Dealer) processClaims() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claims.Len() == 0 {
		return
	}
	defer d.mutating.Store(false)

	removed := false
	for {
		id, ok := d.claims.Pop()
		if !ok {
			break
		}
		if d.adjudicate(d.players[id]) == VerdictValid {
			removed = true
		}
	}

	if removed {
		d.placeCardsLocked()
	}
}

// claimLive is the filter applied to every queued claim: the claimant must still
// hold three tokens, each on an occupied slot.
func (d *Dealer) claimLive(id int) bool {
	slots := d.players[id].tokenSlots()
	if len(slots) != 3 {
		return false
	}
	for _, slot := range slots {
		if _, ok := d.table.Card(slot); !ok {
			return false
		}
	}
	return true
}

func (d *Dealer) adjudicate(p *Player) Verdict {
	now := d.clock.Now()
	outcome := ClaimOutcome{
		Round:   d.round,
		Player:  p.ID,
		Elapsed: now.Sub(d.lastSetAt),
	}

	if !d.claimLive(p.ID) {
		p.release()
		outcome.Verdict = VerdictStale
		d.monitor.OnClaim(outcome)
		return VerdictStale
	}

	outcome.Slots = p.tokenSlots()
	outcome.Cards = make([]card.Card, len(outcome.Slots))
	for i, slot := range outcome.Slots {
		outcome.Cards[i], _ = d.table.Card(slot)
	}

	if !d.validator.IsValidSet(outcome.Cards) {
		p.penalty(now)
		outcome.Verdict = VerdictInvalid
		d.logger.Debug("Invalid claim", "player", p.ID, "cards", outcome.Cards)
		d.monitor.OnClaim(outcome)
		return VerdictInvalid
	}

	d.mutating.Store(true)
	for _, slot := range outcome.Slots {
		d.removeCardLocked(slot)
	}
	d.setsFound++
	p.point(now)
	d.resetDeadline()

	outcome.Verdict = VerdictValid
	d.logger.Debug("Valid claim", "player", p.ID, "cards", outcome.Cards, "score", p.Score())
	d.monitor.OnClaim(outcome)
	return VerdictValid
}

// removeCardLocked takes the card on slot out of the game, strips every token on
// it and drops claims that no longer hold three live tokens.
func (d *Dealer) removeCardLocked(slot int) {
	for _, p := range d.players {
		p.stripToken(slot)
	}
	if _, err := d.table.Remove(slot); err != nil {
		d.logger.Error("Failed to remove card", "slot", slot, "error", err)
	}
	d.setsDirty = true

	for _, id := range d.claims.Filter(d.claimLive) {
		d.players[id].release()
		d.monitor.OnClaim(ClaimOutcome{
			Round:   d.round,
			Player:  id,
			Verdict: VerdictStale,
			Elapsed: d.clock.Since(d.lastSetAt),
		})
	}
}

// returnAllCards ends the round: tokens and claims are cleared and every table
// card goes back to the deck in random order. The table stays marked as mutating
// until the next placeCards, or until Run exits.
func (d *Dealer) returnAllCards() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutating.Store(true)

	for _, p := range d.players {
		p.resetRound()
	}
	d.display.RemoveAllTokens()

	slots := d.table.OccupiedSlots()
	d.rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	for _, slot := range slots {
		c, err := d.table.Remove(slot)
		if err != nil {
			d.logger.Error("Failed to return card", "slot", slot, "error", err)
			continue
		}
		d.deck = append(d.deck, c)
	}

	d.claims.Clear()
	d.setsDirty = true
}

// Winners returns every player tied at the highest score.
func (d *Dealer) Winners() []int {
	best := -1
	var winners []int
	for _, p := range d.players {
		switch score := p.Score(); {
		case score > best:
			best = score
			winners = []int{p.ID}
		case score == best:
			winners = append(winners, p.ID)
		}
	}
	return winners
}

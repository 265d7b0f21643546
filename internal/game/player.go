package game

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/setgame/internal/display"
	"github.com/lox/setgame/internal/table"
)

// actionQueueSize bounds the pending slot presses per player.
const actionQueueSize = 3

// State is a player's position in the action state machine.
type State int

const (
	Idle State = iota
	ActionPending
	Frozen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ActionPending:
		return "action_pending"
	case Frozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Player is one participant. Its token set is written both by its own goroutine
// and by the dealer; both do so only while holding the dealer's table lock and
// then tokensMu.
type Player struct {
	ID    int
	Name  string
	Human bool

	dealer  *Dealer
	table   *table.Table
	display display.Display
	clock   quartz.Clock
	logger  *log.Logger
	cfg     Config
	rng     *rand.Rand // generator goroutine only

	actions chan int

	tokensMu sync.Mutex
	tokens   []int

	score       atomic.Int64
	awaiting    atomic.Bool  // claim queued, verdict pending
	freezeUntil atomic.Int64 // unix nanos

	shownFrozen bool // player goroutine only
}

func newPlayer(id int, spec PlayerSpec, d *Dealer, rng *rand.Rand) *Player {
	return &Player{
		ID:      id,
		Name:    spec.Name,
		Human:   spec.Human,
		dealer:  d,
		table:   d.table,
		display: d.display,
		clock:   d.clock,
		logger:  d.baseLogger.WithPrefix("player").With("player", id, "name", spec.Name),
		cfg:     d.cfg,
		rng:     rng,
		actions: make(chan int, actionQueueSize),
		tokens:  make([]int, 0, 3),
	}
}

// Score returns the player's points.
func (p *Player) Score() int {
	return int(p.score.Load())
}

// Tokens returns a copy of the slots the player has marked.
func (p *Player) Tokens() []int {
	p.tokensMu.Lock()
	defer p.tokensMu.Unlock()
	return slices.Clone(p.tokens)
}

// FreezeUntil returns the time before which the player may not act.
func (p *Player) FreezeUntil() time.Time {
	return time.Unix(0, p.freezeUntil.Load())
}

// State reports the player's current state.
func (p *Player) State() State {
	if p.frozen(p.clock.Now()) {
		return Frozen
	}
	if len(p.actions) > 0 {
		return ActionPending
	}
	return Idle
}

func (p *Player) frozen(now time.Time) bool {
	return p.awaiting.Load() || now.UnixNano() < p.freezeUntil.Load()
}

// eligible reports whether the player may submit or process actions.
func (p *Player) eligible() bool {
	return !p.dealer.Mutating() && !p.frozen(p.clock.Now())
}

// Submit offers a slot press without blocking. It is dropped when the player is
// frozen, the table is mid-mutation or the queue is full.
func (p *Player) Submit(slot int) bool {
	if !p.eligible() {
		return false
	}
	select {
	case p.actions <- slot:
		return true
	default:
		return false
	}
}

// Run is the player's loop. It returns when ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	p.logger.Debug("Player starting", "human", p.Human)
	defer p.logger.Debug("Player stopped")

	ticker := p.clock.NewTicker(p.cfg.PollInterval, "player", "poll")
	defer ticker.Stop()

	for {
		// A nil channel keeps the queue untouched while the player is not eligible.
		var actions <-chan int
		if p.eligible() {
			actions = p.actions
		}

		select {
		case <-ctx.Done():
			return nil
		case slot := <-actions:
			p.handleAction(slot)
		case <-ticker.C:
			p.tick()
		}
	}
}

// RunGenerator submits random occupied slots on behalf of an automated player.
func (p *Player) RunGenerator(ctx context.Context) error {
	p.logger.Debug("Generator starting")
	defer p.logger.Debug("Generator stopped")

	ticker := p.clock.NewTicker(p.cfg.BotInterval, "player", "generator")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !p.eligible() {
				continue
			}
			slots := p.table.OccupiedSlots()
			if len(slots) == 0 {
				continue
			}
			p.Submit(slots[p.rng.IntN(len(slots))])
		}
	}
}

// tick refreshes the freeze countdown on the display.
func (p *Player) tick() {
	now := p.clock.Now()
	until := p.freezeUntil.Load()
	if now.UnixNano() < until {
		p.display.SetFreeze(p.ID, time.Duration(until-now.UnixNano()))
		p.shownFrozen = true
		return
	}
	if p.shownFrozen && !p.awaiting.Load() {
		p.display.SetFreeze(p.ID, 0)
		p.shownFrozen = false
	}
}

// handleAction toggles a token on slot. Reaching three tokens freezes the player
// and queues a claim with the dealer.
func (p *Player) handleAction(slot int) {
	p.dealer.mu.Lock()
	defer p.dealer.mu.Unlock()

	// The press may predate a reshuffle or a removal.
	if _, ok := p.table.Card(slot); !ok {
		return
	}

	p.tokensMu.Lock()
	defer p.tokensMu.Unlock()

	if i := slices.Index(p.tokens, slot); i >= 0 {
		p.tokens = slices.Delete(p.tokens, i, i+1)
		p.table.RemoveToken(p.ID, slot)
		return
	}
	if len(p.tokens) >= 3 {
		return
	}

	p.tokens = append(p.tokens, slot)
	p.table.PlaceToken(p.ID, slot)
	if len(p.tokens) == 3 {
		p.awaiting.Store(true)
		p.dealer.enqueueClaim(p.ID)
		p.logger.Debug("Claim queued", "slots", p.tokens)
	}
}

// The methods below are called by the dealer while it holds its table lock.

func (p *Player) tokenSlots() []int {
	p.tokensMu.Lock()
	defer p.tokensMu.Unlock()
	return slices.Clone(p.tokens)
}

// stripToken removes slot from the token set, reporting whether it was present.
func (p *Player) stripToken(slot int) bool {
	p.tokensMu.Lock()
	defer p.tokensMu.Unlock()
	i := slices.Index(p.tokens, slot)
	if i < 0 {
		return false
	}
	p.tokens = slices.Delete(p.tokens, i, i+1)
	return true
}

// release lifts the verdict freeze after a claim leaves the queue unjudged.
func (p *Player) release() {
	p.awaiting.Store(false)
}

func (p *Player) point(now time.Time) {
	score := p.score.Add(1)
	p.freezeFor(now, p.cfg.PointFreeze)
	p.display.SetScore(p.ID, int(score))
}

func (p *Player) penalty(now time.Time) {
	p.freezeFor(now, p.cfg.PenaltyFreeze)
}

func (p *Player) freezeFor(now time.Time, d time.Duration) {
	p.freezeUntil.Store(now.Add(d).UnixNano())
	p.awaiting.Store(false)
	p.display.SetFreeze(p.ID, d)
}

// resetRound clears the tokens and any pending presses at the end of a round.
func (p *Player) resetRound() {
	p.tokensMu.Lock()
	p.tokens = p.tokens[:0]
	p.tokensMu.Unlock()
	p.awaiting.Store(false)

	for {
		select {
		case <-p.actions:
		default:
			return
		}
	}
}

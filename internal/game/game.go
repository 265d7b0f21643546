package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/display"
	"github.com/lox/setgame/internal/gameid"
	"github.com/lox/setgame/internal/randutil"
	"github.com/lox/setgame/internal/table"
)

// Result is the outcome of a finished game.
type Result struct {
	GameID    string   `json:"game_id"`
	Reason    string   `json:"reason"`
	Rounds    int      `json:"rounds"`
	SetsFound int      `json:"sets_found"`
	Winners   []int    `json:"winners"`
	Scores    []int    `json:"scores"`
	Players   []string `json:"players"`
}

// Option configures a Game.
type Option func(*options)

type options struct {
	display   display.Display
	monitor   Monitor
	clock     quartz.Clock
	logger    *log.Logger
	validator Validator
	deck      []card.Card
	gameID    string
}

// WithDisplay sets the display notified of game events.
func WithDisplay(d display.Display) Option {
	return func(o *options) { o.display = d }
}

// WithMonitor sets the monitor notified of rounds, claims and the result.
func WithMonitor(m Monitor) Option {
	return func(o *options) { o.monitor = m }
}

// WithClock overrides the real clock, typically with a quartz mock.
func WithClock(c quartz.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithValidator overrides the set validator derived from the deck shape.
func WithValidator(v Validator) Option {
	return func(o *options) { o.validator = v }
}

// WithDeck starts the game from a specific set of cards instead of the full deck.
func WithDeck(cards []card.Card) Option {
	return func(o *options) { o.deck = slices.Clone(cards) }
}

// WithGameID sets the game identifier instead of generating one.
func WithGameID(id string) Option {
	return func(o *options) { o.gameID = id }
}

// Game wires a dealer, a table and the players, and supervises their goroutines.
type Game struct {
	ID      string
	cfg     Config
	table   *table.Table
	dealer  *Dealer
	players []*Player
	display display.Display
	monitor Monitor
	logger  *log.Logger
}

// New builds a game ready to Run.
func New(cfg Config, specs []PlayerSpec, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(specs) == 0 {
		return nil, errors.New("at least one player is required")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.display == nil {
		o.display = display.Nop{}
	}
	if o.monitor == nil {
		o.monitor = NullMonitor{}
	}
	if o.clock == nil {
		o.clock = quartz.NewReal()
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.validator == nil {
		o.validator = card.NewValidator(cfg.FeatureCount, cfg.FeatureSize)
	}
	if o.deck == nil {
		o.deck = make([]card.Card, cfg.DeckSize)
		for i := range o.deck {
			o.deck[i] = card.Card(i)
		}
	}
	if o.gameID == "" {
		o.gameID = gameid.Generate()
	}

	logger := o.logger.With("game", o.gameID)
	tbl := table.New(cfg.TableSize, o.display)
	dealer := &Dealer{
		cfg:        cfg,
		table:      tbl,
		validator:  o.validator,
		display:    o.display,
		monitor:    o.monitor,
		clock:      o.clock,
		logger:     logger.WithPrefix("dealer"),
		baseLogger: logger,
		rng:        randutil.New(cfg.Seed),
		deck:       o.deck,
		setsDirty:  true,
	}

	players := make([]*Player, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("player-%d", i)
		}
		players[i] = newPlayer(i, spec, dealer, randutil.Derive(cfg.Seed, uint64(i)))
	}
	dealer.players = players

	return &Game{
		ID:      o.gameID,
		cfg:     cfg,
		table:   tbl,
		dealer:  dealer,
		players: players,
		display: o.display,
		monitor: o.monitor,
		logger:  logger,
	}, nil
}

// Table returns the shared table.
func (g *Game) Table() *table.Table {
	return g.table
}

// Dealer returns the game's dealer.
func (g *Game) Dealer() *Dealer {
	return g.dealer
}

// Players returns every participant indexed by id.
func (g *Game) Players() []*Player {
	return g.players
}

// Config returns the game's configuration.
func (g *Game) Config() Config {
	return g.cfg
}

// Submit routes a slot press to player. It reports whether the press was queued.
func (g *Game) Submit(player, slot int) bool {
	if player < 0 || player >= len(g.players) {
		return false
	}
	return g.players[player].Submit(slot)
}

// Stop asks the dealer to end the game; Run then stops every player and returns.
func (g *Game) Stop() {
	g.dealer.Terminate()
}

// Run starts every player goroutine, plays rounds until the game ends, stops and
// waits for all players, then announces the winners.
func (g *Game) Run(ctx context.Context) (Result, error) {
	g.logger.Info("Game starting", "players", len(g.players), "table", g.cfg.TableSize)

	playerCtx, stopPlayers := context.WithCancel(ctx)
	defer stopPlayers()

	eg, egCtx := errgroup.WithContext(playerCtx)
	for _, p := range g.players {
		eg.Go(func() error { return p.Run(egCtx) })
		if !p.Human {
			eg.Go(func() error { return p.RunGenerator(egCtx) })
		}
	}

	reason := g.dealer.Run(ctx)

	stopPlayers()
	if err := eg.Wait(); err != nil {
		return Result{}, fmt.Errorf("player stopped with error: %w", err)
	}

	result := Result{
		GameID:    g.ID,
		Reason:    reason,
		Rounds:    g.dealer.round,
		SetsFound: g.dealer.SetsFound(),
		Winners:   g.dealer.Winners(),
		Scores:    make([]int, len(g.players)),
		Players:   make([]string, len(g.players)),
	}
	for i, p := range g.players {
		result.Scores[i] = p.Score()
		result.Players[i] = p.Name
	}

	g.display.AnnounceWinners(result.Winners)
	g.monitor.OnGameComplete(result)
	g.logger.Info("Game complete", "reason", reason, "winners", result.Winners, "scores", result.Scores)
	return result, nil
}

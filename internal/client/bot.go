package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/setgame/internal/server"
)

// ErrConnectionLost is returned when the server goes away before announcing winners.
var ErrConnectionLost = errors.New("connection lost before game end")

// Bot plays a human seat remotely by pressing random occupied slots.
type Bot struct {
	client   *Client
	player   int
	interval time.Duration
	clock    quartz.Clock
	rng      *rand.Rand
	logger   *log.Logger

	mu          sync.Mutex
	tableSize   int
	occupied    map[int]bool
	joined      bool
	frozenUntil time.Time

	joinErr chan error
	winners chan []int
}

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithClock overrides the real clock.
func WithClock(clock quartz.Clock) BotOption {
	return func(b *Bot) { b.clock = clock }
}

// NewBot wires a bot to c. Handlers are registered immediately, so create the
// bot before calling Connect.
func NewBot(c *Client, player int, interval time.Duration, rng *rand.Rand, logger *log.Logger, opts ...BotOption) *Bot {
	b := &Bot{
		client:   c,
		player:   player,
		interval: interval,
		clock:    quartz.NewReal(),
		rng:      rng,
		logger:   logger.WithPrefix("bot").With("player", player),
		occupied: make(map[int]bool),
		joinErr:  make(chan error, 1),
		winners:  make(chan []int, 1),
	}
	for _, opt := range opts {
		opt(b)
	}

	c.On(server.MessageTypeWelcome, b.onWelcome)
	c.On(server.MessageTypeJoined, b.onJoined)
	c.On(server.MessageTypeCardPlaced, b.onCardPlaced)
	c.On(server.MessageTypeCardRemoved, b.onCardRemoved)
	c.On(server.MessageTypeFreeze, b.onFreeze)
	c.On(server.MessageTypeWinners, b.onWinners)
	c.On(server.MessageTypeError, b.onError)
	return b
}

// Run joins the seat and presses until the game ends. It returns the winners.
func (b *Bot) Run(ctx context.Context) ([]int, error) {
	if err := b.client.Join(b.player); err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}

	ticker := b.clock.NewTicker(b.interval, "bot", "press")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-b.client.Done():
			return nil, ErrConnectionLost
		case err := <-b.joinErr:
			return nil, fmt.Errorf("join: %w", err)
		case winners := <-b.winners:
			b.logger.Info("Game over", "winners", winners)
			return winners, nil
		case <-ticker.C:
			if slot, ok := b.pick(); ok {
				if err := b.client.Press(slot); err != nil {
					return nil, fmt.Errorf("press: %w", err)
				}
			}
		}
	}
}

// pick chooses a slot to press. Before any card events arrive every slot is a
// candidate; presses on empty slots are ignored by the server.
func (b *Bot) pick() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.joined || b.clock.Now().Before(b.frozenUntil) {
		return 0, false
	}
	if len(b.occupied) > 0 {
		slots := make([]int, 0, len(b.occupied))
		for slot := range b.occupied {
			slots = append(slots, slot)
		}
		return slots[b.rng.IntN(len(slots))], true
	}
	if b.tableSize > 0 {
		return b.rng.IntN(b.tableSize), true
	}
	return 0, false
}

func decode[T any](b *Bot, msg *server.Message) (T, bool) {
	var data T
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		b.logger.Error("Failed to parse message", "type", msg.Type, "error", err)
		return data, false
	}
	return data, true
}

func (b *Bot) onWelcome(msg *server.Message) {
	data, ok := decode[server.WelcomeData](b, msg)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableSize = data.TableSize
}

func (b *Bot) onJoined(*server.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.joined = true
	b.logger.Info("Joined seat")
}

func (b *Bot) onCardPlaced(msg *server.Message) {
	if data, ok := decode[server.CardData](b, msg); ok {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.occupied[data.Slot] = true
	}
}

func (b *Bot) onCardRemoved(msg *server.Message) {
	if data, ok := decode[server.SlotData](b, msg); ok {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.occupied, data.Slot)
	}
}

func (b *Bot) onFreeze(msg *server.Message) {
	data, ok := decode[server.FreezeData](b, msg)
	if !ok || data.Player != b.player {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozenUntil = b.clock.Now().Add(time.Duration(data.RemainingMs) * time.Millisecond)
}

func (b *Bot) onWinners(msg *server.Message) {
	if data, ok := decode[server.WinnersData](b, msg); ok {
		select {
		case b.winners <- data.Players:
		default:
		}
	}
}

func (b *Bot) onError(msg *server.Message) {
	data, ok := decode[server.ErrorData](b, msg)
	if !ok {
		return
	}
	b.logger.Warn("Server error", "code", data.Code, "message", data.Message)
	if data.Code == "join_failed" {
		select {
		case b.joinErr <- errors.New(data.Message):
		default:
		}
	}
}

package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/display"
)

// Sink receives outbound messages. *Server is the production sink.
type Sink interface {
	Broadcast(msg *Message)
}

// Broadcaster implements display.Display by broadcasting every notification to
// connected clients. Countdown and freeze updates arrive every poll interval, so
// they are only sent when the whole-second value or warning state changes.
type Broadcaster struct {
	sink   Sink
	logger *log.Logger

	mu            sync.Mutex
	lastCountdown int64
	lastWarn      bool
	lastFreeze    map[int]int64
}

var _ display.Display = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster writing to sink
func NewBroadcaster(sink Sink, logger *log.Logger) *Broadcaster {
	return &Broadcaster{
		sink:          sink,
		logger:        logger.WithPrefix("broadcast"),
		lastCountdown: -1,
		lastFreeze:    make(map[int]int64),
	}
}

func (b *Broadcaster) send(t MessageType, data any) {
	msg, err := NewMessage(t, data)
	if err != nil {
		b.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	b.sink.Broadcast(msg)
}

// wholeSeconds rounds up so a countdown shows 1 until it reaches zero.
func wholeSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}

func (b *Broadcaster) SetCountdown(remaining time.Duration, warn bool) {
	secs := wholeSeconds(remaining)

	b.mu.Lock()
	changed := secs != b.lastCountdown || warn != b.lastWarn
	b.lastCountdown, b.lastWarn = secs, warn
	b.mu.Unlock()

	if !changed {
		return
	}
	b.send(MessageTypeCountdown, CountdownData{RemainingMs: remaining.Milliseconds(), Warn: warn})
}

func (b *Broadcaster) SetScore(player, score int) {
	b.send(MessageTypeScore, ScoreData{Player: player, Score: score})
}

func (b *Broadcaster) SetFreeze(player int, remaining time.Duration) {
	secs := wholeSeconds(remaining)

	b.mu.Lock()
	last, seen := b.lastFreeze[player]
	changed := !seen || secs != last
	b.lastFreeze[player] = secs
	b.mu.Unlock()

	if !changed {
		return
	}
	b.send(MessageTypeFreeze, FreezeData{Player: player, RemainingMs: remaining.Milliseconds()})
}

func (b *Broadcaster) PlaceCard(c card.Card, slot int) {
	b.send(MessageTypeCardPlaced, CardData{Slot: slot, Card: int(c)})
}

func (b *Broadcaster) RemoveCard(slot int) {
	b.send(MessageTypeCardRemoved, SlotData{Slot: slot})
}

func (b *Broadcaster) PlaceToken(player, slot int) {
	b.send(MessageTypeTokenPlaced, TokenData{Player: player, Slot: slot})
}

func (b *Broadcaster) RemoveToken(player, slot int) {
	b.send(MessageTypeTokenRemoved, TokenData{Player: player, Slot: slot})
}

func (b *Broadcaster) RemoveTokensAt(slot int) {
	b.send(MessageTypeTokensCleared, TokensClearedData{Slot: &slot})
}

func (b *Broadcaster) RemoveAllTokens() {
	b.send(MessageTypeTokensCleared, TokensClearedData{})
}

func (b *Broadcaster) AnnounceWinners(players []int) {
	b.send(MessageTypeWinners, WinnersData{Players: players})
}

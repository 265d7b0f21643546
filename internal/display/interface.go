// Package display defines the outbound notifications the game engine emits for
// whatever renders the table, plus a few stock implementations.
package display

import (
	"time"

	"github.com/lox/setgame/internal/card"
)

// Display receives fire-and-forget game notifications. Implementations must not
// block and must be safe for concurrent use: the dealer and every player call in
// from their own goroutines.
type Display interface {
	SetCountdown(remaining time.Duration, warn bool)
	SetScore(player, score int)
	SetFreeze(player int, remaining time.Duration)
	PlaceCard(c card.Card, slot int)
	RemoveCard(slot int)
	PlaceToken(player, slot int)
	RemoveToken(player, slot int)
	RemoveTokensAt(slot int)
	RemoveAllTokens()
	AnnounceWinners(players []int)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) SetCountdown(time.Duration, bool) {}
func (Nop) SetScore(int, int)                {}
func (Nop) SetFreeze(int, time.Duration)     {}
func (Nop) PlaceCard(card.Card, int)         {}
func (Nop) RemoveCard(int)                   {}
func (Nop) PlaceToken(int, int)              {}
func (Nop) RemoveToken(int, int)             {}
func (Nop) RemoveTokensAt(int)               {}
func (Nop) RemoveAllTokens()                 {}
func (Nop) AnnounceWinners([]int)            {}

// Multi fans out notifications to several displays in order.
type Multi struct {
	displays []Display
}

// NewMulti builds a composite display, pruning nil entries. It returns Nop when
// nothing remains and the sole display when only one does.
func NewMulti(displays ...Display) Display {
	filtered := make([]Display, 0, len(displays))
	for _, d := range displays {
		if d != nil {
			filtered = append(filtered, d)
		}
	}

	switch len(filtered) {
	case 0:
		return Nop{}
	case 1:
		return filtered[0]
	default:
		return Multi{displays: filtered}
	}
}

func (m Multi) SetCountdown(remaining time.Duration, warn bool) {
	for _, d := range m.displays {
		d.SetCountdown(remaining, warn)
	}
}

func (m Multi) SetScore(player, score int) {
	for _, d := range m.displays {
		d.SetScore(player, score)
	}
}

func (m Multi) SetFreeze(player int, remaining time.Duration) {
	for _, d := range m.displays {
		d.SetFreeze(player, remaining)
	}
}

func (m Multi) PlaceCard(c card.Card, slot int) {
	for _, d := range m.displays {
		d.PlaceCard(c, slot)
	}
}

func (m Multi) RemoveCard(slot int) {
	for _, d := range m.displays {
		d.RemoveCard(slot)
	}
}

func (m Multi) PlaceToken(player, slot int) {
	for _, d := range m.displays {
		d.PlaceToken(player, slot)
	}
}

func (m Multi) RemoveToken(player, slot int) {
	for _, d := range m.displays {
		d.RemoveToken(player, slot)
	}
}

func (m Multi) RemoveTokensAt(slot int) {
	for _, d := range m.displays {
		d.RemoveTokensAt(slot)
	}
}

func (m Multi) RemoveAllTokens() {
	for _, d := range m.displays {
		d.RemoveAllTokens()
	}
}

func (m Multi) AnnounceWinners(players []int) {
	for _, d := range m.displays {
		d.AnnounceWinners(players)
	}
}

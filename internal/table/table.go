// Package table holds the face-up cards of a Set game.
package table

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/display"
)

var (
	ErrInvalidSlot  = errors.New("invalid slot")
	ErrSlotOccupied = errors.New("slot occupied")
	ErrSlotEmpty    = errors.New("slot empty")
)

// Table maps slots to cards. Reads are safe from any goroutine; mutation is
// expected to come from the dealer while it holds its table lock. The table's own
// mutex is a leaf lock and is never held while calling the display.
type Table struct {
	mu         sync.RWMutex
	slotToCard []card.Card
	cardToSlot map[card.Card]int
	display    display.Display
}

// New creates an empty table with size slots.
func New(size int, d display.Display) *Table {
	if d == nil {
		d = display.Nop{}
	}
	slots := make([]card.Card, size)
	for i := range slots {
		slots[i] = card.None
	}
	return &Table{
		slotToCard: slots,
		cardToSlot: make(map[card.Card]int, size),
		display:    d,
	}
}

// Size returns the number of slots.
func (t *Table) Size() int {
	return len(t.slotToCard)
}

// Place puts c face up on slot.
func (t *Table) Place(c card.Card, slot int) error {
	t.mu.Lock()
	if slot < 0 || slot >= len(t.slotToCard) {
		t.mu.Unlock()
		return fmt.Errorf("place %s on %d: %w", c, slot, ErrInvalidSlot)
	}
	if t.slotToCard[slot] != card.None {
		t.mu.Unlock()
		return fmt.Errorf("place %s on %d: %w", c, slot, ErrSlotOccupied)
	}
	t.slotToCard[slot] = c
	t.cardToSlot[c] = slot
	t.mu.Unlock()

	t.display.PlaceCard(c, slot)
	return nil
}

// Remove clears slot and returns the card that was on it. Any token markers on the
// slot are cleared from the display as well.
func (t *Table) Remove(slot int) (card.Card, error) {
	t.mu.Lock()
	if slot < 0 || slot >= len(t.slotToCard) {
		t.mu.Unlock()
		return card.None, fmt.Errorf("remove %d: %w", slot, ErrInvalidSlot)
	}
	c := t.slotToCard[slot]
	if c == card.None {
		t.mu.Unlock()
		return card.None, fmt.Errorf("remove %d: %w", slot, ErrSlotEmpty)
	}
	t.slotToCard[slot] = card.None
	delete(t.cardToSlot, c)
	t.mu.Unlock()

	t.display.RemoveTokensAt(slot)
	t.display.RemoveCard(slot)
	return c, nil
}

// PlaceToken shows player's token on slot.
func (t *Table) PlaceToken(player, slot int) {
	t.display.PlaceToken(player, slot)
}

// RemoveToken hides player's token on slot.
func (t *Table) RemoveToken(player, slot int) {
	t.display.RemoveToken(player, slot)
}

// Card returns the card on slot, if any.
func (t *Table) Card(slot int) (card.Card, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if slot < 0 || slot >= len(t.slotToCard) {
		return card.None, false
	}
	c := t.slotToCard[slot]
	return c, c != card.None
}

// SlotOf returns the slot holding c, if it is on the table.
func (t *Table) SlotOf(c card.Card) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	slot, ok := t.cardToSlot[c]
	return slot, ok
}

// Cards returns the cards currently on the table in slot order.
func (t *Table) Cards() []card.Card {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cards := make([]card.Card, 0, len(t.cardToSlot))
	for _, c := range t.slotToCard {
		if c != card.None {
			cards = append(cards, c)
		}
	}
	return cards
}

// OccupiedSlots returns the indices of slots holding a card.
func (t *Table) OccupiedSlots() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	slots := make([]int, 0, len(t.cardToSlot))
	for i, c := range t.slotToCard {
		if c != card.None {
			slots = append(slots, i)
		}
	}
	return slots
}

// EmptySlots returns the indices of slots without a card.
func (t *Table) EmptySlots() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	slots := make([]int, 0, len(t.slotToCard)-len(t.cardToSlot))
	for i, c := range t.slotToCard {
		if c == card.None {
			slots = append(slots, i)
		}
	}
	return slots
}

// CountOccupied returns the number of cards on the table.
func (t *Table) CountOccupied() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cardToSlot)
}

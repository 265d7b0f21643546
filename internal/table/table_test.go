package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/display"
)

type eventDisplay struct {
	display.Nop
	mu     sync.Mutex
	events []string
}

func (d *eventDisplay) record(e string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *eventDisplay) PlaceCard(card.Card, int) { d.record("place") }
func (d *eventDisplay) RemoveCard(int)           { d.record("remove") }
func (d *eventDisplay) RemoveTokensAt(int)       { d.record("tokens") }
func (d *eventDisplay) PlaceToken(int, int)      { d.record("token+") }
func (d *eventDisplay) RemoveToken(int, int)     { d.record("token-") }

func TestPlaceAndRemove(t *testing.T) {
	t.Parallel()
	d := &eventDisplay{}
	tbl := New(4, d)

	require.NoError(t, tbl.Place(card.Card(7), 2))
	c, ok := tbl.Card(2)
	require.True(t, ok)
	assert.Equal(t, card.Card(7), c)
	assert.Equal(t, 1, tbl.CountOccupied())
	assert.Equal(t, []int{0, 1, 3}, tbl.EmptySlots())
	assert.Equal(t, []int{2}, tbl.OccupiedSlots())

	slot, ok := tbl.SlotOf(card.Card(7))
	require.True(t, ok)
	assert.Equal(t, 2, slot)

	removed, err := tbl.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, card.Card(7), removed)
	assert.Zero(t, tbl.CountOccupied())
	_, ok = tbl.SlotOf(card.Card(7))
	assert.False(t, ok)

	assert.Equal(t, []string{"place", "tokens", "remove"}, d.events)
}

func TestPlaceErrors(t *testing.T) {
	t.Parallel()
	tbl := New(2, nil)

	require.NoError(t, tbl.Place(card.Card(1), 0))
	assert.ErrorIs(t, tbl.Place(card.Card(2), 0), ErrSlotOccupied)
	assert.ErrorIs(t, tbl.Place(card.Card(2), 5), ErrInvalidSlot)
	assert.ErrorIs(t, tbl.Place(card.Card(2), -1), ErrInvalidSlot)

	_, err := tbl.Remove(1)
	assert.ErrorIs(t, err, ErrSlotEmpty)
	_, err = tbl.Remove(9)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestCards(t *testing.T) {
	t.Parallel()
	tbl := New(3, nil)
	require.NoError(t, tbl.Place(card.Card(9), 2))
	require.NoError(t, tbl.Place(card.Card(4), 0))

	assert.Equal(t, []card.Card{4, 9}, tbl.Cards())
	_, ok := tbl.Card(1)
	assert.False(t, ok)
	_, ok = tbl.Card(10)
	assert.False(t, ok)
}

func TestTokensOnlyNotify(t *testing.T) {
	t.Parallel()
	d := &eventDisplay{}
	tbl := New(3, d)

	tbl.PlaceToken(0, 1)
	tbl.RemoveToken(0, 1)

	assert.Equal(t, []string{"token+", "token-"}, d.events)
	assert.Zero(t, tbl.CountOccupied())
}

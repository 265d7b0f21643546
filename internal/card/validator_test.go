package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatures(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{0, 0, 0, 0}, Features(0, 4, 3))
	assert.Equal(t, []int{2, 2, 2, 2}, Features(80, 4, 3))
	assert.Equal(t, []int{1, 2, 0, 0}, Features(7, 4, 3))
	assert.Equal(t, "1200", FormatFeatures(7, 4, 3))
	assert.Equal(t, 81, DeckSize(4, 3))
}

func TestIsValidSet(t *testing.T) {
	t.Parallel()
	v := DefaultValidator()

	tests := []struct {
		name  string
		cards []Card
		want  bool
	}{
		{"all features differ", []Card{0, 40, 80}, true},
		{"one feature differs", []Card{0, 1, 2}, true},
		{"two same one different", []Card{0, 1, 3}, false},
		{"duplicate card", []Card{0, 0, 0}, false},
		{"too few cards", []Card{0, 1}, false},
		{"too many cards", []Card{0, 1, 2, 3}, false},
		{"empty slot", []Card{0, 1, None}, false},
		{"mixed features", []Card{5, 13, 21}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValidSet(tt.cards))
		})
	}
}

func TestFindSets(t *testing.T) {
	t.Parallel()
	v := DefaultValidator()

	t.Run("every card pair completes exactly one set", func(t *testing.T) {
		deck := make([]Card, 81)
		for i := range deck {
			deck[i] = Card(i)
		}
		// 81*80/6 = 1080 sets in a full deck
		assert.Len(t, v.FindSets(deck, 0), 1080)
	})

	t.Run("limit stops early", func(t *testing.T) {
		sets := v.FindSets([]Card{0, 1, 2, 40, 80}, 1)
		require.Len(t, sets, 1)
		assert.True(t, v.IsValidSet(sets[0]))
	})

	t.Run("no sets", func(t *testing.T) {
		assert.False(t, v.ExistsAnySet([]Card{0, 1, 3, 4}))
		assert.Empty(t, v.Hints([]Card{0, 1, 3, 4}))
	})

	t.Run("hints use feature notation", func(t *testing.T) {
		hints := v.Hints([]Card{0, 1, 2})
		require.Len(t, hints, 1)
		assert.Equal(t, "#0(0000) #1(1000) #2(2000)", hints[0])
	})
}

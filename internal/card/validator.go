package card

import (
	"fmt"
	"strings"
)

// Validator decides set validity for a fixed deck shape.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	featureCount int
	featureSize  int
}

// NewValidator creates a validator for cards with featureCount features of featureSize values.
func NewValidator(featureCount, featureSize int) *Validator {
	return &Validator{featureCount: featureCount, featureSize: featureSize}
}

// DefaultValidator returns the validator for the standard 81 card deck.
func DefaultValidator() *Validator {
	return NewValidator(DefaultFeatureCount, DefaultFeatureSize)
}

// IsValidSet reports whether cards are three distinct cards where every feature
// is either all the same or all different.
func (v *Validator) IsValidSet(cards []Card) bool {
	if len(cards) != 3 {
		return false
	}
	a, b, c := cards[0], cards[1], cards[2]
	if a == b || b == c || a == c || a < 0 || b < 0 || c < 0 {
		return false
	}

	x, y, z := int(a), int(b), int(c)
	for i := 0; i < v.featureCount; i++ {
		fa, fb, fc := x%v.featureSize, y%v.featureSize, z%v.featureSize
		x, y, z = x/v.featureSize, y/v.featureSize, z/v.featureSize

		allSame := fa == fb && fb == fc
		allDiff := fa != fb && fb != fc && fa != fc
		if !allSame && !allDiff {
			return false
		}
	}
	return true
}

// FindSets returns up to limit valid triples drawn from cards. A limit of zero or
// less returns every triple.
func (v *Validator) FindSets(cards []Card, limit int) [][]Card {
	var sets [][]Card
	n := len(cards)
	triple := make([]Card, 3)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				triple[0], triple[1], triple[2] = cards[i], cards[j], cards[k]
				if !v.IsValidSet(triple) {
					continue
				}
				sets = append(sets, []Card{cards[i], cards[j], cards[k]})
				if limit > 0 && len(sets) >= limit {
					return sets
				}
			}
		}
	}
	return sets
}

// ExistsAnySet reports whether at least one valid triple exists among cards.
func (v *Validator) ExistsAnySet(cards []Card) bool {
	return len(v.FindSets(cards, 1)) > 0
}

// Hints describes every valid triple among cards using feature notation.
func (v *Validator) Hints(cards []Card) []string {
	sets := v.FindSets(cards, 0)
	hints := make([]string, 0, len(sets))
	for _, set := range sets {
		parts := make([]string, len(set))
		for i, c := range set {
			parts[i] = fmt.Sprintf("%s(%s)", c, FormatFeatures(c, v.featureCount, v.featureSize))
		}
		hints = append(hints, strings.Join(parts, " "))
	}
	return hints
}

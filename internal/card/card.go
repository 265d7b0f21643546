// Package card defines Set card identities and the set-validity rules.
package card

import (
	"fmt"
	"strings"
)

// Card is an opaque card identity in the range 0..deckSize-1.
type Card int

// None marks an empty table slot.
const None Card = -1

// Standard deck shape: 4 features with 3 values each, 81 cards.
const (
	DefaultFeatureCount = 4
	DefaultFeatureSize  = 3
)

// DeckSize returns the number of distinct cards for the given deck shape.
func DeckSize(featureCount, featureSize int) int {
	n := 1
	for i := 0; i < featureCount; i++ {
		n *= featureSize
	}
	return n
}

// Features decodes a card into its per-feature values, least significant feature first.
func Features(c Card, featureCount, featureSize int) []int {
	features := make([]int, featureCount)
	v := int(c)
	for i := 0; i < featureCount; i++ {
		features[i] = v % featureSize
		v /= featureSize
	}
	return features
}

// String returns the card id, e.g. "#17".
func (c Card) String() string {
	if c == None {
		return "-"
	}
	return fmt.Sprintf("#%d", int(c))
}

// FormatFeatures renders a card as its feature digits, e.g. "0121".
func FormatFeatures(c Card, featureCount, featureSize int) string {
	var sb strings.Builder
	for _, f := range Features(c, featureCount, featureSize) {
		fmt.Fprintf(&sb, "%d", f)
	}
	return sb.String()
}

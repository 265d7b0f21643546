// Package gameid generates sortable game identifiers.
package gameid

import (
	"encoding/base32"
	"fmt"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, lowercase, as used by TypeID.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generate returns a new game ID: a UUIDv7 encoded as 26 base32 characters.
// IDs generated later sort after earlier ones.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the system random source does.
		panic("failed to generate game id: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID in game ID form.
func Encode(id uuid.UUID) string {
	return encoding.EncodeToString(id[:])
}

// Parse decodes a game ID back into its UUID.
func Parse(s string) (uuid.UUID, error) {
	if len(s) != 26 {
		return uuid.Nil, fmt.Errorf("game ID must be exactly 26 characters, got %d", len(s))
	}
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("game ID %q: %w", s, err)
	}
	return uuid.FromBytes(raw)
}

// Validate checks that s is a well-formed version 7 game ID.
func Validate(s string) error {
	id, err := Parse(s)
	if err != nil {
		return err
	}
	if id.Version() != 7 {
		return fmt.Errorf("game ID %q: expected UUID version 7, got %d", s, id.Version())
	}
	return nil
}

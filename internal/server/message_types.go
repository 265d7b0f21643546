package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin  MessageType = "join"
	MessageTypePress MessageType = "press"

	// Server to client messages
	MessageTypeWelcome       MessageType = "welcome"
	MessageTypeJoined        MessageType = "joined"
	MessageTypeCountdown     MessageType = "countdown"
	MessageTypeScore         MessageType = "score"
	MessageTypeFreeze        MessageType = "freeze"
	MessageTypeCardPlaced    MessageType = "card_placed"
	MessageTypeCardRemoved   MessageType = "card_removed"
	MessageTypeTokenPlaced   MessageType = "token_placed"
	MessageTypeTokenRemoved  MessageType = "token_removed"
	MessageTypeTokensCleared MessageType = "tokens_cleared"
	MessageTypeWinners       MessageType = "winners"
	MessageTypeError         MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

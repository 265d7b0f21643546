package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	Player int `json:"player"`
}

type PressData struct {
	Slot int `json:"slot"`
}

// Server → Client Messages

type PlayerInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Human bool   `json:"human"`
}

type WelcomeData struct {
	GameID    string       `json:"gameId"`
	TableSize int          `json:"tableSize"`
	Players   []PlayerInfo `json:"players"`
}

type JoinedData struct {
	Player int `json:"player"`
}

type CountdownData struct {
	RemainingMs int64 `json:"remainingMs"`
	Warn        bool  `json:"warn"`
}

type ScoreData struct {
	Player int `json:"player"`
	Score  int `json:"score"`
}

type FreezeData struct {
	Player      int   `json:"player"`
	RemainingMs int64 `json:"remainingMs"`
}

type CardData struct {
	Slot int `json:"slot"`
	Card int `json:"card"`
}

type SlotData struct {
	Slot int `json:"slot"`
}

type TokenData struct {
	Player int `json:"player"`
	Slot   int `json:"slot"`
}

type TokensClearedData struct {
	// Slot is nil when every token on the table was cleared.
	Slot *int `json:"slot,omitempty"`
}

type WinnersData struct {
	Players []int `json:"players"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

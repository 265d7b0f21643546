package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/lox/setgame/internal/card"
)

// Config holds the tunables for a single game.
type Config struct {
	FeatureCount int
	FeatureSize  int
	DeckSize     int
	TableSize    int

	TurnTimeout        time.Duration // Countdown before a forced reshuffle
	TurnTimeoutWarning time.Duration // Remaining time at which the countdown turns to warning
	Grace              time.Duration // Padding added to every fresh countdown

	PointFreeze   time.Duration
	PenaltyFreeze time.Duration

	PollInterval        time.Duration
	WarningPollInterval time.Duration
	BotInterval         time.Duration

	Hints bool
	Seed  int64
}

// PlayerSpec describes one participant.
type PlayerSpec struct {
	Name  string
	Human bool
}

// DefaultConfig returns a config for the standard 81 card game.
func DefaultConfig() Config {
	return Config{
		FeatureCount:        card.DefaultFeatureCount,
		FeatureSize:         card.DefaultFeatureSize,
		DeckSize:            card.DeckSize(card.DefaultFeatureCount, card.DefaultFeatureSize),
		TableSize:           12,
		TurnTimeout:         60 * time.Second,
		TurnTimeoutWarning:  5 * time.Second,
		Grace:               999 * time.Millisecond,
		PointFreeze:         time.Second,
		PenaltyFreeze:       3 * time.Second,
		PollInterval:        10 * time.Millisecond,
		WarningPollInterval: time.Millisecond,
		BotInterval:         5 * time.Millisecond,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.FeatureCount < 1 || c.FeatureSize < 3 {
		return fmt.Errorf("deck shape %dx%d: need at least 1 feature with 3 values", c.FeatureCount, c.FeatureSize)
	}
	if full := card.DeckSize(c.FeatureCount, c.FeatureSize); c.DeckSize < 3 || c.DeckSize > full {
		return fmt.Errorf("deck size %d: must be between 3 and %d", c.DeckSize, full)
	}
	if c.TableSize < 3 {
		return fmt.Errorf("table size %d: must be at least 3", c.TableSize)
	}
	if c.TurnTimeout <= 0 {
		return errors.New("turn timeout must be positive")
	}
	if c.TurnTimeoutWarning < 0 || c.TurnTimeoutWarning > c.TurnTimeout {
		return fmt.Errorf("turn timeout warning %s: must be between 0 and %s", c.TurnTimeoutWarning, c.TurnTimeout)
	}
	if c.Grace < 0 || c.PointFreeze < 0 || c.PenaltyFreeze < 0 {
		return errors.New("grace and freeze durations must not be negative")
	}
	if c.PollInterval <= 0 || c.WarningPollInterval <= 0 || c.BotInterval <= 0 {
		return errors.New("poll, warning poll and bot intervals must be positive")
	}
	return nil
}

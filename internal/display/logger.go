package display

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/setgame/internal/card"
)

// Logger writes game notifications to a structured logger. Table and token
// traffic goes to debug; scores and winners go to info. Countdown and freeze
// updates arrive every poll, so only whole-second changes are logged.
type Logger struct {
	logger *log.Logger

	mu          sync.Mutex
	lastSeconds int64
	lastWarn    bool
	freezeSecs  map[int]int64
}

// NewLogger creates a display backed by logger.
func NewLogger(logger *log.Logger) *Logger {
	return &Logger{
		logger:      logger.WithPrefix("display"),
		lastSeconds: -1,
		freezeSecs:  make(map[int]int64),
	}
}

func (l *Logger) SetCountdown(remaining time.Duration, warn bool) {
	secs := int64(remaining / time.Second)
	l.mu.Lock()
	changed := secs != l.lastSeconds || warn != l.lastWarn
	l.lastSeconds, l.lastWarn = secs, warn
	l.mu.Unlock()

	if changed {
		l.logger.Debug("Countdown", "remaining", remaining.Truncate(time.Second), "warn", warn)
	}
}

func (l *Logger) SetScore(player, score int) {
	l.logger.Info("Score", "player", player, "score", score)
}

func (l *Logger) SetFreeze(player int, remaining time.Duration) {
	secs := int64(remaining / time.Second)
	if remaining <= 0 {
		secs = -1
	}
	l.mu.Lock()
	prev, seen := l.freezeSecs[player]
	l.freezeSecs[player] = secs
	l.mu.Unlock()

	if seen && prev == secs {
		return
	}
	if secs < 0 {
		l.logger.Debug("Unfrozen", "player", player)
		return
	}
	l.logger.Debug("Frozen", "player", player, "remaining", remaining.Truncate(time.Second))
}

func (l *Logger) PlaceCard(c card.Card, slot int) {
	l.logger.Debug("Card placed", "card", c, "slot", slot)
}

func (l *Logger) RemoveCard(slot int) {
	l.logger.Debug("Card removed", "slot", slot)
}

func (l *Logger) PlaceToken(player, slot int) {
	l.logger.Debug("Token placed", "player", player, "slot", slot)
}

func (l *Logger) RemoveToken(player, slot int) {
	l.logger.Debug("Token removed", "player", player, "slot", slot)
}

func (l *Logger) RemoveTokensAt(slot int) {
	l.logger.Debug("Tokens cleared", "slot", slot)
}

func (l *Logger) RemoveAllTokens() {
	l.logger.Debug("All tokens cleared")
}

func (l *Logger) AnnounceWinners(players []int) {
	l.logger.Info("Winners", "players", players)
}

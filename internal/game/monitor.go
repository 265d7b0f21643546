package game

import (
	"time"

	"github.com/lox/setgame/internal/card"
)

// Verdict is the dealer's ruling on a claim.
type Verdict string

const (
	VerdictValid   Verdict = "valid"
	VerdictInvalid Verdict = "invalid"
	VerdictStale   Verdict = "stale" // a claimed slot was vacated before adjudication
)

// ClaimOutcome describes one adjudicated or dropped claim.
type ClaimOutcome struct {
	Round   int
	Player  int
	Slots   []int
	Cards   []card.Card
	Verdict Verdict
	// Elapsed is the time since the last deal or valid claim in the round.
	Elapsed time.Duration
}

// Monitor receives notifications about game progress.
type Monitor interface {
	// OnRoundStart is called after cards are dealt for a new round.
	OnRoundStart(round int)

	// OnClaim is called for every claim leaving the queue.
	OnClaim(outcome ClaimOutcome)

	// OnGameComplete is called once winners are known.
	OnGameComplete(result Result)
}

// NullMonitor is a no-op implementation.
type NullMonitor struct{}

func (NullMonitor) OnRoundStart(int)      {}
func (NullMonitor) OnClaim(ClaimOutcome)  {}
func (NullMonitor) OnGameComplete(Result) {}

// MultiMonitor fans out events to multiple monitors.
type MultiMonitor struct {
	monitors []Monitor
}

// NewMultiMonitor builds a composite monitor, pruning nil entries and returning
// a NullMonitor when no monitors are provided.
func NewMultiMonitor(monitors ...Monitor) Monitor {
	filtered := make([]Monitor, 0, len(monitors))
	for _, monitor := range monitors {
		if monitor != nil {
			filtered = append(filtered, monitor)
		}
	}

	switch len(filtered) {
	case 0:
		return NullMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiMonitor{monitors: filtered}
	}
}

func (m MultiMonitor) OnRoundStart(round int) {
	for _, monitor := range m.monitors {
		monitor.OnRoundStart(round)
	}
}

func (m MultiMonitor) OnClaim(outcome ClaimOutcome) {
	for _, monitor := range m.monitors {
		monitor.OnClaim(outcome)
	}
}

func (m MultiMonitor) OnGameComplete(result Result) {
	for _, monitor := range m.monitors {
		monitor.OnGameComplete(result)
	}
}

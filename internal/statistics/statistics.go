package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lox/setgame/internal/game"
)

// Durations accumulates a sample of durations, stored in seconds
type Durations struct {
	Count  int
	Sum    float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // All values for median/percentile calculation
}

// Add incorporates a duration into the sample
func (d *Durations) Add(v time.Duration) {
	s := v.Seconds()
	d.Count++
	d.Sum += s
	d.SumSq += s * s
	d.Values = append(d.Values, s)
}

// Mean returns the arithmetic mean in seconds
func (d *Durations) Mean() float64 {
	if d.Count == 0 {
		return 0
	}
	return d.Sum / float64(d.Count)
}

// Variance returns the sample variance
func (d *Durations) Variance() float64 {
	if d.Count < 2 {
		return 0
	}
	mean := d.Mean()
	v := (d.SumSq - float64(d.Count)*mean*mean) / float64(d.Count-1)
	if v < 0 {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation
func (d *Durations) StdDev() float64 {
	return math.Sqrt(d.Variance())
}

// Median returns the median value of the sample
func (d *Durations) Median() float64 {
	return d.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (d *Durations) Percentile(p float64) float64 {
	if len(d.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(d.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PlayerStats counts one player's claims by verdict
type PlayerStats struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Stale   int `json:"stale"`
}

// Claims returns the number of claims that left the queue
func (p PlayerStats) Claims() int {
	return p.Valid + p.Invalid + p.Stale
}

// Accuracy returns the share of adjudicated claims that were valid
func (p PlayerStats) Accuracy() float64 {
	judged := p.Valid + p.Invalid
	if judged == 0 {
		return 0
	}
	return float64(p.Valid) / float64(judged)
}

// Snapshot is a point-in-time copy of the collected statistics
type Snapshot struct {
	Rounds          int                 `json:"rounds"`
	Sets            int                 `json:"sets"`
	Players         map[int]PlayerStats `json:"players"`
	MeanTimeToSet   time.Duration       `json:"mean_time_to_set"`
	StdDevTimeToSet time.Duration       `json:"stddev_time_to_set"`
	MedianTimeToSet time.Duration       `json:"median_time_to_set"`
	Finished        bool                `json:"finished"`
	Reason          string              `json:"reason,omitempty"`
	Winners         []int               `json:"winners,omitempty"`
}

// Collector gathers game statistics. It implements game.Monitor and is safe for
// concurrent use.
type Collector struct {
	mu        sync.Mutex
	rounds    int
	players   map[int]*PlayerStats
	timeToSet Durations
	result    *game.Result
}

var _ game.Monitor = (*Collector)(nil)

// NewCollector returns an empty collector
func NewCollector() *Collector {
	return &Collector{players: make(map[int]*PlayerStats)}
}

func (c *Collector) OnRoundStart(round int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rounds = round
}

func (c *Collector) OnClaim(outcome game.ClaimOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ps := c.players[outcome.Player]
	if ps == nil {
		ps = &PlayerStats{}
		c.players[outcome.Player] = ps
	}

	switch outcome.Verdict {
	case game.VerdictValid:
		ps.Valid++
		c.timeToSet.Add(outcome.Elapsed)
	case game.VerdictInvalid:
		ps.Invalid++
	case game.VerdictStale:
		ps.Stale++
	}
}

func (c *Collector) OnGameComplete(result game.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = &result
	c.rounds = result.Rounds
}

// Snapshot returns a copy of the current statistics
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Rounds:          c.rounds,
		Sets:            c.timeToSet.Count,
		Players:         make(map[int]PlayerStats, len(c.players)),
		MeanTimeToSet:   seconds(c.timeToSet.Mean()),
		StdDevTimeToSet: seconds(c.timeToSet.StdDev()),
		MedianTimeToSet: seconds(c.timeToSet.Median()),
	}
	for id, ps := range c.players {
		snap.Players[id] = *ps
	}
	if c.result != nil {
		snap.Finished = true
		snap.Reason = c.result.Reason
		snap.Winners = slices.Clone(c.result.Winners)
	}
	return snap
}

// Validate checks that the claim tallies agree with the final result
func (c *Collector) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		return fmt.Errorf("game not complete")
	}
	valid := 0
	for id, ps := range c.players {
		valid += ps.Valid
		if id < 0 || id >= len(c.result.Scores) {
			return fmt.Errorf("claims recorded for unknown player %d", id)
		}
		if ps.Valid != c.result.Scores[id] {
			return fmt.Errorf("player %d: %d valid claims but score %d", id, ps.Valid, c.result.Scores[id])
		}
	}
	if valid != c.result.SetsFound {
		return fmt.Errorf("valid claims (%d) do not match sets found (%d)", valid, c.result.SetsFound)
	}
	return nil
}

// Summary renders the statistics as a short multi-line report
func (c *Collector) Summary() string {
	snap := c.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "Rounds: %d, sets: %d\n", snap.Rounds, snap.Sets)
	if snap.Sets > 0 {
		fmt.Fprintf(&b, "Time to set: mean %s, median %s, stddev %s\n",
			snap.MeanTimeToSet.Round(time.Millisecond),
			snap.MedianTimeToSet.Round(time.Millisecond),
			snap.StdDevTimeToSet.Round(time.Millisecond))
	}

	ids := make([]int, 0, len(snap.Players))
	for id := range snap.Players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		ps := snap.Players[id]
		fmt.Fprintf(&b, "Player %d: %d valid, %d invalid, %d stale (%.0f%% accuracy)\n",
			id, ps.Valid, ps.Invalid, ps.Stale, ps.Accuracy()*100)
	}
	return b.String()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

package display

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Scoreboard keeps the latest score per player and prints the final standings
// when winners are announced. Every other notification is ignored.
type Scoreboard struct {
	Nop

	out   io.Writer
	names []string

	mu     sync.Mutex
	scores []int
}

// NewScoreboard creates a scoreboard writing to out. names are indexed by player id.
func NewScoreboard(out io.Writer, names []string) *Scoreboard {
	return &Scoreboard{
		out:    out,
		names:  names,
		scores: make([]int, len(names)),
	}
}

func (s *Scoreboard) SetScore(player, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player >= 0 && player < len(s.scores) {
		s.scores[player] = score
	}
}

func (s *Scoreboard) AnnounceWinners(players []int) {
	_, _ = fmt.Fprintln(s.out, s.Render(players))
}

// Render returns the standings table with winners highlighted.
func (s *Scoreboard) Render(winners []int) string {
	s.mu.Lock()
	scores := slices.Clone(s.scores)
	s.mu.Unlock()

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return scores[b] - scores[a] })

	var rows []string
	rows = append(rows, headerStyle.Render("FINAL STANDINGS"))
	for _, id := range order {
		line := fmt.Sprintf("%-16s %3d", s.name(id), scores[id])
		if slices.Contains(winners, id) {
			rows = append(rows, winnerStyle.Render("★ "+line))
		} else {
			rows = append(rows, playerStyle.Render("  "+line))
		}
	}

	names := make([]string, len(winners))
	for i, id := range winners {
		names[i] = s.name(id)
	}
	label := "Winner"
	if len(winners) > 1 {
		label = "Tie"
	}
	rows = append(rows, "", winnerStyle.Render(fmt.Sprintf("%s: %s", label, strings.Join(names, ", "))))

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s *Scoreboard) name(id int) string {
	if id >= 0 && id < len(s.names) && s.names[id] != "" {
		return s.names[id]
	}
	return fmt.Sprintf("player-%d", id)
}

package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mapcrowd/roulette/internal/stats"
)

var (
	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	groupCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	zeroCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// StatsTable renders per-group series as a grid with one column per
// date key. All series share the same key set after padding, so the
// header is taken from their union.
type StatsTable struct {
	Title  string
	Series []stats.Series
}

func NewStatsTable(title string, series []stats.Series) *StatsTable {
	return &StatsTable{Title: title, Series: series}
}

func (t *StatsTable) View() string {
	if len(t.Series) == 0 {
		return tableTitleStyle.Render(t.Title) + "\n" + zeroCellStyle.Render("  no data")
	}

	keys := t.columnKeys()
	widths := make([]int, len(keys)+1)
	widths[0] = len("group")
	for _, s := range t.Series {
		if len(s.Key) > widths[0] {
			widths[0] = len(s.Key)
		}
	}
	for i, k := range keys {
		widths[i+1] = len(k)
		for _, s := range t.Series {
			if w := len(fmt.Sprintf("%d", s.Values[k])); w > widths[i+1] {
				widths[i+1] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(headerCellStyle.Render(pad("group", widths[0])))
	for i, k := range keys {
		b.WriteString("  ")
		b.WriteString(headerCellStyle.Render(pad(k, widths[i+1])))
	}
	for _, s := range t.Series {
		b.WriteString("\n")
		b.WriteString(groupCellStyle.Render(pad(s.Key, widths[0])))
		for i, k := range keys {
			b.WriteString("  ")
			cell := pad(fmt.Sprintf("%d", s.Values[k]), widths[i+1])
			if s.Values[k] == 0 {
				b.WriteString(zeroCellStyle.Render(cell))
			} else {
				b.WriteString(cell)
			}
		}
	}

	return tableTitleStyle.Render(t.Title) + "\n" + tableStyle.Render(b.String())
}

func (t *StatsTable) columnKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range t.Series {
		for k := range s.Values {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

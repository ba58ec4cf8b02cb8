package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mapcrowd/roulette/pkg/models"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)

	cardLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	cardEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 1)
)

// TaskCard renders one selected task for the terminal.
type TaskCard struct {
	Task *models.Task
}

func NewTaskCard(t *models.Task) *TaskCard {
	return &TaskCard{Task: t}
}

func (c *TaskCard) View() string {
	if c.Task == nil {
		return cardEmptyStyle.Render("no task available")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", cardLabelStyle.Render("task"), c.Task.Identifier)
	fmt.Fprintf(&b, "%s %s\n", cardLabelStyle.Render("challenge"), c.Task.ChallengeSlug)
	fmt.Fprintf(&b, "%s %s\n", cardLabelStyle.Render("status"), c.Task.Status)
	if c.Task.Location != nil {
		fmt.Fprintf(&b, "%s %s\n", cardLabelStyle.Render("location"), c.Task.Location)
	}
	fmt.Fprintf(&b, "%s %d", cardLabelStyle.Render("geometries"), len(c.Task.Geometries))
	if c.Task.Instruction != "" {
		fmt.Fprintf(&b, "\n%s %s", cardLabelStyle.Render("instruction"), c.Task.Instruction)
	}
	return cardStyle.Render(b.String())
}

package overlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const maxPreviewLines = 12

var (
	primary   = lipgloss.Color("#0073B1")
	secondary = lipgloss.Color("#10B981")
	muted     = lipgloss.Color("#6B7280")
	errColor  = lipgloss.Color("#EF4444")
	warning   = lipgloss.Color("#F59E0B")

	appStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted)

	counterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary)

	streakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warning)

	headingStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	statusStyles = map[StatusKind]lipgloss.Style{
		StatusInfo:    lipgloss.NewStyle().Foreground(primary),
		StatusSuccess: lipgloss.NewStyle().Foreground(secondary),
		StatusError:   lipgloss.NewStyle().Foreground(errColor).Bold(true),
	}

	keyStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)
)

// Render draws the overlay for s
func Render(s State) string {
	return render(s, "")
}

func render(s State, spinner string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Job Tracker"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Applications Today "))
	b.WriteString(counterStyle.Render(fmt.Sprintf("%d", s.Counter.Count)))
	b.WriteString(labelStyle.Render("   Streak "))
	b.WriteString(streakStyle.Render(fmt.Sprintf("%d 🔥", s.Counter.Streak)))
	b.WriteString("\n\n")

	switch {
	case s.LastResume != nil:
		b.WriteString(headingStyle.Render("Custom Resume for: " + s.LastResume.JobTitle))
		b.WriteString("\n")
		b.WriteString(preview(s.LastResume.Body))
	case s.LastScrape != nil:
		b.WriteString(headingStyle.Render(s.LastScrape.Title))
		b.WriteString("\n")
		b.WriteString(preview(s.LastScrape.Description))
	default:
		b.WriteString(mutedStyle.Render(`Press "s" to scrape the job description from this page.`))
	}
	b.WriteString("\n\n")

	b.WriteString(renderHelp(s))

	if s.Status != "" {
		b.WriteString("\n\n")
		status := s.Status
		if s.Generating && spinner != "" {
			status = spinner + " " + status
		}
		style, ok := statusStyles[s.StatusKind]
		if !ok {
			style = lipgloss.NewStyle()
		}
		b.WriteString(style.Render(status))
	}

	return appStyle.Render(b.String())
}

func renderHelp(s State) string {
	items := []struct {
		key, label string
		enabled    bool
	}{
		{"+", "increment", true},
		{"r", "reset", true},
		{"s", "scrape", true},
		{"g", "generate", s.CanGenerate()},
		{"v", "save job", true},
		{"c", "copy resume", s.LastResume != nil},
		{"q", "close", true},
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if !item.enabled {
			parts = append(parts, mutedStyle.Render(item.key+" "+item.label))
			continue
		}
		parts = append(parts, keyStyle.Render(item.key)+" "+item.label)
	}
	return strings.Join(parts, labelStyle.Render(" • "))
}

func preview(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > maxPreviewLines {
		lines = append(lines[:maxPreviewLines], "…")
	}
	return lipgloss.NewStyle().Width(72).Render(strings.Join(lines, "\n"))
}

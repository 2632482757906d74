package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"study-importer/internal/studydump"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	questionStyle = lipgloss.NewStyle().Bold(true)
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	issueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// renderPreview formats a parse result for the terminal. width <= 0 disables
// wrapping.
func renderPreview(r studydump.Result, issues []string, width int) string {
	wrap := func(s string) string {
		if width <= 0 {
			return s
		}
		return lipgloss.NewStyle().Width(width).Render(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", headingStyle.Render("Dialect"), r.DetectedDialect)
	fmt.Fprintf(&b, "%s  %d\n", headingStyle.Render("Entries"), r.EntryCount)

	if len(issues) > 0 {
		b.WriteString("\n")
		for _, issue := range issues {
			b.WriteString(issueStyle.Render("! "+issue) + "\n")
		}
	}

	if r.Summary != nil {
		b.WriteString("\n" + headingStyle.Render("Summary: "+r.Summary.Title) + "\n")
		b.WriteString(wrap(r.Summary.Content) + "\n")
	}

	for i, e := range r.Entries {
		b.WriteString("\n")
		b.WriteString(wrap(questionStyle.Render(fmt.Sprintf("Q%d. %s", i+1, e.Question))) + "\n")
		b.WriteString(wrap(fmt.Sprintf("A%d. %s", i+1, e.Answer)) + "\n")
		meta := string(e.Level)
		if len(e.Tags) > 0 {
			meta += " · " + strings.Join(e.Tags, ", ")
		}
		b.WriteString(tagStyle.Render(meta) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

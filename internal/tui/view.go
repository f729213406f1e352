package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/nepcollege/internal/form"
	"github.com/amishk599/nepcollege/internal/model"
)

const (
	skeletonCards = 6
	maxCardWidth  = 72
)

func (m appModel) viewHeader() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.title.Render("Nepal College Email Harvester"))
	b.WriteByte('\n')
	b.WriteString(t.subtitle.Render("Find affiliated colleges and their contact emails."))
	b.WriteByte('\n')

	b.WriteString(m.viewSelector(fieldProvince, "Province", m.state.Criteria.Province, "Select a province"))
	b.WriteString(m.viewSelector(fieldUniversity, "University", m.state.Criteria.University, "Select a university"))
	b.WriteString(m.viewSelector(fieldFaculty, "Faculty", m.state.Criteria.Faculty, "Any faculty"))
	b.WriteString(m.fieldLabel(fieldAPIKey, "API key") + m.keyInput.View() + "\n")

	btn := t.button
	switch {
	case m.state.Loading():
		btn = t.disabled
	case m.focus == fieldSubmit:
		btn = t.focusedButton
	}
	label := "Harvest Emails"
	if m.state.Loading() {
		label = m.spinner.View() + " Harvesting..."
	}
	b.WriteString(lipgloss.NewStyle().PaddingLeft(16).Render(btn.Render(label)))
	return b.String()
}

func (m appModel) fieldLabel(f field, label string) string {
	if m.focus == f {
		return m.theme.focusedLabel.Render("> " + label)
	}
	return m.theme.label.Render(label)
}

func (m appModel) viewSelector(f field, label, value, placeholder string) string {
	v := m.theme.placeholder.Render(placeholder)
	if value != "" {
		v = m.theme.value.Render(value)
	}
	if m.focus == f {
		v = "‹ " + v + " ›"
	}
	return m.fieldLabel(f, label) + v + "\n"
}

func (m appModel) viewStatusBar() string {
	text := helpLine(keys.Next, keys.Left, keys.Enter, keys.Theme, keys.Quit)
	if m.hasResults() {
		text = helpLine(keys.CardDown, keys.Copy, keys.Mail)
		if m.exporter != nil {
			text += "  " + helpLine(keys.Export)
		}
		text += "  " + helpLine(keys.Theme, keys.Quit)
	}
	if m.notice != "" {
		text = m.theme.badge.Render("✓ "+m.notice) + "   " + text
	}
	return m.theme.statusBar.Width(max(m.width, 20)).Render(text)
}

// renderBody draws everything below the form for state s. It returns the
// content and the first line of each result card.
func renderBody(s form.State, t theme, cursor int, spin string, width int) (string, []int) {
	cardWidth := min(max(width-4, 20), maxCardWidth)
	var b strings.Builder
	var offsets []int

	if s.Err != "" {
		b.WriteString(t.errorBox.Width(cardWidth).Render(s.Err))
		b.WriteByte('\n')
	}

	switch {
	case s.Loading():
		b.WriteString(t.status.Render(spin+" Searching for colleges...") + "\n")
		b.WriteString(t.muted.Render(s.StatusMessage()) + "\n\n")
		for i := 0; i < skeletonCards; i++ {
			b.WriteString(renderSkeleton(t, cardWidth) + "\n")
		}

	case s.Phase == form.PhaseSuccess && len(s.Colleges) > 0:
		b.WriteString(t.heading.Render(fmt.Sprintf("Results (%d)", len(s.Colleges))) + "\n\n")
		line := lipgloss.Height(b.String()) - 1
		for i, c := range s.Colleges {
			offsets = append(offsets, line)
			card := renderCard(c, t, i == cursor, cardWidth)
			b.WriteString(card + "\n")
			line += lipgloss.Height(card)
		}
		if len(s.Sources) > 0 {
			b.WriteString(renderSources(s.Sources, t))
		}

	case s.Err == "" && !s.SearchPerformed:
		b.WriteString(t.heading.Render("Ready to start?") + "\n")
		b.WriteString(t.muted.Render("Select a province and university to begin harvesting college emails.") + "\n")

	case s.Err == "" && s.SearchPerformed && len(s.Colleges) == 0:
		b.WriteString(t.heading.Render("No results found") + "\n")
		b.WriteString(t.muted.Render("No colleges matched these criteria. Try a different combination.") + "\n")
	}

	return b.String(), offsets
}

func renderCard(c model.College, t theme, selected bool, width int) string {
	var lines []string
	lines = append(lines, t.cardTitle.Render(c.Name))
	if len(c.Emails) == 0 {
		lines = append(lines, t.placeholder.Render("Email not found"))
	}
	for _, e := range c.Emails {
		lines = append(lines, t.email.Render("✉ "+e))
	}

	style := t.card
	if selected {
		style = t.selectedCard
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func renderSkeleton(t theme, width int) string {
	bar := func(n int) string { return strings.Repeat("░", max(n, 4)) }
	inner := width - 4
	return t.card.Width(width).Render(
		t.skeleton.Render(bar(inner*2/3)) + "\n" + t.skeleton.Render(bar(inner/2)),
	)
}

func renderSources(sources []model.Source, t theme) string {
	var b strings.Builder
	b.WriteString(t.heading.Render("Data sources") + "\n")
	for _, s := range sources {
		label := s.Title
		if label == "" {
			label = s.URI
		}
		b.WriteString("  " + t.link.Render(label))
		if label != s.URI {
			b.WriteString(" " + t.muted.Render(s.URI))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

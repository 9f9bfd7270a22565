// Package render formats plans and session logs for the terminal
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dayplan/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)
)

func task(t models.Task) string {
	box := "[ ]"
	text := t.Text
	if t.Done {
		box = "[x]"
		text = doneStyle.Render(text)
	}
	line := fmt.Sprintf("  %s %s  %s", box, t.ID, text)
	if t.EstimateMin > 0 {
		line += mutedStyle.Render(fmt.Sprintf(" (%dm)", t.EstimateMin))
	}
	if t.DoneDef != "" {
		line += "\n      " + mutedStyle.Render("done when: "+t.DoneDef)
	}
	return line
}

func tasks(b *strings.Builder, label string, list []models.Task) {
	if len(list) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render(label) + "\n")
	for _, t := range list {
		b.WriteString(task(t) + "\n")
	}
}

func risk(b *strings.Builder, r models.Risk) {
	if r.Risk == "" {
		return
	}
	fmt.Fprintf(b, "%s %s\n", sectionStyle.Render("Risk:"), r.Risk)
	if r.Signal != "" {
		b.WriteString("  " + mutedStyle.Render("signal: "+r.Signal) + "\n")
	}
}

func adjustment(b *strings.Builder, a models.Adjustment) {
	if a.Suggestion == "" {
		return
	}
	fmt.Fprintf(b, "%s [%s] %s\n", sectionStyle.Render("Adjust:"), a.Type, a.Suggestion)
}

// Fragment renders one card's plan body
func Fragment(p models.PlanFragment) string {
	var b strings.Builder
	tasks(&b, "Must", p.Must)
	tasks(&b, "Should", p.Should)
	risk(&b, p.RiskOfDay)
	adjustment(&b, p.OneAdjustment)
	for _, a := range p.Assumptions {
		b.WriteString(mutedStyle.Render("assumes: "+a) + "\n")
	}
	return b.String()
}

// Day renders a day's card list with a completion summary
func Day(plan models.DayPlan) string {
	var b strings.Builder
	total, done := plan.Tasks()
	b.WriteString(headerStyle.Render(fmt.Sprintf("Plan for %s", plan.Date)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d done", done, total)) + "\n")

	if len(plan.Cards) == 0 {
		b.WriteString(mutedStyle.Render("No cards yet.") + "\n")
		return b.String()
	}

	for i, card := range plan.Cards {
		b.WriteString("\n")
		b.WriteString(cardStyle.Render(fmt.Sprintf("%d. %s", i+1, card.Title)))
		b.WriteString(" " + mutedStyle.Render(card.ID) + "\n")
		b.WriteString(Fragment(card.Plan))
	}
	return b.String()
}

// Week renders a weekly plan
func Week(plan models.WeeklyPlan) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Week of %s", plan.WeekStart)) + "\n")

	if len(plan.Goals) > 0 {
		b.WriteString(sectionStyle.Render("Goals") + "\n")
		for _, g := range plan.Goals {
			b.WriteString("  - " + g + "\n")
		}
	}
	tasks(&b, "Must", plan.Must)
	tasks(&b, "Should", plan.Should)
	if plan.Feedback != "" {
		fmt.Fprintf(&b, "%s %s\n", sectionStyle.Render("Feedback:"), plan.Feedback)
	}
	if plan.Adjustments != "" {
		fmt.Fprintf(&b, "%s %s\n", sectionStyle.Render("Changes:"), plan.Adjustments)
	}
	risk(&b, plan.RiskOfWeek)
	adjustment(&b, plan.OneAdjustment)
	return b.String()
}

func transcript(s string) string {
	const width = 80
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > width {
		s = string(r[:width-1]) + "…"
	}
	return s
}

// DayLogs renders the session logs for a date, newest first
func DayLogs(date string, logs []models.SessionLog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Sessions on %s", date)) + "\n")
	if len(logs) == 0 {
		b.WriteString(mutedStyle.Render("No sessions recorded.") + "\n")
		return b.String()
	}
	for _, l := range logs {
		title := mutedStyle.Render("(no plan)")
		if l.Plan != nil {
			title = l.Plan.Title
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", l.CreatedAt.Local().Format("15:04:05"), mutedStyle.Render(l.ID), title)
		if l.Transcript != "" {
			b.WriteString("  " + transcript(l.Transcript) + "\n")
		}
	}
	return b.String()
}

// WeekLogs renders the session logs for a week, newest first
func WeekLogs(weekStart string, logs []models.WeeklySessionLog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Sessions for week of %s", weekStart)) + "\n")
	if len(logs) == 0 {
		b.WriteString(mutedStyle.Render("No sessions recorded.") + "\n")
		return b.String()
	}
	for _, l := range logs {
		fmt.Fprintf(&b, "%s  %s\n", l.CreatedAt.Local().Format("2006-01-02 15:04"), mutedStyle.Render(l.ID))
		if l.Transcript != "" {
			b.WriteString("  " + transcript(l.Transcript) + "\n")
		}
	}
	return b.String()
}

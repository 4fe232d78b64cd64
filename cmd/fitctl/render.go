package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/backup"
	"github.com/2beens/fitcoach/internal/fitness"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSubtext = lipgloss.Color("#a6adc8")
	colorBorder  = lipgloss.Color("#45475a")
	colorTitle   = lipgloss.Color("#74c7ec")
	colorGood    = lipgloss.Color("#a6e3a1")
	colorHot     = lipgloss.Color("#fab387")

	paneStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGood)
	hotStyle   = lipgloss.NewStyle().Foreground(colorHot).Bold(true)
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderStatus(doc *fitness.Document, now time.Time) string {
	report := fitness.Progress(doc, now)
	plan := fitness.PlanFor(now.Weekday(), doc.PRs)

	var b strings.Builder
	b.WriteString(titleStyle.Render("FITCOACH STATUS"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Streak:   %s\n", hotStyle.Render(fmt.Sprintf("%d days", report.Streak))))
	b.WriteString(fmt.Sprintf("Workouts: %d\n", report.Workouts))
	if report.CurrentWeight != nil {
		b.WriteString(fmt.Sprintf("Weight:   %s lbs\n", formatNumber(*report.CurrentWeight)))
	} else {
		b.WriteString(mutedStyle.Render("No weight data yet."))
		b.WriteString("\n")
	}

	if plan.RestDay {
		b.WriteString(fmt.Sprintf("Today:    %s\n", goodStyle.Render("Rest day")))
	} else {
		b.WriteString(fmt.Sprintf("Today:    %s\n", goodStyle.Render(plan.Focus)))
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("PERSONAL RECORDS"))
	b.WriteString("\n")
	exercises := make([]string, 0, len(doc.PRs))
	for exercise := range doc.PRs {
		exercises = append(exercises, exercise)
	}
	slices.Sort(exercises)
	if len(exercises) == 0 {
		b.WriteString(mutedStyle.Render("No PRs yet."))
	}
	for i, exercise := range exercises {
		target, _ := fitness.SuggestedTarget(doc.PRs, exercise)
		b.WriteString(fmt.Sprintf("%-20s %s lbs %s", exercise, formatNumber(doc.PRs[exercise]),
			mutedStyle.Render(fmt.Sprintf("(next: %d)", target))))
		if i < len(exercises)-1 {
			b.WriteString("\n")
		}
	}

	return paneStyle.Render(b.String())
}

func renderBackupReport(report *backup.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("BACKUP %s (%d bytes)", report.FileName, report.Size)))
	for _, target := range report.Targets {
		b.WriteString("\n")
		if target.OK {
			b.WriteString(fmt.Sprintf("%-8s %s %s", target.Target, goodStyle.Render("ok"), mutedStyle.Render(target.Revision)))
		} else {
			b.WriteString(fmt.Sprintf("%-8s %s %s", target.Target, hotStyle.Render("failed"), target.Error))
		}
	}
	return paneStyle.Render(b.String())
}

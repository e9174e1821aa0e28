package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envel/internal/cli"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.ColorBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.ColorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(cli.ColorTextMuted)

	valueStyle = lipgloss.NewStyle().
			Foreground(cli.ColorText)

	helpStyle = lipgloss.NewStyle().
			Foreground(cli.ColorTextDim)

	errStyle = lipgloss.NewStyle().
			Foreground(cli.ColorRed)
)

// View renders the dashboard.
func (a App) View() string {
	if a.needSetup && a.setupForm != nil {
		var b strings.Builder
		b.WriteString(panelTitleStyle.Render("envel setup"))
		b.WriteString("\n\n")
		if a.setupErr != nil {
			b.WriteString(errStyle.Render(a.setupErr.Error()))
			b.WriteString("\n\n")
		}
		b.WriteString(a.setupForm.View())
		return b.String()
	}

	if !a.loaded {
		return fmt.Sprintf("\n  %s loading budget...\n", a.spinner.View())
	}
	if a.err != nil {
		return errStyle.Render("error: "+a.err.Error()) + "\n" +
			helpStyle.Render("r refresh · q quit") + "\n"
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		a.fundsPanel(),
		a.envelopePanel(),
		a.limitsPanel(),
	)

	sections := []string{top, a.historyPanel()}
	if p := a.goalsPanel(); p != "" {
		sections = append(sections, p)
	}
	if p := a.anomalyLines(); p != "" {
		sections = append(sections, p)
	}
	sections = append(sections, helpStyle.Render("r refresh · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func panel(title string, lines ...string) string {
	body := panelTitleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return panelStyle.Render(body)
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
}

func (a App) fundsPanel() string {
	d := a.data
	return panel("Funds "+d.Today,
		row("income", cli.FormatMoney(d.Totals.Income)),
		row("spent", cli.FormatMoney(d.Totals.Expense)),
		row("available", cli.FormatMoney(d.Funds)),
		row("today", cli.FormatMoney(d.Periods.SpentToday)),
		row("this week", cli.FormatMoney(d.Periods.SpentWeek)),
		row("this month", cli.FormatMoney(d.Periods.SpentMonth)),
	)
}

func (a App) envelopePanel() string {
	d := a.data
	if d.Envelope == nil {
		return panel("Envelope", labelStyle.Render("disabled"))
	}
	allowance := d.Envelope.BaseAmount + d.Envelope.TodayExtraFromInflows
	var pct float64
	if allowance > 0 {
		pct = d.Periods.SpentToday / allowance
	}
	return panel("Envelope",
		row("base", cli.FormatMoney(d.Envelope.BaseAmount)),
		row("extra", cli.FormatMoney(d.Envelope.TodayExtraFromInflows)),
		row("allowance", cli.FormatMoney(allowance)),
		row("spent", cli.FormatMoney(d.Periods.SpentToday)),
		cli.RenderBar(pct, 20),
	)
}

func (a App) limitsPanel() string {
	d := a.data
	lines := []string{}
	if d.Limits.Primary.EndDate != "" {
		p := d.Limits.Primary
		lines = append(lines,
			row("until", p.EndDate),
			row("days left", fmt.Sprintf("%d", p.DaysLeft)),
			row("spendable", cli.FormatMoney(p.Spendable)),
			row("per day", cli.FormatMoney(p.DailyLimit)),
		)
	}
	if d.Limits.Secondary.EndDate != "" {
		s := d.Limits.Secondary
		lines = append(lines,
			row("then until", s.EndDate),
			row("per day", cli.FormatMoney(s.DailyLimit)),
		)
	}
	if len(lines) == 0 {
		lines = append(lines, labelStyle.Render("no period set"))
	}
	return panel("Limits", lines...)
}

func (a App) historyPanel() string {
	d := a.data
	lines := []string{cli.RenderSparkline(d.SpendSeries)}
	if len(d.Buckets) >= 2 {
		last := d.Buckets[len(d.Buckets)-1]
		prev := d.Buckets[len(d.Buckets)-2]
		lines = append(lines, row(last.Label,
			cli.FormatMoney(last.ExpenseSum)+"  "+cli.FormatDelta(last.ExpenseSum, prev.ExpenseSum)))
	}
	return panel("Spending (30d)", lines...)
}

func (a App) goalsPanel() string {
	d := a.data
	if len(d.Goals) == 0 {
		return ""
	}
	lines := make([]string, 0, len(d.Goals))
	for _, g := range d.Goals {
		var pct float64
		if g.TargetAmount > 0 {
			pct = g.CurrentAmount / g.TargetAmount
		}
		line := row(g.Name, fmt.Sprintf("%s / %s  %s",
			cli.FormatMoney(g.CurrentAmount),
			cli.FormatMoney(g.TargetAmount),
			cli.RenderBar(pct, 14)))
		if s, ok := d.Suggestions[g.ID]; ok && s.CanSuggest {
			line += "  " + cli.Warn("save "+cli.FormatMoney(s.Amount)+"?")
		}
		lines = append(lines, line)
	}
	return panel("Goals", lines...)
}

func (a App) anomalyLines() string {
	if len(a.data.Anomalies) == 0 {
		return ""
	}
	lines := make([]string, 0, len(a.data.Anomalies))
	for _, an := range a.data.Anomalies {
		lines = append(lines, cli.Warn("! "+an.Message))
	}
	return strings.Join(lines, "\n")
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// maxExchanges bounds the chat transcript kept on screen.
const maxExchanges = 20

type exchange struct {
	question string
	reply    coach.Reply
}

type coachState struct {
	input     textinput.Model
	typing    bool
	exchanges []exchange
}

func newCoachState() coachState {
	ti := textinput.New()
	ti.Placeholder = "what if I pay 300 extra? · which debt first? · how are my goals?"
	ti.CharLimit = 200
	ti.Width = 60
	ti.Prompt = "› "
	return coachState{input: ti}
}

// updateCoachInput handles keys while the question box has focus.
func (a App) updateCoachInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.coach.typing = false
		a.coach.input.Blur()
		return a, nil
	case "enter":
		question := strings.TrimSpace(a.coach.input.Value())
		if question == "" {
			return a, nil
		}
		a.ask(question)
		a.coach.input.SetValue("")
		return a, nil
	}
	var cmd tea.Cmd
	a.coach.input, cmd = a.coach.input.Update(msg)
	return a, cmd
}

// ask answers question against the loaded report and appends the exchange.
func (a *App) ask(question string) {
	reply := coach.Answer(question, a.report.CoachInput(), a.whatIf())
	a.coach.exchanges = append(a.coach.exchanges, exchange{question: question, reply: reply})
	if n := len(a.coach.exchanges); n > maxExchanges {
		a.coach.exchanges = a.coach.exchanges[n-maxExchanges:]
	}
}

// whatIf simulates the ranked debts through the shared memo.
func (a App) whatIf() coach.WhatIf {
	if a.report == nil || len(a.report.Ranked) == 0 {
		return nil
	}
	ordered := engine.Debts(a.report.Ranked)
	memo := a.memo
	return func(extra money.Money) (engine.Comparison, error) {
		return memo.Compare(ordered, extra)
	}
}

func (a App) renderCoachTab(cw, h int) string {
	halves := components.LayoutRow(cw, 2)

	insights := components.ContentCard("Insights", renderInsights(a.report.Insights, components.CardInnerWidth(halves[0])), halves[0])

	chatH := max(h-4, 6)
	chat := components.ContentCard("Ask", a.renderChat(components.CardInnerWidth(halves[1]), chatH), halves[1])

	return components.CardRow([]string{insights, chat})
}

func renderInsights(list []model.Insight, innerW int) string {
	t := theme.Active
	if len(list) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("All quiet. Nothing needs attention.")
	}

	bodyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(innerW - 2)
	var b strings.Builder
	for i, in := range list {
		if i > 0 {
			b.WriteString("\n\n")
		}
		icon, color := severityIcon(in.Severity)
		head := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
		b.WriteString(head.Render(icon + " " + in.Title))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render("  " + in.Body))
	}
	return b.String()
}

func severityIcon(s model.Severity) (string, lipgloss.Color) {
	t := theme.Active
	switch s {
	case model.Success:
		return "✓", t.Good
	case model.Warning:
		return "!", t.Caution
	default:
		return "i", t.Info
	}
}

func (a App) renderChat(innerW, h int) string {
	t := theme.Active
	qStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	aStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW)
	tagStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	for _, ex := range a.coach.exchanges {
		lines = append(lines, qStyle.Render("› "+ex.question)+tagStyle.Render("  "+string(ex.reply.Intent)))
		lines = append(lines, strings.Split(aStyle.Render(ex.reply.Text), "\n")...)
		lines = append(lines, "")
	}
	// Keep the newest exchanges when the transcript outgrows the card.
	if budget := h - 2; len(lines) > budget {
		lines = lines[len(lines)-budget:]
	}

	input := hintStyle.Render("press enter to ask a question")
	if a.coach.typing {
		input = a.coach.input.View()
	}
	return strings.Join(append(lines, input), "\n")
}

package coach

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Intent is the topic a chat message was routed to.
type Intent string

const (
	IntentWhatIf Intent = "what-if"
	IntentSave   Intent = "save"
	IntentDebt   Intent = "debt"
	IntentGoal   Intent = "goal"
	IntentBudget Intent = "budget"
	IntentCash   Intent = "cash-flow"
	IntentHelp   Intent = "help"
)

// WhatIf runs the snowball comparison for a given extra monthly budget.
type WhatIf func(extra money.Money) (engine.Comparison, error)

// Reply is a routed chat answer.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
}

// amountRegex tries, at each position, pt-BR grouping ("1.500,00",
// "1.250.000"), then en grouping ("1,500.50"), then a plain number with an
// optional dot or comma decimal.
var amountRegex = regexp.MustCompile(
	`(?P<br>\d{1,3}(?:\.\d{3})+,\d{1,2}\b|\d{1,3}(?:\.\d{3}){2,}\b)` +
		`|(?P<en>\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?\b)` +
		`|(?P<plain>\d+(?:[.,]\d{1,2})?)`)

type route struct {
	intent Intent
	match  func(lower string) bool
	answer func(lower string, in Input, whatIf WhatIf) string
}

// routes is checked top to bottom; the first match answers.
var routes = []route{
	{IntentWhatIf, isWhatIf, answerWhatIf},
	{IntentSave, containsAny("economizar", "poupar", "save", "saving"), answerSave},
	{IntentCash, containsAny("renda", "receita", "contas", "sobra", "income", "bills", "cash flow"), answerCashFlow},
	{IntentDebt, containsAny("dívida", "divida", "pagar", "quitar", "debt", "pay"), answerDebt},
	{IntentGoal, containsAny("meta", "progresso", "objetivo", "goal", "progress"), answerGoal},
	{IntentBudget, containsAny("orçamento", "orcamento", "gasto", "budget", "spend"), answerBudget},
}

// Answer routes message through the keyword table. whatIf may be nil, in
// which case what-if questions get a hint instead of a simulation.
func Answer(message string, in Input, whatIf WhatIf) Reply {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, r := range routes {
		if r.match(lower) {
			return Reply{Intent: r.intent, Text: r.answer(lower, in, whatIf)}
		}
	}
	return Reply{Intent: IntentHelp, Text: helpText}
}

const helpText = "I can rank your debts, simulate paying extra each month, " +
	"track goals, flag budget categories and sum up your bills. Try \"which debt first?\", " +
	"\"what if I pay 300 extra?\" or \"how are my goals?\"."

func containsAny(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}

func isWhatIf(lower string) bool {
	keyword := containsAny("what if", "e se", "extra", "a mais")(lower)
	return keyword && parseAmount(lower) > 0
}

// parseAmount returns the first amount in text. "1,500" and "1.500,00" are
// read as fifteen hundred, "12,5" as twelve and a half.
func parseAmount(text string) money.Money {
	m := amountRegex.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	var raw string
	switch {
	case m[amountRegex.SubexpIndex("br")] != "":
		raw = strings.ReplaceAll(m[amountRegex.SubexpIndex("br")], ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	case m[amountRegex.SubexpIndex("en")] != "":
		raw = strings.ReplaceAll(m[amountRegex.SubexpIndex("en")], ",", "")
	default:
		raw = m[amountRegex.SubexpIndex("plain")]
	}
	v, err := money.Parse(raw)
	if err != nil {
		return 0
	}
	return v
}

func answerWhatIf(lower string, in Input, whatIf WhatIf) string {
	extra := parseAmount(lower)
	if whatIf == nil {
		return fmt.Sprintf("Run `fincoach simulate --extra %s` to see that plan.", extra)
	}
	c, err := whatIf(extra)
	if err != nil {
		return fmt.Sprintf("I could not run that simulation: %v", err)
	}
	if len(c.Snowball.Schedules) == 0 {
		return "You have no open debts to simulate."
	}
	if !c.Snowball.Converged {
		return fmt.Sprintf("Even with %s extra a month your debts are still open after %d months.",
			extra.Format(in.Currency), engine.MaxMonths)
	}
	text := fmt.Sprintf("With %s extra a month you are debt-free in %d months and pay %s in interest.",
		extra.Format(in.Currency), c.Snowball.TotalMonthsToFreedom, c.Snowball.TotalInterestPaid.Format(in.Currency))
	if c.InterestSaved > 0 {
		text += fmt.Sprintf(" That is %s less than paying each debt on its own.", c.InterestSaved.Format(in.Currency))
	}
	return text
}

func answerCashFlow(_ string, in Input, _ WhatIf) string {
	cf := in.CashFlow
	if cf.Income == 0 && cf.Expenses == 0 {
		return "Record your income and bills with `fincoach add income` and `fincoach add expense` first."
	}
	text := fmt.Sprintf("This month: %s in, %s in bills and %s in debt payments, leaving %s.",
		cf.Income.Format(in.Currency), cf.Expenses.Format(in.Currency),
		cf.DebtService.Format(in.Currency), cf.Net.Format(in.Currency))
	if cf.OverdueCount > 0 {
		text += fmt.Sprintf(" %s in %d bills is overdue.", cf.Overdue.Format(in.Currency), cf.OverdueCount)
	} else if cf.Pending > 0 {
		text += fmt.Sprintf(" %s is still pending.", cf.Pending.Format(in.Currency))
	}
	return text
}

func answerSave(_ string, in Input, _ WhatIf) string {
	b := in.Budget
	if b.TotalLimit == 0 {
		return "Set monthly limits per category first; then I can point out where to save."
	}
	left := b.TotalLimit - b.TotalSpent
	var over []string
	for _, ev := range b.Evaluations {
		if ev.Alert == engine.AlertOver {
			over = append(over, fmt.Sprintf("%s (%s over)", ev.Entry.Category.Label(), (-ev.Remaining).Format(in.Currency)))
		}
	}
	var text string
	if left >= 0 {
		text = fmt.Sprintf("You have %s left of your %s budget this month.", left.Format(in.Currency), b.TotalLimit.Format(in.Currency))
	} else {
		text = fmt.Sprintf("You are %s over your %s budget this month.", (-left).Format(in.Currency), b.TotalLimit.Format(in.Currency))
	}
	if len(over) > 0 {
		text += " Cutting back on " + strings.Join(over, ", ") + " would help most."
	}
	return text
}

func answerDebt(_ string, in Input, _ WhatIf) string {
	if len(in.Ranked) == 0 {
		return "You have no open debts. Nice work."
	}
	names := make([]string, len(in.Ranked))
	for i, r := range in.Ranked {
		names[i] = fmt.Sprintf("%d. %s", r.Position, r.Debt.Name)
	}
	top := in.Ranked[0]
	text := fmt.Sprintf("Focus on %s first: impact score %d at %s%% a month. Order: %s.",
		top.Debt.Name, top.Score, top.Debt.MonthlyRate.StringFixed(2), strings.Join(names, ", "))
	if p := in.Plan; p != nil && p.Snowball.Converged {
		text += fmt.Sprintf(" Following it you are debt-free in %d months.", p.Snowball.TotalMonthsToFreedom)
	}
	return text
}

func answerGoal(_ string, in Input, _ WhatIf) string {
	if len(in.Goals) == 0 {
		return "You have no savings goals yet."
	}
	parts := make([]string, 0, len(in.Goals))
	for _, g := range in.Goals {
		switch g.Status {
		case engine.Achieved:
			parts = append(parts, fmt.Sprintf("%s is done", g.Goal.Name))
		case engine.Overdue:
			parts = append(parts, fmt.Sprintf("%s is overdue with %s missing", g.Goal.Name, g.Remaining.Format(in.Currency)))
		default:
			parts = append(parts, fmt.Sprintf("%s is %.0f%% done, save %s a month",
				g.Goal.Name, g.ProgressPercent, g.RecommendedMonthly.Format(in.Currency)))
		}
	}
	return strings.Join(parts, "; ") + "."
}

func answerBudget(_ string, in Input, _ WhatIf) string {
	b := in.Budget
	var flagged int
	for _, ev := range b.Evaluations {
		if ev.Alert != engine.AlertOk {
			flagged++
		}
	}
	return fmt.Sprintf("You have used %.0f%% of your %s budget; %d of %d categories need attention.",
		b.UtilizationPercent, b.TotalLimit.Format(in.Currency), flagged, len(b.Evaluations))
}

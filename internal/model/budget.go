package model

import "github.com/theirongolddev/fincoach/internal/money"

// BudgetEntry tracks one category's spend against its monthly limit.
type BudgetEntry struct {
	Category Category    `json:"category"`
	Limit    money.Money `json:"limit_cents"`
	Spent    money.Money `json:"spent_cents"`
	Period   string      `json:"period,omitempty"` // YYYY-MM
}

// PeriodSpend is an archived category total for a closed period.
type PeriodSpend struct {
	Period   string      `json:"period"`
	Category Category    `json:"category"`
	Spent    money.Money `json:"spent_cents"`
}

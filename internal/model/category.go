package model

import (
	"fmt"
	"strings"
)

// Category is one of the fixed spending categories.
type Category string

const (
	Housing    Category = "housing"
	Food       Category = "food"
	Transport  Category = "transport"
	Utilities  Category = "utilities"
	Health     Category = "health"
	Education  Category = "education"
	Leisure    Category = "leisure"
	CreditCard Category = "credit-card"
	Loan       Category = "loan"
	Other      Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	Housing, Food, Transport, Utilities, Health,
	Education, Leisure, CreditCard, Loan, Other,
}

var categoryAliases = map[string]Category{
	"moradia":     Housing,
	"alimentacao": Food,
	"alimentação": Food,
	"transporte":  Transport,
	"utilidades":  Utilities,
	"saude":       Health,
	"saúde":       Health,
	"educacao":    Education,
	"educação":    Education,
	"lazer":       Leisure,
	"cartao":      CreditCard,
	"cartão":      CreditCard,
	"card":        CreditCard,
	"emprestimo":  Loan,
	"empréstimo":  Loan,
	"outros":      Other,
}

// ParseCategory resolves a category key, accepting Portuguese aliases.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == key {
			return c, nil
		}
	}
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label returns a title-cased display name.
func (c Category) Label() string {
	s := strings.ReplaceAll(string(c), "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

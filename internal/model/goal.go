package model

import (
	"time"

	"github.com/theirongolddev/fincoach/internal/money"
)

// Goal is a savings target with a calendar deadline.
// Current may exceed Target; over-funding is legal.
type Goal struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Target   money.Money `json:"target_cents"`
	Current  money.Money `json:"current_cents"`
	Deadline time.Time   `json:"deadline"`
	Category string      `json:"category,omitempty"`
}

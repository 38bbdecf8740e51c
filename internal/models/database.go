package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named balance. The name is the account's identity.
type Account struct {
	Name    string          `json:"name" db:"name"`
	Balance decimal.Decimal `json:"balance" db:"balance"`
}

// Transfer is an immutable journal entry written after a committed transfer
type Transfer struct {
	Id       string          `json:"id" db:"id"`
	Giver    string          `json:"giver" db:"giver"`
	Receiver string          `json:"receiver" db:"receiver"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	When     time.Time       `json:"when" db:"created_at"`
}

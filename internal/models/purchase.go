package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an append-only history entry. The credit engine records each
// installment payment as a purchase whose merchant references the credit, so
// loan payments show up in the account history alongside real purchases.
type Purchase struct {
	ID        int64     `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Merchant  string    `json:"merchant"`
	Amount    int64     `json:"amount"`
	IsIgnore  bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

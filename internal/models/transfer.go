package models

import (
	"time"

	"github.com/google/uuid"
)

// Transfer records money sent between two accounts. The debit and the credit
// are two independent single-account operations, not one atomic multi-account
// transaction.
type Transfer struct {
	ID         int64     `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Amount     int64     `json:"amount"`
	IsIgnore   bool      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

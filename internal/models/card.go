package models

import (
	"time"

	"github.com/google/uuid"
)

// Card represents a bank card
type Card struct {
	ID         int64     `json:"id"`
	AccountID  uuid.UUID `json:"account_id"`
	CardNumber string    `json:"card_number"` // Decrypted for response
	ExpiryDate string    `json:"expiry_date"` // Decrypted for response
	CVV        string    `json:"-"`           // Not serialized
	HMAC       string    `json:"hmac"`
	CreatedAt  time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a cash account. Balance is stored in minimal currency
// units and never goes negative: a debit that would overdraw is rejected by
// the repository, not clamped.
type Account struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	PIN       int       `json:"-"` // Not serialized
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

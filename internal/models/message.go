package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is an append-only account-directed notification.
type Message struct {
	ID        int64     `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Content   string    `json:"content"`
	IsIgnore  bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

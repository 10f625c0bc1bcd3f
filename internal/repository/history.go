package repository

import (
	"fmt"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreatePurchase appends a purchase history entry
func (r *Repository) CreatePurchase(purchase *models.Purchase) error {
	query := `
		INSERT INTO bank.purchases (account_id, merchant, amount, is_ignore, created_at)
		VALUES ($1, $2, $3, false, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, purchase.AccountID, purchase.Merchant, purchase.Amount).
		Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// CreateTransfer appends a transfer history entry
func (r *Repository) CreateTransfer(transfer *models.Transfer) error {
	query := `
		INSERT INTO bank.transfers (sender_id, receiver_id, amount, is_ignore, created_at)
		VALUES ($1, $2, $3, false, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, transfer.SenderID, transfer.ReceiverID, transfer.Amount).
		Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// CreateMessage appends an account notification
func (r *Repository) CreateMessage(message *models.Message) error {
	query := `
		INSERT INTO bank.messages (account_id, content, is_ignore, created_at)
		VALUES ($1, $2, false, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, message.AccountID, message.Content).
		Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// FindPurchasesByAccountID returns the account's visible purchases
func (r *Repository) FindPurchasesByAccountID(accountID uuid.UUID) ([]*models.Purchase, error) {
	query := `
		SELECT id, account_id, merchant, amount, is_ignore, created_at
		FROM bank.purchases
		WHERE account_id = $1 AND NOT is_ignore
		ORDER BY created_at`
	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*models.Purchase
	for rows.Next() {
		p := &models.Purchase{}
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Merchant, &p.Amount, &p.IsIgnore, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// FindTransfersByAccountID returns the account's visible transfers, sent and
// received
func (r *Repository) FindTransfersByAccountID(accountID uuid.UUID) ([]*models.Transfer, error) {
	query := `
		SELECT id, sender_id, receiver_id, amount, is_ignore, created_at
		FROM bank.transfers
		WHERE (sender_id = $1 OR receiver_id = $1) AND NOT is_ignore
		ORDER BY created_at`
	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*models.Transfer
	for rows.Next() {
		t := &models.Transfer{}
		if err := rows.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Amount, &t.IsIgnore, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

// FindMessagesByAccountID returns the account's visible messages
func (r *Repository) FindMessagesByAccountID(accountID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, account_id, content, is_ignore, created_at
		FROM bank.messages
		WHERE account_id = $1 AND NOT is_ignore
		ORDER BY created_at`
	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Content, &m.IsIgnore, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// SetPurchasesIgnored hides or shows purchases in the account history
func (r *Repository) SetPurchasesIgnored(accountID uuid.UUID, ids []int64, ignored bool) error {
	query := `
		UPDATE bank.purchases
		SET is_ignore = $3
		WHERE account_id = $1 AND id = ANY($2)`
	if _, err := r.db.Exec(query, accountID, pq.Array(ids), ignored); err != nil {
		return fmt.Errorf("failed to update purchases: %w", err)
	}
	return nil
}

// SetTransfersIgnored hides or shows transfers in the account history
func (r *Repository) SetTransfersIgnored(accountID uuid.UUID, ids []int64, ignored bool) error {
	query := `
		UPDATE bank.transfers
		SET is_ignore = $3
		WHERE (sender_id = $1 OR receiver_id = $1) AND id = ANY($2)`
	if _, err := r.db.Exec(query, accountID, pq.Array(ids), ignored); err != nil {
		return fmt.Errorf("failed to update transfers: %w", err)
	}
	return nil
}

// SetMessagesIgnored hides or shows account messages
func (r *Repository) SetMessagesIgnored(accountID uuid.UUID, ids []int64, ignored bool) error {
	query := `
		UPDATE bank.messages
		SET is_ignore = $3
		WHERE account_id = $1 AND id = ANY($2)`
	if _, err := r.db.Exec(query, accountID, pq.Array(ids), ignored); err != nil {
		return fmt.Errorf("failed to update messages: %w", err)
	}
	return nil
}

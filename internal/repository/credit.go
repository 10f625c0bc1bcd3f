package repository

import (
	"database/sql"
	"fmt"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/google/uuid"
)

const creditColumns = `id, account_id, principal, duration, amount_returned, status, created_at, last_payment_at, closed_at`

// CreateCredit stores a new credit for an account
func (r *Repository) CreateCredit(credit *models.Credit) error {
	query := `
		INSERT INTO bank.credits (account_id, principal, duration, amount_returned, status, created_at, last_payment_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, last_payment_at`
	err := r.db.QueryRow(query, credit.AccountID, credit.Principal, credit.Duration, credit.AmountReturned, credit.Status).
		Scan(&credit.ID, &credit.CreatedAt, &credit.LastPaymentAt)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}
	return nil
}

// UpdateCredit persists the mutable credit fields
func (r *Repository) UpdateCredit(credit *models.Credit) error {
	query := `
		UPDATE bank.credits
		SET amount_returned = $2, status = $3, last_payment_at = $4, closed_at = $5
		WHERE id = $1`
	_, err := r.db.Exec(query, credit.ID, credit.AmountReturned, credit.Status, credit.LastPaymentAt, credit.ClosedAt)
	if err != nil {
		return fmt.Errorf("failed to update credit: %w", err)
	}
	return nil
}

// FindOpenCreditByAccountID retrieves the account's open credit, if any
func (r *Repository) FindOpenCreditByAccountID(accountID uuid.UUID) (*models.Credit, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bank.credits
		WHERE account_id = $1 AND status <> $2`, creditColumns)
	credit, err := r.scanCredit(r.db.QueryRow(query, accountID, models.StatusClosed))
	if err == sql.ErrNoRows {
		return nil, models.ErrCreditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credit: %w", err)
	}
	return credit, nil
}

// FindOpenCredits retrieves every credit that still has debt outstanding
func (r *Repository) FindOpenCredits() ([]*models.Credit, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bank.credits
		WHERE status <> $1
		ORDER BY created_at`, creditColumns)
	rows, err := r.db.Query(query, models.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to list open credits: %w", err)
	}
	defer rows.Close()

	var credits []*models.Credit
	for rows.Next() {
		credit, err := r.scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list open credits: %w", err)
	}
	return credits, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanCredit(row scanner) (*models.Credit, error) {
	credit := &models.Credit{}
	err := row.Scan(
		&credit.ID,
		&credit.AccountID,
		&credit.Principal,
		&credit.Duration,
		&credit.AmountReturned,
		&credit.Status,
		&credit.CreatedAt,
		&credit.LastPaymentAt,
		&credit.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return credit, nil
}

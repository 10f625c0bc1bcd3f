package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for duplicate keys
const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO bank.users (id, email, first_name, last_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING created_at`
	user.ID = uuid.New()
	err := r.db.QueryRow(query, user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash).
		Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return models.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at
		FROM bank.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByAccountID retrieves the owner of the given account
func (r *Repository) FindUserByAccountID(accountID uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.created_at
		FROM bank.users u
		JOIN bank.accounts a ON a.user_id = u.id
		WHERE a.id = $1`
	err := r.db.QueryRow(query, accountID).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account owner: %w", err)
	}
	return user, nil
}

// CreateAccount creates a new cash account in the database
func (r *Repository) CreateAccount(account *models.Account) error {
	query := `
		INSERT INTO bank.accounts (id, user_id, balance, pin, is_blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING created_at`
	account.ID = uuid.New()
	err := r.db.QueryRow(query, account.ID, account.UserID, account.Balance, account.PIN, account.Blocked).
		Scan(&account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindAccountByID retrieves an account by id
func (r *Repository) FindAccountByID(id uuid.UUID) (*models.Account, error) {
	return r.findAccount("id", id)
}

// FindAccountByUserID retrieves the account owned by the given user
func (r *Repository) FindAccountByUserID(userID uuid.UUID) (*models.Account, error) {
	return r.findAccount("user_id", userID)
}

func (r *Repository) findAccount(column string, key uuid.UUID) (*models.Account, error) {
	account := &models.Account{}
	query := fmt.Sprintf(`
		SELECT id, user_id, balance, pin, is_blocked, created_at
		FROM bank.accounts
		WHERE %s = $1`, column)
	err := r.db.QueryRow(query, key).
		Scan(&account.ID, &account.UserID, &account.Balance, &account.PIN, &account.Blocked, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// WithdrawBalance debits the account if and only if the balance covers the
// amount. The conditional update makes the read-check-write a single atomic
// statement, so concurrent debits of one account cannot double-spend.
func (r *Repository) WithdrawBalance(accountID uuid.UUID, amount int64) (bool, error) {
	query := `
		UPDATE bank.accounts
		SET balance = balance - $2
		WHERE id = $1 AND balance >= $2`
	res, err := r.db.Exec(query, accountID, amount)
	if err != nil {
		return false, fmt.Errorf("failed to withdraw: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to withdraw: %w", err)
	}
	return n == 1, nil
}

// DepositBalance credits the account unconditionally
func (r *Repository) DepositBalance(accountID uuid.UUID, amount int64) error {
	query := `
		UPDATE bank.accounts
		SET balance = balance + $2
		WHERE id = $1`
	res, err := r.db.Exec(query, accountID, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// UpdateAccountPin sets a new PIN code on the account
func (r *Repository) UpdateAccountPin(accountID uuid.UUID, pin int) error {
	query := `UPDATE bank.accounts SET pin = $2 WHERE id = $1`
	if _, err := r.db.Exec(query, accountID, pin); err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	return nil
}

// SetAccountBlocked sets the blocked flag on the account
func (r *Repository) SetAccountBlocked(accountID uuid.UUID, blocked bool) error {
	query := `UPDATE bank.accounts SET is_blocked = $2 WHERE id = $1`
	if _, err := r.db.Exec(query, accountID, blocked); err != nil {
		return fmt.Errorf("failed to update blocked flag: %w", err)
	}
	return nil
}

// CreateCard stores a card with encrypted number and expiry
func (r *Repository) CreateCard(card *models.Card) error {
	query := `
		INSERT INTO bank.cards (account_id, card_number, expiry_date, cvv, hmac, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, card.AccountID, card.CardNumber, card.ExpiryDate, card.CVV, card.HMAC).
		Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

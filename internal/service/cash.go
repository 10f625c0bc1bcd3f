package service

import (
	"context"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/google/uuid"
)

// HasSufficientFunds reports whether the account balance covers amount.
// Pure predicate, no side effect.
func HasSufficientFunds(amount int64, account *models.Account) bool {
	return amount <= account.Balance
}

// Withdraw debits the account if the balance covers the amount. Insufficient
// funds is an expected outcome, reported as false, not an error. The
// repository performs the check-and-debit atomically.
func (s *Service) Withdraw(amount int64, accountID uuid.UUID) (bool, error) {
	return s.repo.WithdrawBalance(accountID, amount)
}

// Deposit credits the account. Always succeeds for an existing account.
func (s *Service) Deposit(amount int64, accountID uuid.UUID) error {
	return s.repo.DepositBalance(accountID, amount)
}

// Purchase withdraws money for a purchase and records it in the account
// history. Blocked accounts cannot purchase until their credit debt is
// settled.
func (s *Service) Purchase(ctx context.Context, pin int, amount int64, merchant string) (*models.Purchase, error) {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if account.Blocked {
		return nil, models.ErrAccountBlocked
	}
	if pin != account.PIN {
		return nil, models.ErrInvalidPin
	}
	if amount < 1 {
		return nil, models.ErrInvalidAmount
	}

	ok, err := s.Withdraw(amount, account.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrInsufficientFunds
	}

	purchase := &models.Purchase{
		AccountID: account.ID,
		Merchant:  merchant,
		Amount:    amount,
	}
	if err := s.repo.CreatePurchase(purchase); err != nil {
		return nil, err
	}

	s.log.Infof("Purchase of %d at %q from account %s", amount, merchant, account.ID)
	return purchase, nil
}

// Transfer moves money from the authenticated account to another. The debit
// and the credit are two independent single-account operations; no
// cross-account atomicity is attempted.
func (s *Service) Transfer(ctx context.Context, pin int, receiverID uuid.UUID, amount int64) (*models.Transfer, error) {
	sender, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if sender.Blocked {
		return nil, models.ErrAccountBlocked
	}
	if pin != sender.PIN {
		return nil, models.ErrInvalidPin
	}
	if amount < 1 {
		return nil, models.ErrInvalidAmount
	}
	if sender.ID == receiverID {
		return nil, models.ErrSelfTransfer
	}

	receiver, err := s.repo.FindAccountByID(receiverID)
	if err != nil {
		return nil, err
	}

	ok, err := s.Withdraw(amount, sender.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrInsufficientFunds
	}
	if err := s.Deposit(amount, receiver.ID); err != nil {
		return nil, err
	}

	transfer := &models.Transfer{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     amount,
	}
	if err := s.repo.CreateTransfer(transfer); err != nil {
		return nil, err
	}

	s.log.Infof("Transfer of %d from %s to %s", amount, sender.ID, receiver.ID)
	return transfer, nil
}

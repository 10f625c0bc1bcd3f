package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/google/uuid"
)

// CreateLoan issues a credit to the authenticated user's account and
// immediately deposits the principal. An account holds at most one open
// credit at a time.
func (s *Service) CreateLoan(ctx context.Context, principal int64, duration int) (*models.Credit, error) {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if principal < models.MinLoanAmount {
		return nil, models.ErrInvalidLoanAmount
	}
	if !models.ValidDuration(duration) {
		return nil, models.ErrInvalidDuration
	}
	if _, err := s.repo.FindOpenCreditByAccountID(account.ID); err == nil {
		return nil, models.ErrDuplicateLoan
	} else if err != models.ErrCreditNotFound {
		return nil, err
	}

	credit := &models.Credit{
		AccountID: account.ID,
		Principal: principal,
		Duration:  duration,
		Status:    models.StatusNormal,
	}
	if err := s.repo.CreateCredit(credit); err != nil {
		return nil, err
	}
	if err := s.Deposit(principal, account.ID); err != nil {
		return nil, err
	}
	s.message(account.ID, fmt.Sprintf("A credit of %d for %d periods has been issued, the principal has been credited to your account", principal, duration))

	s.log.Infof("Credit %d issued to account %s: %d over %d periods", credit.ID, account.ID, principal, duration)
	return credit, nil
}

// GetCredit returns the authenticated user's open credit
func (s *Service) GetCredit(ctx context.Context) (*models.Credit, error) {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindOpenCreditByAccountID(account.ID)
}

// TryClose closes the credit when the returned amount matches the total debt
// exactly. The installment cap in the model guarantees repayments land on
// the boundary, so equality is the correct test.
func (s *Service) TryClose(credit *models.Credit) (bool, error) {
	if !credit.Open() || credit.AmountReturned != credit.TotalOwed() {
		return false, nil
	}
	now := time.Now()
	credit.Status = models.StatusClosed
	credit.ClosedAt = &now
	if err := s.repo.UpdateCredit(credit); err != nil {
		return false, err
	}
	s.message(credit.AccountID, fmt.Sprintf("The credit with the identifier \"%d\" has been fully repaid", credit.ID))
	s.log.Infof("Credit %d fully repaid and closed", credit.ID)
	return true, nil
}

// PayInstallment withdraws money for part of the credit. The amount is
// clamped to the remaining debt. On success the payment is recorded in the
// purchase history, any account block is lifted, and the credit is closed if
// fully repaid. Insufficient funds leaves everything untouched and returns
// false.
func (s *Service) PayInstallment(credit *models.Credit, amount int64) (bool, error) {
	if !credit.Open() {
		return false, nil
	}
	if remaining := credit.RemainingOwed(); amount > remaining {
		amount = remaining
	}

	// System-initiated debit: goes straight to the ledger, bypassing the
	// blocked-account gate. Paying the debt is how a block is lifted.
	ok, err := s.Withdraw(amount, credit.AccountID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	credit.AmountReturned += amount
	credit.LastPaymentAt = time.Now()
	if credit.Status == models.StatusBlocked {
		// The block is lifted but the escalated rate stays for the life
		// of the loan.
		credit.Status = models.StatusEscalated
	}
	if err := s.repo.UpdateCredit(credit); err != nil {
		return false, err
	}

	purchase := &models.Purchase{
		AccountID: credit.AccountID,
		Merchant:  fmt.Sprintf("Credit | PK: %d", credit.ID),
		Amount:    amount,
	}
	if err := s.repo.CreatePurchase(purchase); err != nil {
		return false, err
	}
	if err := s.repo.SetAccountBlocked(credit.AccountID, false); err != nil {
		return false, err
	}
	s.message(credit.AccountID, "Your account has been debited for part of the credit")
	s.notifyDebited(credit, amount)

	if _, err := s.TryClose(credit); err != nil {
		return false, err
	}
	return true, nil
}

// CheckDueInstallment attempts the payment that is due on the credit. A
// blocked account owes the full remaining debt, not a single installment.
// A failed attempt escalates the rate on the first miss and blocks the
// account on the second; both are expected outcomes, not errors.
func (s *Service) CheckDueInstallment(credit *models.Credit) (bool, error) {
	var amount int64
	if credit.Status == models.StatusBlocked {
		amount = credit.RemainingOwed()
	} else {
		amount = credit.InstallmentAmount()
	}

	paid, err := s.PayInstallment(credit, amount)
	if err != nil {
		return false, err
	}
	if paid {
		return true, nil
	}

	if !credit.RateIncreased() {
		credit.Status = models.StatusEscalated
		if err := s.repo.UpdateCredit(credit); err != nil {
			return false, err
		}
		s.message(credit.AccountID, fmt.Sprintf("Due to non-payment of the credit, the interest rate was increased for the credit with the identifier \"%d\"", credit.ID))
		s.notifyEscalated(credit)
		s.log.Infof("Credit %d: rate escalated after missed installment", credit.ID)
	} else if credit.Status != models.StatusBlocked {
		credit.Status = models.StatusBlocked
		if err := s.repo.UpdateCredit(credit); err != nil {
			return false, err
		}
		if err := s.repo.SetAccountBlocked(credit.AccountID, true); err != nil {
			return false, err
		}
		remaining := credit.RemainingOwed()
		s.message(credit.AccountID, fmt.Sprintf("Your account is blocked due to non-payment of the credit. To unlock the account, you need to invest the amount ( %d ), after withdrawing the money, the account will be unlocked", remaining))
		s.notifyBlocked(credit, remaining)
		s.log.Infof("Credit %d: account %s blocked, %d outstanding", credit.ID, credit.AccountID, remaining)
	}
	return false, nil
}

// ScanDueCredits walks every open credit and runs the due check on those
// past their deadline. One credit failing is logged and skipped; the scan
// only aborts when the storage itself is unreachable.
func (s *Service) ScanDueCredits() error {
	credits, err := s.repo.FindOpenCredits()
	if err != nil {
		return fmt.Errorf("failed to load open credits: %w", err)
	}

	unit := models.UnitPeriod(s.config.CreditUnit)
	now := time.Now()
	for _, credit := range credits {
		if !credit.NextPaymentDue(unit).Before(now) {
			continue
		}
		if _, err := s.CheckDueInstallment(credit); err != nil {
			s.log.Errorf("Credit %d: due check failed: %v", credit.ID, err)
		}
	}
	return nil
}

// message persists an account notification. Notification failures are logged
// and swallowed: they must never roll back the money movement they describe.
func (s *Service) message(accountID uuid.UUID, content string) {
	msg := &models.Message{AccountID: accountID, Content: content}
	if err := s.repo.CreateMessage(msg); err != nil {
		s.log.Errorf("Failed to create message for account %s: %v", msg.AccountID, err)
	}
}

func (s *Service) notifyDebited(credit *models.Credit, amount int64) {
	if s.notifier == nil {
		return
	}
	user, err := s.repo.FindUserByAccountID(credit.AccountID)
	if err != nil {
		s.log.Errorf("Failed to resolve owner of account %s: %v", credit.AccountID, err)
		return
	}
	if err := s.notifier.SendCreditDebited(user.Email, user.FullName(), credit.ID, amount); err != nil {
		s.log.Errorf("Failed to send debit notice for credit %d: %v", credit.ID, err)
	}
}

func (s *Service) notifyEscalated(credit *models.Credit) {
	if s.notifier == nil {
		return
	}
	user, err := s.repo.FindUserByAccountID(credit.AccountID)
	if err != nil {
		s.log.Errorf("Failed to resolve owner of account %s: %v", credit.AccountID, err)
		return
	}
	if err := s.notifier.SendCreditEscalated(user.Email, user.FullName(), credit.ID); err != nil {
		s.log.Errorf("Failed to send escalation notice for credit %d: %v", credit.ID, err)
	}
}

func (s *Service) notifyBlocked(credit *models.Credit, remaining int64) {
	if s.notifier == nil {
		return
	}
	user, err := s.repo.FindUserByAccountID(credit.AccountID)
	if err != nil {
		s.log.Errorf("Failed to resolve owner of account %s: %v", credit.AccountID, err)
		return
	}
	if err := s.notifier.SendCreditBlocked(user.Email, user.FullName(), credit.ID, remaining); err != nil {
		s.log.Errorf("Failed to send block notice for credit %d: %v", credit.ID, err)
	}
}

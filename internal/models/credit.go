package models

import (
	"time"

	"github.com/google/uuid"
)

// CreditStatus is the single lifecycle state of a credit. The escalation
// states double as the rate flag: the surcharge is 2% whenever the status is
// escalated or blocked, and it never drops back to 1% once raised, so a
// blocked account that pays part of its debt lands in StatusEscalated.
type CreditStatus string

const (
	StatusNormal    CreditStatus = "normal"
	StatusEscalated CreditStatus = "escalated"
	StatusBlocked   CreditStatus = "blocked"
	StatusClosed    CreditStatus = "closed"
)

// LoanDurations are the allowed credit terms, in unit periods.
var LoanDurations = []int{3, 6, 12}

// MinLoanAmount is the smallest principal a credit may be issued for.
const MinLoanAmount = 1000

// Credit represents an installment credit, at most one open per account.
//
// Loan rules:
//   - a loan runs for 3, 6 or 12 unit periods;
//   - the principal cannot be less than 1000;
//   - a flat 1% surcharge on the principal is owed on top of it;
//   - a missed installment doubles the surcharge to 2% for the rest of
//     the loan;
//   - a second consecutive missed installment blocks the account, and the
//     block is lifted only by a payment (a blocked account is charged the
//     full remaining debt, not a single installment).
//
// There is no stored schedule: due dates are recomputed from AmountReturned,
// so a partial payment shifts future due dates. That is the product rule as
// shipped, odd as it looks.
type Credit struct {
	ID             int64        `json:"id"`
	AccountID      uuid.UUID    `json:"account_id"`
	Principal      int64        `json:"principal"`
	Duration       int          `json:"duration"`
	AmountReturned int64        `json:"amount_returned"`
	Status         CreditStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	LastPaymentAt  time.Time    `json:"last_payment_at"`
	ClosedAt       *time.Time   `json:"closed_at,omitempty"`
}

// Open reports whether the credit still has debt outstanding.
func (c *Credit) Open() bool {
	return c.Status != StatusClosed
}

// RateIncreased reports whether the surcharge has been escalated.
func (c *Credit) RateIncreased() bool {
	return c.Status == StatusEscalated || c.Status == StatusBlocked
}

// SurchargePercent returns the flat surcharge rate applied to the principal.
func (c *Credit) SurchargePercent() int64 {
	if c.RateIncreased() {
		return 2
	}
	return 1
}

// TotalOwed returns the principal plus the surcharge.
func (c *Credit) TotalOwed() int64 {
	return c.Principal + c.Principal*c.SurchargePercent()/100
}

// RemainingOwed returns the amount still needed to fully repay the credit.
func (c *Credit) RemainingOwed() int64 {
	return c.TotalOwed() - c.AmountReturned
}

// InstallmentAmount returns the next installment, capped at the remaining
// debt so the final payment never overpays. The cap is what guarantees
// AmountReturned can reach TotalOwed exactly. The nominal part rounds up:
// rounding down would leave more parts than the loan duration and push
// InstallmentsPaid negative.
func (c *Credit) InstallmentAmount() int64 {
	part := (c.TotalOwed() + int64(c.Duration) - 1) / int64(c.Duration)
	if remaining := c.RemainingOwed(); remaining < part {
		return remaining
	}
	return part
}

// InstallmentsRemaining returns how many installments are left.
func (c *Credit) InstallmentsRemaining() int {
	part := c.InstallmentAmount()
	if part <= 0 {
		return 0
	}
	remaining := c.RemainingOwed()
	return int((remaining + part - 1) / part)
}

// InstallmentsPaid returns how many installments have been covered.
func (c *Credit) InstallmentsPaid() int {
	return c.Duration - c.InstallmentsRemaining()
}

// NextPaymentDue returns the deadline for the next installment. The schedule
// advances one unit period per paid installment, plus one extra period once
// the rate has been escalated.
func (c *Credit) NextPaymentDue(unit UnitPeriod) time.Time {
	periods := c.InstallmentsPaid() + 1
	if c.RateIncreased() {
		periods++
	}
	return unit.Add(c.CreatedAt, periods)
}

// UnitPeriod is the globally configured calendar unit spacing installments.
type UnitPeriod string

const (
	UnitMonth  UnitPeriod = "month"
	UnitDay    UnitPeriod = "day"
	UnitHour   UnitPeriod = "hour"
	UnitMinute UnitPeriod = "minute"
)

// Add advances t by n unit periods. Unknown units fall back to months.
func (u UnitPeriod) Add(t time.Time, n int) time.Time {
	switch u {
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case UnitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	default:
		return t.AddDate(0, n, 0)
	}
}

// ValidDuration reports whether d is an allowed loan term.
func ValidDuration(d int) bool {
	for _, v := range LoanDurations {
		if v == d {
			return true
		}
	}
	return false
}

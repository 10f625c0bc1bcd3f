package models

import "errors"

var (
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountBlocked    = errors.New("account is blocked")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPin        = errors.New("incorrect PIN code")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to own account")
	ErrCreditNotFound    = errors.New("credit not found")
	ErrDuplicateLoan     = errors.New("account already has an open credit")
	ErrInvalidLoanAmount = errors.New("loan amount cannot be less than 1000")
	ErrInvalidDuration   = errors.New("loan duration must be 3, 6 or 12")
)

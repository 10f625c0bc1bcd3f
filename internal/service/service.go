package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AlibabaClubCorporation/bank-app/internal/config"
	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/AlibabaClubCorporation/bank-app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the storage surface the service needs. The Postgres
// implementation lives in internal/repository; tests use an in-memory fake.
type Repository interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByAccountID(accountID uuid.UUID) (*models.User, error)

	CreateAccount(account *models.Account) error
	FindAccountByID(id uuid.UUID) (*models.Account, error)
	FindAccountByUserID(userID uuid.UUID) (*models.Account, error)
	WithdrawBalance(accountID uuid.UUID, amount int64) (bool, error)
	DepositBalance(accountID uuid.UUID, amount int64) error
	UpdateAccountPin(accountID uuid.UUID, pin int) error
	SetAccountBlocked(accountID uuid.UUID, blocked bool) error

	CreateCard(card *models.Card) error

	CreateCredit(credit *models.Credit) error
	UpdateCredit(credit *models.Credit) error
	FindOpenCreditByAccountID(accountID uuid.UUID) (*models.Credit, error)
	FindOpenCredits() ([]*models.Credit, error)

	CreatePurchase(purchase *models.Purchase) error
	CreateTransfer(transfer *models.Transfer) error
	CreateMessage(message *models.Message) error
	FindPurchasesByAccountID(accountID uuid.UUID) ([]*models.Purchase, error)
	FindTransfersByAccountID(accountID uuid.UUID) ([]*models.Transfer, error)
	FindMessagesByAccountID(accountID uuid.UUID) ([]*models.Message, error)
	SetPurchasesIgnored(accountID uuid.UUID, ids []int64, ignored bool) error
	SetTransfersIgnored(accountID uuid.UUID, ids []int64, ignored bool) error
	SetMessagesIgnored(accountID uuid.UUID, ids []int64, ignored bool) error
}

// CreditNotifier mirrors credit notifications out of band (email). A nil
// notifier disables mirroring; the persisted messages are the system of
// record either way.
type CreditNotifier interface {
	SendCreditDebited(to, name string, creditID, amount int64) error
	SendCreditEscalated(to, name string, creditID int64) error
	SendCreditBlocked(to, name string, creditID, remaining int64) error
}

// Service handles business logic
type Service struct {
	repo     Repository
	log      *logrus.Logger
	config   *config.Config
	notifier CreditNotifier
}

// NewService initializes a new service
func NewService(repo Repository, log *logrus.Logger, cfg *config.Config, notifier CreditNotifier) *Service {
	return &Service{repo: repo, log: log, config: cfg, notifier: notifier}
}

// Register creates a new user with hashed password
func (s *Service) Register(email, password, firstName, lastName string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreateAccount creates the cash account for the authenticated user. Each
// user holds exactly one.
func (s *Service) CreateAccount(ctx context.Context) (*models.Account, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindAccountByUserID(userID); err == nil {
		return nil, models.ErrAccountExists
	} else if err != models.ErrAccountNotFound {
		return nil, err
	}

	account := &models.Account{
		UserID: userID,
		PIN:    utils.GeneratePIN(),
	}
	if err := s.repo.CreateAccount(account); err != nil {
		return nil, err
	}

	s.log.Infof("Account created for user %s", userID)
	return account, nil
}

// AccountHistory bundles the account with its visible history entries.
type AccountHistory struct {
	Account   *models.Account    `json:"account"`
	Purchases []*models.Purchase `json:"purchases"`
	Transfers []*models.Transfer `json:"transfers"`
}

// GetAccount returns the authenticated user's account and history
func (s *Service) GetAccount(ctx context.Context) (*AccountHistory, error) {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.repo.FindPurchasesByAccountID(account.ID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.repo.FindTransfersByAccountID(account.ID)
	if err != nil {
		return nil, err
	}
	return &AccountHistory{Account: account, Purchases: purchases, Transfers: transfers}, nil
}

// UpdatePin changes the account PIN after validating the old one
func (s *Service) UpdatePin(ctx context.Context, oldPin, newPin int) error {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return err
	}
	if oldPin != account.PIN {
		return models.ErrInvalidPin
	}
	if newPin < 1000 || newPin > 9999 {
		return models.ErrInvalidPin
	}
	if err := s.repo.UpdateAccountPin(account.ID, newPin); err != nil {
		return err
	}
	s.log.Infof("PIN updated for account %s", account.ID)
	return nil
}

// GetMessages returns the account's visible notifications
func (s *Service) GetMessages(ctx context.Context) ([]*models.Message, error) {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindMessagesByAccountID(account.ID)
}

// SetHistoryIgnored hides or shows history entries of the given kind
func (s *Service) SetHistoryIgnored(ctx context.Context, kind string, ids []int64, ignored bool) error {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return err
	}
	switch kind {
	case "purchases":
		return s.repo.SetPurchasesIgnored(account.ID, ids, ignored)
	case "transfers":
		return s.repo.SetTransfersIgnored(account.ID, ids, ignored)
	case "messages":
		return s.repo.SetMessagesIgnored(account.ID, ids, ignored)
	default:
		return fmt.Errorf("unknown history kind %q", kind)
	}
}

// CreateCard issues a virtual card for the authenticated user's account
func (s *Service) CreateCard(ctx context.Context) (*models.Card, error) {
	account, err := s.accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	cardNumber, err := utils.GenerateCardNumber("400000", 16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}
	expiryDate := utils.GenerateExpiryDate()
	cvv, err := utils.GenerateCVV()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cvv: %w", err)
	}

	encryptedCardNumber, err := utils.Encrypt(cardNumber, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt card number: %w", err)
	}
	encryptedExpiryDate, err := utils.Encrypt(expiryDate, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt expiry date: %w", err)
	}
	cvvHash, err := bcrypt.GenerateFromPassword([]byte(cvv), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash CVV: %w", err)
	}

	card := &models.Card{
		AccountID:  account.ID,
		CardNumber: encryptedCardNumber,
		ExpiryDate: encryptedExpiryDate,
		CVV:        string(cvvHash),
		HMAC:       utils.GenerateHMAC(cardNumber, expiryDate, cvv, s.config.HMACSecret),
	}
	if err := s.repo.CreateCard(card); err != nil {
		return nil, err
	}

	// Return card with decrypted fields for response
	card.CardNumber = cardNumber
	card.ExpiryDate = expiryDate
	s.log.Infof("Card created for account %s", account.ID)
	return card, nil
}

func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

func (s *Service) accountFromContext(ctx context.Context) (*models.Account, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAccountByUserID(userID)
}

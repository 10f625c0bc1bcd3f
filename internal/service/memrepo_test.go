package service

import (
	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/google/uuid"
)

// memRepo is an in-memory Repository for tests. Lookups return copies, like
// rows scanned from a database, and updates write back by id.
type memRepo struct {
	users        map[uuid.UUID]*models.User
	accounts     map[uuid.UUID]*models.Account
	credits      map[int64]*models.Credit
	purchases    []*models.Purchase
	transfers    []*models.Transfer
	messages     []*models.Message
	cards        []*models.Card
	nextCreditID int64

	// updateCreditErr makes UpdateCredit fail for the given credit ids
	updateCreditErr map[int64]error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:           make(map[uuid.UUID]*models.User),
		accounts:        make(map[uuid.UUID]*models.Account),
		credits:         make(map[int64]*models.Credit),
		updateCreditErr: make(map[int64]error),
	}
}

func (m *memRepo) seedAccount(balance int64, pin int) *models.Account {
	user := &models.User{ID: uuid.New(), Email: "user@example.com", FirstName: "Test", LastName: "User"}
	m.users[user.ID] = user
	account := &models.Account{ID: uuid.New(), UserID: user.ID, Balance: balance, PIN: pin}
	m.accounts[account.ID] = account
	return copyAccount(account)
}

func (m *memRepo) seedCredit(c *models.Credit) *models.Credit {
	m.nextCreditID++
	c.ID = m.nextCreditID
	cp := *c
	m.credits[c.ID] = &cp
	return c
}

func copyAccount(a *models.Account) *models.Account {
	cp := *a
	return &cp
}

func (m *memRepo) CreateUser(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *memRepo) FindUserByAccountID(accountID uuid.UUID) (*models.User, error) {
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	u, ok := m.users[a.UserID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) CreateAccount(account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	m.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *memRepo) FindAccountByID(id uuid.UUID) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

func (m *memRepo) FindAccountByUserID(userID uuid.UUID) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.UserID == userID {
			return copyAccount(a), nil
		}
	}
	return nil, models.ErrAccountNotFound
}

func (m *memRepo) WithdrawBalance(accountID uuid.UUID, amount int64) (bool, error) {
	a, ok := m.accounts[accountID]
	if !ok {
		return false, models.ErrAccountNotFound
	}
	if a.Balance < amount {
		return false, nil
	}
	a.Balance -= amount
	return true, nil
}

func (m *memRepo) DepositBalance(accountID uuid.UUID, amount int64) error {
	a, ok := m.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.Balance += amount
	return nil
}

func (m *memRepo) UpdateAccountPin(accountID uuid.UUID, pin int) error {
	a, ok := m.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.PIN = pin
	return nil
}

func (m *memRepo) SetAccountBlocked(accountID uuid.UUID, blocked bool) error {
	a, ok := m.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.Blocked = blocked
	return nil
}

func (m *memRepo) CreateCard(card *models.Card) error {
	card.ID = int64(len(m.cards) + 1)
	cp := *card
	m.cards = append(m.cards, &cp)
	return nil
}

func (m *memRepo) CreateCredit(credit *models.Credit) error {
	m.nextCreditID++
	credit.ID = m.nextCreditID
	cp := *credit
	m.credits[credit.ID] = &cp
	return nil
}

func (m *memRepo) UpdateCredit(credit *models.Credit) error {
	if err := m.updateCreditErr[credit.ID]; err != nil {
		return err
	}
	if _, ok := m.credits[credit.ID]; !ok {
		return models.ErrCreditNotFound
	}
	cp := *credit
	m.credits[credit.ID] = &cp
	return nil
}

func (m *memRepo) FindOpenCreditByAccountID(accountID uuid.UUID) (*models.Credit, error) {
	for _, c := range m.credits {
		if c.AccountID == accountID && c.Open() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrCreditNotFound
}

func (m *memRepo) FindOpenCredits() ([]*models.Credit, error) {
	var out []*models.Credit
	for i := int64(1); i <= m.nextCreditID; i++ {
		if c, ok := m.credits[i]; ok && c.Open() {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) CreatePurchase(purchase *models.Purchase) error {
	purchase.ID = int64(len(m.purchases) + 1)
	cp := *purchase
	m.purchases = append(m.purchases, &cp)
	return nil
}

func (m *memRepo) CreateTransfer(transfer *models.Transfer) error {
	transfer.ID = int64(len(m.transfers) + 1)
	cp := *transfer
	m.transfers = append(m.transfers, &cp)
	return nil
}

func (m *memRepo) CreateMessage(message *models.Message) error {
	message.ID = int64(len(m.messages) + 1)
	cp := *message
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memRepo) FindPurchasesByAccountID(accountID uuid.UUID) ([]*models.Purchase, error) {
	var out []*models.Purchase
	for _, p := range m.purchases {
		if p.AccountID == accountID && !p.IsIgnore {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) FindTransfersByAccountID(accountID uuid.UUID) ([]*models.Transfer, error) {
	var out []*models.Transfer
	for _, t := range m.transfers {
		if (t.SenderID == accountID || t.ReceiverID == accountID) && !t.IsIgnore {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) FindMessagesByAccountID(accountID uuid.UUID) ([]*models.Message, error) {
	var out []*models.Message
	for _, msg := range m.messages {
		if msg.AccountID == accountID && !msg.IsIgnore {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) SetPurchasesIgnored(accountID uuid.UUID, ids []int64, ignored bool) error {
	for _, p := range m.purchases {
		if p.AccountID == accountID && containsID(ids, p.ID) {
			p.IsIgnore = ignored
		}
	}
	return nil
}

func (m *memRepo) SetTransfersIgnored(accountID uuid.UUID, ids []int64, ignored bool) error {
	for _, t := range m.transfers {
		if (t.SenderID == accountID || t.ReceiverID == accountID) && containsID(ids, t.ID) {
			t.IsIgnore = ignored
		}
	}
	return nil
}

func (m *memRepo) SetMessagesIgnored(accountID uuid.UUID, ids []int64, ignored bool) error {
	for _, msg := range m.messages {
		if msg.AccountID == accountID && containsID(ids, msg.ID) {
			msg.IsIgnore = ignored
		}
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

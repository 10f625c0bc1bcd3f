package service

import (
	"errors"
	"testing"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/AlibabaClubCorporation/bank-app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	user, err := svc.Register("oleg@example.com", "123456", "Oleg", "Zdorov")
	if err != nil {
		t.Fatal(err)
	}
	if user.PasswordHash == "123456" {
		t.Fatal("password stored in plain text")
	}
	if user.FullName() != "Oleg Zdorov" {
		t.Fatalf("full name=%q", user.FullName())
	}

	if _, err := svc.Login("oleg@example.com", "wrong"); err == nil {
		t.Fatal("wrong password should fail")
	}
	if _, err := svc.Login("nobody@example.com", "123456"); err == nil {
		t.Fatal("unknown email should fail")
	}

	tokenString, err := svc.Login("oleg@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims := token.Claims.(*jwt.RegisteredClaims); claims.Subject != user.ID.String() {
		t.Fatalf("subject=%q want=%q", claims.Subject, user.ID)
	}
}

func TestCreateAccount(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	user, err := svc.Register("oleg@example.com", "123456", "Oleg", "Zdorov")
	if err != nil {
		t.Fatal(err)
	}
	ctx := ctxFor(t, repo, &models.Account{UserID: user.ID})

	account, err := svc.CreateAccount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if account.Balance != 0 {
		t.Fatalf("fresh account balance=%d want=0", account.Balance)
	}
	if account.PIN < 1000 || account.PIN > 9999 {
		t.Fatalf("pin %d outside [1000, 9999]", account.PIN)
	}

	if _, err := svc.CreateAccount(ctx); !errors.Is(err, models.ErrAccountExists) {
		t.Fatalf("want ErrAccountExists, got %v", err)
	}
}

func TestUpdatePin(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	account := repo.seedAccount(0, 1234)
	ctx := ctxFor(t, repo, account)

	if err := svc.UpdatePin(ctx, 1111, 4321); !errors.Is(err, models.ErrInvalidPin) {
		t.Fatalf("wrong old pin: want ErrInvalidPin, got %v", err)
	}
	if err := svc.UpdatePin(ctx, 1234, 123); !errors.Is(err, models.ErrInvalidPin) {
		t.Fatalf("out-of-range new pin: want ErrInvalidPin, got %v", err)
	}
	if err := svc.UpdatePin(ctx, 1234, 4321); err != nil {
		t.Fatal(err)
	}
	if got := repo.accounts[account.ID].PIN; got != 4321 {
		t.Fatalf("pin=%d want=4321", got)
	}
}

func TestAccountHistoryIgnore(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	account := repo.seedAccount(1000, 1234)
	ctx := ctxFor(t, repo, account)

	purchase, err := svc.Purchase(ctx, 1234, 100, "shop")
	if err != nil {
		t.Fatal(err)
	}

	history, err := svc.GetAccount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Purchases) != 1 {
		t.Fatalf("purchases=%d want=1", len(history.Purchases))
	}

	if err := svc.SetHistoryIgnored(ctx, "purchases", []int64{purchase.ID}, true); err != nil {
		t.Fatal(err)
	}
	history, err = svc.GetAccount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Purchases) != 0 {
		t.Fatalf("ignored purchase still visible: %+v", history.Purchases)
	}

	if err := svc.SetHistoryIgnored(ctx, "receipts", nil, true); err == nil {
		t.Fatal("unknown history kind should fail")
	}
}

func TestCreateCard(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	account := repo.seedAccount(0, 1234)
	ctx := ctxFor(t, repo, account)

	card, err := svc.CreateCard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !utils.ValidLuhn(card.CardNumber) {
		t.Fatalf("card number fails Luhn check: %s", card.CardNumber)
	}
	if len(repo.cards) != 1 {
		t.Fatalf("cards stored=%d want=1", len(repo.cards))
	}
	// The stored number is encrypted, the response carries the plain one.
	if repo.cards[0].CardNumber == card.CardNumber {
		t.Fatal("card number stored unencrypted")
	}
}

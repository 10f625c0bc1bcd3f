package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlibabaClubCorporation/bank-app/internal/models"
	"github.com/AlibabaClubCorporation/bank-app/internal/service"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateAccount handles cash account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.CreateAccount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// The PIN is shown exactly once, at creation time
	writeJSON(w, http.StatusCreated, struct {
		*models.Account
		PIN int `json:"pin"`
	}{account, account.PIN})
}

// GetAccount returns the account with its visible history
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.GetAccount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// UpdatePin changes the account PIN
func (h *Handler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPin int `json:"old_pin"`
		NewPin int `json:"new_pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.UpdatePin(r.Context(), req.OldPin, req.NewPin); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateCard issues a virtual card
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.CreateCard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// CreatePurchase handles a purchase
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin      int    `json:"pin"`
		Amount   int64  `json:"amount"`
		Merchant string `json:"merchant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	purchase, err := h.svc.Purchase(r.Context(), req.Pin, req.Amount, req.Merchant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

// CreateTransfer handles a peer transfer
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin      int    `json:"pin"`
		Amount   int64  `json:"amount"`
		Receiver string `json:"receiver"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	receiverID, err := uuid.Parse(req.Receiver)
	if err != nil {
		http.Error(w, "Invalid receiver account id", http.StatusBadRequest)
		return
	}

	transfer, err := h.svc.Transfer(r.Context(), req.Pin, receiverID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transfer)
}

// CreateCredit handles a loan request
func (h *Handler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   int64 `json:"amount"`
		Duration int   `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	credit, err := h.svc.CreateLoan(r.Context(), req.Amount, req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, credit)
}

// GetCredit returns the open credit of the account
func (h *Handler) GetCredit(w http.ResponseWriter, r *http.Request) {
	credit, err := h.svc.GetCredit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, credit)
}

// GetMessages returns the account's notifications
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.GetMessages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SetHistoryIgnored hides or shows history entries
func (h *Handler) SetHistoryIgnored(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    string  `json:"kind"`
		IDs     []int64 `json:"ids"`
		Ignored bool    `json:"ignored"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetHistoryIgnored(r.Context(), req.Kind, req.IDs, req.Ignored); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidLoanAmount),
		errors.Is(err, models.ErrInvalidDuration),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrSelfTransfer):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidPin):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrAccountBlocked):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, models.ErrDuplicateLoan),
		errors.Is(err, models.ErrAccountExists),
		errors.Is(err, models.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrCreditNotFound),
		errors.Is(err, models.ErrUserNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/services"
)

type AccountHandler struct {
	ledger  services.LedgerService
	returns services.ReturnService
}

func NewAccountHandler(ledger services.LedgerService, returns services.ReturnService) *AccountHandler {
	return &AccountHandler{ledger: ledger, returns: returns}
}

type createAccountRequest struct {
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Date           string          `json:"date,omitempty"`
}

// HandleAccounts handles collection-level operations for accounts.
// @Summary List or create accounts
// @Description List accounts with live balance and return metrics, or create a new account
// @Tags accounts
// @Accept json
// @Produce json
// @Success 200 {array} models.AccountSummary
// @Success 201 {object} models.Account
// @Failure 400 {string} string "Invalid request"
// @Failure 409 {string} string "Duplicate account name"
// @Failure 500 {string} string "Internal server error"
// @Router /accounts [get]
// @Router /accounts [post]
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		h.listAccounts(w, r)
	case http.MethodPost:
		h.createAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) listAccounts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.returns.AccountSummaries(r.Context(), time.Now())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	json.NewEncoder(w).Encode(summaries)
}

func (h *AccountHandler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	account, err := h.ledger.CreateAccount(r.Context(), req.Name, req.Currency, req.InitialBalance, date)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

// HandleAccount handles GET /api/accounts/{id}
// @Summary Get account
// @Description Retrieve a single account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} models.Account
// @Failure 404 {string} string "Account not found"
// @Failure 500 {string} string "Internal server error"
// @Router /accounts/{id} [get]
func (h *AccountHandler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(account)
}

// HandleBalance handles GET /api/accounts/{id}/balance
// @Summary Get account balance
// @Description Current balance, or the balance as of a date
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param as_of query string false "As of date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {string} string "Account not found"
// @Failure 500 {string} string "Internal server error"
// @Router /accounts/{id}/balance [get]
func (h *AccountHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := mux.Vars(r)["id"]

	var balance decimal.Decimal
	var err error
	asOf := time.Now()
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		asOf, err = time.Parse("2006-01-02", asOfStr)
		if err != nil {
			http.Error(w, "Invalid as_of date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		balance, err = h.ledger.BalanceAsOf(r.Context(), id, asOf)
	} else {
		balance, err = h.ledger.CurrentBalance(r.Context(), id)
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"account_id": id,
		"balance":    balance,
		"as_of":      asOf.Format("2006-01-02"),
	})
}

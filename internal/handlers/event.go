package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/services"
)

type EventHandler struct {
	ledger services.LedgerService
}

func NewEventHandler(ledger services.LedgerService) *EventHandler {
	return &EventHandler{ledger: ledger}
}

type postEventRequest struct {
	AccountID        string          `json:"account_id"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Date             string          `json:"date"`
	Note             *string         `json:"note,omitempty"`
}

// HandleEvents handles POST /api/events
// @Summary Post an event
// @Description Append a deposit, withdrawal or market update to an account's ledger
// @Tags events
// @Accept json
// @Produce json
// @Success 201 {object} models.Event
// @Failure 400 {string} string "Invalid request"
// @Failure 404 {string} string "Account not found"
// @Failure 500 {string} string "Internal server error"
// @Router /events [post]
func (h *EventHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req postEventRequest
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

	event, err := h.ledger.PostEvent(r.Context(), req.AccountID, req.Kind, req.Amount, req.ResultingBalance, date, req.Note)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

// HandleAccountEvents handles GET /api/accounts/{id}/events
// @Summary List account events
// @Description All events of an account in ledger order
// @Tags events
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {array} models.Event
// @Failure 404 {string} string "Account not found"
// @Failure 500 {string} string "Internal server error"
// @Router /accounts/{id}/events [get]
func (h *EventHandler) HandleAccountEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := mux.Vars(r)["id"]
	events, err := h.ledger.ListEvents(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(events)
}

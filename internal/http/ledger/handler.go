package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

type Handler struct {
	svc      *ledger.Service
	currency string
}

func NewHandler(svc *ledger.Service, currency string) *Handler {
	return &Handler{svc: svc, currency: currency}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/balance", h.balance)
	r.Get("/summary", h.summary)
	r.Get("/locations", h.locations)
	r.Get("/transactions", h.history)
	r.Post("/deposits", h.deposit)
	r.Post("/cheques", h.cheque)
}

type depositRequest struct {
	Date     string          `json:"date,omitempty"`
	Location string          `json:"location"`
	Amount   decimal.Decimal `json:"amount"`
}

type chequeRequest struct {
	Date        string          `json:"date,omitempty"`
	CompanyName string          `json:"company_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// parseDate accepts YYYY-MM-DD; an empty string yields the zero time (today).
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.DateOnly, s)
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.RecordDeposit(r.Context(), ledger.DepositParams{
		Date:     date,
		Location: req.Location,
		Amount:   req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("cash deposit recorded", "id", tx.ID, "location", tx.Location, "amount", tx.Amount.StringFixed(2))
	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) cheque(w http.ResponseWriter, r *http.Request) {
	var req chequeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.RecordChequePayment(r.Context(), ledger.ChequeParams{
		Date:         date,
		Counterparty: req.CompanyName,
		Amount:       req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("cheque recorded", "id", tx.ID, "company", tx.Counterparty, "amount", tx.Amount.StringFixed(2))
	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.CurrentBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Balance:  balance.StringFixed(2),
		Currency: h.currency,
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(sum, h.currency))
}

func (h *Handler) locations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ledger.Locations)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}

	var perr *ledger.PersistenceError
	if errors.As(err, &perr) {
		slog.Error("ledger storage failed", "op", perr.Op, "error", perr.Err)
		http.Error(w, "ledger storage unavailable", http.StatusServiceUnavailable)

		return
	}

	slog.Error("ledger request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

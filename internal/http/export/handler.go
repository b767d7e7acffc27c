package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dailybalance/internal/export"
)

type Handler struct {
	svc      *export.Service
	currency string
}

func NewHandler(svc *export.Service, currency string) *Handler {
	return &Handler{svc: svc, currency: currency}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.csv)
	r.Get("/statement", h.statement)
}

// parseRange reads the optional start_date / end_date query parameters.
func parseRange(r *http.Request) (export.Range, error) {
	var rng export.Range

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return rng, fmt.Errorf("invalid start_date %q", s)
		}

		rng.Start = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return rng, fmt.Errorf("invalid end_date %q", s)
		}

		rng.End = &t
	}

	return rng, nil
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.Transactions(r.Context(), rng)
	if err != nil {
		slog.Error("failed to load csv export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", time.Now().Format("20060102")))

	if err := export.EncodeCSV(w, txs); err != nil {
		slog.Error("failed to write csv export", "error", err)
	}
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.Transactions(r.Context(), rng)
	if err != nil {
		slog.Error("failed to load statement", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(export.Statement(txs, h.currency))); err != nil {
		slog.Error("failed to write statement", "error", err)
	}
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/dailybalance/internal/http/export"
	"github.com/MrJamesThe3rd/dailybalance/internal/http/ledger"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	ledgerV1 *ledger.Handler,
	exportV1 *export.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/ledger", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}

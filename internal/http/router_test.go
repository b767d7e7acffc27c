package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dailybalance/internal/export"
	dailyHttp "github.com/MrJamesThe3rd/dailybalance/internal/http"
	exportHandler "github.com/MrJamesThe3rd/dailybalance/internal/http/export"
	ledgerHandler "github.com/MrJamesThe3rd/dailybalance/internal/http/ledger"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

func TestRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().CurrentBalance(gomock.Any()).Return(decimal.RequireFromString("300"), nil)
	repo.EXPECT().History(gomock.Any()).Return(nil, nil)

	svc := ledger.NewService(repo)
	router := dailyHttp.New(
		ledgerHandler.NewHandler(svc, "LKR"),
		exportHandler.NewHandler(export.NewService(svc), "LKR"),
		dailyHttp.Options{AllowedOrigins: []string{"*"}},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/balance", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":"300.00","currency":"LKR"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export/csv", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id,date,type,amount,balance\n", rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/deposits", strings.NewReader(`location=Gampaha`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/ledger/deposits", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

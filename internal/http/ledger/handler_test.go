package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dailybalance/internal/database"
	ledgerHandler "github.com/MrJamesThe3rd/dailybalance/internal/http/ledger"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger/store"
)

func newRouter(svc *ledger.Service) http.Handler {
	r := chi.NewRouter()
	ledgerHandler.NewHandler(svc, "LKR").Routes(r)

	return r
}

func newSQLiteService(t *testing.T) *ledger.Service {
	t.Helper()

	db, err := database.New(database.DriverSQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "transactions.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := ledger.NewService(store.New(db, database.DriverSQLite))
	require.NoError(t, svc.Initialize(context.Background()))

	return svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

type txBody struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Balance     string `json:"balance"`
	Location    string `json:"location"`
	CompanyName string `json:"company_name"`
}

func TestHandler_DepositChequeHistory(t *testing.T) {
	h := newRouter(newSQLiteService(t))

	rec := do(t, h, http.MethodPost, "/deposits", `{"date":"2024-01-01","location":"Gampaha","amount":"500.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var deposit txBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deposit))
	assert.Equal(t, txBody{
		ID:       1,
		Date:     "2024-01-01",
		Type:     "Deposit (Gampaha)",
		Kind:     "deposit",
		Amount:   "500.00",
		Balance:  "500.00",
		Location: "Gampaha",
	}, deposit)

	rec = do(t, h, http.MethodPost, "/cheques", `{"date":"2024-01-02","company_name":"Acme Corp","amount":200}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var cheque txBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cheque))
	assert.Equal(t, txBody{
		ID:          2,
		Date:        "2024-01-02",
		Type:        "Cheque Passed (Company: Acme Corp)",
		Kind:        "cheque",
		Amount:      "-200.00",
		Balance:     "300.00",
		CompanyName: "Acme Corp",
	}, cheque)

	rec = do(t, h, http.MethodPost, "/deposits", `{"date":"2024-01-03","location":"InvalidPlace","amount":"100"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid location")

	rec = do(t, h, http.MethodGet, "/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":"300.00","currency":"LKR"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []txBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, []txBody{deposit, cheque}, history)

	rec = do(t, h, http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"count": 2,
		"total_deposits": "500.00",
		"total_cheques": "200.00",
		"current_balance": "300.00",
		"currency": "LKR"
	}`, rec.Body.String())
}

func TestHandler_EmptyLedger(t *testing.T) {
	h := newRouter(newSQLiteService(t))

	rec := do(t, h, http.MethodGet, "/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":"0.00","currency":"LKR"}`, rec.Body.String())
}

func TestHandler_DefaultDate(t *testing.T) {
	h := newRouter(newSQLiteService(t))

	rec := do(t, h, http.MethodPost, "/deposits", `{"location":"Nittambuwa","amount":"1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got txBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, time.Now().Format(time.DateOnly), got.Date)
}

func TestHandler_BadRequests(t *testing.T) {
	h := newRouter(newSQLiteService(t))

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "MalformedJSON", path: "/deposits", body: `{"location":`},
		{name: "BadDate", path: "/deposits", body: `{"date":"01/02/2024","location":"Gampaha","amount":"1"}`},
		{name: "NegativeDeposit", path: "/deposits", body: `{"location":"Gampaha","amount":"-5"}`},
		{name: "NegativeCheque", path: "/cheques", body: `{"company_name":"Acme Corp","amount":"-5"}`},
		{name: "BadAmount", path: "/cheques", body: `{"company_name":"Acme Corp","amount":"lots"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(t, h, http.MethodGet, "/transactions", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_Locations(t *testing.T) {
	h := newRouter(newSQLiteService(t))

	rec := do(t, h, http.MethodGet, "/locations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Gampaha","Nittambuwa"]`, rec.Body.String())
}

func TestHandler_StorageErrors(t *testing.T) {
	storeErr := &ledger.PersistenceError{Op: "reading current balance", Err: errors.New("database is locked")}

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		setupMock func(m *ledger.MockRepository)
		wantCode  int
	}{
		{
			name:   "BalanceUnavailable",
			method: http.MethodGet,
			path:   "/balance",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().CurrentBalance(gomock.Any()).Return(decimal.Zero, storeErr)
			},
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:   "AppendUnavailable",
			method: http.MethodPost,
			path:   "/deposits",
			body:   `{"location":"Gampaha","amount":"10"}`,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().BeginAppend(gomock.Any()).Return(nil, storeErr)
			},
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:   "UnexpectedError",
			method: http.MethodGet,
			path:   "/transactions",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().History(gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tt.setupMock(repo)

			rec := do(t, newRouter(ledger.NewService(repo)), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

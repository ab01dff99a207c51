package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	orcamentoHttp "github.com/MrJamesThe3rd/orcamento/internal/http"
	alertHandler "github.com/MrJamesThe3rd/orcamento/internal/http/alert"
	categoryHandler "github.com/MrJamesThe3rd/orcamento/internal/http/category"
	"github.com/MrJamesThe3rd/orcamento/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/orcamento/internal/http/matching"
	periodHandler "github.com/MrJamesThe3rd/orcamento/internal/http/period"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/matching"
	"github.com/MrJamesThe3rd/orcamento/internal/metrics"
)

var (
	salary  = mustCategory(category.New("Salário", category.KindIncome))
	grocery = mustCategory(category.New("Mercado", category.KindExpense))
)

func mustCategory(c category.Category, err error) category.Category {
	if err != nil {
		panic(err)
	}

	return c
}

type fixture struct {
	repo   *ledger.MockRepository
	rules  *matching.MockRepository
	router http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	rules := matching.NewMockRepository(ctrl)
	matchSvc := matching.NewService(rules)

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.DiscardHandler)

	mgr := manager.New(
		manager.WithClock(func() time.Time { return time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC) }),
		manager.WithObserver(metrics.NewRecorder(reg)),
		manager.WithLogger(logger),
	)
	svc := ledger.NewService(repo, mgr, logger)

	router := orcamentoHttp.New(
		orcamentoHttp.Options{AllowedOrigins: []string{"*"}, Gatherer: reg},
		categoryHandler.NewHandler(svc),
		periodHandler.NewHandler(svc),
		importcsv.NewHandler(svc, matchSvc),
		alertHandler.NewHandler(svc),
		matchingHandler.NewHandler(matchSvc),
	)

	return fixture{repo: repo, rules: rules, router: router}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func (f fixture) openPeriod(t *testing.T) {
	t.Helper()

	f.repo.EXPECT().LoadPeriod(gomock.Any(), 2025, 3).Return(nil, ledger.ErrNotFound)
	f.repo.EXPECT().SavePeriod(gomock.Any(), 2025, 3).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/periods", `{"year":2025,"month":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (f fixture) addIncome(t *testing.T, amount string) {
	t.Helper()

	f.repo.EXPECT().GetCategory(gomock.Any(), "Salário", category.KindIncome).Return(salary, nil)
	f.repo.EXPECT().SaveTransaction(gomock.Any(), "2025-03", gomock.Any()).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/periods/current/incomes",
		`{"amount":"`+amount+`","date":"2025-03-05","description":"Salário março","category":"Salário","method":"ted"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCategories(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Lazer","kind":"despesa","limit":"300.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Lazer", created["name"])
	assert.Equal(t, "expense", created["kind"])
	assert.Equal(t, "300", created["limit"])

	rec = f.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Lazer","kind":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.repo.EXPECT().ListCategories(gomock.Any()).Return([]category.Category{salary, grocery}, nil)

	rec = f.do(t, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestCategories_Duplicate(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(ledger.ErrAlreadyExists)

	rec := f.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Mercado","kind":"expense"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPeriods_NoOpenPeriod(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/periods/current", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPeriods_InvalidMonth(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().LoadPeriod(gomock.Any(), 2025, 0).Return(nil, ledger.ErrNotFound)

	rec := f.do(t, http.MethodPost, "/api/v1/periods", `{"year":2025,"month":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPeriods_IncomeAndExpense(t *testing.T) {
	f := newFixture(t)
	f.openPeriod(t)
	f.addIncome(t, "1000.00")

	f.repo.EXPECT().GetCategory(gomock.Any(), "Mercado", category.KindExpense).Return(grocery, nil)
	f.repo.EXPECT().SaveTransaction(gomock.Any(), "2025-03", gomock.Any()).Return(nil)
	f.repo.EXPECT().SaveAlerts(gomock.Any(), gomock.Len(1)).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/periods/current/expenses",
		`{"amount":"600","date":"2025-03-06","description":"Compra do mês","category":"Mercado","method":"debito"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var exp struct {
		Accepted bool   `json:"accepted"`
		Balance  string `json:"balance"`
		Alerts   []struct {
			Kind string `json:"kind"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.True(t, exp.Accepted)
	assert.Equal(t, "400", exp.Balance)
	require.Len(t, exp.Alerts, 1)
	assert.Equal(t, string(alert.KindHighValue), exp.Alerts[0].Kind)

	rec = f.do(t, http.MethodGet, "/api/v1/periods/current", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Period   string           `json:"period"`
		Balance  string           `json:"balance"`
		Incomes  []map[string]any `json:"incomes"`
		Expenses []map[string]any `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "2025-03", view.Period)
	assert.Equal(t, "400", view.Balance)
	assert.Len(t, view.Incomes, 1)
	assert.Len(t, view.Expenses, 1)
	assert.Equal(t, "debit_card", view.Expenses[0]["method"])
}

func TestPeriods_ExpenseRejected(t *testing.T) {
	f := newFixture(t)
	f.openPeriod(t)
	f.addIncome(t, "100")

	f.repo.EXPECT().GetCategory(gomock.Any(), "Mercado", category.KindExpense).Return(grocery, nil)
	f.repo.EXPECT().SaveAlerts(gomock.Any(), gomock.Len(3)).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/periods/current/expenses",
		`{"amount":"150","date":"2025-03-07","category":"Mercado","method":"pix"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var exp struct {
		Accepted bool   `json:"accepted"`
		Balance  string `json:"balance"`
		Error    string `json:"error"`
		Alerts   []any  `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.False(t, exp.Accepted)
	assert.Equal(t, "-50", exp.Balance)
	assert.Contains(t, exp.Error, "insufficient")
	assert.Len(t, exp.Alerts, 3)
}

func TestPeriods_BadEntry(t *testing.T) {
	f := newFixture(t)
	f.openPeriod(t)

	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "MalformedJSON", body: `{"amount":`},
		{name: "BadDate", body: `{"amount":"10","date":"05/03/2025","category":"Mercado","method":"pix"}`},
		{name: "BadMethod", body: `{"amount":"10","date":"2025-03-05","category":"Mercado","method":"cheque"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/periods/current/expenses", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPeriods_SubCentAmounts(t *testing.T) {
	f := newFixture(t)
	f.openPeriod(t)

	f.repo.EXPECT().GetCategory(gomock.Any(), "Salário", category.KindIncome).Return(salary, nil).Times(2)

	for _, amount := range []string{"5.004", "0.001"} {
		rec := f.do(t, http.MethodPost, "/api/v1/periods/current/incomes",
			`{"amount":"`+amount+`","date":"2025-03-05","category":"Salário","method":"pix"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, amount)
	}

	rec := f.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Lazer","kind":"expense","limit":"300.005"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImport(t *testing.T) {
	f := newFixture(t)
	f.openPeriod(t)

	f.rules.EXPECT().FindMatch(gomock.Any(), "SALARIO", category.KindIncome).Return("", nil)
	f.rules.EXPECT().FindMatch(gomock.Any(), "SUPERMERCADO", category.KindExpense).Return("Mercado", nil)

	f.repo.EXPECT().GetCategory(gomock.Any(), "Salário", category.KindIncome).Return(salary, nil)
	f.repo.EXPECT().GetCategory(gomock.Any(), "Mercado", category.KindExpense).Return(grocery, nil)
	f.repo.EXPECT().SaveTransaction(gomock.Any(), "2025-03", gomock.Any()).Return(nil).Times(2)

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("income_category", "Salário"))
	require.NoError(t, mw.WriteField("expense_category", "Outros"))

	fw, err := mw.CreateFormFile("file", "extrato.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("Data;Histórico;Débito;Crédito\n01/03/2025;SALARIO;;2.000,00\n02/03/2025;SUPERMERCADO;150,30;\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/periods/current/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Imported int `json:"imported"`
		Rejected int `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 0, resp.Rejected)
}

func TestAlerts(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().ListAlerts(gomock.Any()).Return([]alert.Alert{
		{ID: uuid.New(), Kind: alert.KindDeficit, Message: "Déficit orçamentário em 2025-02", Period: "2025-02"},
		{ID: uuid.New(), Kind: alert.KindHighValue, Message: "Despesa de alto valor", Period: "2025-03"},
	}, nil).Times(2)

	rec := f.do(t, http.MethodGet, "/api/v1/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	rec = f.do(t, http.MethodGet, "/api/v1/alerts?period=2025-03", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var filtered []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "high_value", filtered[0]["kind"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.openPeriod(t)
	f.addIncome(t, "250")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orcamento_incomes_total 1")
	assert.Contains(t, rec.Body.String(), `orcamento_period_balance{period="2025-03"} 250`)
}


func TestRules(t *testing.T) {
	f := newFixture(t)

	f.rules.EXPECT().
		CreateRule(gomock.Any(), matching.Rule{Pattern: "IFOOD", CategoryName: "Mercado", Kind: category.KindExpense}).
		Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/rules", `{"pattern":"IFOOD","category":"Mercado","kind":"despesa"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/v1/rules", `{"pattern":"","category":"Mercado","kind":"expense"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.rules.EXPECT().
		CreateRule(gomock.Any(), gomock.Any()).
		Return(matching.ErrUnknownCategory)

	rec = f.do(t, http.MethodPost, "/api/v1/rules", `{"pattern":"UBER","category":"Transporte","kind":"expense"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.rules.EXPECT().FindMatch(gomock.Any(), "PIX IFOOD", category.KindExpense).Return("Mercado", nil)

	rec = f.do(t, http.MethodGet, "/api/v1/rules/suggest?description=PIX+IFOOD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"Mercado"`)
}

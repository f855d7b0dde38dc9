package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cashlens/internal/auth"
	"cashlens/internal/services"
	"cashlens/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc, err := services.NewLedgerService(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	srv := NewServer(Config{Addr: ":0", RateLimitPerMinute: 10000}, svc)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rr.Body.String())
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateExpense(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/expenses", `{"title":"Lunch","amount":"12.50","category":"Food"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	exp := decode[expenseResponse](t, rr)
	if exp.Title != "Lunch" || exp.Amount.Cents != 1250 || exp.Category != "Food" {
		t.Fatalf("unexpected expense: %+v", exp)
	}
	if exp.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestCreateExpenseRejections(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing title", `{"amount":"5","category":"Food"}`, http.StatusBadRequest},
		{"malformed json", `{"title":`, http.StatusBadRequest},
		{"unknown field", `{"title":"x","amount":"5","category":"Food","note":"y"}`, http.StatusBadRequest},
		{"bad amount", `{"title":"x","amount":"abc","category":"Food"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"title":"x","amount":"0","category":"Food"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"title":"x","amount":"5","category":"Fuel"}`, http.StatusUnprocessableEntity},
		{"blank title", `{"title":"   ","amount":"5","category":"Food"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/expenses", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body=%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}

	// Nothing was recorded by the rejected requests.
	list := decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses", ""))
	if list.Count != 0 {
		t.Fatalf("expected empty ledger, got %d expenses", list.Count)
	}
}

func TestSetIncomeAndSummary(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/income", `{"amount":"1000"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set income status=%d: %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"title":"Rent","amount":"400","category":"Bills"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add expense status=%d", rr.Code)
	}

	sum := decode[summaryResponse](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	if sum.Income.Cents != 100000 || sum.TotalExpenses.Cents != 40000 || sum.Balance.Cents != 60000 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestSetIncomeRejectsNegative(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/income", `{"amount":"-5"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestListExpensesViewParams(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"A","amount":"30","category":"Food"}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"B","amount":"10","category":"Travel"}`)

	// Default view: newest first.
	list := decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses", ""))
	if list.Count != 2 || list.Expenses[0].Title != "B" || list.Expenses[1].Title != "A" {
		t.Fatalf("default view wrong: %+v", list)
	}

	// Amount ascending flips the order.
	list = decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses?sort=amountAsc", ""))
	if list.Expenses[0].Title != "B" || list.Expenses[1].Title != "A" {
		t.Fatalf("amountAsc view wrong: %+v", list)
	}

	// Category filter narrows the view.
	list = decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses?category=Food", ""))
	if list.Count != 1 || list.Expenses[0].Title != "A" {
		t.Fatalf("filtered view wrong: %+v", list)
	}

	if rr := do(t, srv, http.MethodGet, "/api/expenses?sort=bogus", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bogus sort status=%d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/api/expenses?category=Fuel", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bogus category status=%d", rr.Code)
	}
}

func TestViewNotStaleAfterMutation(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"A","amount":"30","category":"Food"}`)

	list := decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses", ""))
	if list.Count != 1 {
		t.Fatalf("expected 1 expense, got %d", list.Count)
	}

	// A second read would hit the cache; the mutation must purge it.
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"B","amount":"10","category":"Travel"}`)
	list = decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses", ""))
	if list.Count != 2 {
		t.Fatalf("stale view served after mutation: %+v", list)
	}
}

func TestReport(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"Groceries","amount":"30","category":"Food"}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"Rent","amount":"90","category":"Bills"}`)

	rep := decode[reportResponse](t, do(t, srv, http.MethodGet, "/api/report", ""))
	if len(rep.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rep.Rows))
	}
	if rep.Rows[0].Category != "Bills" || rep.Rows[0].Percentage != 75.0 {
		t.Fatalf("unexpected first row: %+v", rep.Rows[0])
	}
	if rep.Rows[1].Category != "Food" || rep.Rows[1].Percentage != 25.0 {
		t.Fatalf("unexpected second row: %+v", rep.Rows[1])
	}
	if rep.Summary.TotalExpenses.Cents != 12000 {
		t.Fatalf("unexpected total: %+v", rep.Summary)
	}
}

func TestDeleteExpense(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/expenses", `{"title":"A","amount":"5","category":"Other"}`)
	exp := decode[expenseResponse](t, rr)

	if rr := do(t, srv, http.MethodDelete, "/api/expenses/"+strconv.FormatInt(exp.ID, 10), ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	list := decode[expensesResponse](t, do(t, srv, http.MethodGet, "/api/expenses", ""))
	if list.Count != 0 {
		t.Fatalf("expense not deleted")
	}

	// Deleting an absent ID is still a success.
	if rr := do(t, srv, http.MethodDelete, "/api/expenses/999", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("absent delete status=%d", rr.Code)
	}
	if rr := do(t, srv, http.MethodDelete, "/api/expenses/abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed id status=%d", rr.Code)
	}
}

func TestClearFlow(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/income", `{"amount":"100"}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"title":"A","amount":"5","category":"Food"}`)

	// Confirm without a pending request is rejected.
	if rr := do(t, srv, http.MethodPost, "/api/clear/confirm", ""); rr.Code != http.StatusConflict {
		t.Fatalf("confirm without pending status=%d", rr.Code)
	}

	rr := do(t, srv, http.MethodPost, "/api/clear", "")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("clear request status=%d", rr.Code)
	}
	pending := decode[pendingResponse](t, rr)
	if pending.Message == "" {
		t.Fatalf("expected pending message")
	}

	// Cancel leaves the ledger intact.
	if rr := do(t, srv, http.MethodPost, "/api/clear/cancel", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("cancel status=%d", rr.Code)
	}
	sum := decode[summaryResponse](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	if sum.Income.Cents != 10000 {
		t.Fatalf("cancel should not clear: %+v", sum)
	}

	// Request then confirm resets everything.
	do(t, srv, http.MethodPost, "/api/clear", "")
	rr = do(t, srv, http.MethodPost, "/api/clear/confirm", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm status=%d", rr.Code)
	}
	sum = decode[summaryResponse](t, rr)
	if sum.Income.Cents != 0 || sum.TotalExpenses.Cents != 0 {
		t.Fatalf("ledger not reset: %+v", sum)
	}
}

func TestAuthGate(t *testing.T) {
	svc, err := services.NewLedgerService(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	srv := NewServer(Config{
		Addr:               ":0",
		RateLimitPerMinute: 10000,
		Auth:               auth.Config{Secret: "test-secret"},
	}, svc)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	// Health stays open for probes.
	if rr := do(t, srv, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("healthz gated: %d", rr.Code)
	}
}

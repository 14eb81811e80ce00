package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
)

func TestDraftHandler_EditFlow(t *testing.T) {
	env := newTestEnv(t, "secret")
	env.loadDirectory(t)

	// Add the same product twice
	env.do(t, http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 7})
	w := env.do(t, http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 7})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var view order.View
	decodeBody(t, w, &view)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", view.Items)
	}
	if view.Total != "200.00" {
		t.Errorf("expected total 200.00, got %s", view.Total)
	}

	// 10% discount on 2 x 100
	w = env.do(t, http.MethodPatch, "/api/draft/items/7", map[string]interface{}{"discount_percent": 10})
	decodeBody(t, w, &view)
	if view.Items[0].Total != "180.00" {
		t.Errorf("expected line total 180.00, got %s", view.Items[0].Total)
	}

	w = env.do(t, http.MethodPut, "/api/draft/customer", map[string]int64{"customer_id": 20})
	decodeBody(t, w, &view)
	if view.Customer == nil || view.Customer.ID != 20 {
		t.Errorf("expected customer 20, got %+v", view.Customer)
	}

	w = env.do(t, http.MethodPatch, "/api/draft", map[string]interface{}{
		"organization_id": 1,
		"warehouse_id":    2,
		"paybox_id":       4,
		"priority":        3,
		"paid_cash":       "50.5",
	})
	decodeBody(t, w, &view)
	if view.OrganizationID == nil || *view.OrganizationID != 1 || view.Priority != 3 {
		t.Errorf("unexpected header fields: %+v", view)
	}
	if view.PaidCash.String() != "50.5" {
		t.Errorf("expected paid cash 50.5, got %s", view.PaidCash)
	}

	w = env.do(t, http.MethodDelete, "/api/draft/customer", nil)
	decodeBody(t, w, &view)
	if view.Customer != nil {
		t.Error("expected customer to be cleared")
	}

	w = env.do(t, http.MethodDelete, "/api/draft/items/7", nil)
	decodeBody(t, w, &view)
	if len(view.Items) != 0 || view.Total != "0.00" {
		t.Errorf("expected empty draft, got %+v", view)
	}

	id := view.ID
	w = env.do(t, http.MethodDelete, "/api/draft", nil)
	decodeBody(t, w, &view)
	if view.ID == id {
		t.Error("expected reset to start a new draft")
	}
}

func TestDraftHandler_Errors(t *testing.T) {
	env := newTestEnv(t, "secret")
	env.loadDirectory(t)
	env.do(t, http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 7})

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{"unknown product", http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 999}, http.StatusNotFound},
		{"unknown customer", http.MethodPut, "/api/draft/customer", map[string]int64{"customer_id": 999}, http.StatusNotFound},
		{"line not in draft", http.MethodDelete, "/api/draft/items/8", nil, http.StatusNotFound},
		{"non-numeric line id", http.MethodPatch, "/api/draft/items/abc", map[string]int{"quantity": 2}, http.StatusBadRequest},
		{"zero quantity", http.MethodPatch, "/api/draft/items/7", map[string]int{"quantity": 0}, http.StatusBadRequest},
		{"discount above 100", http.MethodPatch, "/api/draft/items/7", map[string]int{"discount_percent": 101}, http.StatusBadRequest},
		{"negative price", http.MethodPatch, "/api/draft/items/7", map[string]int{"unit_price": -1}, http.StatusBadRequest},
		{"priority above 10", http.MethodPatch, "/api/draft", map[string]int{"priority": 11}, http.StatusBadRequest},
		{"negative payment", http.MethodPatch, "/api/draft", map[string]int{"paid_credit": -5}, http.StatusBadRequest},
		{"unknown field", http.MethodPatch, "/api/draft", map[string]int{"discount": 5}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	// Rejected edits leave the draft unchanged
	var view order.View
	decodeBody(t, env.do(t, http.MethodGet, "/api/draft", nil), &view)
	if len(view.Items) != 1 || view.Items[0].Quantity != 1 || view.Priority != 0 {
		t.Errorf("expected untouched draft, got %+v", view)
	}
}

func TestDraftHandler_Submit(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		body           string
		createAnswer   http.HandlerFunc
		statusAnswer   http.HandlerFunc
		expectedStatus int
		expectedState  models.SubmissionState
		expectedCalls  int32
		draftKept      bool
	}{
		{
			name:           "create only with empty body",
			token:          "secret",
			createAnswer:   reply(200, "application/json", `[{"id":42}]`),
			expectedStatus: http.StatusOK,
			expectedState:  models.StateDone,
			expectedCalls:  1,
		},
		{
			name:           "create and post",
			token:          "secret",
			body:           `{"post":true}`,
			createAnswer:   reply(200, "application/json", `[{"id":42}]`),
			statusAnswer:   reply(200, "application/json", `{}`),
			expectedStatus: http.StatusOK,
			expectedState:  models.StatePosted,
			expectedCalls:  2,
		},
		{
			name:           "posting fails after creation",
			token:          "secret",
			body:           `{"post":true}`,
			createAnswer:   reply(200, "application/json", `[{"id":42}]`),
			statusAnswer:   reply(502, "text/html", `<html>Bad Gateway</html>`),
			expectedStatus: http.StatusMultiStatus,
			expectedState:  models.StateFailed,
			expectedCalls:  2,
			draftKept:      false,
		},
		{
			name:           "create rejected",
			token:          "secret",
			createAnswer:   reply(400, "application/json", `{"detail":"goods required"}`),
			expectedStatus: http.StatusBadGateway,
			expectedState:  models.StateFailed,
			expectedCalls:  1,
			draftKept:      true,
		},
		{
			name:           "missing token",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
			expectedState:  models.StateFailed,
			expectedCalls:  0,
			draftKept:      true,
		},
		{
			name:           "dry run",
			token:          "secret",
			body:           `{"dry_run":true,"post":true}`,
			expectedStatus: http.StatusOK,
			expectedState:  models.StateDone,
			expectedCalls:  0,
			draftKept:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			env := newTestEnv(t, "secret")
			env.loadDirectory(t)
			env.do(t, http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 7})
			if err := env.session.SetToken(context.Background(), tt.token); err != nil {
				t.Fatalf("failed to set token: %v", err)
			}

			var calls atomic.Int32
			count := func(h http.HandlerFunc) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					h(w, r)
				}
			}
			if tt.createAnswer != nil {
				env.remote.set("POST /docs_sales/", count(tt.createAnswer))
			}
			if tt.statusAnswer != nil {
				env.remote.set("PATCH /docs_sales/42/status", count(tt.statusAnswer))
			}

			var before order.View
			decodeBody(t, env.do(t, http.MethodGet, "/api/draft", nil), &before)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}

			// Execute
			req := httptest.NewRequest(http.MethodPost, "/api/draft/submit", body)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			// Assert
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			var result models.SubmissionResult
			if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
				t.Fatalf("failed to decode result: %v", err)
			}
			if result.State != tt.expectedState {
				t.Errorf("expected state %s, got %s", tt.expectedState, result.State)
			}
			if calls.Load() != tt.expectedCalls {
				t.Errorf("expected %d order calls, got %d", tt.expectedCalls, calls.Load())
			}

			var after order.View
			decodeBody(t, env.do(t, http.MethodGet, "/api/draft", nil), &after)
			if kept := after.ID == before.ID; kept != tt.draftKept {
				t.Errorf("draft kept = %v, want %v", kept, tt.draftKept)
			}
		})
	}
}

func TestDraftHandler_Submit_PartialResult(t *testing.T) {
	env := newTestEnv(t, "secret")
	env.loadDirectory(t)
	env.do(t, http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 7})
	env.remote.set("POST /docs_sales/", reply(200, "application/json", `[{"id":42}]`))
	env.remote.set("PATCH /docs_sales/42/status", reply(500, "application/json", `{"detail":"locked"}`))

	w := env.do(t, http.MethodPost, "/api/draft/submit", map[string]bool{"post": true})

	if w.Code != http.StatusMultiStatus {
		t.Fatalf("expected status 207, got %d", w.Code)
	}

	var result models.SubmissionResult
	decodeBody(t, w, &result)

	if !result.Created || result.Posted {
		t.Errorf("expected created and not posted, got %+v", result)
	}
	if result.OrderID == nil || *result.OrderID != 42 {
		t.Errorf("expected order id 42, got %v", result.OrderID)
	}
	if result.Error == "" {
		t.Error("expected an error message for the operator")
	}
	if result.ErrorKind != models.KindRemoteRejected {
		t.Errorf("expected error kind %s, got %s", models.KindRemoteRejected, result.ErrorKind)
	}
}

func TestDraftHandler_Submit_DryRunPayload(t *testing.T) {
	env := newTestEnv(t, "secret")
	env.loadDirectory(t)
	env.do(t, http.MethodPost, "/api/draft/items", map[string]int64{"product_id": 7})
	env.do(t, http.MethodPut, "/api/draft/customer", map[string]int64{"customer_id": 20})

	w := env.do(t, http.MethodPost, "/api/draft/submit", map[string]bool{"dry_run": true})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var result struct {
		Payload []map[string]interface{} `json:"payload"`
	}
	decodeBody(t, w, &result)

	if len(result.Payload) != 1 {
		t.Fatalf("expected a batch of one document, got %d", len(result.Payload))
	}
	doc := result.Payload[0]
	if doc["operation"] != "Заказ" {
		t.Errorf("expected operation Заказ, got %v", doc["operation"])
	}
	if doc["contragent"] != float64(20) || doc["loyality_card_id"] != float64(20) {
		t.Errorf("expected customer 20 in contragent and loyality_card_id, got %v / %v", doc["contragent"], doc["loyality_card_id"])
	}
	if _, ok := doc["price_type"]; ok {
		t.Error("price type must not be sent")
	}
}

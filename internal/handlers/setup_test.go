package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/gateway"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// remoteAPI is a canned remote commerce API keyed by "METHOD path"
type remoteAPI struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []string
}

func (a *remoteAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	a.mu.Lock()
	a.calls = append(a.calls, key)
	h, ok := a.routes[key]
	a.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (a *remoteAPI) set(key string, h http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[key] = h
}

func (a *remoteAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func reply(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newRemoteAPI() *remoteAPI {
	return &remoteAPI{routes: map[string]http.HandlerFunc{
		"GET /organizations/": reply(200, "application/json", `{"result":[{"id":1,"short_name":"Ромашка"}]}`),
		"GET /warehouses/":    reply(200, "application/json", `{"result":[{"id":2,"name":"Main"}]}`),
		"GET /price_types/":   reply(200, "application/json", `[{"id":3,"name":"Retail"}]`),
		"GET /payboxes/":      reply(200, "application/json", `{"result":[{"id":4,"name":"Cash desk"}]}`),
		"GET /nomenclature/":  reply(200, "application/json", `{"result":[{"id":7,"name":"Coffee","price":100,"unit":116},{"id":8,"name":"Tea","price":60}]}`),
		"GET /contragents/":   reply(200, "application/json", `[{"id":20,"name":"Anna","phone":"+7 (900) 123-45-67"},{"id":21,"name":"Boris","phone":"8 911 000"}]`),
	}}
}

type testEnv struct {
	router  http.Handler
	remote  *remoteAPI
	session *session.Session
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()
	log := logger.New("error")

	remote := newRemoteAPI()
	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)

	sess, err := session.New(context.Background(), session.NewMemoryTokenStore(), token)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	client := gateway.NewClient(gateway.DirectEndpoint{BaseURL: srv.URL}, 5*time.Second, log)
	catalog := service.NewCatalogService(repository.NewInMemoryDirectoryRepository(), client, sess, log)
	coordinator := service.NewCoordinator(client, service.NewMemoryGuard(), order.NewPayloadBuilder(nil), log)
	orders := service.NewOrderService(sess, catalog, coordinator, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterOperatorRoutes(r,
			NewSessionHandler(sess, log),
			NewCatalogHandler(catalog, log),
			NewDraftHandler(orders, log),
		)
	})

	return &testEnv{router: r, remote: remote, session: sess}
}

// do sends a request through the router and returns the recorder
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// loadDirectory loads the canned directory and fails the test otherwise
func (e *testEnv) loadDirectory(t *testing.T) {
	t.Helper()
	if w := e.do(t, http.MethodPost, "/api/directory/load", nil); w.Code != http.StatusOK {
		t.Fatalf("directory load status = %d, body = %s", w.Code, w.Body.String())
	}
}

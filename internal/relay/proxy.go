// Package relay forwards browser calls to the remote commerce API under a
// single CORS-enabled origin.
package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var relayedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pos_relay_requests_total",
		Help: "Requests handled by the proxy relay by method and status",
	},
	[]string{"method", "status"},
)

// Proxy is a stateless forwarder: ?path=<p>&token=<T> becomes <upstream>/<p>?token=<T>
type Proxy struct {
	upstream   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a relay targeting upstream
func New(upstream string, timeout time.Duration, logger *slog.Logger) *Proxy {
	return &Proxy{
		upstream:   strings.TrimRight(upstream, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		relayedTotal.WithLabelValues(r.Method, "200").Inc()
		return
	}

	path := r.URL.Query().Get("path")
	token := r.URL.Query().Get("token")
	if path == "" || token == "" {
		p.writeError(w, r, http.StatusBadRequest, "Missing path or token")
		return
	}

	target := p.upstream + "/" + strings.TrimLeft(path, "/") + "?token=" + url.QueryEscape(token)

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			p.writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		p.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("relay upstream call failed", "method", r.Method, "path", path, "error", err)
		p.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Error("relay failed to read upstream body", "method", r.Method, "path", path, "error", err)
		p.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if json.Valid(respBody) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(respBody)

	relayedTotal.WithLabelValues(r.Method, strconv.Itoa(resp.StatusCode)).Inc()
	p.logger.Debug("relayed request", "method", r.Method, "path", path, "status", resp.StatusCode)
}

func (p *Proxy) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
	relayedTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

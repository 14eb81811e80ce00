package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "pos_gateway_request_duration_seconds",
		Help:    "Duration of calls to the remote commerce API",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// Client talks to the remote commerce API, directly or through the relay
type Client struct {
	httpClient *http.Client
	endpoint   Endpoint
	logger     *slog.Logger
}

// NewClient creates a gateway client
func NewClient(endpoint Endpoint, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger,
	}
}

// CreatedOrder is the parsed answer of the creation call
type CreatedOrder struct {
	ID   *int64          // first created document id, nil when the answer carries none
	Body json.RawMessage // raw JSON answer
}

// CreateSalesOrder issues POST /docs_sales/ with the batch
func (c *Client) CreateSalesOrder(ctx context.Context, token string, batch []models.OrderCreateRequest) (*CreatedOrder, error) {
	body, err := c.callJSON(ctx, "create_order", http.MethodPost, "docs_sales/", token, batch)
	if err != nil {
		return nil, err
	}

	return &CreatedOrder{ID: firstID(body), Body: body}, nil
}

// PostSalesOrder issues PATCH /docs_sales/{id}/status marking the order posted
func (c *Client) PostSalesOrder(ctx context.Context, token string, orderID int64) error {
	path := "docs_sales/" + strconv.FormatInt(orderID, 10) + "/status"
	_, err := c.callJSON(ctx, "post_order", http.MethodPatch, path, token, models.StatusUpdate{Status: true})
	return err
}

// firstID reads the id of the first element of [{id, ...}]
func firstID(body []byte) *int64 {
	var created []struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		return nil
	}
	return created[0].ID
}

// callJSON performs one request and insists on a JSON answer. Non-JSON bodies are
// ErrUnexpectedResponse whatever the status; JSON bodies with a non-2xx status
// are ErrRemoteRejected.
func (c *Client) callJSON(ctx context.Context, op, method, path, token string, payload any) (json.RawMessage, error) {
	start := time.Now()
	status, body, err := c.do(ctx, method, path, token, payload)

	outcome := "ok"
	defer func() {
		requestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	}()

	if err != nil {
		outcome = "network"
		c.logger.Error("gateway call failed", "operation", op, "error", err)
		return nil, err
	}

	if !json.Valid(body) {
		outcome = "unexpected"
		c.logger.Error("gateway returned non-JSON body", "operation", op, "status", status)
		return nil, fmt.Errorf("%w: %s returned %d: %s", models.ErrUnexpectedResponse, op, status, snippet(body))
	}

	if status < 200 || status >= 300 {
		outcome = "rejected"
		c.logger.Warn("gateway rejected request", "operation", op, "status", status)
		return nil, fmt.Errorf("%w: %s returned %d: %s", models.ErrRemoteRejected, op, status, snippet(body))
	}

	c.logger.Debug("gateway call succeeded", "operation", op, "status", status, "duration_ms", time.Since(start).Milliseconds())
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint.URL(path, token), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %v", models.ErrNetworkFailure, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading %s response: %v", models.ErrNetworkFailure, path, err)
	}

	return resp.StatusCode, body, nil
}

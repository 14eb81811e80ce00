package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
)

// NormalizeList decodes a list response that is either a bare array or an
// object wrapping the array under "result". Any other JSON value yields an
// empty list; a body that is not JSON at all is ErrUnexpectedResponse.
func NormalizeList[T any](body []byte) ([]T, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnexpectedResponse, snippet(body))
	}

	raw := bytes.TrimSpace(body)
	if len(raw) > 0 && raw[0] == '{' {
		var envelope struct {
			Result json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		raw = bytes.TrimSpace(envelope.Result)
	}

	if len(raw) == 0 || raw[0] != '[' {
		return []T{}, nil
	}

	items := make([]T, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}

// snippet keeps error messages short when the remote answers with an HTML page
func snippet(body []byte) string {
	const limit = 256
	s := string(bytes.TrimSpace(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

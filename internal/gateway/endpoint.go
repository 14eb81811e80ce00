package gateway

import (
	"net/url"
	"strings"
)

// Endpoint turns a remote API path into a request URL carrying the access token
type Endpoint interface {
	URL(path, token string) string
}

// DirectEndpoint calls the remote API itself: <base>/<path>?token=<token>
type DirectEndpoint struct {
	BaseURL string
}

func (e DirectEndpoint) URL(path, token string) string {
	base := strings.TrimRight(e.BaseURL, "/")
	return base + "/" + strings.TrimLeft(path, "/") + "?token=" + url.QueryEscape(token)
}

// RelayEndpoint goes through the proxy relay: <relay>?path=<path>&token=<token>
type RelayEndpoint struct {
	RelayURL string
}

func (e RelayEndpoint) URL(path, token string) string {
	q := url.Values{}
	q.Set("path", strings.TrimLeft(path, "/"))
	q.Set("token", token)
	return e.RelayURL + "?" + q.Encode()
}

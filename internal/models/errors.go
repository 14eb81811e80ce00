package models

import "errors"

var (
	ErrMissingToken       = errors.New("access token is missing")
	ErrDirectoryLoad      = errors.New("directory load failed")
	ErrUnexpectedResponse = errors.New("unexpected non-JSON response")
	ErrNetworkFailure     = errors.New("network failure")
	ErrRemoteRejected     = errors.New("remote API rejected the request")
	ErrSubmissionInFlight = errors.New("a submission for this draft is already in flight")
	ErrDraftChanged       = errors.New("draft was submitted or reset while the submission was waiting")
	ErrNotLoaded          = errors.New("directory is not loaded")
	ErrProductNotFound    = errors.New("product not found")
	ErrCustomerNotFound   = errors.New("customer not found")
)

// ErrorKind names the sentinel behind a failed submission for API clients
type ErrorKind string

const (
	KindMissingToken       ErrorKind = "missing_token"
	KindInFlight           ErrorKind = "in_flight"
	KindDraftChanged       ErrorKind = "draft_changed"
	KindUnexpectedResponse ErrorKind = "unexpected_response"
	KindRemoteRejected     ErrorKind = "remote_rejected"
	KindNetworkFailure     ErrorKind = "network_failure"
	KindInternal           ErrorKind = "internal"
)

// KindOf classifies err by the first matching sentinel
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingToken):
		return KindMissingToken
	case errors.Is(err, ErrSubmissionInFlight):
		return KindInFlight
	case errors.Is(err, ErrDraftChanged):
		return KindDraftChanged
	case errors.Is(err, ErrUnexpectedResponse):
		return KindUnexpectedResponse
	case errors.Is(err, ErrRemoteRejected):
		return KindRemoteRejected
	case errors.Is(err, ErrNetworkFailure):
		return KindNetworkFailure
	default:
		return KindInternal
	}
}

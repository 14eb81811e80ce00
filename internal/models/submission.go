package models

import "github.com/google/uuid"

// SubmissionState is a step of the create/post protocol
type SubmissionState string

const (
	StateIdle     SubmissionState = "IDLE"
	StateBuilding SubmissionState = "BUILDING"
	StateCreating SubmissionState = "CREATING"
	StateCreated  SubmissionState = "CREATED"
	StatePosting  SubmissionState = "POSTING"
	StatePosted   SubmissionState = "POSTED"
	StateDone     SubmissionState = "DONE"
	StateFailed   SubmissionState = "FAILED"
)

// SubmissionResult is the consolidated outcome of one submission attempt
type SubmissionResult struct {
	AttemptID uuid.UUID            `json:"attempt_id"`
	DraftID   uuid.UUID            `json:"draft_id"`
	State     SubmissionState      `json:"state"`
	OrderID   *int64               `json:"order_id,omitempty"`
	Created   bool                 `json:"created"`
	Posted    bool                 `json:"posted"`
	DryRun    bool                 `json:"dry_run"`
	Payload   []OrderCreateRequest `json:"payload,omitempty"`
	Error     string               `json:"error,omitempty"`
	ErrorKind ErrorKind            `json:"error_kind,omitempty"`
}

// Partial reports an order that was created but could not be posted
func (r *SubmissionResult) Partial() bool {
	return r.Created && r.State == StateFailed
}

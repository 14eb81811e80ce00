package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/gateway"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pos_submissions_total",
		Help: "Sales order submissions by outcome",
	},
	[]string{"outcome"},
)

// OrderGateway is the part of the remote API the coordinator drives
type OrderGateway interface {
	CreateSalesOrder(ctx context.Context, token string, batch []models.OrderCreateRequest) (*gateway.CreatedOrder, error)
	PostSalesOrder(ctx context.Context, token string, orderID int64) error
}

// SubmitOptions selects what a submission does after building the payload
type SubmitOptions struct {
	TransitionToPosted bool `json:"post"`
	DryRun             bool `json:"dry_run"`
}

// Coordinator runs the create-then-post protocol for one draft.
// It never retries; a failed attempt is retried by calling Submit again.
type Coordinator struct {
	gateway OrderGateway
	guard   InFlightGuard
	builder *order.PayloadBuilder
	logger  *slog.Logger
}

// NewCoordinator creates a submission coordinator
func NewCoordinator(gw OrderGateway, guard InFlightGuard, builder *order.PayloadBuilder, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		gateway: gw,
		guard:   guard,
		builder: builder,
		logger:  logger,
	}
}

// DraftSource holds the draft a submission is built from. A completed
// submission discards the draft so it cannot be created twice.
type DraftSource interface {
	DraftID() uuid.UUID
	Snapshot() *order.Draft
	Discard(id uuid.UUID) bool
}

// Submit builds the payload for the current draft of drafts and, unless it is
// a dry run, creates the order and optionally posts it. The result is never nil.
// The error is non-nil whenever the attempt ended in FAILED; result.Created then
// tells whether an order exists remotely despite the failure.
//
// The guard is keyed by the draft id and held from before the snapshot until
// after the draft is discarded.
func (c *Coordinator) Submit(ctx context.Context, token string, drafts DraftSource, opts SubmitOptions) (*models.SubmissionResult, error) {
	draftID := drafts.DraftID()
	res := &models.SubmissionResult{
		AttemptID: uuid.New(),
		State:     models.StateIdle,
		DraftID:   draftID,
		DryRun:    opts.DryRun,
	}
	log := c.logger.With("attempt_id", res.AttemptID, "draft_id", draftID)

	if token == "" {
		return c.fail(res, log, models.ErrMissingToken)
	}

	if opts.DryRun {
		c.enter(res, log, models.StateBuilding)
		res.Payload = c.builder.Build(drafts.Snapshot())
		c.enter(res, log, models.StateDone)
		submissionsTotal.WithLabelValues("dry_run").Inc()
		return res, nil
	}

	key := draftID.String()
	acquired, err := c.guard.TryAcquire(ctx, key)
	if err != nil {
		return c.fail(res, log, fmt.Errorf("acquire submission guard: %w", err))
	}
	if !acquired {
		return c.fail(res, log, models.ErrSubmissionInFlight)
	}
	defer c.release(ctx, log, key)

	d := drafts.Snapshot()
	if d.ID != draftID {
		return c.fail(res, log, models.ErrDraftChanged)
	}

	c.enter(res, log, models.StateBuilding)
	batch := c.builder.Build(d)

	c.enter(res, log, models.StateCreating)
	created, err := c.gateway.CreateSalesOrder(ctx, token, batch)
	if err != nil {
		return c.fail(res, log, fmt.Errorf("create order: %w", err))
	}

	res.Created = true
	res.OrderID = created.ID
	c.enter(res, log, models.StateCreated)

	if !opts.TransitionToPosted || created.ID == nil {
		if opts.TransitionToPosted {
			log.Warn("order created but the response carries no id, skipping posting")
		}
		c.enter(res, log, models.StateDone)
		c.complete(drafts, log, res)
		submissionsTotal.WithLabelValues("created").Inc()
		return res, nil
	}

	c.enter(res, log, models.StatePosting)
	if err := c.gateway.PostSalesOrder(ctx, token, *created.ID); err != nil {
		// The order exists remotely, resubmitting the draft would create it again
		c.complete(drafts, log, res)
		return c.fail(res, log, fmt.Errorf("post order %d: %w", *created.ID, err))
	}

	res.Posted = true
	c.enter(res, log, models.StatePosted)
	c.complete(drafts, log, res)
	submissionsTotal.WithLabelValues("posted").Inc()
	return res, nil
}

// complete discards a draft whose order was created, while the guard is still held
func (c *Coordinator) complete(drafts DraftSource, log *slog.Logger, res *models.SubmissionResult) {
	if drafts.Discard(res.DraftID) {
		log.Info("draft submitted and discarded", "order_id", res.OrderID, "posted", res.Posted)
	}
}

func (c *Coordinator) enter(res *models.SubmissionResult, log *slog.Logger, state models.SubmissionState) {
	log.Debug("submission state", "from", res.State, "to", state)
	res.State = state
}

func (c *Coordinator) fail(res *models.SubmissionResult, log *slog.Logger, err error) (*models.SubmissionResult, error) {
	failedIn := res.State
	res.State = models.StateFailed
	res.Error = err.Error()
	res.ErrorKind = models.KindOf(err)

	outcome := "failed"
	switch {
	case res.Created:
		outcome = "partial"
		log.Error("order created but posting failed", "order_id", res.OrderID, "error", err)
	case errors.Is(err, models.ErrMissingToken):
		outcome = "missing_token"
		log.Warn("submission rejected", "error", err)
	case errors.Is(err, models.ErrSubmissionInFlight), errors.Is(err, models.ErrDraftChanged):
		outcome = "in_flight"
		log.Warn("submission rejected", "error", err)
	default:
		log.Error("submission failed", "state", failedIn, "error", err)
	}
	submissionsTotal.WithLabelValues(outcome).Inc()

	return res, err
}

// release frees the guard even when the request context is already done
func (c *Coordinator) release(ctx context.Context, log *slog.Logger, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := c.guard.Release(ctx, key); err != nil {
		log.Error("failed to release submission guard", "error", err)
	}
}

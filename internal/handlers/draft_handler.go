package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/service"
	"github.com/shopspring/decimal"
)

// DraftHandler handles the order draft and its submission
type DraftHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(orderService *service.OrderService, log *slog.Logger) *DraftHandler {
	return &DraftHandler{
		orderService: orderService,
		log:          log,
	}
}

type customerRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
}

type updateItemRequest struct {
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	Quantity        *int             `json:"quantity"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

type updateDraftRequest struct {
	OrganizationID *int64           `json:"organization_id"`
	WarehouseID    *int64           `json:"warehouse_id"`
	PriceTypeID    *int64           `json:"price_type_id"`
	PayboxID       *int64           `json:"paybox_id"`
	ClearPaybox    bool             `json:"clear_paybox"`
	Priority       *int             `json:"priority"`
	PaidCash       *decimal.Decimal `json:"paid_cash"`
	PaidCredit     *decimal.Decimal `json:"paid_credit"`
}

// GetDraft handles GET /api/draft
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.orderService.Draft(), h.log)
}

// ResetDraft handles DELETE /api/draft
func (h *DraftHandler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.orderService.Reset(), h.log)
}

// UpdateDraft handles PATCH /api/draft
func (h *DraftHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req updateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode draft update", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	view, err := h.orderService.Apply(order.Update{
		OrganizationID: req.OrganizationID,
		WarehouseID:    req.WarehouseID,
		PriceTypeID:    req.PriceTypeID,
		PayboxID:       req.PayboxID,
		ClearPaybox:    req.ClearPaybox,
		Priority:       req.Priority,
		PaidCash:       req.PaidCash,
		PaidCredit:     req.PaidCredit,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// SelectCustomer handles PUT /api/draft/customer
func (h *DraftHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	view, err := h.orderService.SelectCustomer(r.Context(), req.CustomerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// ClearCustomer handles DELETE /api/draft/customer
func (h *DraftHandler) ClearCustomer(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.orderService.ClearCustomer(), h.log)
}

// AddItem handles POST /api/draft/items
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	view, err := h.orderService.AddProduct(r.Context(), req.ProductID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// UpdateItem handles PATCH /api/draft/items/{productId}
func (h *DraftHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := int64Param(r, "productId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	view, err := h.orderService.UpdateItem(productID, order.ItemUpdate{
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// RemoveItem handles DELETE /api/draft/items/{productId}
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := int64Param(r, "productId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	view, err := h.orderService.RemoveItem(productID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// Submit handles POST /api/draft/submit.
// The body is optional, an empty body creates the order without posting it.
// A created order that could not be posted is answered with 207.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var opts service.SubmitOptions
	if err := decodeJSON(r, &opts); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	result, err := h.orderService.Submit(r.Context(), opts)
	if err != nil {
		// error_kind keeps the cause, error carries the operator message
		status, message := errorResponse(err)
		if result.Partial() {
			status = http.StatusMultiStatus
			message = "Order was created but could not be posted"
		}
		result.Error = message
		WriteJSON(w, status, result, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
	h.log.Info("order submitted", "attempt_id", result.AttemptID, "order_id", result.OrderID, "state", result.State)
}

func (h *DraftHandler) writeServiceError(w http.ResponseWriter, err error) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("draft request failed", "error", err)
	}
	WriteError(w, status, message, h.log)
}

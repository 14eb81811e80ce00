package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/search"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/service"
)

// CatalogHandler handles directory loading and candidate search
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// DirectoryResponse carries the option lists and the size of every list.
// Products and customers are reached through search.
type DirectoryResponse struct {
	Organizations []models.Option         `json:"organizations"`
	Warehouses    []models.Option         `json:"warehouses"`
	PriceTypes    []models.Option         `json:"price_types"`
	Payboxes      []models.Option         `json:"payboxes"`
	Counts        models.DirectorySummary `json:"counts"`
}

// LoadDirectory handles POST /api/directory/load
func (h *CatalogHandler) LoadDirectory(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Load(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary, h.logger)
}

// GetDirectory handles GET /api/directory
func (h *CatalogHandler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := h.service.Directory(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, DirectoryResponse{
		Organizations: dir.Organizations,
		Warehouses:    dir.Warehouses,
		PriceTypes:    dir.PriceTypes,
		Payboxes:      dir.Payboxes,
		Counts:        dir.Summary(),
	}, h.logger)
}

// SearchCustomers handles GET /api/customers?phone=
func (h *CatalogHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	customers, err := h.service.SearchCustomers(r.Context(), phone)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.logger.Debug("customer search", "digits", search.Digits(phone), "matches", len(customers))

	WriteJSON(w, http.StatusOK, customers, h.logger)
}

// SearchProducts handles GET /api/products?q=
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

func (h *CatalogHandler) writeServiceError(w http.ResponseWriter, err error) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("catalog request failed", "error", err)
	}
	WriteError(w, status, message, h.logger)
}

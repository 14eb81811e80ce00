package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/session"
)

// OrderService handles the draft of the operator session and its submission
type OrderService struct {
	session     *session.Session
	catalog     *CatalogService
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(sess *session.Session, catalog *CatalogService, coordinator *Coordinator, logger *slog.Logger) *OrderService {
	return &OrderService{
		session:     sess,
		catalog:     catalog,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Draft returns the current draft
func (s *OrderService) Draft() order.View {
	return s.session.Draft()
}

// Reset discards the current draft
func (s *OrderService) Reset() order.View {
	return s.session.Reset()
}

// SelectCustomer attaches a loaded customer to the draft
func (s *OrderService) SelectCustomer(ctx context.Context, customerID int64) (order.View, error) {
	customer, err := s.catalog.GetCustomer(ctx, customerID)
	if err != nil {
		return s.session.Draft(), err
	}

	view, _ := s.session.Update(func(d *order.Draft) error {
		d.SelectCustomer(*customer)
		return nil
	})
	s.logger.Info("customer selected", "draft_id", view.ID, "customer_id", customer.ID)
	return view, nil
}

// ClearCustomer detaches the customer from the draft
func (s *OrderService) ClearCustomer() order.View {
	view, _ := s.session.Update(func(d *order.Draft) error {
		d.ClearCustomer()
		return nil
	})
	return view
}

// AddProduct adds a loaded product to the draft, incrementing its quantity
// when it is already there
func (s *OrderService) AddProduct(ctx context.Context, productID int64) (order.View, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return s.session.Draft(), err
	}

	return s.session.Update(func(d *order.Draft) error {
		d.AddProduct(*product)
		return nil
	})
}

// UpdateItem edits price, quantity or discount of a line
func (s *OrderService) UpdateItem(productID int64, u order.ItemUpdate) (order.View, error) {
	return s.session.Update(func(d *order.Draft) error {
		_, err := d.UpdateItem(productID, u)
		return err
	})
}

// RemoveItem drops a line from the draft
func (s *OrderService) RemoveItem(productID int64) (order.View, error) {
	return s.session.Update(func(d *order.Draft) error {
		return d.RemoveItem(productID)
	})
}

// Apply edits the draft header fields
func (s *OrderService) Apply(u order.Update) (order.View, error) {
	return s.session.Update(func(d *order.Draft) error {
		return d.Apply(u)
	})
}

// Submit sends the current draft. A completed non-dry-run submission
// discards the draft it was built from.
func (s *OrderService) Submit(ctx context.Context, opts SubmitOptions) (*models.SubmissionResult, error) {
	return s.coordinator.Submit(ctx, s.session.Token(), s.session, opts)
}

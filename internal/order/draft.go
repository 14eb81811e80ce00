package order

import (
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MaxPriority = 10

// Draft is the in-progress sales order of one operator session.
// It is not safe for concurrent use; the session serializes access.
type Draft struct {
	ID             uuid.UUID
	Customer       *models.Customer
	OrganizationID *int64
	WarehouseID    *int64
	PriceTypeID    *int64
	PayboxID       *int64
	Priority       int
	PaidCash       decimal.Decimal
	PaidCredit     decimal.Decimal

	items []LineItem
}

// NewDraft creates an empty draft
func NewDraft() *Draft {
	return &Draft{
		ID:    uuid.New(),
		items: make([]LineItem, 0),
	}
}

// Clone returns a deep copy, used to submit a stable snapshot while the
// operator keeps editing
func (d *Draft) Clone() *Draft {
	c := *d
	if d.Customer != nil {
		cust := *d.Customer
		c.Customer = &cust
	}
	c.OrganizationID = cloneID(d.OrganizationID)
	c.WarehouseID = cloneID(d.WarehouseID)
	c.PriceTypeID = cloneID(d.PriceTypeID)
	c.PayboxID = cloneID(d.PayboxID)
	c.items = d.Items()
	return &c
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// SelectCustomer attaches the customer the order is sold to
func (d *Draft) SelectCustomer(c models.Customer) {
	d.Customer = &c
}

// ClearCustomer submits the order without a matched customer
func (d *Draft) ClearCustomer() {
	d.Customer = nil
}

// Items returns a copy of the line items in insertion order
func (d *Draft) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// AddProduct appends a line for the product, or increments the quantity of
// the existing line when the product is already in the draft
func (d *Draft) AddProduct(p models.Product) LineItem {
	for i := range d.items {
		if d.items[i].ProductID == p.ID {
			d.items[i].Quantity++
			return d.items[i]
		}
	}

	li := newLineItem(p)
	d.items = append(d.items, li)
	return li
}

// UpdateItem applies operator edits to a line. Invalid edits leave the line untouched.
func (d *Draft) UpdateItem(productID int64, u ItemUpdate) (LineItem, error) {
	if err := u.validate(); err != nil {
		return LineItem{}, err
	}

	for i := range d.items {
		if d.items[i].ProductID == productID {
			d.items[i].apply(u)
			return d.items[i], nil
		}
	}
	return LineItem{}, ErrLineItemNotFound
}

// RemoveItem drops the line of the product
func (d *Draft) RemoveItem(productID int64) error {
	for i := range d.items {
		if d.items[i].ProductID == productID {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return nil
		}
	}
	return ErrLineItemNotFound
}

// Update carries header field edits; nil fields are left unchanged.
// Clear* flags reset an optional selection to "none".
type Update struct {
	OrganizationID *int64
	WarehouseID    *int64
	PriceTypeID    *int64
	PayboxID       *int64
	ClearPaybox    bool
	Priority       *int
	PaidCash       *decimal.Decimal
	PaidCredit     *decimal.Decimal
}

// Apply validates the whole update before changing anything
func (d *Draft) Apply(u Update) error {
	if u.Priority != nil && (*u.Priority < 0 || *u.Priority > MaxPriority) {
		return ErrInvalidPriority
	}
	if (u.PaidCash != nil && u.PaidCash.IsNegative()) || (u.PaidCredit != nil && u.PaidCredit.IsNegative()) {
		return ErrInvalidPayment
	}

	if u.OrganizationID != nil {
		d.OrganizationID = u.OrganizationID
	}
	if u.WarehouseID != nil {
		d.WarehouseID = u.WarehouseID
	}
	if u.PriceTypeID != nil {
		d.PriceTypeID = u.PriceTypeID
	}
	if u.PayboxID != nil {
		d.PayboxID = u.PayboxID
	}
	if u.ClearPaybox {
		d.PayboxID = nil
	}
	if u.Priority != nil {
		d.Priority = *u.Priority
	}
	if u.PaidCash != nil {
		d.PaidCash = *u.PaidCash
	}
	if u.PaidCredit != nil {
		d.PaidCredit = *u.PaidCredit
	}
	return nil
}

// View is the JSON shape of a draft shown to the operator
type View struct {
	ID             uuid.UUID        `json:"id"`
	Customer       *models.Customer `json:"customer"`
	OrganizationID *int64           `json:"organization_id"`
	WarehouseID    *int64           `json:"warehouse_id"`
	PriceTypeID    *int64           `json:"price_type_id"`
	PayboxID       *int64           `json:"paybox_id"`
	Priority       int              `json:"priority"`
	PaidCash       decimal.Decimal  `json:"paid_cash"`
	PaidCredit     decimal.Decimal  `json:"paid_credit"`
	Items          []LineView       `json:"items"`
	Total          string           `json:"total"`
}

// View renders the draft with display totals
func (d *Draft) View() View {
	return View{
		ID:             d.ID,
		Customer:       d.Customer,
		OrganizationID: d.OrganizationID,
		WarehouseID:    d.WarehouseID,
		PriceTypeID:    d.PriceTypeID,
		PayboxID:       d.PayboxID,
		Priority:       d.Priority,
		PaidCash:       d.PaidCash,
		PaidCredit:     d.PaidCredit,
		Items:          Lines(d.items),
		Total:          Display(OrderTotal(d.items)),
	}
}

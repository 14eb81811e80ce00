package order

import (
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/shopspring/decimal"
)

// PayloadBuilder maps a draft to the docs_sales creation batch
type PayloadBuilder struct {
	now func() time.Time
}

// NewPayloadBuilder creates a builder stamping documents with clock; nil means time.Now
func NewPayloadBuilder(clock func() time.Time) *PayloadBuilder {
	if clock == nil {
		clock = time.Now
	}
	return &PayloadBuilder{now: clock}
}

// Build returns a batch holding exactly one sales document for the draft.
// It performs no I/O.
func (b *PayloadBuilder) Build(d *Draft) []models.OrderCreateRequest {
	goods := make([]models.OrderGood, 0, len(d.items))
	for _, li := range d.items {
		goods = append(goods, buildGood(li))
	}

	var customerID *int64
	if d.Customer != nil {
		id := d.Customer.ID
		customerID = &id
	}

	doc := models.OrderCreateRequest{
		Dated:         b.now().Unix(),
		Operation:     models.OperationSalesOrder,
		TaxIncluded:   true,
		TaxActive:     true,
		Goods:         goods,
		Settings:      models.OrderSettings{DateNextCreated: nil},
		LoyaltyCardID: customerID,
		Warehouse:     d.WarehouseID,
		Contragent:    customerID,
		Paybox:        d.PayboxID,
		Organization:  d.OrganizationID,
		Status:        false,
		PaidRubles:    d.PaidCash.InexactFloat64(),
		PaidLt:        d.PaidCredit.InexactFloat64(),
		Priority:      d.Priority,
	}

	return []models.OrderCreateRequest{doc}
}

// buildGood computes the discount amount from the raw line fields.
// The remote schema calls it sum_discounted.
func buildGood(li LineItem) models.OrderGood {
	discountAmount := li.UnitPrice.
		Mul(decimal.NewFromInt(int64(li.Quantity))).
		Mul(li.DiscountPercent).
		Div(hundred)

	return models.OrderGood{
		Price:         li.UnitPrice.InexactFloat64(),
		Quantity:      li.Quantity,
		Unit:          li.Unit,
		Discount:      li.DiscountPercent.InexactFloat64(),
		SumDiscounted: discountAmount.InexactFloat64(),
		Nomenclature:  li.ProductID,
	}
}

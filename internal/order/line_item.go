package order

import (
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one product entry of a draft
type LineItem struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Unit            int64           `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// newLineItem seeds a line from the catalog. Catalog price and discount are
// clamped into range since they are not operator input.
func newLineItem(p models.Product) LineItem {
	price := p.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	discount := p.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(hundred) {
		discount = hundred
	}

	return LineItem{
		ProductID:       p.ID,
		Name:            p.Name,
		Unit:            p.Unit,
		UnitPrice:       price,
		Quantity:        1,
		DiscountPercent: discount,
	}
}

// ItemUpdate holds the operator edits of a line; nil fields are left unchanged
type ItemUpdate struct {
	UnitPrice       *decimal.Decimal
	Quantity        *int
	DiscountPercent *decimal.Decimal
}

func (u ItemUpdate) validate() error {
	if u.Quantity != nil && *u.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if u.UnitPrice != nil && u.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if u.DiscountPercent != nil && (u.DiscountPercent.IsNegative() || u.DiscountPercent.GreaterThan(hundred)) {
		return ErrInvalidDiscount
	}
	return nil
}

func (li *LineItem) apply(u ItemUpdate) {
	if u.UnitPrice != nil {
		li.UnitPrice = *u.UnitPrice
	}
	if u.Quantity != nil {
		li.Quantity = *u.Quantity
	}
	if u.DiscountPercent != nil {
		li.DiscountPercent = *u.DiscountPercent
	}
}

package order

import "github.com/shopspring/decimal"

// Base is unitPrice * quantity
func (li LineItem) Base() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Total is the base minus its percentage discount, unrounded
func (li LineItem) Total() decimal.Decimal {
	base := li.Base()
	return base.Sub(base.Mul(li.DiscountPercent).Div(hundred))
}

// OrderTotal sums the unrounded line totals
func OrderTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Total())
	}
	return total
}

// Display formats an amount with two decimals for the operator.
// The result is for presentation only and never flows into the payload.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LineView is a line item together with its display totals
type LineView struct {
	LineItem
	Base  string `json:"base"`
	Total string `json:"total"`
}

// Lines returns the display view of every line
func Lines(items []LineItem) []LineView {
	views := make([]LineView, 0, len(items))
	for _, li := range items {
		views = append(views, LineView{
			LineItem: li,
			Base:     Display(li.Base()),
			Total:    Display(li.Total()),
		})
	}
	return views
}

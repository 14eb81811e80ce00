package models

import "github.com/shopspring/decimal"

// Product is a catalog entry as returned by the remote nomenclature list.
// Missing fields decode to their zero values, a product without a name has Name "".
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Unit     int64           `json:"unit"`
	Discount decimal.Decimal `json:"discount"`
}

package models

import "time"

// Option is a selectable reference entry: organization, warehouse, price type or paybox
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Directory is one complete load of the remote reference lists
type Directory struct {
	Organizations []Option   `json:"organizations"`
	Warehouses    []Option   `json:"warehouses"`
	PriceTypes    []Option   `json:"price_types"`
	Payboxes      []Option   `json:"payboxes"`
	Products      []Product  `json:"products"`
	Customers     []Customer `json:"customers"`
	LoadedAt      time.Time  `json:"loaded_at"`
}

// DirectorySummary reports how many entries each list holds
type DirectorySummary struct {
	Organizations int       `json:"organizations"`
	Warehouses    int       `json:"warehouses"`
	PriceTypes    int       `json:"price_types"`
	Payboxes      int       `json:"payboxes"`
	Products      int       `json:"products"`
	Customers     int       `json:"customers"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// Summary returns the list sizes of the directory
func (d Directory) Summary() DirectorySummary {
	return DirectorySummary{
		Organizations: len(d.Organizations),
		Warehouses:    len(d.Warehouses),
		PriceTypes:    len(d.PriceTypes),
		Payboxes:      len(d.Payboxes),
		Products:      len(d.Products),
		Customers:     len(d.Customers),
		LoadedAt:      d.LoadedAt,
	}
}

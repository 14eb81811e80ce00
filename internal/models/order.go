package models

// OperationSalesOrder tags a docs_sales document as a sales order
const OperationSalesOrder = "Заказ"

// OrderCreateRequest is one element of the POST /docs_sales/ batch.
// Field names follow the remote schema, including its spelling of loyality_card_id.
type OrderCreateRequest struct {
	Dated         int64         `json:"dated"`
	Operation     string        `json:"operation"`
	TaxIncluded   bool          `json:"tax_included"`
	TaxActive     bool          `json:"tax_active"`
	Goods         []OrderGood   `json:"goods"`
	Settings      OrderSettings `json:"settings"`
	LoyaltyCardID *int64        `json:"loyality_card_id"`
	Warehouse     *int64        `json:"warehouse"`
	Contragent    *int64        `json:"contragent"`
	Paybox        *int64        `json:"paybox"`
	Organization  *int64        `json:"organization"`
	Status        bool          `json:"status"`
	PaidRubles    float64       `json:"paid_rubles"`
	PaidLt        float64       `json:"paid_lt"`
	Priority      int           `json:"priority"`
}

// OrderGood is a line of the sales document.
// SumDiscounted carries price*quantity*discount/100, the discount amount, despite its name.
type OrderGood struct {
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Unit          int64   `json:"unit"`
	Discount      float64 `json:"discount"`
	SumDiscounted float64 `json:"sum_discounted"`
	Nomenclature  int64   `json:"nomenclature"`
}

type OrderSettings struct {
	DateNextCreated *int64 `json:"date_next_created"`
}

// StatusUpdate is the body of PATCH /docs_sales/{id}/status
type StatusUpdate struct {
	Status bool `json:"status"`
}

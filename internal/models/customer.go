package models

// Customer is a counterparty ("contragent") snapshot from the remote directory
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

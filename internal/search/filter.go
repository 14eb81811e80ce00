package search

import (
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
)

// Digits strips everything but ASCII digits, so "+7 (900) 123-45-67" becomes "79001234567"
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Customers returns the customers whose digits-only phone contains the digits of query.
// Input order is preserved; a query without digits matches everyone.
func Customers(all []models.Customer, query string) []models.Customer {
	q := Digits(query)

	out := make([]models.Customer, 0, len(all))
	for _, c := range all {
		if strings.Contains(Digits(c.Phone), q) {
			out = append(out, c)
		}
	}
	return out
}

// Products returns the products whose name contains query, ignoring case
func Products(all []models.Product, query string) []models.Product {
	q := strings.ToLower(query)

	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

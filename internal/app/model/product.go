package model

import "github.com/shopspring/decimal"

// Product is a catalog entity (a "solution" upstream).
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cover       string          `json:"cover"`
	Inventory   int             `json:"inventory"`
}

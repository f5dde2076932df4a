package model

import (
	"github.com/saascom/storefront-gateway/pkg/money"
	"github.com/shopspring/decimal"
)

func init() {
	// The upstream API exchanges prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartLine is one product entry in a user's cart. Title, description, cover
// and unit price are a snapshot of catalog data taken at the last sync; they
// are not authoritative.
type CartLine struct {
	// LineID is assigned by the remote cart service; zero until the create
	// call returns.
	LineID      int64           `json:"id"`
	ProductID   int64           `json:"solutionId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CoverURL    string          `json:"cover"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"amount"`
	LineTotal   decimal.Decimal `json:"total"`
}

// Recompute derives LineTotal from the current unit price and quantity.
func (l *CartLine) Recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartState is the full in-memory cart for one session.
type CartState struct {
	Lines      []CartLine `json:"lines"`
	GrandTotal string     `json:"grandTotal"`
	IsLoading  bool       `json:"loading"`
}

// GrandTotal sums line totals over the given lines and formats the result as
// localized currency text.
func GrandTotal(lines []CartLine) string {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LineTotal)
	}
	return money.FormatBRL(sum)
}

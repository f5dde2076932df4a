package cart

import (
	"context"
	"strconv"
	"sync"

	"github.com/saascom/storefront-gateway/internal/app/model"
	"github.com/saascom/storefront-gateway/pkg/logger"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Joiner enriches cart rows with catalog data. Lookups run in parallel, one
// row's failure never aborts the others, and concurrent fetches of the same
// solution are collapsed into a single upstream call.
type Joiner struct {
	catalog CatalogAPI
	group   singleflight.Group
}

// NewJoiner creates a Joiner over the given catalog lookup
func NewJoiner(catalog CatalogAPI) *Joiner {
	return &Joiner{catalog: catalog}
}

// JoinLine combines one cart row with its catalog entity into a display-ready
// cart line. Pure function of its inputs.
func JoinLine(row storeapi.CartRow, solution *storeapi.Solution) model.CartLine {
	line := model.CartLine{
		LineID:      row.ID,
		ProductID:   row.SolutionID,
		Title:       solution.Title,
		Description: solution.Description,
		CoverURL:    solution.Cover,
		UnitPrice:   solution.Price,
		Quantity:    row.Amount,
	}
	line.LineTotal = solution.Price.Mul(decimal.NewFromInt(int64(row.Amount)))
	return line
}

func (j *Joiner) fetchSolution(ctx context.Context, id int64) (*storeapi.Solution, error) {
	v, err, _ := j.group.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		return j.catalog.GetSolution(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*storeapi.Solution), nil
}

// Join resolves every row against the catalog and returns the joined lines in
// row order. Rows whose catalog lookup fails are skipped and logged.
func (j *Joiner) Join(ctx context.Context, rows []storeapi.CartRow) []model.CartLine {
	joined := make([]*model.CartLine, len(rows))

	var wg sync.WaitGroup
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row storeapi.CartRow) {
			defer wg.Done()
			solution, err := j.fetchSolution(ctx, row.SolutionID)
			if err != nil {
				logger.Warn("Skipping cart row: catalog lookup failed", map[string]interface{}{
					"cart_row_id": row.ID,
					"solution_id": row.SolutionID,
					"error":       err.Error(),
				})
				return
			}
			line := JoinLine(row, solution)
			joined[i] = &line
		}(i, row)
	}
	wg.Wait()

	lines := make([]model.CartLine, 0, len(rows))
	for _, line := range joined {
		if line != nil {
			lines = append(lines, *line)
		}
	}
	return lines
}

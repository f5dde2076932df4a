package cart

import (
	"context"

	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

// CartAPI is the slice of the upstream client the synchronizer depends on.
type CartAPI interface {
	ListCart(ctx context.Context, userID int64) ([]storeapi.CartRow, error)
	CreateCartItem(ctx context.Context, req storeapi.CreateCartItemRequest) (*storeapi.CartRow, error)
	UpdateCartItemAmount(ctx context.Context, id int64, amount int) (*storeapi.CartRow, error)
	DeleteCartItem(ctx context.Context, id int64) error
}

// CatalogAPI is the catalog lookup used by the join.
type CatalogAPI interface {
	GetSolution(ctx context.Context, id int64) (*storeapi.Solution, error)
}

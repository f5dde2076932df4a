package storeapi

import "github.com/shopspring/decimal"

// CartRow is a durable cart row as stored by the upstream cart service.
type CartRow struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	SolutionID int64  `json:"solutionId"`
	Amount     int    `json:"amount"`
	Status     bool   `json:"status"`
	Delivery   string `json:"delivery"`
}

// CreateCartItemRequest is the POST /cart body.
type CreateCartItemRequest struct {
	UserID     int64  `json:"userId"`
	SolutionID int64  `json:"solutionId"`
	Amount     int    `json:"amount"`
	Status     bool   `json:"status"`
	Delivery   string `json:"delivery"`
}

// UpdateCartItemRequest is the PUT /cart/{id} body.
type UpdateCartItemRequest struct {
	Amount int `json:"amount"`
}

// Solution is a catalog entity.
type Solution struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cover       string          `json:"cover"`
	Inventory   int             `json:"inventory"`
}

// SolutionRequest is the body for catalog create/update calls.
type SolutionRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cover       string          `json:"cover"`
	Inventory   int             `json:"inventory"`
	CategoryID  int64           `json:"categoryId,omitempty"`
}

// Category is a catalog category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRequest is the POST /category body.
type CategoryRequest struct {
	Name string `json:"name"`
}

// User is the identity resolved from a session token.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// errorResponse is the upstream error envelope, when one is present.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

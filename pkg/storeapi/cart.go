package storeapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListCart fetches all cart rows for the given user
func (c *Client) ListCart(ctx context.Context, userID int64) ([]CartRow, error) {
	var rows []CartRow
	if err := c.get(ctx, fmt.Sprintf("/cart/%d", userID), &rows); err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return rows, nil
}

// CreateCartItem creates a cart row and returns it with the server-assigned id
func (c *Client) CreateCartItem(ctx context.Context, req CreateCartItemRequest) (*CartRow, error) {
	var row CartRow
	if err := c.send(ctx, http.MethodPost, "/cart", req, &row); err != nil {
		return nil, fmt.Errorf("failed to create cart item: %w", err)
	}
	return &row, nil
}

// UpdateCartItemAmount updates the quantity of an existing cart row
func (c *Client) UpdateCartItemAmount(ctx context.Context, id int64, amount int) (*CartRow, error) {
	var row CartRow
	req := UpdateCartItemRequest{Amount: amount}
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", id), req, &row); err != nil {
		return nil, fmt.Errorf("failed to update cart item %d: %w", id, err)
	}
	return &row, nil
}

// DeleteCartItem removes a cart row
func (c *Client) DeleteCartItem(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, err)
	}
	return nil
}

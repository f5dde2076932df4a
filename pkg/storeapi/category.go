package storeapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListCategories fetches all catalog categories
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/category", &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory registers a new catalog category
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var category Category
	if err := c.send(ctx, http.MethodPost, "/category", CategoryRequest{Name: name}, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

package storeapi

import (
	"context"
	"fmt"
	"net/http"
)

// GetSolution fetches one catalog entity by id
func (c *Client) GetSolution(ctx context.Context, id int64) (*Solution, error) {
	var solution Solution
	if err := c.get(ctx, fmt.Sprintf("/solution/%d", id), &solution); err != nil {
		return nil, fmt.Errorf("failed to get solution %d: %w", id, err)
	}
	return &solution, nil
}

// ListSolutions fetches the whole catalog
func (c *Client) ListSolutions(ctx context.Context) ([]Solution, error) {
	var solutions []Solution
	if err := c.get(ctx, "/solution", &solutions); err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	return solutions, nil
}

// CreateSolution registers a new catalog entity
func (c *Client) CreateSolution(ctx context.Context, req SolutionRequest) (*Solution, error) {
	var solution Solution
	if err := c.send(ctx, http.MethodPost, "/solution", req, &solution); err != nil {
		return nil, fmt.Errorf("failed to create solution: %w", err)
	}
	return &solution, nil
}

// UpdateSolution updates an existing catalog entity
func (c *Client) UpdateSolution(ctx context.Context, id int64, req SolutionRequest) (*Solution, error) {
	var solution Solution
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/solution/%d", id), req, &solution); err != nil {
		return nil, fmt.Errorf("failed to update solution %d: %w", id, err)
	}
	return &solution, nil
}

// DeleteSolution removes a catalog entity
func (c *Client) DeleteSolution(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/solution/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete solution %d: %w", id, err)
	}
	return nil
}

package storeapi

import (
	"context"
	"fmt"
)

// Me resolves the client's session token to a user identity. The upstream
// answers 401 for a missing, invalid or expired token, surfaced here as
// ErrUnauthorized.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/meauth", &user); err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return &user, nil
}

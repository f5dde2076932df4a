package storeapi

import (
	"fmt"
	"time"
)

// Config represents the configuration for the SAASCOM API client
type Config struct {
	// BaseURL is the upstream API base URL
	BaseURL string

	// Timeout bounds every request; zero means the default of 30s
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	return nil
}

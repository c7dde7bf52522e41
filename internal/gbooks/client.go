package gbooks

import (
	"github.com/billmal071/booksearch/internal/config"
)

// NewClient creates an HTTP client from the network settings in config
func NewClient() *HTTPClient {
	cfg := config.Get()

	return NewHTTPClient(ClientOptions{
		ConnectTimeout: cfg.Network.ConnectTimeout,
		ReadTimeout:    cfg.Network.ReadTimeout,
		UserAgent:      cfg.Network.UserAgent,
	})
}

// GetEndpoint returns the configured search endpoint
func GetEndpoint() string {
	cfg := config.Get()
	if cfg.API.Endpoint != "" {
		return cfg.API.Endpoint
	}
	return DefaultEndpoint
}

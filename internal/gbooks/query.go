package gbooks

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultEndpoint is the public volumes search endpoint
	DefaultEndpoint = "https://www.googleapis.com/books/v1/volumes"
	// DefaultMaxResults caps the number of volumes requested per search
	DefaultMaxResults = 10
)

// EncodeQuery prepares user input for the q parameter.
// Surrounding whitespace is dropped and interior spaces become '+'.
func EncodeQuery(input string) string {
	return url.QueryEscape(strings.TrimSpace(input))
}

// SearchURL builds a volumes search URL from an already encoded query
func SearchURL(endpoint, encodedQuery string, maxResults int) string {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return fmt.Sprintf("%s?q=%s&maxResults=%d", endpoint, encodedQuery, maxResults)
}

package gbooks

import (
	"context"
	"encoding/json"
)

// UnknownAuthor is shown for volumes that list no authors
const UnknownAuthor = "N/A"

// Book is a single catalog entry. Its fields are fixed at construction.
type Book struct {
	author string
	title  string
}

// NewBook creates a Book, substituting UnknownAuthor for an empty author
func NewBook(author, title string) Book {
	if author == "" {
		author = UnknownAuthor
	}
	return Book{author: author, title: title}
}

// Author returns the first listed author, or UnknownAuthor
func (b Book) Author() string { return b.author }

// Title returns the volume title
func (b Book) Title() string { return b.title }

func (b Book) String() string {
	return b.title + " by " + b.author
}

// MarshalJSON encodes the book as {"author": ..., "title": ...}
func (b Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Author string `json:"author"`
		Title  string `json:"title"`
	}{b.author, b.title})
}

// Decoded is the outcome of a successful decode
type Decoded struct {
	Books []Book
	// Skipped counts items dropped because they could not be read
	Skipped int
}

//go:generate mockgen -destination=../../mocks/mock_fetcher.go -package=mocks github.com/billmal071/booksearch/internal/gbooks Fetcher

// Fetcher retrieves the body of a URL as text
type Fetcher interface {
	// Get performs a GET request and returns the response body
	Get(ctx context.Context, url string) (string, error)
}

// volumesResponse mirrors the parts of the volumes payload we read
type volumesResponse struct {
	TotalItems *int              `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

type volume struct {
	VolumeInfo *struct {
		Title   *string  `json:"title"`
		Authors []string `json:"authors"`
	} `json:"volumeInfo"`
}

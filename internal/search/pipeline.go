package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/billmal071/booksearch/internal/gbooks"
	"github.com/billmal071/booksearch/internal/logging"
)

// ErrEmptyQuery is returned for blank input. No request is made.
var ErrEmptyQuery = errors.New("empty search query")

// Outcome classifies a search result
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeEmpty        Outcome = "empty"
	OutcomeInvalidInput Outcome = "invalid_input"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeNoData       Outcome = "no_data"
	OutcomeDecodeError  Outcome = "decode_error"
	OutcomeError        Outcome = "error"
)

// Result is what one search produced.
// Books is never nil; it is empty whenever Err is set.
type Result struct {
	Query   string
	URL     string
	Books   []gbooks.Book
	Skipped int
	Err     error
}

// Outcome reports how the search ended
func (r Result) Outcome() Outcome {
	var netErr *gbooks.NetworkError
	var decErr *gbooks.DecodeError

	switch {
	case r.Err == nil && len(r.Books) == 0:
		return OutcomeEmpty
	case r.Err == nil:
		return OutcomeOK
	case errors.Is(r.Err, ErrEmptyQuery):
		return OutcomeInvalidInput
	case errors.As(r.Err, &netErr):
		return OutcomeNetworkError
	case errors.Is(r.Err, gbooks.ErrNoData):
		return OutcomeNoData
	case errors.As(r.Err, &decErr):
		return OutcomeDecodeError
	}
	return OutcomeError
}

// Failed reports whether the search failed for a reason other than input
func (r Result) Failed() bool {
	return r.Err != nil && !errors.Is(r.Err, ErrEmptyQuery)
}

// Pipeline turns user input into books: build URL, fetch, decode
type Pipeline struct {
	fetcher    gbooks.Fetcher
	endpoint   string
	maxResults int
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithEndpoint overrides the search endpoint
func WithEndpoint(endpoint string) Option {
	return func(p *Pipeline) { p.endpoint = endpoint }
}

// WithMaxResults overrides the result count cap
func WithMaxResults(n int) Option {
	return func(p *Pipeline) { p.maxResults = n }
}

// New creates a pipeline that fetches through f
func New(f gbooks.Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    f,
		endpoint:   gbooks.DefaultEndpoint,
		maxResults: gbooks.DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// URL returns the request URL for input
func (p *Pipeline) URL(input string) string {
	return gbooks.SearchURL(p.endpoint, gbooks.EncodeQuery(input), p.maxResults)
}

// Search runs the pipeline once. It never panics on bad responses and does
// not retry; every failure is reported through Result.Err.
func (p *Pipeline) Search(ctx context.Context, input string) Result {
	res := p.search(ctx, input)
	searchesTotal.WithLabelValues(string(res.Outcome())).Inc()
	return res
}

func (p *Pipeline) search(ctx context.Context, input string) Result {
	query := strings.TrimSpace(input)
	res := Result{Query: query, Books: []gbooks.Book{}}
	if query == "" {
		res.Err = ErrEmptyQuery
		return res
	}
	res.URL = p.URL(query)

	log := logging.For(ctx).WithFields(logrus.Fields{"query": query, "url": res.URL})
	defer logging.Track(ctx, "search "+query)()

	start := time.Now()
	body, err := p.fetcher.Get(ctx, res.URL)
	fetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.WithError(err).Warn("search request failed")
		res.Err = err
		return res
	}

	decoded, err := gbooks.Decode(body)
	if err != nil {
		log.WithError(err).Warn("could not decode search response")
		res.Err = err
		return res
	}

	if decoded.Skipped > 0 {
		skippedItems.Add(float64(decoded.Skipped))
		log.WithField("skipped", decoded.Skipped).Warn("skipped unreadable items")
	}
	for _, b := range decoded.Books {
		log.Debugf("decoded %s", b)
	}

	res.Books = decoded.Books
	res.Skipped = decoded.Skipped
	return res
}

// Go runs Search on its own goroutine. The channel yields exactly one
// result and is then closed.
func (p *Pipeline) Go(ctx context.Context, input string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- p.Search(ctx, input)
	}()
	return ch
}

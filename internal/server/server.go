package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/billmal071/booksearch/internal/gbooks"
	"github.com/billmal071/booksearch/internal/logging"
	"github.com/billmal071/booksearch/internal/search"
)

// Searcher runs one search
type Searcher interface {
	Search(ctx context.Context, input string) search.Result
}

// Server exposes the search pipeline over HTTP
type Server struct {
	searcher Searcher
	group    singleflight.Group
	router   *mux.Router
}

// SearchResponse is the body of /api/search
type SearchResponse struct {
	Query   string        `json:"query"`
	URL     string        `json:"url,omitempty"`
	Outcome string        `json:"outcome"`
	Books   []gbooks.Book `json:"books"`
	Skipped int           `json:"skipped,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// New creates a server backed by s
func New(s Searcher) *Server {
	srv := &Server{searcher: s}

	r := mux.NewRouter()
	r.Use(RequestID, RequestLogger)
	r.HandleFunc("/api/search", srv.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	srv.router = r

	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, SearchResponse{
			Outcome: string(search.OutcomeInvalidInput),
			Books:   []gbooks.Book{},
			Error:   search.ErrEmptyQuery.Error(),
		})
		return
	}

	// identical in-flight queries share one upstream request
	ch := s.group.DoChan(query, func() (interface{}, error) {
		ctx := logging.ContextWithID(context.Background(), requestIDFrom(r.Context()))
		return s.searcher.Search(ctx, query), nil
	})

	var res search.Result
	select {
	case out := <-ch:
		res = out.Val.(search.Result)
	case <-r.Context().Done():
		return
	}

	status := http.StatusOK
	if res.Err != nil {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, NewSearchResponse(res))
}

// NewSearchResponse converts a pipeline result to its JSON form
func NewSearchResponse(res search.Result) SearchResponse {
	resp := SearchResponse{
		Query:   res.Query,
		URL:     res.URL,
		Outcome: string(res.Outcome()),
		Books:   res.Books,
		Skipped: res.Skipped,
	}
	if resp.Books == nil {
		resp.Books = []gbooks.Book{}
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.For(context.Background()).WithError(err).Warn("write response")
	}
}

// ListenAndServe serves s on addr until ctx is done
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

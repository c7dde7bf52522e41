package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/billmal071/booksearch/internal/config"
	"github.com/billmal071/booksearch/internal/db"
	"github.com/billmal071/booksearch/internal/gbooks"
	"github.com/billmal071/booksearch/internal/logging"
	"github.com/billmal071/booksearch/internal/search"
	"github.com/billmal071/booksearch/internal/server"
	"github.com/billmal071/booksearch/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for books",
	Long: `Search the catalog for books matching the query.

By default the search screen opens with the query filled in and the search
already running. Use --no-interactive to print the results instead.

Examples:
  booksearch search dune
  booksearch search "the hobbit"
  booksearch search --no-interactive "frank herbert"
  booksearch search --json dune`,
	RunE:              runSearch,
	ValidArgsFunction: completeHistoryQueries,
}

func init() {
	searchCmd.Flags().Bool("no-interactive", false, "disable interactive mode, just print results")
	searchCmd.Flags().Bool("json", false, "print results as JSON (implies --no-interactive)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	asJSON, _ := cmd.Flags().GetBool("json")

	if !noInteractive && !asJSON {
		return runScreen(cmd.Context(), query)
	}

	if strings.TrimSpace(query) == "" {
		return errors.New(tui.EmptyInputMessage)
	}

	p := newPipeline()
	Printf("Searching for: %s\n", query)
	Printf("URL: %s\n", p.URL(query))

	var res search.Result
	if asJSON {
		res = p.Search(cmd.Context(), query)
	} else {
		res = searchWithSpinner(cmd.Context(), p, query)
	}
	recordHistory(res)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(server.NewSearchResponse(res))
	}

	printResult(os.Stdout, res)
	return nil
}

// newPipeline builds the search pipeline from config
func newPipeline() *search.Pipeline {
	cfg := config.Get()
	return search.New(
		gbooks.NewClient(),
		search.WithEndpoint(gbooks.GetEndpoint()),
		search.WithMaxResults(cfg.API.MaxResults),
	)
}

// runScreen opens the search screen. Logs go to the log file while it is open.
func runScreen(ctx context.Context, query string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logPath := config.Get().Log.File
	f, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	defer f.Close()
	logging.Init("", f)
	defer logging.Init("", os.Stderr)

	p := newPipeline()
	return tui.RunScreen(ctx, tui.ScreenOptions{
		Search:   p.Search,
		OnResult: recordHistory,
		Query:    query,
	})
}

// searchWithSpinner runs the search in the background while a spinner spins on stderr
func searchWithSpinner(ctx context.Context, p *search.Pipeline, query string) search.Result {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Searching..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	ch := p.Go(ctx, query)
	for {
		select {
		case res := <-ch:
			_ = bar.Finish()
			return res
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// recordHistory saves a finished search when history is enabled
func recordHistory(res search.Result) {
	if !db.IsOpen() || errors.Is(res.Err, search.ErrEmptyQuery) {
		return
	}
	if err := db.AddSearchHistory(res.Query, len(res.Books), string(res.Outcome())); err != nil {
		logging.For(context.Background()).WithFields(logrus.Fields{
			"query": res.Query,
		}).WithError(err).Warn("could not save search history")
	}
}

// printResult prints books in a simple format
func printResult(w io.Writer, res search.Result) {
	if len(res.Books) == 0 {
		fmt.Fprintln(w, tui.EmptyMessage)
		if res.Failed() {
			fmt.Fprintf(os.Stderr, "(search failed: %v)\n", res.Err)
		}
		return
	}

	for i, book := range res.Books {
		fmt.Fprintf(w, "%d. %s\n", i+1, book.Title())
		fmt.Fprintf(w, "   Author: %s\n", book.Author())
	}
	if res.Skipped > 0 {
		fmt.Fprintf(w, "\n%d unreadable result(s) skipped\n", res.Skipped)
	}
}

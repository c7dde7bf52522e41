package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billmal071/booksearch/internal/config"
	"github.com/billmal071/booksearch/internal/db"
	"github.com/billmal071/booksearch/internal/tui"
)

var errHistoryDisabled = errors.New("search history is disabled (enable with: booksearch config set history.enabled true)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View and manage search history",
	Long: `View and manage your search history.

History is off by default. Turn it on with:
  booksearch config set history.enabled true

Examples:
  booksearch history              List recent searches
  booksearch history pick         Pick a past search and run it again
  booksearch history clear        Clear all search history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSearchHistoryWithLimit(config.Get().History.Limit)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !db.IsOpen() {
			return errHistoryDisabled
		}

		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan > 0 {
			if err := db.DeleteSearchHistoryOlderThan(olderThan); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			Successf("Removed searches older than %s.", olderThan)
			return nil
		}

		if err := db.ClearSearchHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		Successf("Search history cleared.")
		return nil
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")
		if all {
			return showAllSearchHistory(limit)
		}
		return showSearchHistoryWithLimit(limit)
	},
}

var historyPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a past search and run it again",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !db.IsOpen() {
			return errHistoryDisabled
		}
		history, err := db.GetUniqueSearchHistory(config.Get().History.Limit)
		if err != nil {
			return fmt.Errorf("failed to get search history: %w", err)
		}

		selected, err := tui.RunHistorySelector(history)
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}
		if selected == nil {
			return nil // User cancelled
		}

		return runScreen(cmd.Context(), selected.Query)
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "number of entries to show")
	historyListCmd.Flags().Bool("all", false, "include repeated searches")
	historyClearCmd.Flags().Duration("older-than", 0, "only remove searches older than this (e.g. 720h)")

	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPickCmd)
}

// showSearchHistoryWithLimit shows history with a custom limit
func showSearchHistoryWithLimit(limit int) error {
	if !db.IsOpen() {
		return errHistoryDisabled
	}

	history, err := db.GetUniqueSearchHistory(limit)
	if err != nil {
		return fmt.Errorf("failed to get search history: %w", err)
	}

	printHistory(history)
	return nil
}

// showAllSearchHistory lists every saved search, repeats included
func showAllSearchHistory(limit int) error {
	if !db.IsOpen() {
		return errHistoryDisabled
	}

	history, err := db.GetSearchHistory(limit)
	if err != nil {
		return fmt.Errorf("failed to get search history: %w", err)
	}

	printHistory(history)
	return nil
}

func printHistory(history []*db.SearchHistory) {
	if len(history) == 0 {
		fmt.Println("No search history.")
		fmt.Println("\nSearches are saved automatically while history is enabled.")
		return
	}

	fmt.Printf("Recent Searches (%d):\n\n", len(history))

	for i, h := range history {
		fmt.Printf("  %d. \"%s\" (%d results)\n", i+1, h.Query, h.ResultCount)
		if h.Outcome != "" && h.Outcome != "ok" {
			fmt.Printf("     Outcome: %s\n", h.Outcome)
		}
		fmt.Printf("     %s\n\n", h.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

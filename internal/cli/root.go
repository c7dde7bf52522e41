package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billmal071/booksearch/internal/config"
	"github.com/billmal071/booksearch/internal/db"
	"github.com/billmal071/booksearch/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "booksearch",
	Short: "Search the Google Books catalog",
	Long: `booksearch is a terminal client for the Google Books catalog.

Type a keyword, press enter, and browse the matching titles and authors.

Examples:
  booksearch                              Open the search screen
  booksearch search "the hobbit"          Open the screen and search right away
  booksearch search --no-interactive dune Print results and exit
  booksearch history                      List recent searches
  booksearch serve                        Serve searches over HTTP`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize config
		if err := config.Init(cfgFile); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		cfg := config.Get()
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Init(level, os.Stderr); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}

		// History is opt-in
		if cfg.History.Enabled {
			if err := db.Init(); err != nil {
				return fmt.Errorf("failed to initialize history database: %w", err)
			}
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		db.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen(cmd.Context(), "")
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/booksearch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// Printf prints if verbose mode is enabled
func Printf(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Successf prints a success message
func Successf(format string, args ...interface{}) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// Package cli implements the thisismy CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/config"
	"github.com/rcliao/thisismy/internal/logging"
	"github.com/rcliao/thisismy/internal/store"
)

var (
	cfgFile    string
	dbPath     string
	formatFlag string
	verbose    bool

	cfg    *config.Config
	logger zerolog.Logger
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "thisismy",
	Short: "Assemble files, URLs and notes into one briefing",
	Long: "Collect files, directories, web pages, notes and captures into an ordered briefing " +
		"and render it as a single text block for pasting into a chat. The current briefing " +
		"is kept in a SQLite session between invocations.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadConfig()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .thisismy/config.yaml or ~/.thisismy/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $THISISMY_DB_PATH or ~/.thisismy/thisismy.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func loadConfig() {
	c, err := config.Load(cfgFile)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		c.DB.Path = dbPath
	}
	cfg = c
	logger = logging.Setup(cfg.Logging, os.Stderr)
	if verbose {
		logging.Verbose()
	}
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DB.Path)
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

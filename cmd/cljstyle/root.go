package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aclev/cljstyle/internal/cli"
	"github.com/aclev/cljstyle/internal/cli/config"
	"github.com/aclev/cljstyle/pkg/styler"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile     string
	profileName string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cljstyle [paths...]",
	Short: "Checks and reformats Clojure source trees.",
	Long: `cljstyle recursively scans source directories, checks Clojure and EDN
files against the effective style rules, and optionally rewrites them in place.

It features:
  - Parallel subtree traversal for speed.
  - Per-directory rule overrides (.cljstyle.yaml / .cljstyle.toml) inherited down the tree.
  - Git integration for checking only changed files.
  - An interactive Terminal UI (TUI) for monitoring progress.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:         cobra.ArbitraryArgs, // Positional args are root paths; default is "."
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create a context that listens for interrupt signals.
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, verbose, args, cmd.Flags())
		if err != nil {
			return err
		}

		// Give the TUI a beat to initialize before events start flowing.
		if term.IsTerminal(int(os.Stderr.Fd())) && !verbose && opts.TuiEnabled {
			time.Sleep(100 * time.Millisecond)
		}

		return cli.Run(ctx, opts, logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Style findings and processing failures map to distinct exit
// codes so scripts can tell them apart.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrStyleProblems):
		os.Exit(2)
	default:
		os.Exit(1)
	}
}

// init registers flags for the root command. Flag names align with the Viper
// keys bound in internal/cli/config.
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/cljstyle/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")

	// Core behavior flags
	rootCmd.Flags().Bool("fix", false, "Rewrite flagged files in place instead of reporting them")
	rootCmd.Flags().Bool("no-tui", false, "Disable interactive Terminal UI even if in a TTY")
	rootCmd.Flags().StringArray("ignore", []string{}, "Glob patterns for files/directories to ignore (can be specified multiple times)")
	rootCmd.Flags().StringSlice("languages", styler.DefaultLanguages, "Languages recognized as source files")

	// Rule flags
	rootCmd.Flags().Int("max-line-length", styler.DefaultMaxLineLength, "Maximum allowed line length (0 disables the check)")
	rootCmd.Flags().String("indent", string(styler.DefaultIndentPolicy), `Accepted indentation style ("any", "spaces", "tabs")`)

	// Performance flags
	rootCmd.Flags().Int("concurrency", styler.DefaultConcurrency, "Number of parallel subtree workers (0 for auto-detect CPU cores)")
	rootCmd.Flags().Duration("hard-timeout", styler.DefaultHardTimeout, "Hard deadline for the whole run before it is aborted")
	rootCmd.Flags().Duration("settle-timeout", styler.DefaultSettleTimeout, "Grace period for pending results to drain after traversal finishes")

	// Git integration flags
	rootCmd.Flags().Bool("git-diff-only", false, "Check only files changed in the Git index/working tree vs HEAD")
	rootCmd.Flags().String("git-since", "", "Check only files changed since the specified Git reference (commit/tag/branch)")

	// Output flags
	rootCmd.Flags().String("output-format", string(styler.DefaultOutputFormat), `Final report format ("text", "json")`)
	rootCmd.Flags().String("report-file", "", "Path to also write the JSON report to")
}

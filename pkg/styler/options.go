package styler

import (
	"context"
	"log/slog"
	"time"
)

// Resolver decides how entries are classified under an effective rule set and
// produces the per-directory configuration chain. Implementations must be safe
// for concurrent use; they are consulted from many subtree tasks at once.
type Resolver interface {
	// IsIgnored reports whether the entry should be skipped under the rules.
	IsIgnored(rules RuleSet, root Root, file string, isDir bool) bool

	// IsSourceFile reports whether the entry is a processable source file.
	IsSourceFile(rules RuleSet, file string) bool

	// LocalOverrides loads the directory's local rule override file, if any.
	// A nil Override with a nil error means the directory has no overrides.
	LocalOverrides(dir string) (*Override, error)

	// Merge produces the effective rule set for a subtree from the inherited
	// rules and the directory's local overrides.
	Merge(rules RuleSet, o *Override) RuleSet
}

// Processor performs the per-file check or rewrite. It is invoked exactly once
// per recognized source file and must be safe for concurrent use. The returned
// event carries the outcome kind and any messages; the caller fills in the
// path fields. An error (or panic) is contained to the file it occurred on.
type Processor interface {
	Process(ctx context.Context, rules RuleSet, displayPath, file string) (Event, error)
}

// Sink receives the side-effecting output performed while events are applied.
// Calls arrive from the single aggregator goroutine, in application order.
type Sink interface {
	EmitDebug(msg string)
	EmitInfo(msg string)
	EmitWarn(msg string)
	EmitFault(err error, verbose bool)
}

// NoOpSink discards all output. Useful for library embedding and tests.
type NoOpSink struct{}

func (NoOpSink) EmitDebug(string)      {}
func (NoOpSink) EmitInfo(string)       {}
func (NoOpSink) EmitWarn(string)       {}
func (NoOpSink) EmitFault(error, bool) {}

// Hooks defines callbacks for status updates during a run. Implementations
// MUST be safe for concurrent use: OnFileDiscovered fires from subtree tasks,
// the other methods from the aggregator goroutine.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a checking run.
type Options struct {
	// --- Core Inputs ---
	Roots []string `mapstructure:"roots"` // Root paths as spelled by the caller
	Rules RuleSet  `mapstructure:"rules"` // Base effective rule set for every root

	// --- Behavior & Control ---
	Verbose        bool         `mapstructure:"verbose"`      // Enable debug output
	TuiEnabled     bool         `mapstructure:"tuiEnabled"`   // Hint for CLI to use TUI (ignored if Verbose)
	OutputFormat   OutputFormat `mapstructure:"outputFormat"` // ("text", "json") for the final report
	ReportFile     string       `mapstructure:"reportFile"`   // Optional JSON report destination
	ConfigFilePath string       `mapstructure:"-"`            // Path to the loaded config file (for reporting)
	ProfileName    string       `mapstructure:"-"`            // Name of the profile used (for reporting)
	AppVersion     string       `mapstructure:"-"`            // Populated by the caller from build info

	// --- Performance & Bounds ---
	Concurrency   int           `mapstructure:"concurrency"`   // Pool size (0 = auto)
	HardTimeout   time.Duration `mapstructure:"hardTimeout"`   // Whole-run bound; exceeding it fails the run
	SettleTimeout time.Duration `mapstructure:"settleTimeout"` // Aggregator drain bound; exceeding it warns
	EventBuffer   int           `mapstructure:"-"`             // Aggregator mailbox size (0 = default)

	// --- Git Filtering ---
	GitDiffMode     GitDiffMode         `mapstructure:"-"` // Derived from GitConfig / flags
	GitSinceRef     string              `mapstructure:"-"`
	GitChangedFiles map[string]struct{} `mapstructure:"-"` // Absolute paths; populated before the run when diff filtering is active

	// --- Injected Dependencies ---
	Logger     slog.Handler `mapstructure:"-"` // Required: logging backend
	EventHooks Hooks        `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Resolver   Resolver     `mapstructure:"-"` // Optional: defaults to the rule-set resolver
	Processor  Processor    `mapstructure:"-"` // Optional: defaults to the style processor
	Sink       Sink         `mapstructure:"-"` // Optional: defaults to a logger-backed sink
}

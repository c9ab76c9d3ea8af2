package styler

import "time"

// ReportSchemaVersion identifies the JSON shape of Report for external consumers.
const ReportSchemaVersion = "1.0"

// Default option values shared between the library and the CLI flag definitions.
const (
	// DefaultConcurrency of 0 means auto-detect from runtime.NumCPU.
	DefaultConcurrency = 0

	// DefaultHardTimeout bounds the whole traversal; exceeding it cancels
	// outstanding work and fails the run.
	DefaultHardTimeout = 5 * time.Minute

	// DefaultSettleTimeout bounds the aggregator drain after the pool quiesces;
	// exceeding it only warns.
	DefaultSettleTimeout = 5 * time.Second

	// DefaultEventBuffer sizes the aggregator mailbox.
	DefaultEventBuffer = 256

	DefaultMaxLineLength = 120
	DefaultIndentPolicy  = IndentSpaces
	DefaultOutputFormat  = OutputFormatText

	// DefaultMaxFileSize is the ceiling above which a source file is reported as a
	// process error rather than read whole.
	DefaultMaxFileSize = 8 * 1024 * 1024
)

// File names recognized in checked trees.
const (
	// OverrideFileYAML and OverrideFileTOML hold per-directory rule overrides.
	OverrideFileYAML = ".cljstyle.yaml"
	OverrideFileTOML = ".cljstyle.toml"

	// IgnoreFileName holds additional ignore patterns, searched upward from each root.
	IgnoreFileName = ".cljstyleignore"
)

// DefaultLanguages are the languages treated as source files when a rule set
// does not name any.
var DefaultLanguages = []string{"clojure", "edn"}

// DefaultIgnorePatterns are always-skipped entries.
var DefaultIgnorePatterns = []string{".git", ".hg"}

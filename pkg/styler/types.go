package styler

import "encoding/json"

// Kind classifies the outcome of visiting a single file-system entry.
// Exactly one event of exactly one kind is produced per visited entry.
type Kind string

const (
	// KindClean is produced by the processor for a source file with no style problems.
	KindClean Kind = "clean"
	// KindFlagged is produced by the processor for a source file with style problems
	// that were reported but not rewritten.
	KindFlagged Kind = "flagged"
	// KindFixed is produced by the processor for a source file whose problems were
	// rewritten in place.
	KindFixed Kind = "fixed"
	// KindSearched marks a directory that was enumerated and recursed into.
	KindSearched Kind = "searched"
	// KindIgnored marks an entry skipped under the effective rule set.
	KindIgnored Kind = "ignored"
	// KindUnrelated marks an entry that is neither a recognized source file, a
	// directory, nor ignorable.
	KindUnrelated Kind = "unrelated"
	// KindProcessError marks a fault while processing one file.
	KindProcessError Kind = "process-error"
	// KindSearchError marks a fault while listing a directory or resolving its
	// configuration.
	KindSearchError Kind = "search-error"
)

// IsError reports whether the kind represents a contained fault.
func (k Kind) IsError() bool {
	return k == KindProcessError || k == KindSearchError
}

// IsResult reports whether events of this kind belong in Report.Results.
func (k Kind) IsResult() bool {
	return k != KindIgnored && k != KindUnrelated && !k.IsError()
}

// Status defines the file states surfaced through the Hooks interface.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusClean      Status = "clean"
	StatusFlagged    Status = "flagged"
	StatusFixed      Status = "fixed"
	StatusSkipped    Status = "skipped"
	StatusError      Status = "error"
)

// statusForKind maps an event kind to the status reported through hooks.
func statusForKind(k Kind) Status {
	switch k {
	case KindClean:
		return StatusClean
	case KindFlagged:
		return StatusFlagged
	case KindFixed:
		return StatusFixed
	case KindIgnored, KindUnrelated:
		return StatusSkipped
	case KindProcessError, KindSearchError:
		return StatusError
	default:
		return StatusProcessing
	}
}

// IndentPolicy defines which indentation style the checker accepts.
type IndentPolicy string

const (
	IndentAny    IndentPolicy = "any"
	IndentSpaces IndentPolicy = "spaces"
	IndentTabs   IndentPolicy = "tabs"
)

// OutputFormat defines the format for the final summary report printed when the
// TUI is disabled.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// GitDiffMode defines the strategy for using Git differences to filter checked files.
type GitDiffMode string

const (
	GitDiffModeNone     GitDiffMode = "none"
	GitDiffModeDiffOnly GitDiffMode = "diffOnly"
	GitDiffModeSince    GitDiffMode = "since"
)

// Event is the immutable result of visiting one file-system entry. Events flow
// from subtree tasks into the aggregator; nothing is returned up the recursion.
// Events marshal with the fault rendered as a string so reports round-trip to JSON.
type Event struct {
	Kind Kind
	// Path is the root-relative display path used as the aggregation key.
	Path string
	// File is the absolute file-system path of the entry.
	File string
	// Message is an informational line for the primary output stream.
	Message string
	// Debug is a diagnostic line emitted only in verbose mode.
	Debug string
	// Warning is a warning line for the diagnostic stream.
	Warning string
	// Err carries the contained fault for process-error / search-error events.
	Err error
}

// MarshalJSON renders the event for report files, flattening the fault to its
// message.
func (e Event) MarshalJSON() ([]byte, error) {
	var errMsg string
	if e.Err != nil {
		errMsg = e.Err.Error()
	}
	return json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		Path    string `json:"path"`
		File    string `json:"file,omitempty"`
		Message string `json:"message,omitempty"`
		Warning string `json:"warning,omitempty"`
		Error   string `json:"error,omitempty"`
	}{e.Kind, e.Path, e.File, e.Message, e.Warning, errMsg})
}

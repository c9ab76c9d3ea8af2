package styler

import (
	"errors"
	"fmt"
)

// --- Exported Error Variables ---
// These errors represent specific categories of issues that might be returned by
// Check/Run or recorded inside the returned report. Library users can check
// against these using errors.Is.

var (
	// ErrConfigValidation indicates invalid or missing options supplied to the engine.
	ErrConfigValidation = errors.New("configuration validation failed")

	// ErrReadFailed indicates a failure to read a source file from the filesystem.
	// Contained to the file and reported via Report.Errors.
	ErrReadFailed = errors.New("failed to read file")

	// ErrWriteFailed indicates a failure to rewrite a source file in fix mode.
	ErrWriteFailed = errors.New("failed to write file")

	// ErrBinaryFile indicates a recognized source file turned out to hold binary data.
	ErrBinaryFile = errors.New("binary file encountered")

	// ErrLargeFile indicates a source file exceeded the processing size ceiling.
	ErrLargeFile = errors.New("large file encountered")

	// ErrListDir indicates a failure enumerating a directory's children.
	// Contained to that directory's subtree and reported via Report.Errors.
	ErrListDir = errors.New("failed to list directory")

	// ErrOverrideLoad indicates a directory's local rule override file could not be
	// read or parsed. Contained to that directory's subtree.
	ErrOverrideLoad = errors.New("failed to load rule overrides")

	// ErrPoolClosed indicates a root job was submitted after the pool stopped
	// accepting submissions.
	ErrPoolClosed = errors.New("task pool closed to submissions")

	// ErrSettleTimeout indicates the aggregator did not drain in-flight events
	// within the settle bound. Non-fatal; the report may be incomplete by the
	// events still in flight.
	ErrSettleTimeout = errors.New("aggregator settle timed out")
)

// PoolTimeoutError is the only fault that escapes Engine.Run: the task pool did
// not quiesce within the hard bound. The counts describe the pool at the moment
// the bound expired, for capacity or deadlock diagnosis rather than retry.
type PoolTimeoutError struct {
	Running   int64
	Queued    int64
	Submitted int64
}

func (e *PoolTimeoutError) Error() string {
	return fmt.Sprintf("task pool did not quiesce within the hard timeout: %d running, %d queued, %d root tasks submitted",
		e.Running, e.Queued, e.Submitted)
}

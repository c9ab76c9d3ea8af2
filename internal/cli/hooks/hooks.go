package hooks

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aclev/cljstyle/pkg/styler"
)

// --- TUI Message Structs ---

// FileDiscoveredMsg signals that a file or directory was found by a subtree task.
type FileDiscoveredMsg struct{ Path string }

// FileStatusUpdateMsg signals a change in a file's processing status.
type FileStatusUpdateMsg struct {
	Path     string
	Status   styler.Status
	Message  string
	Duration time.Duration
}

// RunCompleteMsg signals the completion of the entire run.
type RunCompleteMsg struct{ Report styler.Report }

// --- Hook Implementation ---

// TUIProgram defines the interface needed to interact with the Bubble Tea program.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// ProgressBar defines the interface needed to interact with the progress bar.
type ProgressBar interface {
	Add(num int) error
	Describe(description string) error
	Close() error
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg tea.Msg) {}

// NoOpProgressBar provides a default null implementation.
type NoOpProgressBar struct{}

// Add implements ProgressBar.
func (n *NoOpProgressBar) Add(num int) error { return nil }

// Describe implements ProgressBar.
func (n *NoOpProgressBar) Describe(description string) error { return nil }

// Close implements ProgressBar.
func (n *NoOpProgressBar) Close() error { return nil }

// CLIHooks implements the styler.Hooks interface, bridging engine events to
// the CLI's UI layer (TUI, logger, progress bar).
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram
	progressBar    ProgressBar
	mu             sync.Mutex // Protects concurrent access to progressBar
}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for tuiProgram or
// progressBar if not applicable; NoOp versions will be used.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram, progBar ProgressBar) styler.Hooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	if progBar == nil {
		progBar = &NoOpProgressBar{}
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
		progressBar:    progBar,
	}
}

// OnFileDiscovered handles the event when a file or directory is found.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(FileDiscoveredMsg{Path: path})
	} else if h.verboseEnabled {
		h.logger.Debug("Entry discovered", "path", path)
	}
	return nil
}

// OnFileStatusUpdate handles events when a file's processing status changes.
// Safe for concurrent use.
func (h *CLIHooks) OnFileStatusUpdate(path string, status styler.Status, message string, duration time.Duration) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(FileStatusUpdateMsg{
			Path:     path,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.progressBar.Add(1); err != nil && h.verboseEnabled {
		h.logger.Debug("Progress bar update failed", "error", err)
	}
	if err := h.progressBar.Describe(fmt.Sprintf("%-9s %s", status, path)); err != nil && h.verboseEnabled {
		h.logger.Debug("Progress bar describe failed", "error", err)
	}
	return nil
}

// OnRunComplete handles the completion of the run.
func (h *CLIHooks) OnRunComplete(report styler.Report) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.progressBar.Close(); err != nil && h.verboseEnabled {
		h.logger.Debug("Progress bar close failed", "error", err)
	}
	return nil
}

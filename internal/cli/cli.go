package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/aclev/cljstyle/internal/cli/hooks"
	"github.com/aclev/cljstyle/internal/cli/ui"
	"github.com/aclev/cljstyle/pkg/styler"
	"github.com/aclev/cljstyle/pkg/styler/git"
)

// ErrStyleProblems is returned by Run when the check found flagged files, so
// the command can exit non-zero without treating findings as a failure of the
// tool itself.
var ErrStyleProblems = errors.New("style problems found")

// reportRounding trims sub-millisecond noise from the printed elapsed time.
const reportRounding = time.Millisecond

// ErrProcessingFailures is returned by Run when contained per-file or
// per-directory faults were recorded during the run.
var ErrProcessingFailures = errors.New("processing failures occurred")

// Run orchestrates the main application logic after configuration loading: it
// wires the UI surface, resolves the git diff filter if one is active, runs the
// core engine, renders the report, and maps the outcome to an error the
// command layer can turn into an exit code.
func Run(ctx context.Context, opts styler.Options, logger *slog.Logger) error {
	if opts.GitDiffMode == styler.GitDiffModeDiffOnly || opts.GitDiffMode == styler.GitDiffModeSince {
		if err := populateChangedFiles(&opts, logger); err != nil {
			return err
		}
	}

	interactive := isatty.IsTerminal(os.Stderr.Fd()) && !opts.Verbose

	var program *tea.Program
	if interactive && opts.TuiEnabled {
		program = tea.NewProgram(ui.NewModel(), tea.WithOutput(os.Stderr))
		opts.EventHooks = hooks.NewCLIHooks(logger, true, opts.Verbose, program, nil)
	} else if interactive {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("checking"),
		)
		opts.EventHooks = hooks.NewCLIHooks(logger, false, opts.Verbose, nil, progressBarAdapter{bar})
	} else {
		opts.EventHooks = hooks.NewCLIHooks(logger, false, opts.Verbose, nil, nil)
	}

	var report styler.Report
	var runErr error
	if program != nil {
		report, runErr = runWithTUI(ctx, opts, program, logger)
	} else {
		report, runErr = styler.Check(ctx, opts)
	}

	var timeoutErr *styler.PoolTimeoutError
	if runErr != nil && !errors.As(runErr, &timeoutErr) {
		logger.Error("Check run failed", slog.String("error", runErr.Error()))
		return runErr
	}

	if err := renderReport(os.Stdout, report, opts); err != nil {
		return err
	}
	if opts.ReportFile != "" {
		if err := writeReportFile(opts.ReportFile, report, logger); err != nil {
			logger.Error("Failed to write report file", slog.String("error", err.Error()))
			return err
		}
	}

	if timeoutErr != nil {
		return runErr
	}
	if report.ErrorCount() > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrProcessingFailures, report.ErrorCount())
	}
	if report.FlaggedCount() > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrStyleProblems, report.FlaggedCount())
	}
	return nil
}

// tuiProgram abstracts *tea.Program for the TUI run loop.
type tuiProgram interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// runWithTUI runs the check in a goroutine while the TUI owns the terminal.
// The user can quit the TUI before the run completes; the run is then
// cancelled, and in every case the goroutine is awaited before its report and
// error are read.
func runWithTUI(ctx context.Context, opts styler.Options, program tuiProgram, logger *slog.Logger) (styler.Report, error) {
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var report styler.Report
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		report, runErr = styler.Check(runCtx, opts)
		// RunCompleteMsg quits the program; cover the early-error path too.
		program.Send(hooks.RunCompleteMsg{Report: report})
	}()

	if _, err := program.Run(); err != nil {
		logger.Warn("TUI terminated abnormally", slog.String("error", err.Error()))
	}
	cancelRun()
	<-done
	return report, runErr
}

// progressBarAdapter narrows *progressbar.ProgressBar to the hooks.ProgressBar
// interface; the library's Describe has no error return.
type progressBarAdapter struct {
	bar *progressbar.ProgressBar
}

func (a progressBarAdapter) Add(num int) error { return a.bar.Add(num) }

func (a progressBarAdapter) Describe(description string) error {
	a.bar.Describe(description)
	return nil
}

func (a progressBarAdapter) Close() error { return a.bar.Close() }

// populateChangedFiles resolves the git diff filter into a set of absolute
// paths checked by the engine.
func populateChangedFiles(opts *styler.Options, logger *slog.Logger) error {
	client := git.NewClient(opts.Logger)
	changed := make(map[string]struct{})
	for _, root := range opts.Roots {
		files, err := client.ChangedFiles(root, string(opts.GitDiffMode), opts.GitSinceRef)
		if err != nil {
			return fmt.Errorf("resolving git diff filter for %s: %w", root, err)
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		for _, f := range files {
			changed[filepath.Join(absRoot, f)] = struct{}{}
		}
	}
	logger.Debug("Git diff filter active",
		slog.String("mode", string(opts.GitDiffMode)), slog.Int("files", len(changed)))
	opts.GitChangedFiles = changed
	return nil
}

// renderReport prints the final summary in the configured format.
func renderReport(out *os.File, report styler.Report, opts styler.Options) error {
	if opts.OutputFormat == styler.OutputFormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	useColor := isatty.IsTerminal(out.Fd())
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	if !useColor {
		for _, c := range []*color.Color{green, yellow, red} {
			c.DisableColor()
		}
	}

	paths := make([]string, 0, len(report.Errors))
	for p := range report.Errors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		ev := report.Errors[p]
		red.Fprintf(out, "error: %s: %v\n", p, ev.Err)
	}

	fmt.Fprintf(out, "checked %d entries in %s\n", report.TotalVisited(), report.Elapsed.Round(reportRounding))
	green.Fprintf(out, "  clean:   %d\n", report.Counts[styler.KindClean])
	if n := report.Counts[styler.KindFixed]; n > 0 {
		green.Fprintf(out, "  fixed:   %d\n", n)
	}
	if n := report.FlaggedCount(); n > 0 {
		yellow.Fprintf(out, "  flagged: %d\n", n)
	}
	fmt.Fprintf(out, "  skipped: %d\n",
		report.Counts[styler.KindIgnored]+report.Counts[styler.KindUnrelated])
	if n := report.ErrorCount(); n > 0 {
		red.Fprintf(out, "  errors:  %d\n", n)
	}
	return nil
}

// writeReportFile persists the JSON report under a file lock so concurrent
// invocations sharing a report path do not interleave writes.
func writeReportFile(path string, report styler.Report, logger *slog.Logger) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking report file: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release report file lock", slog.String("error", err.Error()))
		}
	}()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	logger.Debug("Report written", slog.String("path", path))
	return nil
}

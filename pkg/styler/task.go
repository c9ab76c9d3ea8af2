package styler

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// runContext carries everything a subtree task needs, captured once per run.
// Tasks never read ambient state: the resolver, processor, and git filter all
// travel through this value into every spawned goroutine.
type runContext struct {
	ctx       context.Context
	pool      *taskPool
	agg       *aggregator
	resolver  Resolver
	processor Processor
	hooks     Hooks
	logger    *slog.Logger
	// changed restricts processing to the given absolute paths when non-nil
	// (git diff filtering).
	changed map[string]struct{}
}

// visit classifies one file-system entry and acts on it: report, process, or
// recurse. For directories it forks one child task per entry and completes only
// after every descendant has completed. All faults are converted into events at
// this boundary; nothing propagates to the parent task.
func (rc *runContext) visit(rules RuleSet, root Root, file string, isDir bool, release func()) {
	display := root.Relativize(file)
	if hookErr := rc.hooks.OnFileDiscovered(display); hookErr != nil {
		rc.logger.Warn("OnFileDiscovered hook failed",
			slog.String("path", display), slog.String("error", hookErr.Error()))
	}

	switch {
	case rc.resolver.IsIgnored(rules, root, file, isDir):
		rc.agg.send(Event{
			Kind:  KindIgnored,
			Path:  display,
			File:  file,
			Debug: fmt.Sprintf("Ignoring %s", display),
		})

	case !isDir && rc.resolver.IsSourceFile(rules, file):
		if rc.changed != nil {
			if _, ok := rc.changed[file]; !ok {
				rc.agg.send(Event{
					Kind:  KindUnrelated,
					Path:  display,
					File:  file,
					Debug: fmt.Sprintf("Skipping %s: not in git diff", display),
				})
				return
			}
		}
		rc.agg.send(rc.processFile(rules, display, file))

	case isDir:
		rc.visitDirectory(rules, root, file, display, release)

	default:
		rc.agg.send(Event{
			Kind:  KindUnrelated,
			Path:  display,
			File:  file,
			Debug: fmt.Sprintf("Unrelated file %s", display),
		})
	}
}

// processFile runs the processor on one recognized source file, containing both
// returned errors and panics to this file.
func (rc *runContext) processFile(rules RuleSet, display, file string) (ev Event) {
	defer func() {
		if r := recover(); r != nil {
			rc.logger.Warn("Panic recovered while processing file",
				slog.String("path", display), slog.Any("panicValue", r))
			ev = Event{
				Kind:    KindProcessError,
				Path:    display,
				File:    file,
				Warning: fmt.Sprintf("Failed to process %s", display),
				Err:     fmt.Errorf("panic processing %s: %v", display, r),
			}
		}
	}()

	result, err := rc.processor.Process(rc.ctx, rules, display, file)
	if err != nil {
		return Event{
			Kind:    KindProcessError,
			Path:    display,
			File:    file,
			Warning: fmt.Sprintf("Failed to process %s", display),
			Err:     err,
		}
	}
	result.Path = display
	result.File = file
	return result
}

// visitDirectory resolves the directory's effective rules, fans out one child
// task per entry, and joins before reporting the directory itself. The
// execution slot is released before the join so blocked parents never starve
// the pool. A listing fault that surfaces after some children were forked does
// not cancel them: already-forked children are always awaited, then the
// directory's own event reports the fault.
func (rc *runContext) visitDirectory(rules RuleSet, root Root, dir, display string, release func()) {
	override, ovErr := rc.resolver.LocalOverrides(dir)
	if ovErr != nil {
		rc.agg.send(Event{
			Kind:    KindSearchError,
			Path:    display,
			File:    dir,
			Warning: fmt.Sprintf("Failed to resolve rules for %s", display),
			Err:     fmt.Errorf("%w: %s: %w", ErrOverrideLoad, display, ovErr),
		})
		return
	}
	childRules := rc.resolver.Merge(rules, override)

	entries, listErr := os.ReadDir(dir)

	var children sync.WaitGroup
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		// Symlinks are never followed during traversal: a link could escape
		// the root or form a cycle. They count as unrelated entries.
		if entry.Type()&fs.ModeSymlink != 0 {
			linkDisplay := root.Relativize(child)
			if hookErr := rc.hooks.OnFileDiscovered(linkDisplay); hookErr != nil {
				rc.logger.Warn("OnFileDiscovered hook failed",
					slog.String("path", linkDisplay), slog.String("error", hookErr.Error()))
			}
			rc.agg.send(Event{
				Kind:  KindUnrelated,
				Path:  linkDisplay,
				File:  child,
				Debug: fmt.Sprintf("Skipping symlink %s", linkDisplay),
			})
			continue
		}
		childIsDir := entry.IsDir()
		rc.pool.spawn(&children, func(childRelease func()) {
			rc.visit(childRules, root, child, childIsDir, childRelease)
		})
	}

	release()
	children.Wait()

	if listErr != nil {
		rc.agg.send(Event{
			Kind:    KindSearchError,
			Path:    display,
			File:    dir,
			Warning: fmt.Sprintf("Failed to search directory %s", display),
			Err:     fmt.Errorf("%w: %s: %w", ErrListDir, display, listErr),
		})
		return
	}
	rc.agg.send(Event{
		Kind:  KindSearched,
		Path:  display,
		File:  dir,
		Debug: fmt.Sprintf("Searched directory %s", display),
	})
}

// visitRoot is the entry point for one root job. The start path is stat'ed
// here because, unlike directory children, roots arrive without type
// information. An explicitly named root is followed even when it is a symlink;
// only links encountered during traversal are skipped. A missing or unreadable
// root is contained as a search error on that root rather than failing the run.
func (rc *runContext) visitRoot(job Job, release func()) {
	display := job.Root.Relativize(job.Start)
	info, err := os.Stat(job.Start)
	if err != nil {
		rc.agg.send(Event{
			Kind:    KindSearchError,
			Path:    display,
			File:    job.Start,
			Warning: fmt.Sprintf("Failed to search %s", display),
			Err:     fmt.Errorf("%w: %s: %w", ErrListDir, display, err),
		})
		return
	}
	rc.visit(job.Rules, job.Root, job.Start, info.IsDir(), release)
}

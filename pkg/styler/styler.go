// Package styler is the concurrent file-discovery and dispatch engine behind
// the cljstyle command: it walks one or more root paths with a bounded
// fork-join task pool, resolves the effective rule set for every subtree,
// invokes a pluggable per-file processor, and aggregates outcomes into a
// single report under a hard wall-clock bound.
package styler

import (
	"context"
	"fmt"
)

// Check is the main entry point for the core library. It builds one root job
// per configured root and runs the engine over them. The only error that
// reflects failed work is the hard pool timeout; every per-file and
// per-directory fault is contained inside the returned report.
//
// A zero Options.Rules value selects DefaultRuleSet, with the Fix toggle
// carried over. Any other value is used exactly as given: a partially
// populated rule set leaves its unset checks disabled and, with a nil
// language list, matches no source files.
func Check(ctx context.Context, opts Options) (Report, error) {
	if len(opts.Roots) == 0 {
		return Report{}, fmt.Errorf("%w: at least one root path is required", ErrConfigValidation)
	}
	if opts.Rules.isZero() {
		fix := opts.Rules.Fix
		opts.Rules = DefaultRuleSet()
		opts.Rules.Fix = fix
	}

	engine, err := NewEngine(opts)
	if err != nil {
		return Report{}, err
	}

	jobs := make([]Job, 0, len(opts.Roots))
	for _, rootPath := range opts.Roots {
		job, err := NewJob(opts.Rules, rootPath)
		if err != nil {
			return Report{}, fmt.Errorf("%w: %w", ErrConfigValidation, err)
		}
		jobs = append(jobs, job)
	}

	return engine.Run(ctx, jobs)
}

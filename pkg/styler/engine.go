package styler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Engine orchestrates one checking run: it submits root jobs to the bounded
// task pool, supervises termination against the hard and settle bounds, and
// returns the aggregated report. Construct it with NewEngine and use it for a
// single Run.
type Engine struct {
	opts        *Options
	logger      *slog.Logger
	resolver    Resolver
	processor   Processor
	sink        Sink
	hooks       Hooks
	concurrency int
}

// NewEngine validates options, fills in default collaborators, and returns an
// engine ready to run.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.Sink == nil {
		opts.Sink = NewLoggerSink(nil, opts.Logger)
		logger.Debug("Sink not provided, using default logger sink.")
	}
	if opts.Resolver == nil {
		opts.Resolver = NewRuleResolver(opts.Logger)
		logger.Debug("Resolver not provided, using default rule resolver.")
	}
	if opts.Processor == nil {
		opts.Processor = NewStyleProcessor(opts.Logger)
		logger.Debug("Processor not provided, using default style processor.")
	}

	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}
	if opts.HardTimeout <= 0 {
		opts.HardTimeout = DefaultHardTimeout
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = DefaultSettleTimeout
	}

	return &Engine{
		opts:        &opts,
		logger:      logger,
		resolver:    opts.Resolver,
		processor:   opts.Processor,
		sink:        opts.Sink,
		hooks:       opts.EventHooks,
		concurrency: concurrency,
	}, nil
}

// Run submits one subtree task per job, closes the pool to further
// submissions, and waits for quiescence. If the hard bound is exceeded the
// outstanding work is cancelled and Run fails with a *PoolTimeoutError whose
// counters describe the stuck pool; the partial report is still returned for
// diagnosis. Otherwise the aggregator is given up to the settle bound to drain
// in-flight events; overrunning that only produces a warning. All per-entry
// faults stay inside the returned report.
func (e *Engine) Run(ctx context.Context, jobs []Job) (Report, error) {
	start := time.Now()
	e.logger.Info("Starting style check run",
		slog.Int("roots", len(jobs)),
		slog.Int("concurrency", e.concurrency),
		slog.Duration("hardTimeout", e.opts.HardTimeout))

	pool := newTaskPool(ctx, e.concurrency)
	defer pool.cancel()

	agg := newAggregator(e.sink, e.hooks, e.opts.Logger, e.opts.Verbose, e.opts.EventBuffer)
	agg.start()

	rc := &runContext{
		ctx:       pool.ctx,
		pool:      pool,
		agg:       agg,
		resolver:  e.resolver,
		processor: e.processor,
		hooks:     e.hooks,
		logger:    e.logger,
		changed:   e.opts.GitChangedFiles,
	}

	for _, job := range jobs {
		job := job
		if err := pool.submitRoot(func(release func()) {
			rc.visitRoot(job, release)
		}); err != nil {
			// Cannot happen before close(); kept for the contract.
			return agg.report(), err
		}
	}
	pool.close()

	if err := pool.quiesce(e.opts.HardTimeout); err != nil {
		// Producers may still be running abandoned work, so the mailbox cannot
		// be closed; snapshot what was aggregated and fail. The consumer
		// goroutine keeps draining the mailbox until those producers observe
		// the cancelled context and finish, so abandoned tasks never block on
		// a full buffer. Until then the consumer outlives Run; callers that
		// embed the engine in a long-lived process and hit this path should
		// treat the timeout as fatal for the run, not retry in a loop.
		var timeoutErr *PoolTimeoutError
		if errors.As(err, &timeoutErr) {
			e.logger.Error("Hard timeout exceeded, cancelling outstanding work",
				slog.Int64("running", timeoutErr.Running),
				slog.Int64("queued", timeoutErr.Queued),
				slog.Int64("submitted", timeoutErr.Submitted))
		}
		rep := agg.report()
		rep.Elapsed = time.Since(start)
		return rep, err
	}

	if err := agg.settle(e.opts.SettleTimeout); err != nil {
		e.logger.Warn("Aggregator did not settle in time, results may be incomplete",
			slog.String("error", err.Error()))
		e.sink.EmitWarn(fmt.Sprintf("results may be incomplete: %s", err))
	}

	rep := agg.report()
	rep.Elapsed = time.Since(start)

	e.logger.Info("Style check run finished",
		slog.Duration("elapsed", rep.Elapsed),
		slog.Int("visited", rep.TotalVisited()),
		slog.Int("flagged", rep.FlaggedCount()),
		slog.Int("errors", rep.ErrorCount()))

	if hookErr := e.hooks.OnRunComplete(rep); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return rep, ctxErr
	}
	return rep, nil
}

package styler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// aggregator is the single logical owner of the shared report state. Producers
// send events into a buffered mailbox; one consumer goroutine applies them
// strictly one at a time, performing the sink side effects before each state
// mutation. The mutex only guards the snapshot taken when a settle times out
// while the consumer is still draining.
type aggregator struct {
	sink    Sink
	hooks   Hooks
	logger  *slog.Logger
	verbose bool

	events chan Event
	done   chan struct{}

	mu    sync.Mutex
	state Report
}

func newAggregator(sink Sink, hooks Hooks, loggerHandler slog.Handler, verbose bool, buffer int) *aggregator {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &aggregator{
		sink:    sink,
		hooks:   hooks,
		logger:  slog.New(loggerHandler).With(slog.String("component", "aggregator")),
		verbose: verbose,
		events:  make(chan Event, buffer),
		done:    make(chan struct{}),
		state:   newReport(),
	}
}

// start launches the consumer goroutine.
func (a *aggregator) start() {
	go func() {
		defer close(a.done)
		a.logger.Debug("Aggregator started")
		applied := 0
		for ev := range a.events {
			a.applyOne(ev)
			applied++
		}
		a.logger.Debug("Aggregator finished", slog.Int("eventsApplied", applied))
	}()
}

// send delivers one event to the mailbox. The producing task does not wait for
// the event to be applied; it only blocks if the mailbox is full.
func (a *aggregator) send(ev Event) {
	a.events <- ev
}

// applyOne performs the side effects for one event and then mutates the state.
func (a *aggregator) applyOne(ev Event) {
	if ev.Debug != "" && a.verbose {
		a.sink.EmitDebug(ev.Debug)
	}
	if ev.Message != "" {
		a.sink.EmitInfo(ev.Message)
	}
	if ev.Warning != "" {
		a.sink.EmitWarn(ev.Warning)
	}
	if ev.Err != nil {
		a.sink.EmitFault(ev.Err, a.verbose)
	}

	a.mu.Lock()
	a.state.apply(ev)
	a.mu.Unlock()

	if hookErr := a.hooks.OnFileStatusUpdate(ev.Path, statusForKind(ev.Kind), ev.Message, 0); hookErr != nil {
		a.logger.Warn("OnFileStatusUpdate hook failed",
			slog.String("path", ev.Path), slog.String("error", hookErr.Error()))
	}
}

// settle signals that no further events will be sent and waits up to timeout
// for the consumer to drain the mailbox. On overrun it returns ErrSettleTimeout;
// the report may then be incomplete by the events still in flight.
func (a *aggregator) settle(timeout time.Duration) error {
	close(a.events)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-a.done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrSettleTimeout, timeout)
	}
}

// report snapshots the current state. Safe to call even if settle timed out and
// the consumer is still applying stragglers.
func (a *aggregator) report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

package styler

import (
	"time"

	"github.com/google/uuid"
)

// Report is the aggregated outcome of one run. It is owned exclusively by the
// aggregator while the run is live and returned by value once it settles.
//
// Invariant: the sum of Counts equals the number of file-system entries
// visited, each entry contributing exactly one event.
type Report struct {
	// RunID uniquely identifies this run in logs and report files.
	RunID string `json:"runId"`
	// Counts tallies events by kind.
	Counts map[Kind]int `json:"counts"`
	// Results holds every event whose kind is neither ignored, unrelated, nor an
	// error kind, keyed by display path.
	Results map[string]Event `json:"results"`
	// Errors holds every process-error and search-error event, keyed by display path.
	Errors map[string]Event `json:"errors"`
	// Elapsed is the measured wall-clock duration of the whole run.
	Elapsed time.Duration `json:"elapsed"`
	// StartedAt is the wall-clock start of the run.
	StartedAt time.Time `json:"startedAt"`
	// SchemaVersion identifies the serialized shape for external consumers.
	SchemaVersion string `json:"schemaVersion"`
}

func newReport() Report {
	return Report{
		RunID:         uuid.NewString(),
		Counts:        make(map[Kind]int),
		Results:       make(map[string]Event),
		Errors:        make(map[string]Event),
		StartedAt:     time.Now().UTC(),
		SchemaVersion: ReportSchemaVersion,
	}
}

// apply mutates the report with one event. Callers must guarantee sequential,
// one-at-a-time application; the final maps are then a deterministic function
// of the event multiset regardless of arrival order.
func (r *Report) apply(ev Event) {
	r.Counts[ev.Kind]++
	if ev.Kind.IsResult() {
		r.Results[ev.Path] = ev
	}
	if ev.Kind.IsError() {
		r.Errors[ev.Path] = ev
	}
}

// clone returns a deep copy safe to hand to callers while the original may
// still be receiving events.
func (r *Report) clone() Report {
	out := *r
	out.Counts = make(map[Kind]int, len(r.Counts))
	for k, v := range r.Counts {
		out.Counts[k] = v
	}
	out.Results = make(map[string]Event, len(r.Results))
	for k, v := range r.Results {
		out.Results[k] = v
	}
	out.Errors = make(map[string]Event, len(r.Errors))
	for k, v := range r.Errors {
		out.Errors[k] = v
	}
	return out
}

// TotalVisited returns the number of file-system entries visited.
func (r Report) TotalVisited() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// ErrorCount returns the number of contained faults recorded during the run.
func (r Report) ErrorCount() int {
	return r.Counts[KindProcessError] + r.Counts[KindSearchError]
}

// FlaggedCount returns the number of files with unfixed style problems.
func (r Report) FlaggedCount() int {
	return r.Counts[KindFlagged]
}

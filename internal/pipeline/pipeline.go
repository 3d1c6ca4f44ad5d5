// Package pipeline runs an ordered list of provisioning steps and records one
// result per step.
package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// Outcome is the terminal state of one step.
type Outcome int

// Step outcomes.
const (
	Success Outcome = iota
	Warning
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Class decides what a step failure does to the run.
type Class int

const (
	// Fatal failures stop the pipeline.
	Fatal Class = iota
	// Degradable failures are recorded as warnings and the pipeline continues.
	Degradable
)

// StepResult records what happened in one step. Results are appended in
// execution order and never modified.
type StepResult struct {
	Name    string
	Outcome Outcome
	Detail  string
	// Err is the failure cause for Warning and Failed outcomes.
	Err error
}

// Results is the ordered record of a run.
type Results []StepResult

// Lookup returns the result recorded for name.
func (r Results) Lookup(name string) (StepResult, bool) {
	for _, res := range r {
		if res.Name == name {
			return res, true
		}
	}
	return StepResult{}, false
}

// Succeeded reports whether the step named name ran and succeeded.
func (r Results) Succeeded(name string) bool {
	res, ok := r.Lookup(name)
	return ok && res.Outcome == Success
}

// Step is one unit of the pipeline.
type Step struct {
	Name  string
	Class Class
	// Skip, when set, is consulted with the results so far. Returning true
	// records a Skipped result with the given detail and does not call Run.
	Skip func(prior Results) (string, bool)
	// Run performs the step and returns a success detail or the failure cause.
	Run func(ctx context.Context) (string, error)
}

// FatalError reports the step that stopped the pipeline.
type FatalError struct {
	Step    string
	Err     error
	Results Results
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Observer is notified of each result as soon as it is recorded.
type Observer func(StepResult)

// Run executes steps in order. A Fatal step failure, or a canceled context,
// stops the run and returns *FatalError carrying the results so far.
func Run(ctx context.Context, steps []Step, observe Observer) (Results, error) {
	results := make(Results, 0, len(steps))
	record := func(res StepResult) {
		results = append(results, res)
		if observe != nil {
			observe(res)
		}
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, &FatalError{Step: step.Name, Err: err, Results: results}
		}
		if step.Skip != nil {
			if reason, skip := step.Skip(results); skip {
				record(StepResult{Name: step.Name, Outcome: Skipped, Detail: reason})
				continue
			}
		}

		detail, err := step.Run(ctx)
		if err == nil {
			record(StepResult{Name: step.Name, Outcome: Success, Detail: detail})
			continue
		}
		if step.Class == Fatal {
			record(StepResult{Name: step.Name, Outcome: Failed, Detail: failureDetail(detail, err), Err: err})
			return results, &FatalError{Step: step.Name, Err: err, Results: results}
		}
		record(StepResult{Name: step.Name, Outcome: Warning, Detail: failureDetail(detail, err), Err: err})
	}
	return results, nil
}

func failureDetail(detail string, err error) string {
	if strings.TrimSpace(detail) != "" {
		return detail
	}
	return err.Error()
}

// Package search implements the three metaheuristics that share the
// evaluator: random search, simulated annealing (with a priority
// refinement inner loop), and a generational genetic algorithm. All
// three produce a SolverResult.
package search

import (
	"time"

	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
)

// SolverStatus explains why a search stopped. It is distinct from
// evaluator.ScheduleState: a SolverResult whose Status is Timeout or
// Stagnation can still carry a State other than Scheduled, if no
// feasible candidate was ever found; a search that runs to completion
// without finding one reports SolutionNotFound instead of Completed.
type SolverStatus int

const (
	Completed SolverStatus = iota
	Timeout
	Stagnation
	SolutionNotFound
	InitializationNotFeasible
	Error
)

func (s SolverStatus) String() string {
	switch s {
	case Completed:
		return "Completed"
	case Timeout:
		return "Timeout"
	case Stagnation:
		return "Stagnation"
	case SolutionNotFound:
		return "SolutionNotFound"
	case InitializationNotFeasible:
		return "InitializationNotFeasible"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// SolverResult is the common return value of every search method.
type SolverResult struct {
	Best      model.Candidate
	State     evaluator.ScheduleState
	Status    SolverStatus
	Observation string

	Iterations int
	Runtime    time.Duration

	Objective float64
}

// deadline tracks wall-clock termination for a search loop.
type deadline struct {
	start   time.Time
	timeout time.Duration
}

func newDeadline(timeout time.Duration) deadline {
	return deadline{start: time.Now(), timeout: timeout}
}

func (d deadline) exceeded() bool {
	return d.timeout > 0 && time.Since(d.start) >= d.timeout
}

func (d deadline) elapsed() time.Duration {
	return time.Since(d.start)
}

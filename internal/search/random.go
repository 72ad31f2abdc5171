package search

import (
	"math"
	"math/rand"
	"time"

	"github.com/draganovic/mistsched/internal/config"
	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
	"github.com/draganovic/mistsched/internal/objective"
	"github.com/draganovic/mistsched/internal/stats"
)

// RandomSearch repeatedly perturbs a candidate in place and keeps the
// best feasible result seen. With breakOnFirstFeasible set it returns
// as soon as any candidate evaluates to Scheduled — the mode SA and GA
// use to bootstrap a feasible seed.
//
// stagnationLimit counts attempted iterations here, not accepted moves
// (see DESIGN.md for the reasoning): every iteration that fails to
// improve — feasible or not — counts toward stagnation, because an
// infeasible run otherwise never stagnates at all.
//
// workers > 1 switches to the worker-pool evaluation mode
// (Config.Misc.Workers): each round perturbs workers independent
// candidates off the current one and scores them concurrently, moving
// to the best of the round. workers <= 1 keeps the single-candidate
// random walk above unchanged.
func RandomSearch(ev *evaluator.Evaluator, cfg config.RandomSearch, tunings objective.Tunings, rng *rand.Rand, seed *model.Candidate, breakOnFirstFeasible bool, workers int) SolverResult {
	inst := ev.Instance()
	n := len(inst.Tasks)

	if len(inst.NonMistNodeIndices) == 0 && anyNonFixedTask(inst) {
		return SolverResult{Status: Error, State: evaluator.NotScheduled{}, Observation: "no non-mist nodes available to assign non-fixed tasks"}
	}

	current := model.NewCandidate(n)
	if seed != nil {
		current = seed.Clone()
	}

	dl := newDeadline(time.Duration(cfg.TimeoutMs) * time.Millisecond)

	var best model.Candidate
	var bestState evaluator.ScheduleState = evaluator.NotScheduled{}
	bestObjective := math.Inf(1)
	foundFeasible := false
	stagnationCount := 0
	status := Completed
	iterations := 0

	var pool *evalPool
	if workers > 1 {
		pool = newEvalPool(inst, workers)
	}

loop:
	for iterations < cfg.MaxIterations {
		if dl.exceeded() {
			status = Timeout
			break
		}

		if pool != nil {
			batch := make([]model.Candidate, workers)
			for i := range batch {
				batch[i] = current.Clone()
				randomizeCandidate(rng, inst, batch[i], cfg.PerturbationRate)
			}
			iterations += len(batch)
			states := pool.evaluateBatch(batch)
			stats.Incr("evaluations", len(batch))

			roundImproved := false
			for i, state := range states {
				sched, ok := state.(*evaluator.Scheduled)
				if !ok {
					continue
				}
				foundFeasible = true
				obj := objective.Evaluate(tunings, sched)
				if breakOnFirstFeasible {
					return SolverResult{
						Best: batch[i].Clone(), State: sched, Status: Completed,
						Iterations: iterations, Runtime: dl.elapsed(), Objective: obj,
					}
				}
				if obj < bestObjective {
					bestObjective = obj
					best = batch[i].Clone()
					bestState = sched
					current = batch[i].Clone()
					roundImproved = true
				}
			}

			if roundImproved {
				stagnationCount = 0
			} else {
				stagnationCount++
			}
			if cfg.StagnationLimit > 0 && stagnationCount >= cfg.StagnationLimit {
				status = Stagnation
				break loop
			}
			continue
		}

		iterations++

		randomizeCandidate(rng, inst, current, cfg.PerturbationRate)
		state := ev.Evaluate(current)
		stats.Incr("evaluations", 1)

		sched, ok := state.(*evaluator.Scheduled)
		if !ok {
			stagnationCount++
			if cfg.StagnationLimit > 0 && stagnationCount >= cfg.StagnationLimit {
				status = Stagnation
				break
			}
			continue
		}

		foundFeasible = true
		obj := objective.Evaluate(tunings, sched)

		if obj < bestObjective-cfg.StagnationThreshold {
			stagnationCount = 0
		} else {
			stagnationCount++
		}

		if obj < bestObjective {
			bestObjective = obj
			best = current.Clone()
			bestState = sched
		}

		if breakOnFirstFeasible {
			return SolverResult{
				Best: current.Clone(), State: sched, Status: Completed,
				Iterations: iterations, Runtime: dl.elapsed(), Objective: obj,
			}
		}

		if cfg.StagnationLimit > 0 && stagnationCount >= cfg.StagnationLimit {
			status = Stagnation
			break loop
		}
	}

	if breakOnFirstFeasible {
		return SolverResult{
			Status: SolutionNotFound, State: evaluator.NotScheduled{},
			Iterations: iterations, Runtime: dl.elapsed(),
			Observation: "no feasible candidate found within the bootstrap budget",
		}
	}

	if !foundFeasible {
		if status == Completed {
			status = SolutionNotFound
		}
		return SolverResult{
			Status: status, State: evaluator.NotScheduled{},
			Iterations: iterations, Runtime: dl.elapsed(),
			Observation: "no feasible candidate found",
		}
	}

	return SolverResult{
		Best: best, State: bestState, Status: status,
		Iterations: iterations, Runtime: dl.elapsed(), Objective: bestObjective,
	}
}

func anyNonFixedTask(inst *model.Instance) bool {
	for _, t := range inst.Tasks {
		if !t.HasFixedAllocation() {
			return true
		}
	}
	return false
}

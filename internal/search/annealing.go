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

// SimulatedAnnealing bootstraps a feasible candidate via RandomSearch,
// then walks neighbour candidates with Metropolis acceptance, sharpening
// priorities on every accepted move.
//
// Stagnation here counts accepted moves that fail to improve on the
// incumbent best by more than StagnationThreshold — unlike Random
// Search's attempted-iteration basis (see DESIGN.md), because a
// rejection here is the intended steady state at low temperature, not a
// sign the search is going nowhere.
func SimulatedAnnealing(ev *evaluator.Evaluator, rsCfg config.RandomSearch, cfg config.SimulatedAnnealing, tunings objective.Tunings, rng *rand.Rand, seed *model.Candidate, workers int) SolverResult {
	inst := ev.Instance()
	n := len(inst.Tasks)

	if len(inst.NonMistNodeIndices) == 0 && anyNonFixedTask(inst) {
		return SolverResult{Status: Error, State: evaluator.NotScheduled{}, Observation: "no non-mist nodes available to assign non-fixed tasks"}
	}

	dl := newDeadline(time.Duration(cfg.TimeoutMs) * time.Millisecond)

	var current model.Candidate
	var currentFitness float64
	var currentState evaluator.ScheduleState
	found := false

	for try := 0; try < cfg.MaxInitTries && !found; try++ {
		boot := RandomSearch(ev, rsCfg, tunings, rng, seed, true, workers)
		if boot.Status == Completed {
			current = boot.Best
			currentFitness = boot.Objective
			currentState = boot.State
			found = true
		}
	}

	if !found {
		return SolverResult{
			Status: InitializationNotFeasible, State: evaluator.NotScheduled{},
			Runtime: dl.elapsed(), Observation: "no feasible candidate found within max_init_tries",
		}
	}

	best := current.Clone()
	bestFitness := currentFitness
	bestState := currentState

	temperature := cfg.InitialTemperature
	status := Completed
	iterations := 0
	stagnationCount := 0
	maxK := n / 5
	if maxK < 1 {
		maxK = 1
	}

loop:
	for iterations < cfg.MaxIterations && temperature > cfg.MinTemperature {
		if dl.exceeded() {
			status = Timeout
			break
		}
		iterations++

		var candidateNeighbor model.Candidate
		var candidateState *evaluator.Scheduled
		var candidateFitness float64
		hasFeasibleNeighbor := false

		for t := 0; t < cfg.MaxNeighborTries && !hasFeasibleNeighbor; t++ {
			k := 1 + rng.Intn(maxK)
			trial := neighbor(rng, inst, current, k)
			state := ev.Evaluate(trial)
			stats.Incr("evaluations", 1)
			sched, ok := state.(*evaluator.Scheduled)
			if !ok {
				continue
			}

			candidateNeighbor, candidateState = trial, sched
			candidateFitness = objective.Evaluate(tunings, sched)
			hasFeasibleNeighbor = true
		}

		if !hasFeasibleNeighbor {
			temperature *= cfg.CoolingRate
			continue
		}

		accepted := candidateFitness <= currentFitness
		if !accepted {
			delta := candidateFitness - currentFitness
			accepted = rng.Float64() < math.Exp(-delta/temperature)
		}

		if !accepted {
			temperature *= cfg.CoolingRate
			continue
		}

		refined, refinedFitness := refinePriorities(rng, ev, tunings, cfg, candidateNeighbor, candidateFitness, temperature, cfg.InitialTemperature)
		if refinedFitness < candidateFitness {
			if refinedState, ok := ev.Evaluate(refined).(*evaluator.Scheduled); ok {
				candidateNeighbor, candidateState, candidateFitness = refined, refinedState, refinedFitness
			}
		}

		stats.Incr("accepted_moves", 1)
		current, currentFitness, currentState = candidateNeighbor, candidateFitness, candidateState

		if currentFitness < bestFitness-cfg.StagnationThreshold {
			stagnationCount = 0
		} else {
			stagnationCount++
		}

		if currentFitness < bestFitness {
			bestFitness = currentFitness
			best = current.Clone()
			bestState = currentState
		}

		temperature *= cfg.CoolingRate

		if cfg.StagnationLimit > 0 && stagnationCount >= cfg.StagnationLimit {
			status = Stagnation
			break loop
		}
	}

	return SolverResult{
		Best: best, State: bestState, Status: status,
		Iterations: iterations, Runtime: dl.elapsed(), Objective: bestFitness,
	}
}

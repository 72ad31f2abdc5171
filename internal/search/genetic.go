package search

import (
	"math/rand"
	"sort"
	"time"

	"github.com/draganovic/mistsched/internal/config"
	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
	"github.com/draganovic/mistsched/internal/objective"
	"github.com/draganovic/mistsched/internal/stats"
)

// member is one individual of a GeneticAlgorithm population: its
// candidate, the fitness it evaluated to, and the schedule it produced.
type member struct {
	candidate model.Candidate
	fitness   float64
	state     *evaluator.Scheduled
}

// GeneticAlgorithm evolves a population of candidates by elitism,
// tournament selection, uniform crossover and mutation, all sharing the
// one Evaluator. The initial population is seeded by repeated
// RandomSearch bootstraps; fewer than half the population being
// feasible after PopulationSize*4 tries is treated as initialization
// failure.
//
// workers > 1 switches child evaluation to the worker-pool mode
// (Config.Misc.Workers): each generation's children are scored
// concurrently across a bounded Evaluator pool instead of one at a
// time.
func GeneticAlgorithm(ev *evaluator.Evaluator, rsCfg config.RandomSearch, cfg config.GeneticAlgorithm, tunings objective.Tunings, rng *rand.Rand, seed *model.Candidate, workers int) SolverResult {
	inst := ev.Instance()

	if len(inst.NonMistNodeIndices) == 0 && anyNonFixedTask(inst) {
		return SolverResult{Status: Error, State: evaluator.NotScheduled{}, Observation: "no non-mist nodes available to assign non-fixed tasks"}
	}

	dl := newDeadline(time.Duration(cfg.TimeoutMs) * time.Millisecond)

	var pool *evalPool
	if workers > 1 {
		pool = newEvalPool(inst, workers)
	}

	population := make([]*member, 0, cfg.PopulationSize)
	maxTries := cfg.PopulationSize * 4
	for tries := 0; tries < maxTries && len(population) < cfg.PopulationSize; tries++ {
		boot := RandomSearch(ev, rsCfg, tunings, rng, seed, true, workers)
		if boot.Status != Completed {
			continue
		}
		sched, ok := boot.State.(*evaluator.Scheduled)
		if !ok {
			continue
		}
		population = append(population, &member{candidate: boot.Best, fitness: boot.Objective, state: sched})
	}

	if len(population) < cfg.PopulationSize/2 {
		return SolverResult{
			Status: InitializationNotFeasible, State: evaluator.NotScheduled{},
			Runtime: dl.elapsed(), Observation: "fewer than half the population could be seeded feasibly",
		}
	}

	byFitness := func(m *member) float64 { return m.fitness }
	sort.Sort(NewSorter(population, byFitness))

	best := population[0].candidate.Clone()
	bestFitness := population[0].fitness
	bestState := population[0].state

	status := Completed
	generation := 0
	stagnationCount := 0

loop:
	for generation < cfg.MaxGenerations {
		if dl.exceeded() {
			status = Timeout
			break
		}
		generation++

		next := make([]*member, 0, len(population))
		eliteCount := cfg.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			next = append(next, population[i])
		}

		batchSize := workers
		if batchSize < 1 {
			batchSize = 1
		}

		for len(next) < cfg.PopulationSize {
			if dl.exceeded() {
				status = Timeout
				break loop
			}

			need := cfg.PopulationSize - len(next)
			if need > batchSize {
				need = batchSize
			}

			batch := make([]model.Candidate, need)
			for i := range batch {
				p1 := tournamentSelect(rng, population, cfg.TournamentSize)
				p2 := tournamentSelect(rng, population, cfg.TournamentSize)

				var childCandidate model.Candidate
				if rng.Float64() < cfg.CrossoverRate {
					childCandidate = uniformCrossover(rng, inst, p1.candidate, p2.candidate)
				} else {
					childCandidate = p1.candidate.Clone()
				}
				mutate(rng, inst, childCandidate, cfg.MutationRate)
				batch[i] = childCandidate
			}

			var states []evaluator.ScheduleState
			if pool != nil {
				states = pool.evaluateBatch(batch)
			} else {
				states = make([]evaluator.ScheduleState, len(batch))
				for i, c := range batch {
					states[i] = ev.Evaluate(c)
				}
			}
			stats.Incr("evaluations", len(batch))

			for i, state := range states {
				sched, ok := state.(*evaluator.Scheduled)
				if !ok {
					continue
				}
				next = append(next, &member{
					candidate: batch[i],
					fitness:   objective.Evaluate(tunings, sched),
					state:     sched,
				})
			}
		}

		population = next
		sort.Sort(NewSorter(population, byFitness))

		if population[0].fitness < bestFitness-cfg.StagnationThreshold {
			stagnationCount = 0
		} else {
			stagnationCount++
		}

		if population[0].fitness < bestFitness {
			bestFitness = population[0].fitness
			best = population[0].candidate.Clone()
			bestState = population[0].state
		}

		if cfg.StagnationLimit > 0 && stagnationCount >= cfg.StagnationLimit {
			status = Stagnation
			break loop
		}
	}

	return SolverResult{
		Best: best, State: bestState, Status: status,
		Iterations: generation, Runtime: dl.elapsed(), Objective: bestFitness,
	}
}

// tournamentSelect picks size distinct-ish contenders (with
// replacement) and returns the fittest — lowest fitness wins, since the
// objective is minimized.
func tournamentSelect(rng *rand.Rand, population []*member, size int) *member {
	best := population[rng.Intn(len(population))]
	for i := 1; i < size; i++ {
		candidate := population[rng.Intn(len(population))]
		if candidate.fitness < best.fitness {
			best = candidate
		}
	}
	return best
}

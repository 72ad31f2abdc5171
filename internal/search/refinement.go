package search

import (
	"math"
	"math/rand"

	"github.com/draganovic/mistsched/internal/config"
	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
	"github.com/draganovic/mistsched/internal/objective"
	"github.com/draganovic/mistsched/internal/utils"
	"gonum.org/v1/gonum/mat"
)

// refinePriorities sharpens current's priorities without ever touching
// node assignments, per cfg.RefinementMethod. It is invoked only by
// simulated annealing, on each accepted move.
func refinePriorities(rng *rand.Rand, ev *evaluator.Evaluator, tunings objective.Tunings, cfg config.SimulatedAnnealing, current model.Candidate, currentFitness, temperature, initialTemperature float64) (model.Candidate, float64) {
	if cfg.RefinementMethod == "pso" {
		return refineWithPSO(rng, ev, tunings, cfg, current, currentFitness, temperature, initialTemperature)
	}
	return refineWithNormalPerturbation(rng, ev, tunings, cfg, current, currentFitness, temperature, initialTemperature)
}

func refineWithNormalPerturbation(rng *rand.Rand, ev *evaluator.Evaluator, tunings objective.Tunings, cfg config.SimulatedAnnealing, current model.Candidate, currentFitness, temperature, initialTemperature float64) (model.Candidate, float64) {
	sigma := math.Max(cfg.SigmaMin, cfg.SigmaMax*temperature/initialTemperature)

	best := current
	bestFitness := currentFitness
	nonImproving := 0

	for i := 0; i < cfg.RefinementIterations; i++ {
		trial := best.Clone()
		for j := range trial.Priorities {
			trial.Priorities[j] = clamp01(trial.Priorities[j] + normalSample(rng, sigma))
		}

		state := ev.Evaluate(trial)
		sched, ok := state.(*evaluator.Scheduled)
		if !ok {
			nonImproving++
			if nonImproving >= 10 {
				break
			}
			continue
		}

		fit := objective.Evaluate(tunings, sched)
		if fit < bestFitness {
			best, bestFitness, nonImproving = trial, fit, 0
			continue
		}

		nonImproving++
		if nonImproving >= 10 {
			break
		}
	}

	return best, bestFitness
}

// particle is one PSO swarm member: a priority vector position, a
// velocity, and its own best-seen position/fitness.
type particle struct {
	position *mat.VecDense
	velocity *mat.VecDense

	bestPosition *mat.VecDense
	bestFitness  float64
}

func refineWithPSO(rng *rand.Rand, ev *evaluator.Evaluator, tunings objective.Tunings, cfg config.SimulatedAnnealing, current model.Candidate, currentFitness, temperature, initialTemperature float64) (model.Candidate, float64) {
	n := len(current.Priorities)
	velocityClamp := math.Max(cfg.VelocityClampMin, temperature/initialTemperature)

	evaluate := func(positions *mat.VecDense) float64 {
		trial := model.Candidate{ServerIndices: current.ServerIndices, Priorities: positions.RawVector().Data}
		state := ev.Evaluate(trial)
		sched, ok := state.(*evaluator.Scheduled)
		if !ok {
			return math.Inf(1)
		}
		return objective.Evaluate(tunings, sched)
	}

	globalBestPosition := mat.NewVecDense(n, append([]float64(nil), current.Priorities...))
	globalBestFitness := currentFitness

	swarm := make([]*particle, cfg.SwarmSize)
	for i := range swarm {
		pos := mat.NewVecDense(n, nil)
		vel := mat.NewVecDense(n, nil)
		for j := 0; j < n; j++ {
			pos.SetVec(j, rng.Float64())
			vel.SetVec(j, rng.Float64()*2-1)
		}

		fit := evaluate(pos)
		swarm[i] = &particle{
			position:     pos,
			velocity:     vel,
			bestPosition: mat.VecDenseCopyOf(pos),
			bestFitness:  fit,
		}
		if fit < globalBestFitness {
			globalBestFitness = fit
			globalBestPosition = mat.VecDenseCopyOf(pos)
		}
	}

	for iter := 0; iter < cfg.RefinementIterations; iter++ {
		for _, p := range swarm {
			cognitive := utils.SubVec(p.bestPosition, p.position)
			utils.ScaleVec(cognitive, cfg.CognitiveWeight*rng.Float64())

			social := utils.SubVec(globalBestPosition, p.position)
			utils.ScaleVec(social, cfg.SocialWeight*rng.Float64())

			utils.ScaleVec(p.velocity, cfg.InertiaWeight)
			utils.SAddVec(p.velocity, cognitive)
			utils.SAddVec(p.velocity, social)
			utils.ClampVec(p.velocity, -velocityClamp, velocityClamp)

			utils.SAddVec(p.position, p.velocity)
			utils.ClampVec(p.position, 0, 1)

			fit := evaluate(p.position)
			if fit < p.bestFitness {
				p.bestFitness = fit
				p.bestPosition = mat.VecDenseCopyOf(p.position)
			}
			if fit < globalBestFitness {
				globalBestFitness = fit
				globalBestPosition = mat.VecDenseCopyOf(p.position)
			}
		}
	}

	if globalBestFitness < currentFitness {
		refined := current.Clone()
		copy(refined.Priorities, globalBestPosition.RawVector().Data)
		return refined, globalBestFitness
	}

	return current, currentFitness
}

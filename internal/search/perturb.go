package search

import (
	"math/rand"

	"github.com/draganovic/mistsched/internal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// expRandSource adapts a *math/rand.Rand to the golang.org/x/exp/rand.Source
// interface that gonum.org/v1/gonum/stat/distuv's Src field expects.
type expRandSource struct {
	rng *rand.Rand
}

func (s expRandSource) Uint64() uint64 {
	return s.rng.Uint64()
}

func (s expRandSource) Seed(seed uint64) {
	s.rng.Seed(int64(seed))
}

// randomNonMistNode picks a uniformly random non-mist node index, or -1
// if the instance has none (the "no non-Mist nodes available" Error
// condition).
func randomNonMistNode(rng *rand.Rand, inst *model.Instance) int {
	if len(inst.NonMistNodeIndices) == 0 {
		return -1
	}
	return inst.NonMistNodeIndices[rng.Intn(len(inst.NonMistNodeIndices))]
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// normalSample draws one Normal(0, sigma) sample off rng, using
// gonum.org/v1/gonum/stat/distuv instead of hand-rolling Box-Muller.
func normalSample(rng *rand.Rand, sigma float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: sigma, Src: expRandSource{rng: rng}}.Rand()
}

// randomizeCandidate perturbs c in place: each non-fixed task
// independently has a perturbationRate chance of being reassigned to a
// random non-mist node, and every task, fixed or not, has
// (independently) a perturbationRate chance of having its priority
// nudged by Normal(0, 0.05), clamped to [0,1].
func randomizeCandidate(rng *rand.Rand, inst *model.Instance, c model.Candidate, perturbationRate float64) {
	for i, task := range inst.Tasks {
		if !task.HasFixedAllocation() && rng.Float64() < perturbationRate {
			if n := randomNonMistNode(rng, inst); n >= 0 {
				c.ServerIndices[i] = n
			}
		}
		if rng.Float64() < perturbationRate {
			c.Priorities[i] = clamp01(c.Priorities[i] + normalSample(rng, 0.05))
		}
	}
}

// neighbor returns a copy of c with k randomly chosen tasks reassigned
// to a fresh random node (if not fixed) and a fresh uniform [0,1)
// priority — simulated annealing's neighbour-generation move.
func neighbor(rng *rand.Rand, inst *model.Instance, c model.Candidate, k int) model.Candidate {
	out := c.Clone()
	n := len(inst.Tasks)
	if n == 0 {
		return out
	}

	picked := make(map[int]bool, k)
	for len(picked) < k && len(picked) < n {
		picked[rng.Intn(n)] = true
	}

	for i := range picked {
		task := inst.Tasks[i]
		if !task.HasFixedAllocation() {
			if node := randomNonMistNode(rng, inst); node >= 0 {
				out.ServerIndices[i] = node
			}
		}
		out.Priorities[i] = rng.Float64()
	}

	return out
}

// mutate applies the GA's per-gene mutation: with probability
// mutationRate, a gene is reassigned to a random node (if not fixed)
// and/or has its priority perturbed by Normal(0, 0.05) clamped to
// [0,1].
func mutate(rng *rand.Rand, inst *model.Instance, c model.Candidate, mutationRate float64) {
	for i, task := range inst.Tasks {
		if rng.Float64() >= mutationRate {
			continue
		}
		if !task.HasFixedAllocation() {
			if node := randomNonMistNode(rng, inst); node >= 0 {
				c.ServerIndices[i] = node
			}
		}
		c.Priorities[i] = clamp01(c.Priorities[i] + normalSample(rng, 0.05))
	}
}

// uniformCrossover produces a child by picking each server-index gene
// from p1 or p2 with equal probability (respecting fixed allocations,
// which are always overridden by the evaluator anyway) and taking the
// per-gene arithmetic mean of priorities.
func uniformCrossover(rng *rand.Rand, inst *model.Instance, p1, p2 model.Candidate) model.Candidate {
	child := model.NewCandidate(len(inst.Tasks))
	for i, task := range inst.Tasks {
		if task.HasFixedAllocation() {
			child.ServerIndices[i] = task.FixedAllocationIndex
		} else if rng.Float64() < 0.5 {
			child.ServerIndices[i] = p1.ServerIndices[i]
		} else {
			child.ServerIndices[i] = p2.ServerIndices[i]
		}
		child.Priorities[i] = (p1.Priorities[i] + p2.Priorities[i]) / 2
	}
	return child
}

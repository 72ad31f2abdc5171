package search

import (
	"sync"

	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
)

// evalPool runs candidate evaluations across a bounded set of Evaluators,
// one per worker, so a batch of independent candidates can be scored
// concurrently (Config.Misc.Workers > 1). Each worker owns its own
// Evaluator scratchpad over the same read-only Instance, the sharing
// model evaluator.Evaluator's own doc comment calls out. A fixed
// goroutine pool draining a work channel, sized for a one-shot batch
// since a search loop needs a fresh batch evaluated and rejoined every
// iteration rather than a long-lived queue.
type evalPool struct {
	evaluators []*evaluator.Evaluator
}

// newEvalPool builds a pool of n Evaluators over inst. n < 1 is treated
// as 1.
func newEvalPool(inst *model.Instance, n int) *evalPool {
	if n < 1 {
		n = 1
	}
	evs := make([]*evaluator.Evaluator, n)
	for i := range evs {
		evs[i] = evaluator.New(inst)
	}
	return &evalPool{evaluators: evs}
}

// evaluateBatch scores every candidate, fanning the work out across the
// pool's workers, and returns results in the same order as candidates.
func (p *evalPool) evaluateBatch(candidates []model.Candidate) []evaluator.ScheduleState {
	results := make([]evaluator.ScheduleState, len(candidates))
	work := make(chan int)

	var wg sync.WaitGroup
	for _, ev := range p.evaluators {
		wg.Add(1)
		go func(ev *evaluator.Evaluator) {
			defer wg.Done()
			for i := range work {
				results[i] = ev.Evaluate(candidates[i])
			}
		}(ev)
	}

	for i := range candidates {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

// Package objective computes the scalar cost a search minimises:
// a weighted sum of finish-time sum, inter-node delay, and processor
// usage.
package objective

import "github.com/draganovic/mistsched/internal/evaluator"

// Tunings are the α, β, γ weights loaded from the YAML config's
// "tuning" section. Defaults are 1, 0, 0 — minimise finish-time sum
// alone unless told otherwise.
type Tunings struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

var DefaultTunings = Tunings{Alpha: 1, Beta: 0, Gamma: 0}

// Evaluate computes α·finishTimeSum + β·delayCost + γ·processorsCost
// for a Scheduled state. It is undefined for any other ScheduleState;
// callers must check sched.State() == "Scheduled" first.
func Evaluate(t Tunings, sched *evaluator.Scheduled) float64 {
	return t.Alpha*float64(sched.FinishTimeSum()) +
		t.Beta*float64(sched.DelayCost()) +
		t.Gamma*float64(sched.ProcessorsCost())
}

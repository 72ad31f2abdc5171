package model

// Candidate is the search's decision variable: a node assignment and a
// priority per task. Plain value semantics — cheap to copy, compared
// element-wise. The evaluator is the sole authority on validity; a
// Candidate type itself enforces nothing.
type Candidate struct {
	ServerIndices []int
	Priorities    []float64
}

// NewCandidate builds an empty Candidate for n tasks: every assignment
// unset (-1) and every priority 0.
func NewCandidate(n int) Candidate {
	c := Candidate{
		ServerIndices: make([]int, n),
		Priorities:    make([]float64, n),
	}
	for i := range c.ServerIndices {
		c.ServerIndices[i] = -1
	}
	return c
}

// Clone returns a deep copy so callers can mutate it without aliasing
// the original candidate's backing slices.
func (c Candidate) Clone() Candidate {
	out := Candidate{
		ServerIndices: make([]int, len(c.ServerIndices)),
		Priorities:    make([]float64, len(c.Priorities)),
	}
	copy(out.ServerIndices, c.ServerIndices)
	copy(out.Priorities, c.Priorities)
	return out
}

// Equal reports whether two candidates have element-wise equal vectors.
func (c Candidate) Equal(other Candidate) bool {
	if len(c.ServerIndices) != len(other.ServerIndices) || len(c.Priorities) != len(other.Priorities) {
		return false
	}
	for i := range c.ServerIndices {
		if c.ServerIndices[i] != other.ServerIndices[i] {
			return false
		}
	}
	for i := range c.Priorities {
		if c.Priorities[i] != other.Priorities[i] {
			return false
		}
	}
	return true
}

// FromSchedule builds a Candidate from per-task node indices taken from
// an existing schedule (nodeIndices[i] for task i), forcing mist tasks
// onto their fixed node and leaving every priority at 0 — used to seed a
// solver run from an imported CSV schedule.
func FromSchedule(i *Instance, nodeIndices []int) Candidate {
	c := NewCandidate(len(i.Tasks))
	for idx, task := range i.Tasks {
		if task.HasFixedAllocation() {
			c.ServerIndices[idx] = task.FixedAllocationIndex
			continue
		}
		if idx < len(nodeIndices) {
			c.ServerIndices[idx] = nodeIndices[idx]
		}
	}
	return c
}

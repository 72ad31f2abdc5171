// Package model holds the instance tables the scheduler operates on:
// tasks, nodes, the network delay matrix, and the candidate decision
// variable. Everything here is immutable once an Instance is built; the
// evaluator owns all per-evaluation bookkeeping in its own scratchpad.
package model

// TaskKind distinguishes tasks pinned to a mist node from tasks the
// search is free to place.
type TaskKind int

const (
	Regular TaskKind = iota
	Mist
)

func (k TaskKind) String() string {
	if k == Mist {
		return "mist"
	}
	return "regular"
}

// NodeType is the compute tier a Node belongs to.
type NodeType int

const (
	NodeMist NodeType = iota
	NodeEdge
	NodeCloud
)

func (t NodeType) String() string {
	switch t {
	case NodeMist:
		return "MIST"
	case NodeEdge:
		return "EDGE"
	case NodeCloud:
		return "CLOUD"
	default:
		return "UNKNOWN"
	}
}

func ParseNodeType(s string) (NodeType, bool) {
	switch s {
	case "MIST":
		return NodeMist, true
	case "EDGE":
		return NodeEdge, true
	case "CLOUD":
		return NodeCloud, true
	default:
		return NodeMist, false
	}
}

// Task is a single periodic, precedence-constrained unit of work,
// immutable once built. Start/finish times are not stored here: they
// are per-evaluation results, owned by the evaluator's own scratchpad,
// so a Task stays safe to share read-only across concurrent Evaluators.
type Task struct {
	ID    string
	Label string
	Index int

	Kind TaskKind

	// FixedAllocationID/Index identify the mist node a Mist task must
	// run on. Only meaningful when Kind == Mist.
	FixedAllocationID    string
	FixedAllocationIndex int

	C int // computation cost, in slots
	T int // period
	D int // relative deadline, 0 means none
	A int // activation slot
	M int // memory demand

	Predecessors []int
	Successors   []int
}

// Utilization is C/T, the fraction of a single period this task
// occupies its node.
func (t *Task) Utilization() float64 {
	if t.T == 0 {
		return 0
	}
	return float64(t.C) / float64(t.T)
}

func (t *Task) HasFixedAllocation() bool {
	return t.Kind == Mist
}

// Node is a compute host. All bookkeeping that changes per evaluation
// (available memory/utilisation, assigned tasks, next free slot) lives
// in the evaluator's scratchpad, not here — Node stays safe to share
// read-only across concurrently evaluating search workers.
type Node struct {
	ID    string
	Label string
	Index int

	Type NodeType

	Memory      int
	Cost        int
	Utilization float64 // U, budget in (0,1]
}

// Connection is a direct, directed network link between two nodes.
type Connection struct {
	ID            string
	From          string
	To            string
	FromIndex     int
	ToIndex       int
	Delay         int
	Bidirectional bool
}

// Package fixture builds small model.Instance values by name instead of
// hand-written JSON, for use in tests. A fluent Builder that panics on
// misuse rather than returning an error, because it's only ever driven
// by other Go code, never external input.
package fixture

import (
	"fmt"

	"github.com/draganovic/mistsched/internal/model"
)

// Builder accumulates tasks, nodes, precedences and connections and
// turns them into a model.Instance on Build.
type Builder struct {
	name string

	tasks       []model.TaskInput
	nodes       []model.NodeInput
	precedences []model.PrecedenceInput
	connections []model.ConnectionInput

	allPairsShortestPaths bool

	taskIDs map[string]bool
	nodeIDs map[string]bool
}

func New(name string) *Builder {
	return &Builder{
		name:    name,
		taskIDs: make(map[string]bool),
		nodeIDs: make(map[string]bool),
	}
}

// WithAllPairsShortestPaths enables Floyd-Warshall routing for Build.
func (b *Builder) WithAllPairsShortestPaths() *Builder {
	b.allPairsShortestPaths = true
	return b
}

// AddNode registers a node and returns the builder for chaining.
func (b *Builder) AddNode(id, label string, typ model.NodeType, memory, cost int, u float64) *Builder {
	if b.nodeIDs[id] {
		panic(fmt.Sprintf("fixture: duplicate node id %q", id))
	}
	b.nodeIDs[id] = true
	b.nodes = append(b.nodes, model.NodeInput{ID: id, Label: label, Type: typ, Memory: memory, Cost: cost, U: u})
	return b
}

// AddTask registers a regular (non-mist) task.
func (b *Builder) AddTask(id, label string, c, t, d, a, m int) *Builder {
	return b.addTask(id, label, false, c, t, d, a, m, "")
}

// AddMistTask registers a task pinned to a mist node.
func (b *Builder) AddMistTask(id, label string, c, t, d, a, m int, fixedNodeID string) *Builder {
	return b.addTask(id, label, true, c, t, d, a, m, fixedNodeID)
}

func (b *Builder) addTask(id, label string, mist bool, c, t, d, a, m int, processorID string) *Builder {
	if b.taskIDs[id] {
		panic(fmt.Sprintf("fixture: duplicate task id %q", id))
	}
	b.taskIDs[id] = true
	b.tasks = append(b.tasks, model.TaskInput{
		ID: id, Label: label, Mist: mist,
		C: c, T: t, D: d, A: a, M: m,
		ProcessorID: processorID,
	})
	return b
}

// Precede adds a from->to precedence edge.
func (b *Builder) Precede(from, to string) *Builder {
	b.precedences = append(b.precedences, model.PrecedenceInput{From: from, To: to})
	return b
}

// Connect adds a network link with the given delay.
func (b *Builder) Connect(id, from, to string, delay int, bidirectional bool) *Builder {
	b.connections = append(b.connections, model.ConnectionInput{ID: id, From: from, To: to, Delay: delay, Bidirectional: bidirectional})
	return b
}

// Build turns the accumulated description into a model.Instance,
// panicking on any structural error — a fixture is code, not input.
func (b *Builder) Build() *model.Instance {
	inst, err := model.Build(b.name, b.tasks, b.nodes, b.precedences, b.connections, b.allPairsShortestPaths)
	if err != nil {
		panic(err)
	}
	return inst
}

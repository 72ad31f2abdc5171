// Package evaluator implements the deterministic, priority-driven list
// scheduler: given an Instance and a Candidate, it either produces a
// concrete feasible Scheduled state or classifies why the candidate
// cannot be scheduled.
package evaluator

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/draganovic/mistsched/internal/model"
)

// Evaluator holds the per-evaluation scratchpad for one Instance. Node
// and task bookkeeping that would otherwise live on model.Node/Task is
// kept here instead, reset (not reallocated) on every Evaluate call, so
// an Instance stays safe to share read-only across Evaluators running
// concurrently in different search workers.
type Evaluator struct {
	instance *model.Instance

	nodeAvailableMemory []int
	nodeAvailableUtil   []float64
	nodeAssigned        [][]int
	nodeServerReady     []int
	mistTaken           []bool

	taskStart  []int
	taskFinish []int
	taskNode   []int
	inDegree   []int
}

// New allocates an Evaluator's scratchpad for instance. The Evaluator
// may be reused across any number of Evaluate calls for that instance.
func New(instance *model.Instance) *Evaluator {
	n := len(instance.Tasks)
	s := len(instance.Nodes)

	return &Evaluator{
		instance:            instance,
		nodeAvailableMemory: make([]int, s),
		nodeAvailableUtil:   make([]float64, s),
		nodeAssigned:        make([][]int, s),
		nodeServerReady:     make([]int, s),
		mistTaken:           make([]bool, s),
		taskStart:           make([]int, n),
		taskFinish:          make([]int, n),
		taskNode:            make([]int, n),
		inDegree:            make([]int, n),
	}
}

// Instance returns the instance this Evaluator was built for.
func (e *Evaluator) Instance() *model.Instance { return e.instance }

func (e *Evaluator) reset() {
	for i, node := range e.instance.Nodes {
		e.nodeAvailableMemory[i] = node.Memory
		e.nodeAvailableUtil[i] = node.Utilization
		e.nodeAssigned[i] = e.nodeAssigned[i][:0]
		e.nodeServerReady[i] = 0
		e.mistTaken[i] = false
	}
	for i := range e.taskStart {
		e.taskStart[i] = 0
		e.taskFinish[i] = 0
		e.taskNode[i] = -1
	}
}

// Evaluate runs the full evaluator pipeline: shape check, scratch reset,
// priority-Kahn topological order, list scheduling. It never returns a
// Go error — infeasibility is encoded in the returned ScheduleState.
func (e *Evaluator) Evaluate(candidate model.Candidate) ScheduleState {
	n := len(e.instance.Tasks)

	if len(candidate.ServerIndices) != n || len(candidate.Priorities) != n {
		return CandidateError{Reason: fmt.Sprintf("candidate length mismatch: got %d/%d assignments/priorities, want %d", len(candidate.ServerIndices), len(candidate.Priorities), n)}
	}

	e.reset()

	order, state := e.topoOrder(candidate)
	if state != nil {
		return state
	}

	return e.listSchedule(order, candidate)
}

// topoOrder computes the priority-Kahn topological order: a max-heap of
// zero-in-degree tasks keyed by (priority desc, index asc), popped
// repeatedly while decrementing successor in-degrees.
func (e *Evaluator) topoOrder(candidate model.Candidate) ([]int, ScheduleState) {
	n := len(e.instance.Tasks)

	for i, task := range e.instance.Tasks {
		e.inDegree[i] = len(task.Predecessors)
	}

	pq := make(priorityQueue, 0, n)
	for i := range e.instance.Tasks {
		if e.inDegree[i] == 0 {
			pq = append(pq, priorityItem{index: i, priority: candidate.Priorities[i]})
		}
	}
	heap.Init(&pq)

	order := make([]int, 0, n)
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(priorityItem)
		order = append(order, item.index)

		for _, succ := range e.instance.Tasks[item.index].Successors {
			if succ < 0 || succ >= n {
				return nil, SuccessorsError{Reason: fmt.Sprintf("task %q has out-of-range successor index %d", e.instance.Tasks[item.index].ID, succ)}
			}
			e.inDegree[succ]--
			if e.inDegree[succ] == 0 {
				heap.Push(&pq, priorityItem{index: succ, priority: candidate.Priorities[succ]})
			}
		}
	}

	if len(order) < n {
		return nil, CycleError{Reason: fmt.Sprintf("task graph is not acyclic: only %d of %d tasks reached zero in-degree", len(order), n)}
	}

	return order, nil
}

// listSchedule walks the topological order, pinning each task to its
// effective node (overriding the candidate for mist tasks), computing
// its earliest feasible start from activation, predecessor arrivals and
// node availability, and bookkeeping node memory/utilisation.
func (e *Evaluator) listSchedule(order []int, candidate model.Candidate) ScheduleState {
	s := len(e.instance.Nodes)

	for _, taskIdx := range order {
		task := e.instance.Tasks[taskIdx]

		effectiveNode := candidate.ServerIndices[taskIdx]
		if task.HasFixedAllocation() {
			effectiveNode = task.FixedAllocationIndex
		}

		if effectiveNode < 0 || effectiveNode >= s {
			return CandidateError{Reason: fmt.Sprintf("task %q assigned to out-of-range node index %d", task.ID, effectiveNode)}
		}

		node := e.instance.Nodes[effectiveNode]
		if node.Type == model.NodeMist {
			if !task.HasFixedAllocation() {
				return CandidateError{Reason: fmt.Sprintf("task %q has no fixed allocation but was assigned to mist node %q", task.ID, node.ID)}
			}
			if e.mistTaken[effectiveNode] {
				return CandidateError{Reason: fmt.Sprintf("mist node %q already holds a task, cannot also take %q", node.ID, task.ID)}
			}
		}

		earliest := task.A
		for _, predIdx := range task.Predecessors {
			predNode := e.taskNode[predIdx]
			finish := e.taskFinish[predIdx]

			var arrival int
			if predNode == effectiveNode {
				arrival = finish
			} else {
				delay := e.instance.Delay[predNode][effectiveNode]
				if delay >= model.Infinite {
					return PrecedencesError{Reason: fmt.Sprintf("no route from node %q to node %q for precedence %q -> %q", e.instance.Nodes[predNode].ID, node.ID, e.instance.Tasks[predIdx].ID, task.ID)}
				}
				arrival = finish + delay
			}

			if arrival > earliest {
				earliest = arrival
			}
		}

		if e.nodeServerReady[effectiveNode] > earliest {
			earliest = e.nodeServerReady[effectiveNode]
		}

		if earliest > math.MaxInt32-task.C {
			return CandidateError{Reason: fmt.Sprintf("task %q start time overflows the integer range", task.ID)}
		}

		finish := earliest + task.C
		e.taskStart[taskIdx] = earliest
		e.taskFinish[taskIdx] = finish
		e.taskNode[taskIdx] = effectiveNode

		if task.D > 0 && finish > task.A+task.D {
			return DeadlineMissed{TaskIndex: taskIdx, Reason: fmt.Sprintf("task %q finishes at %d, deadline is %d", task.ID, finish, task.A+task.D)}
		}

		if node.Type == model.NodeMist {
			e.mistTaken[effectiveNode] = true
		} else {
			e.nodeServerReady[effectiveNode] = finish
		}

		e.nodeAssigned[effectiveNode] = append(e.nodeAssigned[effectiveNode], taskIdx)

		e.nodeAvailableUtil[effectiveNode] -= task.Utilization()
		if e.nodeAvailableUtil[effectiveNode] < 0 {
			return UtilizationUnfeasible{NodeIndex: effectiveNode, Reason: fmt.Sprintf("node %q utilisation budget exceeded by task %q", node.ID, task.ID)}
		}

		e.nodeAvailableMemory[effectiveNode] -= task.M
		if e.nodeAvailableMemory[effectiveNode] < 0 {
			return MemoryUnfeasible{NodeIndex: effectiveNode, Reason: fmt.Sprintf("node %q memory capacity exceeded by task %q", node.ID, task.ID)}
		}
	}

	return e.snapshot()
}

// snapshot copies the scratchpad into an immutable Scheduled value and
// computes the derived metrics, so the result stays valid across later,
// unrelated Evaluate calls on the same Evaluator.
func (e *Evaluator) snapshot() *Scheduled {
	n := len(e.instance.Tasks)
	s := len(e.instance.Nodes)

	sched := &Scheduled{
		taskStart:  make([]int, n),
		taskFinish: make([]int, n),
		assigned:   make([][]int, s),
	}
	copy(sched.taskStart, e.taskStart)
	copy(sched.taskFinish, e.taskFinish)

	for i := range e.nodeAssigned {
		sched.assigned[i] = append([]int(nil), e.nodeAssigned[i]...)
	}

	for _, f := range e.taskFinish {
		if f > sched.scheduleSpan {
			sched.scheduleSpan = f
		}
		sched.finishTimeSum += f
	}

	for i, node := range e.instance.Nodes {
		sched.processorsCost += node.Cost * len(e.nodeAssigned[i])
	}

	for taskIdx, task := range e.instance.Tasks {
		fromNode := e.taskNode[taskIdx]
		for _, succIdx := range task.Successors {
			toNode := e.taskNode[succIdx]
			if fromNode == toNode {
				continue
			}
			delay := e.instance.Delay[fromNode][toNode]
			if delay < model.Infinite {
				sched.delayCost += delay
			}
		}
	}

	return sched
}

package evaluator

import "github.com/draganovic/mistsched/internal/model"

// ScheduleState is the evaluator's sealed result type: exactly one of
// NotScheduled, Scheduled, CandidateError, PrecedencesError,
// SuccessorsError, CycleError, DeadlineMissed, UtilizationUnfeasible, or
// MemoryUnfeasible. The evaluator never returns a Go error for
// infeasibility — infeasibility is a value, not an exception — so the
// search can switch on it exhaustively without losing type information.
//
// Every accessor returns -1 on every state except Scheduled, per
// spec: callers must not query them outside Scheduled, but a sentinel
// beats a panic when they do anyway.
type ScheduleState interface {
	State() string
	ScheduleSpan() int
	FinishTimeSum() int
	ProcessorsCost() int
	DelayCost() int
}

type base struct{}

func (base) ScheduleSpan() int    { return -1 }
func (base) FinishTimeSum() int   { return -1 }
func (base) ProcessorsCost() int  { return -1 }
func (base) DelayCost() int       { return -1 }

// NotScheduled is the zero state: Evaluate has not been called yet, or
// the caller is holding a fresh Evaluator.
type NotScheduled struct{ base }

func (NotScheduled) State() string { return "NotScheduled" }

// CandidateError covers shape mismatches and out-of-range or
// misdirected node assignments in the candidate itself.
type CandidateError struct {
	base
	Reason string
}

func (CandidateError) State() string { return "CandidateError" }

// PrecedencesError means a predecessor's chosen node has no route (an
// infinite delay) to the current task's chosen node.
type PrecedencesError struct {
	base
	Reason string
}

func (PrecedencesError) State() string { return "PrecedencesError" }

// SuccessorsError means the topological pass found a successor index
// outside the task table — a defensive check, since Instance
// construction already validates referential integrity.
type SuccessorsError struct {
	base
	Reason string
}

func (SuccessorsError) State() string { return "SuccessorsError" }

// CycleError means the task graph is not acyclic: fewer than N tasks
// reached zero in-degree during the topological pass.
type CycleError struct {
	base
	Reason string
}

func (CycleError) State() string { return "CycleError" }

// DeadlineMissed means some task's finish time exceeded its relative
// deadline window.
type DeadlineMissed struct {
	base
	TaskIndex int
	Reason    string
}

func (DeadlineMissed) State() string { return "DeadlineMissed" }

// UtilizationUnfeasible means a node's utilisation budget was exceeded.
type UtilizationUnfeasible struct {
	base
	NodeIndex int
	Reason    string
}

func (UtilizationUnfeasible) State() string { return "UtilizationUnfeasible" }

// MemoryUnfeasible means a node's memory capacity was exceeded.
type MemoryUnfeasible struct {
	base
	NodeIndex int
	Reason    string
}

func (MemoryUnfeasible) State() string { return "MemoryUnfeasible" }

// Scheduled is a fully computed, feasible schedule. It is an immutable
// snapshot copied out of the evaluator's scratchpad at the end of
// Evaluate, so it stays valid even after the same Evaluator is reused
// for a later, unrelated call.
type Scheduled struct {
	taskStart  []int
	taskFinish []int
	assigned   [][]int // per node index, task indices in execution order

	scheduleSpan    int
	finishTimeSum   int
	processorsCost  int
	delayCost       int
}

func (Scheduled) State() string { return "Scheduled" }

func (s *Scheduled) ScheduleSpan() int   { return s.scheduleSpan }
func (s *Scheduled) FinishTimeSum() int  { return s.finishTimeSum }
func (s *Scheduled) ProcessorsCost() int { return s.processorsCost }
func (s *Scheduled) DelayCost() int      { return s.delayCost }

// TaskStart/TaskFinish return the slot a task starts/finishes in.
func (s *Scheduled) TaskStart(taskIndex int) int  { return s.taskStart[taskIndex] }
func (s *Scheduled) TaskFinish(taskIndex int) int { return s.taskFinish[taskIndex] }

// NodeAssignments returns the tasks assigned to a node, in execution
// order.
func (s *Scheduled) NodeAssignments(nodeIndex int) []int { return s.assigned[nodeIndex] }

// FromImportedSchedule builds a Scheduled snapshot directly from
// externally supplied per-task node assignments and start/finish times,
// without running them through topoOrder/listSchedule — so deadlines
// and resource budgets are never recomputed; an imported schedule is
// marked Scheduled as given. nodeIndices[i] < 0 leaves task i
// unassigned in the snapshot.
func FromImportedSchedule(inst *model.Instance, nodeIndices, startTimes, finishTimes []int) *Scheduled {
	n := len(inst.Tasks)
	s := len(inst.Nodes)

	sched := &Scheduled{
		taskStart:  make([]int, n),
		taskFinish: make([]int, n),
		assigned:   make([][]int, s),
	}
	copy(sched.taskStart, startTimes)
	copy(sched.taskFinish, finishTimes)

	for taskIdx, nodeIdx := range nodeIndices {
		if nodeIdx < 0 || nodeIdx >= s {
			continue
		}
		sched.assigned[nodeIdx] = append(sched.assigned[nodeIdx], taskIdx)
	}

	for _, f := range sched.taskFinish {
		if f > sched.scheduleSpan {
			sched.scheduleSpan = f
		}
		sched.finishTimeSum += f
	}

	for i, node := range inst.Nodes {
		sched.processorsCost += node.Cost * len(sched.assigned[i])
	}

	for taskIdx, task := range inst.Tasks {
		fromNode := nodeIndices[taskIdx]
		if fromNode < 0 {
			continue
		}
		for _, succIdx := range task.Successors {
			toNode := nodeIndices[succIdx]
			if toNode < 0 || fromNode == toNode {
				continue
			}
			delay := inst.Delay[fromNode][toNode]
			if delay < model.Infinite {
				sched.delayCost += delay
			}
		}
	}

	return sched
}

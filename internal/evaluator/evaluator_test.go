package evaluator_test

import (
	"testing"

	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
	"github.com/draganovic/mistsched/internal/model/fixture"
)

func candidateOf(nodes []int, priorities []float64) model.Candidate {
	return model.Candidate{ServerIndices: nodes, Priorities: priorities}
}

func TestLinearChainOnOneEdgeNode(t *testing.T) {
	inst := fixture.New("linear-chain").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 2, 0, 0, 0, 0).
		AddTask("t1", "t1", 3, 0, 0, 0, 0).
		AddTask("t2", "t2", 1, 0, 0, 0, 0).
		Precede("t0", "t1").
		Precede("t1", "t2").
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 0, 0}, []float64{3, 2, 1}))

	sched, ok := state.(*evaluator.Scheduled)
	if !ok {
		t.Fatalf("expected Scheduled, got %s", state.State())
	}

	wantStart := []int{0, 2, 5}
	wantFinish := []int{2, 5, 6}
	for i := range wantStart {
		if sched.TaskStart(i) != wantStart[i] {
			t.Errorf("task %d: start = %d, want %d", i, sched.TaskStart(i), wantStart[i])
		}
		if sched.TaskFinish(i) != wantFinish[i] {
			t.Errorf("task %d: finish = %d, want %d", i, sched.TaskFinish(i), wantFinish[i])
		}
	}
	if sched.ScheduleSpan() != 6 {
		t.Errorf("span = %d, want 6", sched.ScheduleSpan())
	}
	if sched.FinishTimeSum() != 13 {
		t.Errorf("finish sum = %d, want 13", sched.FinishTimeSum())
	}
}

func TestCrossNodePrecedenceWithDelay(t *testing.T) {
	inst := fixture.New("cross-node").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddNode("n1", "n1", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 2, 0, 0, 0, 0).
		AddTask("t1", "t1", 3, 0, 0, 0, 0).
		Precede("t0", "t1").
		Connect("c0", "n0", "n1", 4, true).
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 1}, []float64{2, 1}))

	sched, ok := state.(*evaluator.Scheduled)
	if !ok {
		t.Fatalf("expected Scheduled, got %s", state.State())
	}
	if sched.TaskStart(1) != 6 {
		t.Errorf("t1 start = %d, want 6", sched.TaskStart(1))
	}
	if sched.TaskFinish(1) != 9 {
		t.Errorf("t1 finish = %d, want 9", sched.TaskFinish(1))
	}
}

func TestPriorityTiebreakByDenseIndex(t *testing.T) {
	inst := fixture.New("tiebreak").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 2, 0, 0, 0, 0).
		AddTask("t1", "t1", 2, 0, 0, 0, 0).
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 0}, []float64{1, 1}))

	sched, ok := state.(*evaluator.Scheduled)
	if !ok {
		t.Fatalf("expected Scheduled, got %s", state.State())
	}
	if sched.TaskStart(0) != 0 || sched.TaskStart(1) != 2 {
		t.Errorf("expected t0 first: starts = %d,%d", sched.TaskStart(0), sched.TaskStart(1))
	}
}

func TestDeadlineMissed(t *testing.T) {
	inst := fixture.New("deadline-miss").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 10, 0, 5, 0, 0).
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0}, []float64{1}))

	if _, ok := state.(evaluator.DeadlineMissed); !ok {
		t.Fatalf("expected DeadlineMissed, got %s", state.State())
	}
}

func TestMistPinningOverridesCandidate(t *testing.T) {
	inst := fixture.New("mist-pin").
		AddNode("m0", "m0", model.NodeMist, 1<<20, 1, 1).
		AddNode("n1", "n1", model.NodeEdge, 1<<20, 1, 1).
		AddMistTask("t0", "t0", 2, 0, 0, 0, 0, "m0").
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{1}, []float64{1}))

	sched, ok := state.(*evaluator.Scheduled)
	if !ok {
		t.Fatalf("expected Scheduled, got %s", state.State())
	}
	if len(sched.NodeAssignments(0)) != 1 {
		t.Errorf("expected t0 to land on the mist node despite candidate pointing elsewhere")
	}
	if len(sched.NodeAssignments(1)) != 0 {
		t.Errorf("expected nothing on n1")
	}
}

func TestInducedCycleIsRejected(t *testing.T) {
	inst := fixture.New("cycle").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddTask("a", "a", 1, 0, 0, 0, 0).
		AddTask("b", "b", 1, 0, 0, 0, 0).
		Precede("a", "b").
		Precede("b", "a").
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 0}, []float64{1, 1}))

	if _, ok := state.(evaluator.CycleError); !ok {
		t.Fatalf("expected CycleError, got %s", state.State())
	}
}

func TestMemoryUnfeasible(t *testing.T) {
	inst := fixture.New("memory").
		AddNode("n0", "n0", model.NodeEdge, 9, 1, 1).
		AddTask("a", "a", 1, 0, 0, 0, 5).
		AddTask("b", "b", 1, 0, 0, 0, 5).
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 0}, []float64{2, 1}))

	if _, ok := state.(evaluator.MemoryUnfeasible); !ok {
		t.Fatalf("expected MemoryUnfeasible, got %s", state.State())
	}
}

func TestTightDeadlineAcceptedAtZeroActivationNoDelay(t *testing.T) {
	inst := fixture.New("tight-deadline").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddTask("a", "a", 4, 0, 4, 0, 0).
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0}, []float64{1}))

	if _, ok := state.(*evaluator.Scheduled); !ok {
		t.Fatalf("expected Scheduled, got %s", state.State())
	}
}

func TestEvaluateIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	inst := fixture.New("repeat").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddNode("n1", "n1", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 2, 0, 0, 0, 0).
		AddTask("t1", "t1", 3, 0, 0, 0, 0).
		Precede("t0", "t1").
		Connect("c0", "n0", "n1", 4, true).
		Build()

	ev := evaluator.New(inst)
	c := candidateOf([]int{0, 1}, []float64{2, 1})

	first := ev.Evaluate(c)
	second := ev.Evaluate(c)

	s1, ok1 := first.(*evaluator.Scheduled)
	s2, ok2 := second.(*evaluator.Scheduled)
	if !ok1 || !ok2 {
		t.Fatalf("expected both calls to return Scheduled")
	}
	if s1.TaskStart(0) != s2.TaskStart(0) || s1.TaskStart(1) != s2.TaskStart(1) {
		t.Errorf("repeated Evaluate calls produced different start times")
	}
}

func TestDisconnectedNodesWithPrecedenceIsUnreachable(t *testing.T) {
	inst := fixture.New("disconnected").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddNode("n1", "n1", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 1, 0, 0, 0, 0).
		AddTask("t1", "t1", 1, 0, 0, 0, 0).
		Precede("t0", "t1").
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 1}, []float64{2, 1}))

	if _, ok := state.(evaluator.PrecedencesError); !ok {
		t.Fatalf("expected PrecedencesError, got %s", state.State())
	}
}

func TestCandidateLengthMismatch(t *testing.T) {
	inst := fixture.New("mismatch").
		AddNode("n0", "n0", model.NodeEdge, 1<<20, 1, 1).
		AddTask("t0", "t0", 1, 0, 0, 0, 0).
		Build()

	ev := evaluator.New(inst)
	state := ev.Evaluate(candidateOf([]int{0, 0}, []float64{1, 1}))

	if _, ok := state.(evaluator.CandidateError); !ok {
		t.Fatalf("expected CandidateError, got %s", state.State())
	}
}

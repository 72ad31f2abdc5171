package model_test

import (
	"testing"

	"github.com/draganovic/mistsched/internal/model"
)

func TestBuildRejectsDuplicateTaskID(t *testing.T) {
	_, err := model.Build("dup",
		[]model.TaskInput{{ID: "t0", C: 1}, {ID: "t0", C: 1}},
		nil, nil, nil, false,
	)
	if err == nil {
		t.Fatal("expected an error for duplicate task id")
	}
}

func TestBuildRejectsSecondMistTaskOnSameNode(t *testing.T) {
	_, err := model.Build("dup-mist",
		[]model.TaskInput{
			{ID: "t0", Mist: true, ProcessorID: "m0"},
			{ID: "t1", Mist: true, ProcessorID: "m0"},
		},
		[]model.NodeInput{{ID: "m0", Type: model.NodeMist}},
		nil, nil, false,
	)
	if err == nil {
		t.Fatal("expected an error: mist node already holds a task")
	}
}

func TestBuildPromotesNodeToMistOnFixedAllocation(t *testing.T) {
	inst, err := model.Build("promote",
		[]model.TaskInput{{ID: "t0", Mist: true, ProcessorID: "n0"}},
		[]model.NodeInput{{ID: "n0", Type: model.NodeEdge}},
		nil, nil, false,
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if inst.Nodes[0].Type != model.NodeMist {
		t.Errorf("node type = %v, want NodeMist after fixed allocation", inst.Nodes[0].Type)
	}
	if len(inst.NonMistNodeIndices) != 0 {
		t.Errorf("expected no non-mist nodes, got %v", inst.NonMistNodeIndices)
	}
}

func TestBuildResolvesInlineSuccessorsAndPrecedences(t *testing.T) {
	inst, err := model.Build("precedences",
		[]model.TaskInput{
			{ID: "a", Successors: []string{"b"}},
			{ID: "b"},
			{ID: "c"},
		},
		nil,
		[]model.PrecedenceInput{{From: "b", To: "c"}},
		nil, false,
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(inst.Tasks[0].Successors) != 1 || inst.Tasks[0].Successors[0] != 1 {
		t.Errorf("a's successors = %v, want [1]", inst.Tasks[0].Successors)
	}
	if len(inst.Tasks[1].Predecessors) != 1 || inst.Tasks[1].Predecessors[0] != 0 {
		t.Errorf("b's predecessors = %v, want [0]", inst.Tasks[1].Predecessors)
	}
	if len(inst.Tasks[2].Predecessors) != 1 || inst.Tasks[2].Predecessors[0] != 1 {
		t.Errorf("c's predecessors = %v, want [1]", inst.Tasks[2].Predecessors)
	}
}

func TestBuildDiscardsSelfLoopsAndInfiniteSentinelDelays(t *testing.T) {
	inst, err := model.Build("delays",
		nil,
		[]model.NodeInput{{ID: "n0"}, {ID: "n1"}},
		nil,
		[]model.ConnectionInput{
			{ID: "self", From: "n0", To: "n0", Delay: 5},
			{ID: "inf", From: "n0", To: "n1", Delay: model.Infinite},
		},
		false,
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if inst.Delay[0][0] != 0 {
		t.Errorf("self-loop delay = %d, want 0 (untouched diagonal)", inst.Delay[0][0])
	}
	if inst.Delay[0][1] != model.Infinite {
		t.Errorf("delay[0][1] = %d, want Infinite (sentinel discarded)", inst.Delay[0][1])
	}
}

func TestBuildWithAllPairsShortestPathsFindsMultiHopRoute(t *testing.T) {
	inst, err := model.Build("multi-hop",
		nil,
		[]model.NodeInput{{ID: "n0"}, {ID: "n1"}, {ID: "n2"}},
		nil,
		[]model.ConnectionInput{
			{ID: "c0", From: "n0", To: "n1", Delay: 2, Bidirectional: true},
			{ID: "c1", From: "n1", To: "n2", Delay: 3, Bidirectional: true},
		},
		true,
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if inst.Delay[0][2] != 5 {
		t.Errorf("delay[0][2] = %d, want 5 via floyd-warshall", inst.Delay[0][2])
	}
}

func TestBuildWithoutAllPairsShortestPathsLeavesMultiHopInfinite(t *testing.T) {
	inst, err := model.Build("direct-only",
		nil,
		[]model.NodeInput{{ID: "n0"}, {ID: "n1"}, {ID: "n2"}},
		nil,
		[]model.ConnectionInput{
			{ID: "c0", From: "n0", To: "n1", Delay: 2, Bidirectional: true},
			{ID: "c1", From: "n1", To: "n2", Delay: 3, Bidirectional: true},
		},
		false,
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if inst.Delay[0][2] != model.Infinite {
		t.Errorf("delay[0][2] = %d, want Infinite without multi-hop routing", inst.Delay[0][2])
	}
}

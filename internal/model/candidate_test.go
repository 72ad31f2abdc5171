package model_test

import (
	"testing"

	"github.com/draganovic/mistsched/internal/model"
)

func TestCloneDoesNotAliasBackingSlices(t *testing.T) {
	c := model.NewCandidate(3)
	clone := c.Clone()
	clone.ServerIndices[0] = 7
	clone.Priorities[0] = 0.5

	if c.ServerIndices[0] == 7 || c.Priorities[0] == 0.5 {
		t.Fatal("Clone aliased the original candidate's slices")
	}
}

func TestEqualComparesElementWise(t *testing.T) {
	a := model.NewCandidate(2)
	b := model.NewCandidate(2)
	if !a.Equal(b) {
		t.Fatal("two fresh candidates of the same size should be equal")
	}

	b.ServerIndices[0] = 1
	if a.Equal(b) {
		t.Fatal("candidates with different assignments should not be equal")
	}
}

func TestFromScheduleForcesFixedAllocations(t *testing.T) {
	inst, err := model.Build("from-schedule",
		[]model.TaskInput{
			{ID: "t0", Mist: true, ProcessorID: "m0"},
			{ID: "t1"},
		},
		[]model.NodeInput{{ID: "m0", Type: model.NodeMist}, {ID: "n1", Type: model.NodeEdge}},
		nil, nil, false,
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	c := model.FromSchedule(inst, []int{1, 1})
	if c.ServerIndices[0] != 0 {
		t.Errorf("mist task's candidate index = %d, want 0 (forced to its fixed node)", c.ServerIndices[0])
	}
	if c.ServerIndices[1] != 1 {
		t.Errorf("regular task's candidate index = %d, want 1", c.ServerIndices[1])
	}
}

package importer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/draganovic/mistsched/internal/importer"
)

const tasksJSON = `{
  "tasks": [
    {"id": "t0", "label": "t0", "mist": false, "C": 2, "T": 0, "D": 0, "M": 0, "a": 0, "successors": ["t1"]},
    {"id": "t1", "label": "t1", "mist": false, "C": 3, "T": 0, "D": 0, "M": 0, "a": 0}
  ],
  "precedences": []
}`

const networkJSON = `{
  "nodes": [
    {"id": "n0", "label": "n0", "type": "EDGE", "memory": 1000000, "cost": 1, "u": 1},
    {"id": "n1", "label": "n1", "type": "EDGE", "memory": 1000000, "cost": 1, "u": 1}
  ],
  "connections": [
    {"id": "c0", "from": "n0", "to": "n1", "delay": 4, "bidirectional": true}
  ]
}`

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("could not write temp file: %v", err)
	}
	return path
}

func TestLoadFromJSONBuildsTheExpectedInstance(t *testing.T) {
	tasksPath := writeTempFile(t, "tasks.json", tasksJSON)
	networkPath := writeTempFile(t, "network.json", networkJSON)

	inst, err := importer.LoadFromJSON("scenario", tasksPath, networkPath, false)
	if err != nil {
		t.Fatalf("LoadFromJSON returned error: %v", err)
	}

	if len(inst.Tasks) != 2 || len(inst.Nodes) != 2 {
		t.Fatalf("got %d tasks, %d nodes; want 2, 2", len(inst.Tasks), len(inst.Nodes))
	}
	if len(inst.Tasks[0].Successors) != 1 || inst.Tasks[0].Successors[0] != 1 {
		t.Errorf("t0 successors = %v, want [1]", inst.Tasks[0].Successors)
	}
	if inst.Delay[0][1] != 4 || inst.Delay[1][0] != 4 {
		t.Errorf("bidirectional delay not applied symmetrically: %v", inst.Delay)
	}
}

func TestLoadFromJSONRejectsUnknownNodeType(t *testing.T) {
	tasksPath := writeTempFile(t, "tasks.json", `{"tasks": []}`)
	networkPath := writeTempFile(t, "network.json", `{"nodes": [{"id": "n0", "type": "SATELLITE"}]}`)

	if _, err := importer.LoadFromJSON("bad", tasksPath, networkPath, false); err == nil {
		t.Fatal("expected an error for an unknown node type")
	}
}

func TestLoadFromJSONAppliesFixedAllocation(t *testing.T) {
	tasks := `{"tasks": [{"id": "t0", "mist": true, "processorId": "m0", "C": 1, "T": 0, "D": 0, "M": 0, "a": 0}]}`
	network := `{"nodes": [{"id": "m0", "type": "MIST"}]}`
	tasksPath := writeTempFile(t, "tasks.json", tasks)
	networkPath := writeTempFile(t, "network.json", network)

	inst, err := importer.LoadFromJSON("mist", tasksPath, networkPath, false)
	if err != nil {
		t.Fatalf("LoadFromJSON returned error: %v", err)
	}
	if !inst.Tasks[0].HasFixedAllocation() {
		t.Error("expected t0 to have a fixed allocation")
	}
	if inst.Tasks[0].FixedAllocationIndex != 0 {
		t.Errorf("FixedAllocationIndex = %d, want 0", inst.Tasks[0].FixedAllocationIndex)
	}
}

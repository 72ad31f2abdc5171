package model

import (
	"fmt"
	"math"
)

// Infinite is the delay-matrix sentinel for "no direct link and no path
// under the current routing mode". Using a large finite int instead of
// a floating sentinel keeps delay arithmetic in plain integers.
const Infinite = math.MaxInt32 / 2

// Instance is the immutable task/node/network inventory a schedule is
// computed against. It is built once by LoadFromJSON or LoadFromDat and
// never mutated afterwards; all per-evaluation bookkeeping lives in the
// evaluator's own scratchpad, not here.
type Instance struct {
	Name string

	Tasks    []*Task
	Nodes    []*Node
	TaskByID map[string]int
	NodeByID map[string]int

	// Delay[i][j] is the network delay from node i to node j, Infinite
	// if no route exists under the active routing mode.
	Delay [][]int

	// NonMistNodeIndices is the candidate search space: every node the
	// search is allowed to assign a non-fixed task to.
	NonMistNodeIndices []int
}

// TaskInput/NodeInput/ConnectionInput/PrecedenceInput are the shared
// intermediate shape every constructor (JSON loader, .dat loader,
// fixture builder) builds before validation, so dense-indexing,
// precedence resolution and fixed-allocation resolution are implemented
// exactly once.
type TaskInput struct {
	ID          string
	Label       string
	Mist        bool
	C, T, D, A  int
	M           int
	ProcessorID string // empty means unset
	Successors  []string
}

type NodeInput struct {
	ID     string
	Label  string
	Type   NodeType
	Memory int
	Cost   int
	U      float64
}

type ConnectionInput struct {
	ID            string
	From, To      string
	Delay         int
	Bidirectional bool
}

type PrecedenceInput struct {
	From, To string
}

// Build is the single constructor every loader funnels into.
// allPairsShortestPaths selects direct-link-only (the default) or
// Floyd-Warshall all-pairs routing.
func Build(name string, tasks []TaskInput, nodes []NodeInput, precedences []PrecedenceInput, connections []ConnectionInput, allPairsShortestPaths bool) (*Instance, error) {
	inst := &Instance{
		Name:     name,
		TaskByID: make(map[string]int, len(tasks)),
		NodeByID: make(map[string]int, len(nodes)),
	}

	for idx, rn := range nodes {
		if _, dup := inst.NodeByID[rn.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", rn.ID)
		}
		inst.NodeByID[rn.ID] = idx
		inst.Nodes = append(inst.Nodes, &Node{
			ID:          rn.ID,
			Label:       rn.Label,
			Index:       idx,
			Type:        rn.Type,
			Memory:      rn.Memory,
			Cost:        rn.Cost,
			Utilization: rn.U,
		})
	}

	mistNodeTaken := make(map[int]string)

	for idx, rt := range tasks {
		if _, dup := inst.TaskByID[rt.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %q", rt.ID)
		}
		inst.TaskByID[rt.ID] = idx

		task := &Task{
			ID:    rt.ID,
			Label: rt.Label,
			Index: idx,
			C:     rt.C,
			T:     rt.T,
			D:     rt.D,
			A:     rt.A,
			M:     rt.M,
		}

		if rt.Mist {
			if rt.ProcessorID == "" {
				return nil, fmt.Errorf("task %q is mist but has no processorId", rt.ID)
			}
			nodeIdx, ok := inst.NodeByID[rt.ProcessorID]
			if !ok {
				return nil, fmt.Errorf("task %q refers to unknown node %q", rt.ID, rt.ProcessorID)
			}

			if owner, taken := mistNodeTaken[nodeIdx]; taken {
				return nil, fmt.Errorf("mist node %q already holds task %q, cannot also hold %q", rt.ProcessorID, owner, rt.ID)
			}
			mistNodeTaken[nodeIdx] = rt.ID

			inst.Nodes[nodeIdx].Type = NodeMist
			task.Kind = Mist
			task.FixedAllocationID = rt.ProcessorID
			task.FixedAllocationIndex = nodeIdx
		}

		inst.Tasks = append(inst.Tasks, task)
	}

	for idx, rt := range tasks {
		for _, succID := range rt.Successors {
			succIdx, ok := inst.TaskByID[succID]
			if !ok {
				return nil, fmt.Errorf("task %q has unknown successor %q", rt.ID, succID)
			}
			inst.Tasks[idx].Successors = append(inst.Tasks[idx].Successors, succIdx)
			inst.Tasks[succIdx].Predecessors = append(inst.Tasks[succIdx].Predecessors, idx)
		}
	}

	for _, p := range precedences {
		fromIdx, ok := inst.TaskByID[p.From]
		if !ok {
			return nil, fmt.Errorf("precedence references unknown task %q", p.From)
		}
		toIdx, ok := inst.TaskByID[p.To]
		if !ok {
			return nil, fmt.Errorf("precedence references unknown task %q", p.To)
		}
		inst.Tasks[fromIdx].Successors = append(inst.Tasks[fromIdx].Successors, toIdx)
		inst.Tasks[toIdx].Predecessors = append(inst.Tasks[toIdx].Predecessors, fromIdx)
	}

	n := len(inst.Nodes)
	inst.Delay = make([][]int, n)
	for i := range inst.Delay {
		inst.Delay[i] = make([]int, n)
		for j := range inst.Delay[i] {
			if i != j {
				inst.Delay[i][j] = Infinite
			}
		}
	}

	for _, c := range connections {
		if c.From == c.To {
			continue // self-loops are ignored at load
		}
		fromIdx, ok := inst.NodeByID[c.From]
		if !ok {
			return nil, fmt.Errorf("connection %q references unknown node %q", c.ID, c.From)
		}
		toIdx, ok := inst.NodeByID[c.To]
		if !ok {
			return nil, fmt.Errorf("connection %q references unknown node %q", c.ID, c.To)
		}
		if c.Delay >= Infinite {
			continue // infinite-sentinel delays are ignored at load
		}

		inst.Delay[fromIdx][toIdx] = c.Delay
		if c.Bidirectional {
			inst.Delay[toIdx][fromIdx] = c.Delay
		}
	}

	if allPairsShortestPaths {
		floydWarshall(inst.Delay)
	}

	for _, node := range inst.Nodes {
		if node.Type != NodeMist {
			inst.NonMistNodeIndices = append(inst.NonMistNodeIndices, node.Index)
		}
	}

	return inst, nil
}

// floydWarshall turns the direct-link delay matrix into an all-pairs
// shortest-path matrix in place. Disabled by default: multi-hop
// routing is a configuration toggle, not the default behaviour.
func floydWarshall(d [][]int) {
	n := len(d)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if d[i][k] >= Infinite {
				continue
			}
			for j := 0; j < n; j++ {
				if d[k][j] >= Infinite {
					continue
				}
				if via := d[i][k] + d[k][j]; via < d[i][j] {
					d[i][j] = via
				}
			}
		}
	}
}

// Describe returns a one-paragraph human summary of the instance, used
// by the CLI's debug path.
func (i *Instance) Describe() string {
	var mist, edge, cloud int
	for _, n := range i.Nodes {
		switch n.Type {
		case NodeMist:
			mist++
		case NodeEdge:
			edge++
		case NodeCloud:
			cloud++
		}
	}

	var utilSum float64
	for _, t := range i.Tasks {
		utilSum += t.Utilization()
	}
	meanUtil := 0.0
	if len(i.Tasks) > 0 {
		meanUtil = utilSum / float64(len(i.Tasks))
	}

	return fmt.Sprintf(
		"%s: %d tasks, %d nodes (%d mist, %d edge, %d cloud), mean task utilisation %.3f",
		i.Name, len(i.Tasks), len(i.Nodes), mist, edge, cloud, meanUtil,
	)
}

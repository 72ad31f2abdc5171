// Package importer loads an Instance from the external formats the
// solver accepts: paired task/network JSON, a single .dat file, or a CSV
// schedule used to seed a candidate. JSON is read through encoding/json
// and os.ReadFile rather than a third-party JSON library (see
// DESIGN.md for why).
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/draganovic/mistsched/internal/model"
)

type taskDoc struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Mist        bool     `json:"mist"`
	C           int      `json:"C"`
	T           int      `json:"T"`
	D           int      `json:"D"`
	M           int      `json:"M"`
	A           int      `json:"a"`
	ProcessorID *string  `json:"processorId"`
	Successors  []string `json:"successors"`
}

type precedenceDoc struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type taskFile struct {
	Tasks       []taskDoc       `json:"tasks"`
	Precedences []precedenceDoc `json:"precedences"`
}

type nodeDoc struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Type   string  `json:"type"`
	Memory int     `json:"memory"`
	Cost   int     `json:"cost"`
	U      float64 `json:"u"`
}

type connectionDoc struct {
	ID            string `json:"id"`
	From          string `json:"from"`
	To            string `json:"to"`
	Delay         int    `json:"delay"`
	Bidirectional bool   `json:"bidirectional"`
}

type networkFile struct {
	Nodes       []nodeDoc       `json:"nodes"`
	Connections []connectionDoc `json:"connections"`
}

// LoadFromJSON builds an Instance out of a task JSON file and a network
// JSON file. name labels the resulting Instance; it is derived by the
// caller, typically from the task file's base name.
func LoadFromJSON(name, tasksPath, networkPath string, allPairsShortestPaths bool) (*model.Instance, error) {
	taskBytes, err := os.ReadFile(tasksPath)
	if err != nil {
		return nil, fmt.Errorf("could not read task file %q: %w", tasksPath, err)
	}
	var tf taskFile
	if err := json.Unmarshal(taskBytes, &tf); err != nil {
		return nil, fmt.Errorf("could not parse task file %q: %w", tasksPath, err)
	}

	netBytes, err := os.ReadFile(networkPath)
	if err != nil {
		return nil, fmt.Errorf("could not read network file %q: %w", networkPath, err)
	}
	var nf networkFile
	if err := json.Unmarshal(netBytes, &nf); err != nil {
		return nil, fmt.Errorf("could not parse network file %q: %w", networkPath, err)
	}

	tasks := make([]model.TaskInput, 0, len(tf.Tasks))
	for _, td := range tf.Tasks {
		processorID := ""
		if td.ProcessorID != nil {
			processorID = *td.ProcessorID
		}
		tasks = append(tasks, model.TaskInput{
			ID: td.ID, Label: td.Label, Mist: td.Mist,
			C: td.C, T: td.T, D: td.D, A: td.A, M: td.M,
			ProcessorID: processorID,
			Successors:  td.Successors,
		})
	}

	precedences := make([]model.PrecedenceInput, 0, len(tf.Precedences))
	for _, pd := range tf.Precedences {
		precedences = append(precedences, model.PrecedenceInput{From: pd.From, To: pd.To})
	}

	nodes := make([]model.NodeInput, 0, len(nf.Nodes))
	for _, nd := range nf.Nodes {
		typ, ok := model.ParseNodeType(strings.ToUpper(nd.Type))
		if !ok {
			return nil, fmt.Errorf("node %q has unknown type %q", nd.ID, nd.Type)
		}
		nodes = append(nodes, model.NodeInput{
			ID: nd.ID, Label: nd.Label, Type: typ,
			Memory: nd.Memory, Cost: nd.Cost, U: nd.U,
		})
	}

	connections := make([]model.ConnectionInput, 0, len(nf.Connections))
	for _, cd := range nf.Connections {
		connections = append(connections, model.ConnectionInput{
			ID: cd.ID, From: cd.From, To: cd.To,
			Delay: cd.Delay, Bidirectional: cd.Bidirectional,
		})
	}

	return model.Build(name, tasks, nodes, precedences, connections, allPairsShortestPaths)
}

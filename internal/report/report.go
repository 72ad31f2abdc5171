// Package report renders a SolverResult for a human or a downstream
// tool, and appends one record per solve to a persistent CSV log
// stream. text/tabwriter and encoding/csv (both stdlib) carry the
// formatting (see DESIGN.md for why no third-party templating library
// is used here).
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/draganovic/mistsched/internal/search"
)

// Format selects the output rendering for Write.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTab  Format = "tab"
)

// Write renders result in the requested format to w. Unknown formats
// fall back to FormatText.
func Write(w io.Writer, instanceName string, result search.SolverResult, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, instanceName, result)
	case FormatCSV:
		return writeCSV(w, instanceName, result)
	case FormatTab:
		return writeTab(w, instanceName, result)
	default:
		return writeText(w, instanceName, result)
	}
}

type resultDoc struct {
	Instance       string  `json:"instance"`
	Status         string  `json:"status"`
	State          string  `json:"state"`
	Iterations     int     `json:"iterations"`
	RuntimeMs      int64   `json:"runtime_ms"`
	Objective      float64 `json:"objective"`
	ScheduleSpan   int     `json:"schedule_span"`
	FinishTimeSum  int     `json:"finish_time_sum"`
	ProcessorsCost int     `json:"processors_cost"`
	DelayCost      int     `json:"delay_cost"`
	Observation    string  `json:"observation,omitempty"`
}

func toDoc(instanceName string, result search.SolverResult) resultDoc {
	return resultDoc{
		Instance:       instanceName,
		Status:         result.Status.String(),
		State:          result.State.State(),
		Iterations:     result.Iterations,
		RuntimeMs:      result.Runtime.Milliseconds(),
		Objective:      result.Objective,
		ScheduleSpan:   result.State.ScheduleSpan(),
		FinishTimeSum:  result.State.FinishTimeSum(),
		ProcessorsCost: result.State.ProcessorsCost(),
		DelayCost:      result.State.DelayCost(),
		Observation:    result.Observation,
	}
}

func writeText(w io.Writer, instanceName string, result search.SolverResult) error {
	doc := toDoc(instanceName, result)
	_, err := fmt.Fprintf(w,
		"instance: %s\nstatus: %s\nstate: %s\niterations: %d\nruntime: %dms\nobjective: %.4f\nspan: %d\nfinish_sum: %d\nprocessors_cost: %d\ndelay_cost: %d\n",
		doc.Instance, doc.Status, doc.State, doc.Iterations, doc.RuntimeMs, doc.Objective,
		doc.ScheduleSpan, doc.FinishTimeSum, doc.ProcessorsCost, doc.DelayCost,
	)
	if doc.Observation != "" {
		if _, err2 := fmt.Fprintf(w, "observation: %s\n", doc.Observation); err2 != nil {
			return err2
		}
	}
	return err
}

func writeJSON(w io.Writer, instanceName string, result search.SolverResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toDoc(instanceName, result))
}

func writeTab(w io.Writer, instanceName string, result search.SolverResult) error {
	doc := toDoc(instanceName, result)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "instance\tstatus\tstate\titerations\truntime_ms\tobjective\tspan\tfinish_sum\tprocessors_cost\tdelay_cost\n")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.4f\t%d\t%d\t%d\t%d\n",
		doc.Instance, doc.Status, doc.State, doc.Iterations, doc.RuntimeMs, doc.Objective,
		doc.ScheduleSpan, doc.FinishTimeSum, doc.ProcessorsCost, doc.DelayCost,
	)
	return tw.Flush()
}

func writeCSV(w io.Writer, instanceName string, result search.SolverResult) error {
	doc := toDoc(instanceName, result)
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"instance", "status", "state", "iterations", "runtime_ms", "objective", "span", "finish_sum", "processors_cost", "delay_cost"}); err != nil {
		return err
	}
	err := cw.Write([]string{
		doc.Instance, doc.Status, doc.State,
		strconv.Itoa(doc.Iterations), strconv.FormatInt(doc.RuntimeMs, 10),
		strconv.FormatFloat(doc.Objective, 'f', 4, 64),
		strconv.Itoa(doc.ScheduleSpan), strconv.Itoa(doc.FinishTimeSum),
		strconv.Itoa(doc.ProcessorsCost), strconv.Itoa(doc.DelayCost),
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

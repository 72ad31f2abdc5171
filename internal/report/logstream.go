package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/draganovic/mistsched/internal/objective"
	"github.com/draganovic/mistsched/internal/search"
)

var logHeader = []string{
	"timestamp", "instance", "alpha", "beta", "gamma",
	"solver", "refinement_method", "runtime_ms", "iterations",
	"schedule_span", "finish_time_sum", "processors_cost", "delay_cost",
	"objective", "state",
}

// LogStream is an append-only CSV log, one record per solve()
// invocation, with the header written once on file creation. A single
// mutex-free append path driven entirely by the caller's sequencing.
type LogStream struct {
	path string
}

// OpenLogStream prepares a LogStream at path, writing the header row if
// the file does not exist yet.
func OpenLogStream(path string) (*LogStream, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		f, createErr := os.Create(path)
		if createErr != nil {
			return nil, fmt.Errorf("could not create log stream %q: %w", path, createErr)
		}
		w := csv.NewWriter(f)
		writeErr := w.Write(logHeader)
		w.Flush()
		f.Close()
		if writeErr != nil {
			return nil, fmt.Errorf("could not write log stream header %q: %w", path, writeErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("could not stat log stream %q: %w", path, err)
	}

	return &LogStream{path: path}, nil
}

// Append writes one record describing result to the log stream.
func (l *LogStream) Append(instanceName string, solverName string, refinementMethod string, tunings objective.Tunings, result search.SolverResult) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open log stream %q: %w", l.path, err)
	}
	defer f.Close()

	if refinementMethod == "" {
		refinementMethod = "N/A"
	}

	record := []string{
		time.Now().Format(time.RFC3339),
		instanceName,
		strconv.FormatFloat(tunings.Alpha, 'f', -1, 64),
		strconv.FormatFloat(tunings.Beta, 'f', -1, 64),
		strconv.FormatFloat(tunings.Gamma, 'f', -1, 64),
		solverName,
		refinementMethod,
		strconv.FormatInt(result.Runtime.Milliseconds(), 10),
		strconv.Itoa(result.Iterations),
		strconv.Itoa(result.State.ScheduleSpan()),
		strconv.Itoa(result.State.FinishTimeSum()),
		strconv.Itoa(result.State.ProcessorsCost()),
		strconv.Itoa(result.State.DelayCost()),
		strconv.FormatFloat(result.Objective, 'f', -1, 64),
		result.State.State(),
	}

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("could not append to log stream %q: %w", l.path, err)
	}
	w.Flush()
	return w.Error()
}

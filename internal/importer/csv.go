package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/model"
	"github.com/draganovic/mistsched/logging"
)

var log = logging.Get()

// LoadSchedule reads a CSV schedule and turns it into both a Candidate
// seed for an already-built Instance and the Scheduled snapshot the
// import itself represents. Accepted row shapes are
// task_id,node_id,start | task_id,node_id,start,finish |
// node_id,start[,finish] (row index taken as task id in the last case;
// a 3-field row is disambiguated by whether its first field is a known
// task id). headered and headerless files are both accepted: a first
// row whose first field isn't a known task id and doesn't parse as a
// node reference is treated as a header and skipped. Rows referencing
// an unknown task or node are skipped with a warning, not a hard error.
//
// The returned Scheduled is built straight from the CSV's own start (and
// optional finish) columns via evaluator.FromImportedSchedule, never
// through the evaluator's topoOrder/listSchedule pass, so a CSV import
// takes deadlines and resource budgets as given rather than recomputing
// them.
func LoadSchedule(r io.Reader, inst *model.Instance) (model.Candidate, *evaluator.Scheduled, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return model.Candidate{}, nil, fmt.Errorf("could not parse schedule csv: %w", err)
	}

	nodeIndices := make([]int, len(inst.Tasks))
	startTimes := make([]int, len(inst.Tasks))
	finishTimes := make([]int, len(inst.Tasks))
	for i := range nodeIndices {
		nodeIndices[i] = -1
	}

	for rowIdx, record := range records {
		if len(record) == 0 {
			continue
		}
		if rowIdx == 0 && looksLikeHeader(record, inst) {
			continue
		}

		row, ok := resolveScheduleRow(record, rowIdx, inst)
		if !ok {
			log.Warn().Int("row", rowIdx).Msg("skipping schedule row: could not resolve task/node")
			continue
		}

		nodeIdx, ok := inst.NodeByID[row.nodeID]
		if !ok {
			log.Warn().Int("row", rowIdx).Str("node_id", row.nodeID).Msg("skipping schedule row: unknown node")
			continue
		}

		nodeIndices[row.taskIdx] = nodeIdx
		startTimes[row.taskIdx] = row.start
		if row.hasFinish {
			finishTimes[row.taskIdx] = row.finish
		} else {
			finishTimes[row.taskIdx] = row.start + inst.Tasks[row.taskIdx].C
		}
	}

	sched := evaluator.FromImportedSchedule(inst, nodeIndices, startTimes, finishTimes)
	return model.FromSchedule(inst, nodeIndices), sched, nil
}

// scheduleRow is what resolveScheduleRow extracts from one CSV record.
type scheduleRow struct {
	taskIdx   int
	nodeID    string
	start     int
	finish    int
	hasFinish bool
}

// resolveScheduleRow figures out which task, node and times a row refers
// to, under any of the three accepted shapes.
func resolveScheduleRow(record []string, rowIdx int, inst *model.Instance) (scheduleRow, bool) {
	switch len(record) {
	case 4:
		idx, known := inst.TaskByID[record[0]]
		if !known {
			return scheduleRow{}, false
		}
		start, err := strconv.Atoi(record[2])
		if err != nil {
			return scheduleRow{}, false
		}
		row := scheduleRow{taskIdx: idx, nodeID: record[1], start: start}
		if finish, err := strconv.Atoi(record[3]); err == nil {
			row.finish, row.hasFinish = finish, true
		}
		return row, true
	case 3:
		// Ambiguous between task_id,node_id,start and node_id,start,finish;
		// a known task id in record[0] settles it, otherwise fall back to
		// the row-index-as-task-id shape, same as the 2-field case below.
		if idx, known := inst.TaskByID[record[0]]; known {
			start, err := strconv.Atoi(record[2])
			if err != nil {
				return scheduleRow{}, false
			}
			return scheduleRow{taskIdx: idx, nodeID: record[1], start: start}, true
		}
		if rowIdx >= len(inst.Tasks) {
			return scheduleRow{}, false
		}
		row := scheduleRow{taskIdx: rowIdx, nodeID: record[0]}
		if start, err := strconv.Atoi(record[1]); err == nil {
			row.start = start
		}
		if finish, err := strconv.Atoi(record[2]); err == nil {
			row.finish, row.hasFinish = finish, true
		}
		return row, true
	case 1, 2:
		if rowIdx >= len(inst.Tasks) {
			return scheduleRow{}, false
		}
		row := scheduleRow{taskIdx: rowIdx, nodeID: record[0]}
		if len(record) == 2 {
			if start, err := strconv.Atoi(record[1]); err == nil {
				row.start = start
			}
		}
		return row, true
	default:
		return scheduleRow{}, false
	}
}

// looksLikeHeader reports whether record's first cell is neither a known
// task id nor parseable as the headerless shape's leading node id/start
// column, which is the best signal a reader-free heuristic can use.
func looksLikeHeader(record []string, inst *model.Instance) bool {
	if _, ok := inst.TaskByID[record[0]]; ok {
		return false
	}
	if _, ok := inst.NodeByID[record[0]]; ok {
		return false
	}
	if _, err := strconv.Atoi(record[0]); err == nil {
		return false
	}
	return true
}

package importer

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/draganovic/mistsched/internal/model"
)

// datDelaySentinel is the .dat format's "no link" marker; connections
// carrying it are discarded at load, same as the JSON/network loader
// discards delays at or above model.Infinite.
const datDelaySentinel = 1000

// LoadFromDat builds an Instance from a single-file whitespace format:
// node table, task table, precedence table, connection table, each
// preceded by its own count line. Node and task ids are their dense
// index, stringified, since the format has no other identifier.
func LoadFromDat(name, path string, allPairsShortestPaths bool) (*model.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dat file %q: %w", path, err)
	}
	defer f.Close()

	r := &datReader{scanner: bufio.NewScanner(f), path: path}

	numNodes, err := r.readInt()
	if err != nil {
		return nil, err
	}

	nodes := make([]model.NodeInput, numNodes)
	for i := 0; i < numNodes; i++ {
		fields, err := r.readFields(3, 4)
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, r.errorf("node line %d: bad node index %q", i, fields[0])
		}
		memory, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, r.errorf("node line %d: bad memory %q", i, fields[1])
		}
		u, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, r.errorf("node line %d: bad utilisation %q", i, fields[2])
		}
		cost := 1
		if len(fields) > 3 {
			cost, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, r.errorf("node line %d: bad cost %q", i, fields[3])
			}
		}

		nodes[idx] = model.NodeInput{
			ID: strconv.Itoa(idx), Label: strconv.Itoa(idx),
			Type: model.NodeEdge, Memory: memory, Cost: cost, U: u,
		}
	}

	lastTaskIndex, err := r.readInt()
	if err != nil {
		return nil, err
	}
	numTasks := lastTaskIndex + 1

	tasks := make([]model.TaskInput, numTasks)
	for i := 0; i < numTasks; i++ {
		fields, err := r.readFields(7, 7)
		if err != nil {
			return nil, err
		}
		ints := make([]int, len(fields))
		for j, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, r.errorf("task line %d: bad integer %q", i, field)
			}
			ints[j] = v
		}
		idx, c, t, d, a, m, allocatedNode := ints[0], ints[1], ints[2], ints[3], ints[4], ints[5], ints[6]

		task := model.TaskInput{
			ID: strconv.Itoa(idx), Label: strconv.Itoa(idx),
			C: c, T: t, D: d, A: a, M: m,
		}
		if allocatedNode != 0 {
			task.Mist = true
			task.ProcessorID = strconv.Itoa(allocatedNode)
		}
		tasks[idx] = task
	}

	precedencesCount, err := r.readInt()
	if err != nil {
		return nil, err
	}
	var precedences []model.PrecedenceInput
	for i := 0; i < precedencesCount; i++ {
		fields, err := r.readFields(3, 3)
		if err != nil {
			return nil, err
		}
		exists, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, r.errorf("precedence line %d: bad exists flag %q", i, fields[2])
		}
		if exists != 1 {
			continue
		}
		precedences = append(precedences, model.PrecedenceInput{From: fields[0], To: fields[1]})
	}

	connectionCount, err := r.readInt()
	if err != nil {
		return nil, err
	}
	var connections []model.ConnectionInput
	for i := 0; i < connectionCount; i++ {
		fields, err := r.readFields(3, 3)
		if err != nil {
			return nil, err
		}
		if fields[0] == fields[1] {
			continue
		}
		delay, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, r.errorf("connection line %d: bad delay %q", i, fields[2])
		}
		if delay >= datDelaySentinel {
			continue
		}
		connections = append(connections, model.ConnectionInput{
			ID: fmt.Sprintf("c%d", i), From: fields[0], To: fields[1], Delay: delay,
		})
	}

	return model.Build(name, tasks, nodes, precedences, connections, allPairsShortestPaths)
}

// datReader wraps a bufio.Scanner with the line-oriented conventions the
// .dat format needs: blank lines skipped, field-count validation, and
// errors that carry the source path.
type datReader struct {
	scanner *bufio.Scanner
	path    string
	line    int
}

func (r *datReader) nextLine() (string, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		return text, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", r.errorf("read error: %v", err)
	}
	return "", r.errorf("unexpected end of file")
}

func (r *datReader) readInt() (int, error) {
	line, err := r.nextLine()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, r.errorf("line %d: expected an integer, got %q", r.line, line)
	}
	return v, nil
}

func (r *datReader) readFields(min, max int) ([]string, error) {
	line, err := r.nextLine()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) < min || len(fields) > max {
		return nil, r.errorf("line %d: expected between %d and %d fields, got %d", r.line, min, max, len(fields))
	}
	return fields, nil
}

func (r *datReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: "+format, append([]any{r.path}, args...)...)
}

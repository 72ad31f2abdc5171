// Package stats tracks counters across a solve run: the search methods
// record evaluator calls ("evaluations") and simulated annealing's
// accepted moves ("accepted_moves"). One mutex-guarded map of named
// counters behind a package-level singleton.
package stats

import (
	"fmt"
	"sort"
	"sync"
)

type counters struct {
	mutex sync.Mutex
	data  map[string]int
}

var current = &counters{data: make(map[string]int)}

// Init resets the package-level counters. Called at the start of a
// solve() invocation so counters don't leak across runs; Set/Incr/Get
// work even without it, starting from an empty counter set.
func Init() {
	current.mutex.Lock()
	defer current.mutex.Unlock()

	current.data = make(map[string]int)
}

// Set overwrites a named counter.
func Set(key string, value int) {
	current.mutex.Lock()
	defer current.mutex.Unlock()

	current.data[key] = value
}

// Incr adds delta to a named counter, creating it at 0 first if needed.
func Incr(key string, delta int) {
	current.mutex.Lock()
	defer current.mutex.Unlock()

	current.data[key] += delta
}

// Get reads a named counter; missing keys read as 0.
func Get(key string) int {
	current.mutex.Lock()
	defer current.mutex.Unlock()

	return current.data[key]
}

// Display renders every counter, sorted by name, for --dbg output.
func Display() string {
	current.mutex.Lock()
	defer current.mutex.Unlock()

	keys := make([]string, 0, len(current.data))
	for k := range current.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := "solve statistics:\n"
	for _, k := range keys {
		result += fmt.Sprintf("  %s: %d\n", k, current.data[k])
	}
	return result
}

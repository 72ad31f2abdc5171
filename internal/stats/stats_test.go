package stats_test

import (
	"strings"
	"testing"

	"github.com/draganovic/mistsched/internal/stats"
)

func TestIncrAccumulatesAndInitResets(t *testing.T) {
	stats.Init()
	stats.Incr("evaluations", 3)
	stats.Incr("evaluations", 2)

	if got := stats.Get("evaluations"); got != 5 {
		t.Fatalf("evaluations = %d, want 5", got)
	}

	stats.Init()
	if got := stats.Get("evaluations"); got != 0 {
		t.Fatalf("evaluations after Init = %d, want 0", got)
	}
}

func TestDisplayListsEveryCounter(t *testing.T) {
	stats.Init()
	stats.Set("accepted_moves", 4)
	stats.Set("evaluations", 10)

	out := stats.Display()
	if !strings.Contains(out, "accepted_moves: 4") || !strings.Contains(out, "evaluations: 10") {
		t.Errorf("Display() = %q, missing expected counters", out)
	}
}

package config_test

import (
	"testing"

	"github.com/draganovic/mistsched/internal/config"
)

func TestLoadWithEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	want := config.Default()
	if cfg != want {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, want)
	}
}

func TestSetOverridesOneField(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Set("simulated_annealing.cooling_rate", "0.5"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if cfg.SimulatedAnnealing.CoolingRate != 0.5 {
		t.Errorf("cooling_rate = %v, want 0.5", cfg.SimulatedAnnealing.CoolingRate)
	}

	other := config.Default()
	cfg.SimulatedAnnealing.CoolingRate = other.SimulatedAnnealing.CoolingRate
	if cfg != other {
		t.Errorf("Set mutated fields beyond the target key")
	}
}

func TestSetRejectsMalformedKey(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Set("no_dot_here", "1"); err == nil {
		t.Errorf("expected an error for a key with no section")
	}
}

func TestSetRejectsUnknownField(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Set("misc.not_a_real_field", "1"); err == nil {
		t.Errorf("expected an error for an unknown field under UnmarshalStrict")
	}
}

// Package config loads the YAML-backed solver configuration: one
// section per search method, a tuning section for the objective
// weights, and a misc section for cross-cutting knobs. Unknown keys are
// rejected via yaml.v2's UnmarshalStrict.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// RandomSearch holds the knobs for the random-search method and also
// the bootstrap phase SA/GA use to seed an initial feasible candidate.
type RandomSearch struct {
	MaxIterations       int     `yaml:"max_iterations"`
	TimeoutMs           int     `yaml:"timeout_ms"`
	PerturbationRate    float64 `yaml:"perturbation_rate"`
	StagnationLimit     int     `yaml:"stagnation_limit"`
	StagnationThreshold float64 `yaml:"stagnation_threshold"`
}

// SimulatedAnnealing holds the annealing schedule plus the priority
// refinement inner loop's knobs (both the normal-perturbation and PSO
// variants; RefinementMethod picks which one runs).
type SimulatedAnnealing struct {
	InitialTemperature float64 `yaml:"initial_temperature"`
	MinTemperature      float64 `yaml:"min_temperature"`
	CoolingRate         float64 `yaml:"cooling_rate"`
	MaxIterations       int     `yaml:"max_iterations"`
	MaxInitTries        int     `yaml:"max_init_tries"`
	MaxNeighborTries    int     `yaml:"max_neighbor_tries"`
	TimeoutMs           int     `yaml:"timeout_ms"`
	StagnationLimit     int     `yaml:"stagnation_limit"`
	StagnationThreshold float64 `yaml:"stagnation_threshold"`

	RefinementMethod     string  `yaml:"refinement_method"` // "normal" or "pso"
	RefinementIterations int     `yaml:"refinement_iterations"`
	SigmaMin             float64 `yaml:"sigma_min"`
	SigmaMax             float64 `yaml:"sigma_max"`
	SwarmSize            int     `yaml:"swarm_size"`
	VelocityClampMin     float64 `yaml:"velocity_clamp_min"`
	InertiaWeight        float64 `yaml:"inertia_weight"`
	CognitiveWeight      float64 `yaml:"cognitive_weight"`
	SocialWeight         float64 `yaml:"social_weight"`
}

// GeneticAlgorithm holds the generational GA's knobs.
type GeneticAlgorithm struct {
	PopulationSize      int     `yaml:"population_size"`
	EliteCount          int     `yaml:"elite_count"`
	TournamentSize      int     `yaml:"tournament_size"`
	CrossoverRate       float64 `yaml:"crossover_rate"`
	MutationRate        float64 `yaml:"mutation_rate"`
	MaxGenerations      int     `yaml:"max_generations"`
	TimeoutMs           int     `yaml:"timeout_ms"`
	StagnationLimit     int     `yaml:"stagnation_limit"`
	StagnationThreshold float64 `yaml:"stagnation_threshold"`
}

// Tuning holds the objective weights.
type Tuning struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Gamma float64 `yaml:"gamma"`
}

// Misc holds cross-cutting knobs that don't belong to one search
// method: the log stream path, the multi-hop routing toggle, and the
// optional parallel-evaluation worker count.
type Misc struct {
	LogFile               string `yaml:"log_file"`
	AllPairsShortestPaths bool   `yaml:"all_pairs_shortest_paths"`
	Workers               int    `yaml:"workers"`
}

// Config is the full solver configuration document.
type Config struct {
	SimulatedAnnealing SimulatedAnnealing `yaml:"simulated_annealing"`
	RandomSearch       RandomSearch       `yaml:"random_search"`
	GeneticAlgorithm   GeneticAlgorithm   `yaml:"genetic_algorithm"`
	Tuning             Tuning             `yaml:"tuning"`
	Misc               Misc               `yaml:"misc"`
}

// Default returns the documented default configuration. Every key in
// the YAML schema has a default here, so a config file only needs to
// mention the keys it's overriding.
func Default() Config {
	return Config{
		RandomSearch: RandomSearch{
			MaxIterations:       5000,
			TimeoutMs:           10_000,
			PerturbationRate:    0.1,
			StagnationLimit:     500,
			StagnationThreshold: 1e-6,
		},
		SimulatedAnnealing: SimulatedAnnealing{
			InitialTemperature:   1000,
			MinTemperature:       0.1,
			CoolingRate:          0.95,
			MaxIterations:        2000,
			MaxInitTries:         100,
			MaxNeighborTries:     30,
			TimeoutMs:            30_000,
			StagnationLimit:      200,
			StagnationThreshold:  1e-6,
			RefinementMethod:     "normal",
			RefinementIterations: 20,
			SigmaMin:             0.02,
			SigmaMax:             0.2,
			SwarmSize:            15,
			VelocityClampMin:     0.1,
			InertiaWeight:        0.7,
			CognitiveWeight:      1.4,
			SocialWeight:         1.4,
		},
		GeneticAlgorithm: GeneticAlgorithm{
			PopulationSize:      50,
			EliteCount:          2,
			TournamentSize:      3,
			CrossoverRate:       0.8,
			MutationRate:        0.1,
			MaxGenerations:      500,
			TimeoutMs:           30_000,
			StagnationLimit:     100,
			StagnationThreshold: 1e-6,
		},
		Tuning: Tuning{Alpha: 1, Beta: 0, Gamma: 0},
		Misc:   Misc{LogFile: "mistsched.log.csv", Workers: 1},
	}
}

// Load reads a YAML config file on top of Default, rejecting unknown
// keys. A missing path is not an error — it just returns the defaults,
// matching the CLI's "--config is optional" contract.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}

	return cfg, nil
}

// Set applies one "--set section.field=value" override in place, the
// same dotted-path scheme the CLI exposes. It round-trips the override
// through YAML so it reuses the exact same field names and type
// coercion a config file would.
func (c *Config) Set(key, value string) error {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid override key %q, expected section.field", key)
	}

	doc := map[string]map[string]any{
		parts[0]: {parts[1]: parseScalar(value)},
	}

	bytes, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("could not encode override %q=%q: %w", key, value, err)
	}

	if err := yaml.UnmarshalStrict(bytes, c); err != nil {
		return fmt.Errorf("could not apply override %q=%q: %w", key, value, err)
	}

	return nil
}

// parseScalar guesses the YAML scalar type of a --set value: int, float,
// bool, or string, in that order of preference.
func parseScalar(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

// mistsched solves one scheduling instance and prints the result.
// Plain stdlib flag parsing, no subcommand framework,
// log.Err(err).Msg(...) on every fatal path.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/draganovic/mistsched/internal/config"
	"github.com/draganovic/mistsched/internal/dashboard"
	"github.com/draganovic/mistsched/internal/evaluator"
	"github.com/draganovic/mistsched/internal/importer"
	"github.com/draganovic/mistsched/internal/model"
	"github.com/draganovic/mistsched/internal/objective"
	"github.com/draganovic/mistsched/internal/report"
	"github.com/draganovic/mistsched/internal/search"
	"github.com/draganovic/mistsched/internal/stats"
	"github.com/draganovic/mistsched/logging"
)

var log = logging.Get()

// overrides collects repeated --set key=value flags.
type overrides []string

func (o *overrides) String() string { return strings.Join(*o, ",") }

func (o *overrides) Set(value string) error {
	*o = append(*o, value)
	return nil
}

func main() {
	tasksPath := flag.String("tasks", "", "path to task JSON file")
	networkPath := flag.String("network", "", "path to network JSON file")
	datPath := flag.String("dat", "", "path to a single .dat instance file")
	initFlag := flag.Bool("init", false, "read a seed schedule (CSV) from standard input")
	solverName := flag.String("solver", "random", "solver method: random|genetic|annealing")
	configPath := flag.String("config", "", "path to a YAML config file")
	outputFormat := flag.String("output", "text", "output format: text|json|csv|tab")
	dashboardAddr := flag.String("dashboard", "", "if set, serve a live dashboard on this address after solving (e.g. :8080)")
	dbg := flag.Bool("dbg", false, "enable debug output")

	var sets overrides
	flag.Var(&sets, "set", "dotted config override, e.g. simulated_annealing.cooling_rate=0.99 (repeatable)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Err(err).Msg("could not load config")
		os.Exit(1)
	}
	for _, kv := range sets {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			log.Error().Str("override", kv).Msg("malformed --set, expected key=value")
			os.Exit(1)
		}
		if err := cfg.Set(parts[0], parts[1]); err != nil {
			log.Err(err).Str("override", kv).Msg("could not apply override")
			os.Exit(1)
		}
	}

	instance, instanceName, err := loadInstance(*tasksPath, *networkPath, *datPath, cfg.Misc.AllPairsShortestPaths)
	if err != nil {
		log.Err(err).Msg("could not load instance")
		os.Exit(1)
	}

	if *dbg {
		log.Debug().Msg(instance.Describe())
	}

	var seed *model.Candidate
	if *initFlag {
		candidate, imported, err := importer.LoadSchedule(os.Stdin, instance)
		if err != nil {
			log.Err(err).Msg("could not read seed schedule from standard input")
			os.Exit(1)
		}
		seed = &candidate
		if *dbg {
			log.Debug().
				Int("schedule_span", imported.ScheduleSpan()).
				Int("finish_time_sum", imported.FinishTimeSum()).
				Int("processors_cost", imported.ProcessorsCost()).
				Int("delay_cost", imported.DelayCost()).
				Msg("imported schedule, marked Scheduled without recomputing deadlines")
		}
	}

	ev := evaluator.New(instance)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	tunings := objectiveTunings(cfg)

	stats.Init()
	refinementMethod := ""

	var result search.SolverResult
	switch *solverName {
	case "random":
		result = search.RandomSearch(ev, cfg.RandomSearch, tunings, rng, seed, false, cfg.Misc.Workers)
	case "annealing":
		refinementMethod = cfg.SimulatedAnnealing.RefinementMethod
		result = search.SimulatedAnnealing(ev, cfg.RandomSearch, cfg.SimulatedAnnealing, tunings, rng, seed, cfg.Misc.Workers)
	case "genetic":
		result = search.GeneticAlgorithm(ev, cfg.RandomSearch, cfg.GeneticAlgorithm, tunings, rng, seed, cfg.Misc.Workers)
	default:
		log.Error().Str("solver", *solverName).Msg("unknown solver, expected random|genetic|annealing")
		os.Exit(1)
	}

	if *dbg {
		log.Debug().Msg(stats.Display())
	}

	if err := report.Write(os.Stdout, instanceName, result, report.Format(*outputFormat)); err != nil {
		log.Err(err).Msg("could not write report")
	}

	if cfg.Misc.LogFile != "" {
		stream, err := report.OpenLogStream(cfg.Misc.LogFile)
		if err != nil {
			log.Err(err).Msg("could not open log stream")
		} else if err := stream.Append(instanceName, *solverName, refinementMethod, tunings, result); err != nil {
			log.Err(err).Msg("could not append to log stream")
		}
	}

	if *dashboardAddr != "" {
		dash := dashboard.New()
		dash.Update(instanceName, result)
		log.Info().Str("addr", *dashboardAddr).Msg("serving dashboard")
		if err := dash.Run(*dashboardAddr); err != nil {
			log.Err(err).Msg("dashboard server stopped")
		}
	}

	if result.Status != search.Completed {
		os.Exit(1)
	}
	if _, ok := result.State.(*evaluator.Scheduled); !ok {
		os.Exit(1)
	}
}

func loadInstance(tasksPath, networkPath, datPath string, allPairsShortestPaths bool) (*model.Instance, string, error) {
	if datPath != "" {
		name := strings.TrimSuffix(filepath.Base(datPath), filepath.Ext(datPath))
		inst, err := importer.LoadFromDat(name, datPath, allPairsShortestPaths)
		return inst, name, err
	}
	if tasksPath != "" && networkPath != "" {
		name := strings.TrimSuffix(filepath.Base(tasksPath), filepath.Ext(tasksPath))
		inst, err := importer.LoadFromJSON(name, tasksPath, networkPath, allPairsShortestPaths)
		return inst, name, err
	}
	return nil, "", fmt.Errorf("either --dat or both --tasks and --network must be given")
}

func objectiveTunings(cfg config.Config) objective.Tunings {
	return objective.Tunings{Alpha: cfg.Tuning.Alpha, Beta: cfg.Tuning.Beta, Gamma: cfg.Tuning.Gamma}
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/surfkit/rocketfeed/internal/app"
	"github.com/surfkit/rocketfeed/internal/dispatch"
)

// SchedulerHostEnv is the environment variable consulted for the workflow
// scheduler endpoint when --scheduler-host is not passed.
const SchedulerHostEnv = "LUIGI_SCHEDULER_HOST"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("rocketfeed", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
rocketfeed - queues the next batch of simulations picked by the feedback loop.

Usage:
  rocketfeed [options] [BUDGET]

Arguments:
  BUDGET
    Total number of submissions to split across the configured systems.
    Optional, non-negative integer, defaults to `+strconv.Itoa(dispatch.DefaultBudget)+`.

Options:
`)
		flagSet.PrintDefaults()
	}

	catalogFlag := flagSet.String("catalog", "", "Path to the system catalog file or directory.")
	cFlag := flagSet.String("c", "", "Path to the system catalog file or directory (shorthand).")
	schedulerHostFlag := flagSet.String("scheduler-host", "", "Workflow scheduler endpoint. Defaults to $"+SchedulerHostEnv+".")
	workersFlag := flagSet.Int("workers", 0, "Worker pool size per invocation. Overrides the catalog settings.")
	luigiLogLevelFlag := flagSet.String("luigi-log-level", "", "Log level handed to the workflow engine. Overrides the catalog settings.")
	workerTimeoutFlag := flagSet.Int("worker-timeout", 0, "Per-worker timeout in seconds. Overrides the catalog settings.")
	luigiFlag := flagSet.String("luigi", "", "Name or path of the workflow CLI binary.")
	moduleFlag := flagSet.String("module", "feedback", "Workflow module containing the feedback task.")
	taskFlag := flagSet.String("task", "Predictions", "Workflow task to schedule per system.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the workflow commands without executing them.")
	checkSchedulerFlag := flagSet.Bool("check-scheduler", false, "Probe the scheduler endpoint before dispatching.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	catalogPath := *catalogFlag
	if catalogPath == "" {
		catalogPath = *cFlag
	}
	if catalogPath == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	budget, err := parseBudget(flagSet.Args())
	if err != nil {
		return nil, false, err
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	// Record which override flags were passed explicitly, so unset flags
	// never clobber catalog settings with zero values.
	visited := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	var overrides app.SettingsOverrides
	if visited["scheduler-host"] {
		overrides.SchedulerHost = schedulerHostFlag
	} else if env := os.Getenv(SchedulerHostEnv); env != "" {
		overrides.SchedulerHost = &env
	}
	if visited["workers"] {
		overrides.Workers = workersFlag
	}
	if visited["luigi-log-level"] {
		overrides.LogLevel = luigiLogLevelFlag
	}
	if visited["worker-timeout"] {
		overrides.WorkerTimeoutSeconds = workerTimeoutFlag
	}

	config, err := app.NewConfig(app.Config{
		CatalogPath:    catalogPath,
		Budget:         budget,
		LuigiBinary:    *luigiFlag,
		Module:         *moduleFlag,
		Task:           *taskFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		DryRun:         *dryRunFlag,
		CheckScheduler: *checkSchedulerFlag,
		Overrides:      overrides,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

// parseBudget reads the optional positional submission budget. Malformed or
// negative values fail fast with a usage error.
func parseBudget(positional []string) (int, error) {
	switch len(positional) {
	case 0:
		return dispatch.DefaultBudget, nil
	case 1:
		budget, err := strconv.Atoi(positional[0])
		if err != nil {
			return 0, &ExitError{Code: 2, Message: fmt.Sprintf("invalid submission budget %q: not an integer", positional[0])}
		}
		if budget < 0 {
			return 0, &ExitError{Code: 2, Message: fmt.Sprintf("invalid submission budget %d: must be non-negative", budget)}
		}
		return budget, nil
	default:
		return 0, &ExitError{Code: 2, Message: "at most one positional argument (the submission budget) is accepted"}
	}
}

// Package luigi builds command lines for the external Luigi workflow CLI.
// It knows the flag surface of the feedback tasks and nothing about how the
// resulting command is executed.
package luigi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/surfkit/rocketfeed/internal/config"
)

// DefaultBinary is the workflow CLI looked up on PATH when no override is
// configured.
const DefaultBinary = "luigi"

// Invocation is one fully-specified call of the feedback workflow: which
// task to run, for which reaction system, with which shared settings, and
// how many new submissions it may create.
type Invocation struct {
	// Binary is the workflow CLI name or path; empty means DefaultBinary.
	Binary string

	// Module and Task name the workflow task to schedule, e.g. module
	// "feedback" task "Predictions".
	Module string
	Task   string

	System    config.System
	Settings  config.Settings
	MaxSubmit int
}

// Command returns the program name and argument vector for the invocation.
func (inv *Invocation) Command() (string, []string, error) {
	binary := inv.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	if inv.Module == "" || inv.Task == "" {
		return "", nil, fmt.Errorf("luigi invocation needs a module and task, got module=%q task=%q",
			inv.Module, inv.Task)
	}
	if inv.MaxSubmit < 0 {
		return "", nil, fmt.Errorf("luigi invocation for system %q has negative max-submit %d",
			inv.System.Name, inv.MaxSubmit)
	}

	// Luigi ListParameter values are JSON arrays on the command line.
	adsList, err := json.Marshal(inv.System.Adsorbates)
	if err != nil {
		return "", nil, fmt.Errorf("encoding adsorbate list for system %q: %w", inv.System.Name, err)
	}

	args := []string{
		"--module", inv.Module,
		inv.Task,
		"--ads-list", string(adsList),
		"--prediction-min", formatFloat(inv.System.PredictionMin),
		"--prediction-max", formatFloat(inv.System.PredictionMax),
		"--prediction-target", formatFloat(inv.System.PredictionTarget),
		"--predictions-location", inv.System.PredictionsLocation,
		"--priority", inv.System.Priority,
		"--block", inv.System.Block,
		"--xc", inv.System.XC,
		"--max-submit", strconv.Itoa(inv.MaxSubmit),
		"--scheduler-host", inv.Settings.SchedulerHost,
		"--workers", strconv.Itoa(inv.Settings.Workers),
		"--log-level", inv.Settings.LogLevel,
		"--worker-timeout", strconv.Itoa(inv.Settings.WorkerTimeoutSeconds),
	}
	return binary, args, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

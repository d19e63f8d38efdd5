// Package dispatch partitions a submission budget across the configured
// reaction systems and issues one workflow invocation per system.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/surfkit/rocketfeed/internal/config"
	"github.com/surfkit/rocketfeed/internal/ctxlog"
	"github.com/surfkit/rocketfeed/internal/luigi"
)

// DefaultBudget is the total submission count used when the operator does
// not pass one.
const DefaultBudget = 100

// Dispatcher issues one feedback-workflow invocation per catalog system,
// sequentially and in catalog order. It owns no durable state; every run
// recomputes its allocations from scratch.
type Dispatcher struct {
	catalog *config.Catalog
	runner  Runner

	// Module, Task and Binary are fixed per dispatcher and shared by all
	// invocations it builds.
	module string
	task   string
	binary string
}

// New builds a dispatcher over the given catalog. The runner decides how
// invocations are executed.
func New(catalog *config.Catalog, runner Runner, binary, module, task string) *Dispatcher {
	return &Dispatcher{
		catalog: catalog,
		runner:  runner,
		module:  module,
		task:    task,
		binary:  binary,
	}
}

// Allocate computes the per-system submission cap: the floor of budget
// divided by the system count. The remainder is dropped, never
// redistributed, so the sum of allocations can undershoot the budget by up
// to count-1.
func Allocate(budget, systems int) (int, error) {
	if budget < 0 {
		return 0, fmt.Errorf("submission budget must be non-negative, got %d", budget)
	}
	if systems <= 0 {
		return 0, errors.New("no systems configured")
	}
	return budget / systems, nil
}

// Dispatch splits the budget across the catalog and invokes the workflow
// once per system. A failing invocation does not stop the remaining
// systems; already-enqueued work is never rolled back. The returned error
// joins every per-system failure.
//
// A zero allocation still issues the invocation with max-submit 0, leaving
// the skip/submit decision to the workflow engine.
func (d *Dispatcher) Dispatch(ctx context.Context, budget int) error {
	logger := ctxlog.FromContext(ctx)

	perSystem, err := Allocate(budget, len(d.catalog.Systems))
	if err != nil {
		return err
	}
	logger.Info("🚀 Dispatching submissions.",
		"budget", budget, "systems", len(d.catalog.Systems), "per_system", perSystem)

	var errs []error
	for i := range d.catalog.Systems {
		sys := d.catalog.Systems[i]
		inv := &luigi.Invocation{
			Binary:    d.binary,
			Module:    d.module,
			Task:      d.task,
			System:    sys,
			Settings:  d.catalog.Settings,
			MaxSubmit: perSystem,
		}
		if err := d.dispatchOne(ctx, inv); err != nil {
			logger.Error("System invocation failed.", "system", sys.Name, "error", err)
			errs = append(errs, fmt.Errorf("system %q: %w", sys.Name, err))
			continue
		}
		logger.Info("System invocation finished.", "system", sys.Name, "max_submit", perSystem)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) dispatchOne(ctx context.Context, inv *luigi.Invocation) error {
	name, args, err := inv.Command()
	if err != nil {
		return err
	}
	return d.runner.Run(ctx, name, args...)
}

package config

import (
	"context"
	"errors"
	"fmt"
)

// Priority strategies understood by the workflow's feedback tasks. These
// mirror the prioritization methods of the prediction pipeline; the
// dispatcher only validates the name and passes it through.
const (
	PriorityAnything = "anything"
	PriorityTargeted = "targeted"
	PriorityRandom   = "random"
	PriorityGaussian = "gaussian"
)

// System describes one reaction system: which adsorbates to rank, the
// prediction window to sample from, and the model artifact that does the
// ranking. Systems are pure data; adding one is a catalog edit, not a code
// change.
type System struct {
	// Name identifies the system in logs and error messages, e.g. "CO2RR".
	Name string

	// Adsorbates is the list of [co]adsorbates submitted together.
	Adsorbates []string

	// PredictionMin, PredictionMax bound the window of model predictions
	// eligible for submission; PredictionTarget is the value the priority
	// strategy centers on. All in the model's response units (eV here).
	PredictionMin    float64
	PredictionMax    float64
	PredictionTarget float64

	// PredictionsLocation is the path or URI of the serialized regression
	// model used to rank candidate sites.
	PredictionsLocation string

	// Priority selects how candidates are ordered before trimming.
	Priority string

	// Block restricts predictions to one block of a hierarchical model.
	Block string

	// XC is the exchange-correlational functional for the calculations.
	XC string
}

// Validate reports the first structural problem with the system.
func (s *System) Validate() error {
	if s.Name == "" {
		return errors.New("system has no name")
	}
	if len(s.Adsorbates) == 0 {
		return fmt.Errorf("system %q has no adsorbates", s.Name)
	}
	for _, ads := range s.Adsorbates {
		if ads == "" {
			return fmt.Errorf("system %q has an empty adsorbate entry", s.Name)
		}
	}
	if s.PredictionsLocation == "" {
		return fmt.Errorf("system %q has no predictions location", s.Name)
	}
	if s.PredictionMin > s.PredictionMax {
		return fmt.Errorf("system %q: prediction window is inverted (min %g > max %g)",
			s.Name, s.PredictionMin, s.PredictionMax)
	}
	if s.PredictionTarget < s.PredictionMin || s.PredictionTarget > s.PredictionMax {
		return fmt.Errorf("system %q: prediction target %g is outside the window [%g, %g]",
			s.Name, s.PredictionTarget, s.PredictionMin, s.PredictionMax)
	}
	switch s.Priority {
	case PriorityAnything, PriorityTargeted, PriorityRandom, PriorityGaussian:
	default:
		return fmt.Errorf("system %q has unknown priority strategy %q", s.Name, s.Priority)
	}
	return nil
}

// Settings are the operational parameters shared by every invocation in a
// run. They are an explicit object rather than ambient environment lookups
// so the dispatcher's external coupling is visible at the call site.
type Settings struct {
	// SchedulerHost is the central workflow scheduler endpoint.
	SchedulerHost string

	// Workers is the worker pool size each invocation runs with.
	Workers int

	// LogLevel is the log level handed to the workflow engine, not ours.
	LogLevel string

	// WorkerTimeoutSeconds is the per-worker timeout handed to the engine.
	WorkerTimeoutSeconds int
}

// DefaultSettings returns the operational defaults used when a catalog's
// settings block omits a field.
func DefaultSettings() Settings {
	return Settings{
		Workers:              1,
		LogLevel:             "WARNING",
		WorkerTimeoutSeconds: 300,
	}
}

// Catalog is the loaded configuration for one run: shared settings plus the
// ordered list of systems to dispatch. Order is the dispatch order.
type Catalog struct {
	Settings Settings
	Systems  []System
}

// Validate checks every system and rejects duplicate names.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Systems))
	for i := range c.Systems {
		sys := &c.Systems[i]
		if err := sys.Validate(); err != nil {
			return err
		}
		if _, dup := seen[sys.Name]; dup {
			return fmt.Errorf("duplicate system %q", sys.Name)
		}
		seen[sys.Name] = struct{}{}
	}
	return nil
}

// Loader loads a catalog from one or more paths. Implementations are
// format-specific; each path may be a file or a directory to search.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Catalog, error)
}

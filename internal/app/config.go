package app

import (
	"errors"

	"github.com/surfkit/rocketfeed/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// CatalogPath points at the system catalog file or directory.
	CatalogPath string

	// Budget is the total submission count split across the catalog.
	Budget int

	// LuigiBinary, Module and Task identify the external workflow command;
	// empty LuigiBinary means the default binary name.
	LuigiBinary string
	Module      string
	Task        string

	// LogFormat and LogLevel configure this process's own logger, not the
	// workflow engine's.
	LogFormat string
	LogLevel  string

	DryRun         bool
	CheckScheduler bool

	// Overrides are settings passed on the command line that take
	// precedence over the catalog's settings block.
	Overrides SettingsOverrides
}

// SettingsOverrides carries optional command-line overrides for the shared
// operational settings. Nil fields leave the catalog value in place.
type SettingsOverrides struct {
	SchedulerHost        *string
	Workers              *int
	LogLevel             *string
	WorkerTimeoutSeconds *int
}

// Apply writes the non-nil overrides onto the settings.
func (o *SettingsOverrides) Apply(s *config.Settings) {
	if o.SchedulerHost != nil {
		s.SchedulerHost = *o.SchedulerHost
	}
	if o.Workers != nil {
		s.Workers = *o.Workers
	}
	if o.LogLevel != nil {
		s.LogLevel = *o.LogLevel
	}
	if o.WorkerTimeoutSeconds != nil {
		s.WorkerTimeoutSeconds = *o.WorkerTimeoutSeconds
	}
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.CatalogPath == "" {
		return nil, errors.New("CatalogPath is a required configuration field and cannot be empty")
	}
	if cfg.Budget < 0 {
		return nil, errors.New("Budget must be non-negative")
	}
	if cfg.Module == "" || cfg.Task == "" {
		return nil, errors.New("Module and Task are required configuration fields")
	}
	return &cfg, nil
}

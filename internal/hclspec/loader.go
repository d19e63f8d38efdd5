// Package hclspec is the HCL implementation of the config.Loader interface.
// A catalog file carries at most one settings block plus any number of
// labeled system blocks:
//
//	settings {
//	  scheduler_host = "scheduler.example.edu:8082"
//	  workers        = 1
//	}
//
//	system "CO2RR" {
//	  adsorbates        = ["CO"]
//	  prediction_min    = -2.62
//	  prediction_max    = 1.38
//	  prediction_target = -0.67
//	  predictions       = "/models/GP_CO.pkl"
//	  priority          = "gaussian"
//	  xc                = "rpbe"
//	}
package hclspec

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/surfkit/rocketfeed/internal/config"
	"github.com/surfkit/rocketfeed/internal/ctxlog"
	"github.com/surfkit/rocketfeed/internal/fsutil"
)

// Extension is the file suffix this loader claims.
const Extension = ".hcl"

// Loader parses .hcl catalog files.
type Loader struct{}

// NewLoader creates a new HCL catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes all recognized top-level blocks from one file.
type fileRoot struct {
	Settings *settingsBlock `hcl:"settings,block"`
	Systems  []*systemBlock `hcl:"system,block"`
}

type settingsBlock struct {
	SchedulerHost *string `hcl:"scheduler_host,optional"`
	Workers       *int    `hcl:"workers,optional"`
	LogLevel      *string `hcl:"log_level,optional"`
	WorkerTimeout *int    `hcl:"worker_timeout,optional"`
}

type systemBlock struct {
	Name             string   `hcl:"name,label"`
	Adsorbates       []string `hcl:"adsorbates"`
	PredictionMin    float64  `hcl:"prediction_min"`
	PredictionMax    float64  `hcl:"prediction_max"`
	PredictionTarget float64  `hcl:"prediction_target"`
	Predictions      string   `hcl:"predictions"`
	Priority         *string  `hcl:"priority,optional"`
	Block            *string  `hcl:"block,optional"`
	XC               *string  `hcl:"xc,optional"`
}

// Load parses every .hcl file under the given paths and merges the result
// into one catalog. System order follows sorted file order, then block
// order within a file. A second settings block, in any file, is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	catalog := &config.Catalog{Settings: config.DefaultSettings()}
	parser := hclparse.NewParser()
	settingsSeen := false

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("discovering catalog files under %s: %w", path, err)
		}
		logger.Debug("Discovered HCL catalog files.", "path", path, "count", len(files))

		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
			}

			var root fileRoot
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
			}

			if root.Settings != nil {
				if settingsSeen {
					return nil, fmt.Errorf("%s: duplicate settings block", file)
				}
				settingsSeen = true
				root.Settings.apply(&catalog.Settings)
			}
			for _, block := range root.Systems {
				catalog.Systems = append(catalog.Systems, block.translate())
			}
		}
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL catalog loaded.", "systems", len(catalog.Systems))
	return catalog, nil
}

func (b *settingsBlock) apply(s *config.Settings) {
	if b.SchedulerHost != nil {
		s.SchedulerHost = *b.SchedulerHost
	}
	if b.Workers != nil {
		s.Workers = *b.Workers
	}
	if b.LogLevel != nil {
		s.LogLevel = *b.LogLevel
	}
	if b.WorkerTimeout != nil {
		s.WorkerTimeoutSeconds = *b.WorkerTimeout
	}
}

// translate converts the HCL-specific system schema into the agnostic model.
func (b *systemBlock) translate() config.System {
	sys := config.System{
		Name:                b.Name,
		Adsorbates:          b.Adsorbates,
		PredictionMin:       b.PredictionMin,
		PredictionMax:       b.PredictionMax,
		PredictionTarget:    b.PredictionTarget,
		PredictionsLocation: b.Predictions,
		Priority:            config.PriorityGaussian,
		Block:               "no_block",
		XC:                  "rpbe",
	}
	if b.Priority != nil {
		sys.Priority = *b.Priority
	}
	if b.Block != nil {
		sys.Block = *b.Block
	}
	if b.XC != nil {
		sys.XC = *b.XC
	}
	return sys
}

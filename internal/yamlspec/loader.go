// Package yamlspec is the YAML implementation of the config.Loader
// interface. It accepts the same catalog model as hclspec:
//
//	settings:
//	  scheduler_host: scheduler.example.edu:8082
//	systems:
//	  - name: CO2RR
//	    adsorbates: [CO]
//	    prediction_min: -2.62
//	    prediction_max: 1.38
//	    prediction_target: -0.67
//	    predictions: /models/GP_CO.pkl
package yamlspec

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/surfkit/rocketfeed/internal/config"
	"github.com/surfkit/rocketfeed/internal/ctxlog"
	"github.com/surfkit/rocketfeed/internal/fsutil"
)

// Extensions are the file suffixes this loader claims.
var Extensions = []string{".yaml", ".yml"}

// Loader parses .yaml/.yml catalog files.
type Loader struct{}

// NewLoader creates a new YAML catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Settings *settingsNode `yaml:"settings"`
	Systems  []systemNode  `yaml:"systems"`
}

type settingsNode struct {
	SchedulerHost *string `yaml:"scheduler_host"`
	Workers       *int    `yaml:"workers"`
	LogLevel      *string `yaml:"log_level"`
	WorkerTimeout *int    `yaml:"worker_timeout"`
}

type systemNode struct {
	Name             string   `yaml:"name"`
	Adsorbates       []string `yaml:"adsorbates"`
	PredictionMin    float64  `yaml:"prediction_min"`
	PredictionMax    float64  `yaml:"prediction_max"`
	PredictionTarget float64  `yaml:"prediction_target"`
	Predictions      string   `yaml:"predictions"`
	Priority         string   `yaml:"priority"`
	Block            string   `yaml:"block"`
	XC               string   `yaml:"xc"`
}

// Load parses every YAML file under the given paths and merges the result
// into one catalog, with the same merge rules as the HCL loader.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	catalog := &config.Catalog{Settings: config.DefaultSettings()}
	settingsSeen := false

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("discovering catalog files under %s: %w", path, err)
		}
		logger.Debug("Discovered YAML catalog files.", "path", path, "count", len(files))

		for _, file := range files {
			root, err := parseFile(file)
			if err != nil {
				return nil, err
			}

			if root.Settings != nil {
				if settingsSeen {
					return nil, fmt.Errorf("%s: duplicate settings section", file)
				}
				settingsSeen = true
				root.Settings.apply(&catalog.Settings)
			}
			for _, node := range root.Systems {
				catalog.Systems = append(catalog.Systems, node.translate())
			}
		}
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("YAML catalog loaded.", "systems", len(catalog.Systems))
	return catalog, nil
}

func parseFile(path string) (*fileRoot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: catalog file is empty", path)
	}

	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &root, nil
}

func (n *settingsNode) apply(s *config.Settings) {
	if n.SchedulerHost != nil {
		s.SchedulerHost = *n.SchedulerHost
	}
	if n.Workers != nil {
		s.Workers = *n.Workers
	}
	if n.LogLevel != nil {
		s.LogLevel = *n.LogLevel
	}
	if n.WorkerTimeout != nil {
		s.WorkerTimeoutSeconds = *n.WorkerTimeout
	}
}

func (n *systemNode) translate() config.System {
	sys := config.System{
		Name:                n.Name,
		Adsorbates:          n.Adsorbates,
		PredictionMin:       n.PredictionMin,
		PredictionMax:       n.PredictionMax,
		PredictionTarget:    n.PredictionTarget,
		PredictionsLocation: n.Predictions,
		Priority:            n.Priority,
		Block:               n.Block,
		XC:                  n.XC,
	}
	if sys.Priority == "" {
		sys.Priority = config.PriorityGaussian
	}
	if sys.Block == "" {
		sys.Block = "no_block"
	}
	if sys.XC == "" {
		sys.XC = "rpbe"
	}
	return sys
}

package hclspec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfkit/rocketfeed/internal/config"
)

const twoSystems = `
settings {
  scheduler_host = "scheduler.example.edu:8082"
  workers        = 1
  log_level      = "WARNING"
  worker_timeout = 300
}

system "CO2RR" {
  adsorbates        = ["CO"]
  prediction_min    = -2.62
  prediction_max    = 1.38
  prediction_target = -0.67
  predictions       = "/models/GP_CO.pkl"
}

system "HER" {
  adsorbates        = ["H"]
  prediction_min    = -2.28
  prediction_max    = 1.73
  prediction_target = -0.27
  predictions       = "/models/GP_H.pkl"
  priority          = "targeted"
  block             = "('H',)"
  xc                = "beef-vdw"
}
`

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("single file with settings and defaults", func(t *testing.T) {
		path := writeCatalog(t, t.TempDir(), "catalog.hcl", twoSystems)

		catalog, err := NewLoader().Load(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, config.Settings{
			SchedulerHost:        "scheduler.example.edu:8082",
			Workers:              1,
			LogLevel:             "WARNING",
			WorkerTimeoutSeconds: 300,
		}, catalog.Settings)

		require.Len(t, catalog.Systems, 2)
		want := config.System{
			Name:                "CO2RR",
			Adsorbates:          []string{"CO"},
			PredictionMin:       -2.62,
			PredictionMax:       1.38,
			PredictionTarget:    -0.67,
			PredictionsLocation: "/models/GP_CO.pkl",
			Priority:            "gaussian",
			Block:               "no_block",
			XC:                  "rpbe",
		}
		if diff := cmp.Diff(want, catalog.Systems[0]); diff != "" {
			t.Errorf("first system mismatch (-want +got):\n%s", diff)
		}

		// The second block overrides every optional field.
		assert.Equal(t, "targeted", catalog.Systems[1].Priority)
		assert.Equal(t, "('H',)", catalog.Systems[1].Block)
		assert.Equal(t, "beef-vdw", catalog.Systems[1].XC)
	})

	t.Run("directory merges files in sorted order", func(t *testing.T) {
		dir := t.TempDir()
		writeCatalog(t, dir, "b.hcl", `
system "HER" {
  adsorbates        = ["H"]
  prediction_min    = -2.28
  prediction_max    = 1.73
  prediction_target = -0.27
  predictions       = "/models/GP_H.pkl"
}
`)
		writeCatalog(t, dir, "a.hcl", `
settings {
  scheduler_host = "scheduler.example.edu:8082"
}

system "CO2RR" {
  adsorbates        = ["CO"]
  prediction_min    = -2.62
  prediction_max    = 1.38
  prediction_target = -0.67
  predictions       = "/models/GP_CO.pkl"
}
`)

		catalog, err := NewLoader().Load(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, catalog.Systems, 2)
		assert.Equal(t, "CO2RR", catalog.Systems[0].Name)
		assert.Equal(t, "HER", catalog.Systems[1].Name)
		assert.Equal(t, "scheduler.example.edu:8082", catalog.Settings.SchedulerHost)
		// Unset settings keep their defaults.
		assert.Equal(t, 1, catalog.Settings.Workers)
		assert.Equal(t, 300, catalog.Settings.WorkerTimeoutSeconds)
	})

	t.Run("duplicate settings block rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeCatalog(t, dir, "a.hcl", `settings {}`)
		writeCatalog(t, dir, "b.hcl", `settings {}`)

		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, "duplicate settings block")
	})

	t.Run("duplicate system names rejected", func(t *testing.T) {
		path := writeCatalog(t, t.TempDir(), "catalog.hcl", `
system "CO2RR" {
  adsorbates        = ["CO"]
  prediction_min    = -2.62
  prediction_max    = 1.38
  prediction_target = -0.67
  predictions       = "/models/GP_CO.pkl"
}

system "CO2RR" {
  adsorbates        = ["CO"]
  prediction_min    = -2.62
  prediction_max    = 1.38
  prediction_target = -0.67
  predictions       = "/models/GP_CO.pkl"
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, `duplicate system "CO2RR"`)
	})

	t.Run("syntax error surfaces the file name", func(t *testing.T) {
		path := writeCatalog(t, t.TempDir(), "broken.hcl", `system "X" {`)

		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.hcl")
	})

	t.Run("missing required attribute rejected", func(t *testing.T) {
		path := writeCatalog(t, t.TempDir(), "catalog.hcl", `
system "CO2RR" {
  adsorbates = ["CO"]
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("invalid system fails validation", func(t *testing.T) {
		path := writeCatalog(t, t.TempDir(), "catalog.hcl", `
system "CO2RR" {
  adsorbates        = ["CO"]
  prediction_min    = -2.62
  prediction_max    = 1.38
  prediction_target = -0.67
  predictions       = "/models/GP_CO.pkl"
  priority          = "alphabetical"
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "unknown priority")
	})

	t.Run("missing path is an error", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse([]string{"--catalog", "systems.hcl"}, out)
		require.NoError(t, err)
		require.False(t, shouldExit)

		assert.Equal(t, "systems.hcl", cfg.CatalogPath)
		assert.Equal(t, 100, cfg.Budget)
		assert.Equal(t, "feedback", cfg.Module)
		assert.Equal(t, "Predictions", cfg.Task)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.DryRun)
		assert.Nil(t, cfg.Overrides.Workers)
	})

	t.Run("positional budget", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{"--catalog", "systems.hcl", "250"}, out)
		require.NoError(t, err)
		assert.Equal(t, 250, cfg.Budget)
	})

	t.Run("budget zero accepted", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{"-c", "systems.hcl", "0"}, out)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Budget)
	})

	t.Run("non-numeric budget rejected with exit code 2", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"--catalog", "systems.hcl", "lots"}, out)
		require.Error(t, err)
		exitErr, ok := err.(*ExitError)
		require.True(t, ok)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "not an integer")
	})

	t.Run("negative budget rejected", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"--catalog", "systems.hcl", "--", "-5"}, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-negative")
	})

	t.Run("extra positional arguments rejected", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"--catalog", "systems.hcl", "100", "200"}, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most one positional")
	})

	t.Run("missing catalog prints usage and exits cleanly", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse(nil, out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("help flag exits cleanly", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, shouldExit, err := Parse([]string{"-h"}, out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
	})

	t.Run("invalid log-level rejected", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"-c", "systems.hcl", "--log-level", "loud"}, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log-level")
	})

	t.Run("invalid log-format rejected", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"-c", "systems.hcl", "--log-format", "xml"}, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log-format")
	})

	t.Run("explicit overrides are recorded", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{
			"-c", "systems.hcl",
			"--scheduler-host", "other.example.edu:8082",
			"--workers", "4",
			"--luigi-log-level", "DEBUG",
			"--worker-timeout", "600",
		}, out)
		require.NoError(t, err)

		require.NotNil(t, cfg.Overrides.SchedulerHost)
		assert.Equal(t, "other.example.edu:8082", *cfg.Overrides.SchedulerHost)
		require.NotNil(t, cfg.Overrides.Workers)
		assert.Equal(t, 4, *cfg.Overrides.Workers)
		require.NotNil(t, cfg.Overrides.LogLevel)
		assert.Equal(t, "DEBUG", *cfg.Overrides.LogLevel)
		require.NotNil(t, cfg.Overrides.WorkerTimeoutSeconds)
		assert.Equal(t, 600, *cfg.Overrides.WorkerTimeoutSeconds)
	})

	t.Run("scheduler host falls back to the environment", func(t *testing.T) {
		t.Setenv(SchedulerHostEnv, "env.example.edu:8082")
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{"-c", "systems.hcl"}, out)
		require.NoError(t, err)
		require.NotNil(t, cfg.Overrides.SchedulerHost)
		assert.Equal(t, "env.example.edu:8082", *cfg.Overrides.SchedulerHost)
	})

	t.Run("explicit flag beats the environment", func(t *testing.T) {
		t.Setenv(SchedulerHostEnv, "env.example.edu:8082")
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{"-c", "systems.hcl", "--scheduler-host", "flag.example.edu:8082"}, out)
		require.NoError(t, err)
		require.NotNil(t, cfg.Overrides.SchedulerHost)
		assert.Equal(t, "flag.example.edu:8082", *cfg.Overrides.SchedulerHost)
	})

	t.Run("unknown flag rejected", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"--no-such-flag"}, out)
		require.Error(t, err)
	})
}

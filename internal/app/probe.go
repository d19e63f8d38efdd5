package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/surfkit/rocketfeed/internal/ctxlog"
)

const probeTimeout = 5 * time.Second

// probeScheduler checks that the workflow scheduler endpoint answers HTTP
// before any submissions are dispatched. Opt-in: the source behavior is to
// let the workflow tool discover a dead scheduler on its own.
func probeScheduler(ctx context.Context, host string) error {
	logger := ctxlog.FromContext(ctx)

	url := host
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("scheduler probe: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("scheduler %s is unreachable: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("scheduler %s answered with status %d", host, resp.StatusCode)
	}
	logger.Debug("Scheduler probe succeeded.", "host", host, "status", resp.StatusCode)
	return nil
}

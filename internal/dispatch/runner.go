package dispatch

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/surfkit/rocketfeed/internal/ctxlog"
)

// Runner executes one external command to completion. It exists so tests
// and dry runs can intercept invocations without forking processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output to the
// configured writers.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run forks the command and waits for it. The child inherits the context,
// so cancelling the dispatch kills an in-flight invocation.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	ctxlog.FromContext(ctx).Debug("Executing workflow command.", "command", name, "args", args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// DryRunner prints each command instead of executing it.
type DryRunner struct {
	Out io.Writer
}

func (r *DryRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := fmt.Fprintf(r.Out, "%s %s\n", name, strings.Join(args, " "))
	return err
}

package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Timeouts applied to external commands.
const (
	DefaultTimeout = 120 * time.Second
	AuditTimeout   = 300 * time.Second

	// WaitDelay bounds how long Run waits for output pipes after the process is killed.
	// Grandchildren that inherited stdout or stderr cannot hold Run open past it.
	WaitDelay = 2 * time.Second
)

// FailureExitCode is reported when a command could not run or produced no exit status.
const FailureExitCode = 1

// Result is the uniform outcome of running an external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the command exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

var _ Runner = &ExecRunner{} // Compile-time check

// NewExecRunner creates a runner for local processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements the Runner interface.
func (r *ExecRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = WaitDelay
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = FailureExitCode
		res.Stderr = appendDetail(res.Stderr, fmt.Sprintf("%s timed out after %s", name, timeout))
	case errors.As(err, &exitErr) && exitErr.ExitCode() > 0:
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		res.ExitCode = FailureExitCode
		res.Stderr = appendDetail(res.Stderr, err.Error())
	}

	Logger.WithFields(logrus.Fields{
		"cmd":       name + " " + strings.Join(args, " "),
		"dir":       dir,
		"exit_code": res.ExitCode,
		"duration":  time.Since(start).Round(time.Millisecond),
	}).Debug("command finished")

	return res
}

// LookPath implements the Runner interface.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// appendDetail joins captured stderr with a failure description.
func appendDetail(stderr, detail string) string {
	if stderr == "" {
		return detail
	}
	return stderr + "\n" + detail
}

// Package composecli drives the external compose tool. Two invocation
// generations exist in the wild: the `docker compose` plugin and the
// standalone `docker-compose` binary. The runner tries an ordered list of
// syntaxes and stops at the first success, so a host with either
// generation works without configuration.
//
// Lifecycle verbs are not idempotent here: starting an already-running
// service is delegated to the tool's own idempotence.
package composecli

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/pkg/logging"
)

// execCommandContext is swapped out in tests.
var execCommandContext = exec.CommandContext

// Operation-class timeouts. Hard limits: an invocation that expires is
// reported as a Timeout and never retried, not even on the next syntax.
var (
	psTimeout           = 30 * time.Second
	startTimeout        = 5 * time.Minute
	stopTimeout         = 2 * time.Minute
	restartTimeout      = 3 * time.Minute
	fleetStartTimeout   = 10 * time.Minute
	fleetStopTimeout    = 5 * time.Minute
	fleetRestartTimeout = 10 * time.Minute
)

// All addresses every service in the document.
const All = ""

// defaultSyntaxes is the ordered list of invocation generations, newest
// first. A new generation is supported by prepending to this list.
func defaultSyntaxes() [][]string {
	return [][]string{
		{"docker", "compose"},
		{"docker-compose"},
	}
}

// Runner invokes the compose tool against one compose file. Every
// invocation runs with its working directory pinned to the file's
// directory; the process working directory is never touched, so the
// caller's is intact on every exit path.
type Runner struct {
	dir      string
	syntaxes [][]string
}

// NewRunner returns a runner operating in the given compose directory.
func NewRunner(composeDir string) *Runner {
	return &Runner{
		dir:      composeDir,
		syntaxes: defaultSyntaxes(),
	}
}

// Start brings a service (or the whole fleet) up detached.
func (r *Runner) Start(ctx context.Context, service string) error {
	timeout := startTimeout
	if service == All {
		timeout = fleetStartTimeout
	}
	_, err := r.run(ctx, timeout, "up", appendService([]string{"-d"}, service)...)
	return err
}

// Stop stops a service (or the whole fleet) without removing containers.
func (r *Runner) Stop(ctx context.Context, service string) error {
	timeout := stopTimeout
	if service == All {
		timeout = fleetStopTimeout
	}
	_, err := r.run(ctx, timeout, "stop", appendService(nil, service)...)
	return err
}

// Restart restarts a service (or the whole fleet).
func (r *Runner) Restart(ctx context.Context, service string) error {
	timeout := restartTimeout
	if service == All {
		timeout = fleetRestartTimeout
	}
	_, err := r.run(ctx, timeout, "restart", appendService(nil, service)...)
	return err
}

// Down stops and removes the whole fleet's containers.
func (r *Runner) Down(ctx context.Context) error {
	_, err := r.run(ctx, fleetStopTimeout, "down")
	return err
}

// PS returns the tool's human-readable listing for a service, or for
// everything when service is All.
func (r *Runner) PS(ctx context.Context, service string) (string, error) {
	return r.run(ctx, psTimeout, "ps", appendService(nil, service)...)
}

// run executes one verb, walking the syntax list until an invocation
// succeeds. A deadline expiry fails the operation immediately; any other
// failure falls through to the next syntax, and the last one's error is
// surfaced with its captured stderr.
func (r *Runner) run(ctx context.Context, timeout time.Duration, verb string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for i, syntax := range r.syntaxes {
		stdout, err := r.invoke(ctx, syntax, verb, args)
		if err == nil {
			return stdout, nil
		}
		if ctx.Err() == context.DeadlineExceeded {
			return "", fleeterrors.NewTimeout("compose "+verb, timeout.String())
		}
		lastErr = err
		if i < len(r.syntaxes)-1 {
			logging.Warn("Compose", "'%s %s' failed (%v), falling back to the next syntax", strings.Join(syntax, " "), verb, err)
		}
	}
	return "", lastErr
}

func (r *Runner) invoke(ctx context.Context, syntax []string, verb string, args []string) (string, error) {
	argv := append(append(append([]string{}, syntax[1:]...), verb), args...)
	cmd := execCommandContext(ctx, syntax[0], argv...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug("Compose", "running %s %s (in %s)", syntax[0], strings.Join(argv, " "), r.dir)
	if err := cmd.Run(); err != nil {
		return "", fleeterrors.NewToolError(err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func appendService(args []string, service string) []string {
	if service != All {
		return append(args, service)
	}
	return args
}

package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Result records one hook run.
type Result struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs the hooks of a Config for one export.
type Executor struct {
	config  *Config
	context ExportContext
	results []Result
}

// NewExecutor prepares config to run with the environment of ectx.
func NewExecutor(config *Config, ectx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, context: ectx}
}

// RunPreExport runs every pre-export hook and stops at the first failing
// hook whose OnError is "fail".
func (e *Executor) RunPreExport() error {
	return e.runPhase(PreExport, e.config.Hooks.PreExport, true)
}

// RunPostExport runs every post-export hook. A failing "fail" hook is
// reported in the returned error but the remaining hooks still run.
func (e *Executor) RunPostExport() error {
	return e.runPhase(PostExport, e.config.Hooks.PostExport, false)
}

func (e *Executor) runPhase(phase HookPhase, hooks []Hook, stopOnFail bool) error {
	var errs []error
	for _, h := range hooks {
		res := e.runHook(phase, h)
		e.results = append(e.results, res)
		if res.Success || h.OnError == "continue" {
			continue
		}
		err := fmt.Errorf("%s hook %q failed: %w", phase, h.Name, res.Error)
		if stopOnFail {
			return err
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Executor) runHook(phase HookPhase, h Hook) Result {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.Env = append(os.Environ(), e.context.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	// Do not wait on grandchildren holding the pipes after a timeout.
	cmd.WaitDelay = 100 * time.Millisecond

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Hook:     h,
		Phase:    phase,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s", timeout)
	}
	res.Error = err
	res.Success = err == nil
	return res
}

// Results returns the runs so far in execution order.
func (e *Executor) Results() []Result {
	return e.results
}

// Summary describes the runs in a few lines.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return "No hooks executed"
	}
	ok, failed := 0, 0
	for _, r := range e.results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hooks: %d succeeded, %d failed", ok, failed)
	for _, r := range e.results {
		if r.Success {
			continue
		}
		fmt.Fprintf(&sb, "\n  %s (%s): %v", r.Hook.Name, r.Phase, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&sb, "\n    %s", truncate(r.Stderr, 200))
		}
	}
	return sb.String()
}

// RunHooks loads dir/hooks.yaml and returns an executor, or nil when
// disabled or when no hooks are configured.
func RunHooks(dir string, ectx ExportContext, disabled bool) (*Executor, error) {
	if disabled || dir == "" {
		return nil, nil
	}
	loader := NewLoader(dir)
	if err := loader.Load(); err != nil {
		return nil, err
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ectx), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

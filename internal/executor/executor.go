package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qaforge/qaforge/config"
	"github.com/qaforge/qaforge/models"
)

// Executor runs generated scripts in an isolated child process with a hard
// wall-clock timeout. It performs no static vetting of the script; the
// timeout is the only bound.
type Executor struct {
	interpreter string
	timeout     time.Duration
	logger      *log.Logger
}

func New(cfg config.ExecutorConfig) *Executor {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	interpreter := cfg.Interpreter
	if interpreter == "" {
		interpreter = "python3"
	}
	return &Executor{
		interpreter: interpreter,
		timeout:     timeout,
		logger:      log.New(log.Writer(), "[EXEC] ", log.LstdFlags),
	}
}

// Execute writes the script to a uniquely named temporary file, runs it with
// no interactive input, and captures stdout, stderr and the exit code. The
// temporary file is removed on every exit path. Failures are reported in the
// result, never returned as an error.
func (e *Executor) Execute(ctx context.Context, script, name string) models.ExecutionResult {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("qaforge_%s_%s.py", sanitizeName(name), uuid.NewString()))
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		return models.ExecutionResult{
			Success:       false,
			Stderr:        fmt.Sprintf("Execution error: %v", err),
			ReturnCode:    -1,
			ExecutionTime: "N/A",
		}
	}
	defer os.Remove(path)

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.interpreter, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
	return e.runResult(name, err, timedOut, stdout.String(), stderr.String())
}

// runResult classifies a finished run. A clean exit wins even when the
// deadline fired in the same instant; only a run the deadline actually
// killed is reported as a timeout.
func (e *Executor) runResult(name string, err error, timedOut bool, stdout, stderr string) models.ExecutionResult {
	if err == nil {
		return models.ExecutionResult{
			Success:       true,
			Stdout:        stdout,
			Stderr:        stderr,
			ReturnCode:    0,
			ExecutionTime: fmt.Sprintf("< %ds", int(e.timeout.Seconds())),
		}
	}

	if timedOut {
		e.logger.Printf("script %s timed out after %s", name, e.timeout)
		return models.ExecutionResult{
			Success:       false,
			Stdout:        "",
			Stderr:        fmt.Sprintf("Test execution timed out after %d seconds", int(e.timeout.Seconds())),
			ReturnCode:    -1,
			ExecutionTime: fmt.Sprintf("%ds (timeout)", int(e.timeout.Seconds())),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return models.ExecutionResult{
			Success:       false,
			Stdout:        stdout,
			Stderr:        stderr,
			ReturnCode:    exitErr.ExitCode(),
			ExecutionTime: fmt.Sprintf("< %ds", int(e.timeout.Seconds())),
		}
	}
	// Launch failure: interpreter missing, permissions, ...
	return models.ExecutionResult{
		Success:       false,
		Stdout:        "",
		Stderr:        fmt.Sprintf("Execution error: %v", err),
		ReturnCode:    -1,
		ExecutionTime: "N/A",
	}
}

// sanitizeName keeps the caller-supplied test name filesystem-safe.
func sanitizeName(name string) string {
	if name == "" {
		return "script"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

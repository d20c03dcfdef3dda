package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/qaforge/qaforge/config"
)

// Tests drive the executor with sh so they do not depend on a Python
// interpreter being installed.

func shExecutor(timeout time.Duration) *Executor {
	return New(config.ExecutorConfig{Interpreter: "sh", Timeout: timeout})
}

func leftoverTempFiles(t *testing.T, name string) []string {
	t.Helper()
	pattern := filepath.Join(os.TempDir(), "qaforge_"+name+"_*")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func TestExecuteSuccess(t *testing.T) {
	t.Parallel()
	e := shExecutor(10 * time.Second)
	result := e.Execute(context.Background(), "echo ok\n", "success-case")

	if !result.Success {
		t.Fatalf("result = %+v, want success", result)
	}
	if result.Stdout != "ok\n" {
		t.Fatalf("stdout = %q, want \"ok\\n\"", result.Stdout)
	}
	if result.ReturnCode != 0 {
		t.Fatalf("return code = %d, want 0", result.ReturnCode)
	}
	if files := leftoverTempFiles(t, "success-case"); len(files) != 0 {
		t.Fatalf("temp files left behind: %v", files)
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	t.Parallel()
	e := shExecutor(10 * time.Second)
	result := e.Execute(context.Background(), "echo boom >&2\nexit 3\n", "failing-case")

	if result.Success {
		t.Fatalf("result = %+v, want failure", result)
	}
	if result.ReturnCode != 3 {
		t.Fatalf("return code = %d, want 3", result.ReturnCode)
	}
	if !strings.Contains(result.Stderr, "boom") {
		t.Fatalf("stderr = %q, want captured boom", result.Stderr)
	}
	if files := leftoverTempFiles(t, "failing-case"); len(files) != 0 {
		t.Fatalf("temp files left behind: %v", files)
	}
}

func TestExecuteTimeout(t *testing.T) {
	t.Parallel()
	e := shExecutor(1 * time.Second)
	start := time.Now()
	result := e.Execute(context.Background(), "sleep 30\n", "sleepy-case")

	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("timeout did not fire, ran for %s", elapsed)
	}
	if result.Success {
		t.Fatalf("result = %+v, want failure", result)
	}
	if result.ReturnCode != -1 {
		t.Fatalf("return code = %d, want -1", result.ReturnCode)
	}
	if !strings.Contains(result.Stderr, "timed out after 1 seconds") {
		t.Fatalf("stderr = %q, want timeout message", result.Stderr)
	}
	if !strings.Contains(result.ExecutionTime, "timeout") {
		t.Fatalf("execution time = %q, want timeout marker", result.ExecutionTime)
	}
	if files := leftoverTempFiles(t, "sleepy-case"); len(files) != 0 {
		t.Fatalf("temp files left behind: %v", files)
	}
}

func TestExecuteLaunchFailure(t *testing.T) {
	t.Parallel()
	e := New(config.ExecutorConfig{Interpreter: "definitely-not-an-interpreter", Timeout: 5 * time.Second})
	result := e.Execute(context.Background(), "echo hi\n", "launch-fail")

	if result.Success {
		t.Fatalf("result = %+v, want failure", result)
	}
	if result.ReturnCode != -1 {
		t.Fatalf("return code = %d, want -1", result.ReturnCode)
	}
	if !strings.Contains(result.Stderr, "Execution error") {
		t.Fatalf("stderr = %q, want launch error description", result.Stderr)
	}
	if files := leftoverTempFiles(t, "launch-fail"); len(files) != 0 {
		t.Fatalf("temp files left behind: %v", files)
	}
}

func TestCleanExitAtDeadlineIsNotATimeout(t *testing.T) {
	t.Parallel()
	e := shExecutor(1 * time.Second)

	// The deadline can fire in the same instant the script exits cleanly;
	// the clean exit must win over the expired context.
	result := e.runResult("race-case", nil, true, "ok\n", "")

	if !result.Success {
		t.Fatalf("result = %+v, want success", result)
	}
	if result.ReturnCode != 0 {
		t.Fatalf("return code = %d, want 0", result.ReturnCode)
	}
	if result.Stdout != "ok\n" {
		t.Fatalf("stdout = %q, want preserved output", result.Stdout)
	}
	if strings.Contains(result.ExecutionTime, "timeout") {
		t.Fatalf("execution time = %q, want no timeout marker", result.ExecutionTime)
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"", "script"},
		{"login test/1", "login_test_1"},
		{"ok-name_2", "ok-name_2"},
		{"../../etc/cron", "______etc_cron"},
		{"white space", "white_space"},
	}
	for _, tc := range cases {
		if got := sanitizeName(tc.in); got != tc.want {
			t.Fatalf("sanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package runner

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("runner tests require a POSIX shell")
	}
}

func TestRunnerCapturesStdout(t *testing.T) {
	skipOnWindows(t)
	r := New(Options{})

	res, err := r.Run(context.Background(), "sh", "-c", "echo hi")
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "hi" {
		t.Fatalf("expected stdout 'hi', got %q", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", res.ExitCode)
	}
	if len(res.Args) != 3 || res.Args[0] != "sh" {
		t.Fatalf("unexpected args %v", res.Args)
	}
}

func TestRunnerFailure(t *testing.T) {
	skipOnWindows(t)
	r := New(Options{})

	res, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatalf("expected error for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
	if res.Stderr != "boom" {
		t.Fatalf("expected stderr 'boom', got %q", res.Stderr)
	}
}

func TestRunnerMissingCommand(t *testing.T) {
	r := New(Options{})

	res, err := r.Run(context.Background(), "definitely-not-a-real-command-xcshots")
	if err == nil {
		t.Fatalf("expected error for missing command")
	}
	if !Missing(err) {
		t.Fatalf("expected Missing(err) to be true, got %v", err)
	}
	if res.ExitCode != 127 {
		t.Fatalf("expected exit code 127, got %d", res.ExitCode)
	}
}

func TestRunnerEnvOverlay(t *testing.T) {
	skipOnWindows(t)
	r := New(Options{
		Env:      []string{"PATH=/usr/bin:/bin", "DEVELOPER_DIR=/old"},
		EnvExtra: map[string]string{"DEVELOPER_DIR": "/Applications/Xcode_16.app"},
	})

	res, err := r.Run(context.Background(), "sh", "-c", `echo "$DEVELOPER_DIR"`)
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "/Applications/Xcode_16.app" {
		t.Fatalf("expected overlay value, got %q", got)
	}
}

func TestRunnerDuration(t *testing.T) {
	skipOnWindows(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	r := New(Options{Now: func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}})

	res, err := r.Run(context.Background(), "sh", "-c", "true")
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	if res.Duration != time.Second {
		t.Fatalf("expected 1s duration, got %s", res.Duration)
	}
}

func TestTailLines(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"", 2, ""},
		{"  \n", 2, ""},
		{"a\nb\nc\n", 2, "b\nc"},
		{"a\nb", 5, "a\nb"},
	}
	for _, c := range cases {
		if got := tailLines(c.in, c.max); got != c.want {
			t.Fatalf("tailLines(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestSimplifyErrorLegacy(t *testing.T) {
	msg := "Error: This command is deprecated and will be removed in a future release, --legacy flag is required to use it."
	simplified := simplifyError(msg)
	if !strings.Contains(simplified, "legacy: always") {
		t.Fatalf("expected actionable legacy message, got %q", simplified)
	}
	if got := simplifyError("other failure"); got != "other failure" {
		t.Fatalf("unexpected rewrite: %q", got)
	}
}

func TestMergeEnvSortedAndOverridden(t *testing.T) {
	got := mergeEnv([]string{"B=1", "A=2", "broken"}, map[string]string{"B": "3"})
	want := []string{"A=2", "B=3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("mergeEnv = %v, want %v", got, want)
	}
}

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Options configure how the runner executes external commands.
type Options struct {
	Env       []string
	EnvExtra  map[string]string
	TailLines int
	Now       func() time.Time
	Logger    *slog.Logger
}

// Runner executes external commands sequentially and captures their output.
type Runner struct {
	opts Options
	env  []string
}

// Result captures the outcome of a single command invocation.
type Result struct {
	Args     []string
	Stdout   []byte
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{opts: opts, env: mergeEnv(opts.Env, opts.EnvExtra)}
}

// Run executes name with args. The returned error is non-nil when the command
// could not be started or exited non-zero; the Result is populated either way.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	result := Result{Args: append([]string{name}, args...)}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = r.env
	cmd.Stdin = nil

	var stdoutBuf bytes.Buffer
	var stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := r.opts.Now()
	err := cmd.Run()
	result.Duration = r.opts.Now().Sub(start)
	result.Stdout = stdoutBuf.Bytes()
	result.Stderr = tailLines(simplifyError(stderrBuf.String()), r.opts.TailLines)
	result.ExitCode = exitCode(err)

	r.opts.Logger.Debug("command finished",
		"args", strings.Join(result.Args, " "),
		"exit_code", result.ExitCode,
		"stdout_bytes", len(result.Stdout),
		"duration", result.Duration,
	)

	if err != nil {
		return result, fmt.Errorf("run %s: %w", name, err)
	}
	return result, nil
}

func mergeEnv(base []string, overlays ...map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(overlays)*4)
	for _, kv := range base {
		if idx := strings.Index(kv, "="); idx != -1 {
			key := kv[:idx]
			envMap[key] = kv[idx+1:]
		}
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			envMap[k] = v
		}
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, envMap[k]))
	}
	return out
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(interface{ ExitStatus() int }); ok {
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	// Not started at all: treat like a shell's "command not found".
	return 127
}

func tailLines(input string, maxLines int) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	lines := strings.Split(input, "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}

var legacyRequiredRegex = regexp.MustCompile(`(?i)--legacy flag is required`)

// simplifyError rewrites known xcresulttool diagnostics into actionable hints.
func simplifyError(stderr string) string {
	if legacyRequiredRegex.MatchString(stderr) {
		return "xcresulttool requires --legacy for this bundle; set `legacy: always` or pass --legacy=always"
	}
	return stderr
}

// Missing reports whether err came from a command that could not be found.
func Missing(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

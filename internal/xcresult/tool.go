// Package xcresult reads .xcresult bundles through `xcrun xcresulttool`.
package xcresult

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bgricker/xcshots/internal/runner"
	"github.com/bgricker/xcshots/internal/tree"
	"github.com/bgricker/xcshots/internal/version"
)

// LegacyMode controls whether --legacy is passed to get/export.
type LegacyMode string

const (
	// LegacyAlways always passes --legacy (Xcode 16 and later).
	LegacyAlways LegacyMode = "always"
	// LegacyNever never passes --legacy (Xcode 15 and earlier).
	LegacyNever LegacyMode = "never"
	// LegacyAuto asks the installed xcresulttool for its version first.
	LegacyAuto LegacyMode = "auto"
)

// DefaultBinary is the launcher used to locate xcresulttool.
const DefaultBinary = "xcrun"

// Options configure how the tool is invoked.
type Options struct {
	Binary       string
	Legacy       LegacyMode
	DeveloperDir string
	Logger       *slog.Logger
	Runner       *runner.Runner
}

// Tool reads JSON objects and exports payloads from one bundle.
type Tool struct {
	path   string
	opts   Options
	run    *runner.Runner
	legacy *bool
}

// ExportError reports a failed payload export with the tool's diagnostic.
type ExportError struct {
	Ref    string
	Stderr string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *ExportError) Unwrap() error { return e.Err }

// Open returns a Tool bound to the bundle at path. No command is run until
// the first Get or Export.
func Open(path string, opts Options) *Tool {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.Legacy == "" {
		opts.Legacy = LegacyAlways
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	run := opts.Runner
	if run == nil {
		var extra map[string]string
		if opts.DeveloperDir != "" {
			extra = map[string]string{"DEVELOPER_DIR": opts.DeveloperDir}
		}
		run = runner.New(runner.Options{EnvExtra: extra, Logger: opts.Logger})
	}
	return &Tool{path: path, opts: opts, run: run}
}

// Path returns the bundle path the tool reads from.
func (t *Tool) Path() string {
	return t.path
}

// Get fetches the JSON object for ref, or the bundle root when ref is empty.
// Any failure (the command failing, empty output, malformed JSON) is reported
// as ok == false.
func (t *Tool) Get(ctx context.Context, ref string) (*tree.Node, bool) {
	args := t.baseArgs(ctx, "get")
	args = append(args, "--path", t.path, "--format", "json")
	if ref != "" {
		args = append(args, "--id", ref)
	}

	res, err := t.run.Run(ctx, t.opts.Binary, args...)
	if err != nil {
		t.opts.Logger.Debug("xcresulttool get failed", "ref", ref, "exit_code", res.ExitCode, "stderr", res.Stderr, "error", err)
		return nil, false
	}
	if len(bytes.TrimSpace(res.Stdout)) == 0 {
		t.opts.Logger.Debug("xcresulttool get returned no output", "ref", ref)
		return nil, false
	}
	node, err := tree.Parse(res.Stdout)
	if err != nil {
		t.opts.Logger.Debug("xcresulttool get returned malformed JSON", "ref", ref, "error", err)
		return nil, false
	}
	return node, true
}

// Export writes the payload behind ref to outPath.
func (t *Tool) Export(ctx context.Context, ref, outPath string) error {
	args := t.baseArgs(ctx, "export")
	args = append(args, "--path", t.path, "--id", ref, "--output-path", outPath, "--type", "file")

	res, err := t.run.Run(ctx, t.opts.Binary, args...)
	if err != nil {
		return &ExportError{Ref: ref, Stderr: res.Stderr, Err: err}
	}
	return nil
}

func (t *Tool) baseArgs(ctx context.Context, sub string) []string {
	args := []string{"xcresulttool", sub}
	if t.useLegacy(ctx) {
		args = append(args, "--legacy")
	}
	return args
}

func (t *Tool) useLegacy(ctx context.Context) bool {
	switch t.opts.Legacy {
	case LegacyNever:
		return false
	case LegacyAuto:
		if t.legacy == nil {
			legacy := t.detectLegacy(ctx)
			t.legacy = &legacy
		}
		return *t.legacy
	default:
		return true
	}
}

func (t *Tool) detectLegacy(ctx context.Context) bool {
	res, err := t.run.Run(ctx, t.opts.Binary, "xcresulttool", "version")
	if err != nil {
		t.opts.Logger.Warn("xcresulttool version detection failed; assuming --legacy", "error", err)
		return true
	}
	info, err := version.ParseXCResultTool(string(res.Stdout))
	if err != nil {
		t.opts.Logger.Warn("xcresulttool version detection failed; assuming --legacy", "error", err)
		return true
	}
	legacy, err := version.RequiresLegacy(info)
	if err != nil {
		t.opts.Logger.Warn("xcresulttool version detection failed; assuming --legacy", "error", err)
		return true
	}
	t.opts.Logger.Info("detected xcresulttool", "version", info.Version, "format", info.Format, "legacy", legacy)
	return legacy
}

// ParseLegacyMode validates a user supplied legacy setting.
func ParseLegacyMode(s string) (LegacyMode, error) {
	switch mode := LegacyMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case LegacyAlways, LegacyNever, LegacyAuto:
		return mode, nil
	case "":
		return LegacyAlways, nil
	default:
		return "", fmt.Errorf("unsupported legacy mode %q (want always|never|auto)", s)
	}
}

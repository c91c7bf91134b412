package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/xcshots/internal/config"
	"github.com/bgricker/xcshots/internal/discovery"
	"github.com/bgricker/xcshots/internal/export"
	"github.com/bgricker/xcshots/internal/filter"
	"github.com/bgricker/xcshots/internal/logging"
	"github.com/bgricker/xcshots/internal/output"
	"github.com/bgricker/xcshots/internal/resolver"
	"github.com/bgricker/xcshots/internal/xcresult"
)

func runExtract(cmd *cobra.Command, args []string) error {
	bundleArg, deviceTag, outputArg := args[0], args[1], args[2]

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	pretty := output.NewPretty(cmd.OutOrStdout())
	asJSON := cfg.Format == config.FormatJSON

	bundlePath, err := discovery.Bundle(root, bundleArg)
	if err != nil {
		logger.Debug("bundle lookup failed", "bundle", bundleArg, "error", err)
		pretty.Error(fmt.Sprintf("Could not read xcresult at %s", bundleArg))
		return errReported
	}

	legacy, err := xcresult.ParseLegacyMode(cfg.Legacy)
	if err != nil {
		return err
	}
	tool := xcresult.Open(bundlePath, xcresult.Options{
		Binary:       cfg.XCRun,
		Legacy:       legacy,
		DeveloperDir: cfg.DeveloperDir,
		Logger:       logger,
	})

	tests, err := filter.NewSelector(cfg.Tests, nil)
	if err != nil {
		return fmt.Errorf("test filter: %w", err)
	}
	attachments, err := filter.NewSelector(cfg.OnlyAttachments, cfg.SkipAttachments)
	if err != nil {
		return fmt.Errorf("attachment filter: %w", err)
	}

	res, err := resolver.New(tool, resolver.Options{
		Tests:       tests,
		Attachments: attachments,
		Logger:      logger,
	}).Resolve(cmd.Context())

	rep := output.Report{
		Bundle:    bundleArg,
		DeviceTag: deviceTag,
		OutputDir: outputArg,
		TestsRef:  res.TestsRef,
	}
	rep.Summary.Tests = len(res.Tests)
	rep.Summary.UnreadableTests = len(res.Unreadable)

	if err != nil {
		if !resolver.Soft(err) {
			pretty.Error(fmt.Sprintf("Could not read xcresult at %s", bundleArg))
			return errReported
		}
		msg := warningText(err, bundleArg)
		if !asJSON {
			return pretty.Warning(msg)
		}
		rep.Warnings = append(rep.Warnings, msg)
		return output.NewJSON(cmd.OutOrStdout()).Render(rep)
	}

	outputDir, err := discovery.OutputDir(root, outputArg)
	if err != nil {
		pretty.Error(err.Error())
		return errReported
	}

	var progress export.Progress
	if !asJSON {
		progress = pretty
	}
	items := export.Plan(res.Attachments, deviceTag, outputDir)
	results, summary, err := export.New(tool, export.Options{
		OutputDir: outputDir,
		DryRun:    cfg.DryRun,
		Progress:  progress,
		Logger:    logger,
	}).Run(cmd.Context(), items)
	if err != nil {
		pretty.Error(err.Error())
		return errReported
	}

	summary.Tests = rep.Summary.Tests
	summary.UnreadableTests = rep.Summary.UnreadableTests
	rep.Items = results
	rep.Summary = summary

	if cfg.Manifest != "" && !cfg.DryRun {
		if err := output.WriteManifest(filepath.Join(outputDir, cfg.Manifest), rep); err != nil {
			logger.Warn("manifest not written", "error", err)
			rep.Warnings = append(rep.Warnings, err.Error())
			if !asJSON {
				pretty.Warning(err.Error())
			}
		}
	}

	if asJSON {
		return output.NewJSON(cmd.OutOrStdout()).Render(rep)
	}
	return pretty.RenderSummary(summary)
}

func loadConfig(cmd *cobra.Command, root string) (config.Config, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("parse --config: %w", err)
	}
	cfg, err := config.Load(root, explicit)
	if err != nil {
		return cfg, err
	}

	values, err := gatherFlags(cmd)
	if err != nil {
		return cfg, err
	}
	config.ApplyFlags(&cfg, values)

	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Legacy = strings.ToLower(cfg.Legacy)
	if err := config.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// warningText maps the soft resolver outcomes to the lines operators and
// CI log scrapers already match on.
func warningText(err error, bundle string) string {
	switch {
	case errors.Is(err, resolver.ErrNoTestsRef):
		return "No testsRef found in xcresult"
	case errors.Is(err, resolver.ErrNoPlanSummaries):
		return "Could not read test plan summaries"
	case errors.Is(err, resolver.ErrNoSummaryRefs):
		return "No per-test summaryRef found"
	case errors.Is(err, resolver.ErrNoAttachments):
		return fmt.Sprintf("No named PNG screenshots found in %s", bundle)
	default:
		return err.Error()
	}
}

package main

import (
	"fmt"

	"github.com/bgricker/xcshots/internal/config"
	"github.com/spf13/cobra"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	for _, sf := range []struct {
		name string
		dst  *config.StringFlag
	}{
		{"xcrun", &values.XCRun},
		{"developer-dir", &values.DeveloperDir},
		{"legacy", &values.Legacy},
		{"format", &values.Format},
		{"manifest", &values.Manifest},
	} {
		if !flags.Changed(sf.name) {
			continue
		}
		v, err := flags.GetString(sf.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", sf.name, err)
		}
		*sf.dst = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("test") {
		v, err := flags.GetStringArray("test")
		if err != nil {
			return values, fmt.Errorf("parse --test: %w", err)
		}
		values.Tests = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("only-attachment") {
		v, err := flags.GetStringArray("only-attachment")
		if err != nil {
			return values, fmt.Errorf("parse --only-attachment: %w", err)
		}
		values.OnlyAttachments = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("skip-attachment") {
		v, err := flags.GetStringArray("skip-attachment")
		if err != nil {
			return values, fmt.Errorf("parse --skip-attachment: %w", err)
		}
		values.SkipAttachments = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}

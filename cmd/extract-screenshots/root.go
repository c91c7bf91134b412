package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const usageLine = "extract-screenshots <xcresult_path> <device_tag> <output_dir>"

// errReported marks failures that were already printed for the operator.
var errReported = errors.New("error already reported")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           usageLine,
		Short:         "Extract PNG screenshot attachments from an .xcresult bundle",
		Args:          exactArgs(3),
		RunE:          runExtract,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default: .xcshots.yml or .xcshots.toml in the working directory)")
	flags.String("xcrun", "xcrun", "path to the xcrun launcher")
	flags.String("developer-dir", "", "DEVELOPER_DIR used to select an Xcode installation")
	flags.String("legacy", "always", "pass --legacy to xcresulttool (always|never|auto)")
	flags.StringArray("test", nil, "only read tests matching this pattern (repeatable)")
	flags.StringArray("only-attachment", nil, "only export attachments matching this pattern (repeatable)")
	flags.StringArray("skip-attachment", nil, "skip attachments matching this pattern (repeatable)")
	flags.String("format", "pretty", "output format (pretty|json)")
	flags.String("manifest", "", "write a JSON manifest with this file name into the output directory")
	flags.Bool("dry-run", false, "resolve attachments and print the plan without exporting")
	flags.BoolP("verbose", "v", false, "log every xcresulttool invocation to stderr")

	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Usage: %s\n", usageLine)
		return errReported
	}
}

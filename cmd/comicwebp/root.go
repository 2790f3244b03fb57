package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// hookArchiveIndex is the position of the archive path in the
// post-processing hook argument list.
const hookArchiveIndex = 3

func newRootCommand(opts ...contextOption) *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag, opts...)

	rootCmd := &cobra.Command{
		Use:           "comicwebp [flags] [--] <arg1> <arg2> <arg3> <archive>",
		Short:         "Convert comic archives to WebP pages",
		Long:          "Convert the images of a .cbz/.cbr comic archive to WebP and repackage them as a .cbz.\nWhen run as a post-processing hook the archive is the fourth argument.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			if len(args) <= hookArchiveIndex {
				return fmt.Errorf("expected the archive as argument %d, got %d arguments (use `comicwebp convert <archive>` for a single path)", hookArchiveIndex+1, len(args))
			}
			return runConvert(cmd, ctx, args[hookArchiveIndex])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}

// execute runs root with args, treating a hook invocation's arguments as
// positional.
func execute(root *cobra.Command, args []string) error {
	root.SetArgs(hookArgs(root, args))
	return root.Execute()
}

// hookArgs inserts "--" after the leading root flags unless the invocation
// names a subcommand or asks for help. Host arguments that look like flags
// then reach the hook untouched. Callers whose first argument collides with
// a subcommand name pass "--" themselves.
func hookArgs(root *cobra.Command, args []string) []string {
	i := 0
scan:
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "--":
			return args
		case arg == "-c" || arg == "--config":
			i += 2
		case strings.HasPrefix(arg, "--config="):
			i++
		default:
			break scan
		}
	}
	if i >= len(args) {
		return args
	}
	if first := args[i]; first == "-h" || first == "--help" || isSubcommand(root, first) {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[:i]...)
	out = append(out, "--")
	return append(out, args[i:]...)
}

func isSubcommand(root *cobra.Command, name string) bool {
	switch name {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for _, cmd := range root.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return false
}

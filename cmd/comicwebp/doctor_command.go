package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"comicwebp/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace root and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, checkLabel(r), r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}
}

func checkLabel(r preflight.Result) string {
	switch {
	case r.Passed:
		return "OK"
	case r.Optional:
		return "WARN"
	default:
		return "FAIL"
	}
}

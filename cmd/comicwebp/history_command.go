package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			out := cmd.OutOrStdout()
			if store == nil {
				fmt.Fprintln(out, "Run history is disabled")
				return nil
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					run.Status,
					run.Input,
					strconv.Itoa(run.Converted),
					strconv.Itoa(run.Failed),
					strconv.Itoa(run.Entries),
					run.Duration().Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Status", "Input", "Converted", "Failed", "Packaged", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

const durationPrecision = 100 * time.Millisecond

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled; enable it in the [history] config section.")
				return nil
			}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			headers := []string{"When", "Input", "Status", "Remux", "Transcode", "Fallback", "Downmix", "Duration"}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.CreatedAt.Local().Format("2006-01-02 15:04"),
					record.InputPath,
					record.Status,
					strconv.Itoa(record.Remuxed),
					strconv.Itoa(record.Transcoded),
					strconv.Itoa(record.Fallback),
					yesNo(record.Downmix),
					record.Duration.Round(durationPrecision).String(),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{
				alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight,
			}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

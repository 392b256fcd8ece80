package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trackmix/internal/media/classify"
	"trackmix/internal/processor"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var outputPath string
	var downmix bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Transcode the audio tracks of a container and remux",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("downmix") {
				downmix = cfg.Transcode.Downmix
			}

			logger := ctx.newLogger(cfg)
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			proc := processor.New(cfg, logger, store)
			result, err := proc.Run(cmd.Context(), processor.Request{
				InputPath:  inputPath,
				OutputPath: outputPath,
				Downmix:    downmix,
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderDecisions(result.Decisions, downmix))
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run; no files were written.")
				fmt.Fprintf(out, "mkvmerge %s\n", result.Plan.String())
				return nil
			}
			fmt.Fprintf(out, "Wrote %s in %s\n", result.OutputPath, result.Duration.Round(durationPrecision))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input container path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output container path")
	cmd.Flags().BoolVar(&downmix, "downmix", false, "Downmix surround tracks to dialogue-boosted stereo")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the run without invoking any external tool")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func renderDecisions(decisions []classify.Decision, downmix bool) string {
	headers := []string{"Track", "Codec", "Ch", "Language", "Action"}
	rows := make([][]string, 0, len(decisions))
	for _, decision := range decisions {
		action := string(decision.Verdict)
		if decision.Verdict == classify.Transcode && downmix && decision.Track.ChannelCount >= 6 {
			action += " (downmix)"
		}
		rows = append(rows, []string{
			strconv.FormatInt(decision.Track.TrackID, 10),
			decision.Track.Codec,
			strconv.Itoa(decision.Track.ChannelCount),
			decision.Track.Language,
			action,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft})
}

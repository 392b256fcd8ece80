package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trackmix/internal/media/classify"
	"trackmix/internal/media/descriptor"
	"trackmix/internal/processor"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the merged track listing for a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			proc := processor.New(cfg, ctx.newLogger(cfg), nil)
			media, err := proc.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "Type", "Codec", "Ch", "Language", "Title", "Delay", "Action"}
			rows := make([][]string, 0, len(media.Tracks))
			for _, track := range media.Tracks {
				rows = append(rows, inspectRow(track))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{
				alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft,
			}))
			if len(media.AttachmentIDs) > 0 {
				fmt.Fprintf(out, "Attachments: %d\n", len(media.AttachmentIDs))
			}
			return nil
		},
	}
}

func inspectRow(track descriptor.TrackInfo) []string {
	channels := ""
	delay := ""
	action := ""
	if track.Type == descriptor.TrackAudio {
		channels = strconv.Itoa(track.ChannelCount)
		delay = fmt.Sprintf("%d ms", track.DelayMs)
		action = string(classify.Classify(track).Verdict)
	}
	return []string{
		strconv.FormatInt(track.TrackID, 10),
		string(track.Type),
		track.Codec,
		channels,
		track.Language,
		track.Title,
		delay,
		action,
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subcue/internal/api"
	"subcue/internal/srt"
)

func newTrackCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newFetchCommand(ctx),
		newTracksCommand(ctx),
		newCuesCommand(ctx),
		newRemoveCommand(ctx),
	}
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch <url|file>",
		Short: "Download or read a subtitle document into the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTrackService(func(svc *api.TrackService) error {
				res, err := svc.Import(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, res)
				}
				out := cmd.OutOrStdout()
				verb := "Cached"
				if !res.Changed {
					verb = "Unchanged"
				}
				fmt.Fprintf(out, "%s track %s (%s)\n", verb, res.Track.ID, res.Track.Title)
				fmt.Fprintf(out, "Cues: %d of %d blocks\n", res.Track.Cues, res.Track.Blocks)
				for _, issue := range res.Track.Issues {
					fmt.Fprintf(out, "Issue: %s\n", issue)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List cached subtitle tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTrackService(func(svc *api.TrackService) error {
				tracks, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if tracks == nil {
						tracks = []api.Track{}
					}
					return writeJSON(cmd, tracks)
				}
				if len(tracks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cached tracks")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTrackTable(tracks))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCuesCommand(ctx *commandContext) *cobra.Command {
	var (
		at      float64
		lenient bool
		keepAds bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "cues <id>",
		Short: "Print the cues of a cached track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := api.CueOptions{Lenient: lenient, KeepAds: keepAds}
			if cmd.Flags().Changed("at") {
				opts.At = &at
			}
			return ctx.withTrackService(func(svc *api.TrackService) error {
				list, err := svc.Cues(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, list)
				}
				out := cmd.OutOrStdout()
				if opts.At == nil {
					fmt.Fprintln(out, renderCueTable(list.Cues))
					if list.Removed > 0 {
						fmt.Fprintf(out, "Removed %d advertisement cue(s)\n", list.Removed)
					}
					return nil
				}
				fmt.Fprintf(out, "Position: %s\n", srt.FormatTimecode(at))
				fmt.Fprintf(out, "Active:   %s\n", describeCue(list.Active))
				fmt.Fprintf(out, "Next:     %s\n", describeCue(list.Next))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&at, "at", 0, "Playback position in seconds; prints the active and next cue")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Keep blocks whose index is not a number (id 0)")
	cmd.Flags().BoolVar(&keepAds, "keep-ads", false, "Do not remove advertisement cues")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a cached track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTrackService(func(svc *api.TrackService) error {
				if err := svc.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed track %s\n", args[0])
				return nil
			})
		},
	}
}

func describeCue(cue *srt.Cue) string {
	if cue == nil {
		return "-"
	}
	return fmt.Sprintf("#%d %s-%s %s", cue.ID, srt.FormatTimecode(cue.Start), srt.FormatTimecode(cue.End), cue.Primary)
}

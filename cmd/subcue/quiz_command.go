package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"subcue/internal/api"
	"subcue/internal/quiz"
	"subcue/internal/srt"
)

func newQuizCommand(ctx *commandContext) *cobra.Command {
	var (
		cueID  int
		seed   uint64
		answer string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "quiz <file|->",
		Short: "Build a word-ordering exercise from a subtitle cue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := ctx.readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			cues, _ := srt.Clean(srt.ParseDetailed(document, srt.Options{Index: ctx.indexPolicy(false)}).Cues)

			if !cmd.Flags().Changed("seed") {
				seed = rand.Uint64()
			}
			minWords := quiz.DefaultMinWords
			if cfg := ctx.configValue(); cfg != nil {
				minWords = cfg.Quiz.MinWords
			}
			ex, err := api.PickExercise(cues, cueID, quiz.NewRand(seed), minWords)
			if err != nil {
				return err
			}

			if strings.TrimSpace(answer) != "" {
				score := quiz.Check(ex, answer)
				if asJSON {
					return writeJSON(cmd, score)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Score: %d/%d\n", score.Correct, score.Total)
				fmt.Fprintf(out, "Completed: %s\n", yesNo(score.Completed))
				if !score.Completed {
					fmt.Fprintf(out, "Answer: %s\n", ex.Answer())
				}
				return nil
			}

			if asJSON {
				return writeJSON(cmd, ex)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cue %d (%s - %s)\n", ex.CueID, srt.FormatTimecode(ex.Start), srt.FormatTimecode(ex.End))
			if ex.Prompt != "" {
				fmt.Fprintf(out, "Prompt: %s\n", ex.Prompt)
			}
			fmt.Fprintf(out, "Words:  %s\n", strings.Join(ex.Shuffled, " / "))
			fmt.Fprintf(out, "Seed:   %d\n", seed)
			return nil
		},
	}

	cmd.Flags().IntVar(&cueID, "cue", 0, "Cue id to use (default: random eligible cue)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed for reproducible exercises (default: random)")
	cmd.Flags().StringVar(&answer, "answer", "", "Score an attempt instead of printing the exercise")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

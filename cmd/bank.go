package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/question"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "List the built-in offline question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("language")
		verbose, _ := cmd.Flags().GetBool("verbose")

		bank, err := question.LoadBank()
		if err != nil {
			return err
		}

		languages := bank.Languages()
		if lang != "" {
			languages = []string{lang}
		}
		tiers := []struct {
			name  question.Tier
			probe level.Level
		}{
			{question.TierBeginner, level.Beginner},
			{question.TierIntermediate, level.Intermediate},
		}

		for _, l := range languages {
			fmt.Println(l)
			for _, t := range tiers {
				qs, err := bank.Questions(l, t.probe)
				if err != nil {
					return err
				}
				fmt.Printf("  %-13s %d questions\n", t.name, len(qs))
				if !verbose {
					continue
				}
				for i, q := range qs {
					fmt.Printf("    %d. %s\n", i+1, q.Prompt)
					fmt.Printf("       [%s] answer: %s\n", strings.Join(q.Options, " | "), q.Options[q.CorrectIndex])
				}
			}
		}
		return nil
	},
}

func init() {
	bankCmd.Flags().StringP("language", "l", "", "Only show this language")
	bankCmd.Flags().BoolP("verbose", "v", false, "Print every question")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's level and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")

		s, paths, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		profiles, err := store.NewFileProfileStore(paths.ProfilesDir)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		p, err := profiles.Load(ctx, user)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no profile for %q", user)
		}
		printProfile(*p)

		hist, err := s.EventRepo().SessionHistory(ctx, p.Username, limit)
		if err != nil {
			return err
		}
		fmt.Println()
		if len(hist) == 0 {
			fmt.Println("No completed sessions yet.")
			return nil
		}

		fmt.Printf("%-19s  %-10s  %-9s  %-7s  %-14s  %5s  %6s\n",
			"Date", "Kind", "Language", "Score", "Classified", "EXP", "Secs")
		fmt.Println(strings.Repeat("─", 84))
		for _, r := range hist {
			fmt.Printf("%-19s  %-10s  %-9s  %-7s  %-14s  %5d  %6d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Kind, r.Language,
				fmt.Sprintf("%d/%d", r.CorrectAnswers, r.Questions),
				r.Classified, r.ExpGained, r.DurationSecs)
		}
		return nil
	},
}

func printProfile(p progress.UserProgress) {
	bold := color.New(color.Bold)
	bold.Println(p.Username)
	if p.Email != "" {
		fmt.Printf("Email:     %s\n", p.Email)
	}
	lang := p.Language
	if lang == "" {
		lang = "(not chosen)"
	}
	fmt.Printf("Language:  %s\n", lang)
	fmt.Printf("Level:     %s\n", progress.DisplayLevel(p))
	if p.AssessedLevel != nil {
		fmt.Printf("Assessed:  %s on %s\n", *p.AssessedLevel, p.AssessedAt.Local().Format("2006-01-02"))
	}
	fmt.Printf("EXP:       %d", p.Experience)
	if next := level.NextThreshold(p.Experience); next > p.Experience {
		fmt.Printf(" (%d to next level)", next-p.Experience)
	}
	fmt.Println()
	fmt.Printf("Theme:     %s\n", p.Theme)
}

func init() {
	statsCmd.Flags().StringP("user", "u", "", "Username (required)")
	statsCmd.Flags().IntP("limit", "n", 10, "Number of sessions to show")
	_ = statsCmd.MarkFlagRequired("user")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a learner's progress",
	Long: `Replace a learner's profile with a fresh one. Experience, level,
assessed level, language, theme and cached tip are cleared; the email is
kept. The session history in the event log is not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to reset %q without --yes", user)
		}

		paths, err := resolvePaths(cmd)
		if err != nil {
			return err
		}
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
		if err := profiles.Save(ctx, progress.New(p.Username, p.Email)); err != nil {
			return err
		}
		fmt.Printf("Reset progress for %s.\n", p.Username)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("user", "u", "", "Username (required)")
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	_ = resetCmd.MarkFlagRequired("user")
}

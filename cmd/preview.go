package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Answer a batch of questions in the terminal (no profile)",
	Long: `Fetch a batch of questions for a language and level and answer them
interactively. Nothing is saved: no profile, no experience, no events.
Useful for checking question quality and the offline bank.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("language", "", "Language to practice (required)")
	previewCmd.Flags().String("level", level.Beginner.String(), "Learner level used to pitch the questions")
	previewCmd.Flags().Int("count", 5, "Number of questions")
	previewCmd.Flags().Bool("offline", false, "Use the built-in question bank only")
	_ = previewCmd.MarkFlagRequired("language")
}

func runPreview(cmd *cobra.Command, args []string) error {
	langVal, _ := cmd.Flags().GetString("language")
	levelVal, _ := cmd.Flags().GetString("level")
	count, _ := cmd.Flags().GetInt("count")
	offline, _ := cmd.Flags().GetBool("offline")

	lang, err := progress.NormalizeLanguage(langVal)
	if err != nil {
		return err
	}
	lvl, err := level.Parse(levelVal)
	if err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	ctx := cmd.Context()
	var gen question.Generator
	if !offline {
		// No event repo: preview leaves no trace.
		provider, _, err := llm.NewProviderFromEnv(ctx, nil)
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			fmt.Fprintln(os.Stderr, "No LLM provider configured; using the offline bank.")
		case err != nil:
			return fmt.Errorf("LLM provider: %w", err)
		default:
			gen = question.NewLLMGenerator(provider, question.DefaultConfig())
		}
	}
	bank, err := question.LoadBank()
	if err != nil {
		return err
	}
	supplier := question.NewSupplier(gen, bank, question.DefaultConfig())

	fmt.Printf("%s · %s · %d questions\n", lang, lvl, count)
	batch, err := supplier.Supply(ctx, question.Request{Language: lang, Level: lvl, Count: count})
	if err != nil {
		return err
	}
	if batch.Source == question.SourceFallback {
		color.New(color.Faint).Println("(offline questions)")
	}

	sess, err := session.Start(session.KindQuiz, batch.Questions, min(count, len(batch.Questions)))
	if err != nil {
		return err
	}
	return playPreview(sess, bufio.NewScanner(os.Stdin))
}

func playPreview(sess *session.Session, scanner *bufio.Scanner) error {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	for sess.Phase() == session.PhaseInProgress {
		q, err := sess.Current()
		if err != nil {
			return err
		}
		pos, total := sess.Position()
		fmt.Printf("\n── Question %d/%d ──\n%s\n", pos, total, q.Prompt)
		for i, opt := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}

		choice, ok := readChoice(scanner, len(q.Options))
		if !ok {
			fmt.Println("\n(input closed)")
			return nil
		}
		out, err := sess.Submit(choice)
		if err != nil {
			return err
		}
		if out.Correct {
			green.Println("✓ Correct!")
		} else {
			red.Print("✗ Wrong.")
			fmt.Printf(" Answer: %d) %s\n", out.CorrectIndex+1, q.Options[out.CorrectIndex])
		}
	}

	res, err := sess.Result()
	if err != nil {
		return err
	}
	lvl, err := level.Classify(res.Score, res.Total)
	if err != nil {
		return err
	}
	fmt.Printf("\n── Score: %d/%d · %s ──\n", res.Score, res.Total, lvl)
	return nil
}

// readChoice prompts until a number in [1, n] is entered. It returns the
// zero-based index, or false when input ends.
func readChoice(scanner *bufio.Scanner, n int) (int, bool) {
	for {
		fmt.Printf("Your answer (1-%d): ", n)
		if !scanner.Scan() {
			return 0, false
		}
		v, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && v >= 1 && v <= n {
			return v - 1, true
		}
	}
}

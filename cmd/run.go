package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/app"
	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/logging"
	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/proficiency"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/store"
	"github.com/abhisek/langmentor/internal/tips"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, paths, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	profiles, err := store.NewFileProfileStore(paths.ProfilesDir)
	if err != nil {
		return fmt.Errorf("open profiles: %w", err)
	}

	eventRepo := st.EventRepo()
	provider, err := buildProvider(ctx, eventRepo)
	if err != nil {
		return err
	}

	var gen question.Generator
	if provider != nil {
		gen = question.NewLLMGenerator(provider, question.DefaultConfig())
	}
	bank, err := question.LoadBank()
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	ctrl := mentor.New(mentor.Deps{
		Profiles: profiles,
		Events:   eventRepo,
		Supplier: question.NewSupplier(gen, bank, question.DefaultConfig()),
		Tips:     tips.NewService(provider, tips.DefaultConfig()),
		Analyzer: proficiency.NewAnalyzer(provider, proficiency.DefaultConfig()),
	}, mentor.ConfigFromEnv())

	// The TUI owns the terminal, so logs go to a file until it exits.
	lvl, err := logLevel(cmd)
	if err != nil {
		return err
	}
	closeLog, err := logging.SetupFile(paths.LogPath, lvl)
	if err != nil {
		return err
	}
	defer func() {
		closeLog()
		logging.Setup(os.Stderr, lvl)
	}()
	slog.Info("starting langmentor", "data_dir", paths.DataDir, "ai", provider != nil)

	return app.Run(ctrl)
}

// buildProvider returns nil without error when no provider is configured;
// the app then runs offline.
func buildProvider(ctx context.Context, repo store.EventRepo) (llm.Provider, error) {
	provider, cfg, err := llm.NewProviderFromEnv(ctx, repo)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		fmt.Fprintln(os.Stderr, "LLM provider not configured; using the offline question bank.")
		fmt.Fprintln(os.Stderr, "Set LANGMENTOR_LLM_PROVIDER or an API key to enable AI features.")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	slog.Debug("LLM provider ready", "provider", cfg.Provider)
	return provider, nil
}

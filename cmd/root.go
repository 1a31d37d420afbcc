package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/logging"
	"github.com/abhisek/langmentor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "langmentor",
	Short: "Terminal language-learning mentor",
	Long: `LangMentor is a terminal app for language learners. It runs quizzes and
level tests, tracks experience and level, gives a daily study tip and
estimates your level from a writing sample.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		lvl, err := logLevel(cmd)
		if err != nil {
			return err
		}
		logging.Setup(os.Stderr, lvl)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides LANGMENTOR_HOME)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func logLevel(cmd *cobra.Command) (slog.Level, error) {
	s, _ := cmd.Flags().GetString("log-level")
	return logging.ParseLevel(s)
}

// resolvePaths returns the data layout using --data-dir (highest
// priority), then LANGMENTOR_HOME, then the XDG default. The directories
// are created.
func resolvePaths(cmd *cobra.Command) (store.Paths, error) {
	dir, _ := cmd.Flags().GetString("data-dir")
	if dir == "" {
		var err error
		if dir, err = store.DefaultDataDir(); err != nil {
			return store.Paths{}, err
		}
	}
	p := store.PathsIn(dir)
	return p, p.EnsureDirs()
}

// openStore opens the event log in the resolved data directory.
func openStore(cmd *cobra.Command) (*store.Store, store.Paths, error) {
	paths, err := resolvePaths(cmd)
	if err != nil {
		return nil, paths, fmt.Errorf("resolve data dir: %w", err)
	}
	s, err := store.Open(paths.DBPath)
	if err != nil {
		return nil, paths, fmt.Errorf("open database: %w", err)
	}
	return s, paths, nil
}

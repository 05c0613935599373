package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
)

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "looksmaxxer",
	Short: "Virtual glasses try-on, face shape and colour analysis",
	Long: `LooksMaxxer composites glasses frames onto selfies using facial landmarks,
classifies face shapes to recommend frame styles, and asks an AI model
(OpenAI, Gemini, Ollama) for a seasonal colour analysis of a skin tone.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotated file as well (default from LOG_FILE)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// setupLogging configures the process logger from flags, falling back to env.
func setupLogging(cmd *cobra.Command) error {
	cfg := config.Load()
	opts := logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		opts.Level = level
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		opts.File = file
	}

	closer, err := logging.Setup(opts)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	closeLog = closer
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/prettyprinter"
)

var (
	verbose    bool
	configPath string
	colorMode  string
	outputFmt  string
	seed       int64
	dataDir    string

	logger   *zap.Logger
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "comprex",
	Short: "Evaluate comprehensions over generated, queried or literal data",
	Long: `comprex evaluates comprehensions: nested generators that bind by
pattern, filters over the bindings, and an accumulation policy.

  comprex eval '[x * x | x <- 1..5, x % 2 == 1]'
  comprex run scenario.yaml
  comprex convert digits 1234

Settings are read from comprex.yaml (found by walking up from the working
directory), then COMPREX_* environment variables, then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = s

		level, err := zapcore.ParseLevel(s.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level: %w", err)
		}
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.Level = zap.NewAtomicLevelAt(level)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	flags.StringVar(&configPath, "config", "", "settings file (default: nearest "+config.SettingsFileName+")")
	flags.StringVar(&colorMode, "color", "", "colour output: auto, always or never")
	flags.StringVarP(&outputFmt, "output", "o", "", "result format: lines or yaml")
	flags.Int64Var(&seed, "seed", 0, "seed for random sources without their own")
	flags.StringVar(&dataDir, "data-dir", "", "base directory for relative sql and file sources")

	rootCmd.AddCommand(runCmd, evalCmd, convertCmd, checkCmd)
}

// loadSettings layers comprex.yaml, the environment and explicit flags.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = config.FindSettings(wd); err != nil {
			return nil, err
		}
	}

	s := config.DefaultSettings()
	if path != "" {
		var err error
		if s, err = config.LoadSettings(path); err != nil {
			return nil, err
		}
	}
	if err := s.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		s.Color = colorMode
	}
	if flags.Changed("output") {
		s.Output = outputFmt
	}
	if flags.Changed("seed") {
		s.Seed = seed
	}
	if flags.Changed("data-dir") {
		s.DataDir = dataDir
	}
	return s, s.Validate()
}

// newWriter prints results to the command's output in the configured format.
func newWriter(cmd *cobra.Command) (*prettyprinter.Writer, error) {
	out := cmd.OutOrStdout()
	color := prettyprinter.ColorEnabled(settings.Color, out, os.Getenv)
	return prettyprinter.NewWriter(out, settings.Output, color)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

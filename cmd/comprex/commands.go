package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/pipeline"
	"github.com/funvibe/comprex/internal/prettyprinter"
	"github.com/funvibe/comprex/internal/scenario"
)

var (
	lets      []string
	showStats bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Load the sources of scenario files and evaluate their comprehensions",
	Long: `Evaluates every comprehension of each scenario file, in order, and
prints one result per comprehension. Scenario files are YAML (.yaml, .yml)
or HCL (.hcl).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenarios,
}

var evalCmd = &cobra.Command{
	Use:   "eval EXPR",
	Short: "Evaluate an expression",
	Long: `Evaluates an expression, usually a comprehension:

  comprex eval '[(c, n) | c <- "ab", n <- 1..2; into {}]'
  comprex eval --let 'xs=1..10' '[x * acc | x <- xs; reduce 1]'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

var convertCmd = &cobra.Command{
	Use:   "convert KIND EXPR",
	Short: "Convert a value to " + strings.Join(config.ConvertKinds, ", "),
	Args:  cobra.MinimumNArgs(2),
	RunE:  runConvert,
}

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Parse and compile scenario files without evaluating them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	evalCmd.Flags().StringArrayVar(&lets, "let", nil, "bind NAME=EXPR before evaluating (repeatable)")
	runCmd.Flags().BoolVar(&showStats, "stats", false, "log evaluation statistics for each comprehension")
}

// resolveScenario finds path as given or under the data directory.
func resolveScenario(path string) string {
	if _, err := os.Stat(path); err == nil || settings.DataDir == "" || filepath.IsAbs(path) {
		return path
	}
	if alt := filepath.Join(settings.DataDir, path); fileExists(alt) {
		return alt
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func newRunner() *scenario.Runner {
	r := scenario.NewRunner(logger)
	r.Seed = settings.Seed
	r.DataDir = settings.DataDir
	return r
}

func runScenarios(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWriter(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	runner := newRunner()
	for _, arg := range args {
		s, err := scenario.Load(resolveScenario(arg))
		if err != nil {
			return err
		}
		results, err := runner.Run(ctx, s)
		if err != nil {
			return err
		}
		for _, res := range results {
			if showStats {
				logger.Info("Comprehension stats",
					zap.String("comprehension", res.Name),
					zap.String("result", prettyprinter.Describe(res.Value)),
					zap.Int("combinations", res.Stats.Combinations),
					zap.Int("pattern_skips", res.Stats.PatternSkips),
					zap.Int("filtered", res.Stats.Filtered),
					zap.Int("emitted", res.Stats.Emitted),
				)
			}
			if err := w.Write(res.Name, res.Value); err != nil {
				return err
			}
		}
	}
	return w.Close()
}

// bindLets evaluates each NAME=EXPR in order; later ones see earlier ones.
func bindLets(env *evaluator.Environment, lets []string) error {
	for _, let := range lets {
		name, expr, ok := strings.Cut(let, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("--let %q: want NAME=EXPR", let)
		}
		val, _, err := pipeline.Eval(expr, env, logger)
		if err != nil {
			return fmt.Errorf("--let %s: %w", name, err)
		}
		env.Set(name, val)
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	env := evaluator.NewEnvironment()
	if err := bindLets(env, lets); err != nil {
		return err
	}
	ctx := pipeline.Default().Run(pipeline.NewContext(strings.Join(args, " "), env, logger))
	if ctx.Err != nil {
		logger.Debug("Expression failed", zap.String("stage", ctx.Stage), zap.Error(ctx.Err))
		return ctx.Err
	}
	if ctx.Comprehension != nil {
		logger.Debug("Comprehension stats",
			zap.Int("combinations", ctx.Stats.Combinations),
			zap.Int("pattern_skips", ctx.Stats.PatternSkips),
			zap.Int("filtered", ctx.Stats.Filtered),
			zap.Int("emitted", ctx.Stats.Emitted),
		)
	}
	return writeOne(cmd, ctx.Result)
}

func runConvert(cmd *cobra.Command, args []string) error {
	kind := args[0]
	val, _, err := pipeline.Eval(strings.Join(args[1:], " "), nil, logger)
	if err != nil {
		return err
	}
	out, err := evaluator.Convert(kind, val)
	if err != nil {
		return err
	}
	return writeOne(cmd, out)
}

func writeOne(cmd *cobra.Command, val evaluator.Object) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if err := w.Write("", val); err != nil {
		return err
	}
	return w.Close()
}

func runCheck(cmd *cobra.Command, args []string) error {
	runner := newRunner()
	var failed int
	for _, arg := range args {
		path := resolveScenario(arg)
		s, err := scenario.Load(path)
		if err == nil {
			err = runner.Check(s)
		}
		if err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s (%d sources, %d comprehensions)\n",
			path, len(s.Sources), len(s.Comprehensions))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenario files failed", failed, len(args))
	}
	return nil
}

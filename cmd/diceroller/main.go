// Package main provides the diceroller command: it evaluates a dice formula
// or preset, prints sampling statistics, or runs a Lua roll macro.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/diceroller/internal/config"
	"github.com/cory-johannsen/diceroller/internal/console"
	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/observability"
	"github.com/cory-johannsen/diceroller/internal/preset"
	"github.com/cory-johannsen/diceroller/internal/rng"
	"github.com/cory-johannsen/diceroller/internal/scripting"
	"github.com/cory-johannsen/diceroller/internal/stats"
)

// Exit codes.
const (
	exitOK = iota
	exitUsage
	exitInvalidInput
	exitElementTooLong
	exitTooManyDice
	exitOverflow
	exitStackUnderflow
	exitEmptyResult
	exitInternal
	exitScript

	// exitInterrupted follows the shell convention of 128+SIGINT.
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath   string
	advantage    bool
	disadvantage bool
	resultOnly   bool
	verbose      bool
	statistics   bool
	samples      int
	workers      int
	seed         uint64
	presetsPath  string
	scriptPath   string
	list         bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("diceroller", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to configuration file")
	fs.BoolVar(&o.advantage, "a", false, "throw the first d20 with advantage")
	fs.BoolVar(&o.disadvantage, "d", false, "throw the first d20 not taken by -a with disadvantage")
	fs.BoolVar(&o.resultOnly, "r", false, "only print the final result")
	fs.BoolVar(&o.verbose, "v", false, "print the expanded formula and every d20 draw")
	fs.BoolVar(&o.statistics, "s", false, "sample the formula and print its distribution")
	fs.IntVar(&o.samples, "n", 0, "number of samples for -s (overrides stats.samples)")
	fs.IntVar(&o.workers, "w", 0, "number of sampling workers for -s (overrides stats.workers)")
	fs.Uint64Var(&o.seed, "seed", 0, "generator seed; 0 draws one from OS entropy (overrides dice.seed)")
	fs.StringVar(&o.presetsPath, "presets", "", "preset YAML file or directory (overrides presets.file)")
	fs.StringVar(&o.scriptPath, "script", "", "run a Lua roll macro instead of a formula")
	fs.BoolVar(&o.list, "list", false, "list loaded presets and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: diceroller [flags] <formula|preset>")
		fs.PrintDefaults()
	}
	err := fs.Parse(args)
	return o, fs, err
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func applyOverrides(cfg *config.Config, o options, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Stats.Samples = o.samples
		case "w":
			cfg.Stats.Workers = o.workers
		case "seed":
			cfg.Dice.Seed = o.seed
		case "presets":
			cfg.Presets.File = o.presetsPath
		}
	})
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	start := time.Now()

	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return exitUsage
	}
	applyOverrides(&cfg, o, fs)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "creating logger: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	presets := preset.NewRegistry(cfg.Dice.MaxDice)
	if cfg.Presets.File != "" {
		presets, err = preset.Load(cfg.Presets.File, cfg.Dice.MaxDice)
		if err != nil {
			fmt.Fprintf(stderr, "loading presets: %v\n", err)
			return exitUsage
		}
		logger.Debug("presets loaded", zap.String("path", cfg.Presets.File), zap.Int("count", presets.Len()))
	}

	printer := console.NewPrinter(stdout, cfg.Dice.Color)
	if o.list {
		printer.Presets(presets.All())
		return exitOK
	}

	seed := cfg.Dice.Seed
	if seed == 0 {
		if seed, err = rng.NewSeed(); err != nil {
			fmt.Fprintf(stderr, "seeding generator: %v\n", err)
			return exitInternal
		}
	}
	logger.Debug("generator seeded", zap.Uint64("seed", seed))
	roller := dice.NewLoggedRoller(rng.New(seed), logger, cfg.Dice.MaxDice)

	if o.scriptPath != "" {
		runner := scripting.NewRunner(roller, presets, logger, cfg.Scripting.InstructionLimit)
		runner.SetOutput(stdout)
		if err := runner.RunFile(ctx, o.scriptPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			if ctx.Err() != nil {
				return exitInterrupted
			}
			return exitCode(err)
		}
		return exitOK
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	p := presets.Resolve(fs.Arg(0))
	advantage := o.advantage || p.Advantage
	disadvantage := o.disadvantage || p.Disadvantage

	if o.statistics {
		report, err := stats.NewRunner(logger).Run(ctx, stats.Options{
			Formula:      p.Formula,
			Samples:      cfg.Stats.Samples,
			Workers:      cfg.Stats.Workers,
			Seed:         seed,
			Advantage:    advantage,
			Disadvantage: disadvantage,
			MaxDice:      cfg.Dice.MaxDice,
		})
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitCode(err)
		}
		printer.Stats(report)
		return exitOK
	}

	if !o.resultOnly {
		printer.Processing(p.Formula)
	}
	req := dice.Request{
		Policy:       dice.PolicyRandom,
		Advantage:    advantage,
		Disadvantage: disadvantage,
	}
	if o.verbose {
		req.Observer = printer.Tracer()
	}
	res, err := roller.Evaluate(p.Formula, req)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}
	printer.Result(res.Total, o.resultOnly)

	logger.Info("roll complete",
		zap.String("roll_id", res.ID),
		zap.Int32("total", res.Total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return exitOK
}

// exitCode maps an evaluation error to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return exitInterrupted
	case errors.Is(err, dice.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, dice.ErrElementTooLong):
		return exitElementTooLong
	case errors.Is(err, dice.ErrTooManyDice):
		return exitTooManyDice
	case errors.Is(err, dice.ErrOverflow):
		return exitOverflow
	case errors.Is(err, dice.ErrStackUnderflow):
		return exitStackUnderflow
	case errors.Is(err, dice.ErrEmptyResult):
		return exitEmptyResult
	case errors.Is(err, dice.ErrIndexOutOfBounds):
		return exitInternal
	case errors.Is(err, scripting.ErrScript):
		return exitScript
	default:
		return exitUsage
	}
}

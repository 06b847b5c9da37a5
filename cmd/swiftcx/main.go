package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/swiftcx/internal/cache"
	"github.com/panbanda/swiftcx/internal/output"
	"github.com/panbanda/swiftcx/internal/progress"
	"github.com/panbanda/swiftcx/internal/service/analysis"
	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
	"github.com/panbanda/swiftcx/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// errThresholdExceeded makes the process exit with status 1 without
// printing anything beyond the report itself.
var errThresholdExceeded = errors.New("complexity threshold exceeded")

func init() {
	// -v is taken by --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).RunContext(ctx, args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errThresholdExceeded):
		return 1
	default:
		fmt.Fprintln(stderr, color.RedString("Error: %v", err))
		return 1
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "swiftcx",
		Usage:     "Cyclomatic and cognitive complexity for Swift",
		Version:   version,
		ArgsUsage: "[path...]",
		Writer:    stdout,
		ErrWriter: stderr,
		Description: `swiftcx reports the cyclomatic and cognitive complexity of every function,
initializer, deinitializer and accessor with a body in Swift sources.

With --threshold, only functions at or above the threshold are reported and
the exit status is 1 when any remain.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SWIFTCX_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, xml, xcode, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.IntFlag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Report only functions at or above this complexity and exit 1 if any exist",
			},
			&cli.BoolFlag{
				Name:  "cyclomatic-only",
				Usage: "Show only cyclomatic complexity",
			},
			&cli.BoolFlag{
				Name:  "cognitive-only",
				Usage: "Show only cognitive complexity",
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "Descend into subdirectories",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Regular expression for file paths to skip (repeatable)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of files analyzed in parallel (0 = 2x CPUs)",
			},
			&cli.BoolFlag{
				Name:  "keep-going",
				Usage: "Report files that fail to parse instead of stopping",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose output",
			},
		},
		Action: runAnalyze,
		Commands: []*cli.Command{
			configCmd(),
			cacheCmd(),
			watchCmd(),
			mcpCmd(),
		},
	}
}

// loadConfig loads the file named by --config, then the first config found
// in the working directory, falling back to defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	if path := config.Find("."); path != "" {
		return config.Load(path)
	}
	return config.DefaultConfig(), nil
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.Bool("cyclomatic-only") && c.Bool("cognitive-only") {
		return errors.New("--cyclomatic-only and --cognitive-only are mutually exclusive")
	}
	switch {
	case c.Bool("cyclomatic-only"):
		cfg.Output.Metric = string(output.MetricCyclomatic)
	case c.Bool("cognitive-only"):
		cfg.Output.Metric = string(output.MetricCognitive)
	}

	if c.IsSet("format") {
		cfg.Output.Format = strings.ToLower(c.String("format"))
	}
	if c.IsSet("threshold") {
		if c.Int("threshold") < 0 {
			return fmt.Errorf("threshold must not be negative: %d", c.Int("threshold"))
		}
		cfg.Thresholds.Threshold = c.Int("threshold")
	}
	if c.IsSet("recursive") {
		cfg.Analysis.Recursive = c.Bool("recursive")
	}
	if c.IsSet("workers") {
		cfg.Analysis.Workers = c.Int("workers")
	}
	if c.IsSet("keep-going") {
		cfg.Analysis.KeepGoing = c.Bool("keep-going")
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	return nil
}

// newLogger returns a debug-level text logger on w when verbose, otherwise
// a logger that discards everything.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newService(cfg *config.Config, logger *slog.Logger) (*analysis.Service, error) {
	c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, err
	}
	return analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithCache(c),
		analysis.WithLogger(logger),
	), nil
}

// newFormatter writes to the --output file when given, otherwise to the
// app's writer.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	metric, err := output.ParseMetric(cfg.Output.Metric)
	if err != nil {
		return nil, err
	}
	opts := output.Options{
		Format:         format,
		Metric:         metric,
		Threshold:      cfg.Thresholds.Threshold,
		CyclomaticWarn: cfg.Thresholds.CyclomaticComplexity,
		CognitiveWarn:  cfg.Thresholds.CognitiveComplexity,
		Colored:        cfg.Output.Color && !color.NoColor,
	}
	if path := c.String("output"); path != "" {
		return output.NewFormatter(opts, path)
	}
	return output.NewWriterFormatter(opts, c.App.Writer), nil
}

func runAnalyze(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	logger := newLogger(c.App.ErrWriter, cfg.Output.Verbose)
	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	// Progress only makes sense next to a human-readable report on a terminal.
	hidden := formatter.Format() != output.FormatText || color.NoColor
	barOpts := []progress.Option{progress.WithWriter(c.App.ErrWriter), progress.WithHidden(hidden)}

	spinner := progress.NewSpinner("Scanning files...", barOpts...)
	files, err := svc.Collect(getPaths(c), analysis.CollectOptions{Exclude: c.StringSlice("exclude")})
	spinner.FinishSuccess()
	if err != nil {
		return err
	}
	logger.Info("analyzing files", "count", len(files), "workers", cfg.Analysis.Workers)

	tracker := progress.NewTracker("Analyzing complexity...", len(files), barOpts...)
	report, err := svc.AnalyzeComplexity(c.Context, files, analysis.ComplexityOptions{
		KeepGoing:  cfg.Analysis.KeepGoing,
		OnProgress: tracker.Tick,
	})
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()
	logger.Debug("analysis complete",
		"files", len(report.Results),
		"cached", report.Cached,
		"failed", len(report.Failures.Errors))

	results := report.Results
	threshold := cfg.Thresholds.Threshold
	exceeded := false
	if threshold > 0 {
		exceeded = complexity.ExceedsThreshold(results, threshold)
		results = complexity.FilterByThreshold(results, &threshold)
	}

	if err := formatter.Render(results); err != nil {
		return err
	}

	if report.Failures.HasErrors() {
		for _, failure := range report.Failures.Errors {
			fmt.Fprintln(c.App.ErrWriter, color.YellowString("Warning: %v", failure.Err))
		}
		if len(report.Failures.Errors) > 1 {
			fmt.Fprintln(c.App.ErrWriter, color.YellowString("Warning: %v", report.Failures))
		}
	}

	if exceeded {
		return errThresholdExceeded
	}
	return nil
}

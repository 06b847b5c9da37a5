package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/swiftcx/internal/output"
	"github.com/panbanda/swiftcx/internal/service/analysis"
	"github.com/panbanda/swiftcx/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for Swift file changes and re-analyze",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a changed file is analyzed",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}
	// Each change is reported as a table regardless of the configured format.
	cfg.Output.Format = string(output.FormatText)

	svc, err := newService(cfg, newLogger(c.App.ErrWriter, cfg.Output.Verbose))
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	w, err := watch.New(getPaths(c)[0], changeHandler(svc, formatter),
		watch.WithConfig(cfg),
		watch.WithDebounce(c.Duration("debounce")),
		watch.WithOutput(c.App.Writer, formatter.Colored()),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// changeHandler re-analyzes a changed file and prints its table.
func changeHandler(svc *analysis.Service, formatter *output.Formatter) watch.Handler {
	return func(ctx context.Context, path string) {
		start := time.Now()
		report, err := svc.AnalyzeComplexity(ctx, []string{path}, analysis.ComplexityOptions{})
		if err != nil {
			fmt.Fprintln(formatter.Writer(), color.RedString("Complexity error: %v", err))
			return
		}
		if err := formatter.Render(report.Results); err != nil {
			fmt.Fprintln(formatter.Writer(), color.RedString("Render error: %v", err))
			return
		}
		fmt.Fprintf(formatter.Writer(), "Analyzed in %s\n", time.Since(start).Round(time.Millisecond))
	}
}

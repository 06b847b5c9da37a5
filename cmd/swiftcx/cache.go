package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/swiftcx/internal/cache"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache statistics",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached results",
				Action: runCacheClear,
			},
		},
	}
}

// openCache opens the configured cache directory even when caching is
// disabled for analysis runs.
func openCache(c *cli.Context) (*cache.Cache, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
}

func runCacheStats(c *cli.Context) error {
	cc, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := cc.GetStats()
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(out, "Size: %d bytes\n", stats.TotalSize)
	if stats.Entries > 0 {
		fmt.Fprintf(out, "Oldest: %s\n", stats.OldestAge.Round(time.Second))
		fmt.Fprintf(out, "Newest: %s\n", stats.NewestAge.Round(time.Second))
	}
	return nil
}

func runCacheClear(c *cli.Context) error {
	cc, err := openCache(c)
	if err != nil {
		return err
	}
	if err := cc.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintln(c.App.Writer, color.GreenString("Cache cleared"))
	return nil
}

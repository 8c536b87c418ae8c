package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/quantmind-br/modclean/internal/cache"
	"github.com/quantmind-br/modclean/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCacheCmd(v *viper.Viper, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the module graph cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the cache location and size",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGraphCache(v, flags, func(c *cache.BadgerCache, dir string) error {
				printCacheStats(cmd.OutOrStdout(), dir, c.Stats())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached module graph",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGraphCache(v, flags, func(c *cache.BadgerCache, dir string) error {
				n := c.Size()
				if err := c.Clear(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d cached graph/s from %s\n",
					SuccessStyle.Render("Cleared"), n, dir)
				return nil
			})
		},
	})

	return cmd
}

// withGraphCache opens the configured cache directory for the duration of fn
func withGraphCache(v *viper.Viper, flags *rootFlags, fn func(*cache.BadgerCache, string) error) error {
	cfg, err := config.LoadFrom(v, flags.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := cache.DefaultOptions()
	opts.Directory = cfg.Cache.Directory
	opts.GCInterval = 0
	c, err := cache.NewBadgerCache(opts)
	if err != nil {
		return fmt.Errorf("failed to open cache at %s: %w", cfg.Cache.Directory, err)
	}
	defer c.Close()

	return fn(c, cfg.Cache.Directory)
}

func printCacheStats(w io.Writer, dir string, s cache.Stats) {
	fmt.Fprintln(w, TitleStyle.Render("Module graph cache"))
	fmt.Fprintf(w, "  Directory: %s\n", dir)
	fmt.Fprintf(w, "  Entries: %d\n", s.Entries)
	fmt.Fprintf(w, "  LSM size: %s\n", humanize.Bytes(uint64(s.LSMSize)))
	fmt.Fprintf(w, "  Value log size: %s\n", humanize.Bytes(uint64(s.VlogSize)))
}

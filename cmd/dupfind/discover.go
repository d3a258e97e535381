package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nsavage/dupfind/internal/config"
	"github.com/nsavage/dupfind/internal/engine"
	"github.com/nsavage/dupfind/internal/logging"
	"github.com/nsavage/dupfind/internal/progress"
	"github.com/nsavage/dupfind/internal/removal"
	"github.com/nsavage/dupfind/internal/types"
)

// discoverOptions holds CLI flags for the discover command.
type discoverOptions struct {
	lowerLimitStr      string
	upperLimitStr      string
	excludes           []string
	workers            int
	cacheFile          string
	noProgress         bool
	logFormat          string
	remove             bool
	removeSameFilename bool
	removeParanoid     bool
}

// newDiscoverCmd creates the discover subcommand.
func newDiscoverCmd() *cobra.Command {
	opts := &discoverOptions{logFormat: "console"}

	cmd := &cobra.Command{
		Use:   "discover [paths...]",
		Short: "Find duplicate files by content",
		Long: `Scans the given paths for files with identical content and reports them grouped by hash.

Use one of --remove, --remove-with-same-filename, or --remove-paranoid to delete
duplicates instead of just reporting them. These three flags are mutually exclusive.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return err
			}
			// Flag parsing stops at the first path, so a flag given after it
			// arrives here as an argument.
			for _, arg := range args[1:] {
				if len(arg) > 0 && arg[0] == '-' {
					return fmt.Errorf("flag %q given after the first path", arg)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(args, opts, cmd.Flags().Changed)
		},
	}

	cmd.Flags().StringVarP(&opts.lowerLimitStr, "lower-limit", "l", "1", "Minimum file size (e.g., 100, 1K, 10M, 1G)")
	cmd.Flags().StringVarP(&opts.upperLimitStr, "upper-limit", "u", "", "Maximum file size (unbounded if unset)")
	cmd.Flags().StringSliceVarP(&opts.excludes, "exclude", "e", nil, "Glob patterns to exclude")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Number of hashing workers (0 = auto)")
	cmd.Flags().StringVar(&opts.cacheFile, "cache-file", "", "Path to hash cache file (enables caching)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "console", "Log format: console or json")
	cmd.Flags().BoolVarP(&opts.remove, "remove", "r", false, "Interactively remove duplicates")
	cmd.Flags().BoolVar(&opts.removeSameFilename, "remove-with-same-filename", false, "Remove duplicates sharing a filename with the first entry in their group")
	cmd.Flags().BoolVar(&opts.removeParanoid, "remove-paranoid", false, "Remove duplicates after a byte-for-byte content comparison")
	cmd.MarkFlagsMutuallyExclusive("remove", "remove-with-same-filename", "remove-paranoid")
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runDiscover(paths []string, opts *discoverOptions, changed func(name string) bool) error {
	if err := validateGlobPatterns(opts.excludes); err != nil {
		return fmt.Errorf("invalid --exclude: %w", err)
	}

	lowerLimit, err := parseSize(opts.lowerLimitStr)
	if err != nil {
		return fmt.Errorf("invalid --lower-limit: %w", err)
	}
	upperLimit, err := parseSize(opts.upperLimitStr)
	if err != nil {
		return fmt.Errorf("invalid --upper-limit: %w", err)
	}

	overrides := map[string]any{
		"lower_limit": lowerLimit,
		"upper_limit": upperLimit,
		"workers":     opts.workers,
		"cache_path":  opts.cacheFile,
		"excludes":    opts.excludes,
		"log_format":  opts.logFormat,
	}
	// Only flags given on the command line override config files and env vars.
	for flag, key := range map[string]string{"lower-limit": "lower_limit", "upper-limit": "upper_limit", "workers": "workers", "cache-file": "cache_path", "exclude": "excludes", "log-format": "log_format"} {
		if !changed(flag) {
			delete(overrides, key)
		}
	}
	cfg, err := config.Load(".", overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	format := logging.FormatConsole
	if cfg.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logger := logging.New(format, "info")
	defer func() { _ = logger.Sync() }()

	eng, err := engine.NewBuilder(paths).
		LowerLimit(cfg.LowerLimit).
		UpperLimit(cfg.UpperLimit).
		Excludes(cfg.Excludes...).
		CachePath(cfg.CachePath).
		Workers(cfg.Workers).
		Build()
	if err != nil {
		logger.Fatal("failed to start engine", logging.Error(err))
		return err
	}
	defer func() { _ = eng.Close() }()

	bar := progress.New(!opts.noProgress, -1)
	hook := &cliHook{bar: bar}

	result, err := eng.Discover(context.Background(), nil, hook)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	bar.Finish(progress.ScanStats{Seen: hook.selected, Selected: hook.finalized})

	for _, e := range result.Errors {
		logger.Warn("discovery error", logging.Error(e))
	}
	if result.IsPartial {
		logger.Warn("discovery stopped early; result is partial")
	}

	switch {
	case opts.remove:
		return removal.Interactive(result, os.Stdin, os.Stdout, eng)
	case opts.removeSameFilename:
		printRemovals(result, removal.SameFilename(result, eng))
		return nil
	case opts.removeParanoid:
		printRemovals(result, removal.Paranoid(result, eng))
		return nil
	default:
		printReport(result)
		return nil
	}
}

type cliHook struct {
	bar       *progress.Bar
	selected  int
	finalized int
}

func (h *cliHook) OnFilesSelected(count int) {
	h.selected = count
	h.bar.Describe(progress.ScanStats{Seen: count, Selected: count})
}

func (h *cliHook) OnEntryFinalized(hash string, entry types.FileEntry) {
	h.finalized++
	h.bar.Set(uint64(h.finalized))
}

func printReport(result *types.DiscoveryResult) {
	dups := result.Duplicates()
	if len(dups) == 0 {
		fmt.Println("No duplicate files found.")
		return
	}

	bold := color.New(color.Bold)
	var totalWaste int64

	hashes := make([]string, 0, len(dups))
	for hash := range dups {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	fmt.Println("The following duplicate files have been found:")
	for _, hash := range hashes {
		group := dups[hash]
		bold.Printf("Hash: %s\n", hash)
		paths := group.Paths()
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Printf("-> size: %s, file: %q\n", humanize.Bytes(uint64(group.Size)), p)
		}
		totalWaste += group.Size * int64(len(paths)-1)
	}
	color.Yellow("Duplicate files take up %s of reclaimable space.", humanize.Bytes(uint64(totalWaste)))
}

func printRemovals(result *types.DiscoveryResult, removals []removal.Removal) {
	sizes := make(map[string]int64, len(result.Groups()))
	for _, g := range result.Groups() {
		for _, p := range g.Paths() {
			sizes[p] = g.Size
		}
	}

	stats := progress.RemovalStats{}
	for _, r := range removals {
		if r.Err != nil {
			color.Red("failed to remove %q: %v", r.Path, r.Err)
			continue
		}
		fmt.Printf("Removed %q (duplicate of %q)\n", r.Path, r.DuplicateOf)
		stats.Removed++
		stats.BytesFreed += sizes[r.Path]
	}
	fmt.Println(stats.String())
}

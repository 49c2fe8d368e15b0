package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/synclink/internal/config"
	"github.com/bamsammich/synclink/internal/engine"
	"github.com/bamsammich/synclink/internal/event"
	"github.com/bamsammich/synclink/internal/filter"
	"github.com/bamsammich/synclink/internal/fsys"
	"github.com/bamsammich/synclink/internal/journal"
	"github.com/bamsammich/synclink/internal/snapshot"
	"github.com/bamsammich/synclink/internal/stats"
	"github.com/bamsammich/synclink/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// excludeFlag is a pflag.Value that appends each --exclude to a shared
// filter.Chain, preserving command-line order.
type excludeFlag struct {
	chain *filter.Chain
}

var _ pflag.Value = (*excludeFlag)(nil)

func (*excludeFlag) String() string { return "" }
func (*excludeFlag) Type() string   { return "pattern" }

func (f *excludeFlag) Set(val string) error {
	return f.chain.AddExclude(val)
}

// options holds every root command flag.
type options struct {
	verbose     bool
	quiet       bool
	debug       bool
	dryRun      bool
	showVersion bool
	noHistory   bool
	dumpDir     string
	excludeFrom string
	logFile     string
	sortName    string
	maxOps      int
}

// run executes the CLI and returns the process exit status: 0 on success,
// 1 when the sync itself failed, 2 for unusable arguments or roots.
//
//nolint:revive // cognitive-complexity: CLI entry point wires every concern together
func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "synclink [flags] <source> <destination>",
		Short: "Mirror a directory tree as hard links",
		Long: `synclink makes <destination> a mirror of <source> in which every file and
symlink is a hard link to the corresponding source object. Directories are
created as needed; anything in <destination> that is not in <source> is
removed. Both trees must live on the same filesystem.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "synclink %s\n", version)
				return nil
			}

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyConfigDefaults(cmd, cfg.Defaults, &opts)
			if opts.verbose && opts.quiet {
				return errors.New("--verbose and --quiet are mutually exclusive")
			}
			if opts.maxOps < 0 {
				return fmt.Errorf("invalid --max-ops %d: must not be negative", opts.maxOps)
			}
			alg, err := snapshot.ParseAlgorithm(opts.sortName)
			if err != nil {
				return fmt.Errorf("invalid --sort: %w", err)
			}

			// Configure logging.
			var logFile io.Writer
			if opts.logFile != "" {
				lf, lfErr := os.Create(opts.logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				logFile = lf
			}
			logHandler := ui.NewLogHandler(stderr, ui.LogLevel(opts.verbose, opts.quiet), logFile)
			logger := slog.New(logHandler)
			slog.SetDefault(logger)

			if opts.excludeFrom != "" {
				if err := chain.LoadFile(opts.excludeFrom); err != nil {
					return fmt.Errorf("load exclude file: %w", err)
				}
			}
			if !chain.Empty() {
				logger.Debug("excluding", "patterns", chain.Patterns())
			}

			src, err := canonicalRoot(args[0])
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			dst, err := canonicalRoot(args[1])
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			if err := engine.CheckRoots(fsys.OS{}, src, dst); err != nil {
				return err
			}

			if opts.dryRun {
				logger.Info("dry run mode")
			}

			// Set up context with signal handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			started := time.Now()
			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			isTTY, width := ui.Terminal(stdout)
			presenter := ui.NewPresenter(ui.Config{
				Writer:  stdout,
				Stats:   collector,
				Theme:   ui.NewTheme(cfg.Theme, isTTY),
				Width:   width,
				DryRun:  opts.dryRun,
				Quiet:   opts.quiet,
				Verbose: opts.verbose,
			})

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(events)
			}()

			result := engine.Run(ctx, engine.Config{
				Src:     src,
				Dst:     dst,
				FS:      fsys.OS{},
				Logger:  logger,
				Exclude: chain,
				Sort:    alg,
				DryRun:  opts.dryRun,
				MaxOps:  opts.maxOps,
				Debug:   opts.debug,
				DumpDir: opts.dumpDir,
				Events:  events,
				Stats:   collector,
			})
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
			}

			if !opts.quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(stdout, summary)
				}
			}
			for _, d := range result.Dumps {
				logger.Debug("dump retained", "file", d)
			}
			logger.Debug("run complete", "run", result.RunID,
				"mutations", result.Stats.Mutations(),
				"rate", ui.FormatOpsRate(result.Stats.Mutations(), result.Stats.Elapsed))
			if !opts.noHistory {
				recordRun(logger, journal.Run{
					ID:      result.RunID,
					Started: started,
					Elapsed: time.Since(started),
					Src:     src,
					Dst:     dst,
					DryRun:  opts.dryRun,
					Stats:   result.Stats,
					Err:     errString(result.Err),
				})
			}

			if result.Err != nil {
				logger.Error("sync failed", "error", result.Err, "stats", result.Stats.String())
				return &exitError{code: 1}
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "print version and exit")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every change and debug logs")
	rootCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except warnings and errors")
	rootCmd.Flags().
		BoolVarP(&opts.debug, "debug", "D", false, "retain snapshot dumps of both trees and the deletion queue")
	rootCmd.Flags().
		StringVar(&opts.dumpDir, "dump-dir", "", "directory for snapshot dumps (default: system temp dir)")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would change without touching the destination")
	rootCmd.Flags().
		Var(&excludeFlag{chain: chain}, "exclude", "exclude paths matching gitignore-style PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&opts.excludeFrom, "exclude-from", "", "read exclude patterns from FILE")
	rootCmd.Flags().IntVar(&opts.maxOps, "max-ops", 0, "limit mutating filesystem calls per second (0 = unlimited)")
	rootCmd.Flags().StringVar(&opts.sortName, "sort", "merge", "snapshot sort algorithm (merge or index)")
	rootCmd.Flags().StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record this run in the history journal")

	rootCmd.AddCommand(newInspectCmd(stdout))
	rootCmd.AddCommand(newHistoryCmd(stdout))
	rootCmd.AddCommand(newDocsCmd())

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// canonicalRoot resolves p to an absolute path with every symlink
// evaluated, so the overlap check compares real locations.
func canonicalRoot(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
// An explicit -v or -q also overrides the opposite default.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) {
	verbosity := cmd.Flags().Changed("verbose") || cmd.Flags().Changed("quiet")
	if !verbosity && defaults.Verbose != nil {
		opts.verbose = *defaults.Verbose
	}
	if !verbosity && defaults.Quiet != nil {
		opts.quiet = *defaults.Quiet
	}
	if !cmd.Flags().Changed("debug") && defaults.Debug != nil {
		opts.debug = *defaults.Debug
	}
	if !cmd.Flags().Changed("dump-dir") && defaults.DumpDir != nil {
		opts.dumpDir = *defaults.DumpDir
	}
	if !cmd.Flags().Changed("max-ops") && defaults.MaxOps != nil {
		opts.maxOps = *defaults.MaxOps
	}
	if !cmd.Flags().Changed("sort") && defaults.Sort != nil {
		opts.sortName = *defaults.Sort
	}
	if !cmd.Flags().Changed("no-history") && defaults.History != nil {
		opts.noHistory = !*defaults.History
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

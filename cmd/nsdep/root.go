package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/nsdep/cmd/nsdep/commands"
	"github.com/walteh/nsdep/cmd/nsdep/opts"
	"github.com/walteh/nsdep/pkg/config"
	"github.com/walteh/nsdep/pkg/log"
	"github.com/walteh/nsdep/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	cdDir      string
	rootPath   string
	nameGlob   string
	doReset    bool
	doDiff     bool
	doChange   bool
	async      bool
)

// NewRootCmd builds the nsdep command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nsdep",
		Short: "Report and rewrite deprecated ns_* calls in Tcl scripts",
		Long: `nsdep scans a tree of Tcl scripts for calls to deprecated ns_* commands.
By default it only reports findings. With --change it rewrites calls that have
known mechanical replacements, keeping the original of every modified file
next to it as <name>-original. --reset restores those originals and --diff
shows what a rewrite pass changed.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: runRoot,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default probes .nsdep.yaml, .nsdep.hcl)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.Flags().StringVar(&cdDir, "cd", ".", "working directory to change into before anything else")
	cmd.Flags().StringVar(&rootPath, "path", "", `root path for enumeration (default from config, else ".")`)
	cmd.Flags().StringVar(&nameGlob, "name", "", `filename glob (default from config, else "*.tcl")`)
	cmd.Flags().BoolVar(&doReset, "reset", false, "restore originals from backups before anything else")
	cmd.Flags().BoolVar(&doDiff, "diff", false, "print backup-vs-live diffs and exit")
	cmd.Flags().BoolVar(&doChange, "change", false, "rewrite files (default is report only)")
	cmd.Flags().BoolVar(&async, "async", false, "run independent operations concurrently")

	cmd.AddCommand(commands.NewRulesCmd(newRootOpts))

	return cmd
}

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	rs, err := cfg.RuleSet()
	if err != nil {
		return nil, errors.Errorf("building rule set: %w", err)
	}

	return &opts.RootOpts{
		ConfigPath: configFile,
		Config:     cfg,
		Rules:      rs,
	}, nil
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if cdDir != "" {
		if err := os.Chdir(cdDir); err != nil {
			return errors.Errorf("changing directory to %s: %w", cdDir, err)
		}
	}

	ro, err := newRootOpts(ctx)
	if err != nil {
		return err
	}

	root := rootPath
	if root == "" {
		root = ro.Config.Root
	}
	glob := nameGlob
	if glob == "" {
		glob = ro.Config.Name
	}

	console := log.NewConsoleLogger(ctx)
	opOpts := operation.Options{
		Root:    root,
		Glob:    glob,
		Rules:   ro.Rules,
		Out:     cmd.OutOrStdout(),
		Console: console,
	}

	logger := zerolog.Ctx(ctx)

	// reset must complete before diff or scan look at the tree, so the
	// runner goes async only for a lone operation
	var ops []operation.Operation
	if doReset {
		ops = append(ops, operation.NewResetOperation(opOpts))
	}
	if doDiff {
		ops = append(ops, operation.NewDiffOperation(opOpts))
	} else {
		ops = append(ops, operation.NewScanOperation(opOpts, doChange))
	}
	runAsync := (async || ro.Config.Async) && len(ops) == 1

	runner := operation.NewRunner(logger, runAsync)
	if err := runner.Run(ctx, ops...); err != nil {
		return err
	}

	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/nsdep/cmd/nsdep/opts"
	"github.com/walteh/nsdep/pkg/config"
	"github.com/walteh/nsdep/pkg/log"
	"github.com/walteh/nsdep/pkg/remote"
	"github.com/walteh/nsdep/pkg/remote/github"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates the rules command group. load builds the shared root
// options once flags are bound, the same way the root command does.
func NewRulesCmd(load func(ctx context.Context) (*opts.RootOpts, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect or update the migration rule tables",
	}

	cmd.AddCommand(newRulesListCmd(load))
	cmd.AddCommand(newRulesSyncCmd())

	return cmd
}

func newRulesListCmd(load func(ctx context.Context) (*opts.RootOpts, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the active rule tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ro, err := load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			section := color.New(color.Bold, color.FgCyan)

			section.Fprintln(out, "deprecated (no automatic replacement)")
			for _, name := range sortedKeys(ro.Rules.Deprecated) {
				fmt.Fprintf(out, "    %s\n", name)
			}

			section.Fprintln(out, "uncertain future")
			for _, name := range sortedKeys(ro.Rules.Uncertain) {
				fmt.Fprintf(out, "    %s\n", name)
			}

			section.Fprintln(out, "rewrites (applied in order)")
			for _, r := range ro.Rules.Rewrites {
				fmt.Fprintf(out, "    %-20s -> %s\n", r.Name, r.Replace)
			}

			return nil
		},
	}
}

func newRulesSyncCmd() *cobra.Command {
	var (
		repo     string
		ref      string
		repoFile string
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch a shared rules file from GitHub into the local config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.NewConsoleLogger(ctx)

			var fetcher remote.Fetcher = github.NewFetcher()

			owner, name, err := github.SplitRepo(repo)
			if err != nil {
				return err
			}

			data, err := fetcher.GetFile(ctx, owner, name, ref, repoFile)
			if err != nil {
				return errors.Errorf("fetching rules file: %w", err)
			}

			// reject documents the config loader would choke on later
			parser := config.GetParser(repoFile)
			if parser == nil {
				return errors.Errorf("no parser for rules file %s", repoFile)
			}
			if _, err := parser.Parse(ctx, data); err != nil {
				return errors.Errorf("validating fetched rules: %w", err)
			}

			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return errors.Errorf("writing %s: %w", outFile, err)
			}

			console.Successf("synced %s from %s to %s", repoFile, repo, outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository holding the rules file (owner/repo)")
	cmd.Flags().StringVar(&ref, "ref", "", "branch, tag or commit (default: the repository default branch)")
	cmd.Flags().StringVar(&repoFile, "file", ".nsdep.yaml", "path of the rules file within the repository")
	cmd.Flags().StringVar(&outFile, "out", ".nsdep.yaml", "local path to write the rules file to")
	cmd.MarkFlagRequired("repo")

	return cmd
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

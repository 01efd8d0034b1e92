package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fardream/gitsquash/svc"
)

func main() {
	newRootCmd().Execute()
}

type rootCmd struct {
	*cobra.Command

	configPath string
	repoPath   string
	dryRun     bool
}

func newRootCmd() *rootCmd {
	c := &rootCmd{
		Command: &cobra.Command{
			Use:   "gitsquash",
			Short: "squash runs of consecutive commits by author, time, and issue key",
			Args:  cobra.NoArgs,
		},
	}

	c.Flags().StringVarP(&c.configPath, "config", "c", c.configPath, "path to the configuration, embedded defaults when unset")
	c.Flags().StringVar(&c.repoPath, "repo", c.repoPath, "path to the repository, overrides the configuration")
	c.Flags().BoolVarP(&c.dryRun, "dry-run", "n", false, "report eligible groups without rewriting anything")

	c.Run = func(*cobra.Command, []string) {
		c.runSquash()
	}

	c.AddCommand(newContributorsCmd().Command)

	return c
}

func (c *rootCmd) loadConfig() (*svc.Config, error) {
	config := svc.DefaultConfig()

	if c.configPath != "" {
		file, err := os.ReadFile(c.configPath)
		if err != nil {
			return nil, err
		}
		config, err = svc.ParseConfigYAML(file)
		if err != nil {
			return nil, err
		}
	}

	if c.repoPath != "" {
		config.RepoPath = c.repoPath
	}
	if c.dryRun {
		config.DryRun = true
	}

	return config, nil
}

func (c *rootCmd) runSquash() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config, err := c.loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	driver, err := svc.New(config)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	report, err := driver.Run(ctx)

	closeerr := driver.Close()
	if closeerr != nil {
		slog.Warn("failed to close journal", "error", closeerr)
	}

	if err != nil {
		slog.Error("run aborted, please check the logs for details", "error", err)
		os.Exit(1)
	}

	for _, r := range report.Results {
		fmt.Printf("Commits %v by %v were squashed into:\n%s: %s\n",
			r.Squashed, r.Authors, r.NewCommit, strings.TrimSpace(r.Message))
	}

	fmt.Println("Done squashing commits. Please review the changes before pushing.")
	fmt.Println("If you're satisfied with the changes, you can push all branches to the new repository with:")
	fmt.Println("git push --all <new-repo-url>")

	if len(report.AbortedBranches) > 0 {
		slog.Error("some branches were aborted", "branches", report.AbortedBranches)
		os.Exit(1)
	}
}

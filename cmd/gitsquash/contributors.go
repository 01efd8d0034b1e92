package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fardream/gitsquash"
	"github.com/fardream/gitsquash/cmd"
	"github.com/fardream/gitsquash/svc"
)

// contributorsCmd lists the unique contributors of the repository, after
// alias resolution, so the alias table can be reviewed before a squash run.
type contributorsCmd struct {
	*cobra.Command

	configPath string
	repoPath   string
}

func newContributorsCmd() *contributorsCmd {
	c := &contributorsCmd{
		Command: &cobra.Command{
			Use:   "contributors",
			Short: "list the unique contributors of the repository",
			Args:  cobra.NoArgs,
		},
	}

	c.Flags().StringVarP(&c.configPath, "config", "c", c.configPath, "path to the configuration")
	c.Flags().StringVar(&c.repoPath, "repo", c.repoPath, "path to the repository")

	c.Run = func(*cobra.Command, []string) {
		c.list()
	}

	return c
}

func (c *contributorsCmd) list() {
	config := svc.DefaultConfig()
	if c.configPath != "" {
		config = cmd.GetOrPanic(svc.ParseConfigYAML(cmd.GetOrPanic(os.ReadFile(c.configPath))))
	}
	if c.repoPath != "" {
		config.RepoPath = c.repoPath
	}

	session := cmd.GetOrPanic(svc.OpenSession(config.RepoPath))

	contributors := cmd.GetOrPanic(session.Contributors(gitsquash.NewAliasTable(config.Aliases)))

	for _, v := range contributors {
		if v.Canonical != "" && v.Canonical != v.Name+" <"+v.Email+">" {
			fmt.Printf("%s <%s> -> %s\n", v.Name, v.Email, v.Canonical)
			continue
		}
		fmt.Printf("%s <%s>\n", v.Name, v.Email)
	}
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lode/internal/app"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/engine/solver"
)

func (c *CLI) newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Resolve the workspace and write the lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := lockOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Lock(cmd.Context(), ".", opts)
		},
	}
	addResolveFlags(cmd)
	return cmd
}

func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("lowest-direct", false, "Pin direct requirements to their lowest satisfying versions")
	cmd.Flags().Bool("prerelease", false, "Allow pre-release versions for all packages")
	cmd.Flags().StringSlice("allow-prerelease", nil, "Allow pre-release versions for the named packages")
}

func lockOptions(cmd *cobra.Command) (app.Options, error) {
	opts := app.Options{}

	if lowest, _ := cmd.Flags().GetBool("lowest-direct"); lowest {
		opts.Mode = solver.ModeLowestDirect
	}
	if all, _ := cmd.Flags().GetBool("prerelease"); all {
		opts.Prereleases.AllowAll = true
	}
	names, _ := cmd.Flags().GetStringSlice("allow-prerelease")
	if len(names) > 0 {
		opts.Prereleases.Allow = make(map[domain.PackageName]bool, len(names))
		for _, n := range names {
			opts.Prereleases.Allow[domain.NormalizeName(n)] = true
		}
	}
	return opts, nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the workspace and print the result without writing the lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := lockOptions(cmd)
			if err != nil {
				return err
			}
			resolution, err := c.app.Resolve(cmd.Context(), ".", opts)
			if err != nil {
				return err
			}
			for _, name := range resolution.Names() {
				entry := resolution.Get(name)
				fmt.Printf("%s %s (%s)\n", name, entry.Candidate.Version, entry.GroupList())
			}
			return nil
		},
	}
	addResolveFlags(cmd)
	return cmd
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newWhyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "why <package>",
		Short: "Explain why a package is in the lockfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := c.app.Why(cmd.Context(), ".", args[0])
			if err != nil {
				return err
			}
			for i, line := range lines {
				fmt.Printf("%s%s\n", strings.Repeat("  ", i), line)
			}
			return nil
		},
	}
}

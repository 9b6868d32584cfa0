package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the lockfile is still fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			member, _ := cmd.Flags().GetString("member")
			if member != "" {
				data, err := c.app.MemberLock(cmd.Context(), ".", member)
				if err != nil {
					return err
				}
				cmd.Print(string(data))
				return nil
			}

			status, err := c.app.Check(cmd.Context(), ".")
			if err != nil {
				return err
			}
			if !status.Fresh {
				return zerr.With(zerr.Wrap(domain.ErrStaleLock, "lockfile is stale"), "reason", status.Reason)
			}
			fmt.Println("lockfile is up to date")
			return nil
		},
	}
	cmd.Flags().String("member", "", "Print the lock projection for one workspace member instead")
	return cmd
}

package cmd

import (
	"context"
	"fmt"

	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/spf13/cobra"
)

func newClearCmd(root *rootParams) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every memory and knowledge record of the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, root, func(ctx context.Context, engine *aiagents.Engine) error {
				if err := engine.Clear(ctx, root.OwnerID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "cleared owner %d\n", root.OwnerID)
				return err
			})
		},
	}
}

package cmd

import (
	"context"
	"strings"

	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/spf13/cobra"
)

func newRetrieveCmd(root *rootParams) *cobra.Command {
	var maxResults int
	cmd := &cobra.Command{
		Use:   "retrieve <query>",
		Short: "Run the retrieval workflow for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, root, func(ctx context.Context, engine *aiagents.Engine) error {
				result, err := engine.Retrieve(ctx, strings.Join(args, " "), root.OwnerID, maxResults)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), root.Output, result)
			})
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 5, "Maximum number of memories returned")
	return cmd
}

package cmd

import (
	"context"

	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/spf13/cobra"
)

func newStoreCmd(root *rootParams) *cobra.Command {
	var conversationID string
	cmd := &cobra.Command{
		Use:   "store <utterance> <response>",
		Short: "Store one conversational exchange",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, root, func(ctx context.Context, engine *aiagents.Engine) error {
				result, err := engine.Store(ctx, args[0], args[1], root.OwnerID, conversationID)
				if err != nil {
					return err
				}
				if err := printResult(cmd.OutOrStdout(), root.Output, result); err != nil {
					return err
				}
				if !result.Success {
					return errors.Errorf("store failed: %v", result.Errors)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "Conversation id, generated when empty")
	return cmd
}

package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/spf13/cobra"
)

func newIndexCmd(root *rootParams) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "index [text]",
		Short: "Extract entities and relationships from text and index them",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if file != "" {
				var (
					b   []byte
					err error
				)
				if file == "-" {
					b, err = io.ReadAll(cmd.InOrStdin())
				} else {
					b, err = os.ReadFile(file)
				}
				if err != nil {
					return errors.Wrapf(err, "failed to read %s", file)
				}
				text = string(b)
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("text or --file is required")
			}

			return withEngine(cmd, root, func(ctx context.Context, engine *aiagents.Engine) error {
				stats, err := engine.IndexKnowledge(ctx, root.OwnerID, text)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), root.Output, stats)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from a file, - for stdin")
	return cmd
}

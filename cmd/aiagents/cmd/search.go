package cmd

import (
	"context"
	"strings"

	"github.com/mokiat/gog"
	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/spf13/cobra"
)

func newSearchCmd(root *rootParams) *cobra.Command {
	params := &struct {
		Provider          string
		MaxResults        int
		Knowledge         bool
		Mode              string
		EntityLimit       int
		RelationshipLimit int
		NoExpand          bool
	}{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web through the provider chain, or the knowledge graph with --knowledge",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withEngine(cmd, root, func(ctx context.Context, engine *aiagents.Engine) error {
				if params.Knowledge {
					result, err := engine.HybridSearch(ctx, hybrid.Request{
						Query:             query,
						OwnerID:           root.OwnerID,
						Mode:              hybrid.Mode(params.Mode),
						EntityLimit:       params.EntityLimit,
						RelationshipLimit: params.RelationshipLimit,
						ExpandGraph:       !params.NoExpand,
					})
					if err != nil {
						return err
					}
					return printResult(cmd.OutOrStdout(), root.Output, result)
				}

				results, err := engine.SearchChain().Search(ctx, query, params.MaxResults, params.Provider)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), root.Output, results)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&params.Provider, "provider", "p", "", "Try this provider first")
	flags.IntVarP(&params.MaxResults, "max-results", "n", search.DefaultMaxResults, "Maximum number of web results")
	flags.BoolVarP(&params.Knowledge, "knowledge", "k", false, "Run a hybrid knowledge search instead of a web search")
	flags.StringVar(&params.Mode, "mode", string(hybrid.ModeHybrid), "Knowledge search mode: semantic, graph or hybrid")
	flags.IntVar(&params.EntityLimit, "entities", hybrid.DefaultEntityLimit, "Entity limit for knowledge search")
	flags.IntVar(&params.RelationshipLimit, "relationships", hybrid.DefaultRelationshipLimit, "Relationship limit for knowledge search")
	flags.BoolVar(&params.NoExpand, "no-expand", false, "Disable graph expansion")
	return cmd
}

func newProvidersCmd(root *rootParams) *cobra.Command {
	var probe bool
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Show search providers in fallback order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, root, func(ctx context.Context, engine *aiagents.Engine) error {
				chain := engine.SearchChain()
				if !probe {
					return printResult(cmd.OutOrStdout(), root.Output, chain.Stats())
				}

				probed := chain.TestProviders(ctx)
				type probeResult struct {
					Provider string `json:"provider" yaml:"provider"`
					OK       bool   `json:"ok" yaml:"ok"`
				}
				return printResult(cmd.OutOrStdout(), root.Output, gog.Map(chain.Order(), func(name string) probeResult {
					return probeResult{Provider: name, OK: probed[name]}
				}))
			})
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Run a test query against each available provider")
	return cmd
}

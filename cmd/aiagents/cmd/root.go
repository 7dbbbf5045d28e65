package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-yaml"
	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/spf13/cobra"
)

type rootParams struct {
	ConfigFile string
	OwnerID    int64
	Output     string
	LogLevel   string
}

func newRootCmd() *cobra.Command {
	params := &rootParams{}
	cmd := &cobra.Command{
		Use:           "aiagents",
		Short:         "Hybrid memory retrieval and tool orchestration engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&params.ConfigFile, "config", "c", "", "YAML config file")
	flags.Int64VarP(&params.OwnerID, "owner", "o", 1, "Owner id every read and write is scoped to")
	flags.StringVar(&params.Output, "output", "json", "Output format: json or yaml")
	flags.StringVar(&params.LogLevel, "log-level", "", "Overrides the configured log level")

	cmd.AddCommand(
		newRetrieveCmd(params),
		newStoreCmd(params),
		newSearchCmd(params),
		newProvidersCmd(params),
		newIndexCmd(params),
		newClearCmd(params),
	)

	return cmd
}

// withEngine loads config, builds an engine and hands it to fn. The engine
// is closed when fn returns and the context is cancelled on SIGINT/SIGTERM.
func withEngine(cmd *cobra.Command, params *rootParams, fn func(ctx context.Context, engine *aiagents.Engine) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conf, err := config.Load(params.ConfigFile)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if params.LogLevel != "" {
		conf.Log.LogLevel = params.LogLevel
	}

	logger := mylog.NewLogger(conf.Log.LogLevel, conf.Log.LogHandler)
	logger.Debug("starting aiagents", "vector_backend", conf.Vector.Backend, "graph_enabled", conf.Graph.Enabled)

	engine, err := aiagents.NewEngine(ctx,
		aiagents.WithConfig(conf),
		aiagents.WithLogger(logger),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create engine")
	}
	defer func() {
		if err := engine.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to close engine", "err", err)
		}
	}()

	return fn(ctx, engine)
}

func printResult(w io.Writer, format string, v any) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "yaml":
		out, err = yaml.Marshal(v)
	case "json", "":
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode result")
	}

	_, err = w.Write(out)
	return err
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

// newRootCmd builds the command tree. Each call returns a fresh tree so tests
// can run commands in isolation.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "waste-estimate",
		Short: "Estimate construction waste weight from an estimate document",
		Long: `waste-estimate reads a construction estimate (PDF or extracted text),
finds its removal line items and reports their disposal weight.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(
		newRunCmd(opts),
		newPagesCmd(opts),
		newLexiconCmd(opts),
	)
	return cmd
}

// setup loads config and builds the processor. Logs go to stderr so stdout
// stays machine-readable.
func (o *rootOptions) setup(cmd *cobra.Command) (*common.Config, *core.Processor, *lexicon.Lexicon, *slog.Logger, error) {
	cfg, err := common.LoadConfig(o.configFile)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	} else if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	w := cmd.ErrOrStderr()
	if w == nil {
		w = os.Stderr
	}
	logger := common.NewLogger(cfg.Log, w)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}
	proc, lex, err := core.NewProcessorFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, proc, lex, logger, nil
}
